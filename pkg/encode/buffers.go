package encode

import (
	"encoding/binary"
	"math"
)

// Buffer strides in bytes.
const (
	Vec3Stride  = 12 // 3x float32
	Vec2Stride  = 8  // 2x float32
	IndexStride = 4  // uint32
)

// Buffers holds the little-endian attribute buffers of one mesh. A nil
// buffer was not exported; an empty non-nil buffer was exported with no
// elements.
type Buffers struct {
	Vertices []byte
	Normals  []byte
	UVs      []byte
	Indices  []byte
}

// Stats summarizes an encoded mesh.
type Stats struct {
	// Length is the export vertex count divided by three, truncated.
	// Older engine builds read this value; prefer Vertices.
	Length         int
	Vertices       int
	SourceVertices int
	Splits         int
	Triangles      int
}

// Pack writes the welded mesh into fixed-stride buffers per profile.
// Indices are always written.
func Pack(w *Welded, profile Profile) Buffers {
	var b Buffers
	n := len(w.Vertices)

	if profile.Verts {
		b.Vertices = make([]byte, n*Vec3Stride)
		for i, v := range w.Vertices {
			putVec3(b.Vertices[i*Vec3Stride:], v.Position)
		}
	}
	if profile.Normals {
		b.Normals = make([]byte, n*Vec3Stride)
		for i, v := range w.Vertices {
			putVec3(b.Normals[i*Vec3Stride:], v.Normal)
		}
	}
	if profile.UVs {
		b.UVs = make([]byte, n*Vec2Stride)
		for i, v := range w.Vertices {
			binary.LittleEndian.PutUint32(b.UVs[i*Vec2Stride:], math.Float32bits(v.UV[0]))
			binary.LittleEndian.PutUint32(b.UVs[i*Vec2Stride+4:], math.Float32bits(v.UV[1]))
		}
	}

	b.Indices = make([]byte, len(w.Indices)*IndexStride)
	for i, idx := range w.Indices {
		binary.LittleEndian.PutUint32(b.Indices[i*IndexStride:], idx)
	}
	return b
}

func putVec3(dst []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(dst[8:], math.Float32bits(v[2]))
}
