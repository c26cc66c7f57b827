package encode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrBufferStride is returned when a buffer length is not a multiple of its stride.
var ErrBufferStride = errors.New("buffer length is not a multiple of stride")

// DecodeVec3 decodes a position or normal buffer.
func DecodeVec3(b []byte) ([]mgl32.Vec3, error) {
	if len(b)%Vec3Stride != 0 {
		return nil, fmt.Errorf("%w: %d bytes, stride %d", ErrBufferStride, len(b), Vec3Stride)
	}
	out := make([]mgl32.Vec3, len(b)/Vec3Stride)
	for i := range out {
		o := i * Vec3Stride
		out[i] = mgl32.Vec3{
			math.Float32frombits(binary.LittleEndian.Uint32(b[o:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[o+4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[o+8:])),
		}
	}
	return out, nil
}

// DecodeVec2 decodes a UV buffer.
func DecodeVec2(b []byte) ([]mgl32.Vec2, error) {
	if len(b)%Vec2Stride != 0 {
		return nil, fmt.Errorf("%w: %d bytes, stride %d", ErrBufferStride, len(b), Vec2Stride)
	}
	out := make([]mgl32.Vec2, len(b)/Vec2Stride)
	for i := range out {
		o := i * Vec2Stride
		out[i] = mgl32.Vec2{
			math.Float32frombits(binary.LittleEndian.Uint32(b[o:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[o+4:])),
		}
	}
	return out, nil
}

// DecodeIndices decodes an index buffer.
func DecodeIndices(b []byte) ([]uint32, error) {
	if len(b)%IndexStride != 0 {
		return nil, fmt.Errorf("%w: %d bytes, stride %d", ErrBufferStride, len(b), IndexStride)
	}
	out := make([]uint32, len(b)/IndexStride)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*IndexStride:])
	}
	return out, nil
}
