package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Corner is one visit of a face to a vertex.
type Corner struct {
	Vertex int // index into Mesh.Vertices
	Loop   int // global loop index, addresses UV layers
}

// Triangle is a face reduced to three corners, in the source winding.
type Triangle [3]Corner

// Triangulate reduces every face of m to triangles. Triangles keep the
// winding of their face and are emitted in face order. Convex polygons
// come out as a fan around their first corner; concave polygons are
// ear-clipped in the plane of their Newell normal. m is not modified.
func Triangulate(m *Mesh) []Triangle {
	tris := make([]Triangle, 0, m.LoopCount())
	loop := 0
	for _, f := range m.Faces {
		corners := make([]Corner, len(f.Vertices))
		for i, v := range f.Vertices {
			corners[i] = Corner{Vertex: v, Loop: loop + i}
		}
		loop += len(f.Vertices)
		tris = triangulateFace(tris, m.Vertices, corners)
	}
	return tris
}

func triangulateFace(dst []Triangle, verts []Vertex, corners []Corner) []Triangle {
	switch len(corners) {
	case 0, 1, 2:
		return dst
	case 3:
		return append(dst, Triangle{corners[0], corners[1], corners[2]})
	}

	poly := make([]int, len(corners))
	for i, c := range corners {
		poly[i] = c.Vertex
	}
	normal := newellNormal(verts, poly)
	if normal.Len() < 1e-12 {
		return fan(dst, corners)
	}

	pts := project(verts, poly, normal)
	remaining := make([]int, len(corners))
	for i := range remaining {
		remaining[i] = i
	}

	for len(remaining) > 3 {
		clipped := false
		for k := 0; k < len(remaining); k++ {
			// Start at the second corner so convex faces produce a fan.
			i := (k + 1) % len(remaining)
			prev := remaining[(i+len(remaining)-1)%len(remaining)]
			cur := remaining[i]
			next := remaining[(i+1)%len(remaining)]

			if !isEar(pts, remaining, prev, cur, next) {
				continue
			}
			dst = append(dst, Triangle{corners[prev], corners[cur], corners[next]})
			remaining = append(remaining[:i], remaining[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			rest := make([]Corner, len(remaining))
			for i, r := range remaining {
				rest[i] = corners[r]
			}
			return fan(dst, rest)
		}
	}
	return append(dst, Triangle{corners[remaining[0]], corners[remaining[1]], corners[remaining[2]]})
}

func fan(dst []Triangle, corners []Corner) []Triangle {
	for i := 1; i+1 < len(corners); i++ {
		dst = append(dst, Triangle{corners[0], corners[i], corners[i+1]})
	}
	return dst
}

// project drops the dominant axis of normal and orients the resulting 2D
// polygon counter-clockwise.
func project(verts []Vertex, poly []int, normal mgl32.Vec3) []mgl32.Vec2 {
	ax, ay, az := abs32(normal[0]), abs32(normal[1]), abs32(normal[2])
	u, v := 0, 1
	sign := normal[2]
	switch {
	case ax >= ay && ax >= az:
		u, v, sign = 1, 2, normal[0]
	case ay >= az:
		u, v, sign = 2, 0, normal[1]
	}

	pts := make([]mgl32.Vec2, len(poly))
	for i, vi := range poly {
		p := verts[vi].Position
		if sign < 0 {
			pts[i] = mgl32.Vec2{p[v], p[u]}
		} else {
			pts[i] = mgl32.Vec2{p[u], p[v]}
		}
	}
	return pts
}

func isEar(pts []mgl32.Vec2, remaining []int, prev, cur, next int) bool {
	a, b, c := pts[prev], pts[cur], pts[next]
	if cross2(b.Sub(a), c.Sub(b)) <= 0 {
		return false
	}
	for _, r := range remaining {
		if r == prev || r == cur || r == next {
			continue
		}
		if pointInTriangle(pts[r], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c mgl32.Vec2) bool {
	d1 := cross2(b.Sub(a), p.Sub(a))
	d2 := cross2(c.Sub(b), p.Sub(b))
	d3 := cross2(a.Sub(c), p.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

func cross2(a, b mgl32.Vec2) float32 {
	return a[0]*b[1] - a[1]*b[0]
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
