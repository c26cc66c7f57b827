package mesh

import (
	"testing"
)

func triangleArea(m *Mesh, tri Triangle) float32 {
	a := m.Vertices[tri[0].Vertex].Position
	b := m.Vertices[tri[1].Vertex].Position
	c := m.Vertices[tri[2].Vertex].Position
	return b.Sub(a).Cross(c.Sub(a)).Z() / 2
}

func TestTriangulate_TrianglePassesThrough(t *testing.T) {
	m := makeMesh([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []int{0, 1, 2})
	tris := Triangulate(m)
	if len(tris) != 1 {
		t.Fatalf("got %d triangles, want 1", len(tris))
	}
	want := Triangle{{Vertex: 0, Loop: 0}, {Vertex: 1, Loop: 1}, {Vertex: 2, Loop: 2}}
	if tris[0] != want {
		t.Errorf("got %v, want %v", tris[0], want)
	}
}

func TestTriangulate_QuadIsFan(t *testing.T) {
	m := makeMesh([][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[]int{0, 1, 2, 3},
	)
	tris := Triangulate(m)
	want := []Triangle{
		{{Vertex: 0, Loop: 0}, {Vertex: 1, Loop: 1}, {Vertex: 2, Loop: 2}},
		{{Vertex: 0, Loop: 0}, {Vertex: 2, Loop: 2}, {Vertex: 3, Loop: 3}},
	}
	if len(tris) != len(want) {
		t.Fatalf("got %d triangles, want %d", len(tris), len(want))
	}
	for i := range want {
		if tris[i] != want[i] {
			t.Errorf("triangle %d = %v, want %v", i, tris[i], want[i])
		}
	}
}

func TestTriangulate_LoopNumberingAcrossFaces(t *testing.T) {
	m := makeMesh([][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[]int{0, 1, 2},
		[]int{0, 2, 3},
	)
	tris := Triangulate(m)
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	for i, c := range tris[1] {
		if c.Loop != 3+i {
			t.Errorf("second face corner %d loop = %d, want %d", i, c.Loop, 3+i)
		}
	}
}

func TestTriangulate_ConcavePolygon(t *testing.T) {
	// L shape, counter-clockwise, area 3.
	m := makeMesh([][3]float32{
		{0, 0, 0}, {2, 0, 0}, {2, 1, 0}, {1, 1, 0}, {1, 2, 0}, {0, 2, 0},
	}, []int{0, 1, 2, 3, 4, 5})

	tris := Triangulate(m)
	if len(tris) != 4 {
		t.Fatalf("got %d triangles, want 4", len(tris))
	}

	var total float32
	for i, tri := range tris {
		area := triangleArea(m, tri)
		if area <= 0 {
			t.Errorf("triangle %d %v has non-positive area %v", i, tri, area)
		}
		total += area
	}
	if total < 2.999 || total > 3.001 {
		t.Errorf("total area = %v, want 3", total)
	}
}

func TestTriangulate_ClockwiseConcavePolygon(t *testing.T) {
	// Same L shape wound clockwise: triangles keep the clockwise winding.
	m := makeMesh([][3]float32{
		{0, 2, 0}, {1, 2, 0}, {1, 1, 0}, {2, 1, 0}, {2, 0, 0}, {0, 0, 0},
	}, []int{0, 1, 2, 3, 4, 5})

	tris := Triangulate(m)
	if len(tris) != 4 {
		t.Fatalf("got %d triangles, want 4", len(tris))
	}
	var total float32
	for i, tri := range tris {
		area := triangleArea(m, tri)
		if area >= 0 {
			t.Errorf("triangle %d %v should keep clockwise winding, area %v", i, tri, area)
		}
		total += area
	}
	if total > -2.999 || total < -3.001 {
		t.Errorf("total area = %v, want -3", total)
	}
}

func TestTriangulate_DegenerateFallsBackToFan(t *testing.T) {
	// All corners collinear: no normal, fan output.
	m := makeMesh([][3]float32{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, []int{0, 1, 2, 3})
	tris := Triangulate(m)
	if len(tris) != 2 {
		t.Fatalf("got %d triangles, want 2", len(tris))
	}
	if tris[0][0].Vertex != 0 || tris[1][0].Vertex != 0 {
		t.Errorf("expected fan around vertex 0, got %v", tris)
	}
}

func TestTriangulate_DoesNotMutate(t *testing.T) {
	m := makeMesh([][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, []int{0, 1, 2, 3})
	Triangulate(m)
	if len(m.Faces) != 1 || len(m.Faces[0].Vertices) != 4 {
		t.Errorf("source mesh was modified: %+v", m.Faces)
	}
}
