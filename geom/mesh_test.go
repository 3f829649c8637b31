package geom

import "testing"

func TestBoxBounds(t *testing.T) {
	m := Box(10, 20, 30)
	b := ComputeBounds(m)
	want := Bounds{Min: Vec3{-5, -10, -15}, Max: Vec3{5, 10, 15}}
	if b.Min != want.Min || b.Max != want.Max {
		t.Fatalf("ComputeBounds:\nhave %+v\nwant %+v", b, want)
	}
}

func TestMeshCloneIsDeep(t *testing.T) {
	m := Box(1, 1, 1)
	m.UserData.Cuts = []CutRecord{{ID: "h1", Kind: "hole"}}

	clone := m.Clone()
	clone.Positions[0] = Vec3{99, 99, 99}
	clone.UserData.Cuts[0].ID = "h2"

	if m.Positions[0] == (Vec3{99, 99, 99}) {
		t.Fatal("Clone: mutating the clone mutated the original positions")
	}
	if m.UserData.Cuts[0].ID != "h1" {
		t.Fatal("Clone: mutating the clone mutated the original user data")
	}
}

func TestMergeAppendsCutsAndIndices(t *testing.T) {
	a := Box(10, 10, 10)
	a.UserData.Cuts = []CutRecord{{ID: "a"}}
	b := Box(5, 5, 5)
	b.UserData.Cuts = []CutRecord{{ID: "b"}}

	wantTris := a.TriCount() + b.TriCount()
	a.Merge(b)

	if got := a.TriCount(); got != wantTris {
		t.Fatalf("Merge: TriCount = %d, want %d", got, wantTris)
	}
	if len(a.UserData.Cuts) != 2 {
		t.Fatalf("Merge: len(Cuts) = %d, want 2", len(a.UserData.Cuts))
	}
	for _, idx := range a.Indices {
		if int(idx) >= len(a.Positions) {
			t.Fatalf("Merge: index %d out of range (len positions = %d)", idx, len(a.Positions))
		}
	}
}

func TestRecomputeNormalsUnitLength(t *testing.T) {
	m := Box(2, 4, 6)
	m.Normals = nil
	m.RecomputeNormals()
	for i, n := range m.Normals {
		l := n.Len()
		if l < 0.999 || l > 1.001 {
			t.Fatalf("RecomputeNormals: normal %d has length %f, want ~1", i, l)
		}
	}
}

func TestExtrudePolygonIsClosed(t *testing.T) {
	poly := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	m := ExtrudePolygon(poly, 5)
	if m.TriCount() == 0 {
		t.Fatal("ExtrudePolygon: produced no triangles")
	}
	b := ComputeBounds(m)
	if b.Max[2] != 5 || b.Min[2] != 0 {
		t.Fatalf("ExtrudePolygon: Z bounds = [%f,%f], want [0,5]", b.Min[2], b.Max[2])
	}
}

func TestByteSizeTracksBuffers(t *testing.T) {
	m := Box(1, 1, 1)
	want := int64(len(m.Positions)*12 + len(m.Normals)*12 + len(m.UVs)*8 + len(m.Indices)*4)
	if got := m.ByteSize(); got != want {
		t.Fatalf("ByteSize: have %d, want %d", got, want)
	}
}
