package resolve

import (
	"testing"

	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
)

// TestResolveIProfileWebHole covers the common case: IPE300, length
// 6000, a web hole anchored at (500, 150).
func TestResolveIProfileWebHole(t *testing.T) {
	p := profile.New("IPE300", "", profile.Dimensions{Length: 6000, Height: 300, WebThickness: 7.1})
	f := feature.Feature{
		Kind: feature.KindHole, Face: feature.FaceWeb, HasFace: true,
		Position: geom.Vec3{500, 150, 0},
		Params:   feature.Params{Diameter: 22},
	}
	pos := Resolve(p, f)
	want := geom.Vec3{500 - 3000, 150 - 150, 0}
	if pos.Position != want {
		t.Fatalf("Resolve: Position = %v, want %v", pos.Position, want)
	}
	if pos.Depth != 7.1 {
		t.Fatalf("Resolve: Depth = %v, want 7.1 (web thickness)", pos.Depth)
	}
}

// TestResolveRectTubeTopHole: RHS200x100x5, a
// hole anchored at (1000, 50) on the Top face.
func TestResolveRectTubeTopHole(t *testing.T) {
	p := profile.New("RHS200x100x5", "", profile.Dimensions{Length: 6000, Height: 200, Width: 100, WallThickness: 5})
	f := feature.Feature{
		Kind: feature.KindHole, Face: feature.FaceTop, HasFace: true,
		Position: geom.Vec3{1000, 50, 0},
		Params:   feature.Params{Diameter: 20},
	}
	pos := Resolve(p, f)
	want := geom.Vec3{1000 - 3000, 100, 0}
	if pos.Position != want {
		t.Fatalf("Resolve: Position = %v, want %v", pos.Position, want)
	}
	if pos.Depth != 5 {
		t.Fatalf("Resolve: Depth = %v, want 5 (wall thickness)", pos.Depth)
	}
}

// TestResolveUnmappedFaceFallsBackToWeb covers the fallback rule: an
// unmappable face reports FaceMapped == false but still resolves to Web.
func TestResolveUnmappedFaceFallsBackToWeb(t *testing.T) {
	p := profile.New("IPE300", "", profile.Dimensions{Length: 6000, Height: 300, WebThickness: 7.1})
	f := feature.Feature{Kind: feature.KindHole, HasFace: false, Position: geom.Vec3{100, 100, 0}}
	pos := Resolve(p, f)
	if pos.FaceMapped {
		t.Fatal("Resolve: FaceMapped = true, want false for an unbound face")
	}
	if pos.Face != feature.FaceWeb {
		t.Fatalf("Resolve: Face = %v, want Web fallback", pos.Face)
	}
}
