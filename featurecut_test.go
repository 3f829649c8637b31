package featurecut

import (
	"context"
	"testing"

	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/pipeline"
	"github.com/gostructural/featurecut/profile"
)

func testProfile() profile.Profile {
	return profile.New("IPE300", "", profile.Dimensions{
		Length: 6000, Height: 300, Width: 150,
		WebThickness: 7.1, FlangeThickness: 10.7,
	})
}

func webHole(id string, x, y float64, dia float64) feature.Feature {
	f := feature.Feature{
		ID:      id,
		Kind:    feature.KindHole,
		Face:    feature.FaceWeb,
		HasFace: true,
		Params:  feature.Params{Diameter: dia},
	}
	f.Position = geom.Vec3{float32(x), float32(y), 0}
	return f
}

// TestApplySingleHole runs the high-level API end to end on one web hole.
func TestApplySingleHole(t *testing.T) {
	t.Cleanup(Teardown)
	p := testProfile()
	base := StockMesh(p)
	before := base.TriCount()

	res := Apply(context.Background(), base, []feature.Feature{webHole("h1", 500, 150, 22)}, p)

	if res.Processed != 1 || res.Failed != 0 {
		t.Fatalf("processed=%d failed=%d, want 1/0 (errors: %v)", res.Processed, res.Failed, res.Errors)
	}
	if len(res.Mesh.UserData.Cuts) != 1 {
		t.Fatalf("got %d sidecar cuts, want 1", len(res.Mesh.UserData.Cuts))
	}
	if res.Mesh.UserData.Cuts[0].ID != "h1" {
		t.Errorf("sidecar id = %q, want %q", res.Mesh.UserData.Cuts[0].ID, "h1")
	}
	if res.Mesh.TriCount() <= before {
		t.Errorf("triangle count did not grow: %d -> %d", before, res.Mesh.TriCount())
	}
}

// TestApplyEmptyFeatureList must return the input mesh untouched.
func TestApplyEmptyFeatureList(t *testing.T) {
	t.Cleanup(Teardown)
	p := testProfile()
	base := StockMesh(p)

	res := Apply(context.Background(), base, nil, p)

	if res.Total != 0 || res.Processed != 0 || res.Failed != 0 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if res.Mesh != base {
		t.Error("empty feature list should return the input mesh")
	}
}

func TestEnsureIDs(t *testing.T) {
	in := []feature.Feature{
		webHole("keep-me", 100, 100, 10),
		webHole("", 200, 100, 10),
		webHole("", 300, 100, 10),
	}
	out := EnsureIDs(in)

	if out[0].ID != "keep-me" {
		t.Errorf("existing id was replaced: %q", out[0].ID)
	}
	if out[1].ID == "" || out[2].ID == "" {
		t.Fatal("empty ids were not assigned")
	}
	if out[1].ID == out[2].ID {
		t.Errorf("assigned ids collide: %q", out[1].ID)
	}
	if in[1].ID != "" {
		t.Error("EnsureIDs mutated its input slice")
	}
}

// TestStockMesh covers the plate fallback: a plate has no Height, so the
// stock's vertical extent comes from Thickness.
func TestStockMesh(t *testing.T) {
	p := profile.New("Plate", "Plate", profile.Dimensions{Length: 220, Width: 120, Thickness: 15})
	m := StockMesh(p)
	b := geom.ComputeBounds(m)
	size := b.Size()
	if size[1] != 15 {
		t.Errorf("plate stock height = %v, want thickness 15", size[1])
	}
	if size[0] != 220 || size[2] != 120 {
		t.Errorf("plate stock footprint = %v x %v, want 220 x 120", size[0], size[2])
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	bad := webHole("h-bad", 500, 150, 0) // diameter must be > 0
	good := webHole("h-good", 500, 150, 22)

	errs := Validate([]feature.Feature{good, bad})
	if len(errs) == 0 {
		t.Fatal("expected a validation error for the zero-diameter hole")
	}
	if errs[0].FeatureID != "h-bad" {
		t.Errorf("error attributed to %q, want %q", errs[0].FeatureID, "h-bad")
	}
}

// TestTeardownDropsDefaultPipeline verifies the default pipeline is
// recreated (with a fresh cache) after Teardown.
func TestTeardownDropsDefaultPipeline(t *testing.T) {
	t.Cleanup(Teardown)
	p := testProfile()
	base := StockMesh(p)

	Apply(context.Background(), base, []feature.Feature{webHole("h1", 500, 150, 22)}, p)
	if s := CacheStats(); s.Misses == 0 {
		t.Fatalf("expected at least one cache miss after first apply, got %+v", s)
	}

	Teardown()
	if s := CacheStats(); s.Entries != 0 || s.Misses != 0 {
		t.Errorf("stats not reset after teardown: %+v", s)
	}
}

// TestApplyWithOptionsBypassesCache checks the CacheResults=false path
// leaves the default cache untouched.
func TestApplyWithOptionsBypassesCache(t *testing.T) {
	t.Cleanup(Teardown)
	p := testProfile()
	base := StockMesh(p)

	opts := pipeline.DefaultOptions()
	opts.CacheResults = false
	res := ApplyWithOptions(context.Background(), base, []feature.Feature{webHole("h1", 500, 150, 22)}, p, opts)

	if res.Processed != 1 {
		t.Fatalf("processed=%d, want 1 (errors: %v)", res.Processed, res.Errors)
	}
	if s := CacheStats(); s.Entries != 0 {
		t.Errorf("cache was populated despite CacheResults=false: %+v", s)
	}
}
