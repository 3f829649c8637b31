package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
)

func ipe300() profile.Profile {
	return profile.New("IPE300", "", profile.Dimensions{
		Length: 6000, Height: 300, Width: 150, WebThickness: 7.1, FlangeThickness: 10.7,
	})
}

func ub254x146() profile.Profile {
	return profile.New("UB254x146", "", profile.Dimensions{
		Length: 4000, Height: 254, Width: 146, WebThickness: 6.8, FlangeThickness: 10.9,
	})
}

func plate() profile.Profile {
	return profile.New("Plate", "", profile.Dimensions{Length: 220, Width: 120, Thickness: 15})
}

func rhs200x100x5() profile.Profile {
	return profile.New("RHS200x100x5", "", profile.Dimensions{
		Length: 3000, Height: 200, Width: 100, WallThickness: 5,
	})
}

func TestApplySingleWebHole(t *testing.T) {
	p := ipe300()
	base := geom.Box(6000, 300, 150)
	f := feature.Feature{ID: "h1", Kind: feature.KindHole, Face: feature.FaceWeb, HasFace: true,
		Params: feature.Params{Diameter: 22}}
	f.Position = geom.Vec3{3000, 150, 0}

	pl := NewDefault()
	res := pl.Apply(context.Background(), base, []feature.Feature{f}, p, DefaultOptions())

	require.Equal(t, 1, res.Processed)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, res.Mesh.UserData.Cuts, 1)
	assert.Equal(t, "Hole", res.Mesh.UserData.Cuts[0].CutType)
	assert.False(t, res.Mesh.UserData.Cuts[0].CSGFailed)
	assert.Greater(t, res.Mesh.TriCount(), 0)
}

func TestApplyPartialNotchOnUBFlange(t *testing.T) {
	p := ub254x146()
	base := geom.Box(4000, 254, 146)
	pts := []geom.ContourPoint{
		{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 30}, {X: 0, Y: 30},
		{X: 3950, Y: 30}, {X: 4000, Y: 30}, {X: 4000, Y: 0}, {X: 3950, Y: 0},
		{X: 25, Y: 15},
	}
	f := feature.Feature{ID: "M1002", Kind: feature.KindNotch, Face: feature.FaceTopFlange, HasFace: true,
		Params: feature.Params{Points: pts}}

	pl := NewDefault()
	res := pl.Apply(context.Background(), base, []feature.Feature{f}, p, DefaultOptions())

	require.Equal(t, 1, res.Processed)
	require.Len(t, res.Mesh.UserData.Cuts, 1)
	assert.Equal(t, "M1002", res.Mesh.UserData.Cuts[0].ID)
}

func TestApplyMarkingOnPlateLeavesGeometryUnchanged(t *testing.T) {
	p := plate()
	base := geom.Box(220, 15, 120)
	before := len(base.Positions)
	f := feature.Feature{ID: "mk1", Kind: feature.KindMarking, Face: feature.FaceTop, HasFace: true,
		Params: feature.Params{Text: "14", Size: 10}}
	f.Position = geom.Vec3{50, 60, 0}

	pl := NewDefault()
	res := pl.Apply(context.Background(), base, []feature.Feature{f}, p, DefaultOptions())

	require.Equal(t, 1, res.Processed)
	assert.Equal(t, before, len(res.Mesh.Positions))
	require.Len(t, res.Mesh.UserData.Markings, 1)
	assert.Equal(t, "14", res.Mesh.UserData.Markings[0].Text)
}

func TestApplyTubeHole(t *testing.T) {
	p := rhs200x100x5()
	base := geom.Box(3000, 200, 100)
	f := feature.Feature{ID: "th1", Kind: feature.KindHole, Face: feature.FaceTop, HasFace: true,
		Params: feature.Params{Diameter: 18}}
	f.Position = geom.Vec3{1500, 50, 0}

	pl := NewDefault()
	res := pl.Apply(context.Background(), base, []feature.Feature{f}, p, DefaultOptions())

	require.Equal(t, 1, res.Processed)
	assert.Greater(t, res.Mesh.TriCount(), 0)
}

func TestApplyReusesCachedCutterOnSecondIdenticalHole(t *testing.T) {
	p := ipe300()
	base := geom.Box(6000, 300, 150)
	f1 := feature.Feature{ID: "h1", Kind: feature.KindHole, Face: feature.FaceWeb, HasFace: true,
		Params: feature.Params{Diameter: 22}}
	f1.Position = geom.Vec3{1000, 150, 0}
	f2 := f1
	f2.ID = "h2"
	f2.Position = geom.Vec3{1000, 150, 0} // identical kind/dims/params/position -> same fingerprint

	pl := NewDefault()
	res := pl.Apply(context.Background(), base, []feature.Feature{f1, f2}, p, DefaultOptions())

	require.Equal(t, 2, res.Processed)
	stats := pl.Cache.Stats()
	assert.Equal(t, int64(1), stats.Hits, "second identical hole must hit the cache")
	assert.GreaterOrEqual(t, stats.Misses, int64(1))
}

func TestApplyCSGCollapseGuardRestoresMesh(t *testing.T) {
	p := plate()
	base := geom.Box(220, 15, 120)
	before := len(base.Positions)

	// A cutter box larger than the base on every axis fully encloses it,
	// forcing Subtract to collapse to zero vertices.
	f := feature.Feature{ID: "enclosing", Kind: feature.KindCutout,
		Params: feature.Params{Points: []geom.ContourPoint{
			{X: -1000, Y: -1000}, {X: 1000, Y: -1000}, {X: 1000, Y: 1000}, {X: -1000, Y: 1000},
		}, Depth: 1000}}

	pl := NewDefault()
	res := pl.Apply(context.Background(), base, []feature.Feature{f}, p, DefaultOptions())

	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, before, len(res.Mesh.Positions), "mesh must be restored on a degenerate CSG result")
	require.Len(t, res.Mesh.UserData.Cuts, 1)
	assert.True(t, res.Mesh.UserData.Cuts[0].CSGFailed)
}

func TestApplyOrdersByComplexityWhenOptimizeOrderEnabled(t *testing.T) {
	hole := feature.Feature{ID: "h1", Kind: feature.KindHole, Face: feature.FaceTop, HasFace: true,
		Params: feature.Params{Diameter: 10}}
	hole.Position = geom.Vec3{50, 60, 0}
	mark := feature.Feature{ID: "mk1", Kind: feature.KindMarking, Face: feature.FaceTop, HasFace: true,
		Params: feature.Params{Text: "A", Size: 5}}
	mark.Position = geom.Vec3{100, 60, 0}

	ordered := orderByComplexity([]feature.Feature{hole, mark})
	require.Len(t, ordered, 2)
	assert.Equal(t, feature.KindMarking, ordered[0].Kind, "marking (score 1) must sort before hole (score 2)")
}

func TestApplyExpandsCompositeSubFeatures(t *testing.T) {
	p := ipe300()
	base := geom.Box(6000, 300, 150)
	composite := feature.Feature{
		ID: "c1", Kind: feature.KindComposite,
		Params: feature.Params{SubFeatures: []feature.Feature{
			{Kind: feature.KindCountersink, Face: feature.FaceWeb, HasFace: true,
				Position: geom.Vec3{1000, 150, 0}, Params: feature.Params{Diameter: 12}},
			{Kind: feature.KindTappedHole, Face: feature.FaceWeb, HasFace: true,
				Position: geom.Vec3{1000, 150, 0}, Params: feature.Params{NominalDiameter: 10}},
		}},
	}

	pl := NewDefault()
	res := pl.Apply(context.Background(), base, []feature.Feature{composite}, p, DefaultOptions())

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, res.Processed)
	require.Len(t, res.Mesh.UserData.Cuts, 2)
	assert.Equal(t, "c1/sub0", res.Mesh.UserData.Cuts[0].ID)
	assert.Equal(t, "c1/sub1", res.Mesh.UserData.Cuts[1].ID)
}

func TestApplyUnknownKindRecordsFeatureLocalError(t *testing.T) {
	p := plate()
	base := geom.Box(220, 15, 120)
	f := feature.Feature{ID: "bad1", Kind: feature.KindUnknown}

	pl := NewDefault()
	res := pl.Apply(context.Background(), base, []feature.Feature{f}, p, DefaultOptions())

	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "bad1", res.Errors[0].FeatureID)
}

func TestApplyCancellationStopsBeforeNextFeature(t *testing.T) {
	p := ipe300()
	base := geom.Box(6000, 300, 150)
	f1 := feature.Feature{ID: "h1", Kind: feature.KindHole, Face: feature.FaceWeb, HasFace: true,
		Params: feature.Params{Diameter: 22}}
	f1.Position = geom.Vec3{1000, 150, 0}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pl := NewDefault()
	res := pl.Apply(ctx, base, []feature.Feature{f1}, p, DefaultOptions())

	assert.True(t, res.Cancelled)
	assert.Equal(t, 0, res.Processed)
}
