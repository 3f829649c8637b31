package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

func ipe300() profile.Profile {
	return profile.New("IPE300", "", profile.Dimensions{
		Length: 6000, Height: 300, Width: 150, WebThickness: 7.1, FlangeThickness: 10.7,
	})
}

func plate() profile.Profile {
	return profile.New("Plate", "", profile.Dimensions{Length: 220, Width: 120, Thickness: 15})
}

func TestHoleProcessorSubtractsCylinder(t *testing.T) {
	p := ipe300()
	f := feature.Feature{ID: "h1", Kind: feature.KindHole, Face: feature.FaceWeb, HasFace: true,
		Params: feature.Params{Diameter: 22}}
	f.Position = geom.Vec3{3000, 150, 0}
	pos := resolve.Resolve(p, f)

	base := geom.Box(6000, 300, 150)
	r := NewDefaultRegistry()
	proc, ok := r.Get(feature.KindHole)
	require.True(t, ok)

	result, err := proc.Process(base, f, p, pos)
	require.NoError(t, err)
	assert.Greater(t, result.TriCount(), 0)
	assert.Len(t, result.UserData.Cuts, 1)
	assert.Equal(t, "Hole", result.UserData.Cuts[0].CutType)
}

func TestMarkingProcessorLeavesMeshUnchangedAndRecordsOffset(t *testing.T) {
	p := plate()
	f := feature.Feature{ID: "m1", Kind: feature.KindMarking, Face: feature.FaceTop, HasFace: true,
		Params: feature.Params{Text: "14", Size: 10}}
	f.Position = geom.Vec3{50, 60, 0}
	pos := resolve.Resolve(p, f)

	base := geom.Box(220, 15, 120)
	before := len(base.Positions)

	r := NewDefaultRegistry()
	proc, ok := r.Get(feature.KindMarking)
	require.True(t, ok)

	result, err := proc.Process(base, f, p, pos)
	require.NoError(t, err)
	assert.Equal(t, before, len(result.Positions), "non-engraving marking must not mutate geometry")
	require.Len(t, result.UserData.Markings, 1)

	got := result.UserData.Markings[0].Position
	assert.InDelta(t, -60, got[0], 1e-3)
	assert.InDelta(t, 7.6, got[1], 1e-3)
	assert.InDelta(t, 0, got[2], 1e-3)
}

func TestTappedHoleFallsBackToPlainCylinderForLowThreadCount(t *testing.T) {
	p := ipe300()
	f := feature.Feature{ID: "t1", Kind: feature.KindTappedHole, Face: feature.FaceWeb, HasFace: true,
		Params: feature.Params{NominalDiameter: 10, Depth: 2}}
	f.Position = geom.Vec3{3000, 150, 0}
	pos := resolve.Resolve(p, f)

	base := geom.Box(6000, 300, 150)
	r := NewDefaultRegistry()
	proc, _ := r.Get(feature.KindTappedHole)
	result, err := proc.Process(base, f, p, pos)
	require.NoError(t, err)
	assert.Greater(t, result.TriCount(), 0)
}

func TestBendProcessorRotatesOnlyVerticesPastBendPosition(t *testing.T) {
	p := plate()
	f := feature.Feature{ID: "b1", Kind: feature.KindBend, Params: feature.Params{
		BendAxis: geom.Vec3{0, 0, 1}, BendPosition: 0, Angle: 90,
	}}
	pos := resolve.Position3D{}

	base := geom.Box(10, 2, 2)
	r := NewDefaultRegistry()
	proc, _ := r.Get(feature.KindBend)
	result, err := proc.Process(base, f, p, pos)
	require.NoError(t, err)

	for i, v := range base.Positions {
		if v[0] < 0 {
			assert.InDelta(t, v[0], result.Positions[i][0], 1e-4)
		}
	}
}
