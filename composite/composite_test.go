package composite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gostructural/featurecut/feature"
)

func TestExpandOrdersByDependency(t *testing.T) {
	a := feature.Feature{ID: "a", Kind: feature.KindCountersink}
	b := feature.Feature{ID: "b", Kind: feature.KindTappedHole}
	f := feature.Feature{
		ID: "composite1", Kind: feature.KindComposite,
		Params: feature.Params{
			SubFeatures: []feature.Feature{b, a}, // declared out of order
			DependsOn:   map[string][]string{"b": {"a"}},
		},
	}

	exp := Expand(f)
	require.Len(t, exp.Features, 2)
	assert.Equal(t, "a", exp.Features[0].ID)
	assert.Equal(t, "b", exp.Features[1].ID)
	assert.Empty(t, exp.Diagnostics)
}

func TestExpandAssignsDeterministicIDs(t *testing.T) {
	f := feature.Feature{
		ID: "composite2", Kind: feature.KindComposite,
		Params: feature.Params{SubFeatures: []feature.Feature{{Kind: feature.KindHole}, {Kind: feature.KindMarking}}},
	}
	exp := Expand(f)
	require.Len(t, exp.Features, 2)
	assert.Equal(t, "composite2/sub0", exp.Features[0].ID)
	assert.Equal(t, "composite2/sub1", exp.Features[1].ID)
}

func TestExpandDetectsCycleAndSkipsOffendingNodes(t *testing.T) {
	f := feature.Feature{
		ID: "composite3", Kind: feature.KindComposite,
		Params: feature.Params{
			SubFeatures: []feature.Feature{{ID: "x", Kind: feature.KindHole}, {ID: "y", Kind: feature.KindHole}},
			DependsOn:   map[string][]string{"x": {"y"}, "y": {"x"}},
		},
	}
	exp := Expand(f)
	assert.Empty(t, exp.Features)
	require.Len(t, exp.Diagnostics, 2)
}

func TestExpandGroupsByKindWhenParallel(t *testing.T) {
	f := feature.Feature{
		ID: "composite4", Kind: feature.KindComposite,
		Params: feature.Params{
			Sequence: feature.SequenceParallel,
			SubFeatures: []feature.Feature{
				{ID: "m1", Kind: feature.KindMarking},
				{ID: "m2", Kind: feature.KindMarking},
				{ID: "h1", Kind: feature.KindHole},
			},
		},
	}
	exp := Expand(f)
	require.Len(t, exp.Groups, 2)
	assert.Len(t, exp.Groups[0], 2)
	assert.Len(t, exp.Groups[1], 1)
}

func TestCountersunkTappedHoleOrdersCountersinkFirst(t *testing.T) {
	anchor := feature.Feature{Position: [3]float32{10, 20, 0}, Face: feature.FaceTop, HasFace: true}
	composite := CountersunkTappedHole("csth1", anchor, 8, 90, 6, 1.0)
	exp := Expand(composite)
	require.Len(t, exp.Features, 2)
	assert.Equal(t, feature.KindCountersink, exp.Features[0].Kind)
	assert.Equal(t, feature.KindTappedHole, exp.Features[1].Kind)
}
