// Package composite implements the composite processor: expanding a
// KindComposite feature's declared sub-features into an ordered,
// dependency-respecting list the pipeline can apply one at a time.
package composite

import (
	"fmt"
	"sort"

	"github.com/gostructural/featurecut/feature"
)

// Diagnostic reports a sub-feature the expander could not place in the
// output order, currently only emitted for dependency cycles: the
// offending sub-feature is skipped rather than failing the expansion.
type Diagnostic struct {
	SubFeatureID string
	Message      string
}

// Expansion is Expand's result: Features is the full ordered list ready
// to feed into the pipeline; Groups additionally partitions it into
// same-kind runs when the composite declared SequenceParallel. The
// pipeline applies Features and forms its own same-kind batches; it does
// not read Groups.
type Expansion struct {
	Features    []feature.Feature
	Groups      [][]feature.Feature
	Diagnostics []Diagnostic
}

// Expand flattens f: assign deterministic IDs to
// any sub-feature missing one, topologically sort by DependsOn, drop
// (with a Diagnostic) any sub-feature that sits on a dependency cycle,
// and group by kind when Sequence is Parallel.
func Expand(f feature.Feature) Expansion {
	subs := assignIDs(f)
	if len(subs) == 0 {
		return Expansion{}
	}

	order, diags := topoSort(subs, f.Params.DependsOn)

	exp := Expansion{Features: order, Diagnostics: diags}
	if f.Params.Sequence == feature.SequenceParallel {
		exp.Groups = groupByKind(order)
	}
	return exp
}

// assignIDs returns f's sub-features with every empty ID replaced by a
// deterministic "<composite id>/sub<index>" identifier (sub-feature IDs
// must be stable across re-runs so the
// cache and metadata sidecar key on them consistently).
func assignIDs(f feature.Feature) []feature.Feature {
	subs := make([]feature.Feature, len(f.Params.SubFeatures))
	copy(subs, f.Params.SubFeatures)
	for i := range subs {
		if subs[i].ID == "" {
			subs[i].ID = fmt.Sprintf("%s/sub%d", f.ID, i)
		}
	}
	return subs
}

// topoSort performs a deterministic Kahn's-algorithm sort of subs by the
// id->dependency-ids edges in depends. Ties (nodes with equal in-degree)
// are broken by original slice order, so the result is a pure function
// of the input, not of map iteration order. Any sub-feature left
// unplaced once no more zero-in-degree nodes remain is on a cycle; it is
// reported via a Diagnostic and excluded from the result.
func topoSort(subs []feature.Feature, depends map[string][]string) ([]feature.Feature, []Diagnostic) {
	index := make(map[string]int, len(subs))
	for i, s := range subs {
		index[s.ID] = i
	}

	// inDegree[i] counts how many of subs[i]'s declared dependencies
	// exist among subs; edges pointing outside the sub-feature set are
	// ignored (a dependency on a feature the composite did not declare
	// is not this package's concern).
	inDegree := make([]int, len(subs))
	dependents := make([][]int, len(subs)) // dependents[i] = nodes that depend on i
	for i, s := range subs {
		for _, dep := range depends[s.ID] {
			if j, ok := index[dep]; ok {
				inDegree[i]++
				dependents[j] = append(dependents[j], i)
			}
		}
	}

	var ready []int
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	placed := make([]bool, len(subs))
	var order []feature.Feature
	for len(ready) > 0 {
		sort.Ints(ready)
		i := ready[0]
		ready = ready[1:]
		placed[i] = true
		order = append(order, subs[i])
		for _, j := range dependents[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				ready = append(ready, j)
			}
		}
	}

	var diags []Diagnostic
	for i, s := range subs {
		if !placed[i] {
			diags = append(diags, Diagnostic{
				SubFeatureID: s.ID,
				Message:      "sub-feature participates in a dependency cycle and was skipped",
			})
		}
	}
	return order, diags
}

// groupByKind partitions an already-ordered feature list into maximal
// consecutive runs sharing the same Kind.
func groupByKind(ordered []feature.Feature) [][]feature.Feature {
	if len(ordered) == 0 {
		return nil
	}
	var groups [][]feature.Feature
	start := 0
	for i := 1; i <= len(ordered); i++ {
		if i == len(ordered) || ordered[i].Kind != ordered[start].Kind {
			groups = append(groups, append([]feature.Feature(nil), ordered[start:i]...))
			start = i
		}
	}
	return groups
}
