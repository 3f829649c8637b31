// Package processor implements the feature processors: one per
// non-cut feature kind, each exposing the same validate/process contract.
package processor

import (
	"fmt"

	"github.com/gostructural/featurecut/csg"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

// Processor is the per-kind contract: validate a feature against a profile,
// then apply it to a mesh.
type Processor interface {
	Validate(f feature.Feature, p profile.Profile) []*feature.ValidationError
	Process(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error)
}

// ProcessorFunc adapts a pair of plain functions to Processor, for the
// common case of a processor with no state of its own.
type ProcessorFunc struct {
	ValidateFn func(f feature.Feature, p profile.Profile) []*feature.ValidationError
	ProcessFn  func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error)
}

func (p ProcessorFunc) Validate(f feature.Feature, pr profile.Profile) []*feature.ValidationError {
	if p.ValidateFn == nil {
		return nil
	}
	return p.ValidateFn(f, pr)
}

func (p ProcessorFunc) Process(mesh *geom.Mesh, f feature.Feature, pr profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	return p.ProcessFn(mesh, f, pr, pos)
}

// Registry dispatches a Feature.Kind to its Processor.
type Registry struct {
	procs map[feature.Kind]Processor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[feature.Kind]Processor)}
}

// NewDefaultRegistry returns a Registry with every built-in processor
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(feature.KindHole, holeProcessor)
	r.Register(feature.KindTappedHole, tappedHoleProcessor)
	r.Register(feature.KindCountersink, countersinkProcessor)
	r.Register(feature.KindCounterbore, counterboreProcessor)
	r.Register(feature.KindSpotface, spotfaceProcessor)
	r.Register(feature.KindDrillPattern, drillPatternProcessor)
	r.Register(feature.KindSlot, slotProcessor)
	r.Register(feature.KindCutout, cutoutProcessor)
	r.Register(feature.KindContour, contourProcessor)
	r.Register(feature.KindChamfer, chamferProcessor)
	r.Register(feature.KindBevel, bevelProcessor)
	r.Register(feature.KindCoping, copingProcessor)
	r.Register(feature.KindMarking, markingProcessor)
	r.Register(feature.KindText, markingProcessor)
	r.Register(feature.KindWeld, weldProcessor)
	r.Register(feature.KindThread, threadProcessor)
	r.Register(feature.KindBend, bendProcessor)
	return r
}

// Register installs (or replaces) the processor for k.
func (r *Registry) Register(k feature.Kind, p Processor) {
	r.procs[k] = p
}

// Get returns the processor registered for k, if any.
func (r *Registry) Get(k feature.Kind) (Processor, bool) {
	p, ok := r.procs[k]
	return p, ok
}

// CutterFunc builds the oriented cutter solid a geometric processor would
// subtract (or union) against the running mesh, without performing that
// boolean itself. The pipeline's cache lookup keys and stores exactly
// this value: the cut
// solid depends only on (kind, profile dimensions, params, resolved
// position), never on the running mesh's accumulated state, so it is the
// right granularity to cache. A whole post-subtraction Process result
// would depend on every feature applied before it and would almost never
// repeat, defeating the cache entirely.
type CutterFunc func(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error)

// Cutters exposes a CutterFunc for the subset of kinds whose geometry
// separates cleanly from the subtraction step. Kinds absent from this map
// (DrillPattern's multi-cutter sweep, Marking, Bend, Composite) still
// work through Registry.Process directly; the pipeline simply cannot
// cache their cut solids and builds them fresh on every application.
var Cutters = map[feature.Kind]CutterFunc{}

// subtractCutter is the common "drill/cut this solid out of the running
// mesh" step nearly every geometric processor ends with.
func subtractCutter(mesh, cutter *geom.Mesh, op csg.Operation) (*geom.Mesh, error) {
	result, err := csg.Apply(mesh, cutter, op)
	if err != nil {
		return nil, fmt.Errorf("processor: csg: %w", err)
	}
	return result, nil
}

// through returns f.Params.Depth if an explicit blind depth was given,
// otherwise pos.Depth scaled by throughFactor so the cutter fully clears
// the face material.
func through(f feature.Feature, pos resolve.Position3D, throughFactor float64) float64 {
	if f.Params.Depth > 0 {
		return f.Params.Depth
	}
	return pos.Depth * throughFactor
}

// orientCutter rotates and translates a cutter built in local space
// (cylinders and revolved solids along Y, extruded contours along Z) into
// the feature's resolved position and face orientation.
func orientCutter(pos resolve.Position3D, m *geom.Mesh) *geom.Mesh {
	t := geom.Transform{Translation: pos.Position, Rotation: pos.Rotation, Scale: geom.Vec3{1, 1, 1}}
	return geom.ApplyMesh(m, t)
}

// attachCut appends a CutRecord describing one applied feature to the
// mesh's UserData. bounds should already be expressed in the
// result mesh's own frame.
func attachCut(mesh *geom.Mesh, f feature.Feature, pos resolve.Position3D, bounds geom.Bounds, cutType string, failed bool) {
	rec := geom.CutRecord{
		ID:      f.ID,
		Kind:    f.Kind.String(),
		Face:    pos.Face.String(),
		Bounds:  bounds,
		Depth:   float32(pos.Depth),
		Angle:   float32(f.Params.Angle),
		CutType: cutType,
	}
	if failed {
		rec.CSGFailed = true
		rec.Explanation = "csg operation produced a degenerate result"
	}
	if len(f.Params.Points) > 0 {
		rec.ContourPoints = make([]geom.Vec2, len(f.Params.Points))
		for i, p := range f.Params.Points {
			rec.ContourPoints[i] = geom.Vec2{p.X, p.Y}
		}
	}
	mesh.UserData.Cuts = append(mesh.UserData.Cuts, rec)
}

// featureBounds derives the sidecar bounds: from the feature's
// contour points with no margin when points exist, otherwise from the
// resolved position with a 25mm margin.
func featureBounds(f feature.Feature, pos resolve.Position3D) geom.Bounds {
	if len(f.Params.Points) > 0 {
		b := geom.EmptyBounds()
		for _, p := range f.Params.Points {
			b = b.Expand(geom.Vec3{p.X, p.Y, 0})
		}
		return b
	}
	return geom.EmptyBounds().Expand(pos.Position).Pad(25)
}
