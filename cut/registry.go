package cut

import (
	"fmt"

	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

// Options carries the tunable depth/edge constants the handlers use.
// The "through" and "end" cut depth conventions are calibration values,
// exposed so callers can adjust them per profile family.
type Options struct {
	// ThroughCutFactor multiplies the profile's cross-sectional extent to
	// guarantee a cutter fully spans it regardless of rotation (processor-
	// built cuts, default 1.1).
	ThroughCutFactor float64
	// EndCutFactor is the corresponding multiplier handlers use when
	// building end/notch solids that must clear the profile's end face.
	EndCutFactor float64
	Detect       DetectOptions
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{ThroughCutFactor: 1.1, EndCutFactor: 2.0, Detect: DefaultDetectOptions()}
}

// Context is everything a Handler needs to build a cutter solid for one
// feature.
type Context struct {
	Feature  feature.Feature
	Profile  profile.Profile
	Position resolve.Position3D
	Type     Type
	Options  Options
}

// Handler builds the engine-local cutter mesh for a classified cut
// feature. The pipeline subtracts (or, rarely, unions) the returned mesh
// against the running part mesh via the csg package; Handler
// implementations never apply that boolean themselves (some, such as
// ExteriorCutHandler and PartialNotchHandler, call csg.Apply only to
// assemble the cutter).
type Handler interface {
	Build(ctx Context) (*geom.Mesh, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx Context) (*geom.Mesh, error)

func (f HandlerFunc) Build(ctx Context) (*geom.Mesh, error) { return f(ctx) }

// Registry dispatches a classified Type to its Handler.
type Registry struct {
	handlers map[Type]Handler
}

// NewRegistry returns an empty registry; use NewDefaultRegistry for the
// built-in handler set.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Type]Handler)}
}

// NewDefaultRegistry returns a Registry pre-populated with the built-in
// handlers. TypeNotchPartial routes through NotchPartialHandler, which
// selects among the L-shape/top/bottom/full flavors per contour.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeEndStraight, HandlerFunc(StraightEndHandler))
	r.Register(TypeExteriorCut, HandlerFunc(ExteriorCutHandler))
	r.Register(TypeInteriorCut, HandlerFunc(InteriorCutHandler))
	r.Register(TypePartialNotch, HandlerFunc(PartialNotchHandler))
	r.Register(TypeNotchPartial, HandlerFunc(NotchPartialHandler))
	r.Register(TypeCompoundCut, HandlerFunc(FullCutHandler))
	return r
}

// Register installs (or replaces) the handler for t.
func (r *Registry) Register(t Type, h Handler) {
	r.handlers[t] = h
}

// Dispatch looks up the handler for ctx.Type and builds the cutter.
// An unregistered Type falls back to SimpleCutHandler: a cut type the
// registry has no dedicated handler for still produces a usable, if
// conservative, cutter.
func (r *Registry) Dispatch(ctx Context) (*geom.Mesh, error) {
	h, ok := r.handlers[ctx.Type]
	if !ok {
		return SimpleCutHandler(ctx)
	}
	m, err := h.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("cut: %s handler: %w", ctx.Type, err)
	}
	return m, nil
}
