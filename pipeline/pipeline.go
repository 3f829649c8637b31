// Package pipeline implements the feature batcher: the single public
// entry point that orders, groups, caches and applies a feature list to
// a base mesh, delegating the actual cutter construction to the cut and
// processor packages.
package pipeline

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gostructural/featurecut/cache"
	"github.com/gostructural/featurecut/composite"
	"github.com/gostructural/featurecut/csg"
	"github.com/gostructural/featurecut/cut"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/processor"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

// Options configures one Apply call.
type Options struct {
	// MaxBatchSize bounds how many consecutive same-kind features are
	// grouped without an intermediate bounding-box recompute. Default 50.
	MaxBatchSize int
	// ParallelProcessing allows independent resolution of non-mutating
	// feature kinds (Marking, Text) within a batch. Default false.
	ParallelProcessing bool
	// CacheResults consults the geometry cache before building a cut
	// solid. Default true.
	CacheResults bool
	// OptimizeOrder sorts features by ascending complexity before
	// batching. Default true.
	OptimizeOrder bool
	// ContinueOnError logs and continues past a feature-local failure
	// instead of aborting the whole run. Default true.
	ContinueOnError bool

	Cut cut.Options
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxBatchSize:       50,
		ParallelProcessing: false,
		CacheResults:       true,
		OptimizeOrder:      true,
		ContinueOnError:    true,
		Cut:                cut.DefaultOptions(),
	}
}

// FeatureError pairs a feature-local failure with the feature that
// produced it.
type FeatureError struct {
	FeatureID string
	Reason    string
}

// Stats reports aggregate timing and batching counters.
type Stats struct {
	TotalMS float64
	AvgMS   float64
	Groups  int
}

// Result is Apply's return value.
type Result struct {
	Mesh      *geom.Mesh
	Total     int
	Processed int
	Failed    int
	Errors    []FeatureError
	Stats     Stats
	Cancelled bool
}

// Pipeline wraps the cache and the dispatch registries a
// running apply_features call consults.
type Pipeline struct {
	Cache      *cache.Cache
	CutReg     *cut.Registry
	Processors *processor.Registry
}

// New wraps the given cache and registries.
func New(c *cache.Cache, cutReg *cut.Registry, procs *processor.Registry) *Pipeline {
	return &Pipeline{Cache: c, CutReg: cutReg, Processors: procs}
}

// NewDefault wires the default cache and registries.
func NewDefault() *Pipeline {
	return New(cache.New(cache.DefaultConfig()), cut.NewDefaultRegistry(), processor.NewDefaultRegistry())
}

const maxCompositeDepth = 8

// Apply expands composites, optionally reorders by
// complexity, batch consecutive same-kind runs, and apply each feature in
// turn against mesh.
func (pl *Pipeline) Apply(ctx context.Context, mesh *geom.Mesh, features []feature.Feature, p profile.Profile, opts Options) Result {
	start := time.Now()
	res := Result{Mesh: mesh}

	flat, errs := expandComposites(features, 0)
	res.Errors = append(res.Errors, errs...)

	if opts.OptimizeOrder {
		flat = orderByComplexity(flat)
	}
	res.Total = len(flat)

	batches := batch(flat, opts.MaxBatchSize)
	res.Stats.Groups = len(batches)

	running := mesh
	for _, g := range batches {
		if ctxCancelled(ctx) {
			res.Cancelled = true
			break
		}
		updated, processed, failed, ferrs, stop := pl.applyBatch(ctx, running, g, p, opts)
		running = updated
		res.Processed += processed
		res.Failed += failed
		res.Errors = append(res.Errors, ferrs...)
		if stop {
			break
		}
	}
	res.Mesh = running

	elapsed := time.Since(start)
	res.Stats.TotalMS = float64(elapsed) / float64(time.Millisecond)
	if res.Processed+res.Failed > 0 {
		res.Stats.AvgMS = res.Stats.TotalMS / float64(res.Processed+res.Failed)
	}
	return res
}

func ctxCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// expandComposites replaces every KindComposite feature in the list with
// its expansion, recursively, and reports any cycle diagnostics as
// feature-local errors. depth guards against a composite that
// declares itself (directly or transitively) as a sub-feature.
func expandComposites(features []feature.Feature, depth int) ([]feature.Feature, []FeatureError) {
	var out []feature.Feature
	var errs []FeatureError
	for _, f := range features {
		if f.Kind != feature.KindComposite {
			out = append(out, f)
			continue
		}
		if depth >= maxCompositeDepth {
			errs = append(errs, FeatureError{FeatureID: f.ID, Reason: "composite nesting exceeds maximum depth"})
			continue
		}
		exp := composite.Expand(f)
		for _, d := range exp.Diagnostics {
			errs = append(errs, FeatureError{FeatureID: d.SubFeatureID, Reason: d.Message})
		}
		sub, subErrs := expandComposites(exp.Features, depth+1)
		out = append(out, sub...)
		errs = append(errs, subErrs...)
	}
	return out, errs
}

// complexityScore assigns the fixed ordering score per kind. The hole
// variants share Hole's tier and Contour shares Cutout's. Cut, Weld,
// Thread and Bend are placed at the highest tier: they are either
// free-form contour cuts or mutate the running mesh in ways the cheaper
// tiers never do, so they are deferred behind every other kind.
func complexityScore(k feature.Kind) int {
	switch k {
	case feature.KindMarking, feature.KindText:
		return 1
	case feature.KindHole, feature.KindDrillPattern, feature.KindTappedHole,
		feature.KindCountersink, feature.KindCounterbore, feature.KindSpotface:
		return 2
	case feature.KindChamfer, feature.KindBevel:
		return 3
	case feature.KindSlot, feature.KindNotch:
		return 4
	case feature.KindCutout, feature.KindCoping, feature.KindContour:
		return 5
	default: // Cut, Weld, Thread, Bend, unrecognised kinds
		return 6
	}
}

// orderByComplexity stable-sorts by complexityScore, ties broken by kind
// name.
func orderByComplexity(features []feature.Feature) []feature.Feature {
	out := append([]feature.Feature(nil), features...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := complexityScore(out[i].Kind), complexityScore(out[j].Kind)
		if si != sj {
			return si < sj
		}
		return out[i].Kind.String() < out[j].Kind.String()
	})
	return out
}

// batch groups consecutive same-kind features into runs of at most max.
func batch(features []feature.Feature, max int) [][]feature.Feature {
	if max <= 0 {
		max = 50
	}
	var groups [][]feature.Feature
	start := 0
	for i := 1; i <= len(features); i++ {
		if i == len(features) || features[i].Kind != features[start].Kind || i-start >= max {
			groups = append(groups, features[start:i])
			start = i
		}
	}
	return groups
}

// nonMutating reports the kinds eligible for intra-batch parallelism:
// whose Process call never invokes the CSG evaluator (a Marking with
// Engrave still subtracts, but validating that ahead of time would
// require resolving Params per feature, so it is excluded from this
// static set and always falls back to the sequential path).
func nonMutating(k feature.Kind) bool {
	return k == feature.KindMarking || k == feature.KindText
}

// applyBatch processes one same-kind group sequentially (or, when
// eligible, with independent per-feature resolution computed
// concurrently) and returns the updated mesh plus per-group statistics.
func (pl *Pipeline) applyBatch(ctx context.Context, mesh *geom.Mesh, g []feature.Feature, p profile.Profile, opts Options) (updated *geom.Mesh, processed, failed int, errs []FeatureError, stop bool) {
	if opts.ParallelProcessing && len(g) > 0 && nonMutating(g[0].Kind) {
		return pl.applyNonMutatingBatch(ctx, mesh, g, p, opts)
	}

	running := mesh
	for _, f := range g {
		next, ok, ferr := pl.applyOne(running, f, p, opts)
		// Adopt next even on failure: a degenerate CSG result reverts the
		// geometry but still carries the feature's csg_failed sidecar
		// record; every other failure path returns the input mesh as is.
		running = next
		if !ok {
			failed++
			errs = append(errs, ferr)
			if !opts.ContinueOnError {
				return running, processed, failed, errs, true
			}
			continue
		}
		processed++
	}
	return running, processed, failed, errs, false
}

// applyNonMutatingBatch resolves every feature's position concurrently
// (the only per-feature work Marking/Text do before touching the mesh),
// then folds the resulting records onto the mesh sequentially in the
// batch's original order, so the final mesh is identical to the
// sequential fold regardless of how the resolution work was scheduled
// (any two features producing the same cache key compute or reuse
// identical cut solids regardless of scheduling).
func (pl *Pipeline) applyNonMutatingBatch(ctx context.Context, mesh *geom.Mesh, g []feature.Feature, p profile.Profile, opts Options) (*geom.Mesh, int, int, []FeatureError, bool) {
	positions := make([]resolve.Position3D, len(g))
	grp, _ := errgroup.WithContext(ctx)
	for i, f := range g {
		i, f := i, f
		grp.Go(func() error {
			positions[i] = resolve.Resolve(p, f)
			return nil
		})
	}
	_ = grp.Wait() // resolve.Resolve never errors; Wait only enforces the join

	running := mesh
	var processed, failed int
	var errs []FeatureError
	for i, f := range g {
		next, ok, ferr := pl.applyOneAt(running, f, p, positions[i], opts)
		running = next
		if !ok {
			failed++
			errs = append(errs, ferr)
			if !opts.ContinueOnError {
				return running, processed, failed, errs, true
			}
			continue
		}
		processed++
	}
	return running, processed, failed, errs, false
}

func (pl *Pipeline) applyOne(mesh *geom.Mesh, f feature.Feature, p profile.Profile, opts Options) (*geom.Mesh, bool, FeatureError) {
	pos := resolve.Resolve(p, f)
	return pl.applyOneAt(mesh, f, p, pos, opts)
}

// applyOneAt runs the per-feature validate/build/apply steps for a single feature whose position has
// already been resolved.
func (pl *Pipeline) applyOneAt(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D, opts Options) (*geom.Mesh, bool, FeatureError) {
	if verrs := feature.Validate(f); len(verrs) > 0 {
		return mesh, false, FeatureError{FeatureID: f.ID, Reason: verrs[0].Error()}
	}
	if proc, ok := pl.Processors.Get(f.Kind); ok {
		if verrs := proc.Validate(f, p); len(verrs) > 0 {
			return mesh, false, FeatureError{FeatureID: f.ID, Reason: verrs[0].Error()}
		}
	}

	if builder, ok := processor.Cutters[f.Kind]; ok {
		return pl.applyCacheable(mesh, f, p, pos, opts, builder, cutTypeLabel(f.Kind), csgOpFor(f.Kind))
	}

	switch f.Kind {
	case feature.KindCut, feature.KindNotch:
		return pl.applyCutFeature(mesh, f, p, pos, opts)
	}

	if proc, ok := pl.Processors.Get(f.Kind); ok {
		result, err := proc.Process(mesh, f, p, pos)
		if err != nil {
			return mesh, false, FeatureError{FeatureID: f.ID, Reason: err.Error()}
		}
		return result, true, FeatureError{}
	}

	return mesh, false, FeatureError{FeatureID: f.ID, Reason: "feature has no registered cut handler or processor"}
}

// cutTypeLabel names the sidecar cut_type field for every Cutters-eligible
// kind, matching the labels the processor package's own (uncached)
// Process paths already attach.
func cutTypeLabel(k feature.Kind) string {
	switch k {
	case feature.KindHole:
		return "Hole"
	case feature.KindTappedHole:
		return "TappedHole"
	case feature.KindCountersink:
		return "Countersink"
	case feature.KindCounterbore, feature.KindSpotface:
		return "SteppedBore"
	case feature.KindSlot:
		return "Slot"
	case feature.KindCutout:
		return "Cutout"
	case feature.KindContour:
		return "Contour"
	case feature.KindChamfer:
		return "Chamfer"
	case feature.KindBevel:
		return "Bevel"
	case feature.KindCoping:
		return "Coping"
	case feature.KindWeld:
		return "Weld"
	case feature.KindThread:
		return "Thread"
	default:
		return k.String()
	}
}

// csgOpFor picks the boolean operation a Cutters-eligible kind combines
// its cutter with: Union for Weld's additive bead
// rather than subtractive"), Subtract for everything else.
func csgOpFor(k feature.Kind) csg.Operation {
	if k == feature.KindWeld {
		return csg.Union
	}
	return csg.Subtract
}

// applyCacheable runs the cache-consulting path for a feature whose cutter
// is available as a standalone processor.CutterFunc: compute the
// fingerprint, get-or-create the cutter from the cache, apply the CSG
// operation, and roll back on a degenerate result.
func (pl *Pipeline) applyCacheable(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D, opts Options, build processor.CutterFunc, cutType string, op csg.Operation) (*geom.Mesh, bool, FeatureError) {
	var cutter *geom.Mesh
	if opts.CacheResults {
		key := fingerprintFor(f, p, pos)
		m, err := pl.Cache.GetOrCreate(key, func() (cache.Mesh, error) {
			built, err := build(f, p, pos)
			if err != nil {
				return nil, err
			}
			return meshValue{built}, nil
		})
		if err != nil {
			return mesh, false, FeatureError{FeatureID: f.ID, Reason: err.Error()}
		}
		cutter = m.(meshValue).m
	} else {
		built, err := build(f, p, pos)
		if err != nil {
			return mesh, false, FeatureError{FeatureID: f.ID, Reason: err.Error()}
		}
		cutter = built
	}

	after, err := csg.Apply(mesh, cutter, op)
	if err != nil {
		return mesh, false, FeatureError{FeatureID: f.ID, Reason: err.Error()}
	}

	bounds := featureBounds(f, pos)
	if degenerate(mesh, after) {
		reverted := revertWithFailedRecord(mesh, f, pos, bounds, cutType)
		return reverted, false, FeatureError{FeatureID: f.ID, Reason: "csg collapsed to zero vertices"}
	}
	attach(after, f, pos, bounds, cutType, false)
	return after, true, FeatureError{}
}

// applyCutFeature runs the classify-then-dispatch path for Cut
// and Notch features, which the cut package (rather than processor.Cutters)
// builds cutters for.
func (pl *Pipeline) applyCutFeature(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D, opts Options) (*geom.Mesh, bool, FeatureError) {
	in := cut.Input{
		Points:        f.Params.Points,
		ProfileLength: p.Dimensions.Length,
		ProfileWidth:  p.Dimensions.Width,
	}
	cutKind := cut.Detect(in, opts.Cut.Detect)
	cutCtx := cut.Context{Feature: f, Profile: p, Position: pos, Type: cutKind, Options: opts.Cut}

	var cutter *geom.Mesh
	if opts.CacheResults {
		key := fingerprintFor(f, p, pos)
		m, err := pl.Cache.GetOrCreate(key, func() (cache.Mesh, error) {
			built, err := pl.CutReg.Dispatch(cutCtx)
			if err != nil {
				return nil, err
			}
			return meshValue{built}, nil
		})
		if err != nil {
			return mesh, false, FeatureError{FeatureID: f.ID, Reason: err.Error()}
		}
		cutter = m.(meshValue).m
	} else {
		built, err := pl.CutReg.Dispatch(cutCtx)
		if err != nil {
			return mesh, false, FeatureError{FeatureID: f.ID, Reason: err.Error()}
		}
		cutter = built
	}

	after, err := csg.Apply(mesh, cutter, csg.Subtract)
	if err != nil {
		return mesh, false, FeatureError{FeatureID: f.ID, Reason: err.Error()}
	}

	bounds := featureBounds(f, pos)
	cutType := cutKind.String()
	if degenerate(mesh, after) {
		reverted := revertWithFailedRecord(mesh, f, pos, bounds, cutType)
		return reverted, false, FeatureError{FeatureID: f.ID, Reason: "csg collapsed to zero vertices"}
	}
	attach(after, f, pos, bounds, cutType, false)
	return after, true, FeatureError{}
}

// degenerate reports the CSGDegenerate condition: a result with
// zero vertices where the input mesh had some.
func degenerate(before, after *geom.Mesh) bool {
	return len(after.Positions) == 0 && len(before.Positions) > 0
}

// revertWithFailedRecord restores before (cloned, so the caller's mesh is
// never mutated) and appends a single csg_failed CutRecord, preserving
// the "one entry per applied-or-attempted feature" guarantee even though
// the feature itself counts as failed.
func revertWithFailedRecord(before *geom.Mesh, f feature.Feature, pos resolve.Position3D, bounds geom.Bounds, cutType string) *geom.Mesh {
	reverted := before.Clone()
	attach(reverted, f, pos, bounds, cutType, true)
	return reverted
}

// attach appends one metadata sidecar entry to mesh.
func attach(mesh *geom.Mesh, f feature.Feature, pos resolve.Position3D, bounds geom.Bounds, cutType string, failed bool) {
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

// featureBounds derives the sidecar bounds from the feature's own
// contour points when present, otherwise from its resolved position with
// a 25mm margin.
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
