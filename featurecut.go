// Package featurecut applies fabrication features to structural steel
// profile meshes.
//
// featurecut consumes a parsed feature stream (holes, slots, notches,
// contour cuts, copings, markings, welds and more, typically decoded from
// DSTV NC-1 blocks by an external parser) and produces a single solid
// mesh in which every feature has been applied as a constructive solid
// geometry operation against the base profile.
//
// The package provides a simple, high-level API for feature application
// as well as lower-level access to the individual stages.
//
// Example usage:
//
//	p := profile.New("IPE300", "", profile.Dimensions{
//	    Length: 6000, Height: 300, Width: 150,
//	    WebThickness: 7.1, FlangeThickness: 10.7,
//	})
//	base := featurecut.StockMesh(p)
//	res := featurecut.Apply(context.Background(), base, features, p)
//	if res.Failed > 0 {
//	    log.Printf("%d features failed: %v", res.Failed, res.Errors)
//	}
//
// For more control, construct a pipeline.Pipeline directly:
//
//	pl := pipeline.New(cache.New(cache.DefaultConfig()),
//	    cut.NewDefaultRegistry(), processor.NewDefaultRegistry())
//	res := pl.Apply(ctx, base, features, p, opts)
package featurecut

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gostructural/featurecut/cache"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/pipeline"
	"github.com/gostructural/featurecut/profile"
)

var (
	defaultMu   sync.Mutex
	defaultPipe *pipeline.Pipeline
)

// Default returns the process-wide default pipeline, creating it on
// first use. It wraps the default geometry cache and the default cut and
// processor registries. Call Teardown to release it.
func Default() *pipeline.Pipeline {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPipe == nil {
		defaultPipe = pipeline.NewDefault()
	}
	return defaultPipe
}

// Teardown clears the default pipeline's cache and drops the pipeline.
// The next Apply call recreates it. Safe to call when Default was never
// used.
func Teardown() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPipe != nil {
		defaultPipe.Cache.Clear()
		defaultPipe = nil
	}
}

// Apply applies features to mesh against profile p using the default
// pipeline and default options.
//
// This is the simplest way to apply a feature list. For custom options
// use ApplyWithOptions; for an isolated cache or registries, build a
// pipeline.Pipeline yourself.
func Apply(ctx context.Context, mesh *geom.Mesh, features []feature.Feature, p profile.Profile) pipeline.Result {
	return ApplyWithOptions(ctx, mesh, features, p, pipeline.DefaultOptions())
}

// ApplyWithOptions applies features to mesh with custom pipeline options.
//
// The application stages are:
//  1. Expand composite features into ordered sub-feature lists
//  2. Order by complexity and group into same-kind batches
//  3. Resolve each feature's face anchor to engine coordinates
//  4. Build (or fetch from cache) the cut solid and apply the boolean
//  5. Attach the metadata sidecar entry to the result mesh
func ApplyWithOptions(ctx context.Context, mesh *geom.Mesh, features []feature.Feature, p profile.Profile, opts pipeline.Options) pipeline.Result {
	return Default().Apply(ctx, mesh, features, p, opts)
}

// EnsureIDs returns a copy of features in which every feature with an
// empty ID has been assigned a fresh random one. Stable IDs are required
// for metadata sidecar entries and error reports to be attributable;
// callers that decode features from sources without identifiers (hand
// written fixture files, generated patterns) run their list through this
// before Apply.
func EnsureIDs(features []feature.Feature) []feature.Feature {
	out := append([]feature.Feature(nil), features...)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

// StockMesh builds the uncut stock solid for p: a box matching the
// profile's bounding section. The cross-section detail (web, flanges,
// legs, wall cavities) is carved by the feature pipeline's face-local
// depths rather than modeled in the stock, so a box is sufficient for
// every profile family the classifier emits.
func StockMesh(p profile.Profile) *geom.Mesh {
	d := p.Dimensions
	h := d.Height
	if h == 0 {
		h = d.Thickness
	}
	w := d.Width
	if w == 0 {
		w = d.Height
	}
	return geom.Box(float32(d.Length), float32(h), float32(w))
}

// Validate runs the feature-level invariant checks on every feature and
// returns the collected errors. The pipeline performs the same checks per
// feature during Apply; calling Validate first lets a caller reject a
// whole list before any geometry work starts.
func Validate(features []feature.Feature) []*feature.ValidationError {
	var errs []*feature.ValidationError
	for _, f := range features {
		errs = append(errs, feature.Validate(f)...)
	}
	return errs
}

// CacheStats returns the default pipeline's cache statistics. Zero-value
// stats are returned when the default pipeline has not been created.
func CacheStats() cache.Stats {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPipe == nil {
		return cache.Stats{}
	}
	return defaultPipe.Cache.Stats()
}
