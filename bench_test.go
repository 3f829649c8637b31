package featurecut

import (
	"context"
	"fmt"
	"runtime"
	"testing"

	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/pipeline"
	"github.com/gostructural/featurecut/profile"
)

// ---------------------------------------------------------------------------
// Test fixtures — realistic feature lists at different complexity levels
// ---------------------------------------------------------------------------

func benchProfile() profile.Profile {
	return profile.New("IPE300", "", profile.Dimensions{
		Length: 6000, Height: 300, Width: 150,
		WebThickness: 7.1, FlangeThickness: 10.7,
	})
}

func benchHole(id string, x, y, dia float64) feature.Feature {
	f := feature.Feature{
		ID: id, Kind: feature.KindHole,
		Face: feature.FaceWeb, HasFace: true,
		Params: feature.Params{Diameter: dia},
	}
	f.Position = geom.Vec3{float32(x), float32(y), 0}
	return f
}

func benchMarking(id string, x, y float64, text string) feature.Feature {
	f := feature.Feature{
		ID: id, Kind: feature.KindMarking,
		Face: feature.FaceWeb, HasFace: true,
		Params: feature.Params{Text: text, Size: 10},
	}
	f.Position = geom.Vec3{float32(x), float32(y), 0}
	return f
}

func benchSlot(id string, x, y float64) feature.Feature {
	f := feature.Feature{
		ID: id, Kind: feature.KindSlot,
		Face: feature.FaceWeb, HasFace: true,
		Params: feature.Params{Points: []geom.ContourPoint{
			{X: 0, Y: 0}, {X: 60, Y: 0}, {X: 60, Y: 22}, {X: 0, Y: 22},
		}},
	}
	f.Position = geom.Vec3{float32(x), float32(y), 0}
	return f
}

// featuresSingleHole is the minimal end-to-end case: one web bore.
func featuresSingleHole() []feature.Feature {
	return []feature.Feature{benchHole("h1", 500, 150, 22)}
}

// featuresBoltField is a typical splice plate bolt arrangement: two rows
// of four M22 clearance holes.
func featuresBoltField() []feature.Feature {
	var fs []feature.Feature
	for row := 0; row < 2; row++ {
		for col := 0; col < 4; col++ {
			fs = append(fs, benchHole(
				fmt.Sprintf("b%d_%d", row, col),
				400+float64(col)*90, 100+float64(row)*100, 24))
		}
	}
	return fs
}

// featuresMixedFabrication is a full connection end: bolt field, slotted
// holes, piece markings. Mixed kinds exercise ordering and batching.
func featuresMixedFabrication() []feature.Feature {
	fs := featuresBoltField()
	fs = append(fs,
		benchSlot("s1", 1200, 120),
		benchSlot("s2", 1200, 180),
		benchMarking("m1", 3000, 150, "A-102"),
		benchMarking("m2", 3100, 150, "B7"),
	)
	return fs
}

type featureCase struct {
	name     string
	features func() []feature.Feature
}

var featuresByComplexity = []featureCase{
	{"single_hole", featuresSingleHole},
	{"bolt_field", featuresBoltField},
	{"mixed_fabrication", featuresMixedFabrication},
}

// ---------------------------------------------------------------------------
// End-to-End: full pipeline benchmarks by complexity
// ---------------------------------------------------------------------------

// BenchmarkApply benchmarks full feature application grouped by feature
// list complexity. Each iteration runs against a fresh pipeline so the
// cache starts cold.
func BenchmarkApply(b *testing.B) {
	p := benchProfile()
	for _, fc := range featuresByComplexity {
		b.Run(fc.name, func(b *testing.B) {
			base := StockMesh(p)
			features := fc.features()
			b.ReportAllocs()
			b.ResetTimer()

			var result pipeline.Result
			for i := 0; i < b.N; i++ {
				pl := pipeline.NewDefault()
				result = pl.Apply(context.Background(), base, features, p, pipeline.DefaultOptions())
				if result.Failed > 0 {
					b.Fatalf("apply failed: %v", result.Errors)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}

// BenchmarkApplyWarmCache measures the steady-state cost when every cut
// solid is already cached: the pipeline is reused across iterations and
// primed by one Apply before the timer starts, so no timed iteration pays
// for cutter construction.
func BenchmarkApplyWarmCache(b *testing.B) {
	p := benchProfile()
	base := StockMesh(p)
	features := featuresBoltField()
	pl := pipeline.NewDefault()
	pl.Apply(context.Background(), base, features, p, pipeline.DefaultOptions())
	b.ReportAllocs()
	b.ResetTimer()

	var result pipeline.Result
	for i := 0; i < b.N; i++ {
		result = pl.Apply(context.Background(), base, features, p, pipeline.DefaultOptions())
		if result.Failed > 0 {
			b.Fatalf("apply failed: %v", result.Errors)
		}
	}
	runtime.KeepAlive(result)
}

// BenchmarkApplyUncached measures the same bolt field with the cache
// disabled, isolating the cost the cache saves.
func BenchmarkApplyUncached(b *testing.B) {
	p := benchProfile()
	base := StockMesh(p)
	features := featuresBoltField()
	opts := pipeline.DefaultOptions()
	opts.CacheResults = false
	pl := pipeline.NewDefault()
	b.ReportAllocs()
	b.ResetTimer()

	var result pipeline.Result
	for i := 0; i < b.N; i++ {
		result = pl.Apply(context.Background(), base, features, p, opts)
		if result.Failed > 0 {
			b.Fatalf("apply failed: %v", result.Errors)
		}
	}
	runtime.KeepAlive(result)
}

// ---------------------------------------------------------------------------
// Stage benchmarks
// ---------------------------------------------------------------------------

// BenchmarkStockMesh measures base solid construction alone.
func BenchmarkStockMesh(b *testing.B) {
	p := benchProfile()
	b.ReportAllocs()

	var m *geom.Mesh
	for i := 0; i < b.N; i++ {
		m = StockMesh(p)
	}
	runtime.KeepAlive(m)
}

// BenchmarkValidate measures the pre-flight invariant check on the mixed
// fabrication list.
func BenchmarkValidate(b *testing.B) {
	features := featuresMixedFabrication()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if errs := Validate(features); len(errs) != 0 {
			b.Fatalf("unexpected validation errors: %v", errs)
		}
	}
}
