// Command featurecut applies a fabrication feature list to a steel
// profile and reports the result.
//
// Usage:
//
//	featurecut [options] <job.json>
//
// Examples:
//
//	featurecut job.json                  # Apply and print the report
//	featurecut -o report.json job.json   # Write the report to a file
//	featurecut -obj piece.obj job.json   # Also dump the cut mesh as OBJ
//
// The job file names a profile (code, material, dimensions in mm) and a
// feature list. Faces may be given either as engine names ("Web",
// "TopFlange") or as single-character DSTV codes ("v", "o", "u", "h",
// "l", "r").
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	featurecut "github.com/gostructural/featurecut"
	"github.com/gostructural/featurecut/dstv"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/pipeline"
	"github.com/gostructural/featurecut/profile"
)

var (
	output      = flag.String("o", "", "report output file (default: stdout)")
	objOut      = flag.String("obj", "", "write the resulting mesh as Wavefront OBJ")
	noCache     = flag.Bool("nocache", false, "disable the geometry cache")
	stopOnError = flag.Bool("strict", false, "abort on the first failing feature")
	versionFlag = flag.Bool("version", false, "print version")
)

// version returns the module version from build info.
func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("featurecut version %s\n", version())
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no job file specified")
		usage()
		os.Exit(1)
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading job file: %v\n", err)
		os.Exit(1)
	}

	var job jobFile
	if err := json.Unmarshal(raw, &job); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing job file: %v\n", err)
		os.Exit(1)
	}

	p, features, err := job.build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in job file: %v\n", err)
		os.Exit(1)
	}

	if errs := featurecut.Validate(features); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "Invalid feature: %v\n", e)
		}
		os.Exit(1)
	}

	opts := pipeline.DefaultOptions()
	opts.CacheResults = !*noCache
	opts.ContinueOnError = !*stopOnError

	base := featurecut.StockMesh(p)
	res := featurecut.ApplyWithOptions(context.Background(), base, features, p, opts)

	if *objOut != "" {
		if err := writeOBJ(*objOut, res.Mesh); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing OBJ: %v\n", err)
			os.Exit(1)
		}
	}

	report, err := json.MarshalIndent(buildReport(p, res), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
		os.Exit(1)
	}
	report = append(report, '\n')

	if *output != "" {
		if err := os.WriteFile(*output, report, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	} else {
		os.Stdout.Write(report)
	}

	if res.Failed > 0 && *stopOnError {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `featurecut - steel fabrication feature engine

Usage:
  featurecut [options] <job.json>

Options:
`)
	flag.PrintDefaults()
}

// ---------------------------------------------------------------------------
// Job file decoding
// ---------------------------------------------------------------------------

type jobFile struct {
	Profile  jobProfile   `json:"profile"`
	Features []jobFeature `json:"features"`
}

type jobProfile struct {
	Code      string  `json:"code"`
	Material  string  `json:"material"`
	Length    float64 `json:"length"`
	Height    float64 `json:"height"`
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	WebThick  float64 `json:"web_thickness"`
	FlangeTh  float64 `json:"flange_thickness"`
	WallThick float64 `json:"wall_thickness"`
}

type jobPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Bulge float64 `json:"bulge"`
}

type jobFeature struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	Face   string    `json:"face"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Z      float64   `json:"z"`
	Params jobParams `json:"params"`
}

type jobParams struct {
	Diameter      float64    `json:"diameter"`
	Depth         float64    `json:"depth"`
	Angle         float64    `json:"angle"`
	SinkAngle     float64    `json:"sink_angle"`
	ChamferLength float64    `json:"chamfer_length"`
	Text          string     `json:"text"`
	Size          float64    `json:"size"`
	Pitch         float64    `json:"pitch"`
	Count         int        `json:"count"`
	Spacing       float64    `json:"spacing"`
	Points        []jobPoint `json:"points"`
}

func (j jobFile) build() (profile.Profile, []feature.Feature, error) {
	p := profile.New(j.Profile.Code, j.Profile.Material, profile.Dimensions{
		Length:          j.Profile.Length,
		Height:          j.Profile.Height,
		Width:           j.Profile.Width,
		Thickness:       j.Profile.Thickness,
		WebThickness:    j.Profile.WebThick,
		FlangeThickness: j.Profile.FlangeTh,
		WallThickness:   j.Profile.WallThick,
	})
	if p.Dimensions.Length <= 0 {
		return p, nil, fmt.Errorf("profile length must be > 0")
	}

	features := make([]feature.Feature, 0, len(j.Features))
	for i, jf := range j.Features {
		f, err := jf.build()
		if err != nil {
			return p, nil, fmt.Errorf("feature %d: %w", i, err)
		}
		features = append(features, f)
	}
	return p, featurecut.EnsureIDs(features), nil
}

func (j jobFeature) build() (feature.Feature, error) {
	kind, ok := kindByName[strings.ToLower(j.Kind)]
	if !ok {
		return feature.Feature{}, fmt.Errorf("unknown kind %q", j.Kind)
	}

	f := feature.Feature{ID: j.ID, Kind: kind}
	f.Position = geom.Vec3{float32(j.X), float32(j.Y), float32(j.Z)}
	if j.Face != "" {
		face, ok := parseFace(j.Face)
		if !ok {
			return feature.Feature{}, fmt.Errorf("unknown face %q", j.Face)
		}
		f.Face = face
		f.HasFace = true
	}

	f.Params = feature.Params{
		Diameter:      j.Params.Diameter,
		Depth:         j.Params.Depth,
		Angle:         j.Params.Angle,
		SinkAngle:     j.Params.SinkAngle,
		ChamferLength: j.Params.ChamferLength,
		Text:          j.Params.Text,
		Size:          j.Params.Size,
		Pitch:         j.Params.Pitch,
		Count:         j.Params.Count,
		Spacing:       j.Params.Spacing,
	}
	for _, pt := range j.Params.Points {
		f.Params.Points = append(f.Params.Points, geom.ContourPoint{
			X: float32(pt.X), Y: float32(pt.Y), Bulge: float32(pt.Bulge),
		})
	}
	return f, nil
}

var kindByName = map[string]feature.Kind{
	"hole":          feature.KindHole,
	"tapped_hole":   feature.KindTappedHole,
	"countersink":   feature.KindCountersink,
	"counterbore":   feature.KindCounterbore,
	"spotface":      feature.KindSpotface,
	"drill_pattern": feature.KindDrillPattern,
	"slot":          feature.KindSlot,
	"cutout":        feature.KindCutout,
	"contour":       feature.KindContour,
	"notch":         feature.KindNotch,
	"cut":           feature.KindCut,
	"chamfer":       feature.KindChamfer,
	"bevel":         feature.KindBevel,
	"coping":        feature.KindCoping,
	"marking":       feature.KindMarking,
	"text":          feature.KindText,
	"weld":          feature.KindWeld,
	"thread":        feature.KindThread,
	"bend":          feature.KindBend,
}

// parseFace accepts engine face names and single-character DSTV codes.
func parseFace(s string) (feature.Face, bool) {
	if len(s) == 1 {
		switch dstv.FaceCode(strings.ToLower(s)[0]) {
		case dstv.FaceWeb:
			return feature.FaceWeb, true
		case dstv.FaceTopFlange:
			return feature.FaceTopFlange, true
		case dstv.FaceBottomFlange:
			return feature.FaceBottomFlange, true
		case dstv.FaceFront:
			// DSTV "h" is ambiguous between Front and Back; the engine
			// resolves it to Back (see the dstv package).
			return feature.FaceBack, true
		case dstv.FaceLeftLeg:
			return feature.FaceLeftLeg, true
		case dstv.FaceRightLeg:
			return feature.FaceRightLeg, true
		}
	}
	for f := feature.FaceWeb; f <= feature.FaceRightLeg; f++ {
		if strings.EqualFold(f.String(), s) {
			return f, true
		}
	}
	return feature.FaceNone, false
}

// ---------------------------------------------------------------------------
// Report and mesh output
// ---------------------------------------------------------------------------

type report struct {
	Profile   string               `json:"profile"`
	Kind      string               `json:"profile_kind"`
	Total     int                  `json:"total"`
	Processed int                  `json:"processed"`
	Failed    int                  `json:"failed"`
	Cancelled bool                 `json:"cancelled,omitempty"`
	TotalMS   float64              `json:"total_ms"`
	AvgMS     float64              `json:"avg_ms"`
	Groups    int                  `json:"groups"`
	Errors    []reportError        `json:"errors,omitempty"`
	Cuts      []geom.CutRecord     `json:"cuts"`
	Markings  []geom.MarkingRecord `json:"markings,omitempty"`
	Vertices  int                  `json:"vertices"`
	Triangles int                  `json:"triangles"`
}

type reportError struct {
	FeatureID string `json:"feature_id"`
	Reason    string `json:"reason"`
}

func buildReport(p profile.Profile, res pipeline.Result) report {
	r := report{
		Profile:   p.Code,
		Kind:      p.Kind.String(),
		Total:     res.Total,
		Processed: res.Processed,
		Failed:    res.Failed,
		Cancelled: res.Cancelled,
		TotalMS:   res.Stats.TotalMS,
		AvgMS:     res.Stats.AvgMS,
		Groups:    res.Stats.Groups,
		Cuts:      res.Mesh.UserData.Cuts,
		Markings:  res.Mesh.UserData.Markings,
		Vertices:  len(res.Mesh.Positions),
		Triangles: res.Mesh.TriCount(),
	}
	for _, e := range res.Errors {
		r.Errors = append(r.Errors, reportError{FeatureID: e.FeatureID, Reason: e.Reason})
	}
	return r
}

// writeOBJ dumps the mesh as a minimal Wavefront OBJ (positions and
// triangles only), enough to eyeball the result in any viewer.
func writeOBJ(path string, m *geom.Mesh) error {
	var sb strings.Builder
	sb.WriteString("# featurecut output\n")
	for _, v := range m.Positions {
		fmt.Fprintf(&sb, "v %g %g %g\n", v[0], v[1], v[2])
	}
	for i := 0; i < m.TriCount(); i++ {
		var a, b, c uint32
		if m.Indices != nil {
			a, b, c = m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
		} else {
			a, b, c = uint32(3*i), uint32(3*i+1), uint32(3*i+2)
		}
		fmt.Fprintf(&sb, "f %d %d %d\n", a+1, b+1, c+1)
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
