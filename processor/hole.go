package processor

import (
	"fmt"
	"math"

	"github.com/gostructural/featurecut/csg"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

const throughCutFactor = 1.1 // shared with the cut package's Options default.

// holeCylinder builds a Y-axis cylinder of the given diameter/depth.
// geom.Cylinder is already centered on the origin, so orientCutter
// centers it on pos.Position: the through-thickness midpoint for I-profile
// web and flange faces, the outer surface for plate and tube faces.
func holeCylinder(diameter, depth float64, segments int) *geom.Mesh {
	return geom.Cylinder(float32(diameter/2), float32(depth), segments)
}

func holeBox(w, h, depth float64) *geom.Mesh {
	return geom.Box(float32(w), float32(depth), float32(h))
}

// holeCutterFor builds the oriented hole cutter alone, shared by
// holeProcessor's ProcessFn and the Cutters cache-lookup path so the two
// never drift apart.
func holeCutterFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	depth := through(f, pos, throughCutFactor)
	var cutter *geom.Mesh
	switch f.Params.HoleType {
	case feature.HoleSquare, feature.HoleRectangular:
		w, h := f.Params.Diameter, f.Params.Diameter
		cutter = holeBox(w, h, depth)
	case feature.HoleSlotted:
		spacing := f.Params.Spacing
		if spacing <= 0 {
			spacing = f.Params.Diameter
		}
		cutter = slottedHoleCutter(f.Params.Diameter, spacing, depth)
	default:
		cutter = holeCylinder(f.Params.Diameter, depth, 24)
	}
	return orientCutter(pos, cutter), nil
}

var holeProcessor = ProcessorFunc{
	ValidateFn: func(f feature.Feature, p profile.Profile) []*feature.ValidationError {
		var errs []*feature.ValidationError
		if f.Params.Diameter <= 0 {
			errs = append(errs, &feature.ValidationError{Kind: feature.ErrInvalidParams, FeatureID: f.ID, Message: "hole diameter must be > 0"})
		}
		return errs
	},
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		cutter, err := holeCutterFor(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, cutter, csg.Subtract)
		if err != nil {
			return nil, err
		}
		attachCut(result, f, pos, featureBounds(f, pos), "Hole", len(result.Positions) == 0 && len(mesh.Positions) > 0)
		return result, nil
	},
}

func init() {
	Cutters[feature.KindHole] = holeCutterFor
}

// slottedHoleCutter builds a stadium (two half-cylinders plus a
// rectangle) by extruding a slot-shaped polygon.
func slottedHoleCutter(diameter, spacing, depth float64) *geom.Mesh {
	r := diameter / 2
	poly := geom.Tessellate([]geom.ContourPoint{
		{X: float32(-spacing / 2), Y: float32(-r)},
		{X: float32(spacing / 2), Y: float32(-r), Bulge: 1},
		{X: float32(spacing / 2), Y: float32(r)},
		{X: float32(-spacing / 2), Y: float32(r), Bulge: 1},
	}, 16)
	m := geom.ExtrudePolygon(poly, float32(depth))
	// ExtrudePolygon builds along +Z from 0; rotate so the slot's axis
	// matches holeCylinder's Y axis.
	// Rotating +90 deg about X carries the extrusion's Z in [0, depth]
	// into Y in [-depth, 0]; re-center it to [-depth/2, depth/2] to match
	// holeCylinder's convention.
	m = geom.ApplyMesh(m, geom.Transform{Rotation: geom.Euler{X: float32(math.Pi / 2)}, Scale: geom.Vec3{1, 1, 1}})
	return geom.ApplyMesh(m, geom.Translate(geom.Vec3{0, float32(depth) / 2, 0}))
}

// standardPitches maps nominal metric thread diameter (mm) to coarse
// pitch (mm), ISO 261 coarse series.
var standardPitches = map[float64]float64{
	3: 0.5, 4: 0.7, 5: 0.8, 6: 1.0, 8: 1.25, 10: 1.5,
	12: 1.75, 14: 2.0, 16: 2.0, 18: 2.5, 20: 2.5, 24: 3.0, 30: 3.5,
}

func pitchFor(f feature.Feature, nominal float64) float64 {
	if f.Params.Pitch > 0 {
		return f.Params.Pitch
	}
	if p, ok := standardPitches[nominal]; ok {
		return p
	}
	return nominal * 0.15 // conservative fallback for off-table diameters
}

// tappedHoleCutterFor builds the sawtooth-thread (or plain-cylinder
// fallback) cutter alone.
func tappedHoleCutterFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	D := f.Params.NominalDiameter
	if D == 0 {
		D = f.Params.Diameter
	}
	pitch := pitchFor(f, D)
	depth := through(f, pos, throughCutFactor)
	coreDiameter := D - 1.0825*pitch
	pitchDiameter := D - 0.6495*pitch

	n := 0
	if pitch > 0 {
		n = int(depth / pitch)
	}
	var cutter *geom.Mesh
	if n < 3 {
		cutter = holeCylinder(coreDiameter, depth, 24)
	} else {
		cutter = sawtoothThreadCutter(coreDiameter, pitchDiameter, pitch, n, depth)
	}
	return orientCutter(pos, cutter), nil
}

var tappedHoleProcessor = ProcessorFunc{
	ValidateFn: func(f feature.Feature, p profile.Profile) []*feature.ValidationError {
		var errs []*feature.ValidationError
		if f.Params.NominalDiameter <= 0 && f.Params.Diameter <= 0 {
			errs = append(errs, &feature.ValidationError{Kind: feature.ErrInvalidParams, FeatureID: f.ID, Message: "tapped hole requires nominal_diameter > 0"})
		}
		return errs
	},
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		cutter, err := tappedHoleCutterFor(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, cutter, csg.Subtract)
		if err != nil {
			return nil, err
		}
		attachCut(result, f, pos, featureBounds(f, pos), "TappedHole", false)
		return result, nil
	},
}

func init() {
	Cutters[feature.KindTappedHole] = tappedHoleCutterFor
}

// sawtoothThreadCutter approximates a thread with N alternating rings
// between the core and pitch diameters, spaced one pitch apart — a lathe
// profile revolved about the hole axis.
func sawtoothThreadCutter(coreDiameter, pitchDiameter, pitch float64, n int, depth float64) *geom.Mesh {
	profilePts := make([]geom.Vec2, 0, 2*n+2)
	profilePts = append(profilePts, geom.Vec2{float32(coreDiameter / 2), 0})
	for i := 0; i < n; i++ {
		y := float32(float64(i)*pitch + pitch/2)
		profilePts = append(profilePts, geom.Vec2{float32(pitchDiameter / 2), y})
		profilePts = append(profilePts, geom.Vec2{float32(coreDiameter / 2), y + float32(pitch/2)})
	}
	profilePts = append(profilePts, geom.Vec2{float32(coreDiameter / 2), float32(depth)})
	m := geom.RevolveProfile(profilePts, 24)
	return geom.ApplyMesh(m, geom.Translate(geom.Vec3{0, -float32(depth) / 2, 0}))
}

const defaultSinkAngle = 90 // degrees.

// countersinkCutterFor builds the conical-transition countersink cutter
// alone.
func countersinkCutterFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	sinkAngle := f.Params.SinkAngle
	if sinkAngle <= 0 {
		sinkAngle = defaultSinkAngle
	}
	depth := through(f, pos, throughCutFactor)
	bodyDiameter := f.Params.Diameter
	sinkDiameter := f.Params.Diameter * 1.8
	sinkDepth := (sinkDiameter - bodyDiameter) / 2 / math.Tan(sinkAngle*math.Pi/360)
	if sinkDepth <= 0 || sinkDepth > depth {
		sinkDepth = math.Min(depth*0.3, sinkDiameter/2)
	}
	profilePts := []geom.Vec2{
		{float32(bodyDiameter / 2), 0},
		{float32(bodyDiameter / 2), float32(depth - sinkDepth)},
		{float32(sinkDiameter / 2), float32(depth)},
	}
	m := geom.RevolveProfile(profilePts, 24)
	cutter := geom.ApplyMesh(m, geom.Translate(geom.Vec3{0, -float32(depth) / 2, 0}))
	return orientCutter(pos, cutter), nil
}

var countersinkProcessor = ProcessorFunc{
	ValidateFn: holeProcessor.ValidateFn,
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		cutter, err := countersinkCutterFor(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, cutter, csg.Subtract)
		if err != nil {
			return nil, err
		}
		attachCut(result, f, pos, featureBounds(f, pos), "Countersink", false)
		return result, nil
	},
}

var counterboreProcessor = ProcessorFunc{
	ValidateFn: holeProcessor.ValidateFn,
	ProcessFn:  steppedBoreProcess(0.5, 1.8),
}

var spotfaceProcessor = ProcessorFunc{
	ValidateFn: holeProcessor.ValidateFn,
	ProcessFn:  steppedBoreProcess(0.15, 1.4),
}

// steppedBoreCutterFor builds a two-diameter stepped cylinder: a body
// bore the full depth plus a shallower, wider counterbore/spotface step
// sized relative to the body.
func steppedBoreCutterFor(stepDepthFrac, stepDiameterFactor float64) CutterFunc {
	return func(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		depth := through(f, pos, throughCutFactor)
		bodyDiameter := f.Params.Diameter
		stepDiameter := bodyDiameter * stepDiameterFactor
		stepDepth := depth * stepDepthFrac
		profilePts := []geom.Vec2{
			{float32(bodyDiameter / 2), 0},
			{float32(bodyDiameter / 2), float32(depth - stepDepth)},
			{float32(stepDiameter / 2), float32(depth - stepDepth)},
			{float32(stepDiameter / 2), float32(depth)},
		}
		m := geom.RevolveProfile(profilePts, 24)
		return orientCutter(pos, geom.ApplyMesh(m, geom.Translate(geom.Vec3{0, -float32(depth) / 2, 0}))), nil
	}
}

// steppedBoreProcess adapts a steppedBoreCutterFor builder into a full
// ProcessFn (build, subtract, attach the metadata record).
func steppedBoreProcess(stepDepthFrac, stepDiameterFactor float64) func(*geom.Mesh, feature.Feature, profile.Profile, resolve.Position3D) (*geom.Mesh, error) {
	build := steppedBoreCutterFor(stepDepthFrac, stepDiameterFactor)
	return func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		cutter, err := build(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, cutter, csg.Subtract)
		if err != nil {
			return nil, err
		}
		attachCut(result, f, pos, featureBounds(f, pos), "SteppedBore", false)
		return result, nil
	}
}

func init() {
	Cutters[feature.KindCountersink] = countersinkCutterFor
	Cutters[feature.KindCounterbore] = steppedBoreCutterFor(0.5, 1.8)
	Cutters[feature.KindSpotface] = steppedBoreCutterFor(0.15, 1.4)
}

var drillPatternProcessor = ProcessorFunc{
	ValidateFn: func(f feature.Feature, p profile.Profile) []*feature.ValidationError {
		var errs []*feature.ValidationError
		if f.Params.Diameter <= 0 {
			errs = append(errs, &feature.ValidationError{Kind: feature.ErrInvalidParams, FeatureID: f.ID, Message: "drill pattern requires diameter > 0"})
		}
		if f.Params.Count <= 0 && f.Params.Rows <= 0 {
			errs = append(errs, &feature.ValidationError{Kind: feature.ErrInvalidParams, FeatureID: f.ID, Message: "drill pattern requires count, or rows x columns"})
		}
		return errs
	},
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		offsets := drillPatternOffsets(f.Params)
		depth := through(f, pos, throughCutFactor)
		result := mesh
		for _, off := range offsets {
			cutter := holeCylinder(f.Params.Diameter, depth, 24)
			cutter = geom.ApplyMesh(cutter, geom.Translate(off))
			cutter = orientCutter(pos, cutter)
			var err error
			result, err = subtractCutter(result, cutter, csg.Subtract)
			if err != nil {
				return nil, fmt.Errorf("drill pattern: %w", err)
			}
		}
		attachCut(result, f, pos, featureBounds(f, pos), "DrillPattern", false)
		return result, nil
	},
}

// drillPatternOffsets expands a DrillPattern's layout parameter into
// per-hole offsets in the feature's local (pre-orientation) frame.
func drillPatternOffsets(params feature.Params) []geom.Vec3 {
	var out []geom.Vec3
	switch params.PatternLayout {
	case feature.PatternRectangular:
		rows, cols := params.Rows, params.Columns
		if rows <= 0 {
			rows = 1
		}
		if cols <= 0 {
			cols = params.Count
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				out = append(out, geom.Vec3{
					float32(float64(c) * params.ColumnSpacing),
					0,
					float32(float64(r) * params.RowSpacing),
				})
			}
		}
	case feature.PatternCircular:
		n := params.Count
		for i := 0; i < n; i++ {
			angle := params.StartAngle*math.Pi/180 + 2*math.Pi*float64(i)/float64(n)
			out = append(out, geom.Vec3{
				float32(params.Radius * math.Cos(angle)),
				0,
				float32(params.Radius * math.Sin(angle)),
			})
		}
	default: // PatternLinear
		n := params.Count
		for i := 0; i < n; i++ {
			out = append(out, geom.Vec3{float32(float64(i) * params.Spacing), 0, 0})
		}
	}
	return out
}
