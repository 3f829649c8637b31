package processor

import (
	"math"

	"github.com/gostructural/featurecut/csg"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

// chamferProfile returns a right-triangle cross-section with legs
// (run, rise) where run is the chamfer length along the edge-adjacent
// face and rise = run * tan(angle) is the depth the cut bites into the
// corner.
func chamferProfile(run, angleDeg float64) []geom.Vec2 {
	rise := run * math.Tan(angleDeg*math.Pi/180)
	return []geom.Vec2{
		{0, 0},
		{float32(run), 0},
		{0, float32(rise)},
	}
}

// edgeExtrusionLength picks the extent a chamfer/bevel prism must span
// along its edge to guarantee full coverage: the larger of the profile's
// two cross-sectional dimensions, oversized by the cut package's
// ThroughCutFactor convention.
func edgeExtrusionLength(p profile.Profile) float64 {
	h, w := p.Dimensions.Height, p.Dimensions.Width
	if h < w {
		h = w
	}
	if h == 0 {
		h = p.Dimensions.Length
	}
	return h * throughCutFactor
}

// edgeCutterFor builds the right-triangle-prism edge cutter alone.
func edgeCutterFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	run := f.Params.ChamferLength
	if run <= 0 {
		run = 50
	}
	angle := f.Params.Angle
	if angle <= 0 {
		angle = 45
	}
	length := edgeExtrusionLength(p)
	poly := chamferProfile(run, angle)
	cutter := geom.ExtrudePolygon(poly, float32(length))
	// Swap the extrusion's Z axis (edge direction) for X, and center it
	// on the feature's anchor so the triangular notch straddles the edge
	// rather than trailing off to one side only.
	cutter = geom.ApplyMesh(cutter, geom.Transform{
		Rotation: geom.Euler{Y: float32(math.Pi / 2)},
		Scale:    geom.Vec3{1, 1, 1},
	})
	cutter = geom.ApplyMesh(cutter, geom.Translate(geom.Vec3{-float32(length) / 2, 0, 0}))
	return orientCutter(pos, cutter), nil
}

func edgeCutterProcess(kindName string) func(*geom.Mesh, feature.Feature, profile.Profile, resolve.Position3D) (*geom.Mesh, error) {
	return func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		cutter, err := edgeCutterFor(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, cutter, csg.Subtract)
		if err != nil {
			return nil, err
		}
		attachCut(result, f, pos, featureBounds(f, pos), kindName, false)
		return result, nil
	}
}

func edgeCutterValidate(f feature.Feature, p profile.Profile) []*feature.ValidationError {
	var errs []*feature.ValidationError
	if f.Params.Angle <= 0 || f.Params.Angle >= 90 {
		errs = append(errs, &feature.ValidationError{Kind: feature.ErrAngleOutOfRange, FeatureID: f.ID, Message: "chamfer/bevel angle must lie in (0, 90) degrees"})
	}
	return errs
}

var chamferProcessor = ProcessorFunc{ValidateFn: edgeCutterValidate, ProcessFn: edgeCutterProcess("Chamfer")}
var bevelProcessor = ProcessorFunc{ValidateFn: edgeCutterValidate, ProcessFn: edgeCutterProcess("Bevel")}

func init() {
	Cutters[feature.KindChamfer] = edgeCutterFor
	Cutters[feature.KindBevel] = edgeCutterFor
}
