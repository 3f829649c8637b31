package processor

import (
	"github.com/gostructural/featurecut/csg"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

// contourProcessFn is shared by Slot, Cutout and Contour: all three
// extrude a closed 2D polygon through the feature's resolved depth and
// subtract it.
// contourCutterFor builds the extruded-polygon cutter alone.
func contourCutterFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	depth := through(f, pos, throughCutFactor)
	poly := geom.Tessellate(f.Params.Points, 16)
	cutter := geom.ExtrudePolygon(poly, float32(depth))
	// ExtrudePolygon spans Z in [0, depth]; the contour's own X/Y points
	// are already expressed in the feature's local plane, so only the Z
	// axis needs centering before orientation.
	cutter = geom.ApplyMesh(cutter, geom.Translate(geom.Vec3{0, 0, -float32(depth) / 2}))
	return orientCutter(pos, cutter), nil
}

func contourProcessFn(cutType string) func(*geom.Mesh, feature.Feature, profile.Profile, resolve.Position3D) (*geom.Mesh, error) {
	return func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		cutter, err := contourCutterFor(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, cutter, csg.Subtract)
		if err != nil {
			return nil, err
		}
		attachCut(result, f, pos, featureBounds(f, pos), cutType, len(result.Positions) == 0 && len(mesh.Positions) > 0)
		return result, nil
	}
}

func contourValidate(f feature.Feature, p profile.Profile) []*feature.ValidationError {
	var errs []*feature.ValidationError
	if len(f.Params.Points) < 3 {
		errs = append(errs, &feature.ValidationError{Kind: feature.ErrTooFewPoints, FeatureID: f.ID, Message: "requires at least 3 contour points"})
	}
	return errs
}

var slotProcessor = ProcessorFunc{ValidateFn: contourValidate, ProcessFn: contourProcessFn("Slot")}
var cutoutProcessor = ProcessorFunc{ValidateFn: contourValidate, ProcessFn: contourProcessFn("Cutout")}
var contourProcessor = ProcessorFunc{ValidateFn: contourValidate, ProcessFn: contourProcessFn("Contour")}

func init() {
	Cutters[feature.KindSlot] = contourCutterFor
	Cutters[feature.KindCutout] = contourCutterFor
	Cutters[feature.KindContour] = contourCutterFor
}
