package processor

import (
	"math"

	"github.com/gostructural/featurecut/csg"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

// copingCutter builds the coping cutter for the given type: profile-fit
// cuts an I-shaped pocket of the mating profile's cross-section at the
// join angle; saddle intersects the member with a cylinder standing in
// for the mating tube; the bevel variants reuse the chamfer/bevel
// triangular-prism construction at the join angle.
func copingCutter(f feature.Feature, p profile.Profile) *geom.Mesh {
	angle := f.Params.Angle
	if angle <= 0 {
		angle = 90
	}
	switch f.Params.CopingType {
	case feature.CopingSaddle:
		return copingSaddleCutter(f, p, angle)
	case feature.CopingStraightBevel, feature.CopingSingleBevel, feature.CopingDoubleBevel:
		return copingBevelCutter(f, p, angle)
	default: // CopingProfileFit
		return copingProfileFitCutter(f, p, angle)
	}
}

// copingProfileFitCutter approximates the mating profile's outline as a
// box (height x width, the same fields a Dimensions value carries for
// any profile kind) oversized by the configured clearance, rotated to
// the join angle and swept along the member's axis.
func copingProfileFitCutter(f feature.Feature, p profile.Profile, angleDeg float64) *geom.Mesh {
	clearance := f.Params.Clearance
	h, w := p.Dimensions.Height, p.Dimensions.Width
	length := edgeExtrusionLength(p)
	box := geom.Box(float32(length), float32(h+2*clearance), float32(w+2*clearance))
	return geom.ApplyMesh(box, geom.Transform{
		Rotation: geom.Euler{Z: float32((angleDeg - 90) * math.Pi / 180)},
		Scale:    geom.Vec3{1, 1, 1},
	})
}

// copingSaddleCutter stands a cylinder in for the mating round member;
// the portion of the host tube's end that falls inside this cylinder is
// the material the saddle cut removes.
func copingSaddleCutter(f feature.Feature, p profile.Profile, angleDeg float64) *geom.Mesh {
	radius := f.Params.Radius
	if radius <= 0 {
		radius = p.Dimensions.Width / 2
	}
	length := edgeExtrusionLength(p) * 2
	cyl := geom.Cylinder(float32(radius), float32(length), 24)
	return geom.ApplyMesh(cyl, geom.Transform{
		Rotation: geom.Euler{Z: float32((angleDeg - 90) * math.Pi / 180)},
		Scale:    geom.Vec3{1, 1, 1},
	})
}

func copingBevelCutter(f feature.Feature, p profile.Profile, angleDeg float64) *geom.Mesh {
	run := f.Params.ChamferLength
	if run <= 0 {
		run = p.Dimensions.Width
	}
	length := edgeExtrusionLength(p)
	poly := chamferProfile(run, 90-angleDeg/2)
	cutter := geom.ExtrudePolygon(poly, float32(length))
	cutter = geom.ApplyMesh(cutter, geom.Transform{Rotation: geom.Euler{Y: float32(math.Pi / 2)}, Scale: geom.Vec3{1, 1, 1}})
	return geom.ApplyMesh(cutter, geom.Translate(geom.Vec3{-float32(length) / 2, 0, 0}))
}

// copingCutterFor is the Cutters-registry entry point: orient the
// selected coping cutter into the feature's resolved position.
func copingCutterFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	return orientCutter(pos, copingCutter(f, p)), nil
}

var copingProcessor = ProcessorFunc{
	ValidateFn: func(f feature.Feature, p profile.Profile) []*feature.ValidationError {
		var errs []*feature.ValidationError
		if f.Params.Angle != 0 && (f.Params.Angle <= 0 || f.Params.Angle >= 180) {
			errs = append(errs, &feature.ValidationError{Kind: feature.ErrAngleOutOfRange, FeatureID: f.ID, Message: "cope angle must lie in (0, 180) degrees"})
		}
		return errs
	},
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		cutter, err := copingCutterFor(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, cutter, csg.Subtract)
		if err != nil {
			return nil, err
		}
		attachCut(result, f, pos, featureBounds(f, pos), "Coping", len(result.Positions) == 0 && len(mesh.Positions) > 0)
		return result, nil
	},
}

func init() {
	Cutters[feature.KindCoping] = copingCutterFor
}
