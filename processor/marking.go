package processor

import (
	"math"

	"github.com/gostructural/featurecut/csg"
	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
	"github.com/gostructural/featurecut/resolve"
)

// markingStandoffMM lifts a marking's recorded position off the surface
// it is anchored to, so the renderer's decal does not z-fight with the
// mesh it sits on.
const markingStandoffMM = 0.1

var markingProcessor = ProcessorFunc{
	ValidateFn: func(f feature.Feature, p profile.Profile) []*feature.ValidationError {
		var errs []*feature.ValidationError
		if f.Kind == feature.KindText && f.Params.Text == "" {
			errs = append(errs, &feature.ValidationError{Kind: feature.ErrInvalidParams, FeatureID: f.ID, Message: "text marking requires non-empty text"})
		}
		return errs
	},
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		standoff := pos.OutwardNormal.Scale(markingStandoffMM)
		result := mesh
		if f.Params.Engrave {
			size := f.Params.Size
			if size <= 0 {
				size = 10
			}
			depth := size * 0.1
			cutter := geom.Box(float32(size), float32(depth), float32(size))
			cutter = geom.ApplyMesh(cutter, geom.Translate(geom.Vec3{0, -float32(depth) / 2, 0}))
			cutter = orientCutter(pos, cutter)
			var err error
			result, err = subtractCutter(mesh, cutter, csg.Subtract)
			if err != nil {
				return nil, err
			}
		} else {
			result = mesh.Clone()
		}
		result.UserData.Markings = append(result.UserData.Markings, geom.MarkingRecord{
			ID:       f.ID,
			Text:     f.Params.Text,
			Size:     float32(f.Params.Size),
			Face:     pos.Face.String(),
			Position: pos.Position.Add(standoff),
		})
		return result, nil
	},
}

// weldFillet builds a triangular-prism bead for the Fillet/Seam variants
// and a flat rectangular pad for Butt/Spot, swept along the feature's
// edge. Welds add material, so the bead is later unioned, not
// subtracted.
func weldFillet(f feature.Feature, p profile.Profile) *geom.Mesh {
	leg := f.Params.Size
	if leg <= 0 {
		leg = 6
	}
	length := edgeExtrusionLength(p)
	switch f.Params.WeldType {
	case feature.WeldButt, feature.WeldSpot:
		pad := geom.Box(float32(length), float32(leg), float32(leg))
		return pad
	default: // Fillet, Seam
		poly := chamferProfile(leg, 45)
		bead := geom.ExtrudePolygon(poly, float32(length))
		bead = geom.ApplyMesh(bead, geom.Transform{Rotation: geom.Euler{Y: float32(math.Pi / 2)}, Scale: geom.Vec3{1, 1, 1}})
		return geom.ApplyMesh(bead, geom.Translate(geom.Vec3{-float32(length) / 2, 0, 0}))
	}
}

// weldCutterFor builds the additive weld bead alone. It is still entered
// in Cutters even though Weld unions rather than subtracts: the pipeline's
// cache lookup caches the oriented solid, not the boolean it is later
// combined with.
func weldCutterFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	return orientCutter(pos, weldFillet(f, p)), nil
}

var weldProcessor = ProcessorFunc{
	ValidateFn: func(f feature.Feature, p profile.Profile) []*feature.ValidationError { return nil },
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		bead, err := weldCutterFor(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, bead, csg.Union)
		if err != nil {
			return nil, err
		}
		attachCut(result, f, pos, featureBounds(f, pos), "Weld", false)
		return result, nil
	},
}

func threadCutterFor(f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
	depth := through(f, pos, throughCutFactor)
	reducedDiameter := f.Params.Diameter * 0.9
	return orientCutter(pos, holeCylinder(reducedDiameter, depth, 24)), nil
}

var threadProcessor = ProcessorFunc{
	ValidateFn: holeProcessor.ValidateFn,
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		cutter, err := threadCutterFor(f, p, pos)
		if err != nil {
			return nil, err
		}
		result, err := subtractCutter(mesh, cutter, csg.Subtract)
		if err != nil {
			return nil, err
		}
		rec := geom.CutRecord{
			ID: f.ID, Kind: f.Kind.String(), Face: pos.Face.String(),
			Bounds: featureBounds(f, pos), Depth: float32(pos.Depth),
			CutType: "Thread", Explanation: "threaded",
		}
		result.UserData.Cuts = append(result.UserData.Cuts, rec)
		return result, nil
	},
}

func init() {
	Cutters[feature.KindWeld] = weldCutterFor
	Cutters[feature.KindThread] = threadCutterFor
}

var bendProcessor = ProcessorFunc{
	ValidateFn: func(f feature.Feature, p profile.Profile) []*feature.ValidationError {
		var errs []*feature.ValidationError
		if f.Params.Angle < 0 || f.Params.Angle > 180 {
			errs = append(errs, &feature.ValidationError{Kind: feature.ErrAngleOutOfRange, FeatureID: f.ID, Message: "bend angle must lie in [0, 180] degrees"})
		}
		return errs
	},
	ProcessFn: func(mesh *geom.Mesh, f feature.Feature, p profile.Profile, pos resolve.Position3D) (*geom.Mesh, error) {
		result := mesh.Clone()
		axis := f.Params.BendAxis
		if axis == (geom.Vec3{}) {
			axis = geom.Vec3{0, 0, 1}
		}
		axis = axis.Normalized()
		bendPos := f.Params.BendPosition
		angle := float32(f.Params.Angle * math.Pi / 180)
		hinge := geom.Euler{}
		switch {
		case axis[1] != 0:
			hinge.Y = angle
		case axis[2] != 0:
			hinge.Z = angle
		default:
			hinge.X = angle
		}
		rot := geom.Transform{Rotation: hinge, Scale: geom.Vec3{1, 1, 1}}
		pivot := geom.Vec3{float32(bendPos), 0, 0}
		beyond := make([]bool, len(result.Positions))
		for i, v := range result.Positions {
			beyond[i] = v[0] >= float32(bendPos)
		}
		for i, v := range result.Positions {
			if !beyond[i] {
				continue
			}
			local := v.Sub(pivot)
			result.Positions[i] = rot.Apply(local).Add(pivot)
		}
		for i, n := range result.Normals {
			if !beyond[i] {
				continue
			}
			result.Normals[i] = rot.ApplyDirection(n)
		}
		return result, nil
	},
}
