// Package resolve implements the position/face resolver: translating
// a DSTV feature anchor (face, x, y) into engine-local coordinates,
// per profile family.
package resolve

import (
	"math"

	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
	"github.com/gostructural/featurecut/profile"
)

// Position3D is the resolver's output: the engine-local placement
// and orientation a cut handler or feature processor builds its solid
// against.
type Position3D struct {
	Position      geom.Vec3
	Rotation      geom.Euler
	Face          feature.Face
	Depth         float64
	OutwardNormal geom.Vec3
	// FaceMapped is false when the feature's declared face could not be
	// mapped and the Web fallback was used.
	FaceMapped bool
}

const halfPi = math.Pi / 2

// Resolve converts f's anchor, expressed in f's CoordinateSystem relative
// to p's declared face, into engine-local coordinates. Failure to map a
// face is reported via Position3D.FaceMapped == false but never halts the
// pipeline: the resolver falls back to Web, which each profile family
// then places on its own default face (Web for I/H profiles, Top for
// plates and tubes, LeftLeg for angles).
func Resolve(p profile.Profile, f feature.Feature) Position3D {
	face := f.Face
	mapped := f.HasFace
	if !mapped {
		face = feature.FaceWeb
	}

	switch p.Kind {
	case profile.IProfile, profile.HProfile:
		return resolveIProfile(p, face, mapped, f.Position)
	case profile.Plate, profile.FlatBar:
		return resolvePlate(p, face, mapped, f.Position)
	case profile.RectTube, profile.SquareTube, profile.RoundTube:
		return resolveTube(p, face, mapped, f.Position)
	case profile.LProfile:
		return resolveLProfile(p, face, mapped, f.Position)
	default:
		return resolvePlate(p, face, mapped, f.Position)
	}
}

// resolveIProfile implements the Web/TopFlange/BottomFlange rules.
func resolveIProfile(p profile.Profile, face feature.Face, mapped bool, anchor geom.Vec3) Position3D {
	d := p.Dimensions
	x, y := float64(anchor[0]), float64(anchor[1])
	L, H, W := d.Length, d.Height, d.Width

	switch face {
	case feature.FaceTopFlange:
		return Position3D{
			Position:      geom.Vec3{float32(x - L/2), float32(H/2 - d.FlangeThickness/2), float32(y - W/2)},
			Rotation:      geom.Euler{},
			Face:          face,
			Depth:         d.FlangeThickness,
			OutwardNormal: geom.Vec3{0, 1, 0},
			FaceMapped:    mapped,
		}
	case feature.FaceBottomFlange:
		return Position3D{
			Position:      geom.Vec3{float32(x - L/2), float32(-(H/2 - d.FlangeThickness/2)), float32(y - W/2)},
			Rotation:      geom.Euler{},
			Face:          face,
			Depth:         d.FlangeThickness,
			OutwardNormal: geom.Vec3{0, -1, 0},
			FaceMapped:    mapped,
		}
	default: // Web, and the Web fallback for any unmapped face.
		return Position3D{
			Position:      geom.Vec3{float32(x - L/2), float32(y - H/2), 0},
			Rotation:      geom.Euler{X: halfPi},
			Face:          feature.FaceWeb,
			Depth:         d.WebThickness,
			OutwardNormal: geom.Vec3{0, 0, 1},
			FaceMapped:    mapped,
		}
	}
}

// resolvePlate places plate features: position (x-L/2, +-t/2,
// y-W/2), cylinder along Y, depth = thickness. Top places the feature on
// the +Y face, Bottom on -Y; any other/unmapped face defaults to Top.
func resolvePlate(p profile.Profile, face feature.Face, mapped bool, anchor geom.Vec3) Position3D {
	d := p.Dimensions
	x, y := float64(anchor[0]), float64(anchor[1])
	L, W, t := d.Length, d.Width, d.Thickness

	sign := float32(1)
	normal := geom.Vec3{0, 1, 0}
	resolvedFace := feature.FaceTop
	if face == feature.FaceBottom {
		sign = -1
		normal = geom.Vec3{0, -1, 0}
		resolvedFace = feature.FaceBottom
	}
	return Position3D{
		Position:      geom.Vec3{float32(x - L/2), sign * float32(t/2), float32(y - W/2)},
		Rotation:      geom.Euler{},
		Face:          resolvedFace,
		Depth:         t,
		OutwardNormal: normal,
		FaceMapped:    mapped,
	}
}

// tubeWall describes one of a rectangular/square/round tube's four
// walls: its outward normal and the rotation that orients a cylinder's
// axis along that normal. Every wall's depth is WallThickness.
type tubeWall struct {
	normal   geom.Vec3
	rotation geom.Euler
}

var tubeWalls = map[feature.Face]tubeWall{
	feature.FaceTop:    {normal: geom.Vec3{0, 1, 0}},
	feature.FaceBottom: {normal: geom.Vec3{0, -1, 0}},
	feature.FaceLeft:   {normal: geom.Vec3{0, 0, -1}, rotation: geom.Euler{X: halfPi}},
	feature.FaceRight:  {normal: geom.Vec3{0, 0, 1}, rotation: geom.Euler{X: halfPi}},
}

// resolveTube handles RectTube/SquareTube (face selects
// one of four walls) and RoundTube, treated as a RectTube with a single
// wall (cosmetic).
func resolveTube(p profile.Profile, face feature.Face, mapped bool, anchor geom.Vec3) Position3D {
	d := p.Dimensions
	x, y := float64(anchor[0]), float64(anchor[1])
	L, H, W := d.Length, d.Height, d.Width

	wall, ok := tubeWalls[face]
	resolvedFace := face
	if !ok {
		wall = tubeWalls[feature.FaceTop]
		resolvedFace = feature.FaceTop
	}

	var pos geom.Vec3
	switch resolvedFace {
	case feature.FaceTop:
		pos = geom.Vec3{float32(x - L/2), float32(H / 2), float32(y - W/2)}
	case feature.FaceBottom:
		pos = geom.Vec3{float32(x - L/2), float32(-H / 2), float32(y - W/2)}
	case feature.FaceLeft:
		pos = geom.Vec3{float32(x - L/2), float32(y - H/2), float32(-W / 2)}
	case feature.FaceRight:
		pos = geom.Vec3{float32(x - L/2), float32(y - H/2), float32(W / 2)}
	}

	return Position3D{
		Position:      pos,
		Rotation:      wall.rotation,
		Face:          resolvedFace,
		Depth:         d.WallThickness,
		OutwardNormal: wall.normal,
		FaceMapped:    mapped,
	}
}

// resolveLProfile handles angles: two legs, each with
// its own thickness carried in Dimensions (WebThickness for the vertical
// leg, FlangeThickness for the horizontal leg, following the same field
// names the I-profile rule uses for its own two plate thicknesses).
func resolveLProfile(p profile.Profile, face feature.Face, mapped bool, anchor geom.Vec3) Position3D {
	d := p.Dimensions
	x, y := float64(anchor[0]), float64(anchor[1])
	L, H, W := d.Length, d.Height, d.Width

	if face == feature.FaceRightLeg {
		return Position3D{
			Position:      geom.Vec3{float32(x - L/2), float32(y - H/2), float32(W / 2)},
			Rotation:      geom.Euler{X: halfPi},
			Face:          feature.FaceRightLeg,
			Depth:         d.FlangeThickness,
			OutwardNormal: geom.Vec3{0, 0, 1},
			FaceMapped:    mapped,
		}
	}
	// LeftLeg, and the fallback for any unmapped face.
	return Position3D{
		Position:      geom.Vec3{float32(x - L/2), float32(0), float32(y - W/2)},
		Rotation:      geom.Euler{},
		Face:          feature.FaceLeftLeg,
		Depth:         d.WebThickness,
		OutwardNormal: geom.Vec3{0, 1, 0},
		FaceMapped:    mapped,
	}
}
