package composite

import (
	"math"

	"github.com/gostructural/featurecut/feature"
	"github.com/gostructural/featurecut/geom"
)

// The builders below construct the built-in composites as ordinary
// KindComposite features: each returns a Feature whose Params.SubFeatures
// and Params.DependsOn are already wired, ready for Expand.

// CountersunkTappedHole composites a countersink at the bore mouth with a
// tapped hole beneath it, the countersink applied first.
func CountersunkTappedHole(id string, position feature.Feature, boreDiameter, sinkAngle, nominalDiameter, pitch float64) feature.Feature {
	sink := feature.Feature{
		ID: id + "/countersink", Kind: feature.KindCountersink,
		CoordinateSystem: position.CoordinateSystem, Position: position.Position,
		Face: position.Face, HasFace: position.HasFace,
		Params: feature.Params{Diameter: boreDiameter, SinkAngle: sinkAngle},
	}
	tapped := feature.Feature{
		ID: id + "/tapped", Kind: feature.KindTappedHole,
		CoordinateSystem: position.CoordinateSystem, Position: position.Position,
		Face: position.Face, HasFace: position.HasFace,
		Params: feature.Params{NominalDiameter: nominalDiameter, Pitch: pitch},
	}
	return feature.Feature{
		ID: id, Kind: feature.KindComposite,
		Params: feature.Params{
			SubFeatures: []feature.Feature{sink, tapped},
			DependsOn:   map[string][]string{tapped.ID: {sink.ID}},
		},
	}
}

// RoundedCutout composites a Contour cut whose corner points carry an
// automatically-applied bulge value, giving every corner a small radius
// instead of a sharp reflex angle. Points with a caller-supplied
// non-zero Bulge are left untouched; a zero Bulge is filled in from
// cornerRadius and the length of the edge leading to the next point.
func RoundedCutout(id string, position feature.Feature, points []geom.ContourPoint, cornerRadius float32) feature.Feature {
	pts := make([]geom.ContourPoint, len(points))
	copy(pts, points)
	n := len(pts)
	for i := range pts {
		if pts[i].Bulge != 0 || cornerRadius <= 0 || n < 2 {
			continue
		}
		next := pts[(i+1)%n]
		dx, dy := next.X-pts[i].X, next.Y-pts[i].Y
		edgeLength := float32(math.Hypot(float64(dx), float64(dy)))
		pts[i].Bulge = bulgeForRadius(cornerRadius, edgeLength)
	}
	contour := feature.Feature{
		ID: id + "/contour", Kind: feature.KindContour,
		CoordinateSystem: position.CoordinateSystem, Position: position.Position,
		Face: position.Face, HasFace: position.HasFace,
		Params: feature.Params{Points: pts},
	}
	return feature.Feature{
		ID: id, Kind: feature.KindComposite,
		Params: feature.Params{SubFeatures: []feature.Feature{contour}},
	}
}

// bulgeForRadius returns the DXF bulge value (tan of 1/4 the arc angle)
// that rounds a corner with the given radius over an edge of the given
// length — a small-angle approximation adequate for the modest corner
// radii fabrication drawings call for.
func bulgeForRadius(radius, edgeLength float32) float32 {
	if edgeLength <= 0 {
		return 0
	}
	ratio := radius / edgeLength
	if ratio > 0.5 {
		ratio = 0.5
	}
	return ratio
}

// SlottedHolePattern composites a row of slots followed by a row of
// round holes, slots first.
func SlottedHolePattern(id string, slots, holes feature.Feature) feature.Feature {
	slots.ID, holes.ID = id+"/slots", id+"/holes"
	return feature.Feature{
		ID: id, Kind: feature.KindComposite,
		Params: feature.Params{
			SubFeatures: []feature.Feature{slots, holes},
			DependsOn:   map[string][]string{holes.ID: {slots.ID}},
		},
	}
}

// MountingPlate composites an exterior contour cut with a bolt-hole
// drill pattern applied after it.
func MountingPlate(id string, outerContour, boltPattern feature.Feature) feature.Feature {
	outerContour.ID, boltPattern.ID = id+"/outline", id+"/bolts"
	return feature.Feature{
		ID: id, Kind: feature.KindComposite,
		Params: feature.Params{
			SubFeatures: []feature.Feature{outerContour, boltPattern},
			DependsOn:   map[string][]string{boltPattern.ID: {outerContour.ID}},
		},
	}
}

// TSlot composites two oblong slots arranged orthogonally — a narrow
// top slot and a wider bottom channel, applied independently.
func TSlot(id string, topSlot, bottomChannel feature.Feature) feature.Feature {
	topSlot.ID, bottomChannel.ID = id+"/top", id+"/channel"
	return feature.Feature{
		ID: id, Kind: feature.KindComposite,
		Params: feature.Params{SubFeatures: []feature.Feature{topSlot, bottomChannel}, Sequence: feature.SequenceParallel},
	}
}
