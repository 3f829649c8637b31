// Package cut implements the cut-type detector and the cut handler
// registry: classifying a contour-bearing feature's geometry and
// dispatching it to the handler that builds its cut solid.
package cut

import (
	"math"

	"github.com/gostructural/featurecut/geom"
)

// Type enumerates the cut classifications the detector emits.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeEndStraight
	TypeExteriorCut
	TypeInteriorCut
	TypePartialNotch
	TypeNotchPartial
	TypeCompoundCut
)

func (t Type) String() string {
	switch t {
	case TypeEndStraight:
		return "EndStraight"
	case TypeExteriorCut:
		return "ExteriorCut"
	case TypeInteriorCut:
		return "InteriorCut"
	case TypePartialNotch:
		return "PartialNotch"
	case TypeNotchPartial:
		return "NotchPartial"
	case TypeCompoundCut:
		return "CompoundCut"
	default:
		return "Unknown"
	}
}

// DetectOptions tunes the detector's empirical thresholds. The 500mm
// gap threshold in particular is empirical, so it is exposed rather
// than hard-coded.
type DetectOptions struct {
	// NotchGapThresholdMM is the minimum gap between consecutive points,
	// in mm, that marks a PartialNotch's "two notches at the extremities"
	// split point. Default 500.
	NotchGapThresholdMM float64
	// EdgeToleranceMM is the tolerance used when comparing a contour's
	// X bounds to the profile's ends (0 and length) for the
	// EndStraight and NotchPartial classifications. Default 1.0mm. The
	// cut handlers' 10mm edge-touch test uses its own constant,
	// edgeTouchToleranceMM.
	EdgeToleranceMM float64
}

// DefaultDetectOptions returns the default thresholds.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{NotchGapThresholdMM: 500, EdgeToleranceMM: 1.0}
}

// Input is what the detector needs from a contour-bearing feature and
// its profile: the raw point array plus the nominal length and width to
// compare its bounds against.
type Input struct {
	Points        []geom.ContourPoint
	ProfileLength float64
	ProfileWidth  float64
	// IsClosedOuterContour marks a feature whose Kind the caller already
	// knows to be an exterior (AK) vs. interior (IK) DSTV contour, when
	// that information is available; if false, the detector infers from
	// geometry alone.
	IsClosedOuterContour bool
	IsInteriorContour    bool
}

// Detect classifies in by precedence-ordered rules: the first
// matching rule wins.
func Detect(in Input, opts DetectOptions) Type {
	pts := in.Points
	bounds := boundsOf(pts)
	L := in.ProfileLength

	if len(pts) <= 4 && spansOneEndOnly(bounds, L, opts.EdgeToleranceMM) {
		return TypeEndStraight
	}

	if in.IsClosedOuterContour {
		return TypeExteriorCut
	}
	if in.IsInteriorContour {
		return TypeInteriorCut
	}

	if len(pts) == 9 {
		if _, gap := largestGap(pts); gap > opts.NotchGapThresholdMM {
			spansFull := (bounds.maxX-bounds.minX)/L > 0.9
			extendsPastEnd := bounds.maxX > L-1
			if spansFull && extendsPastEnd {
				return TypePartialNotch
			}
		}
	}

	if bounds.maxX-bounds.minX < L-opts.EdgeToleranceMM && (bounds.minX > opts.EdgeToleranceMM || bounds.maxX < L-opts.EdgeToleranceMM) {
		return TypeNotchPartial
	}

	return TypeCompoundCut
}

type ptBounds struct{ minX, maxX, minY, maxY float64 }

func boundsOf(pts []geom.ContourPoint) ptBounds {
	if len(pts) == 0 {
		return ptBounds{}
	}
	b := ptBounds{minX: math.Inf(1), maxX: math.Inf(-1), minY: math.Inf(1), maxY: math.Inf(-1)}
	for _, p := range pts {
		x, y := float64(p.X), float64(p.Y)
		b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
		b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
	}
	return b
}

// spansOneEndOnly reports whether the contour's X-extent touches exactly
// one extremity of the profile (0 or L) within tolerance, not both —
// the signature of a square end cut.
func spansOneEndOnly(b ptBounds, L, tol float64) bool {
	atStart := b.minX <= tol
	atEnd := b.maxX >= L-tol
	return atStart != atEnd
}

// largestGap returns the index of the point preceding the largest X gap
// between consecutive points in array order, and the gap's magnitude in
// mm, used by the PartialNotch rule to find the split between the two
// notch regions.
func largestGap(pts []geom.ContourPoint) (int, float64) {
	best, bestGap := -1, 0.0
	for i := 0; i < len(pts)-1; i++ {
		gap := math.Abs(float64(pts[i+1].X - pts[i].X))
		if gap > bestGap {
			bestGap, best = gap, i
		}
	}
	return best, bestGap
}
