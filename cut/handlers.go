package cut

import (
	"fmt"

	"github.com/gostructural/featurecut/csg"
	"github.com/gostructural/featurecut/geom"
)

// crossSection returns the profile's two cross-sectional extents
// (height, width), substituting one for the other when a profile kind
// only populates one of them (e.g. a Plate has no Height).
func crossSection(ctx Context) (h, w float64) {
	d := ctx.Profile.Dimensions
	h, w = d.Height, d.Width
	if h == 0 {
		h = w
	}
	if w == 0 {
		w = h
	}
	return h, w
}

// envelopeBox returns an oversized box enclosing the profile's entire
// length and cross-section, centered on the engine-local origin — the
// conservative "definitely contains the part" solid several handlers
// start from or subtract against.
func envelopeBox(ctx Context) *geom.Mesh {
	h, w := crossSection(ctx)
	L := ctx.Profile.Dimensions.Length
	if L == 0 {
		L = h + w // degenerate profile; keep the box finite but generous
	}
	f := ctx.Options.ThroughCutFactor
	return geom.Box(float32(L*f), float32(h*f), float32(w*f))
}

// contourCutter tessellates pts into a polygon in the local X/Y plane and
// extrudes it depth along Z, the common primitive the contour-driven
// handlers (ExteriorCut, InteriorCut, LShapeCut) build on.
func contourCutter(pts []geom.ContourPoint, depth float64) *geom.Mesh {
	poly := geom.Tessellate(pts, 16)
	return geom.ExtrudePolygon(poly, float32(depth))
}

func placeAtPosition(ctx Context, m *geom.Mesh) *geom.Mesh {
	t := geom.Transform{Translation: ctx.Position.Position, Rotation: ctx.Position.Rotation, Scale: geom.Vec3{1, 1, 1}}
	return geom.ApplyMesh(m, t)
}

// endX returns the engine-local X coordinate nearest the end the
// feature's contour/anchor sits at: -L/2 (start) or +L/2 (end).
func endX(ctx Context) float32 {
	L := ctx.Profile.Dimensions.Length
	x := float64(ctx.Position.Position[0])
	if x <= 0 {
		return float32(-L / 2)
	}
	return float32(L / 2)
}

// StraightEndHandler builds a square-end cut: a box spanning the full
// cross-section, straddling the profile's end face so the cutter removes
// everything beyond it regardless of the end position's exact precision.
func StraightEndHandler(ctx Context) (*geom.Mesh, error) {
	h, w := crossSection(ctx)
	chamfer := ctx.Feature.Params.ChamferLength
	if chamfer <= 0 {
		chamfer = 50
	}
	span := chamfer * ctx.Options.EndCutFactor
	cutter := geom.Box(float32(span), float32(h*ctx.Options.ThroughCutFactor), float32(w*ctx.Options.ThroughCutFactor))
	return geom.ApplyMesh(cutter, geom.Translate(geom.Vec3{endX(ctx), 0, 0})), nil
}

// ExteriorCutHandler builds an AK (exterior contour) cutter: the contour
// defines the part's new outer boundary, so the material removed is
// everything inside the profile's bounding envelope but outside the
// contour.
func ExteriorCutHandler(ctx Context) (*geom.Mesh, error) {
	pts := ctx.Feature.Params.Points
	if len(pts) < 3 {
		return nil, fmt.Errorf("exterior cut requires at least 3 contour points, got %d", len(pts))
	}
	_, w := crossSection(ctx)
	prism := contourCutter(pts, w*ctx.Options.ThroughCutFactor)
	envelope := envelopeBox(ctx)
	return csg.Apply(envelope, prism, csg.Subtract)
}

// InteriorCutHandler builds an IK (interior pocket/hole contour) cutter:
// the contour itself is the material to remove.
func InteriorCutHandler(ctx Context) (*geom.Mesh, error) {
	pts := ctx.Feature.Params.Points
	if len(pts) < 3 {
		return nil, fmt.Errorf("interior cut requires at least 3 contour points, got %d", len(pts))
	}
	depth := ctx.Position.Depth * ctx.Options.ThroughCutFactor
	if depth <= 0 {
		_, w := crossSection(ctx)
		depth = w * ctx.Options.ThroughCutFactor
	}
	return placeAtPosition(ctx, contourCutter(pts, depth)), nil
}

// PartialNotchHandler splits the contour at its largest inter-point gap
// (the two notch regions sit at opposite extremities of the profile),
// reconstructs an axis-aligned box over each region, and returns their
// union. The contour's X/Y values are face coordinates measured from the
// piece's lower-left origin; the boxes are mapped into the centered
// engine frame here.
func PartialNotchHandler(ctx Context) (*geom.Mesh, error) {
	pts := ctx.Feature.Params.Points
	if len(pts) < 6 {
		return FullCutHandler(ctx)
	}
	gapIdx, _ := largestGap(pts)
	first := pts[:gapIdx+1]
	second := pts[gapIdx+1:]
	if len(first) < 3 || len(second) < 3 {
		return FullCutHandler(ctx)
	}

	L := ctx.Profile.Dimensions.Length
	// Extent of each notch along X: the start notch runs from 0 to the
	// first cluster's far edge, the end notch from the second cluster's
	// near edge to L. Points of the second cluster that lie in the start
	// half (marking centroids some encoders append) are excluded by the
	// L/2 split; the first cluster's extent is simply its largest X.
	w1 := 0.0
	for _, p := range first {
		if float64(p.X) > w1 {
			w1 = float64(p.X)
		}
	}
	n2 := L
	for _, p := range second {
		x := float64(p.X)
		if x > L/2 && x < n2 {
			n2 = x
		}
	}
	w2 := L - n2
	if w1 <= 0 || w2 <= 0 {
		return FullCutHandler(ctx)
	}

	depth := ctx.Position.Depth
	if depth <= 0 {
		depth = ctx.Profile.Dimensions.FlangeThickness
	}
	depth *= ctx.Options.EndCutFactor
	_, sw := crossSection(ctx)
	zSpan := sw * ctx.Options.ThroughCutFactor

	a := geom.Box(float32(w1), float32(depth), float32(zSpan))
	a = geom.ApplyMesh(a, geom.Translate(geom.Vec3{float32(w1/2 - L/2), ctx.Position.Position[1], 0}))
	b := geom.Box(float32(w2), float32(depth), float32(zSpan))
	b = geom.ApplyMesh(b, geom.Translate(geom.Vec3{float32(L/2 - w2/2), ctx.Position.Position[1], 0}))
	return csg.Apply(a, b, csg.Union)
}

// edgeTouchToleranceMM is how close a contour's minY/maxY must sit to
// the cross-section's edges (0 and the section dimension) for the notch
// to count as touching that edge.
const edgeTouchToleranceMM = 10.0

// NotchPartialHandler picks among the end-region cut flavors by where
// the contour sits against the cross-section: touching both edges
// removes the full section, touching only the top or bottom edge keeps
// the opposite edge, and a contour clear of both edges is an L-shaped
// corner cut. Contours with too few points fall through to the
// conservative box cutter.
func NotchPartialHandler(ctx Context) (*geom.Mesh, error) {
	pts := ctx.Feature.Params.Points
	if len(pts) < 3 {
		return SimpleCutHandler(ctx)
	}
	dim := ctx.Profile.Dimensions.Height
	if dim == 0 {
		dim = ctx.Profile.Dimensions.Width
	}
	b := boundsOf(pts)
	atBottom := b.minY <= edgeTouchToleranceMM
	atTop := b.maxY >= dim-edgeTouchToleranceMM
	switch {
	case atBottom && atTop:
		return FullCutHandler(ctx)
	case atTop:
		return TopCutHandler(ctx)
	case atBottom:
		return BottomCutHandler(ctx)
	default:
		return LShapeCutHandler(ctx)
	}
}

// LShapeCutHandler builds a single-corner notch cutter directly from its
// contour (NotchPartial: an L-shaped cut into one end/corner of the
// profile).
func LShapeCutHandler(ctx Context) (*geom.Mesh, error) {
	pts := ctx.Feature.Params.Points
	if len(pts) < 3 {
		return StraightEndHandler(ctx)
	}
	_, w := crossSection(ctx)
	return placeAtPosition(ctx, contourCutter(pts, w*ctx.Options.ThroughCutFactor)), nil
}

// TopCutHandler removes the upper half of the cross-section (from the
// centre plane up to the section height) over a ChamferLength ×
// EndCutFactor span straddling the nearer profile end.
// NotchPartialHandler selects it for contours touching only the top edge.
func TopCutHandler(ctx Context) (*geom.Mesh, error) {
	return planarEndCut(ctx, 1)
}

// BottomCutHandler is TopCutHandler's mirror: it removes the lower half
// of the cross-section.
func BottomCutHandler(ctx Context) (*geom.Mesh, error) {
	return planarEndCut(ctx, -1)
}

func planarEndCut(ctx Context, sign float32) (*geom.Mesh, error) {
	h, w := crossSection(ctx)
	chamfer := ctx.Feature.Params.ChamferLength
	if chamfer <= 0 {
		chamfer = 50
	}
	cutter := geom.Box(float32(chamfer*ctx.Options.EndCutFactor), float32(h), float32(w*ctx.Options.ThroughCutFactor))
	offsetY := sign * float32(h/2)
	return geom.ApplyMesh(cutter, geom.Translate(geom.Vec3{endX(ctx), offsetY, 0})), nil
}

// FullCutHandler is the CompoundCut fallback: it prefers a contour-driven
// cutter when enough points are available, and otherwise falls back to
// SimpleCutHandler's box at the feature's position.
func FullCutHandler(ctx Context) (*geom.Mesh, error) {
	pts := ctx.Feature.Params.Points
	if len(pts) >= 3 {
		_, w := crossSection(ctx)
		return placeAtPosition(ctx, contourCutter(pts, w*ctx.Options.ThroughCutFactor)), nil
	}
	return SimpleCutHandler(ctx)
}

// SimpleCutHandler is the Registry's last-resort handler: a box covering
// the full cross-section (oversized by ThroughCutFactor) and
// ChamferLength × EndCutFactor along X (default 50mm × 2), centred on the
// feature's resolved position. It is used when a Type has no registered
// handler at all.
func SimpleCutHandler(ctx Context) (*geom.Mesh, error) {
	h, w := crossSection(ctx)
	chamfer := ctx.Feature.Params.ChamferLength
	if chamfer <= 0 {
		chamfer = 50
	}
	cutter := geom.Box(float32(chamfer*ctx.Options.EndCutFactor), float32(h*ctx.Options.ThroughCutFactor), float32(w*ctx.Options.ThroughCutFactor))
	return geom.ApplyMesh(cutter, geom.Translate(ctx.Position.Position)), nil
}
