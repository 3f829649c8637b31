// Package feature defines the Feature value type consumed by the
// pipeline and the kind/coordinate-system enumerations used to
// dispatch it to a cut handler (cut package) or a feature processor
// (processor package).
package feature

import "github.com/gostructural/featurecut/geom"

// Kind enumerates the fabrication feature kinds the engine recognises.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindHole
	KindTappedHole
	KindCountersink
	KindCounterbore
	KindSpotface
	KindDrillPattern
	KindSlot
	KindCutout
	KindContour
	KindNotch
	KindCut
	KindChamfer
	KindBevel
	KindCoping
	KindMarking
	KindText
	KindWeld
	KindThread
	KindBend
	KindComposite
)

// String returns the kind's canonical lowercase name, used in metadata
// sidecar entries and error messages.
func (k Kind) String() string {
	switch k {
	case KindHole:
		return "hole"
	case KindTappedHole:
		return "tapped_hole"
	case KindCountersink:
		return "countersink"
	case KindCounterbore:
		return "counterbore"
	case KindSpotface:
		return "spotface"
	case KindDrillPattern:
		return "drill_pattern"
	case KindSlot:
		return "slot"
	case KindCutout:
		return "cutout"
	case KindContour:
		return "contour"
	case KindNotch:
		return "notch"
	case KindCut:
		return "cut"
	case KindChamfer:
		return "chamfer"
	case KindBevel:
		return "bevel"
	case KindCoping:
		return "coping"
	case KindMarking:
		return "marking"
	case KindText:
		return "text"
	case KindWeld:
		return "weld"
	case KindThread:
		return "thread"
	case KindBend:
		return "bend"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// IsGeometric reports whether applying this kind mutates the mesh via a
// CSG/transform operation. Non-geometric kinds are the only ones eligible
// for the pipeline's parallel-processing path.
func (k Kind) IsGeometric() bool {
	switch k {
	case KindMarking, KindText:
		return false
	case KindWeld:
		// Weld visualization is non-geometric, but the core treats welds
		// as additive CSG by default; the
		// processor, not the kind, decides which mode applies.
		return true
	default:
		return true
	}
}

// ComplexityScore is the fixed complexity score of the tabulated kinds;
// every other kind scores 6. Lower sorts first. The pipeline orders by
// its own table (pipeline.complexityScore), which additionally places the
// hole variants with Hole and Contour with Cutout.
func (k Kind) ComplexityScore() int {
	switch k {
	case KindMarking, KindText:
		return 1
	case KindHole, KindDrillPattern:
		return 2
	case KindChamfer, KindBevel:
		return 3
	case KindSlot, KindNotch:
		return 4
	case KindCutout, KindCoping:
		return 5
	default:
		return 6
	}
}

// CoordinateSystem enumerates the frames a Feature.Position may be
// expressed in.
type CoordinateSystem uint8

const (
	CoordLocal CoordinateSystem = iota
	CoordGlobal
	CoordFace
	CoordDSTV
	CoordStandard
)

// Face is the enumerated surface identifier a feature may be bound to.
type Face uint8

const (
	FaceNone Face = iota
	FaceWeb
	FaceTopFlange
	FaceBottomFlange
	FaceTop
	FaceBottom
	FaceLeft
	FaceRight
	FaceFront
	FaceBack
	FaceLeftLeg
	FaceRightLeg
)

func (f Face) String() string {
	switch f {
	case FaceWeb:
		return "Web"
	case FaceTopFlange:
		return "TopFlange"
	case FaceBottomFlange:
		return "BottomFlange"
	case FaceTop:
		return "Top"
	case FaceBottom:
		return "Bottom"
	case FaceLeft:
		return "Left"
	case FaceRight:
		return "Right"
	case FaceFront:
		return "Front"
	case FaceBack:
		return "Back"
	case FaceLeftLeg:
		return "LeftLeg"
	case FaceRightLeg:
		return "RightLeg"
	default:
		return "Web" // unmapped faces fall back to Web, see Resolve in the resolve package.
	}
}

// HoleType distinguishes the Hole processor's geometric variants.
type HoleType uint8

const (
	HoleRound HoleType = iota
	HoleSlotted
	HoleSquare
	HoleRectangular
)

// CopingType distinguishes the Coping processor's geometric variants.
type CopingType uint8

const (
	CopingProfileFit CopingType = iota
	CopingSaddle
	CopingStraightBevel
	CopingSingleBevel
	CopingDoubleBevel
)

// WeldType distinguishes the Weld processor's variants.
type WeldType uint8

const (
	WeldFillet WeldType = iota
	WeldButt
	WeldSpot
	WeldSeam
)

// DrillPatternLayout distinguishes how a DrillPattern feature's sub-holes
// are arranged.
type DrillPatternLayout uint8

const (
	PatternLinear DrillPatternLayout = iota
	PatternRectangular
	PatternCircular
)

// Params is the typed parameter bag carried by a Feature. Fields
// left at their zero value are simply unset; Extra preserves any
// caller-supplied key the processor for Kind does not itself consume.
type Params struct {
	Diameter  float64
	Depth     float64 // explicit blind depth; 0 means "through" (processor-specific default applies)
	Angle     float64 // degrees
	SinkAngle float64 // degrees, countersink included (full cone) angle

	HoleType   HoleType
	CopingType CopingType
	WeldType   WeldType

	ChamferLength float64 // mm, StraightEndHandler default 50
	Clearance     float64 // mm, coping profile-fit clearance

	// Thread parameters.
	NominalDiameter float64
	Pitch           float64

	// Drill pattern parameters.
	PatternLayout DrillPatternLayout
	Count         int
	Spacing       float64
	Rows, Columns int
	RowSpacing    float64
	ColumnSpacing float64
	Radius        float64
	StartAngle    float64

	// Contour/cut/notch points.
	Points []geom.ContourPoint

	// Marking/text parameters.
	Text string
	Size float64
	// Engrave, when true, additionally applies the marking as a shallow
	// CSG box extrusion instead of a renderer-only annotation.
	Engrave bool

	// Bend parameters.
	BendAxis     geom.Vec3
	BendPosition float64
	BendRadius   float64

	// Composite sub-feature declarations.
	SubFeatures []Feature
	DependsOn   map[string][]string // sub-feature id -> ids it depends on
	Sequence    CompositeSequence

	Extra map[string]any
}

// CompositeSequence controls how a composite's sub-features are grouped
// for application.
type CompositeSequence uint8

const (
	SequenceOrdered CompositeSequence = iota
	SequenceParallel
)

// Feature is the value-type record the pipeline consumes.
type Feature struct {
	ID               string
	Kind             Kind
	CoordinateSystem CoordinateSystem
	Position         geom.Vec3
	Rotation         geom.Euler
	Face             Face
	HasFace          bool
	Params           Params
	Metadata         map[string]any
}
