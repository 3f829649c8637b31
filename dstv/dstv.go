// Package dstv holds the small set of constants the core recognises from
// the DSTV NC-1 industrial exchange format. The text parser that produces
// a Feature stream from a .nc1 file is an external collaborator; this
// package only names the face and block codes the resolver and feature
// model need to interpret what the parser already decoded.
package dstv

// FaceCode is a single-character DSTV face identifier as it appears in a
// block header.
type FaceCode byte

// Face codes, named after the German terms DSTV uses.
const (
	FaceWeb          FaceCode = 'v' // v -- vorne/Steg -> Web (ame)
	FaceTopFlange    FaceCode = 'o' // o -- oben -> top flange
	FaceBottomFlange FaceCode = 'u' // u -- unten -> bottom flange
	FaceFront        FaceCode = 'h' // h -- hinten; ambiguous, see doc below
	FaceLeftLeg      FaceCode = 'l' // l -- links -> left leg (angles)
	FaceRightLeg     FaceCode = 'r' // r -- rechts -> right leg (angles)
)

// BlockCode identifies a DSTV data block kind.
type BlockCode string

// Recognised block codes. The parser that emits these is
// external; the core only needs to know which Feature.Kind each maps to
// when mapping metadata back for diagnostics.
const (
	BlockExteriorContour BlockCode = "AK" // outer contour
	BlockInteriorContour BlockCode = "IK" // interior contour / cutout
	BlockBore            BlockCode = "BO" // round hole
	BlockMarking         BlockCode = "SI" // scribe / marking
	BlockBend            BlockCode = "KA" // bend line
	BlockThread          BlockCode = "TO" // thread
	BlockVolume          BlockCode = "PU" // volume / punch mark
)

// resolvedFaceH settles the ambiguous "h" (Hinten) face code, which
// downstream tools interpret as either Front or Back. This module
// chooses Back and
// records the choice here rather than leaving it implicit at every call
// site.
const resolvedFaceH = "Back"

// ResolveAmbiguousFace returns the engine Face name this module uses for
// DSTV's ambiguous "h" code.
func ResolveAmbiguousFace() string { return resolvedFaceH }
