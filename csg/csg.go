// Package csg implements the CSG evaluator: boolean subtract / union /
// intersect over two meshes, returning a new mesh.
//
// The evaluator is a from-scratch BSP-tree boolean, the standard
// technique for exact polygon-soup CSG (as used by, e.g., Evan Wallace's
// csg.js and most mesh-level CSG kernels); no repository in the retrieved
// pack ships a mesh-mesh boolean library to ground this on; the
// signed-distance-field CSG in deadsy/sdfx (sdf.Union3D/Difference3D)
// solves the same modeling problem over a different representation
// (volumes, not triangle soups) and is not reusable here.
package csg

import (
	"errors"
	"fmt"

	"github.com/gostructural/featurecut/geom"
)

// Operation is a boolean CSG operation.
type Operation uint8

const (
	Subtract Operation = iota
	Union
	Intersect
)

func (op Operation) String() string {
	switch op {
	case Subtract:
		return "Subtract"
	case Union:
		return "Union"
	case Intersect:
		return "Intersect"
	default:
		return "Unknown"
	}
}

// ErrorKind categorizes CSG evaluation errors.
type ErrorKind uint8

const (
	// ErrInvalidMesh indicates an input mesh has fewer than three
	// vertices, or no position attribute at all.
	ErrInvalidMesh ErrorKind = iota
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidMesh:
		return "InvalidMeshForCSG"
	default:
		return "Unknown"
	}
}

// Error wraps an ErrorKind with the offending operand's identity.
type Error struct {
	Kind    ErrorKind
	Operand string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("csg: %s (%s): %s", e.Kind, e.Operand, e.Message)
}

var errNilMesh = errors.New("csg: nil mesh")

// Apply evaluates a op b and returns the resulting mesh. Both meshes are
// assumed already expressed in the same (engine-local) frame; callers
// transform operands via geom.ApplyMesh before calling Apply.
//
// Apply is deterministic given identical inputs: polygon order is
// preserved from each mesh's triangle order throughout the BSP build, and
// no floating-point-sensitive tie-break depends on map iteration order.
//
// A result with zero vertices is a valid (if degenerate) output — e.g. a
// cut solid that fully contains the base mesh collapses Subtract to
// nothing. Apply does not itself apply the "retain A on catastrophic
// collapse" rule; that is a pipeline-level policy decision over
// Apply's result.
func Apply(a, b *geom.Mesh, op Operation) (*geom.Mesh, error) {
	if a == nil || b == nil {
		return nil, errNilMesh
	}
	if len(a.Positions) < 3 {
		return nil, &Error{Kind: ErrInvalidMesh, Operand: "a", Message: "fewer than 3 vertices"}
	}
	if len(b.Positions) < 3 {
		return nil, &Error{Kind: ErrInvalidMesh, Operand: "b", Message: "fewer than 3 vertices"}
	}

	polysA := meshToPolygons(a)
	polysB := meshToPolygons(b)
	if len(polysA) == 0 {
		return nil, &Error{Kind: ErrInvalidMesh, Operand: "a", Message: "no non-degenerate triangles"}
	}
	if len(polysB) == 0 {
		return nil, &Error{Kind: ErrInvalidMesh, Operand: "b", Message: "no non-degenerate triangles"}
	}

	var result []polygon
	switch op {
	case Union:
		result = opUnion(polysA, polysB)
	case Intersect:
		result = opIntersect(polysA, polysB)
	default:
		result = opSubtract(polysA, polysB)
	}

	out := polygonsToMesh(result)
	out.UserData = a.UserData.Clone()
	return out, nil
}
