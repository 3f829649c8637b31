package feature

import (
	"testing"

	"github.com/gostructural/featurecut/geom"
)

func TestValidateHoleRequiresPositiveDiameter(t *testing.T) {
	f := Feature{ID: "h1", Kind: KindHole, Params: Params{Diameter: 0}}
	errs := Validate(f)
	if len(errs) != 1 || errs[0].Kind != ErrInvalidParams {
		t.Fatalf("Validate: have %v, want one ErrInvalidParams", errs)
	}

	f.Params.Diameter = 22
	if errs := Validate(f); len(errs) != 0 {
		t.Fatalf("Validate: have %v, want none", errs)
	}
}

func TestValidateContourRequiresThreePoints(t *testing.T) {
	f := Feature{ID: "c1", Kind: KindContour, Params: Params{
		Points: []geom.ContourPoint{{X: 0, Y: 0}, {X: 10, Y: 0}},
	}}
	errs := Validate(f)
	if len(errs) != 1 || errs[0].Kind != ErrTooFewPoints {
		t.Fatalf("Validate: have %v, want one ErrTooFewPoints", errs)
	}

	f.Params.Points = append(f.Params.Points, geom.ContourPoint{X: 10, Y: 10})
	if errs := Validate(f); len(errs) != 0 {
		t.Fatalf("Validate: have %v, want none", errs)
	}
}

func TestValidateChamferAngleRange(t *testing.T) {
	f := Feature{ID: "ch1", Kind: KindChamfer, Params: Params{Angle: 95}}
	errs := Validate(f)
	if len(errs) != 1 || errs[0].Kind != ErrAngleOutOfRange {
		t.Fatalf("Validate: have %v, want one ErrAngleOutOfRange", errs)
	}
}

func TestValidateUnknownKind(t *testing.T) {
	errs := Validate(Feature{ID: "x"})
	if len(errs) != 1 || errs[0].Kind != ErrUnknownKind {
		t.Fatalf("Validate: have %v, want one ErrUnknownKind", errs)
	}
}

func TestComplexityScoreOrdering(t *testing.T) {
	if KindMarking.ComplexityScore() >= KindHole.ComplexityScore() {
		t.Fatal("marking should sort before hole")
	}
	if KindHole.ComplexityScore() >= KindChamfer.ComplexityScore() {
		t.Fatal("hole should sort before chamfer")
	}
	if KindChamfer.ComplexityScore() >= KindNotch.ComplexityScore() {
		t.Fatal("chamfer should sort before notch")
	}
	if KindNotch.ComplexityScore() >= KindCoping.ComplexityScore() {
		t.Fatal("notch should sort before coping")
	}
}
