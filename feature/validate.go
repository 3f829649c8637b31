package feature

// requiresPositiveDiameter is the set of kinds that require
// Params.Diameter > 0 for.
func requiresPositiveDiameter(k Kind) bool {
	switch k {
	case KindHole, KindTappedHole, KindCountersink:
		return true
	default:
		return false
	}
}

// requiresContourPoints is the set of kinds that require at least 3
// distinct 2D points for.
func requiresContourPoints(k Kind) bool {
	switch k {
	case KindContour, KindCut, KindNotch, KindCutout:
		return true
	default:
		return false
	}
}

// Validate checks f against the feature invariants, returning every
// violation found (never panicking). A nil (empty) result indicates
// success.
func Validate(f Feature) []*ValidationError {
	var errs []*ValidationError

	if f.Kind == KindUnknown {
		errs = append(errs, &ValidationError{Kind: ErrUnknownKind, FeatureID: f.ID, Message: "feature has no recognised kind"})
		return errs
	}

	if requiresPositiveDiameter(f.Kind) {
		d := f.Params.Diameter
		if f.Kind == KindTappedHole && d == 0 {
			// A tapped hole's nominal thread size is its diameter.
			d = f.Params.NominalDiameter
		}
		if d <= 0 {
			errs = append(errs, &ValidationError{
				Kind: ErrInvalidParams, FeatureID: f.ID,
				Message: "diameter must be > 0",
			})
		}
	}

	if requiresContourPoints(f.Kind) {
		errs = append(errs, validateContourPoints(f)...)
	}

	if f.Kind == KindChamfer || f.Kind == KindBevel {
		if f.Params.Angle <= 0 || f.Params.Angle >= 90 {
			errs = append(errs, &ValidationError{
				Kind: ErrAngleOutOfRange, FeatureID: f.ID,
				Message: "chamfer/bevel angle must lie in (0, 90) degrees",
			})
		}
	}

	if f.Kind == KindCoping && f.Params.Angle != 0 {
		if f.Params.Angle <= 0 || f.Params.Angle >= 180 {
			errs = append(errs, &ValidationError{
				Kind: ErrAngleOutOfRange, FeatureID: f.ID,
				Message: "cope angle must lie in (0, 180) degrees",
			})
		}
	}

	if f.Kind == KindBend {
		if f.Params.Angle < 0 || f.Params.Angle > 180 {
			errs = append(errs, &ValidationError{
				Kind: ErrAngleOutOfRange, FeatureID: f.ID,
				Message: "bend angle must lie in [0, 180] degrees",
			})
		}
	}

	return errs
}

func validateContourPoints(f Feature) []*ValidationError {
	var errs []*ValidationError
	pts := f.Params.Points
	if len(pts) < 3 {
		errs = append(errs, &ValidationError{
			Kind: ErrTooFewPoints, FeatureID: f.ID,
			Message: "contour/cut/notch features require at least 3 distinct points",
		})
		return errs
	}
	distinct := make(map[[2]float32]struct{}, len(pts))
	for _, p := range pts {
		distinct[[2]float32{p.X, p.Y}] = struct{}{}
	}
	if len(distinct) < 3 {
		errs = append(errs, &ValidationError{
			Kind: ErrTooFewPoints, FeatureID: f.ID,
			Message: "contour/cut/notch features require at least 3 distinct points",
		})
	}
	return errs
}
