package model

import "fmt"

// Validate checks raw params for structural correctness: required fields,
// per-model list lengths, mutually exclusive fields, and numeric bounds.
func Validate(p Params) []ValidationError {
	var errs []ValidationError

	n := len(p.Models)
	if n == 0 {
		return []ValidationError{{
			Category: ValCatMissingField,
			Field:    "models",
			Err:      fmt.Errorf("%w: models", ErrMissingField),
		}}
	}

	for i, m := range p.Models {
		if !CouplingType(m).Known() {
			errs = append(errs, ValidationError{
				Category: ValCatUnknownCoupling,
				Field:    fmt.Sprintf("models[%d]", i),
				Err:      fmt.Errorf("%w: %q", ErrUnknownCoupling, m),
			})
		}
	}

	errs = append(errs, checkIntList("m_extent", p.MExtent, n)...)
	errs = append(errs, checkFloatList("omega", p.Omega, n)...)
	if p.Temperature > 0 {
		// The thermofield angle atanh(exp(-Omega/2T)) needs Omega > 0.
		for i, o := range p.Omega {
			if o <= 0 {
				errs = append(errs, boundsError(fmt.Sprintf("omega[%d]", i), fmt.Sprintf("must be > 0 at finite temperature, got %g", o)))
			}
		}
	}

	// Boson counts come either from n_bosons or from the per-site cap.
	switch {
	case p.MaxBosonsPerSite < 0:
		errs = append(errs, ValidationError{
			Category: ValCatBoundsViolation,
			Field:    "max_bosons_per_site",
			Err:      fmt.Errorf("%w: max_bosons_per_site must be > 0, got %d", ErrBounds, p.MaxBosonsPerSite),
		})
	case p.MaxBosonsPerSite > 0 && len(p.NBosons) > 0:
		errs = append(errs, ValidationError{
			Category: ValCatConflict,
			Field:    "n_bosons",
			Err:      fmt.Errorf("%w: n_bosons and max_bosons_per_site", ErrConflictingFields),
		})
	case p.MaxBosonsPerSite == 0:
		errs = append(errs, checkIntList("n_bosons", p.NBosons, n)...)
	}

	switch {
	case len(p.Lambda) == 0 && len(p.G) == 0:
		errs = append(errs, ValidationError{
			Category: ValCatMissingField,
			Field:    "lambda",
			Err:      fmt.Errorf("%w: one of lambda or g", ErrMissingField),
		})
	case len(p.Lambda) > 0 && len(p.G) > 0:
		errs = append(errs, ValidationError{
			Category: ValCatConflict,
			Field:    "g",
			Err:      fmt.Errorf("%w: lambda and g", ErrConflictingFields),
		})
	case len(p.Lambda) > 0:
		errs = append(errs, checkFloatList("lambda", p.Lambda, n)...)
	default:
		errs = append(errs, checkFloatList("g", p.G, n)...)
	}

	if p.Hopping < 0 {
		errs = append(errs, boundsError("hopping", fmt.Sprintf("must be >= 0, got %g", p.Hopping)))
	}
	if p.Broadening < 0 {
		errs = append(errs, boundsError("broadening", fmt.Sprintf("must be >= 0, got %g", p.Broadening)))
	}
	if p.Temperature < 0 {
		errs = append(errs, boundsError("temperature", fmt.Sprintf("must be >= 0, got %g", p.Temperature)))
	}
	if len(p.MTFD) > 0 {
		errs = append(errs, checkIntList("m_tfd", p.MTFD, n)...)
	}
	if len(p.NTFD) > 0 {
		errs = append(errs, checkIntList("n_tfd", p.NTFD, n)...)
	}

	switch {
	case p.AbsoluteExtent < 0:
		errs = append(errs, boundsError("absolute_extent", fmt.Sprintf("must be > 0, got %d", p.AbsoluteExtent)))
	case p.AbsoluteExtent == 0 && n > 1:
		errs = append(errs, ValidationError{
			Category: ValCatMissingField,
			Field:    "absolute_extent",
			Err:      fmt.Errorf("%w: absolute_extent is required with more than one model", ErrMissingField),
		})
	}
	if p.Dimension < 0 {
		errs = append(errs, boundsError("dimension", fmt.Sprintf("must be >= 1, got %d", p.Dimension)))
	}

	return errs
}

func checkIntList(field string, vals []int, n int) []ValidationError {
	if len(vals) == 0 {
		return []ValidationError{{
			Category: ValCatMissingField,
			Field:    field,
			Err:      fmt.Errorf("%w: %s", ErrMissingField, field),
		}}
	}
	if len(vals) != n {
		return []ValidationError{{
			Category: ValCatLengthMismatch,
			Field:    field,
			Err:      fmt.Errorf("%w: %s has %d entries for %d model(s)", ErrLengthMismatch, field, len(vals), n),
		}}
	}
	var errs []ValidationError
	for i, v := range vals {
		if v < 1 {
			errs = append(errs, boundsError(fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("must be >= 1, got %d", v)))
		}
	}
	return errs
}

func checkFloatList(field string, vals []float64, n int) []ValidationError {
	if len(vals) == 0 {
		return []ValidationError{{
			Category: ValCatMissingField,
			Field:    field,
			Err:      fmt.Errorf("%w: %s", ErrMissingField, field),
		}}
	}
	if len(vals) != n {
		return []ValidationError{{
			Category: ValCatLengthMismatch,
			Field:    field,
			Err:      fmt.Errorf("%w: %s has %d entries for %d model(s)", ErrLengthMismatch, field, len(vals), n),
		}}
	}
	return nil
}

func boundsError(field, msg string) ValidationError {
	return ValidationError{
		Category: ValCatBoundsViolation,
		Field:    field,
		Err:      fmt.Errorf("%w: %s %s", ErrBounds, field, msg),
	}
}
