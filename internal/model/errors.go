package model

import "errors"

// Sentinel errors for model validation and priming.
var (
	// ErrUnknownCoupling indicates a coupling-type label with no known terms.
	ErrUnknownCoupling = errors.New("unknown coupling type")
	// ErrMissingField indicates a required field (e.g. models, m_extent) is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrLengthMismatch indicates a per-model list whose length differs from the model count.
	ErrLengthMismatch = errors.New("per-model list length mismatch")
	// ErrConflictingFields indicates two fields that may not be set together.
	ErrConflictingFields = errors.New("conflicting fields")
	// ErrBounds indicates a numeric field is out of its valid range.
	ErrBounds = errors.New("value out of range")
	// ErrUnsupportedFormat indicates a model file with an unrecognized extension.
	ErrUnsupportedFormat = errors.New("unsupported model file format")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

const (
	// ValCatMissingField indicates a required field is empty.
	ValCatMissingField ValidationCategory = "missing_field"
	// ValCatLengthMismatch indicates a per-model list has the wrong length.
	ValCatLengthMismatch ValidationCategory = "length_mismatch"
	// ValCatConflict indicates mutually exclusive fields were both set.
	ValCatConflict ValidationCategory = "conflict"
	// ValCatBoundsViolation indicates a numeric field is out of valid range.
	ValCatBoundsViolation ValidationCategory = "bounds_violation"
	// ValCatUnknownCoupling indicates an unrecognized coupling-type label.
	ValCatUnknownCoupling ValidationCategory = "unknown_coupling"
)

// ValidationError records a validation problem with field context.
type ValidationError struct {
	Category ValidationCategory // Machine-readable category for programmatic handling
	Field    string
	Err      error
}

// Error returns a human-readable string including the offending field.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
