package models

// ValidationError signals a business-rule violation. The reason is meant to be
// shown to the operator as-is; nothing was persisted when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError with the given human-readable reason.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
