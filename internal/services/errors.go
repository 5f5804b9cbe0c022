package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update targets an id that does not exist.
var ErrNotFound = errors.New("family member not found")

// ErrDuplicateID is returned when an add collides with an existing id.
var ErrDuplicateID = errors.New("family member id already exists")

// ValidationError reports a rejected field before anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
