package services

import (
	"errors"
	"strings"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrInvalidID             = errors.New("invalid record id")
	ErrPhotoTooLarge         = errors.New("photo exceeds size limit")
	ErrUnsupportedPhoto      = errors.New("photo is not a supported image type")
	ErrPhotoRejected         = errors.New("photo rejected: violates community guidelines")
	ErrPhotoStoreUnavailable = errors.New("photo storage is not configured")
)

// Violation is one failed rule on one field. Kind is one of required, min,
// max, invalid or pattern.
type Violation struct {
	Field string
	Kind  string
}

// MessageID is the key of the localized message for this violation.
func (v Violation) MessageID() string {
	return "field." + v.Field + "." + v.Kind
}

// ValidationError reports every violated field of a submission, in form order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Kind)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}
