package finance

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports a numeric input that is missing or outside its
// domain. Field names the offending input using its JSON name.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) true for any InvalidInputError
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// FieldOf returns the offending field of an InvalidInputError, or "" when err
// is not one.
func FieldOf(err error) string {
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		return inputErr.Field
	}
	return ""
}
