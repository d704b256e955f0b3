package blend

import (
	"errors"
	"fmt"
)

// ErrNoCombinations reports a search that ran but found no candidate blend.
// It is an outcome, not a caller mistake.
var ErrNoCombinations = errors.New("blend: no combinations found")

// ValidationError describes caller input rejected before any computation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "blend: " + e.Reason
	}
	return fmt.Sprintf("blend: %s %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
