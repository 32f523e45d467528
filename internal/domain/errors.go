package domain

import "fmt"

// ProcessingError is returned when a forecast could not be built. Err keeps
// the underlying cause for logs; callers should not show it to end users.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("unexpected error during the forecast processing: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// ValidationError reports a rejected field on user input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
