package profile

import "fmt"

// ValidationError reports input that cannot be coerced into a scoring record.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// DocumentError reports a candidate or role document that could not be loaded.
type DocumentError struct {
	Path    string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %s: %s", e.Path, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
