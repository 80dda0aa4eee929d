// Package apperr defines the error taxonomy shared by the orchestration
// core. API handlers map these to HTTP statuses with errors.As; everything
// else is treated as a persistence/internal failure.
package apperr

import "fmt"

// ValidationError reports malformed input (domain, URL, template, schedule
// fields). Field names the offending field so the caller can correct it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a duplicate unique key.
type ConflictError struct {
	Entity string
	Key    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

// NotFoundError reports a reference to a missing row.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}
