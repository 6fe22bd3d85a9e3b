package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for store operations. A record belonging to another owner
// is reported as not found, so callers cannot probe other owners' data.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrDuplicateEmail   = errors.New("email already exists for this owner")
)

// ValidationError reports the first field that failed input validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
