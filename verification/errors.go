package verification

import (
	"fmt"
	"strings"
)

// ValidationError carries field-level validation messages. It is recoverable
// locally: the caller surfaces the fields and the record is left untouched.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

// PreconditionError means an operation ran before its dependencies were
// satisfied, e.g. submitting for review with incomplete steps.
type PreconditionError struct {
	Missing []Step
	Reason  string
}

func (e *PreconditionError) Error() string {
	if len(e.Missing) > 0 {
		names := make([]string, len(e.Missing))
		for i, s := range e.Missing {
			names[i] = string(s)
		}
		return "precondition not met, incomplete steps: " + strings.Join(names, ", ")
	}
	return "precondition not met: " + e.Reason
}

// InitializationError means the verification record could not be loaded or
// created. The caller may retry.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("verification record initialization failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// PersistenceError means a mutation failed to save; the in-memory record was
// not updated and the operation can be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
