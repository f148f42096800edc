package facterr

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error codes used by fact computations and the registry.
const (
	// ErrCodeMissingFile indicates a file or directory the fact reads is absent
	ErrCodeMissingFile = "MISSING_FILE"

	// ErrCodeCommandFailed indicates an external command could not be executed
	ErrCodeCommandFailed = "COMMAND_FAILED"

	// ErrCodeNoMatch indicates output did not match the expected pattern
	ErrCodeNoMatch = "NO_MATCH"

	// ErrCodeNotConfined indicates the host does not satisfy the fact's confinement
	ErrCodeNotConfined = "NOT_CONFINED"

	// ErrCodeUnknownFact indicates the requested fact is not registered
	ErrCodeUnknownFact = "UNKNOWN_FACT"

	// ErrCodeComputeFailed indicates a computation panicked or failed otherwise
	ErrCodeComputeFailed = "COMPUTE_FAILED"
)

// Error is a structured error type for fact operations.
// It records which fact and operation failed, a standard error code,
// and can wrap an underlying error.
type Error struct {
	// Fact is the name of the fact that generated the error
	Fact string

	// Operation is the step that failed (e.g., "exec", "read", "parse")
	Operation string

	// Code is a standard error code constant
	Code string

	// Message is a human-readable error message
	Message string

	// Details contains additional context as key-value pairs
	Details map[string]any

	// Cause is the underlying error that caused this error
	Cause error
}

// New creates a new structured fact error.
//
// Example:
//
//	err := facterr.New("puppet_user_uid", "exec", facterr.ErrCodeCommandFailed, "id lookup failed")
func New(fact, operation, code, message string) *Error {
	return &Error{
		Fact:      fact,
		Operation: operation,
		Code:      code,
		Message:   message,
	}
}

// WithCause adds an underlying error to this error.
// This method returns the same error instance for method chaining.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails adds additional context to this error.
// This method returns the same error instance for method chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// Class returns the classification of this error's code.
func (e *Error) Class() Class {
	return ClassForCode(e.Code)
}

// Error implements the error interface.
// It formats the error as: "fact [operation/code]: message: cause"
//
// Examples:
//   - "puppet_server_version [exec/COMMAND_FAILED]: command execution failed: exit status 127"
//   - "local_cert_signatures [scan/MISSING_FILE]: trust directory not found"
func (e *Error) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%s [%s/%s]", e.Fact, e.Operation, e.Code))

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause error.
// This enables errors.Is() and errors.As() to work with wrapped errors.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
// Two Error values are considered equal if they have the same Fact, Operation, and Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Fact == t.Fact && e.Operation == t.Operation && e.Code == t.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// Sentinel errors for registry-level conditions.
var (
	// ErrUnknownFact is wrapped by errors returned when resolving an unregistered name
	ErrUnknownFact = errors.New("unknown fact")

	// ErrDuplicateFact is returned when a fact name is registered twice
	ErrDuplicateFact = errors.New("duplicate fact")

	// ErrInvalidDefinition is returned when a fact definition is incomplete or malformed
	ErrInvalidDefinition = errors.New("invalid fact definition")
)
