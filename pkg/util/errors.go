// Package util provides logging, error types, and address helpers shared
// by the ipmirage packages.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the provisioning failure taxonomy. Typed errors in
// pkg/provision unwrap to one of these so callers can classify with
// errors.Is without importing the concrete types.
var (
	ErrUsage         = errors.New("usage error")
	ErrRemoteCommand = errors.New("remote command failed")
	ErrRemoteTimeout = errors.New("remote command timed out")
	ErrLocalRoute    = errors.New("local route mutation failed")
	ErrRollback      = errors.New("rollback failed")
	ErrVerify        = errors.New("verification failed")
)

// UsageErrorf creates an error that unwraps to ErrUsage.
func UsageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrUsage}, args...)...)
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrUsage
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
