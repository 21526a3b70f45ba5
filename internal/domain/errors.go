package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scoring pipeline. Callers match them with errors.Is.
var (
	// ErrDataUnavailable is returned when a bracket, baseline or group lookup
	// has no data for the requested key. The core never substitutes defaults.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInvalidPolicyParameters is returned by validation for malformed policies.
	ErrInvalidPolicyParameters = errors.New("invalid policy parameters")

	// ErrNumericDegenerate is returned when a computation would divide by a
	// zero or negative quantity, such as a non-positive GDP.
	ErrNumericDegenerate = errors.New("numeric degenerate input")
)

// PolicyError describes a single invalid policy field.
type PolicyError struct {
	Policy  string
	Field   string
	Message string
}

func (e *PolicyError) Error() string {
	if e.Policy != "" {
		return fmt.Sprintf("policy %q: %s: %s", e.Policy, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *PolicyError) Unwrap() error {
	return ErrInvalidPolicyParameters
}

// DataError describes a failed external data lookup.
type DataError struct {
	Source  string
	Year    int
	Message string
}

func (e *DataError) Error() string {
	if e.Year != 0 {
		return fmt.Sprintf("%s (year %d): %s", e.Source, e.Year, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *DataError) Unwrap() error {
	return ErrDataUnavailable
}

// DegenerateError describes a numeric input that cannot be used as a divisor.
type DegenerateError struct {
	Quantity string
	Year     int
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("%s is non-positive in %d", e.Quantity, e.Year)
}

func (e *DegenerateError) Unwrap() error {
	return ErrNumericDegenerate
}

// NewPolicyError creates a PolicyError.
func NewPolicyError(policy, field, message string) error {
	return &PolicyError{Policy: policy, Field: field, Message: message}
}

// NewDataError creates a DataError.
func NewDataError(source string, year int, message string) error {
	return &DataError{Source: source, Year: year, Message: message}
}

// IsClientError reports whether err was caused by caller-supplied input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPolicyParameters)
}

// IsDataUnavailable reports whether err is a missing-data condition.
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}

// IsNumericDegenerate reports whether err is a degenerate numeric input.
func IsNumericDegenerate(err error) bool {
	return errors.Is(err, ErrNumericDegenerate)
}
