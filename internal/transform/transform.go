// Package transform provides composable edits to a policy, used to build
// alternatives for comparison, solver sweeps and CLI overrides.
package transform

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
)

// PolicyTransform defines the interface for all policy transformations.
// Transforms never mutate their input; Apply returns a modified copy.
type PolicyTransform interface {
	// Apply returns a modified copy of base.
	Apply(base domain.Policy) (domain.Policy, error)

	// Name returns a short identifier such as "adjust_rate".
	Name() string

	// Description returns a human-readable description of the edit.
	Description() string

	// Validate checks the parameters against base without applying them.
	Validate(base domain.Policy) error
}

// ApplyTransforms applies transforms in order, each receiving the output of
// the previous one.
func ApplyTransforms(base domain.Policy, transforms []PolicyTransform) (domain.Policy, error) {
	current := base
	for i, t := range transforms {
		if t == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}
	return current, nil
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

// Unwrap returns the cause, or ErrInvalidPolicyParameters when there is none
// so callers can classify transform failures as client errors.
func (e *TransformError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return domain.ErrInvalidPolicyParameters
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

func unsupported(name string, kind domain.Kind) error {
	return NewTransformError(name, "validate", fmt.Sprintf("not applicable to %s policies", kind), nil)
}
