package transform

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
)

// SetStart moves the policy's first effective year.
type SetStart struct {
	Year int
}

func (t *SetStart) Name() string        { return "set_start" }
func (t *SetStart) Description() string { return fmt.Sprintf("Start in %d", t.Year) }

func (t *SetStart) Validate(domain.Policy) error {
	if t.Year < 1900 || t.Year > 2200 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("implausible start year %d", t.Year), nil)
	}
	return nil
}

func (t *SetStart) Apply(base domain.Policy) (domain.Policy, error) {
	base.StartYear = t.Year
	return base, nil
}

// SetPhaseIn sets a linear phase-in over Years.
type SetPhaseIn struct {
	Years int
}

func (t *SetPhaseIn) Name() string { return "set_phase_in" }

func (t *SetPhaseIn) Description() string {
	return fmt.Sprintf("Phase in over %d years", t.Years)
}

func (t *SetPhaseIn) Validate(base domain.Policy) error {
	if t.Years < 0 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", t.Years), nil)
	}
	if t.Years >= base.DurationYears {
		return NewTransformError(t.Name(), "validate",
			fmt.Sprintf("phase-in of %d years must be shorter than duration %d", t.Years, base.DurationYears), nil)
	}
	return nil
}

func (t *SetPhaseIn) Apply(base domain.Policy) (domain.Policy, error) {
	base.PhaseInYears = t.Years
	return base, nil
}

// SetSunset turns the sunset on or off. A positive Years also resets the
// duration.
type SetSunset struct {
	Enabled bool
	Years   int
}

func (t *SetSunset) Name() string { return "set_sunset" }

func (t *SetSunset) Description() string {
	if !t.Enabled {
		return "Make permanent"
	}
	if t.Years > 0 {
		return fmt.Sprintf("Sunset after %d years", t.Years)
	}
	return "Sunset after the nominal duration"
}

func (t *SetSunset) Validate(base domain.Policy) error {
	if t.Years < 0 {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", t.Years), nil)
	}
	if t.Years > 0 && t.Years <= base.PhaseInYears {
		return NewTransformError(t.Name(), "validate", "sunset must come after the phase-in", nil)
	}
	return nil
}

func (t *SetSunset) Apply(base domain.Policy) (domain.Policy, error) {
	base.Sunset = t.Enabled
	if t.Years > 0 {
		base.DurationYears = t.Years
	}
	return base, nil
}
