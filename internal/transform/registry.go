package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (PolicyTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("adjust_rate", createAdjustRate)
	registry.Register("set_rate", createSetRate)
	registry.Register("set_start", createSetStart)
	registry.Register("set_phase_in", createSetPhaseIn)
	registry.Register("set_sunset", createSetSunset)
	registry.Register("set_eti", createSetETI)
	registry.Register("set_lock_in", createSetLockIn)
	registry.Register("eliminate_step_up", createEliminateStepUp)
	registry.Register("scale_spending", createScaleSpending)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (PolicyTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "adjust_rate:delta=0.01"
func (r *TransformRegistry) ParseTransformSpec(spec string) (PolicyTransform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			k, v, ok := strings.Cut(paramPair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses each spec in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]PolicyTransform, error) {
	transforms := make([]PolicyTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}
	return transforms, nil
}

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func intParam(transform string, params map[string]string, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createAdjustRate(params map[string]string) (PolicyTransform, error) {
	delta, err := decimalParam("adjust_rate", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustRate{Delta: delta}, nil
}

func createSetRate(params map[string]string) (PolicyTransform, error) {
	value, err := decimalParam("set_rate", params, "value")
	if err != nil {
		return nil, err
	}
	return &SetRate{Value: value}, nil
}

func createSetStart(params map[string]string) (PolicyTransform, error) {
	year, err := intParam("set_start", params, "year")
	if err != nil {
		return nil, err
	}
	return &SetStart{Year: year}, nil
}

func createSetPhaseIn(params map[string]string) (PolicyTransform, error) {
	years, err := intParam("set_phase_in", params, "years")
	if err != nil {
		return nil, err
	}
	return &SetPhaseIn{Years: years}, nil
}

func createSetSunset(params map[string]string) (PolicyTransform, error) {
	t := &SetSunset{Enabled: true}
	if raw, ok := params["enabled"]; ok {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid enabled value: %w", err)
		}
		t.Enabled = enabled
	}
	if _, ok := params["years"]; ok {
		years, err := intParam("set_sunset", params, "years")
		if err != nil {
			return nil, err
		}
		t.Years = years
	}
	return t, nil
}

func createSetETI(params map[string]string) (PolicyTransform, error) {
	value, err := decimalParam("set_eti", params, "value")
	if err != nil {
		return nil, err
	}
	return &SetETI{Value: value}, nil
}

func createSetLockIn(params map[string]string) (PolicyTransform, error) {
	value, err := decimalParam("set_lock_in", params, "value")
	if err != nil {
		return nil, err
	}
	return &SetLockIn{Value: value}, nil
}

func createEliminateStepUp(params map[string]string) (PolicyTransform, error) {
	t := &EliminateStepUp{}
	if _, ok := params["exemption"]; ok {
		exemption, err := decimalParam("eliminate_step_up", params, "exemption")
		if err != nil {
			return nil, err
		}
		t.Exemption = exemption
	}
	return t, nil
}

func createScaleSpending(params map[string]string) (PolicyTransform, error) {
	factor, err := decimalParam("scale_spending", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleSpending{Factor: factor}, nil
}
