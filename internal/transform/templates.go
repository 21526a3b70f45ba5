package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in policy templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []PolicyTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates returns the common timing and behavioral variants
// used to stress a policy.
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()
	d := decimal.NewFromFloat

	registry.Register(Template{
		Name:        "delay_1yr",
		Description: "Start one year later",
		Transforms:  []PolicyTransform{&delayStart{Years: 1}},
	})
	registry.Register(Template{
		Name:        "delay_2yr",
		Description: "Start two years later",
		Transforms:  []PolicyTransform{&delayStart{Years: 2}},
	})
	registry.Register(Template{
		Name:        "phase_in_3yr",
		Description: "Phase in over three years",
		Transforms:  []PolicyTransform{&SetPhaseIn{Years: 3}},
	})
	registry.Register(Template{
		Name:        "sunset_5yr",
		Description: "Expire after five years",
		Transforms:  []PolicyTransform{&SetSunset{Enabled: true, Years: 5}},
	})
	registry.Register(Template{
		Name:        "permanent",
		Description: "Remove any sunset",
		Transforms:  []PolicyTransform{&SetSunset{Enabled: false}},
	})
	registry.Register(Template{
		Name:        "low_eti",
		Description: "Low behavioral response (elasticity 0.1)",
		Transforms:  []PolicyTransform{&SetETI{Value: d(0.1)}},
	})
	registry.Register(Template{
		Name:        "high_eti",
		Description: "High behavioral response (elasticity 0.4)",
		Transforms:  []PolicyTransform{&SetETI{Value: d(0.4)}},
	})
	registry.Register(Template{
		Name:        "half_size",
		Description: "Halve the rate change",
		Transforms:  []PolicyTransform{&scaleRate{Factor: d(0.5)}},
	})
	registry.Register(Template{
		Name:        "double_size",
		Description: "Double the rate change",
		Transforms:  []PolicyTransform{&scaleRate{Factor: d(2)}},
	})

	return registry
}

// delayStart shifts the start year relative to the base policy.
type delayStart struct {
	Years int
}

func (t *delayStart) Name() string        { return "delay_start" }
func (t *delayStart) Description() string { return fmt.Sprintf("Delay start by %d years", t.Years) }
func (t *delayStart) Validate(domain.Policy) error {
	if t.Years < 0 {
		return NewTransformError(t.Name(), "validate", "years must be non-negative", nil)
	}
	return nil
}

func (t *delayStart) Apply(base domain.Policy) (domain.Policy, error) {
	base.StartYear += t.Years
	return base, nil
}

// scaleRate multiplies the rate lever, or the outlay for spending policies.
type scaleRate struct {
	Factor decimal.Decimal
}

func (t *scaleRate) Name() string        { return "scale_rate" }
func (t *scaleRate) Description() string { return fmt.Sprintf("Scale policy size by %s", t.Factor) }

func (t *scaleRate) Validate(base domain.Policy) error {
	if _, err := RateChange(base); err == nil {
		return nil
	}
	return (&ScaleSpending{Factor: t.Factor}).Validate(base)
}

func (t *scaleRate) Apply(base domain.Policy) (domain.Policy, error) {
	current, err := RateChange(base)
	if err != nil {
		return (&ScaleSpending{Factor: t.Factor}).Apply(base)
	}
	return WithRateChange(base, current.Mul(t.Factor))
}

// ApplyTemplate applies a template to a base policy
func ApplyTemplate(base domain.Policy, template Template) (domain.Policy, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, name := range registry.List() {
		t := registry.templates[name]
		sb.WriteString(fmt.Sprintf("  %-16s %s\n", t.Name, t.Description))
	}
	sb.WriteString("\nUsage:\n")
	sb.WriteString("  fiscalcalc compare policy.yaml --with delay_1yr,high_eti\n")
	return sb.String()
}
