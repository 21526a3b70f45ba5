// Package config loads policy, package and baseline input files and the
// runtime settings read from the environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

// Document is the top-level layout of an input file. A file holds a single
// policy, a list of policies, a package, or any mix of these, plus an
// optional explicit baseline.
type Document struct {
	Policy   *PolicySpec      `yaml:"policy,omitempty" json:"policy,omitempty"`
	Policies []PolicySpec     `yaml:"policies,omitempty" json:"policies,omitempty"`
	Package  *PackageSpec     `yaml:"package,omitempty" json:"package,omitempty"`
	Baseline *domain.Baseline `yaml:"baseline,omitempty" json:"baseline,omitempty"`
}

// AllPolicies returns the single policy followed by the policy list.
func (d *Document) AllPolicies() []PolicySpec {
	var specs []PolicySpec
	if d.Policy != nil {
		specs = append(specs, *d.Policy)
	}
	return append(specs, d.Policies...)
}

// InputParser handles parsing of input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads and validates an input document from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a YAML document. Unknown keys are rejected so
// a misspelled parameter does not silently fall back to its default.
func (ip *InputParser) Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: document is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateDocument(&doc); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &doc, nil
}

// ValidateDocument checks that the document holds something to score and
// that every policy converts and validates.
func (ip *InputParser) ValidateDocument(doc *Document) error {
	specs := doc.AllPolicies()
	if len(specs) == 0 && doc.Package == nil {
		return fmt.Errorf("at least one policy or a package must be defined")
	}

	for i, spec := range specs {
		if _, err := ip.ToPolicy(spec); err != nil {
			return fmt.Errorf("policy %d (%s): %w", i, spec.Name, err)
		}
	}

	if doc.Package != nil {
		if _, err := ip.ToPackage(*doc.Package); err != nil {
			return fmt.Errorf("package %s: %w", doc.Package.Name, err)
		}
	}

	if doc.Baseline != nil {
		if err := doc.Baseline.Validate(); err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
	}
	return nil
}

// ToPolicy converts and validates one policy spec.
func (ip *InputParser) ToPolicy(spec PolicySpec) (domain.Policy, error) {
	p, err := spec.ToPolicy()
	if err != nil {
		return p, err
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// ToPackage converts and validates a package spec.
func (ip *InputParser) ToPackage(spec PackageSpec) (domain.PolicyPackage, error) {
	if len(spec.Policies) == 0 {
		return domain.PolicyPackage{}, domain.NewPolicyError(spec.Name, "policies", "package has no policies")
	}
	pkg, err := spec.ToPackage()
	if err != nil {
		return pkg, err
	}
	if pkg.InteractionFactor.IsNegative() {
		return pkg, domain.NewPolicyError(spec.Name, "interaction_factor", "must be non-negative")
	}
	for i, p := range pkg.Policies {
		if err := p.Validate(); err != nil {
			return pkg, fmt.Errorf("policy %d: %w", i, err)
		}
	}
	return pkg, nil
}

// Policies converts every policy in the document.
func (ip *InputParser) Policies(doc *Document) ([]domain.Policy, error) {
	specs := doc.AllPolicies()
	policies := make([]domain.Policy, 0, len(specs))
	for i, spec := range specs {
		p, err := ip.ToPolicy(spec)
		if err != nil {
			return nil, fmt.Errorf("policy %d (%s): %w", i, spec.Name, err)
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// LoadPolicy loads a file and returns its first policy.
func (ip *InputParser) LoadPolicy(filename string) (domain.Policy, error) {
	doc, err := ip.LoadFromFile(filename)
	if err != nil {
		return domain.Policy{}, err
	}
	policies, err := ip.Policies(doc)
	if err != nil {
		return domain.Policy{}, err
	}
	if len(policies) == 0 {
		return domain.Policy{}, fmt.Errorf("%s defines no standalone policy", filename)
	}
	return policies[0], nil
}

// LoadBaseline loads an explicit baseline from a file holding a
// `baseline:` section.
func (ip *InputParser) LoadBaseline(filename string) (domain.Baseline, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.Baseline{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var doc struct {
		Baseline *domain.Baseline `yaml:"baseline"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Baseline{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Baseline == nil {
		return domain.Baseline{}, fmt.Errorf("%s has no baseline section", filename)
	}
	if err := doc.Baseline.Validate(); err != nil {
		return domain.Baseline{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return *doc.Baseline, nil
}

// SaveExample writes an example document to filename.
func (ip *InputParser) SaveExample(filename string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
