// Package output renders scoring and distributional results as console
// tables, JSON and CSV.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders scoring results.
type Formatter interface {
	Name() string
	FormatScore(result *domain.ScoringResult) ([]byte, error)
	FormatDistribution(analysis *domain.DistributionalAnalysis) ([]byte, error)
}

// FormatterFunc adapts a score rendering function to a Formatter.
// It does not render distributions.
type FormatterFunc struct {
	ID string
	F  func(result *domain.ScoringResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) FormatScore(result *domain.ScoringResult) ([]byte, error) {
	return f.F(result)
}

func (f FormatterFunc) FormatDistribution(*domain.DistributionalAnalysis) ([]byte, error) {
	return nil, fmt.Errorf("formatter %s does not render distributions", f.ID)
}

var registry = map[string]Formatter{
	"console":      ConsoleFormatter{},
	"json":         JSONFormatter{Indent: true},
	"json-compact": JSONFormatter{},
	"csv":          CSVFormatter{},
}

var aliases = map[string]string{
	"table":  "console",
	"text":   "console",
	"pretty": "json",
}

// AvailableFormatterNames lists the registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted.
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetFormatterByName returns the formatter registered under name or alias,
// or nil.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	return registry[name]
}

// NewFormatter is GetFormatterByName with an error for unknown names.
func NewFormatter(name string) (Formatter, error) {
	f := GetFormatterByName(name)
	if f == nil {
		return nil, fmt.Errorf("unsupported format %q (available: %s)", name, strings.Join(AvailableFormatterNames(), ", "))
	}
	return f, nil
}

// WriteFormatted renders result and writes it to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, result *domain.ScoringResult, ext string) (string, error) {
	data, err := f.FormatScore(result)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("fiscal_score_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatBillions formats an amount in billions, e.g. "$37.4B".
func FormatBillions(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(1) + "B"
	}
	return "$" + amount.StringFixed(1) + "B"
}

// FormatPercentage formats a fraction as a percentage.
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
