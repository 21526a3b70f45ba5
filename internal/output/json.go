package output

import (
	"encoding/json"
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
)

// JSONFormatter renders results as JSON. Decimals encode as strings.
type JSONFormatter struct {
	Indent bool
}

func (f JSONFormatter) Name() string {
	if f.Indent {
		return "json"
	}
	return "json-compact"
}

func (f JSONFormatter) FormatScore(r *domain.ScoringResult) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	return f.marshal(r)
}

func (f JSONFormatter) FormatDistribution(a *domain.DistributionalAnalysis) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("analysis cannot be nil")
	}
	return f.marshal(a)
}

func (f JSONFormatter) marshal(v any) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
