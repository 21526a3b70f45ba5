package compare

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// JSONFormatter renders a ComparisonSet as JSON. Totals encode as decimal
// strings in billions, negative when a policy reduces the deficit.
type JSONFormatter struct {
	Pretty bool
	// Paths adds each policy's per-year final deficit effect under
	// "finalPaths", keyed by policy name.
	Paths bool
}

type yearEffect struct {
	Year  int             `json:"year"`
	Final decimal.Decimal `json:"final"`
}

type jsonComparison struct {
	*ComparisonSet
	FinalPaths map[string][]yearEffect `json:"finalPaths,omitempty"`
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	payload := jsonComparison{ComparisonSet: compSet}
	if jf.Paths {
		payload.FinalPaths = finalPaths(compSet)
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// finalPaths skips results scored elsewhere and attached without a path.
func finalPaths(cs *ComparisonSet) map[string][]yearEffect {
	paths := make(map[string][]yearEffect)
	for _, r := range cs.All() {
		if r.Result == nil {
			continue
		}
		path := make([]yearEffect, len(r.Result.Years))
		for i, y := range r.Result.Years {
			path[i] = yearEffect{Year: y, Final: r.Result.Final[i]}
		}
		paths[r.PolicyName] = path
	}
	if len(paths) == 0 {
		return nil
	}
	return paths
}
