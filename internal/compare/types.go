package compare

import (
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the headline metrics for one scored policy.
// Totals are summed over the scoring horizon, in billions, with the deficit
// sign convention: negative values reduce the deficit.
type ComparisonResult struct {
	PolicyName  string      `json:"policyName"`
	Description string      `json:"description"`
	Kind        domain.Kind `json:"kind"`

	Result *domain.ScoringResult `json:"-"`

	// Key Metrics
	TotalStatic     decimal.Decimal `json:"totalStatic"`
	TotalBehavioral decimal.Decimal `json:"totalBehavioral"`
	TotalFeedback   decimal.Decimal `json:"totalFeedback"`
	TotalFinal      decimal.Decimal `json:"totalFinal"`
	AverageAnnual   decimal.Decimal `json:"averageAnnual"`
	FirstYearFinal  decimal.Decimal `json:"firstYearFinal"`
	TotalLow        decimal.Decimal `json:"totalLow"`
	TotalHigh       decimal.Decimal `json:"totalHigh"`
	// OffsetPercent is the behavioral offset as a percent of the static effect.
	OffsetPercent decimal.Decimal `json:"offsetPercent"`

	// Comparison to Base
	DiffFromBase   decimal.Decimal `json:"diffFromBase"`
	PctFromBase    decimal.Decimal `json:"pctFromBase"`
	StaticDiffFrom decimal.Decimal `json:"staticDiffFromBase"`
}

// ComparisonSet represents a collection of policy comparisons
type ComparisonSet struct {
	BasePolicyName     string             `json:"basePolicyName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	Years              []int              `json:"years"`
	Dynamic            bool               `json:"dynamic"`
	ConfigPath         string             `json:"configPath,omitempty"`
}

// All returns the base followed by the alternatives.
func (cs *ComparisonSet) All() []ComparisonResult {
	out := make([]ComparisonResult, 0, len(cs.AlternativeResults)+1)
	if cs.BaseResult != nil {
		out = append(out, *cs.BaseResult)
	}
	return append(out, cs.AlternativeResults...)
}
