package sensitivity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Risk levels, from least to most sensitive.
const (
	RiskLow      = "LOW"
	RiskMedium   = "MEDIUM"
	RiskHigh     = "HIGH"
	RiskCritical = "CRITICAL"
)

// Summary condenses a sweep.
type Summary struct {
	// MaxChangePct is the largest absolute percent move in the total final
	// effect across the sweep.
	MaxChangePct decimal.Decimal `json:"maxChangePct"`
	// Elasticity is the largest ratio of percent change in the total to
	// percent change in the parameter.
	Elasticity      decimal.Decimal `json:"elasticity"`
	RiskLevel       string          `json:"riskLevel"`
	Recommendations []string        `json:"recommendations"`
}

func summarize(s *Sweep) Summary {
	var sum Summary
	for _, pt := range s.Points {
		if pt.IsBase {
			continue
		}
		if pt.ChangePct.Abs().GreaterThan(sum.MaxChangePct) {
			sum.MaxChangePct = pt.ChangePct.Abs()
		}
		if s.BaseValue.IsZero() || pt.Value.Equal(s.BaseValue) {
			continue
		}
		paramPct := pt.Value.Sub(s.BaseValue).Div(s.BaseValue.Abs()).Mul(hundred)
		e := pt.ChangePct.Abs().Div(paramPct.Abs())
		if e.GreaterThan(sum.Elasticity) {
			sum.Elasticity = e
		}
	}
	sum.RiskLevel = RiskLevel(sum.MaxChangePct)
	sum.Recommendations = recommendationsFor(s, sum)
	return sum
}

// RiskLevel classifies a percent swing in the total final effect.
func RiskLevel(maxChangePct decimal.Decimal) string {
	switch {
	case maxChangePct.LessThan(decimal.NewFromInt(5)):
		return RiskLow
	case maxChangePct.LessThan(decimal.NewFromInt(15)):
		return RiskMedium
	case maxChangePct.LessThan(decimal.NewFromInt(30)):
		return RiskHigh
	default:
		return RiskCritical
	}
}

func recommendationsFor(s *Sweep, sum Summary) []string {
	var recs []string
	switch sum.RiskLevel {
	case RiskLow:
		recs = append(recs, "Score is robust to this assumption")
	case RiskMedium:
		recs = append(recs, "Report the score with this assumption stated")
	case RiskHigh:
		recs = append(recs, "Score is sensitive to this assumption",
			"Publish a range rather than a point estimate")
	case RiskCritical:
		recs = append(recs, "⚠️ Score is dominated by this assumption",
			"Publish a range rather than a point estimate",
			"Check the assumption against the empirical literature before relying on the score")
	}
	if s.Parameter.Macro && !s.Dynamic {
		recs = append(recs, "Macro parameters only move dynamic scores")
	}
	if sum.Elasticity.GreaterThan(decimal.NewFromInt(1)) {
		recs = append(recs, fmt.Sprintf("A 1%% change in %s moves the score by up to %s%%",
			s.Parameter.Name, sum.Elasticity.StringFixed(2)))
	}
	return recs
}
