package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVFormatter writes one row per year, or one row per income group.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) FormatScore(r *domain.ScoringResult) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}
	header := []string{"Year", "StaticRevenue", "StaticSpending", "StaticDeficit", "Behavioral", "RevenueFeedback", "Final", "Low", "High"}
	rows := make([][]string, 0, len(r.Years))
	for i, year := range r.Years {
		feedback := decimal.Zero
		if r.IsDynamic() {
			feedback = r.Dynamic.RevenueFeedback[i]
		}
		rows = append(rows, []string{
			strconv.Itoa(year),
			r.StaticRevenue[i].StringFixed(4),
			r.StaticSpending[i].StringFixed(4),
			r.StaticDeficit[i].StringFixed(4),
			r.Behavioral[i].StringFixed(4),
			feedback.StringFixed(4),
			r.Final[i].StringFixed(4),
			r.Low[i].StringFixed(4),
			r.High[i].StringFixed(4),
		})
	}
	return writeCSV(header, rows)
}

func (CSVFormatter) FormatDistribution(a *domain.DistributionalAnalysis) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("analysis cannot be nil")
	}
	header := []string{"Group", "Returns", "TaxChangeTotal", "TaxChangeAverage", "PercentOfAfterTaxIncome", "ShareOfTotal", "PctWithIncrease", "PctWithDecrease", "BaselineETR", "NewETR"}
	rows := make([][]string, 0, len(a.Results))
	for _, r := range a.Results {
		rows = append(rows, []string{
			r.Group.Name,
			r.Group.Returns.StringFixed(0),
			r.TaxChangeTotal.StringFixed(4),
			r.TaxChangeAverage.StringFixed(2),
			r.PercentOfAfterTaxIncome.StringFixed(4),
			r.ShareOfTotal.StringFixed(4),
			r.PctWithIncrease.StringFixed(2),
			r.PctWithDecrease.StringFixed(2),
			r.BaselineETR.StringFixed(4),
			r.NewETR.StringFixed(4),
		})
	}
	return writeCSV(header, rows)
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
