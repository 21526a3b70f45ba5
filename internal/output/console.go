package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorDanger  = lipgloss.Color("#FF5F87")
	colorSuccess = lipgloss.Color("#04B575")
	colorMuted   = lipgloss.Color("#626262")

	TitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	SubtitleStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	TableCellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	LabelCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	// Deficit increases render red, reductions green.
	DeficitUpStyle   = lipgloss.NewStyle().Foreground(colorDanger)
	DeficitDownStyle = lipgloss.NewStyle().Foreground(colorSuccess)
)

// ConsoleFormatter renders lipgloss tables for a terminal.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) FormatScore(r *domain.ScoringResult) ([]byte, error) {
	if r == nil || len(r.Years) == 0 {
		return nil, fmt.Errorf("result cannot be empty")
	}
	var b strings.Builder

	mode := "conventional"
	if r.IsDynamic() {
		mode = "dynamic"
	}
	b.WriteString(TitleStyle.Render("BUDGET SCORE: "+strings.ToUpper(r.PolicyName)) + "\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s, %s scoring, %d-%d", r.Kind, mode, r.Years[0], r.Years[len(r.Years)-1])) + "\n\n")

	headers := []string{"Year", "Revenue", "Spending", "Static", "Behavioral"}
	if r.IsDynamic() {
		headers = append(headers, "Feedback")
	}
	headers = append(headers, "Final", "Low", "High")

	rows := make([][]string, 0, len(r.Years)+1)
	for i, year := range r.Years {
		row := []string{
			strconv.Itoa(year),
			r.StaticRevenue[i].StringFixed(1),
			r.StaticSpending[i].StringFixed(1),
			r.StaticDeficit[i].StringFixed(1),
			r.Behavioral[i].StringFixed(1),
		}
		if r.IsDynamic() {
			row = append(row, r.Dynamic.RevenueFeedback[i].StringFixed(1))
		}
		row = append(row, r.Final[i].StringFixed(1), r.Low[i].StringFixed(1), r.High[i].StringFixed(1))
		rows = append(rows, row)
	}

	total := []string{
		"Total",
		domain.Sum(r.StaticRevenue).StringFixed(1),
		domain.Sum(r.StaticSpending).StringFixed(1),
		r.TotalStatic().StringFixed(1),
		r.TotalBehavioral().StringFixed(1),
	}
	if r.IsDynamic() {
		total = append(total, r.TotalRevenueFeedback().StringFixed(1))
	}
	total = append(total, r.TotalFinal().StringFixed(1), domain.Sum(r.Low).StringFixed(1), domain.Sum(r.High).StringFixed(1))
	rows = append(rows, total)

	finalCol := len(headers) - 3
	b.WriteString(renderTable(headers, rows, func(row, col int) lipgloss.Style {
		if col == finalCol && row >= 0 {
			return deficitStyle(rows[row][col])
		}
		return lipgloss.NewStyle()
	}))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Total deficit effect: %s (%s per year)\n", FormatBillions(r.TotalFinal()), FormatBillions(r.AverageAnnual()))
	if r.IsDynamic() {
		d := r.Dynamic
		fmt.Fprintf(&b, "Peak GDP effect: %s%%, net budget feedback: %s\n", peak(d.GDPPercent).StringFixed(2), FormatBillions(d.NetBudgetEffect))
	}
	b.WriteString(SubtitleStyle.Render("Billions of dollars. Positive values increase the deficit.") + "\n")
	return []byte(b.String()), nil
}

func (ConsoleFormatter) FormatDistribution(a *domain.DistributionalAnalysis) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("analysis cannot be nil")
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render("DISTRIBUTION: "+strings.ToUpper(a.PolicyName)) + "\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%s groups, %d", a.Scheme, a.Year)) + "\n\n")

	headers := []string{"Group", "Returns (M)", "Total ($B)", "Avg ($)", "% After-Tax", "Share", "ETR Chg"}
	rows := make([][]string, 0, len(a.Results))
	for _, r := range a.Results {
		rows = append(rows, []string{
			r.Group.Name,
			r.Group.Returns.Div(domain.Million).StringFixed(2),
			r.TaxChangeTotal.StringFixed(2),
			r.TaxChangeAverage.StringFixed(0),
			r.PercentOfAfterTaxIncome.StringFixed(2) + "%",
			FormatPercentage(r.ShareOfTotal),
			FormatPercentage(r.ETRChange),
		})
	}
	b.WriteString(renderTable(headers, rows, nil))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Total tax change: %s\n", FormatBillions(a.TotalTaxChange))
	return []byte(b.String()), nil
}

// renderTable draws a bordered table; extra styles are layered on the
// default cell style for body rows.
func renderTable(headers []string, rows [][]string, extra func(row, col int) lipgloss.Style) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			base := TableCellStyle
			if col == 0 {
				base = LabelCellStyle
			}
			if extra != nil {
				return base.Inherit(extra(row, col))
			}
			return base
		})
	return t.String()
}

func deficitStyle(cell string) lipgloss.Style {
	v, err := decimal.NewFromString(cell)
	if err != nil || v.IsZero() {
		return lipgloss.NewStyle()
	}
	if v.IsPositive() {
		return DeficitUpStyle
	}
	return DeficitDownStyle
}

func peak(values []decimal.Decimal) decimal.Decimal {
	best := decimal.Zero
	for _, v := range values {
		if v.Abs().GreaterThan(best.Abs()) {
			best = v
		}
	}
	return best
}
