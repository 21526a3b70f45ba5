package main

import (
	"fmt"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/distribution"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/output"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var distributeCmd = &cobra.Command{
	Use:   "distribute [input-file]",
	Short: "Allocate a policy's effect across income groups",
	Long: `Score the first policy in the input file and allocate the analysis
year's effect across income groups.

Examples:
  fiscalcalc distribute examples/top_rate.yaml
  fiscalcalc distribute examples/ctc_expansion.yaml --scheme jct_dollar --year 2027
  fiscalcalc distribute examples/top_rate.yaml --groups 0-100000,100000-400000,400000+`,
	Args: cobra.ExactArgs(1),
	RunE: runDistribute,
}

func init() {
	f := distributeCmd.Flags()
	f.String("scheme", string(domain.SchemeQuintile), "Grouping (quintile, decile, jct_dollar, top_income, custom)")
	f.Int("year", 0, "Analysis year (default: policy start year)")
	f.String("groups", "", "Custom income bounds, e.g. 0-50000,50000-200000,200000+")
	f.Bool("dynamic", false, "Score with macroeconomic feedback before allocating")
	f.StringP("format", "f", "console", "Output format (console, json, csv)")
	f.String("baseline", "", "YAML file with an explicit baseline section")
	f.StringSlice("transform", nil, "Transform to apply before scoring (name:key=value), repeatable")
}

func runDistribute(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	formatter, err := output.NewFormatter(formatName)
	if err != nil {
		return err
	}

	schemeName, _ := cmd.Flags().GetString("scheme")
	groupsSpec, _ := cmd.Flags().GetString("groups")
	scheme := domain.GroupScheme(strings.ToLower(schemeName))
	custom, err := parseGroups(groupsSpec)
	if err != nil {
		return err
	}
	if len(custom) > 0 {
		scheme = domain.SchemeCustom
	}

	p, doc, err := a.loadPolicy(cmd, args[0])
	if err != nil {
		return err
	}
	baseline, err := a.baseline(cmd, doc, p.StartYear)
	if err != nil {
		return err
	}
	dynamic, _ := cmd.Flags().GetBool("dynamic")
	result, err := a.scorer.Score(cmd.Context(), p, baseline, scoring.Options{Dynamic: dynamic})
	if err != nil {
		return err
	}

	year, _ := cmd.Flags().GetInt("year")
	engine := distribution.NewEngine(data.NewSOIGroups(data.DefaultSOITable(), a.settings.DataYear))
	analysis, err := engine.Analyze(p, result, scheme, distribution.Options{Year: year, Custom: custom})
	if err != nil {
		return err
	}

	out, err := formatter.FormatDistribution(analysis)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// parseGroups reads "lo-hi" and "lo+" ranges separated by commas.
func parseGroups(spec string) ([]data.GroupBound, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var bounds []data.GroupBound
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if lo, ok := strings.CutSuffix(part, "+"); ok {
			floor, err := decimal.NewFromString(lo)
			if err != nil {
				return nil, fmt.Errorf("invalid group %q: %w", part, err)
			}
			bounds = append(bounds, data.CustomBound(floor, nil))
			continue
		}
		lo, hi, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("invalid group %q: expected lo-hi or lo+", part)
		}
		floor, err := decimal.NewFromString(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid group %q: %w", part, err)
		}
		ceiling, err := decimal.NewFromString(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid group %q: %w", part, err)
		}
		if !ceiling.GreaterThan(floor) {
			return nil, fmt.Errorf("invalid group %q: ceiling must exceed floor", part)
		}
		bounds = append(bounds, data.CustomBound(floor, &ceiling))
	}
	return bounds, nil
}
