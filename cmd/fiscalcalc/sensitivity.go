package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/logging"
	"github.com/laurencehw/fiscal-policy-calculator/internal/output"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/sensitivity"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Test how the score responds to model assumptions",
	Long: `Rescore a policy while sweeping one behavioral or macro assumption, or
build a tornado chart over several.

Examples:
  # Sweep the elasticity of taxable income
  fiscalcalc sensitivity examples/top_rate.yaml --param eti --values 0.1,0.25,0.4

  # Evenly spaced sweep
  fiscalcalc sensitivity examples/top_rate.yaml --param eti --range 0.1:0.5:5

  # Tornado over every applicable parameter, +/-25%
  fiscalcalc sensitivity examples/cap_gains.yaml --tornado --swing 25

  # List parameters
  fiscalcalc sensitivity --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSensitivity,
}

func init() {
	f := sensitivityCmd.Flags()
	f.String("param", "", "Parameter to sweep")
	f.String("values", "", "Comma-separated parameter values")
	f.String("range", "", "Sweep range as lo:hi:steps")
	f.Bool("tornado", false, "Build a tornado chart instead of a sweep")
	f.StringSlice("params", nil, "Parameters for the tornado (default: all applicable)")
	f.Float64("swing", 20, "Tornado swing in percent of each base value")
	f.Bool("list", false, "List the available parameters")
	f.Bool("dynamic", false, "Score with macroeconomic feedback")
	f.StringP("format", "f", "console", "Output format (console, json)")
	f.String("baseline", "", "YAML file with an explicit baseline section")
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if list, _ := cmd.Flags().GetBool("list"); list {
		for _, info := range sensitivity.Parameters() {
			scope := "behavioral"
			if info.Macro {
				scope = "macro"
			}
			fmt.Fprintf(out, "  %-26s %-10s %s\n", info.Name, scope, info.Description)
		}
		return nil
	}
	if len(args) == 0 {
		return errors.New("an input file is required (use --list to see parameters)")
	}

	format, _ := cmd.Flags().GetString("format")
	formatter, err := output.NewSensitivityFormatter(format)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	p, doc, err := a.loadPolicy(cmd, args[0])
	if err != nil {
		return err
	}
	baseline, err := a.baseline(cmd, doc, p.StartYear)
	if err != nil {
		return err
	}

	analyzer := sensitivity.NewAnalyzer(data.DefaultSOITable(), a.settings.ScorerConfig())
	logger := a.logger
	analyzer.NewScorer = func(cfg scoring.Config) sensitivity.PolicyScorer {
		s := scoring.NewScorer(data.DefaultSOITable(), cfg)
		s.SetLogger(logging.NewPrintf(logger, "sensitivity"))
		return s
	}
	if a.settings.Workers > 0 {
		analyzer.Workers = a.settings.Workers
	}
	dynamic, _ := cmd.Flags().GetBool("dynamic")
	analyzer.Options = scoring.Options{Dynamic: dynamic}

	var analysis any
	if tornado, _ := cmd.Flags().GetBool("tornado"); tornado {
		names, _ := cmd.Flags().GetStringSlice("params")
		params := make([]sensitivity.Parameter, 0, len(names))
		for _, n := range names {
			param, err := sensitivity.ParseParameter(n)
			if err != nil {
				return err
			}
			params = append(params, param)
		}
		swing, _ := cmd.Flags().GetFloat64("swing")
		analysis, err = analyzer.Tornado(cmd.Context(), p, baseline, params, decimal.NewFromFloat(swing))
		if err != nil {
			return err
		}
	} else {
		name, _ := cmd.Flags().GetString("param")
		if name == "" {
			return errors.New("--param is required (or use --tornado)")
		}
		param, err := sensitivity.ParseParameter(name)
		if err != nil {
			return err
		}
		values, err := sweepValues(cmd)
		if err != nil {
			return err
		}
		analysis, err = analyzer.Run(cmd.Context(), p, baseline, param, values)
		if err != nil {
			return err
		}
	}

	s, err := formatter.FormatSensitivityAnalysis(analysis)
	if err != nil {
		return err
	}
	fmt.Fprint(out, s)
	return nil
}

// sweepValues reads --values or --range.
func sweepValues(cmd *cobra.Command) ([]decimal.Decimal, error) {
	valuesStr, _ := cmd.Flags().GetString("values")
	rangeStr, _ := cmd.Flags().GetString("range")

	switch {
	case valuesStr != "" && rangeStr != "":
		return nil, errors.New("use either --values or --range, not both")
	case valuesStr != "":
		var values []decimal.Decimal
		for _, s := range strings.Split(valuesStr, ",") {
			v, err := decimal.NewFromString(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("invalid value %q: %w", s, err)
			}
			values = append(values, v)
		}
		return values, nil
	case rangeStr != "":
		parts := strings.Split(rangeStr, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid range %q: expected lo:hi:steps", rangeStr)
		}
		lo, err := decimal.NewFromString(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid range low %q: %w", parts[0], err)
		}
		hi, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid range high %q: %w", parts[1], err)
		}
		steps, err := strconv.Atoi(parts[2])
		if err != nil || steps < 2 {
			return nil, fmt.Errorf("invalid range steps %q: need an integer of at least 2", parts[2])
		}
		if !hi.GreaterThan(lo) {
			return nil, fmt.Errorf("invalid range %q: high must exceed low", rangeStr)
		}
		return sensitivity.Range(lo, hi, steps), nil
	default:
		return nil, errors.New("--values or --range is required")
	}
}
