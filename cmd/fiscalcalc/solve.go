package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/breakeven"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve [input-file]",
	Short: "Find the rate change that hits a ten-year revenue target",
	Long: `Search for the rate change that moves the policy's ten-year deficit effect
to a target, in billions. Negative targets reduce the deficit.

Examples:
  fiscalcalc solve examples/top_rate.yaml --target -500
  fiscalcalc solve examples/top_rate.yaml --targets -250,-500,-1000 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.String("target", "", "Ten-year target in billions")
	f.String("targets", "", "Comma-separated targets for a schedule")
	f.String("min", "", "Lowest rate change to search")
	f.String("max", "", "Highest rate change to search")
	f.Bool("dynamic", false, "Score with macroeconomic feedback")
	f.StringP("format", "f", "table", "Output format (table, json)")
	f.String("baseline", "", "YAML file with an explicit baseline section")
}

func decimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &v, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	target, err := decimalFlag(cmd, "target")
	if err != nil {
		return err
	}
	targetsStr, _ := cmd.Flags().GetString("targets")
	if target == nil && targetsStr == "" {
		return errors.New("--target or --targets is required")
	}
	lo, err := decimalFlag(cmd, "min")
	if err != nil {
		return err
	}
	hi, err := decimalFlag(cmd, "max")
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
	dynamic, _ := cmd.Flags().GetBool("dynamic")
	req := breakeven.Request{Policy: p, Baseline: baseline, Min: lo, Max: hi, Dynamic: dynamic}
	solver := breakeven.NewDefaultSolver(a.scorer)

	format, _ := cmd.Flags().GetString("format")
	jsonOut := strings.EqualFold(format, "json")
	out := cmd.OutOrStdout()

	if targetsStr != "" {
		var targets []decimal.Decimal
		for _, s := range strings.Split(targetsStr, ",") {
			t, err := decimal.NewFromString(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("invalid target %q: %w", s, err)
			}
			targets = append(targets, t)
		}
		sched, err := solver.SolveTargets(cmd.Context(), req, targets)
		if err != nil {
			return err
		}
		if jsonOut {
			s, err := (&breakeven.JSONFormatter{Pretty: true}).FormatSchedule(sched)
			if err != nil {
				return err
			}
			fmt.Fprint(out, s)
			return nil
		}
		fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatSchedule(sched))
		return nil
	}

	req.Target = *target
	result, err := solver.Solve(cmd.Context(), req)
	if err != nil {
		return err
	}
	if !result.Converged {
		a.logger.Warn("solver did not converge", "info", result.ConvergenceInfo)
	}
	if jsonOut {
		s, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
		if err != nil {
			return err
		}
		fmt.Fprint(out, s)
		return nil
	}
	fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(result))
	return nil
}
