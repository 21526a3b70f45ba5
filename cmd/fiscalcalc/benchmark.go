package main

import (
	"fmt"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/output"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/validation"
	"github.com/spf13/cobra"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Compare model scores with published CBO/JCT estimates",
	Long: `Score the replicable policies in the benchmark catalog and compare each
ten-year total with its official estimate.

Examples:
  fiscalcalc benchmark
  fiscalcalc benchmark --id tcja_extension_full,biden_corporate_28
  fiscalcalc benchmark --list`,
	Args: cobra.NoArgs,
	RunE: runBenchmark,
}

func init() {
	f := benchmarkCmd.Flags()
	f.StringSlice("id", nil, "Benchmark ids to run (default all)")
	f.Bool("list", false, "List the benchmark catalog")
	f.Bool("dynamic", false, "Score with macroeconomic feedback")
	f.StringP("format", "f", "table", "Output format (table, json)")
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	catalog := validation.Catalog()

	if list, _ := cmd.Flags().GetBool("list"); list {
		for _, b := range catalog {
			replicable := ""
			if !b.Replicable() {
				replicable = " (reference only)"
			}
			fmt.Fprintf(out, "%-32s %10s  %s%s\n", b.ID, output.FormatBillions(b.TenYearCost), b.Name, replicable)
		}
		return nil
	}

	ids, _ := cmd.Flags().GetStringSlice("id")
	benchmarks, err := validation.Filter(catalog, ids)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	v := validation.NewValidator(a.scorer)
	v.Workers = a.settings.Workers
	v.Horizon = a.horizon

	dynamic, _ := cmd.Flags().GetBool("dynamic")
	report, err := v.ValidateAll(cmd.Context(), benchmarks, scoring.Options{Dynamic: dynamic})
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}
	a.logger.Debug("benchmarks scored", "scored", report.Summary.Scored, "errors", report.Summary.Errors)

	format, _ := cmd.Flags().GetString("format")
	s, err := output.FormatBenchmarkReport(report, strings.TrimSpace(format))
	if err != nil {
		return err
	}
	fmt.Fprint(out, s)
	return nil
}
