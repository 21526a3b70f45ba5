// fiscalcalc scores federal tax and spending proposals against a budget
// baseline and reports their ten-year deficit effects.
//
// Usage:
//
//	fiscalcalc score examples/top_rate.yaml --dynamic
//	fiscalcalc distribute examples/top_rate.yaml --scheme decile
//	fiscalcalc compare examples/top_rate.yaml --with delay_1yr,high_eti
//	fiscalcalc solve examples/top_rate.yaml --target -500
//	fiscalcalc sensitivity examples/top_rate.yaml --param eti --values 0.1,0.25,0.4
//	fiscalcalc benchmark --id tcja_extension_full
//	fiscalcalc serve --addr :8080
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/laurencehw/fiscal-policy-calculator/internal/api"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fiscalcalc",
	Short: "Fiscal policy scoring calculator",
	Long: `Scores tax and spending proposals against a CBO-style baseline.

Static effects come from IRS SOI filer data, behavioral offsets from
published elasticities, and optional dynamic effects from a reduced-form
macro model. Settings are read from FISCAL_* environment variables;
flags override them.`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fiscalcalc %s (commit %s, built %s)\n", version, commit, date)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
					fmt.Fprintln(cmd.OutOrStdout(), bi.String())
				}
			}
		},
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.Int("data-year", 0, "SOI data year for filer statistics (default from FISCAL_DATA_YEAR)")
	pf.Int("horizon", 10, "Budget window length in years")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(distributeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(sensitivityCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd())
	rootCmd.Version = version
	api.Version = version
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
