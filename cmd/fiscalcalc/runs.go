package main

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/output"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List or show saved scoring runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No saved runs")
			return nil
		}
		fmt.Fprintf(out, "%-16s  %-19s  %-6s  %-30s  %12s\n", "ID", "CREATED", "SOURCE", "POLICY", "10-YR FINAL")
		for _, r := range runs {
			name := r.PolicyName
			if len(name) > 30 {
				name = name[:27] + "..."
			}
			fmt.Fprintf(out, "%-16s  %-19s  %-6s  %-30s  %12s\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Source, name, output.FormatBillions(r.TotalFinal))
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		formatName, _ := cmd.Flags().GetString("format")
		formatter, err := output.NewFormatter(formatName)
		if err != nil {
			return err
		}
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		data, err := formatter.FormatScore(run.Result)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	runsCmd.PersistentFlags().String("db", "", "History database path (default from FISCAL_DB_PATH)")
	runsListCmd.Flags().Int("limit", 20, "Maximum runs to list (0 for all)")
	runsShowCmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv)")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
}
