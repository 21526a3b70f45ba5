package main

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/output"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [input-file]",
	Short: "Score a policy or package over the budget window",
	Long: `Score the first policy in the input file, or its package when the file
holds only a package.

Examples:
  fiscalcalc score examples/top_rate.yaml
  fiscalcalc score examples/top_rate.yaml --dynamic --format json
  fiscalcalc score examples/top_rate.yaml --transform set_eti:value=0.4
  fiscalcalc score examples/package.yaml --save`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.Bool("dynamic", false, "Add macroeconomic feedback")
	f.Bool("no-uncertainty", false, "Skip the low/high uncertainty band")
	f.StringP("format", "f", "console", "Output format (console, json, json-compact, csv)")
	f.String("baseline", "", "YAML file with an explicit baseline section")
	f.StringSlice("transform", nil, "Transform to apply before scoring (name:key=value), repeatable")
	f.Bool("save", false, "Save the run to the history database")
	f.String("db", "", "History database path (default from FISCAL_DB_PATH)")
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	formatter, err := output.NewFormatter(formatName)
	if err != nil {
		return err
	}
	dynamic, _ := cmd.Flags().GetBool("dynamic")
	noUncertainty, _ := cmd.Flags().GetBool("no-uncertainty")
	opts := scoring.Options{Dynamic: dynamic, Uncertainty: !noUncertainty}

	doc, err := a.parser.LoadFromFile(args[0])
	if err != nil {
		return err
	}

	var results []*domain.ScoringResult
	if len(doc.AllPolicies()) == 0 && doc.Package != nil {
		pkg, err := a.parser.ToPackage(*doc.Package)
		if err != nil {
			return err
		}
		start, _ := pkg.YearRange()
		baseline, err := a.baseline(cmd, doc, start)
		if err != nil {
			return err
		}
		combined, members, err := a.scorer.ScorePackage(cmd.Context(), pkg, baseline, opts)
		if err != nil {
			return err
		}
		results = append([]*domain.ScoringResult{combined}, members...)
	} else {
		policies, err := a.parser.Policies(doc)
		if err != nil {
			return err
		}
		p, err := a.applyTransforms(cmd, policies[0])
		if err != nil {
			return err
		}
		baseline, err := a.baseline(cmd, doc, p.StartYear)
		if err != nil {
			return err
		}
		r, err := a.scorer.Score(cmd.Context(), p, baseline, opts)
		if err != nil {
			return err
		}
		results = []*domain.ScoringResult{r}
	}

	for i, r := range results {
		out, err := formatter.FormatScore(r)
		if err != nil {
			return err
		}
		if i > 0 && formatter.Name() == "console" {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		cmd.OutOrStdout().Write(out)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := a.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		run, err := store.SaveRun(cmd.Context(), results[0], "cli")
		if err != nil {
			return err
		}
		a.logger.Info("run saved", "id", run.ID, "policy", run.PolicyName, "db", a.settings.DBPath)
	}
	return nil
}
