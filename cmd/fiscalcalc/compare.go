package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/laurencehw/fiscal-policy-calculator/internal/compare"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/transform"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [input-file...]",
	Short: "Compare policies side by side",
	Long: `Compare the first policy found against every other policy in the input
files, plus any built-in template variants of the first policy.

Examples:
  fiscalcalc compare examples/top_rate.yaml --with delay_1yr,high_eti
  fiscalcalc compare examples/top_rate.yaml examples/cap_gains.yaml --format csv
  fiscalcalc compare --list-templates`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.String("with", "", "Comma-separated templates to apply to the base policy")
	f.Bool("list-templates", false, "List the built-in templates")
	f.Bool("dynamic", false, "Score with macroeconomic feedback")
	f.StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	f.Bool("paths", false, "Include per-year final effects in json output")
	f.String("baseline", "", "YAML file with an explicit baseline section")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list-templates"); list {
		fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
		return nil
	}
	if len(args) == 0 {
		return errors.New("at least one input file is required (use --list-templates to see templates)")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var policies []domain.Policy
	for _, file := range args {
		doc, err := a.parser.LoadFromFile(file)
		if err != nil {
			return err
		}
		ps, err := a.parser.Policies(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		policies = append(policies, ps...)
	}
	if len(policies) == 0 {
		return errors.New("input files define no standalone policies")
	}

	withStr, _ := cmd.Flags().GetString("with")
	templates := transform.ParseTemplateList(withStr)
	if len(policies) == 1 && len(templates) == 0 {
		return errors.New("nothing to compare: add another policy or --with templates")
	}

	baseline, err := a.baseline(cmd, nil, policies[0].StartYear)
	if err != nil {
		return err
	}
	dynamic, _ := cmd.Flags().GetBool("dynamic")

	engine := compare.NewCompareEngine(a.scorer)
	engine.Workers = a.settings.Workers
	set, err := engine.Compare(cmd.Context(), policies, baseline, compare.CompareOptions{
		Scoring:   scoring.Options{Dynamic: dynamic},
		Templates: templates,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	set.ConfigPath = strings.Join(args, ", ")

	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "csv":
		s, err := (&compare.CSVFormatter{}).Format(set)
		if err != nil {
			return err
		}
		fmt.Fprint(out, s)
	case "json":
		paths, _ := cmd.Flags().GetBool("paths")
		s, err := (&compare.JSONFormatter{Pretty: true, Paths: paths}).Format(set)
		if err != nil {
			return err
		}
		fmt.Fprint(out, s)
	case "compact":
		fmt.Fprint(out, (&compare.TableFormatter{}).FormatCompact(set))
	case "table", "console", "":
		fmt.Fprint(out, (&compare.TableFormatter{}).Format(set))
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", format)
	}
	return nil
}
