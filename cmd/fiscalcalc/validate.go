package main

import (
	"fmt"

	"github.com/laurencehw/fiscal-policy-calculator/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a policy file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		doc, err := parser.LoadFromFile(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file %s is valid\n", args[0])
		for _, spec := range doc.AllPolicies() {
			fmt.Fprintf(out, "  policy   %s (%s, %d-%d)\n", spec.Name, spec.Type, spec.StartYear, spec.StartYear+spec.DurationYears-1)
		}
		if doc.Package != nil {
			fmt.Fprintf(out, "  package  %s (%d policies)\n", doc.Package.Name, len(doc.Package.Policies))
		}
		if doc.Baseline != nil {
			fmt.Fprintf(out, "  baseline %s (%d years)\n", doc.Baseline.Source, len(doc.Baseline.Years))
		}
		return nil
	},
}
