// Package rules provides the "nirscheck rules" command for browsing the
// validation rule catalog.
package rules

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/output"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// NewCommand creates the "rules" command.
func NewCommand() *cobra.Command {
	var (
		category string
		severity string
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the validation rule catalog",
		Long: `List every validation rule with its code, default severity, category,
and whether it can be disabled.

Example:
  nirscheck rules
  nirscheck rules --category parameter
  nirscheck rules --severity error --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			rules := validation.AllRules()
			if category != "" {
				rules = validation.RulesByCategory(validation.Category(strings.ToLower(category)))
				if len(rules) == 0 {
					return fmt.Errorf("unknown category %q (use parameter, step, pipeline, dependency, or compatibility)", category)
				}
			}
			if severity != "" {
				filtered := rules[:0:0]
				for _, rule := range rules {
					if rule.Severity == validation.Severity(strings.ToLower(severity)) {
						filtered = append(filtered, rule)
					}
				}
				if len(filtered) == 0 {
					return fmt.Errorf("no rules with severity %q (use error, warning, or info)", severity)
				}
				rules = filtered
			}

			if jsonOut {
				return output.PrintJSON("rules", rules)
			}

			catalog := output.RenderRules(rules)
			if output.ShouldPage(catalog, 40) {
				return output.Page(catalog)
			}
			fmt.Print(catalog)
			return nil
		},
	}

	cmd.AddCommand(newShowCommand())

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&severity, "severity", "", "Filter by default severity")

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <RULE_CODE>",
		Short: "Show one rule in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			code := validation.Code(strings.ToUpper(args[0]))
			rule, ok := validation.RuleFor(code)
			if !ok {
				return fmt.Errorf("unknown rule code %q — run 'nirscheck rules' for the catalog", args[0])
			}

			if jsonOut {
				return output.PrintJSON("rules show", rule)
			}

			fmt.Printf("%s\n", rule.Code)
			fmt.Printf("  Name:        %s\n", rule.Name)
			fmt.Printf("  Description: %s\n", rule.Description)
			fmt.Printf("  Severity:    %s\n", rule.Severity)
			fmt.Printf("  Category:    %s\n", rule.Category)
			fmt.Printf("  Disableable: %v\n", rule.CanDisable)
			return nil
		},
	}
}
