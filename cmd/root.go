// Package cmd contains all CLI commands for the nirscheck binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GBeurier/nirs4all-webapp-sub006/cmd/completion"
	cmdconfig "github.com/GBeurier/nirs4all-webapp-sub006/cmd/config"
	"github.com/GBeurier/nirs4all-webapp-sub006/cmd/doctor"
	cmdreport "github.com/GBeurier/nirs4all-webapp-sub006/cmd/report"
	"github.com/GBeurier/nirs4all-webapp-sub006/cmd/rules"
	cmdshell "github.com/GBeurier/nirs4all-webapp-sub006/cmd/shell"
	"github.com/GBeurier/nirs4all-webapp-sub006/cmd/validate"
	"github.com/GBeurier/nirs4all-webapp-sub006/cmd/version"
	cmdwatch "github.com/GBeurier/nirs4all-webapp-sub006/cmd/watch"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nirscheck",
		Short: "Validation engine for NIRS analysis pipelines",
		Long: `nirscheck — rule-driven validation for NIRS analysis pipelines.

Check pipeline definitions (.yaml or .json) for parameter errors, broken
branch/merge structure, ordering problems, and deprecated models. Validate
once, watch files continuously, or explore interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(validate.NewCommand())
	rootCmd.AddCommand(rules.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdreport.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
