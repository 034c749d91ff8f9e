// Package validate provides the "nirscheck validate" command.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/config"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/output"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/progress"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/telemetry"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// fileResult pairs one input file with its validation outcome.
type fileResult struct {
	Path   string             `json:"path"`
	Name   string             `json:"name,omitempty"`
	Result *validation.Result `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// NewCommand creates the "validate" command.
func NewCommand() *cobra.Command {
	var (
		strict   bool
		disabled []string
		stepID   string
		summary  bool
		schemas  []string
	)

	cmd := &cobra.Command{
		Use:   "validate <pipeline> [pipeline...]",
		Short: "Validate pipeline definitions",
		Long: `Validate one or more pipeline files (.yaml or .json) against the full
rule set: parameter checks, step structure, branch/merge pairing, step
ordering, and model compatibility.

Exit codes: 0 valid, 1 validation errors, 2 unreadable input.

Example:
  nirscheck validate pipeline.yaml
  nirscheck validate --strict --disable PIPELINE_NO_SPLITTER *.yaml
  nirscheck validate --step pls-1 pipeline.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			start := time.Now()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.InstallOverrides()

			opts := cfg.Options()
			if strict {
				opts.StrictMode = true
			}
			for _, raw := range disabled {
				code := validation.Code(strings.ToUpper(raw))
				rule, ok := validation.RuleFor(code)
				if !ok {
					return fmt.Errorf("unknown rule code %q — run 'nirscheck rules' for the catalog", raw)
				}
				if !rule.CanDisable {
					return fmt.Errorf("rule %s cannot be disabled", code)
				}
				opts.DisabledRules = append(opts.DisabledRules, code)
			}
			opts.SelectedStepID = stepID

			reg := cfg.LoadSchemas()
			for _, path := range schemas {
				if err := reg.LoadFile(path); err != nil {
					return fmt.Errorf("could not load schemas from %s: %w", path, err)
				}
			}
			opts.Schemas = reg

			bar := progress.New("Validating", len(args))
			results := make([]fileResult, 0, len(args))
			exitCode := output.ExitOK
			totalSteps, totalErrors, totalWarnings := 0, 0, 0

			for _, path := range args {
				fr := fileResult{Path: path}
				p, err := pipeline.Load(path)
				if err != nil {
					fr.Error = err.Error()
					exitCode = output.ExitSystemError
				} else {
					fr.Name = p.Name
					fr.Result = validation.Validate(p.Steps, opts)
					totalSteps += fr.Result.Summary.TotalSteps
					totalErrors += fr.Result.Summary.ErrorCount
					totalWarnings += fr.Result.Summary.WarningCount
					if !fr.Result.IsValid && exitCode == output.ExitOK {
						exitCode = output.ExitInvalid
					}
				}
				results = append(results, fr)
				bar.Increment(filepath.Base(path))
			}
			bar.Finish(fmt.Sprintf("%d file(s) validated", len(args)))

			if cfg.Telemetry.Enabled {
				telemetry.DefaultStore().Record(telemetry.Event{
					Timestamp:  time.Now(),
					Command:    "validate",
					DurationMs: time.Since(start).Milliseconds(),
					ExitCode:   exitCode,
					Steps:      totalSteps,
					Errors:     totalErrors,
					Warnings:   totalWarnings,
				})
			}

			if jsonOut {
				var data interface{} = results
				if len(results) == 1 {
					data = results[0]
				}
				if err := output.PrintJSON("validate", data); err != nil {
					return err
				}
				os.Exit(exitCode)
			}

			colored := cfg.Output.Color
			for _, fr := range results {
				if fr.Error != "" {
					output.WriteError("%s: %s", fr.Path, fr.Error)
					continue
				}
				name := fr.Name
				if name == "" {
					name = filepath.Base(fr.Path)
				}
				if summary {
					verdict := "valid"
					if !fr.Result.IsValid {
						verdict = "invalid"
					}
					fmt.Printf("%s: %s (%d errors, %d warnings)\n", name, verdict,
						fr.Result.Summary.ErrorCount, fr.Result.Summary.WarningCount)
					continue
				}
				fmt.Print(output.RenderResult(name, fr.Result, colored))
				fmt.Println()
			}

			os.Exit(exitCode)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat pipeline-level warnings as errors")
	cmd.Flags().StringSliceVar(&disabled, "disable", nil, "Rule codes to disable for this run")
	cmd.Flags().StringVar(&stepID, "step", "", "Only report issues for this step id")
	cmd.Flags().BoolVar(&summary, "summary", false, "One line per file instead of the full issue list")
	cmd.Flags().StringSliceVar(&schemas, "schemas", nil, "Extra parameter schema files (.yaml)")

	return cmd
}
