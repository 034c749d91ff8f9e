// Package report provides the "nirscheck report" command.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/config"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/output"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/report"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// NewCommand creates the "report" command.
func NewCommand() *cobra.Command {
	var (
		outPath string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "report <pipeline>",
		Short: "Write a validation report workbook",
		Long: `Validate a pipeline file and write the result as an .xlsx workbook with
summary, issue, and per-step sheets, or as a flat .csv issue list.

Example:
  nirscheck report pipeline.yaml
  nirscheck report pipeline.yaml -o results/pipeline-report.xlsx
  nirscheck report pipeline.yaml -o issues.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.InstallOverrides()

			p, err := pipeline.Load(args[0])
			if err != nil {
				return err
			}

			opts := cfg.Options()
			if strict {
				opts.StrictMode = true
			}
			opts.Schemas = cfg.LoadSchemas()
			result := validation.Validate(p.Steps, opts)

			if outPath == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				outPath = base + "-report.xlsx"
			}

			name := p.Name
			if name == "" {
				name = filepath.Base(args[0])
			}

			genResult, err := report.Generate(result, report.GenerateOptions{
				PipelineName: name,
				PipelinePath: args[0],
				OutputPath:   outPath,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return output.PrintJSON("report", genResult)
			}

			fmt.Printf("Wrote %s (%d issues across %d steps)\n",
				genResult.OutputPath, genResult.IssueRows, genResult.StepRows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (default <pipeline>-report.xlsx)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat pipeline-level warnings as errors")

	return cmd
}
