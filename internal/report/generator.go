// Package report renders validation results into shareable documents.
// It currently targets .xlsx workbooks with summary, issue, and per-step
// breakdown sheets.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/formats/xlsx"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// GenerateOptions configures report generation.
type GenerateOptions struct {
	PipelineName string `json:"pipelineName"`
	PipelinePath string `json:"pipelinePath"`
	OutputPath   string `json:"outputPath"`
}

// GenerateResult holds the outcome of report generation.
type GenerateResult struct {
	OutputPath string `json:"outputPath"`
	Sheets     int    `json:"sheets"`
	IssueRows  int    `json:"issueRows"`
	StepRows   int    `json:"stepRows"`
}

// Generate writes a report for a validation result. The output format is
// picked from the target extension: .xlsx gets the full workbook, .csv gets
// the flat issue list.
func Generate(result *validation.Result, opts GenerateOptions) (*GenerateResult, error) {
	if result == nil {
		return nil, fmt.Errorf("nothing to report: no validation result")
	}

	switch filepath.Ext(opts.OutputPath) {
	case ".xlsx":
	case ".csv":
		sheet := issuesSheet(result)
		if err := os.WriteFile(opts.OutputPath, []byte(sheet.ToCSV()), 0644); err != nil {
			return nil, fmt.Errorf("could not write report: %w", err)
		}
		return &GenerateResult{
			OutputPath: opts.OutputPath,
			Sheets:     1,
			IssueRows:  len(result.Issues),
			StepRows:   len(result.StepResults),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s (supported: .xlsx, .csv)", filepath.Ext(opts.OutputPath))
	}

	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			summarySheet(result, opts),
			issuesSheet(result),
			stepsSheet(result),
		},
	}

	if err := xlsx.WriteFile(wb, opts.OutputPath); err != nil {
		return nil, fmt.Errorf("could not write report: %w", err)
	}

	return &GenerateResult{
		OutputPath: opts.OutputPath,
		Sheets:     len(wb.Sheets),
		IssueRows:  len(result.Issues),
		StepRows:   len(result.StepResults),
	}, nil
}

func summarySheet(result *validation.Result, opts GenerateOptions) xlsx.Sheet {
	verdict := "valid"
	if !result.IsValid {
		verdict = "invalid"
	}
	rows := [][]string{
		{"Metric", "Value"},
		{"Pipeline", opts.PipelineName},
		{"Source", opts.PipelinePath},
		{"Generated", time.Now().Format(time.RFC3339)},
		{"Verdict", verdict},
		{"Total steps", strconv.Itoa(result.Summary.TotalSteps)},
		{"Errors", strconv.Itoa(result.Summary.ErrorCount)},
		{"Warnings", strconv.Itoa(result.Summary.WarningCount)},
		{"Notes", strconv.Itoa(result.Summary.InfoCount)},
		{"Steps with errors", strconv.Itoa(result.Summary.StepsWithErrors)},
		{"Steps with warnings", strconv.Itoa(result.Summary.StepsWithWarnings)},
	}
	return xlsx.Sheet{Name: "Summary", Rows: rows}
}

func issuesSheet(result *validation.Result) xlsx.Sheet {
	rows := [][]string{
		{"Severity", "Code", "Category", "Step", "Parameter", "Path", "Message", "Suggestion"},
	}
	for _, issue := range result.Issues {
		rows = append(rows, []string{
			string(issue.Severity),
			string(issue.Code),
			string(issue.Category),
			issue.Location.StepID,
			issue.Location.ParamName,
			strings.Join(issue.Location.Path, "/"),
			issue.Message,
			issue.Suggestion,
		})
	}
	return xlsx.Sheet{Name: "Issues", Rows: rows}
}

func stepsSheet(result *validation.Result) xlsx.Sheet {
	ids := make([]string, 0, len(result.StepResults))
	for id := range result.StepResults {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := [][]string{
		{"Step", "Valid", "Errors", "Warnings", "Notes"},
	}
	for _, id := range ids {
		sr := result.StepResults[id]
		rows = append(rows, []string{
			id,
			strconv.FormatBool(sr.IsValid),
			strconv.Itoa(len(sr.Errors)),
			strconv.Itoa(len(sr.Warnings)),
			strconv.Itoa(len(sr.Infos)),
		})
	}
	return xlsx.Sheet{Name: "Steps", Rows: rows}
}
