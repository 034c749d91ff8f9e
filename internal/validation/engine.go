package validation

import (
	"fmt"
	"time"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
)

// Options configures one validation pass.
type Options struct {
	// StrictMode promotes pipeline-scoped warnings to errors.
	StrictMode bool
	// DisabledRules removes every issue carrying one of these codes from
	// the result. The engine honors the set verbatim — callers are
	// responsible for not disabling codes they need guaranteed; the CLI and
	// the live controller refuse to disable non-disableable rules.
	DisabledRules []Code
	// SelectedStepID, when set, narrows the reported issues to the given
	// step plus the pipeline-scoped issues. Used by the editor's step panel.
	SelectedStepID string
	// Schemas, when set, runs the schema-driven parameter validator on each
	// step in addition to the built-in sweep.
	Schemas *SchemaRegistry
}

// StepResult aggregates the issues that landed on one step.
type StepResult struct {
	StepID   string  `json:"stepId"`
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	Infos    []Issue `json:"infos"`
}

// Summary holds the headline counts for a validation result.
type Summary struct {
	ErrorCount        int `json:"errorCount"`
	WarningCount      int `json:"warningCount"`
	InfoCount         int `json:"infoCount"`
	StepsWithErrors   int `json:"stepsWithErrors"`
	StepsWithWarnings int `json:"stepsWithWarnings"`
	TotalSteps        int `json:"totalSteps"`
}

// Result is the immutable snapshot produced by one validation pass.
// IsValid is true iff no error-severity issue survived rule filtering;
// warnings and infos never affect validity.
type Result struct {
	IsValid     bool                   `json:"isValid"`
	Timestamp   time.Time              `json:"timestamp"`
	Issues      []Issue                `json:"issues"`
	Errors      []Issue                `json:"errors"`
	Warnings    []Issue                `json:"warnings"`
	Infos       []Issue                `json:"infos"`
	StepResults map[string]*StepResult `json:"stepResults"`
	Summary     Summary                `json:"summary"`
}

// Validate runs the full validation pass over the step tree: duplicate
// identity detection, recursive structural validation with path tracking,
// the built-in parameter sweep, the whole-pipeline composition checks, rule
// filtering, and aggregation. The input tree is never mutated.
func Validate(steps []pipeline.Step, opts Options) *Result {
	var issues []Issue

	// Duplicate identities first: they would corrupt the per-step
	// aggregation below, so they are detected before anything else.
	issues = append(issues, detectDuplicateIDs(steps)...)

	walker := &treeWalker{schemas: opts.Schemas}
	walker.walkAll(steps, nil)
	issues = append(issues, walker.issues...)

	issues = append(issues, CheckPipeline(steps, opts.StrictMode)...)

	issues = applyOverrides(issues)
	issues = filterDisabled(issues, opts.DisabledRules)

	if opts.SelectedStepID != "" {
		issues = filterSelected(issues, opts.SelectedStepID)
	}

	return aggregate(issues, walker.stepIDs, walker.total)
}

// IsValid reports whether the tree validates with default options.
func IsValid(steps []pipeline.Step) bool {
	return Validate(steps, Options{}).IsValid
}

// ErrorCount returns the number of error-severity issues for the tree.
func ErrorCount(steps []pipeline.Step) int {
	return Validate(steps, Options{}).Summary.ErrorCount
}

// QuickSummary holds just the validity verdict and counts, without the
// issue lists.
type QuickSummary struct {
	IsValid  bool `json:"isValid"`
	Errors   int  `json:"errors"`
	Warnings int  `json:"warnings"`
}

// GetQuickSummary validates the tree and returns only the headline verdict.
func GetQuickSummary(steps []pipeline.Step) QuickSummary {
	r := Validate(steps, Options{})
	return QuickSummary{
		IsValid:  r.IsValid,
		Errors:   r.Summary.ErrorCount,
		Warnings: r.Summary.WarningCount,
	}
}

// detectDuplicateIDs walks the entire tree in document order, recording
// every id the first time it is seen. Later occurrences are duplicate-id
// errors located at the traversal path of the collision.
func detectDuplicateIDs(steps []pipeline.Step) []Issue {
	seen := make(map[string][]string) // id -> path of first sighting
	var issues []Issue

	var walk func(steps []pipeline.Step, path []string)
	walk = func(steps []pipeline.Step, path []string) {
		for i, s := range steps {
			if s.ID != "" {
				if _, dup := seen[s.ID]; dup {
					loc := stepLocation(s, i)
					loc.Path = path
					issue := newIssue(CodeStepDuplicateID, SeverityError, CategoryStep,
						fmt.Sprintf("step id %q is used more than once", s.ID), loc)
					issue.Suggestion = "give every step a unique id"
					issues = append(issues, issue)
				} else {
					seen[s.ID] = path
				}
			}
			if len(s.Children) > 0 {
				walk(s.Children, childPath(path, "children"))
			}
			for bi, group := range s.Branches {
				walk(group, childPath(path, fmt.Sprintf("branch-%d", bi)))
			}
		}
	}
	walk(steps, nil)
	return issues
}

// treeWalker drives CheckStep and the parameter passes over the whole tree,
// stamping the traversal path onto every issue. The path slice is copied
// once per recursion level, not per issue.
type treeWalker struct {
	schemas *SchemaRegistry
	issues  []Issue
	stepIDs []string // every non-empty id in document order
	total   int      // every traversed node, id-less ones included
}

func (w *treeWalker) walkAll(steps []pipeline.Step, path []string) {
	for i := range steps {
		w.walkStep(steps[i], i, steps, path)
	}
}

func (w *treeWalker) walkStep(step pipeline.Step, index int, siblings []pipeline.Step, path []string) {
	w.total++
	if step.ID != "" {
		w.stepIDs = append(w.stepIDs, step.ID)
	}

	w.collect(CheckStep(step, index, siblings), path)
	w.collect(sweepParams(step, index), path)
	if w.schemas != nil {
		w.collect(w.schemas.CheckStepParams(step, index), path)
	}

	if len(step.Children) > 0 {
		w.walkAll(step.Children, childPath(path, "children"))
	}
	for bi, group := range step.Branches {
		w.walkAll(group, childPath(path, fmt.Sprintf("branch-%d", bi)))
	}
}

func (w *treeWalker) collect(issues []Issue, path []string) {
	for _, issue := range issues {
		if issue.Location.Path == nil {
			issue.Location.Path = path
		}
		w.issues = append(w.issues, issue)
	}
}

func childPath(path []string, segment string) []string {
	next := make([]string, 0, len(path)+1)
	next = append(next, path...)
	return append(next, segment)
}

// applyOverrides rewrites issue severities from the process-wide override
// table. Codes without an entry keep the severity they were minted with, so
// strict-mode promotion survives.
func applyOverrides(issues []Issue) []Issue {
	for i := range issues {
		if sev, ok := overrideFor(issues[i].Code); ok {
			issues[i].Severity = sev
		}
	}
	return issues
}

func filterDisabled(issues []Issue, disabled []Code) []Issue {
	if len(disabled) == 0 {
		return issues
	}
	off := make(map[Code]bool, len(disabled))
	for _, code := range disabled {
		off[code] = true
	}
	kept := issues[:0:0]
	for _, issue := range issues {
		if !off[issue.Code] {
			kept = append(kept, issue)
		}
	}
	return kept
}

func filterSelected(issues []Issue, stepID string) []Issue {
	kept := issues[:0:0]
	for _, issue := range issues {
		if issue.Location.StepID == stepID || issue.Location.StepID == "" {
			kept = append(kept, issue)
		}
	}
	return kept
}

// aggregate partitions the filtered issues by severity and builds the
// per-step breakdown and summary counts. Every traversed step gets a
// StepResult even when nothing landed on it.
func aggregate(issues []Issue, stepIDs []string, totalSteps int) *Result {
	r := &Result{
		Timestamp:   time.Now(),
		Issues:      issues,
		Errors:      []Issue{},
		Warnings:    []Issue{},
		Infos:       []Issue{},
		StepResults: make(map[string]*StepResult, len(stepIDs)),
	}

	for _, id := range stepIDs {
		if _, ok := r.StepResults[id]; !ok {
			r.StepResults[id] = &StepResult{
				StepID:   id,
				IsValid:  true,
				Errors:   []Issue{},
				Warnings: []Issue{},
				Infos:    []Issue{},
			}
		}
	}

	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			r.Errors = append(r.Errors, issue)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, issue)
		default:
			r.Infos = append(r.Infos, issue)
		}

		id := issue.Location.StepID
		if id == "" {
			continue
		}
		sr, ok := r.StepResults[id]
		if !ok {
			sr = &StepResult{StepID: id, IsValid: true, Errors: []Issue{}, Warnings: []Issue{}, Infos: []Issue{}}
			r.StepResults[id] = sr
		}
		switch issue.Severity {
		case SeverityError:
			sr.Errors = append(sr.Errors, issue)
			sr.IsValid = false
		case SeverityWarning:
			sr.Warnings = append(sr.Warnings, issue)
		default:
			sr.Infos = append(sr.Infos, issue)
		}
	}

	r.Summary = Summary{
		ErrorCount:   len(r.Errors),
		WarningCount: len(r.Warnings),
		InfoCount:    len(r.Infos),
		TotalSteps:   totalSteps,
	}
	for _, sr := range r.StepResults {
		if len(sr.Errors) > 0 {
			r.Summary.StepsWithErrors++
		}
		if len(sr.Warnings) > 0 {
			r.Summary.StepsWithWarnings++
		}
	}

	r.IsValid = len(r.Errors) == 0
	return r
}
