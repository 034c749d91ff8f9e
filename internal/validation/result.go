package validation

import "time"

// EmptyResult returns the result used for initial or cleared states: valid,
// no issues, no steps.
func EmptyResult() *Result {
	return &Result{
		IsValid:     true,
		Timestamp:   time.Now(),
		Issues:      []Issue{},
		Errors:      []Issue{},
		Warnings:    []Issue{},
		Infos:       []Issue{},
		StepResults: map[string]*StepResult{},
	}
}

// StepIssues returns every issue located at the given step.
func StepIssues(r *Result, stepID string) []Issue {
	var issues []Issue
	for _, issue := range r.Issues {
		if issue.Location.StepID == stepID {
			issues = append(issues, issue)
		}
	}
	return issues
}

// ParameterIssues returns every issue for one parameter of one step.
func ParameterIssues(r *Result, stepID, paramName string) []Issue {
	var issues []Issue
	for _, issue := range r.Issues {
		if issue.Location.StepID == stepID && issue.Location.ParamName == paramName {
			issues = append(issues, issue)
		}
	}
	return issues
}

// HasSeverity reports whether the result contains at least one issue of the
// given severity.
func HasSeverity(r *Result, sev Severity) bool {
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			return true
		}
	}
	return false
}
