package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
)

// sweepParams is the schema-independent parameter safety net run on every
// step during traversal. The schema-driven validator needs a parameter
// registry that is not always available at traversal time; this sweep flags
// the values that are never acceptable regardless of schema: non-finite
// numbers and a few semantic rules for the common step families. It runs
// beside the schema-driven pass, not instead of it.
func sweepParams(step pipeline.Step, index int) []Issue {
	if len(step.Params) == 0 {
		return nil
	}

	names := make([]string, 0, len(step.Params))
	for name := range step.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []Issue
	for _, name := range names {
		value := step.Params[name]
		f, numeric := asFloat(value)
		if !numeric {
			continue
		}
		loc := stepLocation(step, index)
		loc.ParamName = name

		if math.IsNaN(f) {
			issues = append(issues, newIssue(CodeParamInvalidValue, SeverityError, CategoryParameter,
				fmt.Sprintf("parameter %q is NaN", name), loc))
			continue
		}
		if math.IsInf(f, 0) {
			issues = append(issues, newIssue(CodeParamOutOfRange, SeverityError, CategoryParameter,
				fmt.Sprintf("parameter %q is infinite", name), loc))
			continue
		}
	}

	issues = append(issues, sweepSemantics(step, index)...)
	return issues
}

// sweepSemantics applies the built-in semantic rules for common step
// families, keyed on step type and parameter name.
func sweepSemantics(step pipeline.Step, index int) []Issue {
	var issues []Issue

	paramLoc := func(name string) Location {
		loc := stepLocation(step, index)
		loc.ParamName = name
		return loc
	}

	if step.Type == pipeline.TypeModel {
		if f, ok := finiteParam(step, "n_components"); ok {
			if f < 1 {
				issue := newIssue(CodeParamOutOfRange, SeverityError, CategoryParameter,
					"n_components must be at least 1", paramLoc("n_components"))
				issues = append(issues, issue)
			} else if f > 100 {
				issue := newIssue(CodeParamOutOfRange, SeverityWarning, CategoryParameter,
					fmt.Sprintf("n_components=%v is unusually large for NIR spectra", step.Params["n_components"]),
					paramLoc("n_components"))
				issue.Suggestion = "most NIR models need fewer than 100 components"
				issues = append(issues, issue)
			}
		}
	}

	if step.Type == pipeline.TypeSplitting {
		if f, ok := finiteParam(step, "test_size"); ok && (f <= 0 || f >= 1) {
			issue := newIssue(CodeParamOutOfRange, SeverityError, CategoryParameter,
				fmt.Sprintf("test_size must be strictly between 0 and 1, got %v", step.Params["test_size"]),
				paramLoc("test_size"))
			issues = append(issues, issue)
		}
		if f, ok := finiteParam(step, "n_splits"); ok && f < 2 {
			issue := newIssue(CodeParamOutOfRange, SeverityError, CategoryParameter,
				fmt.Sprintf("n_splits must be at least 2, got %v", step.Params["n_splits"]),
				paramLoc("n_splits"))
			issues = append(issues, issue)
		}
	}

	if isSmoothingStep(step.Name) {
		window, hasWindow := finiteParam(step, "window_length")
		poly, hasPoly := finiteParam(step, "polyorder")

		if hasWindow {
			if window < 3 {
				issues = append(issues, newIssue(CodeParamOutOfRange, SeverityError, CategoryParameter,
					"window_length must be at least 3", paramLoc("window_length")))
			}
			if math.Mod(window, 2) == 0 {
				issue := newIssue(CodeParamInvalidValue, SeverityError, CategoryParameter,
					fmt.Sprintf("window_length must be odd, got %v", step.Params["window_length"]),
					paramLoc("window_length"))
				issues = append(issues, issue)
			}
		}
		if hasWindow && hasPoly && poly >= window {
			issue := newIssue(CodeParamInvalidValue, SeverityError, CategoryParameter,
				fmt.Sprintf("polyorder (%v) must be smaller than window_length (%v)",
					step.Params["polyorder"], step.Params["window_length"]),
				paramLoc("polyorder"))
			issues = append(issues, issue)
		}
	}

	return issues
}

func finiteParam(step pipeline.Step, name string) (float64, bool) {
	value, ok := step.Params[name]
	if !ok {
		return 0, false
	}
	f, ok := asFloat(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isSmoothingStep(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "savitzky") || strings.Contains(lower, "savgol") ||
		strings.Contains(lower, "derivative")
}
