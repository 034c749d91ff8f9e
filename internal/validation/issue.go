// Package validation is the pipeline validation engine. It walks a step
// tree, applies the rule registry, and produces a severity-ranked report of
// issues with machine-checkable codes, locations, and suggested fixes. The
// engine is a pure function of its inputs: it never mutates the tree, does
// no I/O, and reports malformed input as issues instead of failing.
package validation

import (
	"github.com/google/uuid"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
)

// Severity ranks an issue. Errors block export, warnings and infos do not.
type Severity string

// Severity levels, totally ordered: error > warning > info.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank returns the ordering weight of a severity (higher is more severe).
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// Category groups issues by the layer of the pipeline they concern.
type Category string

// Issue categories.
const (
	CategoryParameter     Category = "parameter"
	CategoryStep          Category = "step"
	CategoryPipeline      Category = "pipeline"
	CategoryDependency    Category = "dependency"
	CategoryCompatibility Category = "compatibility"
)

// Code identifies a validation rule. The set is closed and the string values
// are a stable API surface consumed by the editor frontend.
type Code string

// The full error-code vocabulary.
const (
	CodeParamRequired        Code = "PARAM_REQUIRED"
	CodeParamTypeMismatch    Code = "PARAM_TYPE_MISMATCH"
	CodeParamOutOfRange      Code = "PARAM_OUT_OF_RANGE"
	CodeParamInvalidValue    Code = "PARAM_INVALID_VALUE"
	CodeParamPatternMismatch Code = "PARAM_PATTERN_MISMATCH"
	CodeParamLengthExceeded  Code = "PARAM_LENGTH_EXCEEDED"

	CodeStepUnknownType    Code = "STEP_UNKNOWN_TYPE"
	CodeStepInvalidName    Code = "STEP_INVALID_NAME"
	CodeStepDuplicateID    Code = "STEP_DUPLICATE_ID"
	CodeStepEmptyContainer Code = "STEP_EMPTY_CONTAINER"
	CodeStepEmptyBranches  Code = "STEP_EMPTY_BRANCHES"

	CodePipelineNoModel             Code = "PIPELINE_NO_MODEL"
	CodePipelineNoSplitter          Code = "PIPELINE_NO_SPLITTER"
	CodePipelineEmpty               Code = "PIPELINE_EMPTY"
	CodePipelineModelBeforeSplitter Code = "PIPELINE_MODEL_BEFORE_SPLITTER"
	CodePipelineMergeWithoutBranch  Code = "PIPELINE_MERGE_WITHOUT_BRANCH"
	CodePipelineMultipleModels      Code = "PIPELINE_MULTIPLE_MODELS"

	CodeDepInvalidOrder        Code = "DEP_INVALID_ORDER"
	CodeDepMissingPrerequisite Code = "DEP_MISSING_PREREQUISITE"
	CodeDepCircularReference   Code = "DEP_CIRCULAR_REFERENCE"

	CodeCompatDeprecated      Code = "COMPAT_DEPRECATED"
	CodeCompatVersionMismatch Code = "COMPAT_VERSION_MISMATCH"
	CodeCompatUnknownClass    Code = "COMPAT_UNKNOWN_CLASS"
)

// Location points at the place in the tree an issue was found. Path records
// the traversal segments ("children", "branch-<i>") from the root down to
// the scope holding the step, so nested issues stay addressable.
type Location struct {
	StepID      string   `json:"stepId,omitempty"`
	StepName    string   `json:"stepName,omitempty"`
	StepType    string   `json:"stepType,omitempty"`
	StepIndex   int      `json:"stepIndex"`
	ParamName   string   `json:"paramName,omitempty"`
	BranchIndex int      `json:"branchIndex"`
	Path        []string `json:"path,omitempty"`
}

// Issue is one validation finding.
type Issue struct {
	ID         string   `json:"id"`
	Code       Code     `json:"code"`
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Details    string   `json:"details,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	QuickFix   string   `json:"quickFix,omitempty"`
	Location   Location `json:"location"`
}

func newIssue(code Code, sev Severity, cat Category, msg string, loc Location) Issue {
	return Issue{
		ID:       uuid.NewString(),
		Code:     code,
		Severity: sev,
		Category: cat,
		Message:  msg,
		Location: loc,
	}
}

// stepLocation builds a Location for a step at the given index in its scope.
// BranchIndex defaults to -1 (not inside a specific branch group).
func stepLocation(step pipeline.Step, index int) Location {
	return Location{
		StepID:      step.ID,
		StepName:    step.Name,
		StepType:    string(step.Type),
		StepIndex:   index,
		BranchIndex: -1,
	}
}
