package validation

import (
	"fmt"
	"strings"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
)

// deprecatedModels maps model names the runtime still accepts but will drop,
// to their replacements.
var deprecatedModels = map[string]string{
	"PLSCanonical":    "PLSRegression",
	"NIPALS":          "PLSRegression",
	"LinearSVR_old":   "SVR",
	"RandomForest_v1": "RandomForestRegressor",
}

// CheckStep validates the structural correctness of a single step,
// independent of its siblings except for the merge pairing scan. index is
// the step's position in its local scope, siblings the full local sequence.
// Branch and child contents are validated by the engine's traversal, not
// here.
func CheckStep(step pipeline.Step, index int, siblings []pipeline.Step) []Issue {
	var issues []Issue
	loc := stepLocation(step, index)

	if strings.TrimSpace(step.ID) == "" {
		// Without an identity the duplicate invariant cannot be checked, so
		// a missing id is reported in the duplicate-id class.
		issue := newIssue(CodeStepDuplicateID, SeverityError, CategoryStep,
			"step has no id", loc)
		issue.Suggestion = "assign a unique id to this step"
		issues = append(issues, issue)
	}

	if strings.TrimSpace(step.Name) == "" {
		issue := newIssue(CodeStepInvalidName, SeverityError, CategoryStep,
			"step has no name", loc)
		issue.Suggestion = "give the step a display name"
		issues = append(issues, issue)
	}

	if step.Type != "" && !step.Type.Known() {
		issue := newIssue(CodeStepUnknownType, SeverityError, CategoryStep,
			fmt.Sprintf("unknown step type %q", step.Type), loc)
		issues = append(issues, issue)
	}

	if step.SubType.IsChildContainer() && len(step.Children) == 0 {
		issue := newIssue(CodeStepEmptyContainer, SeverityWarning, CategoryStep,
			fmt.Sprintf("container step %q has no children", step.Name), loc)
		issue.Suggestion = "add steps to the container or remove it"
		issues = append(issues, issue)
	}

	if step.SubType.IsBranching() {
		issues = append(issues, checkBranches(step, index)...)
	}

	if step.SubType == pipeline.SubTypeGenerator {
		issues = append(issues, checkGenerator(step, index)...)
	}

	if step.SubType == pipeline.SubTypeMerge {
		issues = append(issues, checkMergePairing(step, index, siblings)...)
	}

	if step.Type == pipeline.TypeModel {
		issues = append(issues, checkModel(step, index)...)
	}

	if !step.IsEnabled() {
		noteLoc := loc
		noteLoc.ParamName = "enabled"
		issue := newIssue(CodeParamInvalidValue, SeverityInfo, CategoryStep,
			fmt.Sprintf("step %q is disabled and will be skipped", step.Name), noteLoc)
		issues = append(issues, issue)
	}

	return issues
}

func checkBranches(step pipeline.Step, index int) []Issue {
	loc := stepLocation(step, index)

	if len(step.Branches) == 0 {
		// An empty branch set breaks the branch/merge pairing downstream,
		// so this is an error rather than the container warning.
		issue := newIssue(CodeStepEmptyBranches, SeverityError, CategoryStep,
			fmt.Sprintf("branch step %q has no branches", step.Name), loc)
		issue.Suggestion = "add at least one branch group"
		return []Issue{issue}
	}

	var issues []Issue
	for i, group := range step.Branches {
		if len(group) > 0 {
			continue
		}
		// A generator depends on having real alternatives; a plain branch
		// with an empty group merely warns.
		sev := SeverityWarning
		if step.SubType == pipeline.SubTypeGenerator {
			sev = SeverityError
		}
		groupLoc := loc
		groupLoc.BranchIndex = i
		issue := newIssue(CodeStepEmptyBranches, sev, CategoryStep,
			fmt.Sprintf("branch %d of step %q is empty", i, step.Name), groupLoc)
		issues = append(issues, issue)
	}
	return issues
}

func checkGenerator(step pipeline.Step, index int) []Issue {
	var issues []Issue
	loc := stepLocation(step, index)

	switch step.GeneratorKind {
	case "":
		kindLoc := loc
		kindLoc.ParamName = "generatorKind"
		issue := newIssue(CodeParamInvalidValue, SeverityWarning, CategoryParameter,
			fmt.Sprintf("generator step %q has no generator kind", step.Name), kindLoc)
		issue.Suggestion = `set generatorKind to "or" or "cartesian"`
		issues = append(issues, issue)
	case pipeline.GeneratorOr:
		if len(step.Branches) < 2 {
			issue := newIssue(CodeStepEmptyBranches, SeverityWarning, CategoryStep,
				fmt.Sprintf("\"or\" generator %q has fewer than 2 branches", step.Name), loc)
			issue.Suggestion = "an \"or\" generator needs at least 2 alternatives to be useful"
			issues = append(issues, issue)
		}
	case pipeline.GeneratorCartesian:
		if len(step.Branches) < 2 {
			issue := newIssue(CodeStepEmptyBranches, SeverityWarning, CategoryStep,
				fmt.Sprintf("\"cartesian\" generator %q has fewer than 2 stages", step.Name), loc)
			issue.Suggestion = "a cartesian product over fewer than 2 stages is a no-op"
			issues = append(issues, issue)
		}
	default:
		kindLoc := loc
		kindLoc.ParamName = "generatorKind"
		issue := newIssue(CodeParamInvalidValue, SeverityWarning, CategoryParameter,
			fmt.Sprintf("generator step %q has unknown generator kind %q", step.Name, step.GeneratorKind), kindLoc)
		issue.Suggestion = `set generatorKind to "or" or "cartesian"`
		issues = append(issues, issue)
	}
	return issues
}

// checkMergePairing scans backward through the local sibling sequence. The
// merge is paired as soon as a branch or generator is found; an intervening
// merge means a nested pairing and also stops the scan. Reaching the start
// of the scope without a branch is the local form of merge-without-branch,
// at warning severity — the pipeline-level scan reports the root-scope case
// as an error.
func checkMergePairing(step pipeline.Step, index int, siblings []pipeline.Step) []Issue {
	loc := stepLocation(step, index)

	if index == 0 {
		issue := newIssue(CodePipelineMergeWithoutBranch, SeverityError, CategoryPipeline,
			fmt.Sprintf("merge step %q is first in its scope, nothing to merge", step.Name), loc)
		return []Issue{issue}
	}

	for i := index - 1; i >= 0; i-- {
		prev := siblings[i]
		if prev.SubType.IsBranching() {
			return nil
		}
		if prev.SubType == pipeline.SubTypeMerge {
			// Nested pairing: the earlier merge closed its own branch.
			return nil
		}
	}

	issue := newIssue(CodePipelineMergeWithoutBranch, SeverityWarning, CategoryPipeline,
		fmt.Sprintf("merge step %q has no preceding branch in its scope", step.Name), loc)
	return []Issue{issue}
}

func checkModel(step pipeline.Step, index int) []Issue {
	var issues []Issue
	loc := stepLocation(step, index)

	if replacement, ok := deprecatedModels[step.Name]; ok {
		issue := newIssue(CodeCompatDeprecated, SeverityWarning, CategoryCompatibility,
			fmt.Sprintf("model %q is deprecated", step.Name), loc)
		issue.Suggestion = fmt.Sprintf("use %s instead", replacement)
		issues = append(issues, issue)
	}

	if step.Finetune != nil && step.Finetune.Enabled && len(step.Finetune.Parameters) == 0 {
		ftLoc := loc
		ftLoc.ParamName = "finetune"
		issue := newIssue(CodeParamInvalidValue, SeverityWarning, CategoryParameter,
			fmt.Sprintf("model %q has fine-tuning enabled but no tunable parameters", step.Name), ftLoc)
		issue.Suggestion = "configure at least one parameter range to tune"
		issues = append(issues, issue)
	}

	return issues
}
