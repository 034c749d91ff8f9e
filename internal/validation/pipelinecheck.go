package validation

import (
	"fmt"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
)

// CheckPipeline runs the whole-tree composition checks over the root-level
// sequence. Disabled steps are excluded from structural reasoning here; they
// are still individually validated by CheckStep during traversal. In strict
// mode the pipeline-scoped warnings are promoted to errors.
func CheckPipeline(steps []pipeline.Step, strictMode bool) []Issue {
	var issues []Issue

	promote := func(sev Severity) Severity {
		if strictMode && sev == SeverityWarning {
			return SeverityError
		}
		return sev
	}

	if len(steps) == 0 {
		issue := newIssue(CodePipelineEmpty, SeverityInfo, CategoryPipeline,
			"pipeline has no steps", rootLocation())
		return []Issue{issue}
	}

	// Root-level enabled sequence, keeping original indices for locations.
	type rootStep struct {
		step  pipeline.Step
		index int
	}
	var enabled []rootStep
	for i, s := range steps {
		if s.IsEnabled() {
			enabled = append(enabled, rootStep{s, i})
		}
	}

	if len(enabled) == 0 {
		issue := newIssue(CodePipelineEmpty, promote(SeverityWarning), CategoryPipeline,
			"every step in the pipeline is disabled", rootLocation())
		return []Issue{issue}
	}

	// Model and splitter presence anywhere in the enabled tree.
	hasModel := anyStep(steps, func(s pipeline.Step) bool { return s.Type == pipeline.TypeModel })
	hasSplitter := anyStep(steps, func(s pipeline.Step) bool { return s.Type == pipeline.TypeSplitting })

	if !hasModel {
		issue := newIssue(CodePipelineNoModel, promote(SeverityWarning), CategoryPipeline,
			"pipeline contains no model step", rootLocation())
		issue.Suggestion = "add a model step to make the pipeline trainable"
		issues = append(issues, issue)
	}

	firstModel := -1
	firstSplitter := -1
	modelCount := 0
	for _, rs := range enabled {
		switch rs.step.Type {
		case pipeline.TypeModel:
			if firstModel < 0 {
				firstModel = rs.index
			}
			modelCount++
		case pipeline.TypeSplitting:
			if firstSplitter < 0 {
				firstSplitter = rs.index
			}
		}
	}

	if hasModel && !hasSplitter {
		issue := newIssue(CodePipelineNoSplitter, SeverityInfo, CategoryPipeline,
			"pipeline has a model but no splitting step", rootLocation())
		issue.Suggestion = "add a splitter (e.g. KFold) to get validation scores"
		issues = append(issues, issue)
	}

	if firstModel >= 0 && firstSplitter >= 0 && firstModel < firstSplitter {
		loc := stepLocation(steps[firstModel], firstModel)
		issue := newIssue(CodePipelineModelBeforeSplitter, promote(SeverityWarning), CategoryPipeline,
			"the first model appears before the first splitter", loc)
		issue.Suggestion = "move the splitter before the model so folds are built from raw data"
		issues = append(issues, issue)
	}

	// Merge/branch pairing at the root level. Unmatched branches after the
	// scan are legal: branch outputs may be consumed independently.
	branchDepth := 0
	for _, rs := range enabled {
		switch {
		case rs.step.SubType.IsBranching():
			branchDepth++
		case rs.step.SubType == pipeline.SubTypeMerge:
			if branchDepth > 0 {
				branchDepth--
			} else {
				loc := stepLocation(rs.step, rs.index)
				issue := newIssue(CodePipelineMergeWithoutBranch, SeverityError, CategoryPipeline,
					fmt.Sprintf("merge step %q has no open branch to merge", rs.step.Name), loc)
				issue.Suggestion = "add a branch or generator step before the merge, or remove the merge"
				issues = append(issues, issue)
			}
		}
	}
	if branchDepth > 0 {
		issue := newIssue(CodePipelineMergeWithoutBranch, SeverityInfo, CategoryPipeline,
			fmt.Sprintf("%d branch(es) are never merged; their outputs will be consumed independently", branchDepth),
			rootLocation())
		issues = append(issues, issue)
	}

	// Ordering sanity: preprocessing or splitting after the first model.
	if firstModel >= 0 {
		for _, rs := range enabled {
			if rs.index <= firstModel {
				continue
			}
			if rs.step.Type == pipeline.TypePreprocessing || rs.step.Type == pipeline.TypeSplitting {
				loc := stepLocation(rs.step, rs.index)
				issue := newIssue(CodeDepInvalidOrder, promote(SeverityWarning), CategoryDependency,
					fmt.Sprintf("%s step %q appears after a model", rs.step.Type, rs.step.Name), loc)
				issue.Suggestion = "move data preparation steps before the model"
				issues = append(issues, issue)
			}
		}
	}

	if modelCount > 1 {
		issue := newIssue(CodePipelineMultipleModels, SeverityInfo, CategoryPipeline,
			fmt.Sprintf("pipeline has %d root-level models", modelCount), rootLocation())
		issue.Details = "multiple models are legal for ensembles and model comparison"
		issues = append(issues, issue)
	}

	return issues
}

func rootLocation() Location {
	return Location{StepIndex: -1, BranchIndex: -1}
}

// anyStep reports whether any enabled step in the tree, at any depth,
// satisfies the predicate.
func anyStep(steps []pipeline.Step, pred func(pipeline.Step) bool) bool {
	for _, s := range steps {
		if !s.IsEnabled() {
			continue
		}
		if pred(s) {
			return true
		}
		if anyStep(s.Children, pred) {
			return true
		}
		for _, group := range s.Branches {
			if anyStep(group, pred) {
				return true
			}
		}
	}
	return false
}
