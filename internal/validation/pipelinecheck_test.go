package validation

import (
	"testing"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
)

func severityFor(issues []Issue, code Code) (Severity, bool) {
	for _, issue := range issues {
		if issue.Code == code {
			return issue.Severity, true
		}
	}
	return "", false
}

func TestEmptyPipelineIsInfo(t *testing.T) {
	issues := CheckPipeline(nil, false)
	if len(issues) != 1 {
		t.Fatalf("expected exactly 1 issue, got %v", codesOf(issues))
	}
	if issues[0].Code != CodePipelineEmpty || issues[0].Severity != SeverityInfo {
		t.Errorf("expected PIPELINE_EMPTY info, got %s %s", issues[0].Code, issues[0].Severity)
	}
}

func TestAllDisabledIsWarning(t *testing.T) {
	off := false
	steps := []pipeline.Step{
		{ID: "a", Name: "A", Type: pipeline.TypePreprocessing, Enabled: &off},
	}
	issues := CheckPipeline(steps, false)
	sev, ok := severityFor(issues, CodePipelineEmpty)
	if !ok || sev != SeverityWarning {
		t.Errorf("expected PIPELINE_EMPTY warning, got %v", codesOf(issues))
	}
}

func TestNoModelWarns(t *testing.T) {
	steps := []pipeline.Step{step("a", "Scaler", pipeline.TypePreprocessing)}
	issues := CheckPipeline(steps, false)
	sev, ok := severityFor(issues, CodePipelineNoModel)
	if !ok || sev != SeverityWarning {
		t.Errorf("expected PIPELINE_NO_MODEL warning, got %v", codesOf(issues))
	}
}

func TestModelInsideBranchCountsAsPresent(t *testing.T) {
	branch := step("b", "Branch", pipeline.TypeFlow)
	branch.SubType = pipeline.SubTypeBranch
	branch.Branches = [][]pipeline.Step{{step("m", "PLSRegression", pipeline.TypeModel)}}
	issues := CheckPipeline([]pipeline.Step{branch}, false)
	if hasCode(issues, CodePipelineNoModel) {
		t.Errorf("nested model should satisfy the model check, got %v", codesOf(issues))
	}
}

func TestNoSplitterIsInfo(t *testing.T) {
	steps := []pipeline.Step{step("m", "PLSRegression", pipeline.TypeModel)}
	issues := CheckPipeline(steps, false)
	sev, ok := severityFor(issues, CodePipelineNoSplitter)
	if !ok || sev != SeverityInfo {
		t.Errorf("expected PIPELINE_NO_SPLITTER info, got %v", codesOf(issues))
	}
}

func TestModelBeforeSplitterWarns(t *testing.T) {
	steps := []pipeline.Step{
		step("m", "PLSRegression", pipeline.TypeModel),
		step("k", "KFold", pipeline.TypeSplitting),
	}
	issues := CheckPipeline(steps, false)
	if !hasCode(issues, CodePipelineModelBeforeSplitter) {
		t.Errorf("expected PIPELINE_MODEL_BEFORE_SPLITTER, got %v", codesOf(issues))
	}

	ordered := []pipeline.Step{
		step("k", "KFold", pipeline.TypeSplitting),
		step("m", "PLSRegression", pipeline.TypeModel),
	}
	issues = CheckPipeline(ordered, false)
	if hasCode(issues, CodePipelineModelBeforeSplitter) {
		t.Errorf("splitter-first pipeline should be clean, got %v", codesOf(issues))
	}
}

func TestMergeWithoutBranchAtRootIsError(t *testing.T) {
	merge := step("m", "Merge", pipeline.TypeFlow)
	merge.SubType = pipeline.SubTypeMerge
	steps := []pipeline.Step{
		step("p", "Scaler", pipeline.TypePreprocessing),
		merge,
		step("mod", "PLSRegression", pipeline.TypeModel),
	}
	issues := CheckPipeline(steps, false)
	sev, ok := severityFor(issues, CodePipelineMergeWithoutBranch)
	if !ok || sev != SeverityError {
		t.Errorf("expected PIPELINE_MERGE_WITHOUT_BRANCH error, got %v", codesOf(issues))
	}
}

func TestBranchThenMergePairs(t *testing.T) {
	branch := step("b", "Branch", pipeline.TypeFlow)
	branch.SubType = pipeline.SubTypeBranch
	branch.Branches = [][]pipeline.Step{{
		step("p", "Scaler", pipeline.TypePreprocessing),
		step("m1", "PLSRegression", pipeline.TypeModel),
	}}
	merge := step("mg", "Merge", pipeline.TypeFlow)
	merge.SubType = pipeline.SubTypeMerge
	steps := []pipeline.Step{branch, merge, step("m2", "SVR", pipeline.TypeModel)}

	issues := CheckPipeline(steps, false)
	for _, issue := range issues {
		if issue.Code == CodePipelineMergeWithoutBranch && issue.Severity == SeverityError {
			t.Errorf("paired merge must not error: %s", issue.Message)
		}
	}
}

func TestUnmatchedBranchIsInfoOnly(t *testing.T) {
	branch := step("b", "Branch", pipeline.TypeFlow)
	branch.SubType = pipeline.SubTypeBranch
	branch.Branches = [][]pipeline.Step{{step("x", "X", pipeline.TypePreprocessing)}}
	steps := []pipeline.Step{branch, step("m", "PLSRegression", pipeline.TypeModel)}

	issues := CheckPipeline(steps, false)
	sev, ok := severityFor(issues, CodePipelineMergeWithoutBranch)
	if !ok {
		t.Fatalf("expected an unmatched-branch note, got %v", codesOf(issues))
	}
	if sev != SeverityInfo {
		t.Errorf("unmatched branches are legal, expected info, got %s", sev)
	}
}

func TestPreprocessingAfterModelFlagsOrder(t *testing.T) {
	steps := []pipeline.Step{
		step("k", "KFold", pipeline.TypeSplitting),
		step("m", "PLSRegression", pipeline.TypeModel),
		step("p", "Scaler", pipeline.TypePreprocessing),
	}
	issues := CheckPipeline(steps, false)
	if !hasCode(issues, CodeDepInvalidOrder) {
		t.Errorf("expected DEP_INVALID_ORDER, got %v", codesOf(issues))
	}
}

func TestMultipleRootModelsIsInfo(t *testing.T) {
	steps := []pipeline.Step{
		step("k", "KFold", pipeline.TypeSplitting),
		step("m1", "PLSRegression", pipeline.TypeModel),
		step("m2", "SVR", pipeline.TypeModel),
	}
	issues := CheckPipeline(steps, false)
	sev, ok := severityFor(issues, CodePipelineMultipleModels)
	if !ok || sev != SeverityInfo {
		t.Errorf("expected PIPELINE_MULTIPLE_MODELS info, got %v", codesOf(issues))
	}
}

func TestStrictModePromotesPipelineWarnings(t *testing.T) {
	steps := []pipeline.Step{step("a", "Scaler", pipeline.TypePreprocessing)}
	issues := CheckPipeline(steps, true)
	sev, ok := severityFor(issues, CodePipelineNoModel)
	if !ok || sev != SeverityError {
		t.Errorf("strict mode promotes PIPELINE_NO_MODEL to error, got %v", sev)
	}
}
