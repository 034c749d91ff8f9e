package output

import (
	"strings"
	"testing"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

func TestRenderResultClean(t *testing.T) {
	result := validation.EmptyResult()
	out := RenderResult("demo", result, false)
	if !strings.Contains(out, "Pipeline: demo") {
		t.Errorf("expected pipeline name in output, got %q", out)
	}
	if !strings.Contains(out, "no issues found") {
		t.Errorf("expected clean verdict, got %q", out)
	}
}

func TestRenderResultIssues(t *testing.T) {
	steps := []pipeline.Step{
		{ID: "m", Name: "PLSRegression", Type: pipeline.TypeModel, Params: map[string]any{"n_components": 0}},
	}
	result := validation.Validate(steps, validation.Options{})
	out := RenderResult("", result, false)

	if !strings.Contains(out, "PARAM_OUT_OF_RANGE") {
		t.Errorf("expected code in output, got %q", out)
	}
	if !strings.Contains(out, "invalid") {
		t.Errorf("expected invalid verdict, got %q", out)
	}
	if !strings.Contains(out, "param n_components") {
		t.Errorf("expected parameter location, got %q", out)
	}
}

func TestRenderRules(t *testing.T) {
	out := RenderRules(validation.AllRules())
	for _, want := range []string{"PARAMETER", "PIPELINE", "STEP_DUPLICATE_ID", "* always active"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in rule listing", want)
		}
	}
	if !strings.Contains(out, "*STEP_DUPLICATE_ID") {
		t.Error("expected the duplicate-id rule marked as always active")
	}
}
