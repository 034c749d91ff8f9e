package pipeline

import (
	"testing"
)

func TestParseFullDocument(t *testing.T) {
	doc := []byte(`
name: calibration
version: "1.2"
steps:
  - id: scale
    name: StandardScaler
    type: preprocessing
  - id: pls
    name: PLSRegression
    type: model
    params:
      n_components: 10
`)
	p, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.Name != "calibration" {
		t.Errorf("expected name 'calibration', got %q", p.Name)
	}
	if len(p.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(p.Steps))
	}
	if p.Steps[1].Params["n_components"] != 10 {
		t.Errorf("expected n_components=10, got %v", p.Steps[1].Params["n_components"])
	}
}

func TestParseBareStepList(t *testing.T) {
	doc := []byte(`
- id: scale
  name: StandardScaler
  type: preprocessing
- id: kfold
  name: KFold
  type: splitting
`)
	p, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(p.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(p.Steps))
	}
}

func TestParseNullParams(t *testing.T) {
	doc := []byte(`
- id: scale
  name: StandardScaler
  type: preprocessing
  params: null
- id: odd
  name: Odd
  type: utility
  params: "not a mapping"
`)
	p, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.Steps[0].Params != nil {
		t.Errorf("null params should decode to nil, got %v", p.Steps[0].Params)
	}
	if p.Steps[1].Params != nil {
		t.Errorf("non-mapping params should decode to nil, got %v", p.Steps[1].Params)
	}
}

func TestParseJSONDocument(t *testing.T) {
	doc := []byte(`{"name":"p","steps":[{"id":"a","name":"A","type":"model","params":{"n_components":5}}]}`)
	p, err := ParseJSON(doc)
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if len(p.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(p.Steps))
	}
	if p.Steps[0].Type != TypeModel {
		t.Errorf("expected model type, got %q", p.Steps[0].Type)
	}
}

func TestIsEnabledDefaultsTrue(t *testing.T) {
	s := Step{ID: "a", Name: "A"}
	if !s.IsEnabled() {
		t.Error("step without enabled field should be enabled")
	}

	off := false
	s.Enabled = &off
	if s.IsEnabled() {
		t.Error("step with enabled=false should be disabled")
	}
}

func TestSubTypeRoles(t *testing.T) {
	if !SubTypeSequential.IsChildContainer() {
		t.Error("sequential should be a child container")
	}
	if SubTypeBranch.IsChildContainer() {
		t.Error("branch is not a child container")
	}
	if !SubTypeBranch.IsBranching() || !SubTypeGenerator.IsBranching() {
		t.Error("branch and generator should be branching")
	}
	if SubTypeMerge.IsBranching() {
		t.Error("merge is not branching")
	}
}

func TestCountIncludesNestedSteps(t *testing.T) {
	steps := []Step{
		{ID: "a", Children: []Step{{ID: "b"}, {ID: "c"}}},
		{ID: "d", Branches: [][]Step{{{ID: "e"}}, {{ID: "f"}, {ID: "g"}}}},
	}
	if n := Count(steps); n != 7 {
		t.Errorf("expected 7 steps, got %d", n)
	}
}

func TestFindSearchesBranches(t *testing.T) {
	steps := []Step{
		{ID: "a", Branches: [][]Step{{{ID: "deep", Name: "Deep"}}}},
	}
	found := Find(steps, "deep")
	if found == nil {
		t.Fatal("expected to find nested step")
	}
	if found.Name != "Deep" {
		t.Errorf("expected name 'Deep', got %q", found.Name)
	}
	if Find(steps, "missing") != nil {
		t.Error("expected nil for missing id")
	}
}

func TestUnknownStepType(t *testing.T) {
	if StepType("preprocessing").Known() != true {
		t.Error("preprocessing should be known")
	}
	if StepType("quantum").Known() {
		t.Error("quantum should not be known")
	}
}
