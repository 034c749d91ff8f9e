package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validPipelineYAML = `name: demo
steps:
  - id: scale
    name: StandardScaler
    type: preprocessing
  - id: split
    name: KFold
    type: splitting
    params:
      n_splits: 5
  - id: pls
    name: PLSRegression
    type: model
    params:
      n_components: 5
`

func newTestSession(t *testing.T) *Session {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	s, err := NewSession(nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func writePipeline(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEvalLoadAndValidate(t *testing.T) {
	s := newTestSession(t)
	path := writePipeline(t, validPipelineYAML)

	out, err := s.Eval("load " + path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !strings.Contains(out, "demo (3 steps)") {
		t.Errorf("unexpected load output: %q", out)
	}

	out, err = s.Eval("validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "no issues found") {
		t.Errorf("expected clean verdict in output: %q", out)
	}
}

func TestEvalRequiresLoadedPipeline(t *testing.T) {
	s := newTestSession(t)
	for _, cmd := range []string{"validate", "issues", "steps", "summary"} {
		if _, err := s.Eval(cmd); err == nil {
			t.Errorf("expected %q to fail without a loaded pipeline", cmd)
		}
	}
}

func TestEvalIssuesAfterLoad(t *testing.T) {
	s := newTestSession(t)
	path := writePipeline(t, `steps:
  - id: pls
    name: PLSRegression
    type: model
    params:
      n_components: 0
`)
	if _, err := s.Eval("load " + path); err != nil {
		t.Fatal(err)
	}

	// issues validates on demand, no explicit validate needed
	out, err := s.Eval("issues")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "PARAM_OUT_OF_RANGE") {
		t.Errorf("expected PARAM_OUT_OF_RANGE in %q", out)
	}

	out, err = s.Eval("issues pls")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "PARAM_OUT_OF_RANGE") {
		t.Errorf("expected step-scoped issues in %q", out)
	}
}

func TestEvalDisableEnable(t *testing.T) {
	s := newTestSession(t)

	if _, err := s.Eval("disable STEP_DUPLICATE_ID"); err == nil {
		t.Error("expected disabling a guaranteed rule to fail")
	}

	out, err := s.Eval("disable pipeline_no_splitter")
	if err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if !strings.Contains(out, "PIPELINE_NO_SPLITTER") {
		t.Errorf("expected confirmation, got %q", out)
	}
	if !s.Disabled["PIPELINE_NO_SPLITTER"] {
		t.Error("expected rule recorded as disabled")
	}

	if _, err := s.Eval("enable PIPELINE_NO_SPLITTER"); err != nil {
		t.Fatal(err)
	}
	if s.Disabled["PIPELINE_NO_SPLITTER"] {
		t.Error("expected rule re-enabled")
	}

	if _, err := s.Eval("disable NOT_A_RULE"); err == nil {
		t.Error("expected unknown rule code to fail")
	}
}

func TestEvalStrictToggle(t *testing.T) {
	s := newTestSession(t)
	path := writePipeline(t, `steps:
  - id: prep
    name: SNV
    type: preprocessing
`)
	if _, err := s.Eval("load " + path); err != nil {
		t.Fatal(err)
	}

	out, _ := s.Eval("summary")
	if !strings.HasPrefix(out, "valid") {
		t.Fatalf("expected valid outside strict mode, got %q", out)
	}

	if _, err := s.Eval("strict on"); err != nil {
		t.Fatal(err)
	}
	out, _ = s.Eval("summary")
	if !strings.HasPrefix(out, "invalid") {
		t.Errorf("expected strict promotion to invalid, got %q", out)
	}
}

func TestEvalExport(t *testing.T) {
	s := newTestSession(t)
	path := writePipeline(t, validPipelineYAML)
	if _, err := s.Eval("load " + path); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := s.Eval("export " + dest)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "Wrote") {
		t.Errorf("unexpected export output: %q", out)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Error("expected the report file to exist")
	}
}

func TestEvalExportCSV(t *testing.T) {
	s := newTestSession(t)
	path := writePipeline(t, validPipelineYAML)
	if _, err := s.Eval("load " + path); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "issues.csv")
	if _, err := s.Eval("export " + dest); err != nil {
		t.Fatalf("csv export failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("expected the csv file to exist: %v", err)
	}
	if !strings.HasPrefix(string(data), "Severity,Code,") {
		t.Errorf("expected issue header row, got %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestEvalUnknownCommand(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.Eval("frobnicate"); err == nil {
		t.Error("expected unknown command to fail")
	}
}

func TestEvalRules(t *testing.T) {
	s := newTestSession(t)
	out, err := s.Eval("rules")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "STEP_DUPLICATE_ID") {
		t.Errorf("expected rule catalog, got %q", out)
	}
}

func TestComplete(t *testing.T) {
	s := newTestSession(t)

	all := s.Complete("")
	if len(all) != len(s.KnownCommands) {
		t.Errorf("expected all commands, got %d", len(all))
	}

	matches := s.Complete("va")
	if len(matches) != 1 || matches[0] != "validate" {
		t.Errorf("expected [validate], got %v", matches)
	}

	codes := s.Complete("disable PIPELINE_NO")
	for _, code := range codes {
		if !strings.HasPrefix(code, "PIPELINE_NO") {
			t.Errorf("unexpected completion %q", code)
		}
	}
	if len(codes) == 0 {
		t.Error("expected rule code completions")
	}
}

func TestEvalHistory(t *testing.T) {
	s := newTestSession(t)
	s.CommandHistory = []string{"rules", "help"}
	out, err := s.Eval("history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1  rules") || !strings.Contains(out, "2  help") {
		t.Errorf("unexpected history output: %q", out)
	}
}
