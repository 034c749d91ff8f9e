// Package tests provides smoke tests that validate every nirscheck command
// exists, runs, and exits cleanly without panicking.
// These tests compile and run the binary — they are integration tests.
package tests

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// nirscheckBin returns the path to the compiled nirscheck binary.
func nirscheckBin(t *testing.T) string {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(filename), "..")
	bin := filepath.Join(root, "bin", "nirscheck")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	if _, err := os.Stat(bin); os.IsNotExist(err) {
		t.Skipf("nirscheck binary not found at %s — run 'make build' first", bin)
	}
	return bin
}

func fixture(name string) string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "testdata", name)
}

// run executes nirscheck with args and returns stdout, stderr, and exit code.
func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(nirscheckBin(t), args...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir())
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), code
}

// TestAllCommandsExist validates that every command appears in --help.
func TestAllCommandsExist(t *testing.T) {
	commands := []string{
		"validate", "rules", "watch", "report", "shell",
		"config", "doctor", "completion", "version",
	}

	stdout, _, code := run(t, "--help")
	if code != 0 {
		t.Fatalf("--help exited with %d", code)
	}
	for _, cmd := range commands {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("command %q missing from --help output", cmd)
		}
	}
}

func TestVersion(t *testing.T) {
	stdout, _, code := run(t, "version")
	if code != 0 {
		t.Fatalf("version exited with %d", code)
	}
	if !strings.Contains(stdout, "nirscheck") {
		t.Errorf("unexpected version output: %q", stdout)
	}
}

func TestValidateValidPipeline(t *testing.T) {
	stdout, _, code := run(t, "validate", fixture("valid_pipeline.yaml"))
	if code != 0 {
		t.Fatalf("expected exit 0 for a valid pipeline, got %d (%s)", code, stdout)
	}
	if !strings.Contains(stdout, "no issues found") {
		t.Errorf("unexpected output: %q", stdout)
	}
}

func TestValidateInvalidPipelineExitCode(t *testing.T) {
	stdout, _, code := run(t, "validate", fixture("invalid_pipeline.yaml"))
	if code != 1 {
		t.Fatalf("expected exit 1 for an invalid pipeline, got %d (%s)", code, stdout)
	}
	for _, want := range []string{"PARAM_OUT_OF_RANGE", "PIPELINE_MERGE_WITHOUT_BRANCH"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %s in output: %q", want, stdout)
		}
	}
}

func TestValidateMissingFileExitCode(t *testing.T) {
	_, _, code := run(t, "validate", "does-not-exist.yaml")
	if code != 2 {
		t.Fatalf("expected exit 2 for missing input, got %d", code)
	}
}

func TestValidateJSONEnvelope(t *testing.T) {
	stdout, _, _ := run(t, "validate", "--json", fixture("branch_pipeline.json"))

	var envelope struct {
		OK      bool   `json:"ok"`
		Command string `json:"command"`
		Data    struct {
			Result struct {
				IsValid bool `json:"isValid"`
				Summary struct {
					TotalSteps int `json:"totalSteps"`
				} `json:"summary"`
			} `json:"result"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &envelope); err != nil {
		t.Fatalf("invalid JSON envelope: %v\n%s", err, stdout)
	}
	if envelope.Command != "validate" {
		t.Errorf("expected command validate, got %q", envelope.Command)
	}
	if !envelope.Data.Result.IsValid {
		t.Error("expected the branch pipeline to be valid")
	}
	if envelope.Data.Result.Summary.TotalSteps != 6 {
		t.Errorf("expected 6 steps including branch children, got %d", envelope.Data.Result.Summary.TotalSteps)
	}
}

func TestRulesCatalog(t *testing.T) {
	stdout, _, code := run(t, "rules")
	if code != 0 {
		t.Fatalf("rules exited with %d", code)
	}
	for _, want := range []string{"STEP_DUPLICATE_ID", "PARAM_REQUIRED", "COMPAT_DEPRECATED"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %s in rule catalog", want)
		}
	}
}

func TestRulesJSONCount(t *testing.T) {
	stdout, _, _ := run(t, "rules", "--json")

	var envelope struct {
		Data []struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(stdout), &envelope); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(envelope.Data) != 23 {
		t.Errorf("expected 23 rules, got %d", len(envelope.Data))
	}
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.xlsx")
	stdout, _, code := run(t, "report", fixture("valid_pipeline.yaml"), "-o", out)
	if code != 0 {
		t.Fatalf("report exited with %d (%s)", code, stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error("expected the report workbook to exist")
	}
}

func TestDoctor(t *testing.T) {
	stdout, _, code := run(t, "doctor")
	if code != 0 {
		t.Fatalf("doctor exited with %d (%s)", code, stdout)
	}
	if !strings.Contains(stdout, "Rule Registry") {
		t.Errorf("unexpected doctor output: %q", stdout)
	}
}

func TestCompletionBash(t *testing.T) {
	stdout, _, code := run(t, "completion", "bash")
	if code != 0 {
		t.Fatalf("completion exited with %d", code)
	}
	if !strings.Contains(stdout, "nirscheck") {
		t.Error("expected completion script to mention nirscheck")
	}
}
