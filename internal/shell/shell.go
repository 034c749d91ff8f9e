// Package shell provides the interactive nirscheck REPL.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/output"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/pipeline"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/report"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// Session manages an interactive nirscheck shell session.
type Session struct {
	PipelinePath   string
	Pipeline       *pipeline.Pipeline
	LastResult     *validation.Result
	LastOutput     string
	CommandHistory []string
	HistoryFile    string
	StartTime      time.Time

	Strict   bool
	Disabled map[validation.Code]bool
	Schemas  *validation.SchemaRegistry

	// KnownCommands is the list of commands for completion.
	KnownCommands []string
}

// NewSession creates a new interactive session.
func NewSession(schemas *validation.SchemaRegistry) (*Session, error) {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".nirscheck", "shell_history")

	// Ensure parent dir exists
	os.MkdirAll(filepath.Dir(histFile), 0755)

	if schemas == nil {
		schemas = validation.NewSchemaRegistry()
	}

	return &Session{
		HistoryFile: histFile,
		StartTime:   time.Now(),
		Disabled:    make(map[validation.Code]bool),
		Schemas:     schemas,
		KnownCommands: []string{
			"load", "validate", "issues", "steps", "summary",
			"rules", "disable", "enable", "strict",
			"export", "help", "history", "exit", "quit",
		},
	}, nil
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run() error {
	completer := readline.NewPrefixCompleter(s.buildCompleter()...)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nirscheck> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Println("nirscheck — Interactive Shell")
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.CommandHistory = append(s.CommandHistory, line)

		if line == "exit" || line == "quit" {
			elapsed := time.Since(s.StartTime)
			fmt.Printf("\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, formatDuration(elapsed))
			return nil
		}

		out, err := s.Eval(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			continue
		}
		if out != "" {
			fmt.Print(out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Println()
			}
		}
	}

	return nil
}

// Eval runs a single command line and returns its output.
func (s *Session) Eval(line string) (string, error) {
	args := strings.Fields(strings.TrimSpace(line))
	if len(args) == 0 {
		return "", nil
	}

	var out string
	var err error
	switch args[0] {
	case "load":
		out, err = s.load(args[1:])
	case "validate":
		out, err = s.validate()
	case "issues":
		out, err = s.issues(args[1:])
	case "steps":
		out, err = s.steps()
	case "summary":
		out, err = s.summary()
	case "rules":
		out = output.RenderRules(validation.AllRules())
	case "disable":
		out, err = s.disable(args[1:])
	case "enable":
		out, err = s.enable(args[1:])
	case "strict":
		out, err = s.strict(args[1:])
	case "export":
		out, err = s.export(args[1:])
	case "help":
		out = s.helpText()
	case "history":
		var sb strings.Builder
		for i, cmd := range s.CommandHistory {
			sb.WriteString(fmt.Sprintf("  %d  %s\n", i+1, cmd))
		}
		out = sb.String()
	default:
		return "", fmt.Errorf("unknown command %q — type 'help' for the command list", args[0])
	}

	if err == nil {
		s.LastOutput = out
	}
	return out, err
}

func (s *Session) load(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: load <pipeline.yaml|pipeline.json>")
	}
	p, err := pipeline.Load(args[0])
	if err != nil {
		return "", err
	}
	s.Pipeline = p
	s.PipelinePath = args[0]
	s.LastResult = nil
	name := p.Name
	if name == "" {
		name = filepath.Base(args[0])
	}
	return fmt.Sprintf("Loaded %s (%d steps)\n", name, pipeline.Count(p.Steps)), nil
}

func (s *Session) validate() (string, error) {
	if s.Pipeline == nil {
		return "", fmt.Errorf("no pipeline loaded — use 'load <file>' first")
	}
	s.LastResult = validation.Validate(s.Pipeline.Steps, s.options())
	return output.RenderResult(s.Pipeline.Name, s.LastResult, false), nil
}

func (s *Session) issues(args []string) (string, error) {
	result, err := s.ensureResult()
	if err != nil {
		return "", err
	}
	issues := result.Issues
	if len(args) == 1 {
		issues = validation.StepIssues(result, args[0])
	}
	if len(issues) == 0 {
		return "No issues.\n", nil
	}
	var sb strings.Builder
	for _, issue := range issues {
		sb.WriteString(fmt.Sprintf("  %-7s [%s] %s\n", issue.Severity, issue.Code, issue.Message))
	}
	return sb.String(), nil
}

func (s *Session) steps() (string, error) {
	result, err := s.ensureResult()
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(result.StepResults))
	for id := range result.StepResults {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		sr := result.StepResults[id]
		status := "ok"
		if !sr.IsValid {
			status = fmt.Sprintf("%d errors", len(sr.Errors))
		} else if len(sr.Warnings) > 0 {
			status = fmt.Sprintf("%d warnings", len(sr.Warnings))
		}
		sb.WriteString(fmt.Sprintf("  %-24s %s\n", id, status))
	}
	return sb.String(), nil
}

func (s *Session) summary() (string, error) {
	result, err := s.ensureResult()
	if err != nil {
		return "", err
	}
	verdict := "valid"
	if !result.IsValid {
		verdict = "invalid"
	}
	return fmt.Sprintf("%s: %d errors, %d warnings, %d notes (%d steps)\n",
		verdict, result.Summary.ErrorCount, result.Summary.WarningCount,
		result.Summary.InfoCount, result.Summary.TotalSteps), nil
}

func (s *Session) disable(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: disable <RULE_CODE>")
	}
	code := validation.Code(strings.ToUpper(args[0]))
	rule, ok := validation.RuleFor(code)
	if !ok {
		return "", fmt.Errorf("unknown rule code %q — type 'rules' for the catalog", args[0])
	}
	if !rule.CanDisable {
		return "", fmt.Errorf("rule %s cannot be disabled", code)
	}
	s.Disabled[code] = true
	s.LastResult = nil
	return fmt.Sprintf("Disabled %s\n", code), nil
}

func (s *Session) enable(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: enable <RULE_CODE>")
	}
	code := validation.Code(strings.ToUpper(args[0]))
	if _, ok := validation.RuleFor(code); !ok {
		return "", fmt.Errorf("unknown rule code %q — type 'rules' for the catalog", args[0])
	}
	delete(s.Disabled, code)
	s.LastResult = nil
	return fmt.Sprintf("Enabled %s\n", code), nil
}

func (s *Session) strict(args []string) (string, error) {
	switch {
	case len(args) == 0:
		s.Strict = !s.Strict
	case args[0] == "on":
		s.Strict = true
	case args[0] == "off":
		s.Strict = false
	default:
		return "", fmt.Errorf("usage: strict [on|off]")
	}
	s.LastResult = nil
	if s.Strict {
		return "Strict mode on\n", nil
	}
	return "Strict mode off\n", nil
}

func (s *Session) export(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: export <report.xlsx|report.csv>")
	}
	result, err := s.ensureResult()
	if err != nil {
		return "", err
	}
	out, err := report.Generate(result, report.GenerateOptions{
		PipelineName: s.Pipeline.Name,
		PipelinePath: s.PipelinePath,
		OutputPath:   args[0],
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Wrote %s (%d issues)\n", out.OutputPath, out.IssueRows), nil
}

// ensureResult validates on demand so 'issues' and friends work right after
// 'load' without an explicit 'validate'.
func (s *Session) ensureResult() (*validation.Result, error) {
	if s.Pipeline == nil {
		return nil, fmt.Errorf("no pipeline loaded — use 'load <file>' first")
	}
	if s.LastResult == nil {
		s.LastResult = validation.Validate(s.Pipeline.Steps, s.options())
	}
	return s.LastResult, nil
}

func (s *Session) options() validation.Options {
	opts := validation.Options{StrictMode: s.Strict, Schemas: s.Schemas}
	for code := range s.Disabled {
		opts.DisabledRules = append(opts.DisabledRules, code)
	}
	return opts
}

// Complete returns tab-completion candidates for the given input.
func (s *Session) Complete(input string) []string {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.KnownCommands
	}

	parts := strings.Fields(input)
	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		prefix := parts[0]
		var matches []string
		for _, cmd := range s.KnownCommands {
			if strings.HasPrefix(cmd, prefix) {
				matches = append(matches, cmd)
			}
		}
		sort.Strings(matches)
		return matches
	}

	// Rule codes for disable/enable
	if len(parts) >= 1 && (parts[0] == "disable" || parts[0] == "enable") {
		prefix := ""
		if len(parts) == 2 && !strings.HasSuffix(input, " ") {
			prefix = strings.ToUpper(parts[1])
		}
		var matches []string
		for _, rule := range validation.AllRules() {
			if parts[0] == "disable" && !rule.CanDisable {
				continue
			}
			if strings.HasPrefix(string(rule.Code), prefix) {
				matches = append(matches, string(rule.Code))
			}
		}
		return matches
	}

	return nil
}

func (s *Session) helpText() string {
	var sb strings.Builder
	sb.WriteString("Available commands:\n\n")
	sb.WriteString("  load <file>        — load a pipeline (.yaml or .json)\n")
	sb.WriteString("  validate           — run validation on the loaded pipeline\n")
	sb.WriteString("  issues [step-id]   — list issues, optionally for one step\n")
	sb.WriteString("  steps              — per-step validity overview\n")
	sb.WriteString("  summary            — one-line verdict\n")
	sb.WriteString("  rules              — show the rule catalog\n")
	sb.WriteString("  disable <CODE>     — disable a rule for this session\n")
	sb.WriteString("  enable <CODE>      — re-enable a rule\n")
	sb.WriteString("  strict [on|off]    — toggle strict mode\n")
	sb.WriteString("  export <file.xlsx|csv> — write a report workbook or issue csv\n")
	sb.WriteString("  history            — show command history\n")
	sb.WriteString("  exit               — exit the shell\n")
	return sb.String()
}

func (s *Session) buildCompleter() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range s.KnownCommands {
		if cmd == "disable" || cmd == "enable" {
			var codes []readline.PrefixCompleterInterface
			for _, rule := range validation.AllRules() {
				codes = append(codes, readline.PcItem(string(rule.Code)))
			}
			items = append(items, readline.PcItem(cmd, codes...))
			continue
		}
		items = append(items, readline.PcItem(cmd))
	}
	return items
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
