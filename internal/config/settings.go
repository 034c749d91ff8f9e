package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Init writes a config file with defaults only (no user input).
func Init() error {
	viper.Set("debounce_ms", 300)
	viper.Set("strict", false)
	viper.Set("output.color", true)
	viper.Set("output.format", "text")
	viper.Set("telemetry.enabled", true)
	return SaveConfig()
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	if ms := viper.GetInt("debounce_ms"); ms != 0 && (ms < 50 || ms > 1000) {
		issues = append(issues, ConfigIssue{
			Key:      "debounce_ms",
			Severity: "warning",
			Message:  fmt.Sprintf("debounce_ms is %d, outside the supported range 50-1000; the value will be clamped", ms),
			Fix:      "nirscheck config set debounce_ms 300",
		})
	}

	for _, raw := range viper.GetStringSlice("disabled_rules") {
		code := validation.Code(strings.ToUpper(strings.TrimSpace(raw)))
		rule, ok := validation.RuleFor(code)
		if !ok {
			issues = append(issues, ConfigIssue{
				Key:      "disabled_rules",
				Severity: "warning",
				Message:  fmt.Sprintf("unknown rule code %q will be ignored", raw),
				Fix:      "nirscheck rules list",
			})
			continue
		}
		if !rule.CanDisable {
			issues = append(issues, ConfigIssue{
				Key:      "disabled_rules",
				Severity: "warning",
				Message:  fmt.Sprintf("rule %s cannot be disabled and will stay active", code),
			})
		}
	}

	for key, value := range viper.GetStringMapString("severity_overrides") {
		code := validation.Code(strings.ToUpper(strings.TrimSpace(key)))
		if _, ok := validation.RuleFor(code); !ok {
			issues = append(issues, ConfigIssue{
				Key:      "severity_overrides",
				Severity: "warning",
				Message:  fmt.Sprintf("unknown rule code %q will be ignored", key),
			})
			continue
		}
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "error", "warning", "info":
		default:
			issues = append(issues, ConfigIssue{
				Key:      "severity_overrides",
				Severity: "warning",
				Message:  fmt.Sprintf("severity %q for rule %s is not one of error, warning, info", value, code),
			})
		}
	}

	for _, path := range viper.GetStringSlice("schema_paths") {
		if _, err := os.Stat(path); err != nil {
			issues = append(issues, ConfigIssue{
				Key:      "schema_paths",
				Severity: "warning",
				Message:  fmt.Sprintf("schema path %q is not readable", path),
			})
		}
	}

	switch viper.GetString("output.format") {
	case "", "text", "json":
	default:
		issues = append(issues, ConfigIssue{
			Key:      "output.format",
			Severity: "error",
			Message:  fmt.Sprintf("output format %q is not supported (use text or json)", viper.GetString("output.format")),
			Fix:      "nirscheck config set output.format text",
		})
	}

	if len(issues) == 0 {
		issues = append(issues, ConfigIssue{
			Key:      "config",
			Severity: "info",
			Message:  "configuration looks good",
		})
	}

	return issues
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig resets all config to defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	viper.Set("debounce_ms", 300)
	viper.Set("strict", false)
	viper.Set("output.color", true)
	viper.Set("output.format", "text")
	return nil
}

// SaveConfig writes the current config to ~/.nirscheck/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	// Set secure permissions
	os.Chmod(path, 0600)
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	sb.WriteString("Validation\n")
	sb.WriteString(fmt.Sprintf("  debounce_ms: %d\n", viper.GetInt("debounce_ms")))
	sb.WriteString(fmt.Sprintf("  strict:      %v\n", viper.GetBool("strict")))
	if rules := viper.GetStringSlice("disabled_rules"); len(rules) > 0 {
		sb.WriteString(fmt.Sprintf("  disabled:    %s\n", strings.Join(rules, ", ")))
	}
	if overrides := viper.GetStringMapString("severity_overrides"); len(overrides) > 0 {
		sb.WriteString("  overrides:\n")
		for code, sev := range overrides {
			sb.WriteString(fmt.Sprintf("    %s: %s\n", strings.ToUpper(code), sev))
		}
	}
	sb.WriteString("\n")

	if paths := viper.GetStringSlice("schema_paths"); len(paths) > 0 {
		sb.WriteString("Schemas\n")
		for _, path := range paths {
			sb.WriteString(fmt.Sprintf("  %s\n", path))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Output\n")
	sb.WriteString(fmt.Sprintf("  format:      %s\n", viper.GetString("output.format")))
	sb.WriteString(fmt.Sprintf("  color:       %v\n", viper.GetBool("output.color")))
	sb.WriteString("\n")

	return sb.String()
}
