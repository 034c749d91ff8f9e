package config

import (
	"strings"
	"time"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// Options translates the configuration into engine options. Unknown rule
// codes and rules that cannot be disabled are dropped; Validate reports
// them, this translation just refuses to weaken the guarantees.
func (c *Config) Options() validation.Options {
	opts := validation.Options{StrictMode: c.Strict}
	for _, raw := range c.DisabledRules {
		code := validation.Code(strings.ToUpper(strings.TrimSpace(raw)))
		rule, ok := validation.RuleFor(code)
		if !ok || !rule.CanDisable {
			continue
		}
		opts.DisabledRules = append(opts.DisabledRules, code)
	}
	return opts
}

// SeverityMap translates the severity_overrides section into the engine's
// override map. Unknown codes and unknown severities are dropped.
func (c *Config) SeverityMap() map[validation.Code]validation.Severity {
	if len(c.SeverityOverrides) == 0 {
		return nil
	}
	overrides := make(map[validation.Code]validation.Severity, len(c.SeverityOverrides))
	for key, value := range c.SeverityOverrides {
		code := validation.Code(strings.ToUpper(strings.TrimSpace(key)))
		if _, ok := validation.RuleFor(code); !ok {
			continue
		}
		switch validation.Severity(strings.ToLower(strings.TrimSpace(value))) {
		case validation.SeverityError, validation.SeverityWarning, validation.SeverityInfo:
			overrides[code] = validation.Severity(strings.ToLower(strings.TrimSpace(value)))
		}
	}
	if len(overrides) == 0 {
		return nil
	}
	return overrides
}

// InstallOverrides pushes the severity_overrides section into the engine's
// process-wide override table.
func (c *Config) InstallOverrides() {
	for code, sev := range c.SeverityMap() {
		validation.SetDefaultSeverity(code, sev)
	}
}

// Debounce returns the configured debounce delay. Unset values fall back to
// 300ms; the live controller clamps out-of-range values.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// LoadSchemas builds a schema registry from the built-in definitions plus
// every configured schema file. Unreadable files are skipped; Validate
// reports them.
func (c *Config) LoadSchemas() *validation.SchemaRegistry {
	reg := validation.NewSchemaRegistry()
	for _, path := range c.SchemaPaths {
		_ = reg.LoadFile(path)
	}
	return reg
}
