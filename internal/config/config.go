// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	DebounceMs        int               `mapstructure:"debounce_ms"`
	Strict            bool              `mapstructure:"strict"`
	DisabledRules     []string          `mapstructure:"disabled_rules"`
	SeverityOverrides map[string]string `mapstructure:"severity_overrides"`
	SchemaPaths       []string          `mapstructure:"schema_paths"`
	Output            struct {
		Format string `mapstructure:"format"`
		Color  bool   `mapstructure:"color"`
	} `mapstructure:"output"`
	Telemetry struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"telemetry"`
}

// Load reads the configuration from ~/.nirscheck/config.yaml and environment
// variables.
func Load() (*Config, error) {
	configDir := configDir()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	// Defaults
	viper.SetDefault("debounce_ms", 300)
	viper.SetDefault("strict", false)
	viper.SetDefault("output.color", true)
	viper.SetDefault("output.format", "text")
	viper.SetDefault("telemetry.enabled", true)

	// Environment variable overrides
	viper.SetEnvPrefix("NIRSCHECK")
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nirscheck"
	}
	return filepath.Join(home, ".nirscheck")
}
