// Package doctor provides the "nirscheck doctor" command for checking setup health.
package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/config"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/telemetry"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check setup health",
		Long:  "Run diagnostic checks to verify nirscheck is properly configured.",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runChecks()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(checks)
			}

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("nirscheck Doctor")
			fmt.Println("================")
			fmt.Println()

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Printf("  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Println()
			fmt.Printf("  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func runChecks() []Check {
	var checks []Check

	// Check Go runtime
	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	// Check config directory
	home, _ := os.UserHomeDir()
	configDir := filepath.Join(home, ".nirscheck")
	if info, err := os.Stat(configDir); err == nil && info.IsDir() {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "ok",
			Message: configDir,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "warning",
			Message: fmt.Sprintf("%s not found — run 'nirscheck config init'", configDir),
		})
	}

	// Check config file
	if _, err := os.Stat(config.ConfigPath()); err == nil {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "ok",
			Message: config.ConfigPath(),
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found — run 'nirscheck config init'",
		})
	}

	// Check config contents
	issues := config.Validate()
	configErrors := 0
	for _, issue := range issues {
		if issue.Severity == "error" {
			configErrors++
		}
	}
	if configErrors > 0 {
		checks = append(checks, Check{
			Name:    "Config Values",
			Status:  "error",
			Message: fmt.Sprintf("%d invalid setting(s) — run 'nirscheck config validate'", configErrors),
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config Values",
			Status:  "ok",
			Message: "No invalid settings",
		})
	}

	// Check rule registry coverage
	rules := validation.AllRules()
	checks = append(checks, Check{
		Name:    "Rule Registry",
		Status:  "ok",
		Message: fmt.Sprintf("%d rules registered", len(rules)),
	})

	// Check schema registry
	reg := validation.NewSchemaRegistry()
	checks = append(checks, Check{
		Name:    "Parameter Schemas",
		Status:  "ok",
		Message: fmt.Sprintf("%d built-in schemas", len(reg.Names())),
	})

	// Check telemetry store size
	store := telemetry.DefaultStore()
	if size := store.Size(); size > store.MaxSize {
		checks = append(checks, Check{
			Name:    "Telemetry Store",
			Status:  "warning",
			Message: fmt.Sprintf("%d bytes, over the rotation limit", size),
		})
	} else {
		checks = append(checks, Check{
			Name:    "Telemetry Store",
			Status:  "ok",
			Message: fmt.Sprintf("%d bytes", size),
		})
	}

	return checks
}
