// Package shell provides the "nirscheck shell" command.
package shell

import (
	"github.com/spf13/cobra"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/config"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/shell"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive validation shell",
		Long: `Start a REPL with tab completion and history. Load a pipeline once,
then validate, inspect issues, toggle rules, and export reports without
re-reading the file each time.

Example:
  nirscheck shell
  nirscheck> load pipeline.yaml
  nirscheck> validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.InstallOverrides()

			session, err := shell.NewSession(cfg.LoadSchemas())
			if err != nil {
				return err
			}
			session.Strict = cfg.Strict
			for _, code := range cfg.Options().DisabledRules {
				session.Disabled[code] = true
			}

			return session.Run()
		},
	}
}
