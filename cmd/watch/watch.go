// Package watch provides the "nirscheck watch" command for continuous
// validation of pipeline files.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GBeurier/nirs4all-webapp-sub006/internal/config"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/output"
	w "github.com/GBeurier/nirs4all-webapp-sub006/internal/watch"
	"github.com/GBeurier/nirs4all-webapp-sub006/internal/validation"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		recursive bool
		strict    bool
		debounce  int
	)

	cmd := &cobra.Command{
		Use:   "watch <path> [path...]",
		Short: "Watch pipeline files and revalidate on change",
		Long: `Watch pipeline files or directories and rerun validation whenever a
.yaml, .yml, or .json file changes. Rapid edits are debounced; only the
latest state of the file is validated.

Example:
  nirscheck watch pipeline.yaml
  nirscheck watch ./pipelines -r --debounce 150
  nirscheck watch --strict experiments/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.InstallOverrides()

			delay := cfg.Debounce()
			if debounce > 0 {
				delay = time.Duration(debounce) * time.Millisecond
			}

			watcher, err := w.New(w.Config{
				Paths:     args,
				Recursive: recursive,
				Debounce:  delay,
				Strict:    strict || cfg.Strict,
			}, cfg.LoadSchemas())
			if err != nil {
				return err
			}

			colored := cfg.Output.Color && !jsonOut
			watcher.Handler = func(path string, result *validation.Result) {
				if jsonOut {
					output.PrintJSON("watch", map[string]interface{}{
						"path":   path,
						"result": result,
					})
					return
				}
				fmt.Print(output.RenderResult(path, result, colored))
				fmt.Println()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat pipeline-level warnings as errors")
	cmd.Flags().IntVar(&debounce, "debounce", 0, "Debounce delay in milliseconds (50-1000)")

	return cmd
}
