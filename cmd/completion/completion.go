// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for nirscheck.

Install instructions:
  Bash:       nirscheck completion bash > /etc/bash_completion.d/nirscheck
              echo 'source <(nirscheck completion bash)' >> ~/.bashrc
  Zsh:        nirscheck completion zsh > ~/.zsh/completions/_nirscheck
  Fish:       nirscheck completion fish > ~/.config/fish/completions/nirscheck.fish
  PowerShell: nirscheck completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				fmt.Fprintln(os.Stdout, "# nirscheck bash completion")
				fmt.Fprintln(os.Stdout, "# Install: nirscheck completion bash > /etc/bash_completion.d/nirscheck")
				fmt.Fprintln(os.Stdout, "# Or:      echo 'source <(nirscheck completion bash)' >> ~/.bashrc")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				fmt.Fprintln(os.Stdout, "# nirscheck zsh completion")
				fmt.Fprintln(os.Stdout, "# Install: nirscheck completion zsh > ~/.zsh/completions/_nirscheck")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				fmt.Fprintln(os.Stdout, "# nirscheck fish completion")
				fmt.Fprintln(os.Stdout, "# Install: nirscheck completion fish > ~/.config/fish/completions/nirscheck.fish")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				fmt.Fprintln(os.Stdout, "# nirscheck PowerShell completion")
				fmt.Fprintln(os.Stdout, "# Install: nirscheck completion powershell >> $PROFILE")
				fmt.Fprintln(os.Stdout)
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
