package output

import (
	"os"
	"os/exec"
	"strings"
)

// ShouldPage returns true if output should be piped through a pager.
// This checks if stdout is a terminal and the content exceeds terminal height.
func ShouldPage(content string, termHeight int) bool {
	if !isTerminal() {
		return false
	}
	lines := strings.Count(content, "\n")
	return lines > termHeight
}

// pagerCommand resolves the pager binary: NIRSCHECK_PAGER wins over the
// usual PAGER, falling back to "less".
func pagerCommand() string {
	if pager := os.Getenv("NIRSCHECK_PAGER"); pager != "" {
		return pager
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		return pager
	}
	return "less"
}

// Page pipes content through the user's preferred pager.
func Page(content string) error {
	cmd := exec.Command(pagerCommand())
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
