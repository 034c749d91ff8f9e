package output

import "testing"

func TestPagerCommandPrecedence(t *testing.T) {
	t.Setenv("NIRSCHECK_PAGER", "")
	t.Setenv("PAGER", "")
	if got := pagerCommand(); got != "less" {
		t.Errorf("expected less as the default pager, got %q", got)
	}

	t.Setenv("PAGER", "more")
	if got := pagerCommand(); got != "more" {
		t.Errorf("expected PAGER to win over the default, got %q", got)
	}

	t.Setenv("NIRSCHECK_PAGER", "bat")
	if got := pagerCommand(); got != "bat" {
		t.Errorf("expected NIRSCHECK_PAGER to win over PAGER, got %q", got)
	}
}

func TestShouldPageShortContent(t *testing.T) {
	if ShouldPage("one\ntwo\n", 40) {
		t.Error("short content should never page")
	}
}
