package preview

import (
	"strings"
	"testing"
)

func Test_Document_WrapsFragment(t *testing.T) {
	got := Document("<h1>Hi</h1>")

	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("expected a doctype, got %q", got[:20])
	}
	if !strings.Contains(got, "<body>\n<h1>Hi</h1>\n</body>") {
		t.Errorf("expected fragment inside body, got %q", got)
	}
}

func Test_Document_KeepsFullPages(t *testing.T) {
	pages := []string{
		"<!DOCTYPE html><html><body>x</body></html>",
		"<html><body>y</body></html>",
	}
	for _, page := range pages {
		if got := Document(page); got != page {
			t.Errorf("expected page unchanged, got %q", got)
		}
	}
}
