package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/lexandro/playground-mcp/workspace"
)

func Test_TabsHandler_OpenActivateClose(t *testing.T) {
	ws := workspace.New(nil)
	h := &TabsHandler{Workspace: ws, Logger: testLogger()}
	ctx := context.Background()

	result, _, _ := h.Handle(ctx, nil, TabsArgs{Action: "open", Path: "styles.css"})
	if result.IsError {
		t.Fatalf("open failed: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, "* /styles.css") {
		t.Errorf("expected /styles.css to be active, got:\n%s", text)
	}

	result, _, _ = h.Handle(ctx, nil, TabsArgs{Action: "activate", Path: "/index.php"})
	if result.IsError {
		t.Fatalf("activate failed: %s", resultText(t, result))
	}
	if ws.Active() != "/index.php" {
		t.Errorf("expected /index.php active, got %q", ws.Active())
	}

	result, _, _ = h.Handle(ctx, nil, TabsArgs{Action: "close", Path: "/index.php"})
	if result.IsError {
		t.Fatalf("close failed: %s", resultText(t, result))
	}
	if got := ws.OpenDocuments(); len(got) != 1 || got[0] != "/styles.css" {
		t.Errorf("unexpected open documents %v", got)
	}
	if ws.Active() != "/styles.css" {
		t.Errorf("expected the remaining document to become active, got %q", ws.Active())
	}
}

func Test_TabsHandler_Errors(t *testing.T) {
	h := &TabsHandler{Workspace: workspace.New(nil), Logger: testLogger()}

	tests := []struct {
		name string
		args TabsArgs
		want string
	}{
		{"open missing", TabsArgs{Action: "open", Path: "/nope.php"}, "No such file"},
		{"open folder", TabsArgs{Action: "open", Path: "/config"}, "No such file"},
		{"activate unopened", TabsArgs{Action: "activate", Path: "/styles.css"}, "is not open"},
		{"close unopened", TabsArgs{Action: "close", Path: "/styles.css"}, "is not open"},
		{"select missing", TabsArgs{Action: "select", Path: "/nope"}, "No such file"},
		{"unknown action", TabsArgs{Action: "pin"}, "unknown action"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, _ := h.Handle(context.Background(), nil, tt.args)
			if !result.IsError {
				t.Fatalf("expected IsError=true, got: %s", resultText(t, result))
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("expected %q in %q", tt.want, text)
			}
		})
	}
}

func Test_TabsHandler_ListAndSelect(t *testing.T) {
	ws := workspace.New(nil)
	h := &TabsHandler{Workspace: ws, Logger: testLogger()}

	result, _, _ := h.Handle(context.Background(), nil, TabsArgs{Action: "select", Path: "/config"})
	if result.IsError {
		t.Fatalf("select failed: %s", resultText(t, result))
	}

	result, _, _ = h.Handle(context.Background(), nil, TabsArgs{})
	want := "Open documents (1):\n* /index.php\nSelected: /config\n"
	if text := resultText(t, result); text != want {
		t.Errorf("unexpected listing:\ngot:  %q\nwant: %q", text, want)
	}
}
