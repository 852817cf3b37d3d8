package tools

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/playground-mcp/loader"
	"github.com/lexandro/playground-mcp/workspace"
)

func Test_ProjectHandler_Reset(t *testing.T) {
	ws := workspace.New(nil)
	ws.Delete("/index.php")
	h := &ProjectHandler{Workspace: ws, Logger: testLogger()}

	result, _, _ := h.Handle(context.Background(), nil, ProjectArgs{Action: "reset"})
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}
	if _, ok := ws.File("/index.php"); !ok {
		t.Error("expected the sample project to be restored")
	}
	if ws.Active() != "/index.php" {
		t.Errorf("expected /index.php active, got %q", ws.Active())
	}
}

func Test_ProjectHandler_Load(t *testing.T) {
	var loaded string
	h := &ProjectHandler{
		Workspace: workspace.New(nil),
		Logger:    testLogger(),
		Load: func(dir string) (loader.Stats, error) {
			loaded = dir
			return loader.Stats{Files: 4, Folders: 2, Bytes: 2048, Skipped: 1, Duration: 15 * time.Millisecond}, nil
		},
	}

	result, _, _ := h.Handle(context.Background(), nil, ProjectArgs{Action: "load", Directory: "/srv/site"})
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}
	if loaded != "/srv/site" {
		t.Errorf("expected /srv/site to be loaded, got %q", loaded)
	}
	want := "Loaded /srv/site: 4 files in 2 folders (2.0 KB) in 15ms, 1 files skipped"
	if text := resultText(t, result); text != want {
		t.Errorf("unexpected result:\ngot:  %q\nwant: %q", text, want)
	}
}

func Test_ProjectHandler_LoadSnapshot(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "project.json")
	source := workspace.New(nil)
	if _, err := source.Put("/lib/util.php", "<?php ?>"); err != nil {
		t.Fatal(err)
	}
	export := &ExportHandler{Workspace: source, Logger: testLogger()}
	result, _, _ := export.Handle(context.Background(), nil, ExportArgs{OutputPath: snapshot, Format: "json"})
	if result.IsError {
		t.Fatalf("export failed: %s", resultText(t, result))
	}

	ws := workspace.New(nil)
	ws.Delete("/config")
	h := &ProjectHandler{Workspace: ws, Logger: testLogger()}
	result, _, _ = h.Handle(context.Background(), nil, ProjectArgs{Action: "load", File: snapshot})
	if result.IsError {
		t.Fatalf("expected success, got: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.HasPrefix(text, "Loaded "+snapshot+": 4 files in 2 folders") {
		t.Errorf("unexpected result: %s", text)
	}
	if ws.Content("/lib/util.php") != "<?php ?>" {
		t.Error("expected /lib/util.php from the snapshot")
	}
	if ws.Tree().Find("/config/database.php") == nil {
		t.Error("expected the snapshot to replace the project")
	}
	if len(ws.OpenDocuments()) != 0 {
		t.Errorf("expected nothing open after a load, got %v", ws.OpenDocuments())
	}
}

func Test_ProjectHandler_Errors(t *testing.T) {
	h := &ProjectHandler{
		Workspace: workspace.New(nil),
		Logger:    testLogger(),
		Load: func(dir string) (loader.Stats, error) {
			return loader.Stats{}, errors.New("no such directory")
		},
	}

	tests := []struct {
		name string
		args ProjectArgs
		want string
	}{
		{"unknown action", ProjectArgs{Action: "delete"}, "action must be"},
		{"missing directory", ProjectArgs{Action: "load"}, "directory or file parameter is required"},
		{"missing snapshot", ProjectArgs{Action: "load", File: "/nope/project.json"}, "Load failed"},
		{"load failure", ProjectArgs{Action: "load", Directory: "/nope"}, "Load failed: no such directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, _ := h.Handle(context.Background(), nil, tt.args)
			if !result.IsError {
				t.Fatal("expected IsError=true")
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("expected %q in %q", tt.want, text)
			}
		})
	}
}
