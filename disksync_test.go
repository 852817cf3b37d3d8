package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lexandro/playground-mcp/ignore"
	"github.com/lexandro/playground-mcp/watcher"
	"github.com/lexandro/playground-mcp/workspace"
)

func newDiskFixture(t *testing.T) (string, *ignore.Matcher, *workspace.Workspace) {
	t.Helper()
	rootDir := t.TempDir()
	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: rootDir})
	return rootDir, matcher, workspace.New(nil)
}

func writeDiskFile(t *testing.T, rootDir, rel, content string) string {
	t.Helper()
	abs := filepath.Join(rootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return abs
}

func Test_applyDiskEvents_CreatesWithParents(t *testing.T) {
	rootDir, matcher, ws := newDiskFixture(t)
	abs := writeDiskFile(t, rootDir, "pages/about/index.php", "<?php echo 'about'; ?>")

	result := applyDiskEvents([]watcher.DebouncedEvent{{Path: abs, Op: watcher.OpCreate}}, ws, ws.Epoch(), matcher, testLogger())

	if result.Written != 1 {
		t.Fatalf("expected 1 written file, got %+v", result)
	}
	if got := ws.Content("/pages/about/index.php"); got != "<?php echo 'about'; ?>" {
		t.Errorf("unexpected content %q", got)
	}
	if node := ws.Tree().Find("/pages"); node == nil || !node.IsFolder() {
		t.Error("expected /pages to be created as a folder")
	}
}

func Test_applyDiskEvents_UnchangedContentIsNoOp(t *testing.T) {
	rootDir, matcher, ws := newDiskFixture(t)
	abs := writeDiskFile(t, rootDir, "index.php", ws.Content("/index.php"))
	version := ws.Version()

	result := applyDiskEvents([]watcher.DebouncedEvent{{Path: abs, Op: watcher.OpWrite}}, ws, ws.Epoch(), matcher, testLogger())

	if result.Written != 0 {
		t.Errorf("expected nothing written, got %+v", result)
	}
	if ws.Version() != version {
		t.Error("expected workspace version to stay the same")
	}
}

func Test_applyDiskEvents_Remove(t *testing.T) {
	rootDir, matcher, ws := newDiskFixture(t)

	batch := []watcher.DebouncedEvent{{Path: filepath.Join(rootDir, "config"), Op: watcher.OpRemove}}
	result := applyDiskEvents(batch, ws, ws.Epoch(), matcher, testLogger())

	if result.Removed != 1 {
		t.Fatalf("expected 1 removal, got %+v", result)
	}
	if ws.Tree().Find("/config/database.php") != nil {
		t.Error("expected the folder contents to be removed")
	}
}

func Test_applyDiskEvents_SkipsIgnoredAndBinary(t *testing.T) {
	rootDir, matcher, ws := newDiskFixture(t)
	logFile := writeDiskFile(t, rootDir, "debug.log", "noise")
	binary := writeDiskFile(t, rootDir, "blob.dat", "a\x00b")
	outside := filepath.Join(filepath.Dir(rootDir), "elsewhere.php")

	batch := []watcher.DebouncedEvent{
		{Path: logFile, Op: watcher.OpCreate},
		{Path: binary, Op: watcher.OpCreate},
		{Path: outside, Op: watcher.OpCreate},
	}
	result := applyDiskEvents(batch, ws, ws.Epoch(), matcher, testLogger())

	if result.Skipped != 3 || result.Written != 0 {
		t.Errorf("expected 3 skipped events, got %+v", result)
	}
}

func Test_applyDiskEvents_ReloadsIgnoreRules(t *testing.T) {
	rootDir, matcher, ws := newDiskFixture(t)
	secret := writeDiskFile(t, rootDir, "secret.php", "<?php ?>")
	ignoreFile := writeDiskFile(t, rootDir, ".playgroundignore", "secret.php\n")

	batch := []watcher.DebouncedEvent{
		{Path: ignoreFile, Op: watcher.OpCreate},
		{Path: secret, Op: watcher.OpCreate},
	}
	applyDiskEvents(batch, ws, ws.Epoch(), matcher, testLogger())

	if _, ok := ws.File("/secret.php"); ok {
		t.Error("expected secret.php to be ignored after the rules were reloaded")
	}
}

func Test_applyDiskEvents_DropsEventsAfterProjectReplaced(t *testing.T) {
	rootDir, matcher, ws := newDiskFixture(t)
	writeDiskFile(t, rootDir, "main.php", "<?php echo 'main'; ?>")
	if _, err := loadInto(ws, matcher, testLogger()); err != nil {
		t.Fatal(err)
	}
	epoch := ws.Epoch()

	ws.Reset()
	abs := writeDiskFile(t, rootDir, "lib/other.php", "<?php ?>")
	batch := []watcher.DebouncedEvent{
		{Path: abs, Op: watcher.OpCreate},
		{Path: filepath.Join(rootDir, "config"), Op: watcher.OpRemove},
	}
	result := applyDiskEvents(batch, ws, epoch, matcher, testLogger())

	if !result.Replaced || result.Written != 0 || result.Removed != 0 {
		t.Errorf("expected the batch to be dropped, got %+v", result)
	}
	if ws.Tree().Find("/lib") != nil {
		t.Error("disk change was merged into the reset project")
	}
	if ws.Tree().Find("/config/database.php") == nil {
		t.Error("disk removal was applied to the reset project")
	}
}

func Test_applyDiskEvents_AppliesWhileProjectIsCurrent(t *testing.T) {
	rootDir, matcher, ws := newDiskFixture(t)
	writeDiskFile(t, rootDir, "main.php", "<?php echo 'main'; ?>")
	if _, err := loadInto(ws, matcher, testLogger()); err != nil {
		t.Fatal(err)
	}
	epoch := ws.Epoch()

	if _, err := ws.Put("/notes.php", "edited in the playground"); err != nil {
		t.Fatal(err)
	}
	abs := writeDiskFile(t, rootDir, "lib/other.php", "<?php ?>")
	result := applyDiskEvents([]watcher.DebouncedEvent{{Path: abs, Op: watcher.OpCreate}}, ws, epoch, matcher, testLogger())

	if result.Replaced || result.Written != 1 {
		t.Errorf("expected the change to apply, got %+v", result)
	}
	if _, ok := ws.File("/lib/other.php"); !ok {
		t.Error("expected /lib/other.php in the project")
	}
}
