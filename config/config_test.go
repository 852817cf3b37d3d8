package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.ProjectDir)
	assert.Equal(t, "/index.php", cfg.Entry)
	assert.Equal(t, 500*time.Millisecond, cfg.RunDelay)
	assert.Equal(t, time.Second, cfg.AutoRunDelay)
	assert.True(t, cfg.AutoRun)
	assert.Equal(t, ":memory:", cfg.SQLDSN)
	assert.Equal(t, "playground-mcp.log", cfg.LogFile)
}

func Test_Load_FlagsOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("PLAYGROUND_ENTRY", "/main.php")
	t.Setenv("PLAYGROUND_RUN_DELAY", "2s")
	t.Setenv("PLAYGROUND_EXCLUDE", "*.bak, tests/**")

	cfg, err := Load([]string{"--run-delay", "10ms", "--exclude", "*.tmp", "--project", ".", "run"})
	require.NoError(t, err)

	assert.Equal(t, "/main.php", cfg.Entry)
	assert.Equal(t, 10*time.Millisecond, cfg.RunDelay)
	assert.Equal(t, []string{"*.bak", "tests/**", "*.tmp"}, cfg.Excludes)
	assert.True(t, filepath.IsAbs(cfg.ProjectDir))
	assert.Equal(t, []string{"run"}, cfg.Args)
}

func Test_Load_WatchNeedsProject(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load([]string{"--watch"})

	assert.Error(t, err)
}

func Test_Load_EntryGetsLeadingSlash(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load([]string{"--entry", "public/index.php"})
	require.NoError(t, err)

	assert.Equal(t, "/public/index.php", cfg.Entry)
}
