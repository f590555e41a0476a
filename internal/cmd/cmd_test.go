package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/gridscroll/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args in a fresh config environment.
func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("GRIDSCROLL_GLOBAL_CONFIG", t.TempDir())
	t.Setenv("GRIDSCROLL_GLOBAL_DATA", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.ExecuteContext(t.Context()))
	return out.String()
}

func TestParseValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2.0, parseValue("2"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "1fr 1fr", parseValue("1fr 1fr"))
	assert.Equal(t, []any{1.0, 2.0}, parseValue("[1, 2]"))
}

func TestDirs(t *testing.T) {
	out := run(t, "dirs", "--config=false", "--data")
	assert.Equal(t, os.Getenv("GRIDSCROLL_GLOBAL_DATA")+"\n", out)
}

func TestSimulate(t *testing.T) {
	wd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wd, "gridscroll.json"), []byte(`{
		"grid": {"columns_template": "1fr 1fr"},
		"demo": {"items": 20, "heights": [2]}
	}`), 0o644))
	script := filepath.Join(wd, "session.yaml")
	require.NoError(t, os.WriteFile(script, []byte("viewport: {width: 20, height: 4}\nsteps:\n  - {}\n  - edge: end\n"), 0o644))

	out := run(t, "simulate", "--cwd", wd, "--script", script, "--format", "json")

	var frames []sim.Frame
	require.NoError(t, json.Unmarshal([]byte(out), &frames))
	require.Len(t, frames, 2)
	assert.Equal(t, "init", frames[0].Reason)
	assert.Equal(t, 19, frames[1].End)
	assert.True(t, frames[1].ReachEnd)
}

func TestConfigSet(t *testing.T) {
	wd := t.TempDir()

	out := run(t, "config", "set", "--cwd", wd, "grid.columns_template", "1fr 1fr 1fr")
	assert.Contains(t, out, "Updated grid.columns_template")

	data, err := os.ReadFile(filepath.Join(os.Getenv("GRIDSCROLL_GLOBAL_DATA"), "gridscroll.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"grid": {"columns_template": "1fr 1fr 1fr"}}`, string(data))
}

func TestConfigInit(t *testing.T) {
	wd := t.TempDir()

	out := run(t, "config", "init", "--cwd", wd)
	assert.Contains(t, out, filepath.Join(wd, "gridscroll.json"))
	assert.FileExists(t, filepath.Join(wd, "gridscroll.json"))
}
