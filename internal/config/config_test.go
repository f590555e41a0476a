package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/gridscroll/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolate(t *testing.T) (global, data string) {
	t.Helper()
	global, data = t.TempDir(), t.TempDir()
	t.Setenv("GRIDSCROLL_GLOBAL_CONFIG", global)
	t.Setenv("GRIDSCROLL_GLOBAL_DATA", data)
	return global, data
}

func TestLoadMergesFiles(t *testing.T) {
	global, _ := isolate(t)
	wd := t.TempDir()

	writeFile(t, filepath.Join(global, "gridscroll.json"), `{
		"grid": {"columns_template": "1fr 1fr", "rows_gap": 1},
		"demo": {"items": 40}
	}`)
	writeFile(t, filepath.Join(wd, "gridscroll.json"), `{"grid": {"columns_template": "1fr 1fr 1fr"}}`)
	writeFile(t, filepath.Join(wd, ".gridscroll.json"), `{"grid": {"edge_effect": "spring"}}`)

	cfg, err := Load(wd, false)
	require.NoError(t, err)
	require.Len(t, cfg.Files(), 3)

	assert.Equal(t, "1fr 1fr 1fr", cfg.Grid.ColumnsTemplate)
	assert.InDelta(t, 1, cfg.Grid.RowsGap, 0)
	assert.Equal(t, "spring", cfg.Grid.EdgeEffect)
	assert.Equal(t, 40, cfg.Demo.Items)
	assert.Equal(t, defaultHeights, cfg.Demo.Heights)
	assert.Equal(t, filepath.Join(wd, defaultDataDirectory), cfg.Options.DataDirectory)
	assert.Equal(t, wd, cfg.WorkingDir())
	assert.False(t, cfg.Options.Debug)
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(t.TempDir(), true)
	require.NoError(t, err)
	assert.Empty(t, cfg.Files())
	assert.True(t, cfg.Options.Debug)
	assert.Equal(t, defaultLogLevel, cfg.Options.LogLevel)
	assert.Equal(t, "repeat(auto-fill, 16)", cfg.Grid.ColumnsTemplate)
	assert.Equal(t, defaultItems, cfg.Demo.Items)

	o, err := cfg.GridOptions()
	require.NoError(t, err)
	assert.Equal(t, defaultCachedCount, o.CachedCount)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	isolate(t)

	wd := t.TempDir()
	writeFile(t, filepath.Join(wd, "gridscroll.json"), `{"grid": {"direction": "up"}}`)
	_, err := Load(wd, false)
	require.ErrorContains(t, err, "invalid direction")

	wd = t.TempDir()
	writeFile(t, filepath.Join(wd, "gridscroll.json"), `{"grid": `)
	_, err = Load(wd, false)
	require.Error(t, err)
}

func TestGridOptions(t *testing.T) {
	t.Parallel()

	cached := -1
	cfg := &Config{Grid: GridConfig{
		ColumnsTemplate:  "1fr 1fr",
		CachedCount:      &cached,
		PageCount:        1.5,
		EdgeEffect:       "Spring",
		Direction:        "rtl",
		AlignItems:       "stretch",
		Padding:          Padding{Top: 1, Left: 2},
		IrregularIndexes: []int{0, 9},
		IrregularSpan:    grid.Span{Rows: 1, Columns: 2},
	}}

	o, err := cfg.GridOptions()
	require.NoError(t, err)
	assert.Equal(t, -1, o.CachedCount)
	assert.Equal(t, grid.EdgeSpring, o.EdgeEffect)
	assert.Equal(t, grid.RTL, o.Direction)
	assert.Equal(t, grid.AlignItemsStretch, o.AlignItems)
	assert.Equal(t, grid.Padding{Top: 1, Left: 2}, o.Padding)
	require.NotNil(t, o.LayoutOptions)
	assert.Equal(t, []int{0, 9}, o.LayoutOptions.IrregularIndexes)
	require.NotNil(t, o.LayoutOptions.SizeByIndex)
	assert.Equal(t, grid.Span{Rows: 1, Columns: 2}, o.LayoutOptions.SizeByIndex(9))

	for _, bad := range []GridConfig{
		{EdgeEffect: "bounce"},
		{Direction: "ttb"},
		{AlignItems: "center"},
	} {
		_, err := (&Config{Grid: bad}).GridOptions()
		assert.Error(t, err)
	}
}

func TestSetConfigField(t *testing.T) {
	_, data := isolate(t)

	cfg, err := Load(t.TempDir(), false)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(data, "gridscroll.json"), cfg.DataConfigPath())

	require.NoError(t, cfg.SetConfigField("grid.columns_template", "1fr 1fr"))
	require.NoError(t, cfg.SetConfigField("demo.items", 12))

	raw, err := os.ReadFile(cfg.DataConfigPath())
	require.NoError(t, err)
	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "1fr 1fr", got["grid"]["columns_template"])
	assert.EqualValues(t, 12, got["demo"]["items"])

	cfg, err = Load(t.TempDir(), false)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Demo.Items)
}

func TestInitProject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	needs, err := ProjectNeedsInitialization(dir)
	require.NoError(t, err)
	require.True(t, needs)

	cfg := &Config{Grid: GridConfig{ColumnsTemplate: "1fr 1fr"}, Demo: DemoConfig{Items: 3}}
	path, err := InitProject(dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, ProjectConfigPath(dir), path)

	loaded, err := loadFromConfigPaths([]string{path})
	require.NoError(t, err)
	assert.Equal(t, cfg.Grid, loaded.Grid)
	assert.Equal(t, 3, loaded.Demo.Items)

	_, err = InitProject(dir, cfg)
	require.ErrorContains(t, err, "already")
	_, err = InitProject(dir, nil)
	require.Error(t, err)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	bts, err := Schema()
	require.NoError(t, err)
	assert.True(t, json.Valid(bts))
	assert.True(t, strings.Contains(string(bts), "columns_template"))
	assert.True(t, strings.Contains(string(bts), "spring"))
}
