package sim

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/gridscroll/internal/config"
	"github.com/charmbracelet/gridscroll/internal/grid"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func twoColumns() grid.Options {
	return grid.Options{ColumnsTemplate: "1fr 1fr", CachedCount: 1}
}

func TestRunTextOutput(t *testing.T) {
	t.Parallel()

	script, err := LoadScript(strings.NewReader(`
viewport: {width: 20, height: 4}
steps:
  - {}
  - scroll: 2
  - scroll: -2
`))
	require.NoError(t, err)

	r := NewRunner(twoColumns(), NewTiles(config.DemoConfig{Items: 8, Heights: []int{2}}))
	frames, err := r.Run(context.Background(), script)
	require.NoError(t, err)
	require.Len(t, frames, 3)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, frames, "text"))
	golden.RequireEqual(t, buf.Bytes())
}

func TestRunFormats(t *testing.T) {
	t.Parallel()

	r := NewRunner(twoColumns(), NewTiles(config.DemoConfig{Items: 30, Heights: []int{2}}))
	frames, err := r.Run(context.Background(), DefaultScript(20, 4))
	require.NoError(t, err)
	require.Len(t, frames, 5)

	last := frames[len(frames)-1]
	assert.Equal(t, "edge start", last.Action)
	assert.Equal(t, 0, last.Start)
	assert.True(t, last.ReachStart)
	assert.True(t, frames[3].ReachEnd)
	assert.Equal(t, 29, frames[3].End)

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, frames, "json"))
		var got []Frame
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, frames, got)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, frames, "yaml"))
		var got []Frame
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, frames, got)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		require.Error(t, Write(&bytes.Buffer{}, frames, "xml"))
	})
}

func TestRunSmoothJump(t *testing.T) {
	t.Parallel()

	script, err := LoadScript(strings.NewReader(`{"viewport": {"width": 20, "height": 4}, "steps": [{}, {"jump": {"index": 10, "smooth": true}}]}`))
	require.NoError(t, err)

	r := NewRunner(twoColumns(), NewTiles(config.DemoConfig{Items: 30, Heights: []int{2}}))
	frames, err := r.Run(context.Background(), script)
	require.NoError(t, err)
	require.Len(t, frames, 2+animationSteps)

	assert.Equal(t, "jump 10 smooth", frames[1].Action)
	assert.Equal(t, 0, frames[1].Start)
	for _, f := range frames[2:] {
		assert.Equal(t, "animate", f.Action)
	}
	assert.Equal(t, 10, frames[len(frames)-1].Start)
	assert.Equal(t, 0.0, frames[len(frames)-1].Offset)
}

func TestRunDataSteps(t *testing.T) {
	t.Parallel()

	count, idx := 3, 1
	r := NewRunner(twoColumns(), NewTiles(config.DemoConfig{Items: 30, Heights: []int{2}}))
	frames, err := r.Run(context.Background(), Script{
		Viewport: Viewport{Width: 20, Height: 4},
		Steps: []Step{
			{},
			{Count: &count},
			{Invalidate: &idx},
			{Resize: &Viewport{Width: 30, Height: 4}},
			{Idle: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, frames, 5)

	assert.Equal(t, 2, frames[1].End)
	assert.Equal(t, "data_reload", frames[1].Reason)
	assert.Len(t, frames[1].Items, 3)
	assert.Equal(t, 15.0, frames[3].Items[1].X)
	assert.Empty(t, frames[4].Preload)
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(twoColumns(), NewTiles(config.DemoConfig{Items: 4, Heights: []int{1}}))
	_, err := r.Run(ctx, DefaultScript(10, 10))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadScriptErrors(t *testing.T) {
	t.Parallel()

	for name, src := range map[string]string{
		"no viewport":   `steps: []`,
		"two actions":   "viewport: {width: 1, height: 1}\nsteps:\n  - {scroll: 1, idle: true}",
		"bad edge":      "viewport: {width: 1, height: 1}\nsteps:\n  - {edge: middle}",
		"bad align":     "viewport: {width: 1, height: 1}\nsteps:\n  - {jump: {index: 1, align: top}}",
		"unknown field": "viewport: {width: 1, height: 1}\nsteps:\n  - {teleport: 1}",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadScript(strings.NewReader(src))
			require.Error(t, err)
		})
	}
}

func TestTiles(t *testing.T) {
	t.Parallel()

	tiles := NewTiles(config.DemoConfig{
		Items:    5,
		Heights:  []int{2, 3},
		BigItems: map[int]grid.ItemProps{1: {RowStart: 0, RowEnd: 1, ColumnStart: 0, ColumnEnd: 1}},
	})
	a := tiles.Build(3).(*Tile)
	b := tiles.Build(3).(*Tile)
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, 3.0, a.Main)
	assert.Equal(t, "#3", a.Label())
	assert.Equal(t, "#1 0:1/0:1", tiles.Build(1).(*Tile).Label())
	assert.Nil(t, tiles.Build(5))
	assert.Equal(t, 3, tiles.Builds())

	size := a.Measure(grid.Constraint{CrossSize: 7, Axis: grid.Horizontal})
	assert.Equal(t, grid.Size{Width: 3, Height: 7}, size)
}
