package gridview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/gridscroll/internal/config"
	"github.com/charmbracelet/gridscroll/internal/grid"
	"github.com/charmbracelet/gridscroll/internal/sim"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(items int) *config.Config {
	return &config.Config{
		Grid: config.GridConfig{ColumnsTemplate: "1fr 1fr"},
		Demo: config.DemoConfig{Items: items, Heights: []int{4}},
	}
}

// newTestModel returns a model laid out on a 40x9 terminal: two columns of
// tiles 4 cells high and a status line.
func newTestModel(t *testing.T, items int) *Model {
	t.Helper()
	m, err := New(testConfig(items))
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 9})
	return m
}

func press(m *Model, code rune, text string) tea.Cmd {
	_, cmd := m.Update(tea.KeyPressMsg{Code: code, Text: text})
	return cmd
}

func TestNewRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig(10)
	cfg.Grid.EdgeEffect = "bounce"
	_, err := New(cfg)
	require.Error(t, err)
}

func TestScrolling(t *testing.T) {
	t.Parallel()

	t.Run("initial layout", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, 40)
		info := m.Grid().Info()
		assert.Equal(t, 0, info.StartIndex)
		assert.Equal(t, 3, info.EndIndex)
	})

	t.Run("page down", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, 40)
		press(m, 'f', "f")
		info := m.Grid().Info()
		assert.Equal(t, 4, info.StartIndex)
		assert.Equal(t, 7, info.EndIndex)

		press(m, 'b', "b")
		assert.Equal(t, 0, m.Grid().Info().StartIndex)
	})

	t.Run("line by line", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, 40)
		for range 4 {
			press(m, 'j', "j")
		}
		info := m.Grid().Info()
		assert.Equal(t, 2, info.StartIndex)
		assert.Equal(t, 0.0, info.CurrentOffset)
	})

	t.Run("mouse wheel", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, 40)
		m.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
		m.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
		assert.Equal(t, 2, m.Grid().Info().StartIndex)

		m.Update(tea.MouseWheelMsg{Button: tea.MouseWheelUp})
		info := m.Grid().Info()
		assert.Equal(t, 0, info.StartIndex)
		assert.Equal(t, -2.0, info.CurrentOffset)
	})

	t.Run("cannot scroll before the start", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, 40)
		press(m, 'k', "k")
		info := m.Grid().Info()
		assert.Equal(t, 0, info.StartIndex)
		assert.Equal(t, 0.0, info.CurrentOffset)
		assert.True(t, info.ReachStart)
	})
}

func TestSmoothJumpToEnd(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 40)
	cmd := press(m, 'G', "G")
	require.NotNil(t, cmd)
	require.True(t, m.anim.running)

	for i := 0; m.anim.running && i < 1000; i++ {
		m.Update(frameMsg{})
	}
	require.False(t, m.anim.running)
	assert.Equal(t, 39, m.Grid().Info().EndIndex)

	press(m, 'g', "g")
	for i := 0; m.anim.running && i < 1000; i++ {
		m.Update(frameMsg{})
	}
	assert.Equal(t, 0, m.Grid().Info().StartIndex)
}

func TestSelection(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 40)
	assert.Equal(t, -1, m.Selected())

	press(m, 'l', "l")
	assert.Equal(t, 0, m.Selected())
	press(m, 'l', "l")
	assert.Equal(t, 1, m.Selected())
	press(m, 'h', "h")
	press(m, 'h', "h")
	assert.Equal(t, 0, m.Selected())

	m.Update(tea.MouseClickMsg{X: 32, Y: 5, Button: tea.MouseLeft})
	assert.Equal(t, 3, m.Selected())
	assert.Contains(t, ansi.Strip(m.render()), "selected 3")

	t.Run("selection leads a narrow status line", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, 40)
		m.Update(tea.MouseClickMsg{X: 32, Y: 5, Button: tea.MouseLeft})
		m.Update(tea.WindowSizeMsg{Width: 14, Height: 9})
		assert.Contains(t, ansi.Strip(m.statusLine()), "selected 3")
	})
}

func TestIdlePreload(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 40)
	m.Update(idleMsg{})
	assert.Empty(t, m.Grid().PreloadQueue())
	assert.False(t, m.idle.pending())
}

func TestConfigReload(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, 40)
	press(m, 'f', "f")

	m.Update(ConfigReloadedMsg{Err: errors.New("bad json")})
	assert.Contains(t, ansi.Strip(m.render()), "config error: bad json")
	assert.Equal(t, 40, m.Grid().Count())

	m.Update(ConfigReloadedMsg{Config: testConfig(3)})
	assert.Equal(t, 3, m.Grid().Count())
	info := m.Grid().Info()
	assert.Equal(t, 0, info.StartIndex)
	assert.Equal(t, 2, info.EndIndex)
	assert.NotContains(t, ansi.Strip(m.render()), "config error")
}

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("tiles and status", func(t *testing.T) {
		t.Parallel()
		m := newTestModel(t, 40)
		out := ansi.Strip(m.render())
		assert.Contains(t, out, "#0")
		assert.Contains(t, out, "#3")
		assert.NotContains(t, out, "#4")
		assert.Contains(t, out, "0-3 of 40")
	})

	t.Run("empty grid", func(t *testing.T) {
		t.Parallel()
		m, err := New(testConfig(0))
		require.NoError(t, err)
		m.Update(tea.WindowSizeMsg{Width: 40, Height: 14})
		out := ansi.Strip(m.render())
		assert.Contains(t, out, "█")
		assert.Contains(t, out, "no items")
	})

	t.Run("no size", func(t *testing.T) {
		t.Parallel()
		m, err := New(testConfig(5))
		require.NoError(t, err)
		assert.Empty(t, m.render())
	})
}

func TestTileRenderer(t *testing.T) {
	t.Parallel()

	r := newTileRenderer()
	tile := sim.NewTiles(config.DemoConfig{Items: 2, Heights: []int{3}}).Build(1).(*sim.Tile)

	a := r.render(tile, 10, 3, false)
	assert.Contains(t, ansi.Strip(a), "#1")
	assert.Equal(t, 1, r.cache.Len())
	assert.Equal(t, a, r.render(tile, 10, 3, false))
	assert.Equal(t, 1, r.cache.Len())

	r.render(tile, 10, 3, true)
	assert.Equal(t, 2, r.cache.Len())
	r.invalidate()
	assert.Equal(t, 0, r.cache.Len())

	assert.Len(t, blend(r.palette[0], r.palette[len(r.palette)-1], 5), 5)
}

func TestCellRect(t *testing.T) {
	t.Parallel()

	r := cellRect(grid.Rect{X: 0.4, Y: 1.6, Width: 10, Height: 2})
	assert.Equal(t, uv.Rect(0, 2, 10, 2), r)
}

func TestDrawClipped(t *testing.T) {
	t.Parallel()

	scr := uv.NewScreenBuffer(4, 2)
	drawClipped(scr, uv.Rect(0, 0, 4, 2), "ab\ncd\nef", uv.Rect(1, -1, 2, 3))
	out := ansi.Strip(scr.Render())
	assert.NotContains(t, out, "a")
	assert.Contains(t, out, "cd")
	assert.Contains(t, out, "ef")
}

func TestSpringAnimator(t *testing.T) {
	t.Parallel()

	a := newSpringAnimator()
	a.AnimateTo(0, 10)
	require.True(t, a.running)
	assert.False(t, a.SpringRunning())

	var moved float64
	for i := 0; a.running && i < 1000; i++ {
		moved += a.step()
	}
	assert.False(t, a.running)
	assert.InDelta(t, 10, moved, 1e-9)
	assert.Zero(t, a.step())

	a.pullBack(-3)
	assert.True(t, a.SpringRunning())
	a.stop()
	assert.False(t, a.SpringRunning())

	a.AnimateTo(5, 5)
	assert.False(t, a.running)
}

func TestIdleQueue(t *testing.T) {
	t.Parallel()

	q := newIdleQueue()
	var ran []int
	q.PostIdleTask(func(time.Time) {
		ran = append(ran, 1)
		q.PostIdleTask(func(time.Time) { ran = append(ran, 2) })
	})
	require.True(t, q.pending())

	q.run(time.Millisecond)
	assert.Equal(t, []int{1}, ran)
	require.True(t, q.pending())

	q.run(time.Millisecond)
	assert.Equal(t, []int{1, 2}, ran)
	assert.False(t, q.pending())
}

func TestWatchConfig(t *testing.T) {
	t.Setenv("GRIDSCROLL_GLOBAL_CONFIG", t.TempDir())
	t.Setenv("GRIDSCROLL_GLOBAL_DATA", t.TempDir())

	wd := t.TempDir()
	cfg, err := config.Load(wd, false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	msgs := make(chan tea.Msg, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, cfg, func(msg tea.Msg) { msgs <- msg })
	}()

	path := filepath.Join(wd, "gridscroll.json")
	var got ConfigReloadedMsg
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte(`{"demo": {"items": 7}}`), 0o644); err != nil {
			return false
		}
		select {
		case msg := <-msgs:
			got = msg.(ConfigReloadedMsg)
			return true
		case <-time.After(300 * time.Millisecond):
			return false
		}
	}, 10*time.Second, 10*time.Millisecond)

	require.NoError(t, got.Err)
	assert.Equal(t, 7, got.Config.Demo.Items)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchedFiles(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadReader(strings.NewReader(`{}`))
	require.NoError(t, err)
	files := watchedFiles(cfg)
	require.Len(t, files, 4)
	assert.Equal(t, "gridscroll.json", filepath.Base(files[2]))
	assert.Equal(t, ".gridscroll.json", filepath.Base(files[3]))
}
