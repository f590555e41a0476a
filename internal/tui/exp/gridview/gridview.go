// Package gridview is the interactive grid viewer.
package gridview

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/gridscroll/internal/config"
	"github.com/charmbracelet/gridscroll/internal/grid"
	"github.com/charmbracelet/gridscroll/internal/sim"
	"github.com/charmbracelet/gridscroll/internal/tui/components/heartbit"
	"github.com/charmbracelet/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/charmtone"
)

const (
	// ViewportDefaultScrollSize is the distance of one mouse wheel notch.
	ViewportDefaultScrollSize = 2

	statusHeight = 1
	// maxCachedTiles bounds the rendered tile cache.
	maxCachedTiles = 512
)

// Model shows a grid of generated tiles and scrolls it with the keyboard
// and the mouse wheel.
type Model struct {
	grid   *grid.Grid
	tiles  *sim.Tiles
	opts   grid.Options
	keyMap KeyMap

	anim     *springAnimator
	idle     *idleQueue
	renderer *tileRenderer
	logo     *heartbit.Heartbit

	width, height int
	selected      int
	err           error

	// a frame or idle tick is in flight
	animating     bool
	idleScheduled bool
}

func New(cfg *config.Config) (*Model, error) {
	opts, err := cfg.GridOptions()
	if err != nil {
		return nil, err
	}
	m := &Model{
		tiles:    sim.NewTiles(cfg.Demo),
		opts:     opts,
		keyMap:   DefaultKeyMap(),
		anim:     newSpringAnimator(),
		idle:     newIdleQueue(),
		renderer: newTileRenderer(),
		logo:     heartbit.Standard(),
		selected: -1,
	}
	m.grid = grid.New(
		m.tiles.Count(),
		func(idx int) grid.Content { return m.tiles.Build(idx) },
		grid.WithOptions(opts),
		grid.WithAnimator(m.anim),
		grid.WithIdleScheduler(m.idle),
		grid.WithOnScrollIndex(func(start, end int) {
			if m.renderer.cache.Len() > maxCachedTiles {
				m.renderer.invalidate()
			}
		}),
		grid.WithOnReachEnd(func() {
			slog.Debug("Grid reached the end", "count", m.grid.Count())
		}),
	)
	return m, nil
}

func (m *Model) Grid() *grid.Grid {
	return m.grid
}

// Selected is the selected item index, or -1.
func (m *Model) Selected() int {
	return m.selected
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
	case tea.KeyPressMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelDown:
			m.scrollBy(ViewportDefaultScrollSize)
		case tea.MouseWheelUp:
			m.scrollBy(-ViewportDefaultScrollSize)
		}
	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if idx, ok := m.grid.ItemIndexAt(float64(mouse.X), float64(mouse.Y)); ok {
			m.selected = idx
		}
	case frameMsg:
		m.animating = false
		m.animate()
	case idleMsg:
		m.idleScheduled = false
		m.idle.run(idleBudget)
		slog.Debug("Idle preload ran", "queued", len(m.grid.PreloadQueue()), "builds", m.tiles.Builds())
	case ConfigReloadedMsg:
		m.reload(msg)
	}
	return m, m.schedule()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) {
	page := float64(m.gridHeight())
	switch {
	case key.Matches(msg, m.keyMap.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keyMap.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keyMap.PageDown):
		m.scrollBy(page)
	case key.Matches(msg, m.keyMap.PageUp):
		m.scrollBy(-page)
	case key.Matches(msg, m.keyMap.HalfPageDown):
		m.scrollBy(page / 2)
	case key.Matches(msg, m.keyMap.HalfPageUp):
		m.scrollBy(-page / 2)
	case key.Matches(msg, m.keyMap.Home):
		m.grid.ScrollToEdge(false, true)
		m.layout()
	case key.Matches(msg, m.keyMap.End):
		m.grid.ScrollToEdge(true, true)
		m.layout()
	case key.Matches(msg, m.keyMap.DownOneItem):
		m.selectItem(1)
	case key.Matches(msg, m.keyMap.UpOneItem):
		m.selectItem(-1)
	case key.Matches(msg, m.keyMap.Center):
		if m.selected >= 0 {
			m.grid.ScrollToIndex(m.selected, grid.AlignCenter, grid.WithSmooth())
			m.layout()
		}
	case key.Matches(msg, m.keyMap.Refresh):
		if m.selected >= 0 {
			m.grid.Invalidate(m.selected)
			m.renderer.invalidate()
			m.layout()
		}
	}
}

// scrollBy scrolls by delta cells and pulls back any over-scroll a spring
// grid is left with.
func (m *Model) scrollBy(delta float64) {
	if m.anim.running && !m.anim.edge {
		m.anim.stop()
	}
	m.grid.ScrollBy(delta)
	m.layout()
	if m.opts.EdgeEffect != grid.EdgeSpring {
		return
	}
	switch over := m.grid.OverScroll(); {
	case over != 0:
		m.anim.pullBack(over)
	case m.anim.edge:
		m.anim.stop()
	}
}

// selectItem moves the selection by delta items and keeps it in view.
func (m *Model) selectItem(delta int) {
	count := m.grid.Count()
	if count == 0 {
		return
	}
	if m.selected < 0 {
		m.selected = m.grid.Info().StartIndex
	} else {
		m.selected = min(max(m.selected+delta, 0), count-1)
	}
	m.grid.ScrollToIndex(m.selected, grid.AlignAuto, grid.WithSmooth())
	m.layout()
}

func (m *Model) animate() {
	if !m.anim.running {
		return
	}
	source := grid.SourceAnimation
	if m.anim.edge {
		source = grid.SourceAnimationSpring
	}
	m.grid.ScrollBySource(m.anim.step(), source)
	m.layout()
}

func (m *Model) reload(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		slog.Error("Failed to reload config", "error", msg.Err)
		m.err = msg.Err
		return
	}
	opts, err := msg.Config.GridOptions()
	if err != nil {
		slog.Error("Invalid grid config", "error", err)
		m.err = err
		return
	}
	m.err = nil
	m.opts = opts
	m.tiles = sim.NewTiles(msg.Config.Demo)
	m.grid.SetOptions(opts)
	m.grid.SetItemCount(m.tiles.Count(), 0)
	m.grid.ScrollToEdge(false, false)
	m.renderer.invalidate()
	if m.selected >= m.tiles.Count() {
		m.selected = -1
	}
	slog.Info("Config reloaded", "items", m.tiles.Count(), "columns", opts.ColumnsTemplate)
	m.layout()
}

func (m *Model) gridHeight() int {
	return max(m.height-statusHeight, 0)
}

func (m *Model) layout() {
	if m.width <= 0 || m.gridHeight() <= 0 {
		return
	}
	m.grid.Layout(grid.Size{Width: float64(m.width), Height: float64(m.gridHeight())})
}

// schedule starts the frame and idle ticks the model is waiting on.
func (m *Model) schedule() tea.Cmd {
	var cmds []tea.Cmd
	if m.anim.running && !m.animating {
		m.animating = true
		cmds = append(cmds, frameTick())
	}
	if m.idle.pending() && !m.idleScheduled {
		m.idleScheduled = true
		cmds = append(cmds, idleTick())
	}
	return tea.Batch(cmds...)
}

func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	scr := uv.NewScreenBuffer(m.width, m.height)
	area := uv.Rect(0, 0, m.width, m.gridHeight())
	if m.grid.Count() == 0 {
		m.logo.Draw(scr, area)
	} else {
		m.drawTiles(scr, area)
	}
	uv.NewStyledString(m.statusLine()).Draw(scr, uv.Rect(0, m.gridHeight(), m.width, statusHeight))
	return scr.Render()
}

func (m *Model) drawTiles(scr uv.Screen, area uv.Rectangle) {
	for _, idx := range m.grid.VisibleItems() {
		rect, ok := m.grid.ItemRect(idx)
		if !ok {
			continue
		}
		n, ok := m.grid.Node(idx)
		if !ok {
			continue
		}
		t, ok := n.Content().(*sim.Tile)
		if !ok {
			continue
		}
		r := cellRect(rect)
		drawClipped(scr, area, m.renderer.render(t, r.Dx(), r.Dy(), idx == m.selected), r)
	}
}

func (m *Model) statusLine() string {
	st := lipgloss.NewStyle().Foreground(charmtone.Squid)
	var line string
	switch {
	case m.err != nil:
		st = st.Foreground(charmtone.Sriracha)
		line = fmt.Sprintf("config error: %v", m.err)
	case m.grid.Count() == 0:
		line = "no items"
	default:
		info := m.grid.Info()
		if m.selected >= 0 {
			line = fmt.Sprintf("selected %d  ", m.selected)
		}
		line += fmt.Sprintf("%d-%d of %d  offset %.0f/%.0f  %s",
			info.StartIndex, info.EndIndex, m.grid.Count(),
			m.grid.ScrollOffset(), m.grid.ContentHeight(),
			m.grid.LastReloadReason(),
		)
	}
	return st.Render(ansi.Truncate(line, m.width, "…"))
}
