package gridview

import (
	"fmt"
	"image/color"
	"math"

	"github.com/charmbracelet/gridscroll/internal/csync"
	"github.com/charmbracelet/gridscroll/internal/grid"
	"github.com/charmbracelet/gridscroll/internal/sim"
	"github.com/charmbracelet/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/zeebo/xxh3"
)

// paletteSize is the number of tile colors between the two palette ends.
const paletteSize = 12

// tileRenderer renders tiles and keeps the result per tile, size and state.
type tileRenderer struct {
	cache   *csync.Map[uint64, string]
	palette []color.Color
}

func newTileRenderer() *tileRenderer {
	return &tileRenderer{
		cache:   csync.NewMap[uint64, string](),
		palette: blend(charmtone.Charple, charmtone.Dolly, paletteSize),
	}
}

// blend returns n colors from a to b.
func blend(a, b color.Color, n int) []color.Color {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	out := make([]color.Color, n)
	for i := range n {
		out[i] = ca.BlendLab(cb, float64(i)/float64(max(n-1, 1))).Clamped()
	}
	return out
}

func cacheKey(t *sim.Tile, w, h int, selected bool) uint64 {
	return xxh3.HashString(fmt.Sprintf("%s:%d:%d:%t", t.ID, w, h, selected))
}

// render returns the tile drawn into w by h cells.
func (r *tileRenderer) render(t *sim.Tile, w, h int, selected bool) string {
	key := cacheKey(t, w, h, selected)
	if s, ok := r.cache.Get(key); ok {
		return s
	}
	fg := r.palette[t.Index%len(r.palette)]
	st := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fg)
	if selected {
		st = st.Border(lipgloss.ThickBorder()).Bold(true)
	}
	innerW := max(w-st.GetHorizontalFrameSize(), 0)
	innerH := max(h-st.GetVerticalFrameSize(), 0)
	label := ansi.Truncate(t.Label(), innerW, "…")
	s := st.Width(innerW).Height(innerH).Foreground(fg).Render(label)
	if w < 2 || h < 2 {
		// too small for a border
		s = lipgloss.NewStyle().Background(fg).Width(w).Height(h).Render("")
	}
	r.cache.Set(key, s)
	return s
}

// invalidate drops every cached rendering.
func (r *tileRenderer) invalidate() {
	r.cache.Reset()
}

// cellRect rounds an item rect to whole cells.
func cellRect(rect grid.Rect) uv.Rectangle {
	x := int(math.Round(rect.X))
	y := int(math.Round(rect.Y))
	return uv.Rect(x, y, int(math.Round(rect.X+rect.Width))-x, int(math.Round(rect.Y+rect.Height))-y)
}

// drawClipped draws s over area on scr. Parts of area outside bounds are
// cut off, so tiles straddling the viewport edges show partially.
func drawClipped(scr uv.Screen, bounds uv.Rectangle, s string, area uv.Rectangle) {
	if area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	tile := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(s).Draw(tile, uv.Rect(0, 0, area.Dx(), area.Dy()))
	for y := range area.Dy() {
		for x := range area.Dx() {
			pos := uv.Pos(area.Min.X+x, area.Min.Y+y)
			if !pos.In(bounds) {
				continue
			}
			if c := tile.CellAt(x, y); c != nil {
				scr.SetCell(pos.X, pos.Y, c)
			}
		}
	}
}
