package heartbit

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/MakeNowJust/heredoc"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/rivo/uniseg"
)

var Primary = heredoc.Doc(`
    ▄▄▄▄▄▄▄▄    ▄▄▄▄▄▄▄▄
  ███████████  ███████████
████████████████████████████
████████████████████████████
██████████▀██████▀██████████
██████████ ██████ ██████████
▀▀██████▄████▄▄████▄██████▀▀
  ████████████████████████
    ████████████████████
       ▀▀██████████▀▀
           ▀▀▀▀▀▀
`)

// Heartbit draws the empty grid placeholder.
type Heartbit struct {
	face  string
	color color.Color
}

func Standard() *Heartbit {
	return &Heartbit{
		face:  strings.TrimRight(Primary, "\n"),
		color: charmtone.Charple,
	}
}

// Size is the width and height of the face in cells.
func (h *Heartbit) Size() (int, int) {
	lines := strings.Split(h.face, "\n")
	w := 0
	for _, line := range lines {
		w = max(w, uniseg.StringWidth(line))
	}
	return w, len(lines)
}

// Draw draws the face centered in area. Cells outside area are skipped.
func (h *Heartbit) Draw(scr uv.Screen, area uv.Rectangle) {
	w, ht := h.Size()
	ox := area.Min.X + max(area.Dx()-w, 0)/2
	oy := area.Min.Y + max(area.Dy()-ht, 0)/2
	for y, line := range strings.Split(h.face, "\n") {
		x := 0
		gr := uniseg.NewGraphemes(line)
		for gr.Next() {
			s := gr.Str()
			cw := max(gr.Width(), 1)
			pos := uv.Pos(ox+x, oy+y)
			x += cw
			if strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0 || !pos.In(area) {
				continue
			}
			scr.SetCell(pos.X, pos.Y, &uv.Cell{
				Style:   uv.Style{Fg: h.color},
				Content: s,
				Width:   cw,
			})
		}
	}
}
