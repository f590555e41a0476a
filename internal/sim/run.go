package sim

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/gridscroll/internal/grid"
)

// animationSteps is the number of frames a smooth jump is played over.
const animationSteps = 4

// ItemFrame is the placement of one visible item.
type ItemFrame struct {
	Index  int     `json:"index" yaml:"index"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Frame is the state after one layout pass.
type Frame struct {
	Step       int         `json:"step" yaml:"step"`
	Action     string      `json:"action" yaml:"action"`
	Start      int         `json:"start" yaml:"start"`
	End        int         `json:"end" yaml:"end"`
	Offset     float64     `json:"offset" yaml:"offset"`
	Reason     string      `json:"reason" yaml:"reason"`
	ReachStart bool        `json:"reach_start" yaml:"reach_start"`
	ReachEnd   bool        `json:"reach_end" yaml:"reach_end"`
	Preload    []int       `json:"preload,omitempty" yaml:"preload,omitempty"`
	Items      []ItemFrame `json:"items" yaml:"items"`
}

// linearAnimator plays an animation in equal steps the runner drains.
type linearAnimator struct {
	pending []float64
}

func (a *linearAnimator) SpringRunning() bool { return false }

func (a *linearAnimator) AnimateTo(from, to float64) {
	a.pending = a.pending[:0]
	step := (to - from) / animationSteps
	for range animationSteps {
		a.pending = append(a.pending, step)
	}
}

// Runner plays scripts against a grid of tiles.
type Runner struct {
	grid  *grid.Grid
	tiles *Tiles
	anim  *linearAnimator
	size  grid.Size
}

func NewRunner(opts grid.Options, tiles *Tiles) *Runner {
	anim := &linearAnimator{}
	return &Runner{
		grid:  grid.New(tiles.Count(), tiles.Build, grid.WithOptions(opts), grid.WithAnimator(anim)),
		tiles: tiles,
		anim:  anim,
	}
}

func (r *Runner) Grid() *grid.Grid {
	return r.grid
}

// Run plays s and returns a frame per layout pass. Smooth jumps add a frame
// per animation step.
func (r *Runner) Run(ctx context.Context, s Script) ([]Frame, error) {
	r.size = grid.Size{Width: s.Viewport.Width, Height: s.Viewport.Height}
	steps := s.Steps
	if len(steps) == 0 {
		steps = []Step{{}}
	}

	var frames []Frame
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		if err := r.apply(st); err != nil {
			return frames, err
		}
		r.grid.Layout(r.size)
		frames = append(frames, r.frame(i, st.String()))

		for len(r.anim.pending) > 0 {
			delta := r.anim.pending[0]
			r.anim.pending = r.anim.pending[1:]
			r.grid.ScrollBySource(delta, grid.SourceAnimation)
			r.grid.Layout(r.size)
			frames = append(frames, r.frame(i, "animate"))
		}
	}
	slog.Debug("Simulation finished", "frames", len(frames), "builds", r.tiles.Builds())
	return frames, nil
}

func (r *Runner) apply(st Step) error {
	g := r.grid
	switch {
	case st.Scroll != nil:
		g.ScrollBy(*st.Scroll)
	case st.Jump != nil:
		align, err := ParseAlign(st.Jump.Align)
		if err != nil {
			return err
		}
		var opts []grid.JumpOption
		if st.Jump.Smooth {
			opts = append(opts, grid.WithSmooth())
		}
		if st.Jump.Extra != 0 {
			opts = append(opts, grid.WithExtraOffset(st.Jump.Extra))
		}
		g.ScrollToIndex(st.Jump.Index, align, opts...)
	case st.Edge != "":
		g.ScrollToEdge(st.Edge == "end", false)
	case st.Count != nil:
		r.tiles.demo.Items = *st.Count
		g.SetItemCount(*st.Count, min(g.Count(), *st.Count))
	case st.Invalidate != nil:
		g.Invalidate(*st.Invalidate)
	case st.Resize != nil:
		r.size = grid.Size{Width: st.Resize.Width, Height: st.Resize.Height}
	case st.Idle:
		g.RunIdle(time.Now().Add(time.Hour))
	}
	return nil
}

func (r *Runner) frame(step int, action string) Frame {
	g := r.grid
	info := g.Info()
	f := Frame{
		Step:       step,
		Action:     action,
		Start:      info.StartIndex,
		End:        info.EndIndex,
		Offset:     clean(info.CurrentOffset),
		Reason:     g.LastReloadReason().String(),
		ReachStart: info.ReachStart,
		ReachEnd:   info.ReachEnd,
		Preload:    g.PreloadQueue(),
	}
	for _, idx := range g.VisibleItems() {
		rect, ok := g.ItemRect(idx)
		if !ok {
			continue
		}
		f.Items = append(f.Items, ItemFrame{
			Index:  idx,
			X:      clean(rect.X),
			Y:      clean(rect.Y),
			Width:  clean(rect.Width),
			Height: clean(rect.Height),
		})
	}
	return f
}

// clean rounds to two decimals and drops negative zero.
func clean(v float64) float64 {
	v = math.Round(v*100) / 100
	if v == 0 {
		return 0
	}
	return v
}
