package gridview

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/harmonica"
)

const (
	fps       = 60
	frequency = 7.0
	damping   = 1.0

	// settle is how close to the target a spring must be to stop.
	settle = 0.05
)

type frameMsg struct{}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// springAnimator drives smooth jumps and the pull back after an over-scroll.
// Positions are scroll distances; every frame yields the delta to scroll by.
type springAnimator struct {
	spring harmonica.Spring

	pos, vel, target float64
	running          bool
	// edge marks a pull back from past an edge.
	edge bool
}

func newSpringAnimator() *springAnimator {
	return &springAnimator{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

func (a *springAnimator) SpringRunning() bool {
	return a.running && a.edge
}

func (a *springAnimator) AnimateTo(from, to float64) {
	a.start(from, to, false)
}

// pullBack animates away an over-scroll of over.
func (a *springAnimator) pullBack(over float64) {
	a.start(0, over, true)
}

func (a *springAnimator) start(from, to float64, edge bool) {
	a.pos, a.vel, a.target = from, 0, to
	a.edge = edge
	a.running = math.Abs(to-from) > settle
}

func (a *springAnimator) stop() {
	a.running = false
	a.edge = false
}

// step advances one frame and returns the distance moved.
func (a *springAnimator) step() float64 {
	if !a.running {
		return 0
	}
	prev := a.pos
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
	if math.Abs(a.target-a.pos) < settle && math.Abs(a.vel) < settle {
		a.pos = a.target
		a.running = false
	}
	return a.pos - prev
}
