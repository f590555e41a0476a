package grid

import "time"

// EdgeEffect is what happens when the content is dragged past an edge.
type EdgeEffect int

const (
	EdgeNone EdgeEffect = iota
	EdgeSpring
	EdgeFade
)

// Direction is the reading direction of the cross axis.
type Direction int

const (
	LTR Direction = iota
	RTL
)

// ItemAlign aligns items inside their line.
type ItemAlign int

const (
	AlignItemsStart ItemAlign = iota
	AlignItemsStretch
)

// Options is the declarative configuration of a grid. It is read once per
// layout pass.
type Options struct {
	// ColumnsTemplate makes the grid scroll vertically. RowsTemplate alone
	// makes it scroll horizontally.
	ColumnsTemplate string
	RowsTemplate    string
	ColumnsGap      float64
	RowsGap         float64

	// CellLength, MinCount and MaxCount size the tracks when no template is
	// given.
	CellLength float64
	MinCount   int
	MaxCount   int

	// CachedCount is the number of lines kept around the viewport. A
	// negative value derives it from the viewport.
	CachedCount     int
	ShowCachedItems bool
	// PageCount scales the derived cache size. Zero disables it.
	PageCount float64

	EdgeEffect EdgeEffect
	Direction  Direction
	AlignItems ItemAlign
	Padding    Padding

	LayoutOptions *LayoutOptions
}

// DefaultOptions is a single column grid with a one line cache.
func DefaultOptions() Options {
	return Options{CachedCount: 1}
}

// axis derives the scroll axis from the templates.
func (o Options) axis() Axis {
	if o.ColumnsTemplate == "" && o.RowsTemplate != "" {
		return Horizontal
	}
	return Vertical
}

func (o Options) crossTemplate() string {
	if o.axis() == Horizontal {
		return o.RowsTemplate
	}
	return o.ColumnsTemplate
}

func (o Options) gaps() (main, cross float64) {
	if o.axis() == Horizontal {
		return o.ColumnsGap, o.RowsGap
	}
	return o.RowsGap, o.ColumnsGap
}

// ScrollSource tells where a scroll delta comes from.
type ScrollSource int

const (
	SourceNone ScrollSource = iota
	SourceUpdate
	SourceAnimation
	SourceAnimationSpring
	SourceJump
)

// Animator runs offset animations for the grid.
type Animator interface {
	// SpringRunning reports an over-scroll spring in flight.
	SpringRunning() bool
	// AnimateTo moves the content from one scroll position to another.
	AnimateTo(from, to float64)
}

// IdleScheduler runs a task when the host has spare frame time.
type IdleScheduler interface {
	PostIdleTask(task func(deadline time.Time))
}

// CaretLocator reports where the focused text caret sits, measured from the
// grid's leading edge.
type CaretLocator interface {
	FocusedCaret() (float64, bool)
}

type config struct {
	opts          Options
	animator      Animator
	idle          IdleScheduler
	caret         CaretLocator
	now           func() time.Time
	onScrollIndex func(start, end int)
	onReachStart  func()
	onReachEnd    func()
}

// Option configures a Grid.
type Option func(*config)

// WithOptions sets the declarative configuration.
func WithOptions(o Options) Option {
	return func(c *config) {
		c.opts = o
	}
}

// WithAnimator sets the animation driver.
func WithAnimator(a Animator) Option {
	return func(c *config) {
		c.animator = a
	}
}

// WithIdleScheduler posts preload work to s instead of waiting for RunIdle.
func WithIdleScheduler(s IdleScheduler) Option {
	return func(c *config) {
		c.idle = s
	}
}

// WithCaretLocator keeps the focused caret visible when the viewport shrinks.
func WithCaretLocator(l CaretLocator) Option {
	return func(c *config) {
		c.caret = l
	}
}

// WithClock replaces time.Now for idle deadlines.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithOnScrollIndex is called when the visible range changes.
func WithOnScrollIndex(fn func(start, end int)) Option {
	return func(c *config) {
		c.onScrollIndex = fn
	}
}

// WithOnReachStart is called when a pass reaches the first item.
func WithOnReachStart(fn func()) Option {
	return func(c *config) {
		c.onReachStart = fn
	}
}

// WithOnReachEnd is called when a pass reaches the last item.
func WithOnReachEnd(fn func()) Option {
	return func(c *config) {
		c.onReachEnd = fn
	}
}
