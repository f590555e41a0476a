package grid

import (
	"log/slog"
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/gridscroll/internal/csync"
)

// springFriction scales drag deltas past an edge.
const springFriction = 0.72

// Grid lays out a scrollable grid of lazily built items.
//
// A Grid is not safe for concurrent use. Only the preload queue may be
// filled and drained from different goroutines.
type Grid struct {
	cfg   config
	store *Store

	info     *Info
	infoCopy *Info

	frame    Size
	mainSize float64
	mainGap  float64

	updatedFrom int
	reason      ReloadReason
	source      ScrollSource
	scrolled    bool
	pass        uint64

	queue        *csync.Slice[int]
	predictParam atomic.Pointer[PredictLayoutParam]
	idlePosted   atomic.Bool
}

// New returns a grid of count items created by build.
func New(count int, build Builder, opts ...Option) *Grid {
	cfg := config{
		opts: DefaultOptions(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return &Grid{
		cfg:   cfg,
		store: NewStore(count, build),
		info:  NewInfo(),
		queue: csync.NewSlice[int](),
	}
}

func (g *Grid) newSession(size Size) *session {
	o := g.cfg.opts
	axis := o.axis()
	inner := Size{
		Width:  max(size.Width-o.Padding.horizontal(), 0),
		Height: max(size.Height-o.Padding.vertical(), 0),
	}
	mainGap, _ := o.gaps()
	overScroll := o.EdgeEffect == EdgeSpring &&
		(g.source == SourceUpdate || g.source == SourceAnimation || g.source == SourceAnimationSpring ||
			(g.cfg.animator != nil && g.cfg.animator.SpringRunning()))
	return &session{
		info:               g.info,
		opts:               o,
		store:              g.store,
		strategy:           newStrategy(o),
		axis:               axis,
		frame:              inner,
		mainSize:           inner.MainSize(axis),
		crossSize:          inner.CrossSize(axis),
		mainGap:            mainGap,
		crossPositions:     make(map[int]float64),
		updatedFrom:        g.updatedFrom,
		moveToEndLineIndex: -1,
		canOverScrollStart: overScroll,
		canOverScrollEnd:   overScroll,
		enableSkipping:     g.source != SourceAnimation,
		animator:           g.cfg.animator,
		caret:              g.cfg.caret,
		source:             g.source,
		pass:               g.pass + 1,
	}
}

// Layout runs one layout pass for a viewport of the given size.
func (g *Grid) Layout(size Size) {
	g.frame = size
	s := g.newSession(size)
	if nearZero(s.mainSize) {
		slog.Warn("Grid main size is zero, skipping layout", "width", size.Width, "height", size.Height)
		return
	}
	prevStart, prevEnd := g.info.StartIndex, g.info.EndIndex
	prevReachStart, prevReachEnd := g.info.ReachStart, g.info.ReachEnd

	s.initialItemsCrossSize()
	s.info.ChildrenCount = s.count()
	s.adjustForMainSizeChange()

	s.fillViewport()
	s.info.LastMainSize = s.mainSize
	if s.moveToEndLineIndex > 0 {
		s.info.OffsetEnd = s.info.EndIndex+1 >= s.count()
	}

	cached := s.cachedLines()
	if s.opts.ShowCachedItems {
		s.syncPreload(cached)
	} else {
		s.fillCacheLineAtEnd()
		before, _ := s.strategy.calculateCachedCount(s, cached)
		s.addCacheItemsInFront(s.info.StartIndex, before)
	}
	s.info.SyncIndexRange()
	s.info.ReachStart = s.info.StartIndex == 0 && greatOrEqual(s.info.CurrentOffset, 0)
	s.layout()
	g.preloadItems(s.predictList, PredictLayoutParam{
		CrossSizes: slices.Clone(s.crossSizes),
		CrossGap:   s.crossGap,
		Axis:       s.axis,
		MainSize:   s.mainSize,
	})

	g.info = s.info
	if s.infoCopy != nil {
		g.infoCopy = s.infoCopy
	}
	g.reason = s.reason
	g.updatedFrom = s.updatedFrom
	g.mainSize, g.mainGap = s.mainSize, s.mainGap
	g.source = SourceNone
	g.scrolled = false
	g.pass = s.pass

	slog.Debug("Grid layout finished",
		"start", g.info.StartIndex,
		"end", g.info.EndIndex,
		"offset", g.info.CurrentOffset,
		"reason", g.reason,
		"pass", g.pass,
	)

	if g.cfg.onScrollIndex != nil && (prevStart != g.info.StartIndex || prevEnd != g.info.EndIndex) {
		g.cfg.onScrollIndex(g.info.StartIndex, g.info.EndIndex)
	}
	if g.cfg.onReachStart != nil && g.info.ReachStart && !prevReachStart {
		g.cfg.onReachStart()
	}
	if g.cfg.onReachEnd != nil && g.info.ReachEnd && !prevReachEnd {
		g.cfg.onReachEnd()
	}
	g.postIdle()
}

// ScrollBy moves the content by delta, forward when positive. It takes
// effect on the next Layout.
func (g *Grid) ScrollBy(delta float64) {
	g.ScrollBySource(delta, SourceUpdate)
}

// ScrollBySource is ScrollBy with the origin of the delta. Drags past an
// edge of a spring grid are slowed down the further they go.
func (g *Grid) ScrollBySource(delta float64, source ScrollSource) {
	if source == SourceUpdate && g.cfg.opts.EdgeEffect == EdgeSpring && positive(g.mainSize) {
		over := g.OverScroll()
		if (positive(over) && delta < 0) || (lessNotEqual(over, 0) && delta > 0) {
			gamma := math.Min(math.Abs(over)/g.mainSize, 1)
			delta *= springFriction * (1 - gamma) * (1 - gamma)
		}
	}
	if !g.scrolled {
		g.info.PrevOffset = g.info.CurrentOffset
		g.scrolled = true
	}
	g.info.CurrentOffset -= delta
	if lessNotEqual(g.info.CurrentOffset, 0) {
		g.info.ReachStart = false
	}
	g.source = source
}

type jumpConfig struct {
	smooth bool
	extra  *float64
}

// JumpOption configures ScrollToIndex.
type JumpOption func(*jumpConfig)

// WithSmooth animates the jump through the grid's Animator.
func WithSmooth() JumpOption {
	return func(c *jumpConfig) {
		c.smooth = true
	}
}

// WithExtraOffset moves the content by v after aligning the target.
func WithExtraOffset(v float64) JumpOption {
	return func(c *jumpConfig) {
		c.extra = &v
	}
}

// ScrollToIndex brings the item at idx into view with align on the next
// Layout. LastItem targets the last item; indexes past the end clamp.
func (g *Grid) ScrollToIndex(idx int, align ScrollAlign, opts ...JumpOption) {
	var jc jumpConfig
	for _, opt := range opts {
		opt(&jc)
	}
	if idx < 0 && idx != LastItem {
		slog.Debug("Ignoring jump to negative index", "index", idx)
		return
	}
	if count := g.store.Count(); count > 0 && (idx == LastItem || idx >= count) {
		idx = count - 1
	}
	if jc.smooth && g.cfg.animator != nil && !nearZero(g.mainSize) && idx >= 0 {
		if g.smoothScrollTo(idx, align, jc.extra) {
			return
		}
		slog.Debug("Smooth jump fell back to a plain jump", "index", idx)
	}
	g.info.JumpIndex = idx
	g.info.ScrollAlign = align
	g.info.ExtraOffset = jc.extra
	g.source = SourceJump
}

// smoothScrollTo records the lines up to idx in a copy of the state and
// animates from the current position to the target one.
func (g *Grid) smoothScrollTo(idx int, align ScrollAlign, extra *float64) bool {
	target := idx
	g.info.TargetIndex = &target
	g.info.ExtraOffset = extra
	g.Layout(g.frame)

	cp := g.infoCopy
	if cp == nil {
		return false
	}
	if _, ok := cp.Matrix.LineOf(idx); !ok {
		return false
	}
	to, move := cp.AnimatePosition(idx, align, g.mainGap, g.mainSize)
	if !move {
		return true
	}
	if extra != nil {
		to -= *extra
	}
	from := cp.scrolledDistance(g.mainGap)
	slog.Debug("Grid smooth jump", "index", idx, "from", from, "to", to)
	g.cfg.animator.AnimateTo(from, to)
	return true
}

// ScrollToEdge jumps to the first or the last item.
func (g *Grid) ScrollToEdge(end bool, smooth bool) {
	var opts []JumpOption
	if smooth {
		opts = append(opts, WithSmooth())
	}
	if end {
		g.ScrollToIndex(LastItem, AlignEnd, opts...)
		return
	}
	g.ScrollToIndex(0, AlignStart, opts...)
}

func (g *Grid) markUpdated(idx int) {
	if g.updatedFrom < 0 || idx < g.updatedFrom {
		g.updatedFrom = idx
	}
}

// SetItemCount changes the item count. Items from index from on are dropped
// and built again when shown.
func (g *Grid) SetItemCount(count, from int) {
	from = max(from, 0)
	g.store.Reset(count, from)
	g.markUpdated(from)
}

// Invalidate measures the item at idx again on the next Layout.
func (g *Grid) Invalidate(idx int) {
	g.store.Invalidate(idx)
	g.markUpdated(idx)
}

// SetOptions replaces the configuration and relays out every item.
func (g *Grid) SetOptions(o Options) {
	g.cfg.opts = o
	g.markUpdated(0)
}

// Options returns the current configuration.
func (g *Grid) Options() Options {
	return g.cfg.opts
}

// Info returns a copy of the layout state.
func (g *Grid) Info() *Info {
	return g.info.Clone()
}

// MoveInfoCopy hands over the state recorded by the last smooth jump.
func (g *Grid) MoveInfoCopy() *Info {
	cp := g.infoCopy
	g.infoCopy = nil
	return cp
}

// Node returns the built item at idx.
func (g *Grid) Node(idx int) (*Node, bool) {
	return g.store.Node(idx)
}

// ItemRect returns the rect of idx from the last Layout.
func (g *Grid) ItemRect(idx int) (Rect, bool) {
	n, ok := g.store.Node(idx)
	if !ok || n.pass != g.pass {
		return Rect{}, false
	}
	return n.rect, true
}

// VisibleItems returns the indexes between the start and the end item.
func (g *Grid) VisibleItems() []int {
	if g.info.EndIndex < g.info.StartIndex {
		return nil
	}
	items := make([]int, 0, g.info.EndIndex-g.info.StartIndex+1)
	for idx := g.info.StartIndex; idx <= g.info.EndIndex; idx++ {
		if n, ok := g.store.Node(idx); ok && n.active {
			items = append(items, idx)
		}
	}
	return items
}

// ItemIndexAt returns the visible item under the point.
func (g *Grid) ItemIndexAt(x, y float64) (int, bool) {
	for _, idx := range g.VisibleItems() {
		if r, ok := g.ItemRect(idx); ok && r.Contains(x, y) {
			return idx, true
		}
	}
	return 0, false
}

func (g *Grid) cachedLines() int {
	if g.cfg.opts.CachedCount >= 0 {
		return g.cfg.opts.CachedCount
	}
	return g.info.DefCachedCount
}

// CalculateCachedCount returns how many items the cache window holds before
// the start and after the end.
func (g *Grid) CalculateCachedCount() (before, after int) {
	if g.info.CrossCount == 0 {
		return 0, 0
	}
	s := &session{
		info:       g.info,
		opts:       g.cfg.opts,
		store:      g.store,
		axis:       g.info.Axis,
		crossCount: g.info.CrossCount,
	}
	return newStrategy(g.cfg.opts).calculateCachedCount(s, g.cachedLines())
}

// OverScroll is the distance the content is dragged past an edge: positive
// at the start, negative at the end.
func (g *Grid) OverScroll() float64 {
	i := g.info
	if i.IsOutOfStart() {
		return i.CurrentOffset
	}
	if i.IsOutOfEnd(g.mainGap) {
		return i.CurrentOffset + i.HeightInView - (i.LastMainSize - i.ContentEndPadding)
	}
	return 0
}

// ContentHeight estimates the main size of the whole content.
func (g *Grid) ContentHeight() float64 {
	return g.info.ContentHeight(g.mainGap)
}

// ScrollOffset estimates how far the content is scrolled.
func (g *Grid) ScrollOffset() float64 {
	return g.info.ContentOffset(g.mainGap)
}

// Count is the number of items in the data source.
func (g *Grid) Count() int {
	return g.store.Count()
}

// MainSize is the main size of the viewport at the last Layout.
func (g *Grid) MainSize() float64 {
	return g.mainSize
}

// LastReloadReason tells why the last Layout rebuilt the matrix.
func (g *Grid) LastReloadReason() ReloadReason {
	return g.reason
}
