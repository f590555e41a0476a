package grid

import (
	"log/slog"
	"math"
	"slices"
	"time"
)

// PredictLayoutParam is the layout state a preload task measures with. It
// is captured when the task is queued.
type PredictLayoutParam struct {
	CrossSizes []float64
	CrossGap   float64
	Axis       Axis
	MainSize   float64
}

// preloadItems queues indexes for idle-time builds.
func (g *Grid) preloadItems(list []int, param PredictLayoutParam) {
	if len(list) == 0 {
		return
	}
	g.predictParam.Store(&param)
	queued := slices.Collect(g.queue.Seq())
	for _, idx := range list {
		if !slices.Contains(queued, idx) {
			g.queue.Append(idx)
			queued = append(queued, idx)
		}
	}
	slog.Debug("Grid items queued for preload", "items", list, "queued", len(queued))
}

// RunIdle builds queued items until the deadline passes. Items that left
// the cache window since they were queued are dropped. It reports whether
// work is left.
func (g *Grid) RunIdle(deadline time.Time) bool {
	param := g.predictParam.Load()
	for {
		if !g.cfg.now().Before(deadline) {
			return g.queue.Len() > 0
		}
		idx, ok := g.queue.PopFront()
		if !ok {
			return false
		}
		if g.IsPredictOutOfCacheRange(idx) {
			slog.Debug("Preload item out of cache range", "index", idx)
			continue
		}
		g.predictBuildItem(idx, param)
	}
}

// predictBuildItem builds and measures idx with a read only placement. The
// item stays inactive until a layout pass shows it.
func (g *Grid) predictBuildItem(idx int, param *PredictLayoutParam) {
	n := g.store.Child(idx, true)
	if n == nil {
		slog.Debug("Preload item could not be built", "index", idx)
		return
	}
	if param == nil || len(param.CrossSizes) == 0 {
		return
	}
	s := &session{
		info:       g.info,
		axis:       param.Axis,
		crossCount: len(param.CrossSizes),
		store:      g.store,
		mainSize:   param.MainSize,
	}
	sp := newStrategy(g.cfg.opts).predictCrossSpan(s, idx, n)
	cross := crossExtent(param.CrossSizes, param.CrossGap, max(sp.crossStart, 0), sp.crossSpan)
	n.measure(Constraint{
		MaxSize:          sizeOf(math.Inf(1), cross, param.Axis),
		PercentReference: sizeOf(param.MainSize, cross, param.Axis),
		CrossSize:        cross,
		Axis:             param.Axis,
	})
}

// IsPredictOutOfCacheRange reports whether idx is outside the cache window
// around the visible range.
func (g *Grid) IsPredictOutOfCacheRange(idx int) bool {
	info := g.info
	cached := int64(g.cachedLines())
	cross := int64(max(info.CrossCount, 1))
	lo := int64(info.StartIndex) - cached*cross
	hi := min(int64(info.EndIndex)+cached*cross, int64(info.ChildrenCount)-1)
	return int64(idx) < lo || int64(idx) > hi
}

// PreloadQueue returns the queued indexes in order.
func (g *Grid) PreloadQueue() []int {
	return slices.Collect(g.queue.Seq())
}

// postIdle hands the queue to the idle scheduler once.
func (g *Grid) postIdle() {
	if g.cfg.idle == nil || g.queue.Len() == 0 || !g.idlePosted.CompareAndSwap(false, true) {
		return
	}
	g.cfg.idle.PostIdleTask(func(deadline time.Time) {
		g.idlePosted.Store(false)
		if g.RunIdle(deadline) {
			g.postIdle()
		}
	})
}
