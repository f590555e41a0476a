// Package grid is an incremental layout engine for scrollable grids.
//
// A Grid measures only the items around its viewport. Placed items are
// recorded in a sparse Matrix of (line, cross) cells which survives between
// layout passes, so scrolling re-measures recorded lines and only measures
// new items at the edges. Large scrolls are estimated instead of measured,
// and items around the viewport are built ahead of time from an idle-time
// preload queue.
//
// The host calls Layout once per frame after feeding scroll deltas and
// jumps:
//
//	g := grid.New(count, build, grid.WithOptions(grid.Options{
//		ColumnsTemplate: "1fr 1fr 1fr",
//		CachedCount:     1,
//	}))
//	g.ScrollBy(120)
//	g.Layout(grid.Size{Width: 600, Height: 800})
//	for _, idx := range g.VisibleItems() {
//		r, _ := g.ItemRect(idx)
//		_ = r
//	}
//	g.RunIdle(time.Now().Add(4 * time.Millisecond))
package grid
