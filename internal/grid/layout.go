package grid

import "log/slog"

// checkInterval is the number of passes between two matrix validations.
const checkInterval = 5000

// layout turns the record into item rects. Lines in the cache window only
// place items that are already built.
func (s *session) layout() {
	cached := s.cachedLines()
	first := s.info.StartMainLine - cached
	if lo, _, ok := s.info.Matrix.Bounds(); ok {
		first = max(first, lo)
	}
	mainPos := s.info.CurrentOffset - s.info.HeightInRange(first, s.info.StartMainLine, s.mainGap)

	start, end := -1, -1
	seen := make(map[int]struct{})
	for line := first; line <= s.info.EndMainLine+cached; line++ {
		lh, ok := s.info.LineHeights[line]
		if !ok {
			continue
		}
		inView := line >= s.info.StartMainLine && line <= s.info.EndMainLine
		for _, c := range s.info.Matrix.Cells(line) {
			if _, ok := seen[c.Index]; ok {
				continue
			}
			seen[c.Index] = struct{}{}

			var n *Node
			if inView {
				n = s.store.Child(c.Index, true)
			} else {
				n, _ = s.store.Node(c.Index)
			}
			if n == nil {
				continue
			}
			if inView {
				if start < 0 || c.Index < start {
					start = c.Index
				}
				end = max(end, c.Index)
			}
			s.placeItem(n, line, c.Cross, mainPos)
		}
		mainPos += lh + s.mainGap
	}

	s.info.HeightInView = s.info.TotalHeightOfItemsInView(s.mainGap)
	if start < 0 {
		start, end = s.count(), s.count()
	}
	if s.opts.CachedCount < 0 && s.opts.PageCount > 0 {
		s.info.UpdateDefaultCachedCount(s.opts.PageCount)
	}
	s.cacheStart, s.cacheEnd = s.strategy.calculateCachedCount(s, cached)
	s.store.SetActiveRange(start, end, s.cacheStart, s.cacheEnd, s.opts.ShowCachedItems)

	s.info.checks = (s.info.checks + 1) % checkInterval
	if s.info.checks == 0 && !s.info.Validate() {
		slog.Warn("Grid matrix is inconsistent, dropping it", "count", s.count(), "lines", len(s.info.Matrix))
		s.info.Matrix = Matrix{}
		clear(s.info.LineHeights)
	}
}

// placeItem computes the rect of n, first seen on line at cross. linePos is
// the main position of line.
func (s *session) placeItem(n *Node, line, cross int, linePos float64) {
	idx := n.index
	startLine := s.itemStartLine(idx, line, cross)
	mainPos := linePos - s.info.HeightInRange(startLine, line, s.mainGap)

	crossSpan := 1
	for {
		v, ok := s.info.Matrix.Get(startLine, cross+crossSpan)
		if !ok || v != idx {
			break
		}
		crossSpan++
	}
	mainSpan := 1
	for {
		v, ok := s.info.Matrix.Get(startLine+mainSpan, cross)
		if !ok || v != idx {
			break
		}
		mainSpan++
	}

	crossPos, ok := s.crossPositions[idx]
	if !ok {
		crossPos = s.crossPosition(cross)
	}
	mainLen := n.size.MainSize(s.axis)
	if s.opts.AlignItems == AlignItemsStretch {
		mainLen = s.info.HeightInRange(startLine, startLine+mainSpan, s.mainGap) - s.mainGap
	}
	crossLen := n.size.CrossSize(s.axis)

	off := offsetOf(mainPos, crossPos, s.axis)
	size := sizeOf(mainLen, crossLen, s.axis)
	if s.opts.Direction == RTL && s.axis == Vertical {
		off.X = s.crossSize - off.X - size.Width
	}
	n.rect = Rect{
		X:      off.X + s.opts.Padding.Left,
		Y:      off.Y + s.opts.Padding.Top,
		Width:  size.Width,
		Height: size.Height,
	}
	n.placement = IndexInfo{
		MainStart:  startLine,
		MainEnd:    startLine + mainSpan - 1,
		MainSpan:   mainSpan,
		CrossStart: cross,
		CrossEnd:   cross + crossSpan - 1,
		CrossSpan:  crossSpan,
	}
	n.pass = s.pass
}
