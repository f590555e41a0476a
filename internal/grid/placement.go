package grid

import "log/slog"

// checkGridPlaced claims the cells of idx at (line, cross) when every one of
// them is free.
func (s *session) checkGridPlaced(idx, line, cross, mainSpan, crossSpan int) bool {
	if _, ok := s.info.Matrix.Get(line, cross); ok {
		return false
	}
	if cross+crossSpan > s.crossCount {
		return false
	}
	for i := range mainSpan {
		for j := range crossSpan {
			if _, ok := s.info.Matrix.Get(line+i, cross+j); ok {
				return false
			}
		}
	}
	for i := range mainSpan {
		for j := range crossSpan {
			s.info.Matrix.Set(line+i, cross+j, idx)
		}
	}
	s.lastCross = cross + crossSpan
	return true
}

// nextGrid steps to the next cell of the current line.
func (s *session) nextGrid(cross *int) bool {
	*cross++
	return *cross < s.crossCount
}

// measureNewChild places item idx on the current line and measures it. It
// returns the cross span of the item, or -1 when the item belongs to the
// next line.
func (s *session) measureNewChild(idx int, n *Node) int {
	s.adjustSpan(idx, n)
	sp := s.span
	line := s.currentMainLine
	cross := sp.crossStart
	if cross >= 0 && cross < s.crossCount {
		if cross < s.lastCross || !s.checkGridPlaced(idx, line, cross, sp.mainSpan, sp.crossSpan) {
			return -1
		}
	} else {
		cross = s.lastCross
		for !s.checkGridPlaced(idx, line, cross, sp.mainSpan, sp.crossSpan) {
			if !s.nextGrid(&cross) {
				return -1
			}
		}
	}
	s.measureChild(idx, n, cross)
	return sp.crossSpan
}

// measureChildPlaced measures an item already recorded at cross.
func (s *session) measureChildPlaced(idx int, n *Node, cross int) int {
	s.adjustSpan(idx, n)
	if cross+s.span.crossSpan > s.crossCount {
		slog.Debug("Item does not fit its recorded cell", "index", idx, "cross", cross, "span", s.span.crossSpan)
		return 0
	}
	s.measureChild(idx, n, cross)
	return s.span.crossSpan
}

// placeCachedChild records a built item on the current line without
// measuring it again.
func (s *session) placeCachedChild(idx int, n *Node) int {
	s.adjustSpan(idx, n)
	sp := s.span
	line := s.currentMainLine
	cross := sp.crossStart
	if cross >= 0 && cross < s.crossCount {
		if cross < s.lastCross || !s.checkGridPlaced(idx, line, cross, sp.mainSpan, sp.crossSpan) {
			return -1
		}
	} else {
		cross = s.lastCross
		for !s.checkGridPlaced(idx, line, cross, sp.mainSpan, sp.crossSpan) {
			if !s.nextGrid(&cross) {
				return -1
			}
		}
	}
	s.crossPositions[idx] = s.crossPosition(cross)
	return sp.crossSpan
}

// itemStartLine walks back from line while the cell at cross still holds
// idx.
func (s *session) itemStartLine(idx, line, cross int) int {
	for {
		v, ok := s.info.Matrix.Get(line-1, cross)
		if !ok || v != idx {
			return line
		}
		line--
	}
}

// lineTail finds where placement stopped on a recorded line: the cross after
// the last item that starts on it and the index after that item. own is
// false when every cell belongs to an item started above.
func (s *session) lineTail(line int) (cross, next int, own bool) {
	last, lastCross := -1, -1
	for c, idx := range s.info.Matrix[line] {
		if idx > last || (idx == last && c > lastCross) {
			last, lastCross = idx, c
		}
	}
	if last < 0 || s.itemStartLine(last, line, lastCross) != line {
		return 0, 0, false
	}
	return lastCross + 1, last + 1, true
}

// resumeCross returns the cross where the item after the end index goes on
// line, or crossCount when line is closed. Cells left free before the tail
// stay free.
func (s *session) resumeCross(line int) int {
	cross, next, own := s.lineTail(line)
	if !own {
		next = s.info.EndIndex + 1
		for l := line - 1; s.info.Matrix.Has(l); l-- {
			if _, n, ok := s.lineTail(l); ok {
				next = n
				break
			}
		}
	}
	if next != s.info.EndIndex+1 {
		return s.crossCount
	}
	return cross
}

// lastLineItemFullyShowed reports whether every multi-line item on the end
// line ends on it.
func (s *session) lastLineItemFullyShowed() bool {
	for _, c := range s.info.Matrix.Cells(s.info.EndMainLine) {
		n, ok := s.store.Node(c.Index)
		if !ok {
			continue
		}
		sp := s.strategy.predictCrossSpan(s, c.Index, n)
		if sp.mainSpan == 1 {
			continue
		}
		start := s.itemStartLine(c.Index, s.info.EndMainLine, c.Cross)
		if start+sp.mainSpan > s.info.EndMainLine+1 {
			return false
		}
	}
	return true
}
