package grid

// placementStrategy holds the operations that differ between grids placed
// by item properties and grids placed by LayoutOptions. One strategy is
// picked per layout pass.
type placementStrategy interface {
	// resolveCrossSpan returns the placement request of the item at idx.
	resolveCrossSpan(s *session, idx int, n *Node) itemSpan
	// predictCrossSpan is resolveCrossSpan without touching any layout state.
	predictCrossSpan(s *session, idx int, n *Node) itemSpan
	// startingItem returns the first item of the line holding idx.
	startingItem(s *session, idx int) int
	// skipLargeOffset estimates the start index after a large scroll.
	skipLargeOffset(s *session, forward bool)
	// calculateCachedCount returns how many items the cache window holds
	// before the start and after the end.
	calculateCachedCount(s *session, cachedLines int) (int, int)
	// targetIndexInfo returns the line of target and the first item of that
	// line, walking from the recorded matrix.
	targetIndexInfo(s *session, target int) (line, head int)
	hasOptions() bool
}

func newStrategy(o Options) placementStrategy {
	if o.LayoutOptions != nil && len(o.LayoutOptions.IrregularIndexes) > 0 {
		return newOptionsStrategy(o.LayoutOptions)
	}
	return regularStrategy{}
}

// regularStrategy places items by their row and column properties.
type regularStrategy struct{}

func (regularStrategy) hasOptions() bool { return false }

func (regularStrategy) resolveCrossSpan(s *session, _ int, n *Node) itemSpan {
	sp := propsSpan(n.props, s.axis, s.crossCount)
	if sp.crossStart >= 0 {
		s.info.HasBigItem = true
	}
	return sp
}

func (regularStrategy) predictCrossSpan(s *session, _ int, n *Node) itemSpan {
	return propsSpan(n.props, s.axis, s.crossCount)
}

func (r regularStrategy) startingItem(s *session, idx int) int {
	idx = min(idx, s.count()-1)
	for i := idx; i > 0; i-- {
		n := s.store.Child(i, true)
		if n == nil {
			break
		}
		sp := propsSpan(n.props, s.axis, s.crossCount)
		if s.info.HasBigItem {
			if sp.crossStart == 0 {
				return i
			}
			continue
		}
		if sp.crossStart >= 0 {
			s.info.HasBigItem = true
			return r.startingItem(s, idx)
		}
		if i%s.crossCount == 0 {
			return i
		}
	}
	return 0
}

func (regularStrategy) skipLargeOffset(s *session, forward bool) {
	if s.info.HasBigItem {
		s.skipIrregularLines(forward)
		return
	}
	s.skipRegularLines(forward)
}

func (regularStrategy) calculateCachedCount(s *session, cachedLines int) (int, int) {
	if cachedLines <= 0 || s.crossCount == 0 {
		return 0, 0
	}
	return cachedLines * s.crossCount, cachedLines * s.crossCount
}

func (regularStrategy) targetIndexInfo(s *session, target int) (int, int) {
	if !s.info.HasBigItem {
		return target / s.crossCount, target - target%s.crossCount
	}
	line, bench := s.benchMark(target)
	cursor, head := 0, bench
	for i := bench; i <= target; i++ {
		n := s.store.Child(i, true)
		if n == nil {
			break
		}
		sp := propsSpan(n.props, s.axis, s.crossCount)
		if sp.crossStart >= 0 {
			if sp.crossStart < cursor {
				line, cursor, head = line+1, 0, i
			}
			cursor = sp.crossStart
		}
		if i > bench && cursor+sp.crossSpan > s.crossCount {
			line, cursor, head = line+1, 0, i
		}
		cursor += sp.crossSpan
	}
	return line, head
}

// benchMark picks where a target walk starts: the line after the last
// recorded one, or line zero.
func (s *session) benchMark(target int) (line, index int) {
	_, last, ok := s.info.Matrix.Bounds()
	if !ok {
		return 0, 0
	}
	item, ok := s.info.Matrix.LastItem(last)
	if !ok || item+1 > target {
		return 0, 0
	}
	return last + 1, item + 1
}
