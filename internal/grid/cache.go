package grid

import "math"

// maxDefCachedCount caps the cache size derived from the page count.
const maxDefCachedCount = 16

// cachedLines is the number of lines kept on each side of the viewport.
func (s *session) cachedLines() int {
	if s.opts.CachedCount >= 0 {
		return s.opts.CachedCount
	}
	return s.info.DefCachedCount
}

// UpdateDefaultCachedCount derives the default cache size from the number
// of items in view. It only grows.
func (i *Info) UpdateDefaultCachedCount(pageCount float64) {
	if i.CrossCount == 0 || pageCount <= 0 {
		return
	}
	items := (i.EndIndex - i.StartIndex + 1) / i.CrossCount
	n := min(int(math.Ceil(pageCount*float64(items))), maxDefCachedCount)
	if i.DefCachedCount == 0 || n > i.DefCachedCount {
		i.DefCachedCount = n
	}
}

// enqueue adds idx to the preload list of this pass.
func (s *session) enqueue(idx int) {
	for _, v := range s.predictList {
		if v == idx {
			return
		}
	}
	s.predictList = append(s.predictList, idx)
}

// fillCacheLineAtEnd records the cache lines after the end line from items
// that are already built. The visible range is left untouched.
func (s *session) fillCacheLineAtEnd() {
	cached := s.cachedLines()
	if s.info.ReachEnd || cached == 0 {
		return
	}
	endIndex, endLine, curLine := s.info.EndIndex, s.info.EndMainLine, s.currentMainLine
	for i := 1; i <= cached; i++ {
		if lessNotEqual(s.fillCacheLine(endLine+i), 0) {
			break
		}
	}
	s.info.EndIndex, s.info.EndMainLine, s.currentMainLine = endIndex, endLine, curLine
}

// fillCacheLine records line from built items and returns its height. The
// first unbuilt item queues the rest of the line and stops with -1.
func (s *session) fillCacheLine(line int) float64 {
	s.currentMainLine = line
	s.cellAveLength = -1
	h, recorded := s.info.LineHeights[line]
	if recorded {
		s.cellAveLength = h
	}
	for _, c := range s.info.Matrix.Cells(line) {
		s.info.EndIndex = max(s.info.EndIndex, c.Index)
		if recorded {
			continue
		}
		if n, ok := s.store.Node(c.Index); ok {
			s.adjustSpan(c.Index, n)
			s.largeItemLineHeight(n)
		}
	}

	s.lastCross = 0
	if s.info.Matrix.Has(line) {
		s.lastCross = s.resumeCross(line)
	}
	count := s.count()
	for cur := s.info.EndIndex + 1; cur < count && s.lastCross < s.crossCount; cur++ {
		n, ok := s.store.Node(cur)
		if !ok {
			free := s.crossCount - s.lastCross
			for i := cur; i < min(cur+free, count); i++ {
				s.enqueue(i)
			}
			if nonNegative(s.cellAveLength) {
				s.info.LineHeights[line] = s.cellAveLength
			}
			return -1
		}
		if s.placeCachedChild(cur, n) < 0 {
			break
		}
		s.largeItemLineHeight(n)
		s.info.EndIndex = cur
	}
	if lessNotEqual(s.cellAveLength, 0) {
		return -1
	}
	s.info.LineHeights[line] = s.cellAveLength
	return s.cellAveLength
}

// addCacheItemsInFront queues the unbuilt items of the cache window before
// start.
func (s *session) addCacheItemsInFront(start, cnt int) {
	for idx := start - 1; idx >= max(start-cnt, 0); idx-- {
		if _, ok := s.store.Node(idx); !ok {
			s.enqueue(idx)
		}
	}
}

// syncPreload measures the cache lines on both sides during the pass. The
// visible range is restored afterwards.
func (s *session) syncPreload(cached int) {
	startIndex, startLine := s.info.StartIndex, s.info.StartMainLine
	endIndex, endLine := s.info.EndIndex, s.info.EndMainLine
	curLine, reachStart := s.currentMainLine, s.info.ReachStart
	shift := s.lineShift

	for i := range cached {
		if lh := s.fillLineAtStart(); greatOrEqual(lh, 0) {
			s.info.LineHeights[s.info.StartMainLine] = lh
		}
		moved := s.lineShift - shift
		line := endLine + moved + i + 1
		var length float64
		endIdx := s.info.EndIndex
		if !s.measureExistingLine(line, &length, &endIdx) {
			s.currentMainLine = line - 1
			if lessNotEqual(s.fillLineAtEnd(), 0) {
				break
			}
		}
	}

	moved := s.lineShift - shift
	s.info.StartIndex, s.info.StartMainLine = startIndex, startLine+moved
	s.info.EndIndex, s.info.EndMainLine = endIndex, endLine+moved
	s.currentMainLine, s.info.ReachStart = curLine+moved, reachStart
}
