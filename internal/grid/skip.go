package grid

import "log/slog"

// skipLargeOffset jumps over lines when a scroll moves further than the
// cache window, instead of measuring every item in between.
func (s *session) skipLargeOffset() {
	if s.count() == 0 || s.info.JumpIndex != EmptyJumpIndex {
		return
	}
	threshold := float64(max(s.cachedLines(), 1)) * s.mainSize
	switch {
	case greatOrEqual(s.info.PrevOffset-s.info.CurrentOffset, threshold):
		s.skipTowardEnd(threshold)
	case greatOrEqual(s.info.CurrentOffset-s.info.PrevOffset, threshold):
		s.skipTowardStart(threshold)
	}
}

func (s *session) skipTowardEnd(threshold float64) {
	if s.info.EndIndex >= s.count()-1 {
		return
	}
	// the whole recorded viewport scrolled out
	passed := s.info.TotalHeightOfItemsInView(s.mainGap) + s.mainGap
	if greatOrEqual(passed, -s.info.CurrentOffset) {
		return
	}
	s.info.CurrentOffset += passed
	next := s.info.EndIndex + 1
	s.info.StartMainLine = s.info.EndMainLine + 1

	atLast := false
	for greatOrEqual(-s.info.CurrentOffset, threshold) {
		line := s.info.StartMainLine
		h, ok := s.info.LineHeights[line]
		if !ok || !s.info.Matrix.Has(line) {
			break
		}
		last := s.info.Matrix.maxIndex(line)
		// the line holding the last item stays the start line
		if last >= s.count()-1 {
			atLast = true
			break
		}
		next = max(next, last+1)
		s.info.CurrentOffset += h + s.mainGap
		s.info.StartMainLine++
	}

	if idx, ok := s.info.Matrix.FirstItem(s.info.StartMainLine); ok {
		s.info.StartIndex = idx
	} else {
		s.info.StartIndex = next
	}
	s.info.EndIndex = s.info.StartIndex - 1
	s.info.EndMainLine = s.info.StartMainLine
	s.info.PrevOffset = s.info.CurrentOffset

	if !atLast && greatOrEqual(-s.info.CurrentOffset, threshold) {
		s.strategy.skipLargeOffset(s, true)
		s.estimated()
	}
}

func (s *session) skipTowardStart(threshold float64) {
	for greatOrEqual(s.info.CurrentOffset, threshold) {
		line := s.info.StartMainLine - 1
		h, ok := s.info.LineHeights[line]
		if !ok {
			break
		}
		idx, ok := s.info.Matrix.FirstItem(line)
		if !ok {
			break
		}
		s.info.StartMainLine = line
		s.info.StartIndex = idx
		s.info.CurrentOffset -= h + s.mainGap
	}
	s.info.PrevOffset = s.info.CurrentOffset

	if greatOrEqual(s.info.CurrentOffset, threshold) && s.info.StartIndex > 0 {
		s.strategy.skipLargeOffset(s, false)
		s.estimated()
	}
}

// estimated drops the record after the start index was estimated, so the
// next reload measures from there.
func (s *session) estimated() {
	s.info.StartIndex = min(max(s.info.StartIndex, 0), s.count()-1)
	s.info.PrevOffset = s.info.CurrentOffset
	s.info.Matrix = Matrix{}
	clear(s.info.LineHeights)
	clear(s.info.IrregularPositions)
	s.updatedFrom = 0
	s.reason = ReasonSkipLargeOffset
	slog.Debug("Grid start index estimated", "start", s.info.StartIndex, "offset", s.info.CurrentOffset)
}

// skipRegularLines estimates whole lines of equal items.
func (s *session) skipRegularLines(forward bool) {
	lh := s.info.AverageLineHeight() + s.mainGap
	if lessOrEqual(lh, 0) {
		return
	}
	lines := int(s.info.CurrentOffset / lh)
	if !forward && s.info.StartIndex < lines*s.crossCount {
		s.info.StartIndex = 0
		s.info.CurrentOffset = 0
		return
	}
	s.info.StartIndex -= lines * s.crossCount
	s.info.CurrentOffset -= lh * float64(lines)
}

// skipIrregularLines estimates items from the average main size per item.
func (s *session) skipIrregularLines(bool) {
	avg := s.info.AverageHeightPerItem(s.mainGap)
	if lessOrEqual(avg, 0) {
		return
	}
	items := int(s.info.CurrentOffset / avg)
	s.info.StartIndex -= items
	s.info.CurrentOffset -= float64(items) * avg
	if s.info.StartIndex <= 0 {
		s.info.StartIndex = 0
		s.info.CurrentOffset = min(s.info.CurrentOffset, 0)
	}
}

// skipStartIndexByOffset walks the line model of o to the line at the
// scrolled position. Irregular lines take one line each.
func (s *session) skipStartIndexByOffset(o *optionsStrategy, _ bool) {
	lh := s.info.AverageLineHeight() + s.mainGap
	if lessOrEqual(lh, 0) || s.crossCount == 0 {
		return
	}
	m := lineModel{o: o, crossCount: s.crossCount, lineHeight: lh}
	target := m.position(s.info.StartIndex) - s.info.CurrentOffset
	if lessOrEqual(target, 0) {
		s.info.StartIndex = 0
		s.info.CurrentOffset = 0
		return
	}
	idx, pos := m.locate(target, s.count())
	s.info.StartIndex = idx
	s.info.CurrentOffset = -(target - pos)
}
