package grid

import "log/slog"

// getResetMode decides how an update from updateIdx invalidates the record.
// It returns whether to reload from the start index and whether to reload
// from the updated item only.
func (s *session) getResetMode(updateIdx int) (fromStart, fromUpdate bool) {
	// no reset while over-scrolled past the end
	if s.info.IsOutOfEnd(s.mainGap) || updateIdx == -1 {
		return false, false
	}
	outOfMatrix := false
	if updateIdx < s.info.StartIndex {
		_, ok := s.info.Matrix.LineOf(updateIdx)
		outOfMatrix = !ok
	}
	hasOptions := s.strategy.hasOptions()
	return !s.info.HasBigItem || outOfMatrix || hasOptions,
		s.info.HasBigItem && !outOfMatrix && !hasOptions
}

// checkReset drops the parts of the record an update invalidated and
// measures back up to the start index.
func (s *session) checkReset() {
	updateIdx := s.updatedFrom
	fromStart, fromUpdate := s.getResetMode(updateIdx)
	switch {
	case s.info.LastCrossCount != s.crossCount || fromStart || s.info.IsResetted() || (s.count() > 0 && s.info.StartIndex >= s.count()):
		if s.info.LastCrossCount != s.crossCount {
			s.reason = ReasonCrossCountChange
		}
		s.info.LastCrossCount = s.crossCount
		clear(s.info.LineHeights)
		clear(s.info.IrregularPositions)
		s.info.Matrix = Matrix{}
		s.info.EndIndex = -1
		s.info.EndMainLine = 0
		s.info.PrevOffset = s.info.CurrentOffset
		s.info.ResetPositionFlags()
		s.info.HasMultiLineItem = false
		s.info.checks = 0
		s.childrenUpdated = true
		if s.count() > 0 {
			s.info.StartIndex = min(s.info.StartIndex, s.count()-1)
			s.reloadToStartIndex()
		} else {
			s.info.StartIndex = 0
			s.info.StartMainLine = 0
		}
		if s.isScrollToEndLine() {
			s.info.CurrentOffset = s.mainSize - s.info.LineHeights[s.info.EndMainLine]
			s.info.PrevOffset = s.info.CurrentOffset
		}
	case fromUpdate:
		s.childrenUpdated = true
		clear(s.info.IrregularPositions)
		s.info.ResetPositionFlags()
		s.info.PrevOffset = s.info.CurrentOffset
		line, ok := s.info.Matrix.LineOf(updateIdx)
		if !ok {
			// the updated item is past the record
			s.info.ClearMatrixToEnd(updateIdx, 0)
			return
		}
		s.info.ClearMatrixToEnd(updateIdx, line)
		s.info.ClearHeightsFromMatrix(line)
		if updateIdx <= s.info.StartIndex {
			s.reloadFromUpdateIdxToStartIndex(updateIdx, line)
		}
	}
}

// reloadToStartIndex records the lines from the head of the start line's
// line up to the start index.
func (s *session) reloadToStartIndex() {
	cur := s.info.StartIndex
	if !s.info.HasBigItem {
		s.info.StartMainLine = cur / s.crossCount
	}
	first := s.strategy.startingItem(s, cur)
	s.info.StartIndex = first
	base := s.info.StartMainLine
	if first == 0 {
		base = 0
	}
	s.currentMainLine = base - 1
	s.info.EndIndex = first - 1
	slog.Debug("Grid reload started", "first", first, "start", cur, "reason", s.reason)

	s.fillUpTo(cur)
	if s.reason == ReasonNone {
		s.reason = ReasonDataReload
	}
	slog.Debug("Grid reload finished", "start", s.info.StartIndex, "start_line", s.info.StartMainLine)
}

// reloadFromUpdateIdxToStartIndex records the lines from the updated item up
// to the start index.
func (s *session) reloadFromUpdateIdxToStartIndex(updateIdx, updateLine int) {
	cur := s.info.StartIndex
	s.info.StartIndex = updateIdx
	s.currentMainLine = updateLine - 1
	s.info.EndIndex = updateIdx - 1
	s.fillUpTo(cur)
}

func (s *session) fillUpTo(cur int) {
	for s.info.EndIndex < cur {
		if lessNotEqual(s.fillLineAtEnd(), 0) {
			s.info.ReachEnd = true
			break
		}
	}
	s.info.StartMainLine = s.currentMainLine
	s.info.UpdateStartIndexByStartLine()
	// a multi-line item can push the recorded start past cur
	for s.info.StartIndex > cur && s.info.Matrix.Has(s.info.StartMainLine-1) {
		s.info.StartMainLine--
		s.info.UpdateStartIndexByStartLine()
	}
}
