package grid

import "log/slog"

// updateLayoutInfoForJump moves the record to a pending jump target.
func (s *session) updateLayoutInfoForJump() {
	if s.info.JumpIndex < 0 && s.info.JumpIndex != LastItem {
		return
	}
	count := s.count()
	if count == 0 {
		return
	}
	if s.info.JumpIndex == LastItem || s.info.JumpIndex >= count {
		s.info.JumpIndex = count - 1
	}
	target := s.info.JumpIndex

	s.canOverScrollStart = false
	s.canOverScrollEnd = false
	switch s.info.ScrollAlign {
	case AlignStart, AlignCenter, AlignEnd:
		s.scrollToIndexStart(target)
	default:
		s.scrollToIndexAuto(target)
	}
}

// scrollToIndexStart makes the line of target the start line.
func (s *session) scrollToIndexStart(target int) {
	if line, ok := s.info.Matrix.LineOf(target); ok {
		if line == s.info.StartMainLine {
			s.info.PrevOffset = s.info.CurrentOffset
			s.info.CurrentOffset = 0
			s.info.ResetPositionFlags()
			return
		}
		s.info.StartMainLine = line
		s.info.UpdateStartIndexByStartLine()
		s.info.PrevOffset = 0
		s.info.CurrentOffset = 0
		s.info.ResetPositionFlags()
		return
	}
	if _, ok := s.targetOutsideMatrix(target); !ok {
		return
	}
	s.jumpOutsideMatrix(target)
}

// scrollToIndexAuto scrolls the least needed to show target fully.
func (s *session) scrollToIndexAuto(target int) {
	if line, ok := s.info.Matrix.LineOf(target); ok {
		if line == s.info.StartMainLine && s.info.StartMainLine == s.info.EndMainLine {
			// the line fills the whole viewport
			return
		}
		if line < s.info.EndMainLine && line > s.info.StartMainLine {
			return
		}
		if line >= s.info.EndMainLine {
			total := s.info.TotalHeightOfItemsInView(s.mainGap)
			if s.isEndLineInScreenWithGap(line, total) {
				return
			}
			s.info.ScrollAlign = AlignEnd
		}
		s.info.StartMainLine = line
		s.info.UpdateStartIndexByStartLine()
		s.info.PrevOffset = 0
		s.info.CurrentOffset = 0
		s.info.ResetPositionFlags()
		return
	}

	afterEnd, ok := s.targetOutsideMatrix(target)
	if !ok {
		return
	}
	s.jumpOutsideMatrix(target)
	if afterEnd {
		s.moveToEndLineIndex = target
	}
}

// targetOutsideMatrix reports whether target lies after the recorded items.
// ok is false when target sits in a hole inside the record.
func (s *session) targetOutsideMatrix(target int) (afterEnd, ok bool) {
	first, last, recorded := s.info.Matrix.Bounds()
	if !recorded {
		return true, true
	}
	firstItem, _ := s.info.Matrix.FirstItem(first)
	lastItem, _ := s.info.Matrix.LastItem(last)
	switch {
	case target < firstItem:
		return false, true
	case target > lastItem:
		return true, true
	default:
		return false, false
	}
}

// jumpOutsideMatrix drops the record and restarts it at the line of target.
func (s *session) jumpOutsideMatrix(target int) {
	s.updatedFrom = 0
	s.reason = ReasonScrollToIndex
	line, head := s.strategy.targetIndexInfo(s, target)
	s.info.StartMainLine = line
	s.info.StartIndex = head
	s.info.EndIndex = head - 1
	s.info.PrevOffset = 0
	s.info.CurrentOffset = 0
	s.info.ResetPositionFlags()
	s.info.Matrix = Matrix{}
	clear(s.info.LineHeights)
	clear(s.info.IrregularPositions)
}

// updateCurrentOffsetForJumpTo aligns the jump target once its line is
// recorded.
func (s *session) updateCurrentOffsetForJumpTo() {
	if s.info.ScrollAlign == AlignCenter || s.info.ScrollAlign == AlignEnd {
		if line, ok := s.info.Matrix.LineOf(s.info.JumpIndex); ok {
			s.info.CurrentOffset = s.mainSize - s.info.LineHeights[line] - s.info.ContentEndPadding
			if s.info.ScrollAlign == AlignCenter {
				s.info.CurrentOffset /= 2
			}
			s.info.PrevOffset = s.info.CurrentOffset
		} else {
			slog.Warn("Jump target is not in the grid record", "index", s.info.JumpIndex)
		}
	}
	if s.info.ExtraOffset != nil && s.info.TargetIndex == nil {
		s.info.CurrentOffset += *s.info.ExtraOffset
		s.info.PrevOffset = s.info.CurrentOffset
	}
}

// supplyAllDataToZeroIndex records every line from item zero to the target
// index into a copy of the record. The copy is what a smooth jump measures
// its distance on; the live record is left as it was.
func (s *session) supplyAllDataToZeroIndex() {
	saved := s.info.Clone()
	target := *s.info.TargetIndex
	startLine, endLine := saved.StartMainLine, saved.EndMainLine

	for line := range s.info.Matrix {
		if line < startLine || line > endLine {
			delete(s.info.Matrix, line)
		}
	}
	for line := range s.info.LineHeights {
		if line < startLine || line > endLine {
			delete(s.info.LineHeights, line)
		}
	}

	if saved.StartIndex > 0 {
		shift := s.lineShift
		s.currentMainLine = startLine
		for {
			lh := s.fillLineAtStart()
			if lessNotEqual(lh, 0) {
				break
			}
			s.info.LineHeights[s.info.StartMainLine] = lh
		}
		// the copy keeps its position; only the lines above were added
		moved := s.lineShift - shift
		s.info.StartMainLine = startLine + moved
		s.info.StartIndex = saved.StartIndex
		s.info.CurrentOffset = saved.CurrentOffset
		s.info.PrevOffset = saved.PrevOffset
		s.info.ReachStart = saved.ReachStart
	}

	if saved.EndIndex < target {
		s.currentMainLine = s.info.EndMainLine
		for {
			if lessNotEqual(s.fillLineAtEnd(), 0) {
				break
			}
			if _, ok := s.info.Matrix.LineOf(target); ok {
				break
			}
		}
	}

	if extra := s.info.ExtraOffset; extra != nil && *extra < 0 {
		// record enough lines after the target to scroll past it
		if line, ok := s.info.Matrix.LineOf(target); ok {
			s.currentMainLine = max(s.info.EndMainLine, line)
			covered := s.info.LineHeights[line] + s.mainGap
			for greatOrEqual(-*extra, covered) {
				lh := s.fillLineAtEnd()
				if lessNotEqual(lh, 0) {
					break
				}
				covered += lh + s.mainGap
			}
		}
	}

	s.infoCopy = s.info
	s.info = saved
}
