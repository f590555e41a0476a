package grid

import (
	"log/slog"
	"maps"
)

// fillViewport measures recorded lines and adds new ones until the viewport
// is covered or the data runs out.
func (s *session) fillViewport() {
	s.info.TrimToCount(s.count())
	s.updateLayoutInfoForJump()
	if s.info.TargetIndex != nil {
		s.supplyAllDataToZeroIndex()
	}
	if s.enableSkipping {
		s.skipLargeOffset()
	}
	if s.info.LastCrossCount == 0 {
		s.info.LastCrossCount = s.crossCount
		s.reason = ReasonInit
	}

	s.checkReset()

	s.updateCurrentOffsetForJumpTo()
	s.info.JumpIndex = EmptyJumpIndex
	s.info.ScrollAlign = AlignAuto

	mainLength := s.measureRecordedItems()

	s.fillBlankAtEnd(&mainLength)
	s.dropLinesBeforeViewport()
	if s.info.ReachEnd {
		s.modifyCurrentOffsetWhenReachEnd()
	}

	newLines := s.fillBlankAtStart()
	if s.info.ReachStart {
		offset := s.info.CurrentOffset
		if (nonNegative(offset) && !s.canOverScrollStart) || (nonPositive(offset) && !s.canOverScrollEnd) {
			s.info.CurrentOffset = 0
			s.info.PrevOffset = 0
		}
		if !newLines {
			if s.canOverScrollStart {
				s.info.UpdateEndIndex(offset, s.mainSize, s.mainGap)
			}
			s.finishFill()
			return
		}
		// the start line may be shorter than the blank it filled
		mainLength -= offset
		s.currentMainLine = s.info.EndMainLine
		if s.useCurrentLines(&mainLength) {
			s.fillBlankAtEnd(&mainLength)
			if s.info.ReachEnd {
				s.modifyCurrentOffsetWhenReachEnd()
			}
		}
	}
	s.finishFill()
}

func (s *session) finishFill() {
	s.info.SyncIndexRange()
	s.updatedFrom = -1
	s.info.TargetIndex = nil
	s.info.ExtraOffset = nil
}

func (s *session) measureRecordedItems() float64 {
	s.currentMainLine = s.info.StartMainLine - 1
	mainLength := s.info.CurrentOffset
	// at the first line a positive offset is blank, not content
	if s.info.StartMainLine == 0 && positive(mainLength) {
		mainLength = 0
	}
	s.useCurrentLines(&mainLength)
	return mainLength
}

// useCurrentLines measures recorded lines from the line after
// currentMainLine. It reports whether the record ran out before the
// viewport was covered.
func (s *session) useCurrentLines(mainLength *float64) bool {
	runOut := false
	endIdx := -1
	for lessNotEqual(*mainLength, s.mainSize) {
		s.currentMainLine++
		if !s.measureExistingLine(s.currentMainLine, mainLength, &endIdx) {
			runOut = true
			break
		}
	}
	if runOut {
		s.currentMainLine--
	}
	s.info.EndMainLine = s.currentMainLine
	s.info.ReachEnd = s.info.EndIndex == s.count()-1
	if !s.info.ReachEnd {
		s.info.OffsetEnd = false
	}
	return runOut
}

func (s *session) measureExistingLine(line int, mainLength *float64, endIdx *int) bool {
	if !s.info.Matrix.Has(line) {
		return false
	}
	if _, ok := s.info.LineHeights[line]; !ok {
		return false
	}
	prev := -1
	s.cellAveLength = -1
	for _, c := range s.info.Matrix.Cells(line) {
		if c.Index == prev {
			continue
		}
		prev = c.Index
		n := s.store.Child(c.Index, true)
		if n == nil {
			break
		}
		cross := s.info.Matrix.firstCross(line, c.Index, c.Cross)
		s.measureChildPlaced(c.Index, n, cross)
		s.largeItemLineHeight(n)
		*endIdx = max(c.Index, *endIdx)
		s.info.EndIndex = *endIdx
	}

	if nonNegative(s.cellAveLength) {
		s.info.LineHeights[line] = s.cellAveLength
		*mainLength += s.cellAveLength + s.mainGap
	}
	// the line scrolled out above the viewport
	if lessNotEqual(*mainLength, 0) || (nearZero(*mainLength) && positive(s.cellAveLength)) {
		s.info.CurrentOffset = *mainLength
		s.info.PrevOffset = s.info.CurrentOffset
		s.info.StartMainLine = line + 1
		s.updateStartIndexByStartLine()
	}
	return true
}

// dropLinesBeforeViewport moves the start past new lines that were added
// after a skip but end above the leading edge.
func (s *session) dropLinesBeforeViewport() {
	for s.info.StartMainLine < s.info.EndMainLine {
		h, ok := s.info.LineHeights[s.info.StartMainLine]
		if !ok || greatNotEqual(s.info.CurrentOffset+h+s.mainGap, 0) {
			return
		}
		s.info.CurrentOffset += h + s.mainGap
		s.info.PrevOffset = s.info.CurrentOffset
		s.info.StartMainLine++
		s.updateStartIndexByStartLine()
	}
}

// updateStartIndexByStartLine falls back to the item after the end when the
// start line is not recorded yet.
func (s *session) updateStartIndexByStartLine() {
	if idx, ok := s.info.Matrix.FirstItem(s.info.StartMainLine); ok {
		s.info.StartIndex = idx
		return
	}
	if s.info.EndIndex < s.count()-1 {
		s.info.StartIndex = s.info.EndIndex + 1
	}
}

func (s *session) fillBlankAtEnd(mainLength *float64) {
	s.fillCurrentLine()

	if greatNotEqual(*mainLength, s.mainSize) {
		if s.isScrollToEndLine() {
			slog.Debug("Scrolled to end line", "index", s.moveToEndLineIndex)
			s.moveToEndLineIndex = -1
		}
		return
	}
	for lessNotEqual(*mainLength, s.mainSize) {
		lh := s.fillLineAtEnd()
		if greatOrEqual(lh, 0) {
			*mainLength += lh + s.mainGap
			continue
		}
		s.info.ReachEnd = true
		return
	}
	s.info.ReachEnd = s.info.EndIndex == s.count()-1
}

// fillCurrentLine completes the current line when placement stopped on it
// before the next item was tried.
func (s *session) fillCurrentLine() {
	line := s.currentMainLine
	if !s.info.Matrix.Has(line) {
		return
	}
	s.lastCross = s.resumeCross(line)
	if s.lastCross >= s.crossCount {
		return
	}
	s.cellAveLength = -1
	if h, ok := s.info.LineHeights[line]; ok {
		s.cellAveLength = h
	}
	done := false
	for cur := s.info.EndIndex + 1; cur < s.count() && s.lastCross < s.crossCount; cur++ {
		n := s.store.Child(cur, true)
		if n == nil || s.measureNewChild(cur, n) < 0 {
			break
		}
		s.largeItemLineHeight(n)
		s.info.EndIndex = cur
		done = true
	}
	if done {
		s.info.LineHeights[line] = s.cellAveLength
	}
}

// fillLineAtEnd places items on the line after currentMainLine and returns
// its height, or a negative value when nothing could be placed.
func (s *session) fillLineAtEnd() float64 {
	s.cellAveLength = -1
	if s.isScrollToEndLine() {
		slog.Debug("Scrolled to end line", "index", s.moveToEndLineIndex)
		s.moveToEndLineIndex = -1
		return s.cellAveLength
	}
	cur := s.info.EndIndex + 1
	s.currentMainLine++
	line := s.currentMainLine
	if h, ok := s.info.LineHeights[line]; ok && s.info.Matrix.Has(line) {
		s.cellAveLength = h
	} else if h, ok := s.info.LineHeights[line-1]; ok && s.info.Matrix.Has(line) {
		// a multi-line item from above already occupies this line
		s.cellAveLength = h
	}
	s.lastCross = 0
	if s.info.Matrix.Has(line) {
		s.lastCross = s.resumeCross(line)
	}
	done := false

	count := s.count()
	for i := s.lastCross; i < s.crossCount; i++ {
		if cur >= count {
			break
		}
		n := s.store.Child(cur, true)
		if n == nil {
			slog.Warn("Grid item could not be built", "index", cur, "count", count)
			s.largeItemNextLineHeight(line)
			break
		}
		span := s.measureNewChild(cur, n)
		if span < 0 {
			if lessNotEqual(s.cellAveLength, 0) {
				s.cellAveLength = s.info.LineHeights[line-1]
			}
			break
		}
		i = s.lastCross - 1
		s.largeItemLineHeight(n)
		s.info.EndIndex = cur
		cur++
		done = true
	}

	if (done || s.info.Matrix.Has(line)) && nonNegative(s.cellAveLength) {
		s.info.LineHeights[line] = s.cellAveLength
		s.info.EndMainLine = line
		return s.cellAveLength
	}
	s.currentMainLine--
	return -1
}

// largeItemNextLineHeight folds the items already recorded on line into the
// line height.
func (s *session) largeItemNextLineHeight(line int) {
	cells := s.info.Matrix.Cells(line)
	for i := len(cells) - 1; i >= 0; i-- {
		idx := cells[i].Index
		n := s.store.Child(idx, true)
		if n == nil {
			break
		}
		s.adjustSpan(idx, n)
		s.largeItemLineHeight(n)
	}
}

// fillBlankAtStart adds lines before the start line while the offset leaves
// blank space at the leading edge.
func (s *session) fillBlankAtStart() bool {
	if lessOrEqual(s.info.CurrentOffset, 0) {
		return false
	}
	filled := false
	blank := s.info.CurrentOffset
	for greatNotEqual(blank, 0) || s.info.StartIndex > s.count()-1 {
		lh := s.fillLineAtStart()
		if greatOrEqual(lh, 0) {
			s.info.LineHeights[s.info.StartMainLine] = lh
			blank -= lh + s.mainGap
			filled = true
			continue
		}
		s.info.ReachStart = true
		break
	}

	s.completeStartLine()

	s.info.CurrentOffset = blank
	s.info.PrevOffset = blank
	return filled
}

// completeStartLine measures the line before a partially recorded start line
// without moving the start. A multi-line item starting above would otherwise
// be missing.
func (s *session) completeStartLine() {
	row, ok := s.info.Matrix[s.info.StartMainLine]
	if !ok || len(row) == 0 {
		return
	}
	if len(row) >= s.crossCount || s.info.StartIndex == 0 {
		return
	}
	startIndex, startLine := s.info.StartIndex, s.info.StartMainLine
	curLine, reachStart := s.currentMainLine, s.info.ReachStart
	shift := s.lineShift

	if lh := s.fillLineAtStart(); greatOrEqual(lh, 0) {
		s.info.LineHeights[s.info.StartMainLine] = lh
	}

	moved := s.lineShift - shift
	s.info.StartIndex = startIndex
	s.info.StartMainLine = startLine + moved
	s.currentMainLine = curLine + moved
	s.info.ReachStart = reachStart
}

// fillLineAtStart measures the line before the start line, recording it
// first when needed, and returns its height or a negative value at the start
// of the data.
func (s *session) fillLineAtStart() float64 {
	s.cellAveLength = -1
	cur := s.info.StartIndex
	if s.info.StartMainLine-1 < 0 {
		if cur == 0 {
			return s.cellAveLength
		}
		s.updateMatrixForAddedItems()
	}
	s.info.StartMainLine--
	line := s.info.StartMainLine
	if !s.info.Matrix.Has(line) {
		s.addLinesAtStart(cur)
		line = s.info.StartMainLine
	}
	if !s.info.Matrix.Has(line) {
		s.info.StartMainLine++
		return s.cellAveLength
	}

	cells := s.info.Matrix.Cells(line)
	prev := -1
	for i := len(cells) - 1; i >= 0; i-- {
		idx := cells[i].Index
		if idx == prev {
			continue
		}
		prev = idx
		n := s.store.Child(idx, true)
		if n == nil {
			break
		}
		s.measureChildPlaced(idx, n, s.info.Matrix.firstCross(line, idx, cells[i].Cross))
		s.largeItemLineHeight(n)
		s.info.StartIndex = idx
	}

	done := greatOrEqual(s.cellAveLength, 0)
	s.info.ReachStart = !done
	if !done {
		s.info.StartMainLine++
	}
	return s.cellAveLength
}

// updateMatrixForAddedItems moves every recorded line down by one so that a
// line can be added before line zero.
func (s *session) updateMatrixForAddedItems() {
	s.shiftLines(1)
	slog.Debug("Grid lines shifted for items added at start", "start_line", s.info.StartMainLine)
}

func (s *session) shiftLines(delta int) {
	s.info.Matrix = s.info.Matrix.shift(delta)
	s.info.LineHeights = shiftHeights(s.info.LineHeights, delta)
	s.info.StartMainLine += delta
	s.info.EndMainLine += delta
	s.currentMainLine += delta
	s.lineShift += delta
}

// addLinesAtStart records the lines before the start line. Placement is only
// known forward, so the lines are laid out in a scratch matrix from the head
// of the line holding cur-1 through the start line. The new lines are taken
// over when the scratch agrees with the recorded start line; otherwise the
// record was laid from another head and the scratch replaces it.
func (s *session) addLinesAtStart(cur int) {
	first := s.strategy.startingItem(s, cur-1)
	n := s.store.Child(first, true)
	if n == nil {
		return
	}
	s.adjustSpan(first, n)
	mainSpan := s.span.mainSpan

	oldStart := s.info.StartMainLine + 1
	target := cur - 1
	for _, idx := range s.info.Matrix[oldStart] {
		target = max(target, idx)
	}
	scratch, heights := s.layScratch(first, target, mainSpan)
	anchor, ok := scratch.LineOf(cur - 1)
	if !ok {
		return
	}
	delta := s.info.StartMainLine - anchor

	if s.matchesRecord(scratch, delta) {
		low := s.info.StartMainLine
		for line, row := range scratch {
			t := line + delta
			if t > s.info.StartMainLine {
				continue
			}
			low = min(low, t)
			s.info.Matrix[t] = maps.Clone(row)
			if h, ok := heights[line]; ok {
				s.info.LineHeights[t] = h
			}
		}
		for line := range s.info.Matrix {
			if line < low {
				delete(s.info.Matrix, line)
				delete(s.info.LineHeights, line)
			}
		}
	} else {
		if s.info.EndIndex > target {
			scratch, heights = s.layScratch(first, s.info.EndIndex, mainSpan)
		}
		s.replaceRecord(scratch, heights, delta, cur)
	}
	if first, _, ok := s.info.Matrix.Bounds(); ok && first < 0 {
		s.shiftLines(-first)
	}
}

// layScratch lays out items from first in an empty matrix until target is
// placed and returns the lines. The session record is left as it was.
func (s *session) layScratch(first, target, mainSpan int) (Matrix, map[int]float64) {
	endLine, endIndex, curLine := s.info.EndMainLine, s.info.EndIndex, s.currentMainLine
	toEnd := s.moveToEndLineIndex
	matrix, heights := s.info.Matrix, s.info.LineHeights
	s.info.Matrix, s.info.LineHeights = Matrix{}, map[int]float64{}
	s.currentMainLine = -1
	s.info.EndIndex = first - 1
	s.moveToEndLineIndex = -1

	added := 0
	for s.info.EndIndex < target || mainSpan > added {
		lh := s.fillLineAtEnd()
		added++
		if lessNotEqual(lh, 0) {
			break
		}
	}

	scratch, scratchHeights := s.info.Matrix, s.info.LineHeights
	s.info.Matrix, s.info.LineHeights = matrix, heights
	s.info.EndMainLine, s.info.EndIndex, s.currentMainLine = endLine, endIndex, curLine
	s.moveToEndLineIndex = toEnd
	return scratch, scratchHeights
}

// matchesRecord reports whether the scratch lines after the start line agree
// with the record once moved by delta. The line after the start line must
// match exactly; later lines only hold cells reaching down from above.
func (s *session) matchesRecord(scratch Matrix, delta int) bool {
	for line, row := range scratch {
		t := line + delta
		if t <= s.info.StartMainLine {
			continue
		}
		rec := s.info.Matrix[t]
		for cross, idx := range row {
			if v, ok := rec[cross]; !ok || v != idx {
				return false
			}
		}
		if t == s.info.StartMainLine+1 && len(rec) != len(row) {
			return false
		}
	}
	return true
}

// replaceRecord makes the scratch the whole record. Line numbers saved by
// callers follow the line of cur through lineShift.
func (s *session) replaceRecord(scratch Matrix, heights map[int]float64, delta, cur int) {
	oldStart := s.info.StartMainLine + 1
	s.info.Matrix = scratch.shift(delta)
	s.info.LineHeights = shiftHeights(heights, delta)
	_, last, _ := s.info.Matrix.Bounds()
	if line, ok := s.info.Matrix.LineOf(s.info.EndIndex); ok {
		s.info.EndMainLine = line
	} else {
		s.info.EndMainLine = last
		s.info.EndIndex = -1
		for line := range s.info.Matrix {
			s.info.EndIndex = max(s.info.EndIndex, s.info.Matrix.maxIndex(line))
		}
	}
	s.currentMainLine = min(s.currentMainLine, s.info.EndMainLine)
	if line, ok := s.info.Matrix.LineOf(cur); ok {
		s.lineShift += line - oldStart
	}
	slog.Debug("Grid record rebuilt from line head", "index", cur, "start_line", s.info.StartMainLine, "end_line", s.info.EndMainLine)
}

// modifyCurrentOffsetWhenReachEnd pulls the content back so that the last
// line ends at the trailing edge.
func (s *session) modifyCurrentOffsetWhenReachEnd() {
	mainSize := s.mainSize - s.info.ContentEndPadding
	length := s.info.TotalHeightOfItemsInView(s.mainGap)
	cur := s.info.CurrentOffset
	clamped := (nonNegative(cur) && !s.canOverScrollStart) || (nonPositive(cur) && !s.canOverScrollEnd)

	if lessNotEqual(s.info.PrevOffset, cur) {
		if clamped {
			s.info.ReachEnd = false
			return
		}
		if !s.childrenUpdated && lessNotEqual(length, mainSize) {
			return
		}
	}

	if lessNotEqual(length, mainSize) && s.info.StartIndex == 0 {
		if clamped || s.childrenUpdated {
			s.info.CurrentOffset = 0
			s.info.PrevOffset = 0
		}
		s.info.ReachStart = true
		s.info.OffsetEnd = lessOrEqual(s.info.CurrentOffset+length, mainSize)
		return
	}

	if greatNotEqual(s.info.CurrentOffset+length, mainSize) {
		s.info.OffsetEnd = false
		return
	}

	if s.info.HasMultiLineItem && s.info.EndIndex == s.count()-1 && !s.lastLineItemFullyShowed() {
		s.info.OffsetEnd = false
		return
	}

	if !s.canOverScrollEnd {
		s.info.CurrentOffset = mainSize - length
		s.info.PrevOffset = s.info.CurrentOffset
	}
	s.info.OffsetEnd = true
}

func (s *session) isScrollToEndLine() bool {
	return s.moveToEndLineIndex > 0 && s.info.EndIndex >= s.moveToEndLineIndex
}

func (s *session) isEndLineInScreenWithGap(line int, total float64) bool {
	return line == s.info.EndMainLine && lessOrEqual(total+s.info.CurrentOffset, s.mainSize)
}
