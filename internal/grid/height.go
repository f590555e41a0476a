package grid

import "math"

// adjustForMainSizeChange keeps the content in place when the viewport
// changed its main size since the last pass.
func (s *session) adjustForMainSizeChange() {
	if nearEqual(s.mainSize, s.info.LastMainSize) || nearZero(s.info.LastMainSize) {
		return
	}
	s.updateOffsetOnKeyboardHeightChange()
	s.updateOffsetOnHeightChangeDuringAnimation()
	s.info.ResetPositionFlags()
}

// updateOffsetOnKeyboardHeightChange scrolls the focused caret back into the
// viewport after it shrank, in whole lines.
func (s *session) updateOffsetOnKeyboardHeightChange() {
	if s.mainSize >= s.info.LastMainSize || s.axis != Vertical || s.caret == nil {
		return
	}
	y, ok := s.caret.FocusedCaret()
	if !ok {
		return
	}
	off := s.mainSize - y
	if greatOrEqual(off, 0) {
		return
	}
	if lh := s.info.AverageLineHeight(); positive(lh) {
		off = math.Floor(off/lh) * lh
	}
	s.info.CurrentOffset += off
	s.info.PrevOffset = s.info.CurrentOffset
}

// updateOffsetOnHeightChangeDuringAnimation keeps the trailing edge pinned
// while an over-scroll spring runs.
func (s *session) updateOffsetOnHeightChangeDuringAnimation() {
	if s.source == SourceNone {
		s.info.PrevOffset = s.info.CurrentOffset
	}
	if s.animator == nil || !s.animator.SpringRunning() || s.info.ReachStart {
		return
	}
	total := s.info.ContentHeight(s.mainGap)
	switch {
	case lessNotEqual(s.info.LastMainSize, total):
		s.info.CurrentOffset += s.mainSize - s.info.LastMainSize
	case lessNotEqual(s.mainSize, s.info.LastMainSize) && lessOrEqual(s.mainSize, total):
		s.info.CurrentOffset += s.mainSize - total
	}
}
