package grid

import (
	"math"
)

// ReloadReason tells why a pass rebuilt the matrix.
type ReloadReason int

const (
	ReasonNone ReloadReason = iota
	ReasonInit
	ReasonCrossCountChange
	ReasonDataReload
	ReasonScrollToIndex
	ReasonSkipLargeOffset
)

func (r ReloadReason) String() string {
	switch r {
	case ReasonInit:
		return "init"
	case ReasonCrossCountChange:
		return "cross_count_change"
	case ReasonDataReload:
		return "data_reload"
	case ReasonScrollToIndex:
		return "scroll_to_index"
	case ReasonSkipLargeOffset:
		return "skip_large_offset"
	default:
		return "none"
	}
}

// itemSpan is the placement request of the item being processed.
type itemSpan struct {
	mainStart  int
	mainSpan   int
	crossStart int
	crossSpan  int
}

var defaultSpan = itemSpan{mainStart: -1, mainSpan: 1, crossStart: -1, crossSpan: 1}

// session is the state of one layout pass. It is built by Grid.Layout and
// dropped when the pass ends; only info outlives it.
type session struct {
	info     *Info
	opts     Options
	store    *Store
	strategy placementStrategy

	axis       Axis
	frame      Size
	mainSize   float64
	crossSize  float64
	crossCount int
	crossSizes []float64
	mainGap    float64
	crossGap   float64

	currentMainLine int
	cellAveLength   float64
	lastCross       int
	span            itemSpan
	crossPositions  map[int]float64

	reason             ReloadReason
	updatedFrom        int
	childrenUpdated    bool
	moveToEndLineIndex int
	canOverScrollStart bool
	canOverScrollEnd   bool
	enableSkipping     bool

	predictList []int
	infoCopy    *Info

	animator Animator
	caret    CaretLocator
	source   ScrollSource
	pass     uint64
	// lineShift counts how far lines moved during the pass so that saved
	// line indexes can be restored.
	lineShift int

	// visible bounds found by the layout pass
	cacheStart int
	cacheEnd   int
}

func (s *session) count() int {
	return s.store.Count()
}

// initialItemsCrossSize resolves the cross tracks from the templates.
func (s *session) initialItemsCrossSize() {
	_, s.crossGap = s.opts.gaps()
	template := s.opts.crossTemplate()
	switch {
	case template == "" && s.opts.CellLength > 0:
		s.crossSizes = AdaptiveTracks(s.crossSize, s.crossGap, s.opts.CellLength, s.opts.MinCount, s.opts.MaxCount)
	default:
		s.crossSizes, s.crossGap = ParseTemplate(template, s.crossSize, s.crossGap)
	}
	s.crossCount = len(s.crossSizes)
	s.info.CrossCount = s.crossCount
	s.info.Axis = s.axis
}

// crossPosition is the cross offset of track cross.
func (s *session) crossPosition(cross int) float64 {
	var pos float64
	for i := 0; i < cross && i < len(s.crossSizes); i++ {
		pos += s.crossSizes[i] + s.crossGap
	}
	return pos
}

// crossExtent is the size of span tracks from crossStart, gaps included.
func crossExtent(sizes []float64, gap float64, crossStart, span int) float64 {
	if len(sizes) == 0 {
		return 0
	}
	crossStart = max(crossStart, 0)
	extent := gap * float64(span-1)
	for i := range span {
		extent += sizes[(crossStart+i)%len(sizes)]
	}
	return extent
}

// childConstraint builds the constraint of an item spanning crossSpan
// tracks from crossStart.
func (s *session) childConstraint(crossStart, crossSpan int) Constraint {
	cross := crossExtent(s.crossSizes, s.crossGap, crossStart, crossSpan)
	return Constraint{
		MaxSize:          sizeOf(math.Inf(1), cross, s.axis),
		PercentReference: sizeOf(s.mainSize, cross, s.axis),
		CrossSize:        cross,
		Axis:             s.axis,
	}
}

// measureChild measures n at crossStart with the current span.
func (s *session) measureChild(idx int, n *Node, crossStart int) {
	n.measure(s.childConstraint(crossStart, s.span.crossSpan))
	s.crossPositions[idx] = s.crossPosition(max(crossStart, 0))
}

// largeItemLineHeight folds the main size of n into the line height.
func (s *session) largeItemLineHeight(n *Node) {
	main := n.size.MainSize(s.axis)
	if s.span.mainSpan > 1 {
		main = (main - s.mainGap*float64(s.span.mainSpan-1)) / float64(s.span.mainSpan)
	}
	s.cellAveLength = math.Max(s.cellAveLength, main)
}

// adjustSpan resolves the placement request of item idx.
func (s *session) adjustSpan(idx int, n *Node) {
	s.span = s.strategy.resolveCrossSpan(s, idx, n)
	if s.span.mainSpan > 1 || s.span.crossSpan > 1 {
		s.info.HasBigItem = true
	}
	if s.span.mainSpan > 1 {
		s.info.HasMultiLineItem = true
	}
}

// propsSpan resolves explicit item placement for the given axis.
func propsSpan(p ItemProps, axis Axis, crossCount int) itemSpan {
	mainStart, mainEnd, crossStart, crossEnd := p.RowStart, p.RowEnd, p.ColumnStart, p.ColumnEnd
	if axis == Horizontal {
		mainStart, mainEnd, crossStart, crossEnd = p.ColumnStart, p.ColumnEnd, p.RowStart, p.RowEnd
	}
	if (mainStart < 0) != (mainEnd < 0) || (crossStart < 0) != (crossEnd < 0) {
		return defaultSpan
	}
	sp := defaultSpan
	if mainStart >= 0 {
		sp.mainStart = mainStart
		sp.mainSpan = max(mainEnd-mainStart+1, 1)
	}
	if crossStart >= 0 && crossStart < crossCount {
		sp.crossStart = crossStart
		span := crossEnd - crossStart + 1
		if span <= 0 || span > crossCount {
			span = 1
		}
		sp.crossSpan = min(span, crossCount-crossStart)
	}
	return sp
}
