package grid

import (
	"encoding/binary"
	"maps"
	"math"
	"slices"

	"github.com/zeebo/xxh3"
)

// EmptyJumpIndex means no jump is pending.
const EmptyJumpIndex = -2

// LastItem jumps to the last item whatever the item count is.
const LastItem = -1

// ScrollAlign positions a jump target inside the viewport.
type ScrollAlign int

const (
	AlignStart ScrollAlign = iota
	AlignCenter
	AlignEnd
	AlignAuto
	AlignNone
)

func (a ScrollAlign) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	case AlignNone:
		return "none"
	default:
		return "auto"
	}
}

// Info is the layout state a Grid carries from one pass to the next.
type Info struct {
	Axis       Axis
	CrossCount int

	Matrix      Matrix
	LineHeights map[int]float64
	// IrregularPositions memoizes the cross start of irregular items placed
	// through a span callback.
	IrregularPositions map[int]int

	StartIndex    int
	EndIndex      int
	StartMainLine int
	EndMainLine   int

	// CurrentOffset is the distance from the viewport's leading edge to the
	// start line's leading edge. It is negative once scrolled forward.
	CurrentOffset float64
	PrevOffset    float64

	HasBigItem       bool
	HasMultiLineItem bool

	LastMainSize      float64
	LastCrossCount    int
	ChildrenCount     int
	ContentEndPadding float64

	// HeightInView caches TotalHeightOfItemsInView after a layout pass.
	HeightInView float64

	ReachStart bool
	ReachEnd   bool
	OffsetEnd  bool

	JumpIndex   int
	ScrollAlign ScrollAlign
	TargetIndex *int
	ExtraOffset *float64

	DefCachedCount int

	checks int
}

// NewInfo returns an empty layout state.
func NewInfo() *Info {
	return &Info{
		Matrix:             Matrix{},
		LineHeights:        map[int]float64{},
		IrregularPositions: map[int]int{},
		JumpIndex:          EmptyJumpIndex,
		ScrollAlign:        AlignAuto,
		DefCachedCount:     1,
	}
}

// Clone returns a deep copy of i.
func (i *Info) Clone() *Info {
	c := *i
	c.Matrix = i.Matrix.Clone()
	c.LineHeights = maps.Clone(i.LineHeights)
	c.IrregularPositions = maps.Clone(i.IrregularPositions)
	if i.TargetIndex != nil {
		v := *i.TargetIndex
		c.TargetIndex = &v
	}
	if i.ExtraOffset != nil {
		v := *i.ExtraOffset
		c.ExtraOffset = &v
	}
	return &c
}

// ResetPositionFlags clears the edge flags.
func (i *Info) ResetPositionFlags() {
	i.ReachStart = false
	i.ReachEnd = false
	i.OffsetEnd = false
}

// IsResetted reports a state that lost its matrix away from the first item.
func (i *Info) IsResetted() bool {
	return i.StartIndex != 0 && len(i.Matrix) == 0
}

// UpdateStartIndexByStartLine points StartIndex at the first item of the
// start line.
func (i *Info) UpdateStartIndexByStartLine() {
	if idx, ok := i.Matrix.FirstItem(i.StartMainLine); ok {
		i.StartIndex = idx
	}
}

// HeightInRange sums line heights and gaps over lines [from, to).
func (i *Info) HeightInRange(from, to int, gap float64) float64 {
	var h float64
	for line := from; line < to; line++ {
		if lh, ok := i.LineHeights[line]; ok {
			h += lh + gap
		}
	}
	return h
}

// TotalHeightOfItemsInView sums the lines between the start and end lines.
func (i *Info) TotalHeightOfItemsInView(gap float64) float64 {
	h := i.HeightInRange(i.StartMainLine, i.EndMainLine+1, gap)
	if h == 0 {
		return 0
	}
	return h - gap
}

// AverageLineHeight is the mean recorded line height.
func (i *Info) AverageLineHeight() float64 {
	if len(i.LineHeights) == 0 {
		return 0
	}
	var sum float64
	for _, h := range i.LineHeights {
		sum += h
	}
	return sum / float64(len(i.LineHeights))
}

// AverageHeightPerItem divides the recorded lines (gaps included) by the
// number of items they hold.
func (i *Info) AverageHeightPerItem(gap float64) float64 {
	var sum float64
	var count int
	for line, h := range i.LineHeights {
		first, ok := i.Matrix.FirstItem(line)
		if !ok {
			continue
		}
		last, _ := i.Matrix.LastItem(line)
		if last < first {
			continue
		}
		count += last - first + 1
		sum += h + gap
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// ContentHeight estimates the main extent of the whole content.
func (i *Info) ContentHeight(gap float64) float64 {
	if i.ChildrenCount == 0 || i.CrossCount == 0 {
		return 0
	}
	if !i.HasBigItem {
		lines := (i.ChildrenCount + i.CrossCount - 1) / i.CrossCount
		return float64(lines)*(i.AverageLineHeight()+gap) - gap
	}
	avg := i.AverageHeightPerItem(gap)
	if avg <= 0 {
		return 0
	}
	return avg*float64(i.ChildrenCount) - gap
}

// ContentOffset estimates how far the content is scrolled from its start.
func (i *Info) ContentOffset(gap float64) float64 {
	if i.CrossCount == 0 {
		return 0
	}
	if !i.HasBigItem {
		lines := i.StartIndex / i.CrossCount
		return float64(lines)*(i.AverageLineHeight()+gap) - i.CurrentOffset
	}
	if first, _, ok := i.Matrix.Bounds(); ok {
		if idx, ok := i.Matrix.FirstItem(first); ok && idx == 0 {
			return i.HeightInRange(first, i.StartMainLine, gap) - i.CurrentOffset
		}
	}
	return i.AverageHeightPerItem(gap)*float64(i.StartIndex) - i.CurrentOffset
}

// IsOutOfStart reports blank space before the first line.
func (i *Info) IsOutOfStart() bool {
	return i.ReachStart && positive(i.CurrentOffset)
}

// IsOutOfEnd reports blank space after the last item.
func (i *Info) IsOutOfEnd(gap float64) bool {
	atOrOutOfStart := i.ReachStart && greatOrEqual(i.CurrentOffset, 0)
	endPos := i.CurrentOffset + i.HeightInView
	return !atOrOutOfStart && i.EndIndex == i.ChildrenCount-1 &&
		lessNotEqual(endPos, i.LastMainSize-i.ContentEndPadding)
}

// UpdateEndLine trims the end line after the viewport shrank.
func (i *Info) UpdateEndLine(mainSize, gap float64) {
	if mainSize >= i.LastMainSize {
		return
	}
	for line := i.StartMainLine; line < i.EndMainLine; line++ {
		mainSize -= i.LineHeights[line] + gap
		if lessOrEqual(mainSize+gap, 0) {
			i.EndMainLine = line
			break
		}
	}
}

// UpdateEndIndex recomputes the end line when the content is pulled past
// its start by overScroll.
func (i *Info) UpdateEndIndex(overScroll, mainSize, gap float64) {
	remain := mainSize - overScroll
	for line := i.StartMainLine; line < i.EndMainLine; line++ {
		remain -= i.LineHeights[line] + gap
		if lessOrEqual(remain+gap, 0) {
			last, ok := i.Matrix.LastItem(line)
			if !ok {
				return
			}
			i.EndIndex = last
			i.EndMainLine = line
			return
		}
	}
}

// ClearMatrixToEnd drops every item >= idx from line onwards.
func (i *Info) ClearMatrixToEnd(idx, line int) {
	for l, row := range i.Matrix {
		if l < line {
			continue
		}
		for cross, v := range row {
			if v >= idx {
				delete(row, cross)
			}
		}
		if len(row) == 0 {
			delete(i.Matrix, l)
		}
	}
}

// TrimToCount drops every item the data no longer holds, along with lines
// left empty.
func (i *Info) TrimToCount(count int) {
	for l, row := range i.Matrix {
		for cross, v := range row {
			if v >= count {
				delete(row, cross)
			}
		}
		if len(row) == 0 {
			delete(i.Matrix, l)
			delete(i.LineHeights, l)
		}
	}
	i.EndIndex = min(i.EndIndex, count-1)
}

// SyncIndexRange derives StartIndex and EndIndex from the lines in view.
func (i *Info) SyncIndexRange() {
	if start, ok := i.Matrix.FirstItem(i.StartMainLine); ok && i.StartMainLine <= i.EndMainLine {
		end := -1
		for line := i.StartMainLine; line <= i.EndMainLine; line++ {
			end = max(end, i.Matrix.maxIndex(line))
		}
		i.StartIndex, i.EndIndex = start, end
	}
	if i.EndIndex >= 0 && i.StartIndex > i.EndIndex {
		i.StartIndex = i.EndIndex
	}
}

// ClearHeightsFromMatrix drops line heights from line onwards, keeping the
// height of line itself while it still holds items.
func (i *Info) ClearHeightsFromMatrix(line int) {
	if _, ok := i.LineHeights[line]; !ok {
		return
	}
	keep := i.Matrix.Has(line)
	for l := range i.LineHeights {
		if l > line || (l == line && !keep) {
			delete(i.LineHeights, l)
		}
	}
}

// Validate checks the matrix against the item count and the line heights.
func (i *Info) Validate() bool {
	for line, row := range i.Matrix {
		for _, idx := range row {
			if idx < -1 || idx >= i.ChildrenCount {
				return false
			}
		}
		if line >= i.StartMainLine && line <= i.EndMainLine {
			if _, ok := i.LineHeights[line]; !ok {
				return false
			}
		}
	}
	return true
}

// AnimatePosition returns the content offset that shows target with align.
// The state must hold every line from zero up to the target line.
func (i *Info) AnimatePosition(target int, align ScrollAlign, gap, mainSize float64) (float64, bool) {
	line, ok := i.Matrix.LineOf(target)
	if !ok {
		return 0, false
	}
	first, _, _ := i.Matrix.Bounds()
	top := i.HeightInRange(first, line, gap)
	h := i.LineHeights[line]
	current := i.scrolledDistance(gap)

	if align == AlignAuto {
		switch {
		case greatOrEqual(top, current) && lessOrEqual(top+h, current+mainSize):
			return current, false
		case lessNotEqual(top, current):
			align = AlignStart
		default:
			align = AlignEnd
		}
	}

	var pos float64
	switch align {
	case AlignCenter:
		pos = top - (mainSize-h)/2
	case AlignEnd:
		pos = top - (mainSize - h - i.ContentEndPadding)
	default:
		pos = top
	}
	return math.Max(pos, 0), true
}

// scrolledDistance is the distance from the first recorded line to the
// viewport's leading edge.
func (i *Info) scrolledDistance(gap float64) float64 {
	first, _, _ := i.Matrix.Bounds()
	return i.HeightInRange(first, i.StartMainLine, gap) - i.CurrentOffset
}

// Fingerprint hashes the recorded placement state.
func (i *Info) Fingerprint() uint64 {
	buf := make([]byte, 0, 64+len(i.Matrix)*32)
	putInt := func(v int) { buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(v))) }
	putFloat := func(v float64) { buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v)) }

	for _, line := range i.Matrix.Lines() {
		putInt(line)
		for _, c := range i.Matrix.Cells(line) {
			putInt(c.Cross)
			putInt(c.Index)
		}
	}
	for _, line := range slices.Sorted(maps.Keys(i.LineHeights)) {
		putInt(line)
		putFloat(i.LineHeights[line])
	}
	putInt(i.StartIndex)
	putInt(i.EndIndex)
	putInt(i.StartMainLine)
	putInt(i.EndMainLine)
	putFloat(i.CurrentOffset)
	putFloat(i.PrevOffset)
	return xxh3.Hash(buf)
}

func shiftHeights(m map[int]float64, delta int) map[int]float64 {
	c := make(map[int]float64, len(m))
	for line, h := range m {
		c[line+delta] = h
	}
	return c
}
