package grid

import (
	"slices"
)

// Span is an item size in cells.
type Span struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// CellRect is an item placement in cells.
type CellRect struct {
	RowStart    int `json:"row_start"`
	ColumnStart int `json:"column_start"`
	RowSpan     int `json:"row_span"`
	ColumnSpan  int `json:"column_span"`
}

// LayoutOptions describes irregular items by index instead of by item
// properties.
type LayoutOptions struct {
	// RegularSize is the size of every item not listed in IrregularIndexes.
	RegularSize Span
	// IrregularIndexes lists the items that are not regular. Without a
	// size callback they take a whole line.
	IrregularIndexes []int
	SizeByIndex      func(index int) Span
	RectByIndex      func(index int) CellRect
}

// optionsStrategy places items from LayoutOptions without searching the
// matrix.
type optionsStrategy struct {
	opts      *LayoutOptions
	irregular []int
	set       map[int]struct{}
}

func newOptionsStrategy(o *LayoutOptions) *optionsStrategy {
	irregular := slices.Clone(o.IrregularIndexes)
	slices.Sort(irregular)
	irregular = slices.Compact(irregular)
	set := make(map[int]struct{}, len(irregular))
	for _, idx := range irregular {
		set[idx] = struct{}{}
	}
	return &optionsStrategy{opts: o, irregular: irregular, set: set}
}

func (o *optionsStrategy) hasOptions() bool { return true }

func (o *optionsStrategy) hasSpanFunc() bool {
	return o.opts.SizeByIndex != nil || o.opts.RectByIndex != nil
}

func (o *optionsStrategy) isIrregular(idx int) bool {
	_, ok := o.set[idx]
	return ok
}

// prevIrregular returns the largest irregular index not above idx.
func (o *optionsStrategy) prevIrregular(idx int) (int, bool) {
	pos, found := slices.BinarySearch(o.irregular, idx)
	if found {
		return idx, true
	}
	if pos == 0 {
		return 0, false
	}
	return o.irregular[pos-1], true
}

// crossSpan is the cross span of idx, clamped to the line.
func (o *optionsStrategy) crossSpan(idx int, axis Axis, crossCount int) int {
	span := 1
	switch {
	case !o.isIrregular(idx):
		span = o.opts.RegularSize.Columns
		if axis == Horizontal {
			span = o.opts.RegularSize.Rows
		}
		if span == 0 {
			span = 1
		}
	case o.opts.SizeByIndex != nil:
		sz := o.opts.SizeByIndex(idx)
		span = sz.Columns
		if axis == Horizontal {
			span = sz.Rows
		}
	case o.opts.RectByIndex != nil:
		r := o.opts.RectByIndex(idx)
		span = r.ColumnSpan
		if axis == Horizontal {
			span = r.RowSpan
		}
	default:
		span = crossCount
	}
	if span <= 0 || span > crossCount {
		return 1
	}
	return span
}

// crossStartAndSpan places idx on the cross axis. With memo set, the cursor
// of every irregular item walked over is recorded in info.
func (o *optionsStrategy) crossStartAndSpan(info *Info, idx int, axis Axis, crossCount int, memo bool) (int, int) {
	if crossCount <= 0 {
		return 0, 1
	}
	if len(o.irregular) == 0 || idx < o.irregular[0] {
		return idx % crossCount, 1
	}
	if !o.hasSpanFunc() {
		if o.isIrregular(idx) {
			return 0, crossCount
		}
		prev, _ := o.prevIrregular(idx)
		return (idx - prev - 1) % crossCount, 1
	}

	anchor := o.irregular[0]
	cursor := anchor % crossCount
	for k, pos := range info.IrregularPositions {
		if k <= idx && k > anchor {
			anchor, cursor = k, pos
		}
	}
	for i := anchor; ; i++ {
		span := o.crossSpan(i, axis, crossCount)
		if cursor+span > crossCount {
			cursor = 0
		}
		if memo && o.isIrregular(i) {
			info.IrregularPositions[i] = cursor
		}
		if i == idx {
			return cursor, span
		}
		cursor += span
	}
}

func (o *optionsStrategy) resolveCrossSpan(s *session, idx int, _ *Node) itemSpan {
	start, span := o.crossStartAndSpan(s.info, idx, s.axis, s.crossCount, true)
	return itemSpan{mainStart: -1, mainSpan: 1, crossStart: start, crossSpan: span}
}

func (o *optionsStrategy) predictCrossSpan(s *session, idx int, _ *Node) itemSpan {
	start, span := o.crossStartAndSpan(s.info, idx, s.axis, s.crossCount, false)
	return itemSpan{mainStart: -1, mainSpan: 1, crossStart: start, crossSpan: span}
}

func (o *optionsStrategy) startingItem(s *session, idx int) int {
	idx = min(idx, s.count()-1)
	if idx <= 0 {
		return 0
	}
	if !o.hasSpanFunc() {
		prev, ok := o.prevIrregular(idx)
		switch {
		case !ok:
			return idx - idx%s.crossCount
		case prev == idx:
			return idx
		default:
			return idx - (idx-prev-1)%s.crossCount
		}
	}
	for i := idx; i > 0; i-- {
		if start, _ := o.crossStartAndSpan(s.info, i, s.axis, s.crossCount, false); start == 0 {
			return i
		}
	}
	return 0
}

func (o *optionsStrategy) skipLargeOffset(s *session, forward bool) {
	s.skipStartIndexByOffset(o, forward)
}

func (o *optionsStrategy) calculateCachedCount(s *session, cachedLines int) (int, int) {
	if cachedLines <= 0 || s.crossCount == 0 {
		return 0, 0
	}
	var before, after int
	idx := s.info.StartIndex
	for range cachedLines {
		if idx <= 0 {
			break
		}
		head := o.startingItem(s, idx-1)
		before += idx - head
		idx = head
	}
	idx = s.info.EndIndex + 1
	count := s.count()
	for range cachedLines {
		if idx >= count {
			break
		}
		next := idx + 1
		for next < count {
			if start, _ := o.crossStartAndSpan(s.info, next, s.axis, s.crossCount, false); start == 0 {
				break
			}
			next++
		}
		after += next - idx
		idx = next
	}
	return before, after
}

func (o *optionsStrategy) targetIndexInfo(s *session, target int) (int, int) {
	line, bench := s.benchMark(target)
	bench = o.startingItem(s, bench)
	cursor, _ := o.crossStartAndSpan(s.info, bench, s.axis, s.crossCount, true)
	head := bench
	for i := bench; i <= target; i++ {
		span := o.crossSpan(i, s.axis, s.crossCount)
		if i > bench && cursor+span > s.crossCount {
			line, cursor, head = line+1, 0, i
		}
		cursor += span
	}
	return line, head
}

// lineModel walks line heads from zero and reports the main position of
// the line starting at head, using one estimated height per line.
type lineModel struct {
	o          *optionsStrategy
	crossCount int
	lineHeight float64
}

// position returns the main position of the line holding idx and the
// first item of that line.
func (m lineModel) position(idx int) float64 {
	var pos float64
	next := 0
	for _, irr := range m.o.irregular {
		if irr > idx {
			break
		}
		regular := irr - next
		pos += float64((regular+m.crossCount-1)/m.crossCount) * m.lineHeight
		if irr == idx {
			return pos
		}
		pos += m.lineHeight
		next = irr + 1
	}
	return pos + float64((idx-next)/m.crossCount)*m.lineHeight
}

// locate returns the first item of the line at main position target and
// the main position of that line.
func (m lineModel) locate(target float64, count int) (int, float64) {
	var pos float64
	next := 0
	for _, irr := range m.o.irregular {
		if irr >= count {
			break
		}
		regularLines := (irr - next + m.crossCount - 1) / m.crossCount
		if pos+float64(regularLines)*m.lineHeight > target {
			lines := int((target - pos) / m.lineHeight)
			return next + lines*m.crossCount, pos + float64(lines)*m.lineHeight
		}
		pos += float64(regularLines) * m.lineHeight
		if pos+m.lineHeight > target {
			return irr, pos
		}
		pos += m.lineHeight
		next = irr + 1
	}
	lines := int((target - pos) / m.lineHeight)
	return next + lines*m.crossCount, pos + float64(lines)*m.lineHeight
}
