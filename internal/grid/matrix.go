package grid

import (
	"maps"
	"slices"
)

// Cell is one occupied cross position on a line.
type Cell struct {
	Cross int
	Index int
}

// Matrix records which item occupies each (line, cross) cell. Only measured
// lines are present. An item spanning several cells repeats its index on
// every covered cell.
type Matrix map[int]map[int]int

// Lines returns the recorded line indexes in ascending order.
func (m Matrix) Lines() []int {
	return slices.Sorted(maps.Keys(m))
}

// Has reports whether line is recorded.
func (m Matrix) Has(line int) bool {
	_, ok := m[line]
	return ok
}

// Get returns the item at (line, cross).
func (m Matrix) Get(line, cross int) (int, bool) {
	row, ok := m[line]
	if !ok {
		return 0, false
	}
	idx, ok := row[cross]
	return idx, ok
}

// Set records idx at (line, cross), creating the line when needed.
func (m Matrix) Set(line, cross, idx int) {
	row, ok := m[line]
	if !ok {
		row = make(map[int]int)
		m[line] = row
	}
	row[cross] = idx
}

// ensure creates an empty line.
func (m Matrix) ensure(line int) {
	if _, ok := m[line]; !ok {
		m[line] = make(map[int]int)
	}
}

// Cells returns the occupied cells of line sorted by cross index.
func (m Matrix) Cells(line int) []Cell {
	row := m[line]
	cells := make([]Cell, 0, len(row))
	for _, cross := range slices.Sorted(maps.Keys(row)) {
		cells = append(cells, Cell{Cross: cross, Index: row[cross]})
	}
	return cells
}

// FirstItem returns the item on the smallest cross index of line.
func (m Matrix) FirstItem(line int) (int, bool) {
	row := m[line]
	if len(row) == 0 {
		return 0, false
	}
	return row[slices.Min(slices.Collect(maps.Keys(row)))], true
}

// LastItem returns the item on the largest cross index of line.
func (m Matrix) LastItem(line int) (int, bool) {
	row := m[line]
	if len(row) == 0 {
		return 0, false
	}
	return row[slices.Max(slices.Collect(maps.Keys(row)))], true
}

// Bounds returns the first and last recorded line.
func (m Matrix) Bounds() (first, last int, ok bool) {
	if len(m) == 0 {
		return 0, 0, false
	}
	first, last = 0, 0
	ok = false
	for line := range m {
		if !ok || line < first {
			first = line
		}
		if !ok || line > last {
			last = line
		}
		ok = true
	}
	return first, last, ok
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	c := make(Matrix, len(m))
	for line, row := range m {
		c[line] = maps.Clone(row)
	}
	return c
}

// shift moves every line by delta.
func (m Matrix) shift(delta int) Matrix {
	c := make(Matrix, len(m))
	for line, row := range m {
		c[line+delta] = row
	}
	return c
}

// LineOf returns the first line holding idx.
func (m Matrix) LineOf(idx int) (int, bool) {
	for _, line := range m.Lines() {
		for _, v := range m[line] {
			if v == idx {
				return line, true
			}
		}
	}
	return 0, false
}

// CrossOf returns the smallest cross index idx occupies on line.
func (m Matrix) CrossOf(line, idx int) (int, bool) {
	for _, c := range m.Cells(line) {
		if c.Index == idx {
			return c.Cross, true
		}
	}
	return 0, false
}

// firstCross returns the smallest cross index idx occupies on line, or
// fallback when idx is not on line.
func (m Matrix) firstCross(line, idx, fallback int) int {
	best, found := fallback, false
	for cross, v := range m[line] {
		if v == idx && (!found || cross < best) {
			best, found = cross, true
		}
	}
	return best
}

// maxIndex returns the largest item on line, or -1 when line is empty.
func (m Matrix) maxIndex(line int) int {
	last := -1
	for _, v := range m[line] {
		last = max(last, v)
	}
	return last
}
