package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// regularInfo records lines [0, lines) of three items of height h.
func regularInfo(lines int, h float64) *Info {
	info := NewInfo()
	info.CrossCount = 3
	for line := range lines {
		for cross := range 3 {
			info.Matrix.Set(line, cross, line*3+cross)
		}
		info.LineHeights[line] = h
	}
	return info
}

func TestMatrix(t *testing.T) {
	t.Parallel()

	m := Matrix{}
	m.Set(4, 2, 9)
	m.Set(4, 0, 7)
	m.Set(2, 1, 3)
	m.Set(3, 1, 3)
	m.ensure(5)

	assert.Equal(t, []int{2, 3, 4, 5}, m.Lines())
	assert.Equal(t, []Cell{{Cross: 0, Index: 7}, {Cross: 2, Index: 9}}, m.Cells(4))
	assert.True(t, m.Has(5))
	assert.False(t, m.Has(6))

	first, ok := m.FirstItem(4)
	require.True(t, ok)
	assert.Equal(t, 7, first)
	last, ok := m.LastItem(4)
	require.True(t, ok)
	assert.Equal(t, 9, last)
	_, ok = m.FirstItem(5)
	assert.False(t, ok)

	lo, hi, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 5, hi)

	line, ok := m.LineOf(3)
	require.True(t, ok)
	assert.Equal(t, 2, line)
	cross, ok := m.CrossOf(4, 9)
	require.True(t, ok)
	assert.Equal(t, 2, cross)
	assert.Equal(t, 1, m.firstCross(3, 3, 0))
	assert.Equal(t, 6, m.firstCross(3, 42, 6))

	shifted := m.shift(-2)
	v, ok := shifted.Get(0, 1)
	require.True(t, ok)
	assert.Equal(t, 3, v)

	c := m.Clone()
	c.Set(4, 1, 8)
	_, ok = m.Get(4, 1)
	assert.False(t, ok)

	_, _, ok = Matrix{}.Bounds()
	assert.False(t, ok)
}

func TestInfoHeights(t *testing.T) {
	t.Parallel()

	info := regularInfo(10, 100)
	info.StartMainLine, info.EndMainLine = 2, 5
	info.ChildrenCount = 30

	assert.InDelta(t, 315, info.HeightInRange(0, 3, 5), epsilon)
	assert.InDelta(t, 415, info.TotalHeightOfItemsInView(5), epsilon)
	assert.InDelta(t, 100, info.AverageLineHeight(), epsilon)
	assert.InDelta(t, 35, info.AverageHeightPerItem(5), epsilon)
	assert.InDelta(t, 1045, info.ContentHeight(5), epsilon)

	info.StartIndex = 6
	info.CurrentOffset = -20
	assert.InDelta(t, 230, info.ContentOffset(5), epsilon)

	info.HasBigItem = true
	assert.InDelta(t, 230, info.ContentOffset(5), epsilon)
	assert.InDelta(t, 35*30-5, info.ContentHeight(5), epsilon)
}

func TestInfoEdges(t *testing.T) {
	t.Parallel()

	info := regularInfo(4, 100)
	info.ChildrenCount = 12
	info.StartMainLine, info.EndMainLine = 0, 3
	info.StartIndex, info.EndIndex = 0, 11
	info.LastMainSize = 500
	info.HeightInView = info.TotalHeightOfItemsInView(0)

	info.ReachStart = true
	info.CurrentOffset = 30
	assert.True(t, info.IsOutOfStart())
	assert.False(t, info.IsOutOfEnd(0))

	info.ReachStart = false
	info.CurrentOffset = -30
	assert.False(t, info.IsOutOfStart())
	assert.True(t, info.IsOutOfEnd(0))

	info.ResetPositionFlags()
	assert.False(t, info.ReachStart)
	assert.False(t, info.ReachEnd)
}

func TestInfoUpdateEnd(t *testing.T) {
	t.Parallel()

	info := regularInfo(8, 100)
	info.StartMainLine, info.EndMainLine = 0, 7
	info.LastMainSize = 800
	info.UpdateEndLine(350, 0)
	assert.Equal(t, 3, info.EndMainLine)

	info = regularInfo(8, 100)
	info.StartMainLine, info.EndMainLine = 0, 7
	info.UpdateEndIndex(150, 450, 0)
	assert.Equal(t, 2, info.EndMainLine)
	assert.Equal(t, 8, info.EndIndex)
}

func TestInfoClear(t *testing.T) {
	t.Parallel()

	info := regularInfo(5, 100)
	info.ClearMatrixToEnd(7, 2)
	assert.Equal(t, []int{0, 1, 2}, info.Matrix.Lines())
	assert.Equal(t, []Cell{{Cross: 0, Index: 6}}, info.Matrix.Cells(2))

	info.ClearHeightsFromMatrix(2)
	assert.Len(t, info.LineHeights, 3)

	info.ClearMatrixToEnd(6, 2)
	info.ClearHeightsFromMatrix(2)
	assert.Len(t, info.LineHeights, 2)
}

func TestInfoValidate(t *testing.T) {
	t.Parallel()

	info := regularInfo(4, 100)
	info.ChildrenCount = 12
	info.StartMainLine, info.EndMainLine = 0, 3
	require.True(t, info.Validate())

	delete(info.LineHeights, 2)
	assert.False(t, info.Validate())

	info = regularInfo(4, 100)
	info.ChildrenCount = 10
	assert.False(t, info.Validate())
}

func TestInfoAnimatePosition(t *testing.T) {
	t.Parallel()

	info := regularInfo(10, 100)
	info.StartMainLine = 0

	for _, tc := range []struct {
		align   ScrollAlign
		target  int
		want    float64
		changes bool
	}{
		{align: AlignStart, target: 15, want: 500, changes: true},
		{align: AlignEnd, target: 15, want: 200, changes: true},
		{align: AlignCenter, target: 15, want: 350, changes: true},
		{align: AlignAuto, target: 4, want: 0},
		{align: AlignAuto, target: 15, want: 200, changes: true},
		{align: AlignStart, target: 1, want: 0, changes: true},
	} {
		t.Run(tc.align.String(), func(t *testing.T) {
			pos, changes := info.AnimatePosition(tc.target, tc.align, 0, 400)
			assert.InDelta(t, tc.want, pos, epsilon)
			assert.Equal(t, tc.changes, changes)
		})
	}

	_, ok := info.AnimatePosition(99, AlignStart, 0, 400)
	assert.False(t, ok)
}

func TestInfoCloneAndFingerprint(t *testing.T) {
	t.Parallel()

	info := regularInfo(3, 100)
	target := 4
	info.TargetIndex = &target
	c := info.Clone()
	require.Equal(t, info.Fingerprint(), c.Fingerprint())

	c.Matrix.Set(0, 0, 42)
	c.LineHeights[1] = 120
	*c.TargetIndex = 5
	v, _ := info.Matrix.Get(0, 0)
	assert.Equal(t, 0, v)
	assert.InDelta(t, 100, info.LineHeights[1], epsilon)
	assert.Equal(t, 4, *info.TargetIndex)
	assert.NotEqual(t, info.Fingerprint(), c.Fingerprint())
}

func TestDefaultCachedCount(t *testing.T) {
	t.Parallel()

	info := regularInfo(4, 100)
	info.StartMainLine, info.EndMainLine = 0, 3
	info.StartIndex, info.EndIndex = 0, 11
	info.UpdateDefaultCachedCount(0.5)
	assert.Equal(t, 2, info.DefCachedCount)

	info.UpdateDefaultCachedCount(0.25)
	assert.Equal(t, 2, info.DefCachedCount, "the cache never shrinks")

	info.UpdateDefaultCachedCount(1)
	assert.Equal(t, 4, info.DefCachedCount)

	info.UpdateDefaultCachedCount(100)
	assert.Equal(t, maxDefCachedCount, info.DefCachedCount)
}
