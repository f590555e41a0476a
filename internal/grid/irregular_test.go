package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsStrategyWholeLines(t *testing.T) {
	t.Parallel()

	o := newOptionsStrategy(&LayoutOptions{IrregularIndexes: []int{5, 0, 5}})
	require.Equal(t, []int{0, 5}, o.irregular)

	info := NewInfo()
	for idx, want := range map[int][2]int{
		0: {0, 3},
		1: {0, 1},
		3: {2, 1},
		4: {0, 1},
		5: {0, 3},
		6: {0, 1},
		10: {1, 1},
	} {
		start, span := o.crossStartAndSpan(info, idx, Vertical, 3, true)
		assert.Equal(t, want, [2]int{start, span}, "item %d", idx)
	}
	assert.Empty(t, info.IrregularPositions)

	s := &session{info: info, crossCount: 3, axis: Vertical, store: NewStore(100, nil)}
	assert.Equal(t, 6, o.startingItem(s, 7))
	assert.Equal(t, 5, o.startingItem(s, 5))
	assert.Equal(t, 1, o.startingItem(s, 3))
	assert.Equal(t, 0, o.startingItem(s, 0))
}

func TestOptionsStrategySpanFunc(t *testing.T) {
	t.Parallel()

	o := newOptionsStrategy(&LayoutOptions{
		IrregularIndexes: []int{2},
		SizeByIndex:      func(int) Span { return Span{Rows: 1, Columns: 2} },
	})
	info := NewInfo()
	for idx, want := range map[int][2]int{
		0: {0, 1},
		1: {1, 1},
		2: {0, 2},
		3: {2, 1},
		4: {0, 1},
	} {
		start, span := o.crossStartAndSpan(info, idx, Vertical, 3, true)
		assert.Equal(t, want, [2]int{start, span}, "item %d", idx)
	}
	assert.Equal(t, map[int]int{2: 0}, info.IrregularPositions)

	s := &session{info: info, crossCount: 3, axis: Vertical, store: NewStore(10, nil)}
	assert.Equal(t, 2, o.startingItem(s, 3))
	assert.Equal(t, 4, o.startingItem(s, 5))
}

func TestOptionsSpanClamps(t *testing.T) {
	t.Parallel()

	o := newOptionsStrategy(&LayoutOptions{
		IrregularIndexes: []int{1, 2},
		RectByIndex:      func(idx int) CellRect { return CellRect{ColumnSpan: idx * 4, RowSpan: 1} },
	})
	assert.Equal(t, 1, o.crossSpan(2, Vertical, 3), "wider than the line")
	assert.Equal(t, 1, o.crossSpan(0, Vertical, 3), "regular size unset")
	assert.Equal(t, 1, o.crossSpan(1, Horizontal, 3))
}

func TestLineModel(t *testing.T) {
	t.Parallel()

	m := lineModel{o: newOptionsStrategy(&LayoutOptions{IrregularIndexes: []int{0, 10}}), crossCount: 3, lineHeight: 105}

	assert.InDelta(t, 0, m.position(0), epsilon)
	assert.InDelta(t, 105, m.position(1), epsilon)
	assert.InDelta(t, 210, m.position(4), epsilon)
	// items 1..9 take three lines
	assert.InDelta(t, 420, m.position(10), epsilon)
	assert.InDelta(t, 525, m.position(11), epsilon)

	idx, pos := m.locate(220, 100)
	assert.Equal(t, 4, idx)
	assert.InDelta(t, 210, pos, epsilon)

	idx, pos = m.locate(450, 100)
	assert.Equal(t, 10, idx)
	assert.InDelta(t, 420, pos, epsilon)

	idx, pos = m.locate(30000, 4000)
	assert.Equal(t, int((30000-525)/105)*3+11, idx)
	assert.InDelta(t, m.position(idx), pos, epsilon)
}

func TestPropsSpan(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name  string
		props ItemProps
		axis  Axis
		want  itemSpan
	}{
		{name: "unset", props: NoProps, want: defaultSpan},
		{name: "half set", props: ItemProps{RowStart: 1, RowEnd: -1, ColumnStart: -1, ColumnEnd: -1}, want: defaultSpan},
		{
			name:  "rows and columns",
			props: ItemProps{RowStart: 1, RowEnd: 2, ColumnStart: 1, ColumnEnd: 2},
			want:  itemSpan{mainStart: 1, mainSpan: 2, crossStart: 1, crossSpan: 2},
		},
		{
			name:  "clipped at the last column",
			props: ItemProps{RowStart: -1, RowEnd: -1, ColumnStart: 2, ColumnEnd: 3},
			want:  itemSpan{mainStart: -1, mainSpan: 1, crossStart: 2, crossSpan: 1},
		},
		{
			name:  "too wide",
			props: ItemProps{RowStart: -1, RowEnd: -1, ColumnStart: 1, ColumnEnd: 9},
			want:  itemSpan{mainStart: -1, mainSpan: 1, crossStart: 1, crossSpan: 1},
		},
		{
			name:  "past the last column",
			props: ItemProps{RowStart: -1, RowEnd: -1, ColumnStart: 3, ColumnEnd: 3},
			want:  defaultSpan,
		},
		{
			name:  "horizontal swaps axes",
			props: ItemProps{RowStart: 0, RowEnd: 1, ColumnStart: 0, ColumnEnd: 0},
			axis:  Horizontal,
			want:  itemSpan{mainStart: 0, mainSpan: 1, crossStart: 0, crossSpan: 2},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, propsSpan(tc.props, tc.axis, 3))
		})
	}
}

func TestOptionsLayout(t *testing.T) {
	t.Parallel()

	build, _ := fixedItems(100)
	g := New(40, build, WithOptions(Options{
		ColumnsTemplate: "1fr 1fr 1fr",
		LayoutOptions: &LayoutOptions{
			IrregularIndexes: []int{2},
			SizeByIndex:      func(int) Span { return Span{Rows: 1, Columns: 2} },
		},
	}))
	g.Layout(Size{Width: 300, Height: 400})
	checkInvariants(t, g)

	info := g.Info()
	assert.Equal(t, map[int]int{0: 0, 1: 1}, info.Matrix[0])
	assert.Equal(t, map[int]int{0: 2, 1: 2, 2: 3}, info.Matrix[1])
	r, ok := g.ItemRect(2)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 0, Y: 100, Width: 200, Height: 100}, r)
}

func TestStrategyPick(t *testing.T) {
	t.Parallel()

	assert.False(t, newStrategy(Options{}).hasOptions())
	assert.False(t, newStrategy(Options{LayoutOptions: &LayoutOptions{}}).hasOptions())
	assert.True(t, newStrategy(Options{LayoutOptions: &LayoutOptions{IrregularIndexes: []int{3}}}).hasOptions())
}
