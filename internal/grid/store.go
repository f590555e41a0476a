package grid

import (
	"sync/atomic"

	"github.com/charmbracelet/gridscroll/internal/csync"
)

// Content is the body of a grid item.
type Content interface {
	// Measure returns the item's size under c. It must be synchronous and
	// touch nothing but the item itself.
	Measure(c Constraint) Size
}

// Spanner is implemented by content placed explicitly in the grid.
type Spanner interface {
	GridItemProps() ItemProps
}

// ItemProps places an item on explicit lines. Negative fields are unset.
type ItemProps struct {
	RowStart    int `json:"row_start"`
	RowEnd      int `json:"row_end"`
	ColumnStart int `json:"column_start"`
	ColumnEnd   int `json:"column_end"`
}

// NoProps leaves the placement of an item to the grid.
var NoProps = ItemProps{RowStart: -1, RowEnd: -1, ColumnStart: -1, ColumnEnd: -1}

// Builder creates the content of the item at index. A nil result means the
// data source has nothing at index.
type Builder func(index int) Content

// IndexInfo is the resolved placement of one item.
type IndexInfo struct {
	MainStart  int
	MainEnd    int
	MainSpan   int
	CrossStart int
	CrossEnd   int
	CrossSpan  int
}

// Node is a built item.
type Node struct {
	index      int
	content    Content
	props      ItemProps
	size       Size
	constraint *Constraint
	rect       Rect
	active     bool
	dirty      bool
	placement  IndexInfo
	// pass is the layout pass that last placed the node.
	pass uint64
}

func newNode(index int, content Content) *Node {
	n := &Node{index: index, content: content, props: NoProps}
	if s, ok := content.(Spanner); ok {
		n.props = s.GridItemProps()
	}
	return n
}

// Index returns the item index of n.
func (n *Node) Index() int { return n.index }

// Content returns the content built for n.
func (n *Node) Content() Content { return n.content }

// Size returns the size of the last measurement.
func (n *Node) Size() Size { return n.size }

// Rect returns the position of n relative to the viewport.
func (n *Node) Rect() Rect { return n.rect }

// Active reports whether n was placed by the last layout pass.
func (n *Node) Active() bool { return n.active }

// Placement returns the lines and cross cells n covers.
func (n *Node) Placement() IndexInfo { return n.placement }

// measure runs the content measurement unless c matches the constraint of
// the last measurement.
func (n *Node) measure(c Constraint) bool {
	if !n.dirty && n.constraint != nil && *n.constraint == c {
		return false
	}
	n.size = n.content.Measure(c)
	n.constraint = &c
	n.dirty = false
	return true
}

// Store creates items lazily and tracks which of them are alive.
type Store struct {
	build Builder
	count atomic.Int64
	nodes *csync.Map[int, *Node]
}

// NewStore returns a store of count items built on demand.
func NewStore(count int, build Builder) *Store {
	s := &Store{
		build: build,
		nodes: csync.NewMap[int, *Node](),
	}
	s.count.Store(int64(count))
	return s
}

// Count is the number of items in the data source.
func (s *Store) Count() int {
	return int(s.count.Load())
}

// Built is the number of items currently alive.
func (s *Store) Built() int {
	return s.nodes.Len()
}

// Node returns the item at index if it is built.
func (s *Store) Node(index int) (*Node, bool) {
	return s.nodes.Get(index)
}

// Child returns the item at index, building it when create is set.
func (s *Store) Child(index int, create bool) *Node {
	if index < 0 || index >= s.Count() {
		return nil
	}
	if n, ok := s.nodes.Get(index); ok {
		return n
	}
	if !create {
		return nil
	}
	content := s.build(index)
	if content == nil {
		return nil
	}
	n := newNode(index, content)
	s.nodes.Set(index, n)
	return n
}

// Reset changes the item count and drops every item from index from on.
func (s *Store) Reset(count, from int) {
	s.count.Store(int64(count))
	for idx := range s.nodes.Seq2() {
		if idx >= from {
			s.nodes.Del(idx)
		}
	}
}

// Invalidate forces the item at index to measure again.
func (s *Store) Invalidate(index int) {
	if n, ok := s.nodes.Get(index); ok {
		n.dirty = true
		if sp, ok := n.content.(Spanner); ok {
			n.props = sp.GridItemProps()
		}
	}
}

// SetActiveRange activates [start, end], keeps the cache window around it
// built and evicts everything else. Cached items are active when
// showCached is set.
func (s *Store) SetActiveRange(start, end, cacheStart, cacheEnd int, showCached bool) {
	lo, hi := start-cacheStart, end+cacheEnd
	for idx, n := range s.nodes.Seq2() {
		switch {
		case idx >= start && idx <= end:
			n.active = true
		case idx >= lo && idx <= hi:
			n.active = showCached
		default:
			s.nodes.Del(idx)
		}
	}
}
