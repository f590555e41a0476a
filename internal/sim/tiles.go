// Package sim drives a grid from generated items and scripted input, for
// the simulate command and the interactive viewer.
package sim

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/charmbracelet/gridscroll/internal/config"
	"github.com/charmbracelet/gridscroll/internal/grid"
	"github.com/google/uuid"
)

// Tile is a generated grid item of a fixed main size.
type Tile struct {
	ID    string
	Index int
	Main  float64
	Props grid.ItemProps
}

// Measure fills the cross size it is given.
func (t *Tile) Measure(c grid.Constraint) grid.Size {
	if c.Axis == grid.Horizontal {
		return grid.Size{Width: t.Main, Height: c.CrossSize}
	}
	return grid.Size{Width: c.CrossSize, Height: t.Main}
}

func (t *Tile) GridItemProps() grid.ItemProps { return t.Props }

func (t *Tile) Label() string {
	if t.Props != grid.NoProps {
		return fmt.Sprintf("#%d %d:%d/%d:%d", t.Index, t.Props.RowStart, t.Props.RowEnd, t.Props.ColumnStart, t.Props.ColumnEnd)
	}
	return fmt.Sprintf("#%d", t.Index)
}

// Tiles generates tiles from the demo config.
type Tiles struct {
	demo   config.DemoConfig
	builds atomic.Int64
}

func NewTiles(demo config.DemoConfig) *Tiles {
	return &Tiles{demo: demo}
}

func (t *Tiles) Count() int {
	return t.demo.Items
}

// Builds is the number of tiles built so far.
func (t *Tiles) Builds() int {
	return int(t.builds.Load())
}

// Build is a grid.Builder. Tile identities are stable across rebuilds.
func (t *Tiles) Build(idx int) grid.Content {
	if idx < 0 || idx >= t.demo.Items {
		return nil
	}
	t.builds.Add(1)
	main := 1
	if n := len(t.demo.Heights); n > 0 {
		main = t.demo.Heights[idx%n]
	}
	props := grid.NoProps
	if p, ok := t.demo.BigItems[idx]; ok {
		props = p
	}
	return &Tile{
		ID:    uuid.NewSHA1(uuid.NameSpaceOID, []byte(strconv.Itoa(idx))).String(),
		Index: idx,
		Main:  float64(max(main, 1)),
		Props: props,
	}
}
