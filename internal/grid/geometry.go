package grid

import "math"

// Axis is the scroll axis of a grid.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// MainSize returns the extent of s along axis.
func (s Size) MainSize(axis Axis) float64 {
	if axis == Horizontal {
		return s.Width
	}
	return s.Height
}

// CrossSize returns the extent of s across axis.
func (s Size) CrossSize(axis Axis) float64 {
	if axis == Horizontal {
		return s.Height
	}
	return s.Width
}

// sizeOf builds a Size from main and cross extents.
func sizeOf(main, cross float64, axis Axis) Size {
	if axis == Horizontal {
		return Size{Width: main, Height: cross}
	}
	return Size{Width: cross, Height: main}
}

// Offset is a point relative to the grid's top-left corner.
type Offset struct {
	X, Y float64
}

func (o Offset) main(axis Axis) float64 {
	if axis == Horizontal {
		return o.X
	}
	return o.Y
}

func offsetOf(main, cross float64, axis Axis) Offset {
	if axis == Horizontal {
		return Offset{X: main, Y: cross}
	}
	return Offset{X: cross, Y: main}
}

// Rect is an axis aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Padding is the inner spacing of the grid container.
type Padding struct {
	Top, Right, Bottom, Left float64
}

func (p Padding) horizontal() float64 { return p.Left + p.Right }
func (p Padding) vertical() float64   { return p.Top + p.Bottom }

// Constraint is the layout constraint an item is measured under.
type Constraint struct {
	// MaxSize is the largest size the item may take. The main extent is
	// unbounded for scrollable grids.
	MaxSize Size
	// PercentReference resolves percentage sizes inside the item.
	PercentReference Size
	// CrossSize is the resolved extent of the tracks the item spans.
	CrossSize float64
	// MainSize is set when the item is stretched to its line.
	MainSize float64
	Axis     Axis
}

const epsilon = 0.001

func nearZero(v float64) bool        { return math.Abs(v) <= epsilon }
func nearEqual(a, b float64) bool    { return math.Abs(a-b) <= epsilon }
func lessNotEqual(a, b float64) bool { return a-b < -epsilon }
func greatNotEqual(a, b float64) bool {
	return a-b > epsilon
}
func lessOrEqual(a, b float64) bool  { return a-b <= epsilon }
func greatOrEqual(a, b float64) bool { return a-b >= -epsilon }
func positive(v float64) bool        { return v > epsilon }
func nonPositive(v float64) bool     { return v <= epsilon }
func nonNegative(v float64) bool     { return v >= -epsilon }
