package model

import "math"

// BBox is a rectangular region on a page, in page coordinates.
// The origin is the top-left corner of the page and Y grows downward,
// so Y0 is the top edge of the box and Y1 the bottom edge.
// A well-formed box satisfies X0 <= X1 and Y0 <= Y1.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// NewBBox creates a bounding box, normalizing flipped coordinates.
func NewBBox(x0, y0, x1, y1 float64) BBox {
	return BBox{
		X0: math.Min(x0, x1),
		Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1),
		Y1: math.Max(y0, y1),
	}
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Area returns the area of the box.
func (b BBox) Area() float64 {
	return b.Width() * b.Height()
}

// IsValid reports whether the box is well-formed (X0 <= X1 and Y0 <= Y1).
func (b BBox) IsValid() bool {
	return b.X0 <= b.X1 && b.Y0 <= b.Y1
}

// Contains reports whether the point (x, y) lies inside the box.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects reports whether two boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return !(b.X1 < other.X0 ||
		b.X0 > other.X1 ||
		b.Y1 < other.Y0 ||
		b.Y0 > other.Y1)
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// VerticalGap returns the vertical distance between the bottom of the upper
// box and the top of the lower box. The result is negative if the boxes
// overlap vertically.
func (b BBox) VerticalGap(below BBox) float64 {
	return below.Y0 - b.Y1
}

// CenterX returns the horizontal center of the box.
func (b BBox) CenterX() float64 {
	return (b.X0 + b.X1) / 2
}

// CenterY returns the vertical center of the box.
func (b BBox) CenterY() float64 {
	return (b.Y0 + b.Y1) / 2
}
