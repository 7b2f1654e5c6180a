package sequence

import "math"

// Geometry describes a wrapped, row-major grid of equally sized cells.
// The viewport covers the full scrollable content, in the same units as the pointer.
type Geometry struct {
	CellWidth      float32
	CellHeight     float32
	Spacing        float32
	ViewportWidth  float32
	ViewportHeight float32
}

// Point is a pointer position relative to the top-left corner of the grid content.
type Point struct {
	X, Y float32
}

// Columns returns how many whole cells fit across the viewport.
func (g Geometry) Columns() int {
	return wholeCells(g.ViewportWidth, g.CellWidth+g.Spacing)
}

// Rows returns how many whole cells fit down the viewport.
func (g Geometry) Rows() int {
	return wholeCells(g.ViewportHeight, g.CellHeight+g.Spacing)
}

func wholeCells(extent, pitch float32) int {
	if pitch <= 0 || extent <= 0 {
		return 0
	}
	return int(math.Floor(float64(extent / pitch)))
}

// ResolveDropRow maps a drop at p onto the row the dragged block should be inserted before,
// or EndOfSequence when the drop lands after the last entry. A cell no entry occupies counts as
// the last entry. Pointers past the midpoint of a cell snap to the following row, and pointers
// outside the last full column or row snap past the hovered entry.
func ResolveDropRow(g Geometry, p Point, rowCount int) int {
	cols, rows := g.Columns(), g.Rows()
	if cols == 0 || rows == 0 || rowCount <= 0 {
		return EndOfSequence
	}

	pitchX := g.CellWidth + g.Spacing
	pitchY := g.CellHeight + g.Spacing
	x, y := max(p.X, 0), max(p.Y, 0)

	col := min(cols, int(math.Floor(float64(x/pitchX))))
	row := min(rows, int(math.Floor(float64(y/pitchY))))

	target := min(row*cols+col, rowCount-1)
	if row >= rows || col >= cols || x > (float32(col)+0.5)*pitchX {
		target++
	}

	if target >= rowCount {
		return EndOfSequence
	}
	return target
}

// Drop decodes a drag payload and moves the dragged rows to the position resolved from p.
// It reports false with the cause when the payload or the rows are rejected; the collection
// is untouched in that case.
func Drop(c *Collection, mimeType, payload string, g Geometry, p Point) (bool, error) {
	rows, err := DecodeRows(mimeType, payload)
	if err != nil {
		return false, err
	}

	target := ResolveDropRow(g, p, c.Count())
	if err := c.MoveRows(rows, target); err != nil {
		return false, err
	}
	return true, nil
}
