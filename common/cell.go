package common

import (
	"github.com/paulmach/orb"
	"math"
)

// CellIndex identifies one cell of a regular lon/lat grid.
type CellIndex [2]int

// GetCellIndexForCoordinate returns the cell containing the coordinate. Cells are half-open, a coordinate exactly on
// a cell border belongs to the upper/right cell.
func GetCellIndexForCoordinate(x float64, y float64, cellWidth float64, cellHeight float64) CellIndex {
	return CellIndex{int(math.Floor(x / cellWidth)), int(math.Floor(y / cellHeight))}
}

func (c CellIndex) X() int { return c[0] }

func (c CellIndex) Y() int { return c[1] }

func (c CellIndex) isBelowOrLeftOf(other CellIndex) bool {
	return c.X() < other.X() || c.Y() < other.Y()
}

func (c CellIndex) isAboveOrRightOf(other CellIndex) bool {
	return c.X() > other.X() || c.Y() > other.Y()
}

func (c CellIndex) ToPoint(cellWidth float64, cellHeight float64) orb.Point {
	return orb.Point{float64(c[0]) * cellWidth, float64(c[1]) * cellHeight}
}

// CellExtent is the inclusive range of cells between the lower left and upper right cell.
type CellExtent [2]CellIndex

func GetCellExtentForBound(bound orb.Bound, cellWidth float64, cellHeight float64) CellExtent {
	return CellExtent{
		GetCellIndexForCoordinate(bound.Min.X(), bound.Min.Y(), cellWidth, cellHeight),
		GetCellIndexForCoordinate(bound.Max.X(), bound.Max.Y(), cellWidth, cellHeight),
	}
}

func (c CellExtent) LowerLeftCell() CellIndex { return c[0] }

func (c CellExtent) UpperRightCell() CellIndex { return c[1] }

func (c CellExtent) Expand(cell CellIndex) CellExtent {
	if c.Contains(cell) {
		return c
	}

	minX := c.LowerLeftCell().X()
	minY := c.LowerLeftCell().Y()

	maxX := c.UpperRightCell().X()
	maxY := c.UpperRightCell().Y()

	if cell.X() < minX {
		minX = cell.X()
	}
	if cell.Y() < minY {
		minY = cell.Y()
	}

	if cell.X() > maxX {
		maxX = cell.X()
	}
	if cell.Y() > maxY {
		maxY = cell.Y()
	}

	return CellExtent{
		CellIndex{minX, minY},
		CellIndex{maxX, maxY},
	}
}

// Intersect returns the cells contained in both extents. The boolean is false when the extents don't overlap.
func (c CellExtent) Intersect(other CellExtent) (CellExtent, bool) {
	minX := max(c.LowerLeftCell().X(), other.LowerLeftCell().X())
	minY := max(c.LowerLeftCell().Y(), other.LowerLeftCell().Y())
	maxX := min(c.UpperRightCell().X(), other.UpperRightCell().X())
	maxY := min(c.UpperRightCell().Y(), other.UpperRightCell().Y())

	if minX > maxX || minY > maxY {
		return CellExtent{}, false
	}

	return CellExtent{CellIndex{minX, minY}, CellIndex{maxX, maxY}}, true
}

func (c CellExtent) Contains(cell CellIndex) bool {
	return !cell.isAboveOrRightOf(c.UpperRightCell()) && !cell.isBelowOrLeftOf(c.LowerLeftCell())
}

func (c CellExtent) CellCount() int {
	return (c.UpperRightCell().X() - c.LowerLeftCell().X() + 1) * (c.UpperRightCell().Y() - c.LowerLeftCell().Y() + 1)
}

func (c CellExtent) GetCellIndices() []CellIndex {
	var indices []CellIndex

	for x := c.LowerLeftCell().X(); x <= c.UpperRightCell().X(); x++ {
		for y := c.LowerLeftCell().Y(); y <= c.UpperRightCell().Y(); y++ {
			indices = append(indices, CellIndex{x, y})
		}
	}

	return indices
}
