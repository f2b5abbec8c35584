// Package layout provides the pure geometry used by the dashboard: conversion
// between grid cells and absolute pixel rectangles, collision tests between
// grid rectangles, and magnetic snapping toward grid lines.
package layout

import "math"

// Point is an absolute position in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Dimensions is an absolute extent in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CellSize is the pixel size of a single grid cell.
type CellSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GridSize is the extent of the grid in cells.
type GridSize struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// GridRect is a rectangle of grid cells.
type GridRect struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	RowSpan int `json:"rowSpan"`
	ColSpan int `json:"colSpan"`
}

// Viewport is the visible drawing surface in pixels.
type Viewport struct {
	Width  int
	Height int
}

// GridToAbsolute returns the pixel origin of a grid rectangle.
func GridToAbsolute(r GridRect, cell CellSize, headerOffset int) Point {
	return Point{
		X: r.Col * cell.Width,
		Y: headerOffset + r.Row*cell.Height,
	}
}

// GridToDimensions returns the pixel extent of a grid rectangle.
func GridToDimensions(r GridRect, cell CellSize) Dimensions {
	return Dimensions{
		Width:  r.ColSpan * cell.Width,
		Height: r.RowSpan * cell.Height,
	}
}

// AbsoluteToGrid returns the grid cell nearest to an absolute point.
// The result is not clamped; callers bound it to the grid extent.
func AbsoluteToGrid(p Point, cell CellSize, headerOffset int) (row, col int) {
	if cell.Width > 0 {
		col = roundDiv(p.X, cell.Width)
	}
	if cell.Height > 0 {
		row = roundDiv(p.Y-headerOffset, cell.Height)
	}
	return row, col
}

// CellSizeForViewport derives the live cell size from the visible surface, so
// that the grid always spans the viewport below the header.
func CellSizeForViewport(vp Viewport, grid GridSize, headerOffset int) CellSize {
	cell := CellSize{Width: 1, Height: 1}
	if grid.Cols > 0 {
		cell.Width = max(vp.Width/grid.Cols, 1)
	}
	if grid.Rows > 0 {
		cell.Height = max((vp.Height-headerOffset)/grid.Rows, 1)
	}
	return cell
}

// Contains reports whether the rectangle lies within the grid extent.
func (r GridRect) Contains(grid GridSize) bool {
	return r.Row >= 0 && r.Col >= 0 &&
		r.Row+r.RowSpan <= grid.Rows &&
		r.Col+r.ColSpan <= grid.Cols
}

// Clamp returns v bounded to [lo, hi]. When hi < lo, lo wins.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// roundDiv divides and rounds halves up toward +Inf, so -0.5 becomes 0.
func roundDiv(n, d int) int {
	return int(math.Floor(float64(n)/float64(d) + 0.5))
}
