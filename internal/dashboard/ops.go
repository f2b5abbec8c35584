package dashboard

import (
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
)

// grow returns r extended by one cell toward d. ok is false when r already
// touches the grid edge on that side.
func grow(r layout.GridRect, d Direction, grid layout.GridSize) (layout.GridRect, bool) {
	switch d {
	case Up:
		if r.Row <= 0 {
			return r, false
		}
		r.Row--
		r.RowSpan++
	case Down:
		if r.Row+r.RowSpan >= grid.Rows {
			return r, false
		}
		r.RowSpan++
	case Left:
		if r.Col <= 0 {
			return r, false
		}
		r.Col--
		r.ColSpan++
	case Right:
		if r.Col+r.ColSpan >= grid.Cols {
			return r, false
		}
		r.ColSpan++
	default:
		return r, false
	}
	return r, true
}

// shrink returns r with one cell removed from side d. ok is false when the
// span along that axis is already a single cell.
func shrink(r layout.GridRect, d Direction) (layout.GridRect, bool) {
	switch d {
	case Up:
		if r.RowSpan <= 1 {
			return r, false
		}
		r.Row++
		r.RowSpan--
	case Down:
		if r.RowSpan <= 1 {
			return r, false
		}
		r.RowSpan--
	case Left:
		if r.ColSpan <= 1 {
			return r, false
		}
		r.Col++
		r.ColSpan--
	case Right:
		if r.ColSpan <= 1 {
			return r, false
		}
		r.ColSpan--
	default:
		return r, false
	}
	return r, true
}

// expandable reports whether the card at index i can grow toward d without
// leaving the grid or overlapping an enabled neighbour.
func (s Settings) expandable(i int, d Direction) (layout.GridRect, bool) {
	c := s.Cards[i]
	if c.GridPosition == nil {
		return layout.GridRect{}, false
	}
	candidate, ok := grow(*c.GridPosition, d, s.LayoutConfig.GridSize)
	if !ok || layout.Collides(candidate, s.obstacles(c.ID)) {
		return layout.GridRect{}, false
	}
	return candidate, true
}

// refreshExpandFlags recomputes every card's advisory expand flags from the
// live expansion rules.
func refreshExpandFlags(s *Settings) {
	for i := range s.Cards {
		for _, d := range Directions {
			_, ok := s.expandable(i, d)
			s.Cards[i].setCanExpand(d, ok)
		}
	}
}

// snapRect computes where SnapToGrid would place the card at index i when
// dropped at p. Cards without a grid cell derive their spans from their
// pixel dimensions.
func (s Settings) snapRect(i int, p layout.Point) layout.GridRect {
	cfg := s.LayoutConfig
	c := s.Cards[i]

	var r layout.GridRect
	if c.GridPosition != nil {
		r.RowSpan = min(c.GridPosition.RowSpan, cfg.GridSize.Rows)
		r.ColSpan = min(c.GridPosition.ColSpan, cfg.GridSize.Cols)
	} else {
		r.RowSpan = layout.SpanFor(c.Dimensions.Height, cfg.GridCellSize.Height, cfg.GridSize.Rows)
		r.ColSpan = layout.SpanFor(c.Dimensions.Width, cfg.GridCellSize.Width, cfg.GridSize.Cols)
	}

	row, col := layout.AbsoluteToGrid(p, cfg.GridCellSize, config.HeaderOffset)
	r.Row = layout.Clamp(row, 0, cfg.GridSize.Rows-r.RowSpan)
	r.Col = layout.Clamp(col, 0, cfg.GridSize.Cols-r.ColSpan)
	return r
}
