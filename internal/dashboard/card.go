// Package dashboard holds the dashboard layout model and the Store that owns
// it. Every mutation goes through the Store, which keeps grid and pixel
// geometry consistent, rejects colliding placements and persists the result.
package dashboard

import (
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
)

// CardSize is a named size preset. It is advisory only.
type CardSize string

// Card size presets.
const (
	SizeSmall  CardSize = "small"
	SizeMedium CardSize = "medium"
	SizeLarge  CardSize = "large"
	SizeFull   CardSize = "full"
)

// Valid reports whether s is a known preset.
func (s CardSize) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeFull:
		return true
	}
	return false
}

// LayoutMode selects between grid placement and free pixel placement.
type LayoutMode string

// Layout modes.
const (
	LayoutGrid     LayoutMode = "grid"
	LayoutFreeform LayoutMode = "freeform"
)

// Valid reports whether m is a known mode.
func (m LayoutMode) Valid() bool {
	return m == LayoutGrid || m == LayoutFreeform
}

// Direction is a side of a card used by expand and shrink.
type Direction string

// Directions.
const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Directions lists every direction in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

// ParseDirection converts a string into a Direction.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(s)
	switch d {
	case Up, Down, Left, Right:
		return d, true
	}
	return "", false
}

// Card is one dashboard tile.
type Card struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Enabled         bool              `json:"enabled"`
	Order           int               `json:"order"`
	Size            CardSize          `json:"size"`
	Position        layout.Point      `json:"position"`
	Dimensions      layout.Dimensions `json:"dimensions"`
	GridPosition    *layout.GridRect  `json:"gridPosition,omitempty"`
	CanExpandUp     bool              `json:"canExpandUp"`
	CanExpandDown   bool              `json:"canExpandDown"`
	CanExpandLeft   bool              `json:"canExpandLeft"`
	CanExpandRight  bool              `json:"canExpandRight"`
	IsSnappedToGrid bool              `json:"isSnappedToGrid"`
}

// Clone returns a deep copy of c.
func (c Card) Clone() Card {
	if c.GridPosition != nil {
		g := *c.GridPosition
		c.GridPosition = &g
	}
	return c
}

// Rect returns the card's pixel rectangle as origin and extent.
func (c Card) Rect() (layout.Point, layout.Dimensions) {
	return c.Position, c.Dimensions
}

// CanExpand returns the stored advisory flag for d.
func (c Card) CanExpand(d Direction) bool {
	switch d {
	case Up:
		return c.CanExpandUp
	case Down:
		return c.CanExpandDown
	case Left:
		return c.CanExpandLeft
	case Right:
		return c.CanExpandRight
	}
	return false
}

func (c *Card) setCanExpand(d Direction, v bool) {
	switch d {
	case Up:
		c.CanExpandUp = v
	case Down:
		c.CanExpandDown = v
	case Left:
		c.CanExpandLeft = v
	case Right:
		c.CanExpandRight = v
	}
}

// CardPatch carries the fields UpdateCard merges into a card. Nil fields are
// left untouched.
type CardPatch struct {
	Name            *string
	Enabled         *bool
	Order           *int
	Size            *CardSize
	Position        *layout.Point
	Dimensions      *layout.Dimensions
	GridPosition    *layout.GridRect
	IsSnappedToGrid *bool

	// ClearGridPosition detaches the card from the grid. It is applied
	// before GridPosition.
	ClearGridPosition bool
}

// MoveTo returns a patch that sets the card position.
func MoveTo(p layout.Point) CardPatch {
	return CardPatch{Position: &p}
}

// ResizeTo returns a patch that sets the card dimensions.
func ResizeTo(d layout.Dimensions) CardPatch {
	return CardPatch{Dimensions: &d}
}

// PlaceAt returns a patch that sets the card grid position.
func PlaceAt(r layout.GridRect) CardPatch {
	return CardPatch{GridPosition: &r}
}
