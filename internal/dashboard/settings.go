package dashboard

import (
	"cmp"
	"slices"

	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
)

// SchemaVersion is the version written with every persisted payload.
const SchemaVersion = 2

// LayoutConfig is the global layout configuration.
type LayoutConfig struct {
	LayoutMode       LayoutMode      `json:"layoutMode"`
	GridSize         layout.GridSize `json:"gridSize"`
	GridCellSize     layout.CellSize `json:"gridCellSize"`
	MagneticSnapping bool            `json:"magneticSnapping"`
	SnapThreshold    int             `json:"snapThreshold"`
	SnapToGrid       bool            `json:"snapToGrid"`
}

// LayoutConfigPatch carries the fields UpdateLayoutConfig merges. Nil fields
// are left untouched.
type LayoutConfigPatch struct {
	MagneticSnapping *bool
	SnapThreshold    *int
	SnapToGrid       *bool
	GridCellSize     *layout.CellSize
}

// Settings is the aggregate root persisted as a single entry.
type Settings struct {
	Version      int          `json:"version"`
	LayoutConfig LayoutConfig `json:"layoutConfig"`
	Cards        []Card       `json:"cards"`
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	cards := make([]Card, len(s.Cards))
	for i, c := range s.Cards {
		cards[i] = c.Clone()
	}
	s.Cards = cards
	return s
}

// Card returns the card with the given id.
func (s Settings) Card(id string) (Card, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Cards[i].Clone(), true
	}
	return Card{}, false
}

// SortedCards returns copies of the cards sorted by order, ties broken by id.
func (s Settings) SortedCards() []Card {
	cards := s.Clone().Cards
	slices.SortStableFunc(cards, func(a, b Card) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return cards
}

func (s Settings) indexOf(id string) int {
	return slices.IndexFunc(s.Cards, func(c Card) bool { return c.ID == id })
}

// obstacles returns the grid rectangles of every enabled card except the one
// with the given id. Cards without a grid position never block.
func (s Settings) obstacles(id string) []layout.GridRect {
	var rects []layout.GridRect
	for _, c := range s.Cards {
		if c.ID == id || !c.Enabled || c.GridPosition == nil {
			continue
		}
		rects = append(rects, *c.GridPosition)
	}
	return rects
}

// place sets the card's grid rectangle and recomputes its pixel geometry.
func (s *Settings) place(i int, r layout.GridRect) {
	cfg := s.LayoutConfig
	s.Cards[i].GridPosition = &r
	s.Cards[i].Position = layout.GridToAbsolute(r, cfg.GridCellSize, config.HeaderOffset)
	s.Cards[i].Dimensions = layout.GridToDimensions(r, cfg.GridCellSize)
}

// relayout recomputes the pixel geometry of every grid-placed card.
func (s *Settings) relayout() {
	for i, c := range s.Cards {
		if c.GridPosition != nil {
			s.place(i, *c.GridPosition)
		}
	}
}

func minDimensions(d layout.Dimensions) layout.Dimensions {
	return layout.Dimensions{
		Width:  max(d.Width, config.MinCardWidth),
		Height: max(d.Height, config.MinCardHeight),
	}
}

// minCellSize keeps a single cell at least as large as the smallest card, so
// grid geometry never falls below the card minimum.
func minCellSize(c layout.CellSize) layout.CellSize {
	return layout.CellSize{
		Width:  max(c.Width, config.MinCardWidth),
		Height: max(c.Height, config.MinCardHeight),
	}
}

// LiveCellSize is the grid cell for a viewport: the viewport split into the
// grid extent below the header, never smaller than the minimum card. The
// drawn grid and pointer snapping both use it.
func LiveCellSize(vp layout.Viewport, grid layout.GridSize) layout.CellSize {
	return minCellSize(layout.CellSizeForViewport(vp, grid, config.HeaderOffset))
}

// DefaultLayoutConfig returns the built-in layout configuration.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		LayoutMode:       LayoutGrid,
		GridSize:         layout.GridSize{Cols: 6, Rows: 4},
		GridCellSize:     layout.CellSize{Width: 200, Height: 150},
		MagneticSnapping: true,
		SnapThreshold:    config.DefaultSnapThreshold,
		SnapToGrid:       true,
	}
}

type defaultCard struct {
	id   string
	name string
	size CardSize
	grid layout.GridRect
}

var defaultCards = []defaultCard{
	{id: "system-info", name: "System Info", size: SizeMedium, grid: layout.GridRect{Row: 0, Col: 0, RowSpan: 2, ColSpan: 2}},
	{id: "resource-monitor", name: "Resources", size: SizeMedium, grid: layout.GridRect{Row: 0, Col: 2, RowSpan: 2, ColSpan: 2}},
	{id: "network-status", name: "Network", size: SizeMedium, grid: layout.GridRect{Row: 0, Col: 4, RowSpan: 2, ColSpan: 2}},
	{id: "file-browser", name: "Files", size: SizeFull, grid: layout.GridRect{Row: 2, Col: 0, RowSpan: 2, ColSpan: 6}},
}

// DefaultCardIDs returns the ids of the built-in cards in order.
func DefaultCardIDs() []string {
	ids := make([]string, len(defaultCards))
	for i, d := range defaultCards {
		ids[i] = d.id
	}
	return ids
}

// DefaultSettings returns the hard-coded dashboard: four cards on a 6x4 grid.
func DefaultSettings() Settings {
	s := Settings{
		Version:      SchemaVersion,
		LayoutConfig: DefaultLayoutConfig(),
		Cards:        make([]Card, len(defaultCards)),
	}
	for i, d := range defaultCards {
		s.Cards[i] = Card{
			ID:              d.id,
			Name:            d.name,
			Enabled:         true,
			Order:           i,
			Size:            d.size,
			IsSnappedToGrid: true,
		}
		s.place(i, d.grid)
	}
	refreshExpandFlags(&s)
	return s
}

func defaultCardFor(id string) (Card, bool) {
	return DefaultSettings().Card(id)
}
