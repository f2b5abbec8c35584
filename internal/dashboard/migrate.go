package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
)

// ErrUnsupportedVersion is returned by Decode for payloads written by a newer
// schema than this build understands.
var ErrUnsupportedVersion = errors.New("unsupported settings version")

// cardRecord mirrors Card with every field optional, so that payloads from
// older schemas can be told apart from explicit zero values.
type cardRecord struct {
	ID              *string            `json:"id"`
	Name            *string            `json:"name"`
	Enabled         *bool              `json:"enabled"`
	Order           *int               `json:"order"`
	Size            *CardSize          `json:"size"`
	Position        *layout.Point      `json:"position"`
	Dimensions      *layout.Dimensions `json:"dimensions"`
	GridPosition    *layout.GridRect   `json:"gridPosition"`
	CanExpandUp     *bool              `json:"canExpandUp"`
	CanExpandDown   *bool              `json:"canExpandDown"`
	CanExpandLeft   *bool              `json:"canExpandLeft"`
	CanExpandRight  *bool              `json:"canExpandRight"`
	IsSnappedToGrid *bool              `json:"isSnappedToGrid"`
}

type layoutRecord struct {
	LayoutMode       *LayoutMode      `json:"layoutMode"`
	GridSize         *layout.GridSize `json:"gridSize"`
	GridCellSize     *layout.CellSize `json:"gridCellSize"`
	MagneticSnapping *bool            `json:"magneticSnapping"`
	SnapThreshold    *int             `json:"snapThreshold"`
	SnapToGrid       *bool            `json:"snapToGrid"`
}

type settingsRecord struct {
	Version      *int          `json:"version"`
	LayoutConfig *layoutRecord `json:"layoutConfig"`
	Cards        []cardRecord  `json:"cards"`
}

// migration upgrades a record from one schema version to the next.
type migration struct {
	from int
	run  func(*settingsRecord)
}

// migrations run in order. Version 0 is a bare card list, version 1 is the
// settings object before versioning and grid placement.
var migrations = []migration{
	{from: 0, run: migrateListToObject},
	{from: 1, run: migrateAddMissingCards},
}

// migrateListToObject has nothing to convert beyond the wrapping done by
// Decode; the top-level layout config is back-filled when the record is built.
func migrateListToObject(*settingsRecord) {}

// migrateAddMissingCards appends built-in cards the stored payload predates.
func migrateAddMissingCards(rec *settingsRecord) {
	seen := make(map[string]bool, len(rec.Cards))
	for _, c := range rec.Cards {
		if c.ID != nil {
			seen[*c.ID] = true
		}
	}
	for _, d := range DefaultSettings().Cards {
		if seen[d.ID] {
			continue
		}
		id := d.ID
		rec.Cards = append(rec.Cards, cardRecord{ID: &id})
	}
}

// Decode parses a persisted payload, upgrading legacy shapes to the current
// schema. On any error the returned settings are the defaults.
func Decode(data []byte) (Settings, error) {
	rec, version, err := parseRecord(data)
	if err != nil {
		return DefaultSettings(), err
	}
	if version > SchemaVersion {
		return DefaultSettings(), fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	legacy := version < SchemaVersion
	for _, m := range migrations {
		if m.from >= version {
			m.run(rec)
			version = m.from + 1
		}
	}

	return buildSettings(rec, legacy), nil
}

// Encode serializes settings in the current schema.
func Encode(s Settings) ([]byte, error) {
	s.Version = SchemaVersion
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}

// parseRecord detects the payload shape and returns it with its version.
func parseRecord(data []byte) (*settingsRecord, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, errors.New("empty settings payload")
	}

	switch trimmed[0] {
	case '[':
		var cards []cardRecord
		if err := json.Unmarshal(trimmed, &cards); err != nil {
			return nil, 0, fmt.Errorf("failed to parse legacy card list: %w", err)
		}
		return &settingsRecord{Cards: cards}, 0, nil
	case '{':
		var rec settingsRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return nil, 0, fmt.Errorf("failed to parse settings: %w", err)
		}
		version := 1
		if rec.Version != nil {
			version = *rec.Version
		}
		if version < 1 {
			version = 1
		}
		return &rec, version, nil
	default:
		return nil, 0, fmt.Errorf("unexpected settings payload starting with %q", trimmed[0])
	}
}

// buildSettings back-fills every missing field from the defaults and
// normalizes values that would break the model's invariants. Only legacy
// payloads take a missing gridPosition from the defaults.
func buildSettings(rec *settingsRecord, legacy bool) Settings {
	s := Settings{
		Version:      SchemaVersion,
		LayoutConfig: buildLayoutConfig(rec.LayoutConfig),
	}

	seen := make(map[string]bool, len(rec.Cards))
	nextOrder := 0
	for _, r := range rec.Cards {
		if r.Order != nil {
			nextOrder = max(nextOrder, *r.Order+1)
		}
	}

	for _, r := range rec.Cards {
		if r.ID == nil || *r.ID == "" || seen[*r.ID] {
			continue
		}
		seen[*r.ID] = true

		s.Cards = append(s.Cards, buildCard(r, s.LayoutConfig, legacy, &nextOrder))
	}

	if len(s.Cards) == 0 {
		s.Cards = DefaultSettings().Cards
	}
	return s
}

func buildLayoutConfig(r *layoutRecord) LayoutConfig {
	cfg := DefaultLayoutConfig()
	if r == nil {
		return cfg
	}
	if r.LayoutMode != nil && r.LayoutMode.Valid() {
		cfg.LayoutMode = *r.LayoutMode
	}
	if r.GridSize != nil && r.GridSize.Cols > 0 && r.GridSize.Rows > 0 {
		cfg.GridSize = *r.GridSize
	}
	if r.GridCellSize != nil && r.GridCellSize.Width > 0 && r.GridCellSize.Height > 0 {
		cfg.GridCellSize = *r.GridCellSize
	}
	if r.MagneticSnapping != nil {
		cfg.MagneticSnapping = *r.MagneticSnapping
	}
	if r.SnapThreshold != nil && *r.SnapThreshold >= 0 {
		cfg.SnapThreshold = *r.SnapThreshold
	}
	if r.SnapToGrid != nil {
		cfg.SnapToGrid = *r.SnapToGrid
	}
	return cfg
}

// buildCard fills a card from its record. Known ids take missing fields from
// the matching default card; unknown ids get a minimal freeform card placed
// after every stored order. Pixel geometry the record lacks is converted from
// its grid cell with the payload's cell size.
func buildCard(r cardRecord, cfg LayoutConfig, legacy bool, nextOrder *int) Card {
	c, known := defaultCardFor(*r.ID)
	if !known {
		c = Card{
			ID:         *r.ID,
			Name:       *r.ID,
			Enabled:    true,
			Order:      *nextOrder,
			Size:       SizeMedium,
			Position:   layout.Point{X: 0, Y: config.HeaderOffset},
			Dimensions: layout.Dimensions{Width: config.MinCardWidth, Height: config.MinCardHeight},
		}
		*nextOrder++
	}

	setIf(&c.Name, r.Name)
	setIf(&c.Enabled, r.Enabled)
	setIf(&c.Order, r.Order)
	if r.Size != nil && r.Size.Valid() {
		c.Size = *r.Size
	}
	setIf(&c.Position, r.Position)
	setIf(&c.Dimensions, r.Dimensions)
	switch {
	case r.GridPosition != nil:
		g := normalizeRect(*r.GridPosition)
		c.GridPosition = &g
		// Older payloads stored the grid cell without its pixel rectangle.
		if r.Position == nil {
			c.Position = layout.GridToAbsolute(g, cfg.GridCellSize, config.HeaderOffset)
		}
		if r.Dimensions == nil {
			c.Dimensions = layout.GridToDimensions(g, cfg.GridCellSize)
		}
	case !legacy:
		// Current payloads omit gridPosition for cards that are off the grid.
		c.GridPosition = nil
	case cfg.LayoutMode == LayoutGrid && c.GridPosition != nil:
		// The grid cell came from the defaults; draw it with the stored cells.
		c.Position = layout.GridToAbsolute(*c.GridPosition, cfg.GridCellSize, config.HeaderOffset)
		c.Dimensions = layout.GridToDimensions(*c.GridPosition, cfg.GridCellSize)
	}
	setIf(&c.CanExpandUp, r.CanExpandUp)
	setIf(&c.CanExpandDown, r.CanExpandDown)
	setIf(&c.CanExpandLeft, r.CanExpandLeft)
	setIf(&c.CanExpandRight, r.CanExpandRight)
	setIf(&c.IsSnappedToGrid, r.IsSnappedToGrid)

	// Grid cards take their extent from the cells, which may be smaller than
	// the card minimum in a stored layout.
	if c.GridPosition == nil {
		c.Dimensions = minDimensions(c.Dimensions)
	}
	return c
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// normalizeRect keeps a stored rectangle at non-negative coordinates with
// spans of at least one cell.
func normalizeRect(r layout.GridRect) layout.GridRect {
	return layout.GridRect{
		Row:     max(r.Row, 0),
		Col:     max(r.Col, 0),
		RowSpan: max(r.RowSpan, 1),
		ColSpan: max(r.ColSpan, 1),
	}
}
