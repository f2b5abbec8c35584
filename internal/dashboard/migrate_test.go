package dashboard

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if len(s.Cards) != 4 {
		t.Fatalf("expected 4 default cards, got %d", len(s.Cards))
	}
	assertGeometryConsistent(t, s)
	assertNoOverlaps(t, s)

	info, ok := s.Card("system-info")
	if !ok {
		t.Fatal("system-info missing")
	}
	if info.Position != (layout.Point{X: 0, Y: config.HeaderOffset}) {
		t.Errorf("system-info position = %+v", info.Position)
	}
	if info.Dimensions != (layout.Dimensions{Width: 400, Height: 300}) {
		t.Errorf("system-info dimensions = %+v", info.Dimensions)
	}
	// The defaults tile the whole grid, so nothing can grow.
	for _, c := range s.Cards {
		for _, d := range Directions {
			if c.CanExpand(d) {
				t.Errorf("%s should not be expandable %s", c.ID, d)
			}
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.LayoutConfig.LayoutMode = LayoutFreeform
	s.LayoutConfig.SnapThreshold = 35
	s.LayoutConfig.MagneticSnapping = false
	s.Cards[1].Enabled = false
	s.Cards[2].GridPosition = nil
	s.Cards[2].IsSnappedToGrid = false
	s.Cards[2].Position = layout.Point{X: 333, Y: 444}
	s.Cards[2].Dimensions = layout.Dimensions{Width: 250, Height: 175}
	s.Cards = append(s.Cards, Card{
		ID:         "weather",
		Name:       "Weather",
		Enabled:    true,
		Order:      4,
		Size:       SizeSmall,
		Position:   layout.Point{X: 10, Y: 90},
		Dimensions: layout.Dimensions{Width: 200, Height: 150},
	})

	for name, want := range map[string]Settings{"defaults": DefaultSettings(), "modified": s} {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(want)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
			}
		})
	}
}

func TestRoundTripKeepsStoredCellSize(t *testing.T) {
	want := DefaultSettings()
	want.LayoutConfig.GridSize = layout.GridSize{Cols: 12, Rows: 8}
	want.LayoutConfig.GridCellSize = layout.CellSize{Width: 120, Height: 100}
	want.relayout()
	// A single cell is smaller than the card minimum here.
	want.place(0, layout.GridRect{Row: 0, Col: 0, RowSpan: 1, ColSpan: 1})
	refreshExpandFlags(&want)

	data, err := Encode(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.LayoutConfig.GridCellSize != want.LayoutConfig.GridCellSize {
		t.Errorf("cell size = %+v, want %+v", got.LayoutConfig.GridCellSize, want.LayoutConfig.GridCellSize)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, want)
	}
	assertGeometryConsistent(t, got)
}

func TestDecodeLegacyGridUsesStoredCells(t *testing.T) {
	payload := `{"layoutConfig":{"layoutMode":"grid","gridCellSize":{"width":300,"height":200}},"cards":[{"id":"system-info"}]}`
	got, err := Decode([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}

	c, _ := got.Card("system-info")
	if c.GridPosition == nil || *c.GridPosition != (layout.GridRect{Row: 0, Col: 0, RowSpan: 2, ColSpan: 2}) {
		t.Fatalf("grid position not back-filled: %+v", c.GridPosition)
	}
	if c.Dimensions != (layout.Dimensions{Width: 600, Height: 400}) {
		t.Errorf("dimensions = %+v, want 600x400", c.Dimensions)
	}
	if len(got.Cards) != 4 {
		t.Errorf("expected missing defaults appended, got %d cards", len(got.Cards))
	}
	assertGeometryConsistent(t, got)
}

func TestDecodeLegacyList(t *testing.T) {
	got, err := Decode([]byte(`[{"id":"system-info","enabled":false}]`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	def, _ := DefaultSettings().Card("system-info")
	c, ok := got.Card("system-info")
	if !ok {
		t.Fatal("system-info missing after upgrade")
	}
	if c.Enabled {
		t.Error("stored enabled=false was lost")
	}
	if c.Order != def.Order || c.Position != def.Position || c.Dimensions != def.Dimensions {
		t.Errorf("fields not back-filled from default: %+v", c)
	}
	if c.GridPosition == nil || *c.GridPosition != *def.GridPosition {
		t.Errorf("grid position not back-filled: %+v", c.GridPosition)
	}
	if len(got.Cards) != 4 {
		t.Errorf("missing default cards not appended, got %d cards", len(got.Cards))
	}
	if got.LayoutConfig != DefaultLayoutConfig() {
		t.Errorf("layout config not back-filled: %+v", got.LayoutConfig)
	}
	if got.Version != SchemaVersion {
		t.Errorf("version = %d", got.Version)
	}
}

func TestDecodeLegacyIdempotent(t *testing.T) {
	first, err := Decode([]byte(`[{"id":"file-browser","name":"Docs"},{"id":"notes","order":7}]`))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Encode(first)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second load changed settings\nfirst:  %+v\nsecond: %+v", first, second)
	}

	notes, ok := second.Card("notes")
	if !ok {
		t.Fatal("unknown card dropped")
	}
	if notes.Order != 7 || notes.Name != "notes" || notes.GridPosition != nil {
		t.Errorf("unknown card not filled as freeform card: %+v", notes)
	}
	if notes.Dimensions.Width < config.MinCardWidth || notes.Dimensions.Height < config.MinCardHeight {
		t.Errorf("unknown card below minimum size: %+v", notes.Dimensions)
	}
}

func TestDecodeUnversionedObject(t *testing.T) {
	payload := `{
		"layoutConfig": {"layoutMode": "freeform", "gridCellSize": {"width": 300, "height": 200}},
		"cards": [
			{"id": "network-status", "order": 0, "gridPosition": {"row": 3, "col": 1, "rowSpan": 0, "colSpan": 1}},
			{"id": "network-status", "order": 9}
		]
	}`
	got, err := Decode([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}

	cfg := got.LayoutConfig
	if cfg.LayoutMode != LayoutFreeform {
		t.Errorf("stored layout mode lost: %s", cfg.LayoutMode)
	}
	if !cfg.MagneticSnapping || cfg.SnapThreshold != config.DefaultSnapThreshold || cfg.GridSize.Cols != 6 {
		t.Errorf("missing layout fields not back-filled: %+v", cfg)
	}

	c, _ := got.Card("network-status")
	if c.Order != 0 {
		t.Errorf("duplicate id should keep the first entry, order = %d", c.Order)
	}
	if c.GridPosition.RowSpan != 1 {
		t.Errorf("zero span should be raised to 1, got %d", c.GridPosition.RowSpan)
	}
	want := layout.Point{X: 300, Y: config.HeaderOffset + 600}
	if c.Position != want {
		t.Errorf("position derived from grid = %+v, want %+v", c.Position, want)
	}
	if len(got.Cards) != 4 {
		t.Errorf("expected missing defaults appended, got %d cards", len(got.Cards))
	}
}

func TestDecodeFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{name: "garbage", payload: "not json"},
		{name: "truncated object", payload: `{"cards": [`},
		{name: "empty", payload: "   "},
		{name: "wrong list element", payload: `[1, 2, 3]`},
		{name: "future version", payload: `{"version": 99, "cards": []}`, wantErr: ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.payload))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, DefaultSettings()) {
				t.Error("fallback should be the default settings")
			}
		})
	}
}

func TestDecodeEmptyCardListUsesDefaults(t *testing.T) {
	got, err := Decode([]byte(`{"version": 2, "cards": []}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Cards) != 4 {
		t.Errorf("expected default cards, got %d", len(got.Cards))
	}
}

func assertGeometryConsistent(t *testing.T, s Settings) {
	t.Helper()
	for _, c := range s.Cards {
		if c.GridPosition == nil {
			continue
		}
		pos := layout.GridToAbsolute(*c.GridPosition, s.LayoutConfig.GridCellSize, config.HeaderOffset)
		dim := layout.GridToDimensions(*c.GridPosition, s.LayoutConfig.GridCellSize)
		if c.Position != pos || c.Dimensions != dim {
			t.Errorf("%s geometry %+v %+v does not match grid %+v", c.ID, c.Position, c.Dimensions, *c.GridPosition)
		}
	}
}

func assertNoOverlaps(t *testing.T, s Settings) {
	t.Helper()
	for i, a := range s.Cards {
		for _, b := range s.Cards[i+1:] {
			if !a.Enabled || !b.Enabled || a.GridPosition == nil || b.GridPosition == nil {
				continue
			}
			if layout.Overlaps(*a.GridPosition, *b.GridPosition) {
				t.Errorf("%s %+v overlaps %s %+v", a.ID, *a.GridPosition, b.ID, *b.GridPosition)
			}
		}
	}
}
