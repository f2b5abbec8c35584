package dashboard

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
	"github.com/Gaurav-Gosain/tuidash/internal/storage"
)

// DefaultKey is the storage key the layout is persisted under.
const DefaultKey = "dashboard-settings"

// Store owns the dashboard settings. Every operation is atomic: it either
// commits a new state and persists it, or leaves the state untouched and
// writes nothing. Operations report whether they committed.
type Store struct {
	mu       sync.Mutex
	settings Settings
	backend  storage.Storage
	key      string
	logger   *log.Logger

	subMu  sync.Mutex
	subs   map[string]func(Settings)
	subIDs []string
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for load and persist diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open builds a Store from the settings persisted in backend. Missing,
// corrupt or unsupported payloads fall back to the defaults; the failure is
// logged and never returned.
func Open(ctx context.Context, backend storage.Storage, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		logger:  log.Default(),
		subs:    make(map[string]func(Settings)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.settings = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) Settings {
	if s.backend == nil {
		return DefaultSettings()
	}

	data, err := s.backend.Load(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("no saved layout, using defaults", "key", s.key)
		return DefaultSettings()
	}
	if err != nil {
		s.logger.Warn("failed to load layout, using defaults", "key", s.key, "err", err)
		return DefaultSettings()
	}

	settings, err := Decode(data)
	if err != nil {
		s.logger.Warn("discarding saved layout", "key", s.key, "err", err)
		return DefaultSettings()
	}
	refreshExpandFlags(&settings)
	return settings
}

// Close releases the storage backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// SortedCards returns the cards sorted by order.
func (s *Store) SortedCards() []Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.SortedCards()
}

// Card returns a copy of one card.
func (s *Store) Card(id string) (Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Card(id)
}

// Subscribe registers fn to receive a snapshot after every committed change.
// Callbacks run on the mutating goroutine after the store lock is released.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Settings)) (unsubscribe func()) {
	id := uuid.New().String()

	s.subMu.Lock()
	s.subs[id] = fn
	s.subIDs = append(s.subIDs, id)
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
		s.subIDs = slices.DeleteFunc(s.subIDs, func(v string) bool { return v == id })
	}
}

// mutate applies fn to a copy of the settings. When fn reports a change the
// copy becomes the current state, is persisted and observers are notified.
func (s *Store) mutate(op string, fn func(*Settings) bool) bool {
	s.mu.Lock()
	next := s.settings.Clone()
	if !fn(&next) {
		s.mu.Unlock()
		return false
	}
	refreshExpandFlags(&next)
	next.Version = SchemaVersion
	s.settings = next
	s.persist(op, next)
	snapshot := next.Clone()
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

// persist writes the settings to the backend. Failures are logged only.
func (s *Store) persist(op string, settings Settings) {
	if s.backend == nil {
		return
	}
	data, err := Encode(settings)
	if err != nil {
		s.logger.Error("failed to encode layout", "op", op, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.PersistTimeout)
	defer cancel()
	if err := s.backend.Save(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to persist layout", "op", op, "key", s.key, "err", err)
		return
	}
	s.logger.Debug("layout persisted", "op", op, "bytes", len(data))
}

func (s *Store) notify(snapshot Settings) {
	s.subMu.Lock()
	fns := make([]func(Settings), 0, len(s.subIDs))
	for _, id := range s.subIDs {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snapshot.Clone())
	}
}

// UpdateCard merges patch into the card with the given id. It performs no
// collision check. A new grid position recomputes the card's pixel geometry
// and dimensions never drop below the card minimum.
func (s *Store) UpdateCard(id string, patch CardPatch) bool {
	return s.mutate("update", func(st *Settings) bool {
		i := st.indexOf(id)
		if i < 0 {
			return false
		}
		before := st.Cards[i].Clone()
		c := &st.Cards[i]

		setIf(&c.Name, patch.Name)
		setIf(&c.Enabled, patch.Enabled)
		setIf(&c.Order, patch.Order)
		if patch.Size != nil && patch.Size.Valid() {
			c.Size = *patch.Size
		}
		if patch.Position != nil {
			c.Position = *patch.Position
		}
		if patch.Dimensions != nil {
			c.Dimensions = minDimensions(*patch.Dimensions)
		}
		setIf(&c.IsSnappedToGrid, patch.IsSnappedToGrid)
		if patch.ClearGridPosition {
			c.GridPosition = nil
			c.IsSnappedToGrid = false
		}
		if patch.GridPosition != nil {
			st.place(i, normalizeRect(*patch.GridPosition))
		}

		return !cardsEqual(before, st.Cards[i])
	})
}

// UpdateLayoutMode switches between grid and freeform. Entering grid mode
// moves every grid-placed card back onto its cells.
func (s *Store) UpdateLayoutMode(mode LayoutMode) bool {
	return s.mutate("layout-mode", func(st *Settings) bool {
		return st.setLayoutMode(mode)
	})
}

// ToggleLayoutMode flips between grid and freeform.
func (s *Store) ToggleLayoutMode() bool {
	return s.mutate("layout-mode", func(st *Settings) bool {
		if st.LayoutConfig.LayoutMode == LayoutGrid {
			return st.setLayoutMode(LayoutFreeform)
		}
		return st.setLayoutMode(LayoutGrid)
	})
}

func (s *Settings) setLayoutMode(mode LayoutMode) bool {
	if !mode.Valid() || s.LayoutConfig.LayoutMode == mode {
		return false
	}
	s.LayoutConfig.LayoutMode = mode
	if mode == LayoutGrid {
		s.relayout()
	}
	return true
}

// UpdateLayoutConfig merges patch into the layout configuration. A new cell
// size is raised to the card minimum and, in grid mode, re-lays out every
// grid-placed card.
func (s *Store) UpdateLayoutConfig(patch LayoutConfigPatch) bool {
	return s.mutate("layout-config", func(st *Settings) bool {
		before := st.LayoutConfig
		cfg := &st.LayoutConfig

		setIf(&cfg.MagneticSnapping, patch.MagneticSnapping)
		setIf(&cfg.SnapToGrid, patch.SnapToGrid)
		if patch.SnapThreshold != nil && *patch.SnapThreshold >= 0 {
			cfg.SnapThreshold = *patch.SnapThreshold
		}
		if patch.GridCellSize != nil {
			cfg.GridCellSize = minCellSize(*patch.GridCellSize)
		}

		if *cfg == before {
			return false
		}
		if cfg.GridCellSize != before.GridCellSize && cfg.LayoutMode == LayoutGrid {
			st.relayout()
		}
		return true
	})
}

// ReorderCards replaces the card collection. Callers assign contiguous
// orders matching the new sequence. Lists with missing or repeated ids are
// rejected.
func (s *Store) ReorderCards(cards []Card) bool {
	return s.mutate("reorder", func(st *Settings) bool {
		if len(cards) == 0 {
			return false
		}
		seen := make(map[string]bool, len(cards))
		next := make([]Card, len(cards))
		for i, c := range cards {
			if c.ID == "" || seen[c.ID] {
				return false
			}
			seen[c.ID] = true
			c = c.Clone()
			c.Dimensions = minDimensions(c.Dimensions)
			next[i] = c
		}

		if slices.EqualFunc(st.Cards, next, cardsEqual) {
			return false
		}
		st.Cards = next
		return true
	})
}

// MoveCard shifts a card one step up (-1) or down (+1) in the sorted order
// and renumbers every card 0..n-1.
func (s *Store) MoveCard(id string, delta int) bool {
	cards := s.SortedCards()
	i := slices.IndexFunc(cards, func(c Card) bool { return c.ID == id })
	j := i + delta
	if i < 0 || j < 0 || j >= len(cards) || delta == 0 {
		return false
	}
	cards[i], cards[j] = cards[j], cards[i]
	for k := range cards {
		cards[k].Order = k
	}
	return s.ReorderCards(cards)
}

// Reset restores the default settings.
func (s *Store) Reset() bool {
	return s.mutate("reset", func(st *Settings) bool {
		*st = DefaultSettings()
		return true
	})
}

// SetEnabled shows or hides a card.
func (s *Store) SetEnabled(id string, enabled bool) bool {
	return s.UpdateCard(id, CardPatch{Enabled: &enabled})
}

// ToggleEnabled flips a card's enabled flag.
func (s *Store) ToggleEnabled(id string) bool {
	c, ok := s.Card(id)
	if !ok {
		return false
	}
	return s.SetEnabled(id, !c.Enabled)
}

// ExpandCard grows a grid-placed card by one cell toward d. The expansion is
// rejected when it would leave the grid or overlap an enabled card.
func (s *Store) ExpandCard(id string, d Direction) bool {
	return s.mutate("expand", func(st *Settings) bool {
		i := st.indexOf(id)
		if i < 0 {
			return false
		}
		candidate, ok := st.expandable(i, d)
		if !ok {
			return false
		}
		st.place(i, candidate)
		return true
	})
}

// ShrinkCard removes one cell from side d of a grid-placed card. Spans never
// drop below one cell.
func (s *Store) ShrinkCard(id string, d Direction) bool {
	return s.mutate("shrink", func(st *Settings) bool {
		i := st.indexOf(id)
		if i < 0 || st.Cards[i].GridPosition == nil {
			return false
		}
		candidate, ok := shrink(*st.Cards[i].GridPosition, d)
		if !ok {
			return false
		}
		st.place(i, candidate)
		return true
	})
}

// SnapToGrid moves a card onto the grid cell nearest to (x, y), keeping its
// spans inside the grid. The snap is rejected when the target overlaps an
// enabled card.
func (s *Store) SnapToGrid(id string, x, y int) bool {
	return s.mutate("snap", func(st *Settings) bool {
		i := st.indexOf(id)
		if i < 0 {
			return false
		}
		candidate := st.snapRect(i, layout.Point{X: x, Y: y})
		if layout.Collides(candidate, st.obstacles(id)) {
			return false
		}

		before := st.Cards[i].Clone()
		st.place(i, candidate)
		st.Cards[i].IsSnappedToGrid = true
		return !cardsEqual(before, st.Cards[i])
	})
}

// CanExpand reports whether ExpandCard(id, d) would currently succeed.
func (s *Store) CanExpand(id string, d Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.settings.indexOf(id)
	if i < 0 {
		return false
	}
	_, ok := s.settings.expandable(i, d)
	return ok
}

// CanShrink reports whether ShrinkCard(id, d) would currently succeed.
func (s *Store) CanShrink(id string, d Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.settings.indexOf(id)
	if i < 0 || s.settings.Cards[i].GridPosition == nil {
		return false
	}
	_, ok := shrink(*s.settings.Cards[i].GridPosition, d)
	return ok
}

func cardsEqual(a, b Card) bool {
	ga, gb := a.GridPosition, b.GridPosition
	a.GridPosition, b.GridPosition = nil, nil
	if a != b {
		return false
	}
	if ga == nil || gb == nil {
		return ga == gb
	}
	return *ga == *gb
}
