// Package app provides the tuidash Bubble Tea model: card rendering, focus,
// notifications, the settings panel and the pointer surface the interaction
// controllers capture.
package app

import (
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/interaction"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
	"github.com/Gaurav-Gosain/tuidash/internal/widgets"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Notification is a short message shown in the title bar.
type Notification struct {
	ID        string
	Message   string
	Type      string // "info", "success", "warning", "error"
	StartTime time.Time
	Duration  time.Duration
}

// Dashboard is the application model.
type Dashboard struct {
	Store            *dashboard.Store
	Router           *interaction.Router
	Board            *widgets.Board
	Logger           *log.Logger
	KeybindRegistry  *config.KeybindRegistry
	SettingsRegistry *config.KeybindRegistry

	Width          int // terminal columns
	Height         int // terminal rows
	Focused        string
	ShowHelp       bool
	ShowSettings   bool
	SettingsCursor int
	Notifications  []Notification
	LastMouseX     int
	LastMouseY     int

	sampler     *widgets.Sampler
	sampling    bool
	capture     interaction.Handler
	changes     chan dashboard.Settings
	unsubscribe func()
}

// DashboardOptions configures NewDashboard.
type DashboardOptions struct {
	Store      *dashboard.Store
	UserConfig *config.UserConfig
	Logger     *log.Logger
	// Dir is listed by the file browser card; empty means the working directory.
	Dir string
	// Sampler overrides the metrics sampler. Tests pass one rooted in a temp dir.
	Sampler *widgets.Sampler
}

// NewDashboard wires a model to the store and subscribes to its changes.
func NewDashboard(opts DashboardOptions) *Dashboard {
	userConfig := opts.UserConfig
	if userConfig == nil {
		userConfig = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sampler := opts.Sampler
	if sampler == nil {
		sampler = widgets.NewSampler(opts.Dir)
	}

	d := &Dashboard{
		Store:            opts.Store,
		Board:            widgets.NewBoard(),
		Logger:           logger,
		KeybindRegistry:  config.NewKeybindRegistry(userConfig.Keybindings.Dashboard),
		SettingsRegistry: config.NewKeybindRegistry(userConfig.Keybindings.Settings),
		sampler:          sampler,
		changes:          make(chan dashboard.Settings, 1),
	}
	d.Router = interaction.NewRouter(d.Store, d)
	d.unsubscribe = d.Store.Subscribe(func(s dashboard.Settings) {
		// The view reads the store directly; a pending signal is enough.
		select {
		case d.changes <- s:
		default:
		}
	})
	d.ensureFocus()
	return d
}

// Cleanup releases the store subscription.
func (m *Dashboard) Cleanup() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Capture implements interaction.Surface. Only one handler holds the capture;
// the release function is a no-op once another handler has taken over.
func (m *Dashboard) Capture(h interaction.Handler) func() {
	m.capture = h
	return func() {
		if m.capture == h {
			m.capture = nil
		}
	}
}

// Captured returns the handler holding the pointer capture, if any.
func (m *Dashboard) Captured() interaction.Handler { return m.capture }

// Viewport implements interaction.Surface. It is the terminal size in layout
// pixels.
func (m *Dashboard) Viewport() layout.Viewport {
	w, h := config.ToPixels(m.Width, m.Height)
	return layout.Viewport{Width: w, Height: h}
}

// Pointer converts a terminal cell to layout pixels.
func Pointer(x, y int) layout.Point {
	px, py := config.ToPixels(x, y)
	return layout.Point{X: px, Y: py}
}

// Resize records the terminal size and, in grid mode, fits the grid cells to
// the new viewport.
func (m *Dashboard) Resize(width, height int) {
	m.Width, m.Height = width, height
	m.SyncCellSize()
}

// SyncCellSize recomputes the grid cell size from the viewport. The store
// keeps cells at least as large as the minimum card.
func (m *Dashboard) SyncCellSize() bool {
	if m.Width <= 0 || m.Height <= 0 {
		return false
	}
	cfg := m.Store.Settings().LayoutConfig
	if cfg.LayoutMode != dashboard.LayoutGrid {
		return false
	}
	cell := dashboard.LiveCellSize(m.Viewport(), cfg.GridSize)
	return m.Store.UpdateLayoutConfig(dashboard.LayoutConfigPatch{GridCellSize: &cell})
}

// visibleCards returns the enabled cards in order.
func (m *Dashboard) visibleCards() []dashboard.Card {
	return slices.DeleteFunc(m.Store.SortedCards(), func(c dashboard.Card) bool {
		return !c.Enabled
	})
}

// FocusedCard returns the focused card.
func (m *Dashboard) FocusedCard() (dashboard.Card, bool) {
	if m.Focused == "" {
		return dashboard.Card{}, false
	}
	c, ok := m.Store.Card(m.Focused)
	if !ok || !c.Enabled {
		return dashboard.Card{}, false
	}
	return c, true
}

// Focus focuses the card with the given id if it is visible.
func (m *Dashboard) Focus(id string) bool {
	c, ok := m.Store.Card(id)
	if !ok || !c.Enabled {
		return false
	}
	m.Focused = id
	return true
}

// FocusNext moves focus to the next visible card, wrapping around.
func (m *Dashboard) FocusNext() { m.cycleFocus(1) }

// FocusPrev moves focus to the previous visible card, wrapping around.
func (m *Dashboard) FocusPrev() { m.cycleFocus(-1) }

func (m *Dashboard) cycleFocus(step int) {
	cards := m.visibleCards()
	if len(cards) == 0 {
		m.Focused = ""
		return
	}
	i := slices.IndexFunc(cards, func(c dashboard.Card) bool { return c.ID == m.Focused })
	if i < 0 {
		m.Focused = cards[0].ID
		return
	}
	m.Focused = cards[(i+step+len(cards))%len(cards)].ID
}

// ensureFocus moves focus off a card that was disabled or removed.
func (m *Dashboard) ensureFocus() {
	if _, ok := m.FocusedCard(); ok {
		return
	}
	m.Focused = ""
	if cards := m.visibleCards(); len(cards) > 0 {
		m.Focused = cards[0].ID
	}
}

// StackOrder returns the visible card ids topmost first: the card under an
// active gesture, then the focused card, then the rest by descending order.
func (m *Dashboard) StackOrder() []string {
	cards := m.visibleCards()
	ids := make([]string, 0, len(cards))

	active := ""
	if c := m.Router.Active(); c != nil {
		active = c.CardID()
		ids = append(ids, active)
	}
	if m.Focused != "" && m.Focused != active {
		if _, ok := m.FocusedCard(); ok {
			ids = append(ids, m.Focused)
		}
	}
	for i := len(cards) - 1; i >= 0; i-- {
		if id := cards[i].ID; id != active && id != m.Focused {
			ids = append(ids, id)
		}
	}
	return ids
}

// ShowNotification displays a message in the title bar and returns the
// command that expires it.
func (m *Dashboard) ShowNotification(message, notifType string) tea.Cmd {
	notif := Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Type:      notifType,
		StartTime: time.Now(),
		Duration:  config.NotificationDuration,
	}
	m.Notifications = append(m.Notifications, notif)

	switch notifType {
	case "error":
		m.Logger.Error(message)
	case "warning":
		m.Logger.Warn(message)
	default:
		m.Logger.Debug(message)
	}

	return tea.Tick(notif.Duration, func(time.Time) tea.Msg {
		return notificationExpiredMsg{id: notif.ID}
	})
}

// CleanupNotifications removes expired notifications.
func (m *Dashboard) CleanupNotifications() {
	now := time.Now()
	m.Notifications = slices.DeleteFunc(m.Notifications, func(n Notification) bool {
		return now.Sub(n.StartTime) >= n.Duration
	})
}

// removeNotification drops one notification by id.
func (m *Dashboard) removeNotification(id string) {
	m.Notifications = slices.DeleteFunc(m.Notifications, func(n Notification) bool {
		return n.ID == id
	})
}
