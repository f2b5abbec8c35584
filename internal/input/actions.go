package input

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/app"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
)

// ActionHandler is a function that handles a specific action
type ActionHandler func(msg tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd)

// ActionDispatcher maps action names to handler functions
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher creates an empty dispatcher
func NewActionDispatcher() *ActionDispatcher {
	return &ActionDispatcher{handlers: make(map[string]ActionHandler)}
}

// Register adds an action handler
func (a *ActionDispatcher) Register(action string, handler ActionHandler) {
	a.handlers[action] = handler
}

// Dispatch executes the handler for a given action
func (a *ActionDispatcher) Dispatch(action string, msg tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	if handler, ok := a.handlers[action]; ok {
		d.Logger.Debug("action", "name", action, "key", msg.String())
		return handler(msg, d)
	}
	return d, nil
}

// HasAction checks if an action is registered
func (a *ActionDispatcher) HasAction(action string) bool {
	_, ok := a.handlers[action]
	return ok
}

var (
	globalDispatcher   = newDashboardDispatcher()
	settingsDispatcher = newSettingsDispatcher()
)

// GetDispatcher returns the dashboard action dispatcher
func GetDispatcher() *ActionDispatcher { return globalDispatcher }

// GetSettingsDispatcher returns the settings panel action dispatcher
func GetSettingsDispatcher() *ActionDispatcher { return settingsDispatcher }

func newDashboardDispatcher() *ActionDispatcher {
	a := NewActionDispatcher()

	a.Register("focus_next", handleFocusNext)
	a.Register("focus_prev", handleFocusPrev)
	a.Register("disable_focused", handleDisableFocused)

	for _, dir := range dashboard.Directions {
		a.Register("expand_"+string(dir), makeExpandHandler(dir))
		a.Register("shrink_"+string(dir), makeShrinkHandler(dir))
	}

	a.Register("snap_to_grid", handleSnapToGrid)
	a.Register("snap_all_to_grid", handleSnapAllToGrid)
	a.Register("toggle_layout", handleToggleLayout)
	a.Register("toggle_magnetic", handleToggleMagnetic)
	a.Register("toggle_grid", handleToggleGrid)
	a.Register("reset_layout", handleResetLayout)
	a.Register("open_settings", handleOpenSettings)
	a.Register("toggle_help", handleToggleHelp)
	a.Register("quit", handleQuit)
	return a
}

func newSettingsDispatcher() *ActionDispatcher {
	a := NewActionDispatcher()
	a.Register("settings_up", handleSettingsUp)
	a.Register("settings_down", handleSettingsDown)
	a.Register("settings_toggle", handleSettingsToggle)
	a.Register("settings_move_up", makeSettingsMoveHandler(-1))
	a.Register("settings_move_dn", makeSettingsMoveHandler(1))
	a.Register("settings_reset", handleResetLayout)
	a.Register("settings_close", handleCloseSettings)
	return a
}

// ============================================================================
// Card Actions
// ============================================================================

func handleFocusNext(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.FocusNext()
	return d, nil
}

func handleFocusPrev(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.FocusPrev()
	return d, nil
}

func handleDisableFocused(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	card, ok := d.FocusedCard()
	if !ok {
		return d, nil
	}
	d.Store.SetEnabled(card.ID, false)
	d.FocusNext()
	return d, d.ShowNotification(fmt.Sprintf("%s hidden", card.Name), "info")
}

func makeExpandHandler(dir dashboard.Direction) ActionHandler {
	return func(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
		card, ok := d.FocusedCard()
		if !ok {
			return d, nil
		}
		if !d.Store.ExpandCard(card.ID, dir) {
			return d, d.ShowNotification(fmt.Sprintf("Cannot expand %s %s", card.Name, dir), "warning")
		}
		return d, nil
	}
}

func makeShrinkHandler(dir dashboard.Direction) ActionHandler {
	return func(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
		card, ok := d.FocusedCard()
		if !ok {
			return d, nil
		}
		if !d.Store.ShrinkCard(card.ID, dir) {
			return d, d.ShowNotification(fmt.Sprintf("Cannot shrink %s from %s", card.Name, dir), "warning")
		}
		return d, nil
	}
}

// ============================================================================
// Layout Actions
// ============================================================================

func handleSnapToGrid(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	card, ok := d.FocusedCard()
	if !ok {
		return d, nil
	}
	if !d.Store.SnapToGrid(card.ID, card.Position.X, card.Position.Y) {
		if card.IsSnappedToGrid {
			return d, nil
		}
		return d, d.ShowNotification(fmt.Sprintf("%s would overlap another card", card.Name), "warning")
	}
	return d, d.ShowNotification(fmt.Sprintf("%s snapped to grid", card.Name), "success")
}

// handleSnapAllToGrid snaps every visible card in order; cards whose grid
// cell is taken are left where they are.
func handleSnapAllToGrid(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	snapped, blocked := 0, 0
	for _, card := range d.Store.SortedCards() {
		if !card.Enabled {
			continue
		}
		if d.Store.SnapToGrid(card.ID, card.Position.X, card.Position.Y) {
			snapped++
		} else if !card.IsSnappedToGrid {
			blocked++
		}
	}
	if blocked > 0 {
		return d, d.ShowNotification(fmt.Sprintf("Snapped %d, %d blocked", snapped, blocked), "warning")
	}
	return d, d.ShowNotification(fmt.Sprintf("Snapped %d cards", snapped), "success")
}

func handleToggleLayout(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.Store.ToggleLayoutMode()
	d.SyncCellSize()
	mode := d.Store.Settings().LayoutConfig.LayoutMode
	return d, d.ShowNotification(fmt.Sprintf("Layout: %s", mode), "info")
}

func handleToggleMagnetic(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	on := !d.Store.Settings().LayoutConfig.MagneticSnapping
	d.Store.UpdateLayoutConfig(dashboard.LayoutConfigPatch{MagneticSnapping: &on})
	state := "off"
	if on {
		state = "on"
	}
	return d, d.ShowNotification("Magnetic snapping "+state, "info")
}

func handleToggleGrid(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	config.ShowGrid = !config.ShowGrid
	return d, nil
}

func handleResetLayout(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.Store.Reset()
	d.SyncCellSize()
	d.SettingsCursor = 0
	return d, d.ShowNotification("Layout reset", "success")
}

// ============================================================================
// Overlay Actions
// ============================================================================

func handleOpenSettings(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.ShowSettings = true
	d.ShowHelp = false
	d.SettingsCursor = 0
	return d, nil
}

func handleCloseSettings(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.ShowSettings = false
	if _, ok := d.FocusedCard(); !ok {
		d.FocusNext()
	}
	return d, nil
}

func handleToggleHelp(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.ShowHelp = !d.ShowHelp
	return d, nil
}

func handleQuit(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	return d, tea.Quit
}

// ============================================================================
// Settings Panel Actions
// ============================================================================

func handleSettingsUp(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.SettingsCursor = max(d.SettingsCursor-1, 0)
	return d, nil
}

func handleSettingsDown(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	d.SettingsCursor = min(d.SettingsCursor+1, max(len(d.Store.SortedCards())-1, 0))
	return d, nil
}

func selectedCard(d *app.Dashboard) (dashboard.Card, bool) {
	cards := d.Store.SortedCards()
	if d.SettingsCursor < 0 || d.SettingsCursor >= len(cards) {
		return dashboard.Card{}, false
	}
	return cards[d.SettingsCursor], true
}

func handleSettingsToggle(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	if card, ok := selectedCard(d); ok {
		d.Store.ToggleEnabled(card.ID)
	}
	return d, nil
}

// makeSettingsMoveHandler moves the selected card in the order and keeps the
// cursor on it.
func makeSettingsMoveHandler(delta int) ActionHandler {
	return func(_ tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
		card, ok := selectedCard(d)
		if !ok {
			return d, nil
		}
		if d.Store.MoveCard(card.ID, delta) {
			d.SettingsCursor += delta
		}
		return d, nil
	}
}
