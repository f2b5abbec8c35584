// Package input implements tuidash input handling.
//
// Keys resolve to actions through the user's keybind registries and run
// against the layout store; mouse events are converted to layout pixels and
// routed to the card interaction controllers.
package input

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/app"
)

// HandleInput is the main input coordinator that routes messages to appropriate handlers
func HandleInput(msg tea.Msg, d *app.Dashboard) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return HandleKeyPress(msg, d)
	case tea.MouseClickMsg:
		return handleMouseClick(msg, d)
	case tea.MouseMotionMsg:
		return handleMouseMotion(msg, d)
	case tea.MouseReleaseMsg:
		return handleMouseRelease(msg, d)
	case tea.MouseWheelMsg:
		return handleMouseWheel(msg, d)
	}
	return d, nil
}

// HandleKeyPress routes a key to the overlay that owns the keyboard, or to
// the dashboard actions.
func HandleKeyPress(msg tea.KeyPressMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	key := msg.String()

	switch {
	case d.ShowHelp:
		if key == "esc" || d.KeybindRegistry.GetAction(key) == "toggle_help" || d.KeybindRegistry.GetAction(key) == "quit" {
			d.ShowHelp = false
		}
		return d, nil

	case d.ShowSettings:
		if action := d.SettingsRegistry.GetAction(key); action != "" {
			return GetSettingsDispatcher().Dispatch(action, msg, d)
		}
		// Layout toggles stay reachable from the panel.
		switch action := d.KeybindRegistry.GetAction(key); action {
		case "toggle_layout", "toggle_magnetic", "quit":
			return GetDispatcher().Dispatch(action, msg, d)
		}
		return d, nil
	}

	if action := d.KeybindRegistry.GetAction(key); action != "" {
		return GetDispatcher().Dispatch(action, msg, d)
	}
	return d, nil
}
