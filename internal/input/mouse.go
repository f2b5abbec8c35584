package input

import (
	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/app"
	"github.com/Gaurav-Gosain/tuidash/internal/interaction"
)

// handleMouseClick starts a gesture on the topmost card under the pointer and
// focuses it. Clicks are ignored while an overlay owns the screen.
func handleMouseClick(msg tea.MouseClickMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	mouse := msg.Mouse()
	d.LastMouseX, d.LastMouseY = mouse.X, mouse.Y

	if d.ShowHelp || d.ShowSettings || mouse.Button != tea.MouseLeft {
		return d, nil
	}

	id, gesture := d.Router.PointerDown(app.Pointer(mouse.X, mouse.Y), d.StackOrder())
	if id == "" {
		return d, nil
	}
	d.Focus(id)
	if gesture != interaction.Idle {
		d.Logger.Debug("gesture start", "card", id, "gesture", gesture)
	}
	return d, nil
}

// handleMouseMotion forwards motion to the handler holding the capture.
func handleMouseMotion(msg tea.MouseMotionMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	mouse := msg.Mouse()
	d.LastMouseX, d.LastMouseY = mouse.X, mouse.Y

	if h := d.Captured(); h != nil {
		h.PointerMove(app.Pointer(mouse.X, mouse.Y))
	}
	return d, nil
}

// handleMouseRelease ends the captured gesture.
func handleMouseRelease(msg tea.MouseReleaseMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	mouse := msg.Mouse()
	d.LastMouseX, d.LastMouseY = mouse.X, mouse.Y

	if h := d.Captured(); h != nil {
		h.PointerUp(app.Pointer(mouse.X, mouse.Y))
		d.Logger.Debug("gesture end", "x", mouse.X, "y", mouse.Y)
	}
	return d, nil
}

// handleMouseWheel moves the settings cursor, or cycles card focus.
func handleMouseWheel(msg tea.MouseWheelMsg, d *app.Dashboard) (*app.Dashboard, tea.Cmd) {
	if d.ShowHelp || d.Captured() != nil {
		return d, nil
	}

	up := msg.Mouse().Button == tea.MouseWheelUp
	switch {
	case d.ShowSettings && up:
		return handleSettingsUp(tea.KeyPressMsg{}, d)
	case d.ShowSettings:
		return handleSettingsDown(tea.KeyPressMsg{}, d)
	case up:
		d.FocusPrev()
	default:
		d.FocusNext()
	}
	return d, nil
}
