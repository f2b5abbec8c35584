package input

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/app"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/interaction"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
)

func click(d *app.Dashboard, x, y int) {
	HandleInput(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft}, d)
}

func motion(d *app.Dashboard, x, y int) {
	HandleInput(tea.MouseMotionMsg{X: x, Y: y, Button: tea.MouseLeft}, d)
}

func release(d *app.Dashboard, x, y int) {
	HandleInput(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft}, d)
}

func TestMouseDragMovesCard(t *testing.T) {
	d := newTestDashboard(t)
	d.Store.UpdateLayoutMode(dashboard.LayoutFreeform)

	// Row 3 is the header row of the top-left card.
	click(d, 5, 3)
	if d.Captured() == nil {
		t.Fatal("header click did not capture the pointer")
	}
	if a := d.Router.Active(); a == nil || a.CardID() != "system-info" || a.Gesture() != interaction.Dragging {
		t.Fatalf("active controller = %+v", a)
	}

	motion(d, 8, 5)
	release(d, 8, 5)

	c, _ := d.Store.Card("system-info")
	if want := (layout.Point{X: 30, Y: config.HeaderOffset + 50}); c.Position != want {
		t.Errorf("position = %+v, want %+v", c.Position, want)
	}
	if d.Captured() != nil || d.Router.Active() != nil {
		t.Error("release did not end the gesture")
	}

	// Motion after release changes nothing.
	motion(d, 20, 10)
	if after, _ := d.Store.Card("system-info"); after.Position != c.Position {
		t.Error("card moved without a gesture")
	}
}

func TestMouseResizeFromHandle(t *testing.T) {
	d := newTestDashboard(t)
	d.Store.UpdateLayoutMode(dashboard.LayoutFreeform)

	// The default top-left card spans columns 0-39 and rows 3-14.
	click(d, 39, 14)
	if a := d.Router.Active(); a == nil || a.Gesture() != interaction.Resizing {
		t.Fatalf("handle click did not start a resize: %+v", a)
	}
	motion(d, 44, 16)
	release(d, 44, 16)

	c, _ := d.Store.Card("system-info")
	if want := (layout.Dimensions{Width: 450, Height: 350}); c.Dimensions != want {
		t.Errorf("dimensions = %+v, want %+v", c.Dimensions, want)
	}
}

func TestMouseClickFocusesCard(t *testing.T) {
	d := newTestDashboard(t)

	// Body of the file browser card.
	click(d, 60, 20)
	if d.Focused != "file-browser" {
		t.Errorf("focus = %q, want file-browser", d.Focused)
	}
	if d.Captured() != nil {
		t.Error("body click started a gesture")
	}

	// The title bar is not a card.
	click(d, 60, 0)
	if d.Focused != "file-browser" {
		t.Errorf("title bar click changed focus to %q", d.Focused)
	}
}

func TestMouseIgnoredBehindOverlays(t *testing.T) {
	d := newTestDashboard(t)
	d.ShowSettings = true

	click(d, 5, 3)
	if d.Captured() != nil {
		t.Error("click behind settings started a gesture")
	}

	HandleInput(tea.MouseWheelMsg{X: 5, Y: 5, Button: tea.MouseWheelDown}, d)
	if d.SettingsCursor != 1 {
		t.Errorf("wheel moved settings cursor to %d", d.SettingsCursor)
	}
}

func TestMouseWheelCyclesFocus(t *testing.T) {
	d := newTestDashboard(t)

	HandleInput(tea.MouseWheelMsg{Button: tea.MouseWheelDown}, d)
	if d.Focused != "resource-monitor" {
		t.Errorf("wheel down focus = %q", d.Focused)
	}
	HandleInput(tea.MouseWheelMsg{Button: tea.MouseWheelUp}, d)
	if d.Focused != "system-info" {
		t.Errorf("wheel up focus = %q", d.Focused)
	}
}
