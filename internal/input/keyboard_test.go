package input

import (
	"context"
	"io"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/app"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
	"github.com/Gaurav-Gosain/tuidash/internal/storage"
	"github.com/Gaurav-Gosain/tuidash/internal/widgets"
	"github.com/charmbracelet/log"
)

func newTestDashboard(t *testing.T) *app.Dashboard {
	t.Helper()
	quiet := log.New(io.Discard)
	store := dashboard.Open(context.Background(), storage.NewMemory(), dashboard.WithLogger(quiet))
	d := app.NewDashboard(app.DashboardOptions{
		Store:   store,
		Logger:  quiet,
		Sampler: widgets.NewSampler(t.TempDir()),
	})
	d.Resize(120, 27)
	t.Cleanup(d.Cleanup)
	return d
}

func text(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

func press(d *app.Dashboard, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = HandleKeyPress(k, d)
	}
	return cmd
}

func gridOf(t *testing.T, d *app.Dashboard, id string) layout.GridRect {
	t.Helper()
	c, ok := d.Store.Card(id)
	if !ok || c.GridPosition == nil {
		t.Fatalf("card %s has no grid position", id)
	}
	return *c.GridPosition
}

func TestShrinkAndExpandFocusedCard(t *testing.T) {
	d := newTestDashboard(t)

	press(d, tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModCtrl})
	if g := gridOf(t, d, "system-info"); g.ColSpan != 1 {
		t.Fatalf("shrink right: ColSpan = %d, want 1", g.ColSpan)
	}

	if cmd := press(d, text("L")); cmd != nil {
		t.Error("successful expand should not notify")
	}
	if g := gridOf(t, d, "system-info"); g.ColSpan != 2 {
		t.Fatalf("expand right: ColSpan = %d, want 2", g.ColSpan)
	}

	if cmd := press(d, text("L")); cmd == nil {
		t.Error("blocked expand should notify")
	}
	if len(d.Notifications) != 1 || d.Notifications[0].Type != "warning" {
		t.Errorf("notifications = %+v", d.Notifications)
	}
	if g := gridOf(t, d, "system-info"); g.ColSpan != 2 {
		t.Errorf("blocked expand changed the card: %+v", g)
	}
}

func TestFocusKeysMoveTheTarget(t *testing.T) {
	d := newTestDashboard(t)

	press(d, tea.KeyPressMsg{Code: tea.KeyTab})
	if d.Focused != "resource-monitor" {
		t.Fatalf("focus = %q", d.Focused)
	}
	press(d, tea.KeyPressMsg{Code: tea.KeyDown, Mod: tea.ModCtrl})
	if g := gridOf(t, d, "resource-monitor"); g.RowSpan != 1 {
		t.Errorf("shrink applied to the wrong card: %+v", g)
	}
	if g := gridOf(t, d, "system-info"); g.RowSpan != 2 {
		t.Errorf("unfocused card changed: %+v", g)
	}

	press(d, text("x"))
	if c, _ := d.Store.Card("resource-monitor"); c.Enabled {
		t.Error("hide key left the card enabled")
	}
	if d.Focused == "resource-monitor" {
		t.Error("focus stayed on a hidden card")
	}
}

func TestLayoutToggles(t *testing.T) {
	d := newTestDashboard(t)

	press(d, text("g"))
	if mode := d.Store.Settings().LayoutConfig.LayoutMode; mode != dashboard.LayoutFreeform {
		t.Errorf("layout = %s, want freeform", mode)
	}
	press(d, text("m"))
	if d.Store.Settings().LayoutConfig.MagneticSnapping {
		t.Error("magnetic snapping still on")
	}

	before := config.ShowGrid
	t.Cleanup(func() { config.ShowGrid = before })
	press(d, text("G"))
	if config.ShowGrid == before {
		t.Error("grid guides not toggled")
	}

	press(d, text("R"))
	cfg := d.Store.Settings().LayoutConfig
	if cfg.LayoutMode != dashboard.LayoutGrid || !cfg.MagneticSnapping {
		t.Errorf("reset left %+v", cfg)
	}
}

func TestSnapFocusedCardInFreeform(t *testing.T) {
	d := newTestDashboard(t)
	d.Store.UpdateLayoutMode(dashboard.LayoutFreeform)
	d.Store.UpdateCard("system-info", dashboard.MoveTo(layout.Point{X: 10, Y: config.HeaderOffset + 5}))
	if c, _ := d.Store.Card("system-info"); c.Position.X != 10 {
		t.Fatalf("setup move failed: %+v", c.Position)
	}

	press(d, text("s"))
	c, _ := d.Store.Card("system-info")
	if c.Position != (layout.Point{X: 0, Y: config.HeaderOffset}) || !c.IsSnappedToGrid {
		t.Errorf("snap left %+v snapped=%v", c.Position, c.IsSnappedToGrid)
	}
}

func TestSettingsPanelKeys(t *testing.T) {
	d := newTestDashboard(t)

	press(d, text(","))
	if !d.ShowSettings {
		t.Fatal("settings not opened")
	}

	press(d, text("j"), tea.KeyPressMsg{Code: tea.KeyEnter})
	if c, _ := d.Store.Card("resource-monitor"); c.Enabled {
		t.Error("toggle did not disable the selected card")
	}

	press(d, text("J"))
	if d.SettingsCursor != 2 {
		t.Errorf("cursor = %d, want it to follow the card", d.SettingsCursor)
	}
	if got := d.Store.SortedCards()[2].ID; got != "resource-monitor" {
		t.Errorf("card at 2 = %s", got)
	}

	// Dashboard layout keys still work from the panel; card keys do not.
	press(d, text("g"), tea.KeyPressMsg{Code: tea.KeyTab})
	if d.Store.Settings().LayoutConfig.LayoutMode != dashboard.LayoutFreeform {
		t.Error("layout toggle not reachable from settings")
	}
	if d.Focused != "system-info" {
		t.Errorf("focus moved to %q behind the panel", d.Focused)
	}

	if cmd := press(d, text("q")); cmd != nil {
		t.Error("q in settings should close the panel, not quit")
	}
	if d.ShowSettings {
		t.Error("settings still open")
	}
}

func TestHelpOwnsTheKeyboard(t *testing.T) {
	d := newTestDashboard(t)

	press(d, text("?"))
	if !d.ShowHelp {
		t.Fatal("help not shown")
	}
	press(d, text("g"))
	if d.Store.Settings().LayoutConfig.LayoutMode != dashboard.LayoutGrid {
		t.Error("key behind help was dispatched")
	}
	press(d, tea.KeyPressMsg{Code: tea.KeyEscape})
	if d.ShowHelp {
		t.Error("esc did not close help")
	}
}

func TestQuit(t *testing.T) {
	d := newTestDashboard(t)

	for _, k := range []tea.KeyPressMsg{text("q"), {Code: 'c', Mod: tea.ModCtrl}} {
		cmd := press(d, k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestUnknownKeyIsIgnored(t *testing.T) {
	d := newTestDashboard(t)
	before := d.Store.Settings()

	if cmd := press(d, text("z")); cmd != nil {
		t.Error("unbound key returned a command")
	}
	if !GetDispatcher().HasAction("expand_up") || GetDispatcher().HasAction("settings_up") {
		t.Error("dispatchers registered the wrong actions")
	}
	after := d.Store.Settings()
	if len(after.Cards) != len(before.Cards) || after.LayoutConfig != before.LayoutConfig {
		t.Error("unbound key changed the layout")
	}
}
