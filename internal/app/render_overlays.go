package app

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/theme"
	"github.com/charmbracelet/x/ansi"
)

// titleBarRows is the header offset expressed in terminal rows.
const titleBarRows = config.HeaderOffset / config.PixelsPerRow

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// renderTitleBar fills the header offset area: status on the first row,
// hints on the second and a rule on the third.
func (m *Dashboard) renderTitleBar(settings dashboard.Settings) *lipgloss.Layer {
	cfg := settings.LayoutConfig
	bar := lipgloss.NewStyle().Background(theme.HeaderBg()).Foreground(theme.HeaderFg())
	accent := bar.Foreground(theme.HeaderAccent()).Bold(true)

	status := accent.Render(" tuidash ") +
		bar.Render(fmt.Sprintf(" layout %s  magnetic %s  snap %dpx ", cfg.LayoutMode, onOff(cfg.MagneticSnapping), cfg.SnapThreshold))
	if c, ok := m.FocusedCard(); ok {
		status += bar.Render(" focus ") + accent.Render(c.Name) + bar.Render(" ")
	}
	if notif := m.renderNotification(); notif != "" {
		gap := max(m.Width-ansi.StringWidth(status)-ansi.StringWidth(notif), 1)
		status += bar.Render(strings.Repeat(" ", gap)) + notif
	}

	hint := func(action, label string) string {
		keys := m.KeybindRegistry.GetKeysForDisplay(action)
		if keys == "" {
			return ""
		}
		return accent.Render(keys) + bar.Render(" "+label+"  ")
	}
	hints := bar.Render(" ") +
		hint("focus_next", "focus") +
		hint("toggle_layout", "layout") +
		hint("snap_to_grid", "snap") +
		hint("open_settings", "settings") +
		hint("toggle_help", "help") +
		hint("quit", "quit")

	rows := []string{
		padRow(status, m.Width, bar),
		padRow(hints, m.Width, bar),
		lipgloss.NewStyle().Foreground(theme.CardDim()).Render(strings.Repeat("─", max(m.Width, 0))),
	}
	return lipgloss.NewLayer(strings.Join(rows[:min(titleBarRows, len(rows))], "\n")).
		X(0).Y(0).Z(config.ZIndexTitleBar).ID("title-bar")
}

// padRow truncates or pads a styled row to exactly width cells.
func padRow(row string, width int, fill lipgloss.Style) string {
	if w := ansi.StringWidth(row); w > width {
		return ansi.Truncate(row, width, "")
	} else if w < width {
		return row + fill.Render(strings.Repeat(" ", width-w))
	}
	return row
}

// renderNotification returns the newest live notification, styled by type.
func (m *Dashboard) renderNotification() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	notif := m.Notifications[len(m.Notifications)-1]

	var bg color.Color
	var icon string
	switch notif.Type {
	case "error":
		bg, icon = theme.NotificationError(), "✗"
	case "warning":
		bg, icon = theme.NotificationWarning(), "!"
	case "success":
		bg, icon = theme.NotificationSuccess(), "✓"
	default:
		bg, icon = theme.NotificationInfo(), "i"
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(lipgloss.Color("#000000")).
		Bold(true).
		Render(fmt.Sprintf(" %s %s ", icon, notif.Message))
}

func (m *Dashboard) renderOverlays(settings dashboard.Settings) []*lipgloss.Layer {
	var layers []*lipgloss.Layer

	if len(m.visibleCards()) == 0 && !m.ShowSettings {
		msg := lipgloss.NewStyle().Foreground(theme.CardDim()).Render(
			fmt.Sprintf("All cards are hidden. Press %s to open settings.", m.KeybindRegistry.GetKeysForDisplay("open_settings")))
		placed := lipgloss.Place(m.Width, max(m.Height-titleBarRows, 1), lipgloss.Center, lipgloss.Center, msg)
		layers = append(layers, lipgloss.NewLayer(placed).X(0).Y(titleBarRows).Z(config.ZIndexCards).ID("empty"))
	}

	if m.ShowSettings {
		panel := m.RenderSettingsPanel(settings)
		x := max((m.Width-lipgloss.Width(panel))/2, 0)
		y := max((m.Height-lipgloss.Height(panel))/2, 0)
		layers = append(layers, lipgloss.NewLayer(panel).X(x).Y(y).Z(config.ZIndexSettings).ID("settings"))
	}

	if m.ShowHelp {
		layers = append(layers, lipgloss.NewLayer(m.RenderHelpMenu(m.Width, m.Height)).
			X(0).Y(0).Z(config.ZIndexHelp).ID("help"))
	}
	return layers
}

// RenderSettingsPanel renders the card management panel: every card in
// order with its enabled state, and the layout options.
func (m *Dashboard) RenderSettingsPanel(settings dashboard.Settings) string {
	selected := lipgloss.NewStyle().Foreground(theme.PanelSelected()).Bold(true)
	text := lipgloss.NewStyle().Foreground(theme.CardText())
	disabled := lipgloss.NewStyle().Foreground(theme.PanelDisabled())
	dimStyle := lipgloss.NewStyle().Foreground(theme.CardDim())

	lines := []string{selected.Render("Dashboard settings"), ""}
	for i, c := range settings.SortedCards() {
		cursor := "  "
		if i == m.SettingsCursor {
			cursor = "› "
		}
		check, style := "[x]", text
		if !c.Enabled {
			check, style = "[ ]", disabled
		}
		if i == m.SettingsCursor {
			style = selected
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%s %-16s", cursor, check, c.Name))+
			dimStyle.Render(fmt.Sprintf(" %s #%d", c.ID, c.Order)))
	}

	cfg := settings.LayoutConfig
	keys := m.SettingsRegistry.GetKeysForDisplay
	dashKeys := m.KeybindRegistry.GetKeysForDisplay
	lines = append(lines,
		"",
		text.Render(fmt.Sprintf("layout     %-9s", cfg.LayoutMode))+dimStyle.Render(" "+dashKeys("toggle_layout")),
		text.Render(fmt.Sprintf("magnetic   %-9s", onOff(cfg.MagneticSnapping)))+dimStyle.Render(" "+dashKeys("toggle_magnetic")),
		text.Render(fmt.Sprintf("threshold  %dpx", cfg.SnapThreshold)),
		text.Render(fmt.Sprintf("grid       %dx%d of %dx%dpx", cfg.GridSize.Cols, cfg.GridSize.Rows, cfg.GridCellSize.Width, cfg.GridCellSize.Height)),
		"",
		dimStyle.Render(fmt.Sprintf("%s select  %s toggle  %s/%s move",
			keys("settings_down"), keys("settings_toggle"), keys("settings_move_up"), keys("settings_move_dn"))),
		dimStyle.Render(fmt.Sprintf("%s reset  %s close", keys("settings_reset"), keys("settings_close"))),
	)

	return lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(theme.PanelBorder()).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
}

// RenderHelpMenu renders the keybinding help centered in width x height.
func (m *Dashboard) RenderHelpMenu(width, height int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.HelpKey()).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(theme.HelpText())
	titleStyle := lipgloss.NewStyle().Foreground(theme.HeaderAccent()).Bold(true)

	mode := m.Store.Settings().LayoutConfig.LayoutMode
	var lines []string
	for _, section := range config.GetKeybindings(m.KeybindRegistry) {
		title := section.Title
		if section.Condition != "" && section.Condition != string(mode) {
			title += " (" + section.Condition + " mode)"
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, titleStyle.Render(title))
		for _, b := range section.Bindings {
			key := fmt.Sprintf("%-18s", b.Key)
			lines = append(lines, keyStyle.Render(key)+textStyle.Render(b.Description))
		}
	}
	if maxLines := height - 4; maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}

	box := lipgloss.NewStyle().
		Border(config.GetBorderForStyle()).
		BorderForeground(theme.PanelBorder()).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
