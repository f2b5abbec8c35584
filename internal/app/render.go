package app

import (
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/interaction"
	"github.com/Gaurav-Gosain/tuidash/internal/theme"
)

// GetCanvas composes the title bar, grid guides, cards and overlays.
func (m *Dashboard) GetCanvas() *lipgloss.Canvas {
	canvas := lipgloss.NewCanvas(m.Width, m.Height)
	settings := m.Store.Settings()

	layers := []*lipgloss.Layer{m.renderTitleBar(settings)}
	if config.ShowGrid && settings.LayoutConfig.LayoutMode == dashboard.LayoutGrid {
		layers = append(layers, m.renderGridGuides(settings.LayoutConfig))
	}
	layers = append(layers, m.renderCards(settings)...)
	layers = append(layers, m.renderOverlays(settings)...)

	for _, layer := range layers {
		canvas.Compose(layer)
	}
	return canvas
}

// View renders the dashboard. Cell motion reporting is enough: motion only
// matters while a button is held.
func (m *Dashboard) View() tea.View {
	var view tea.View
	if m.Width > 0 && m.Height > 0 {
		view.SetContent(lipgloss.Sprint(m.GetCanvas().Render()))
	}
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion
	view.WindowTitle = "tuidash"
	return view
}

func (m *Dashboard) renderCards(settings dashboard.Settings) []*lipgloss.Layer {
	active := m.Router.Active()

	var layers []*lipgloss.Layer
	for i, card := range settings.SortedCards() {
		if !card.Enabled {
			continue
		}

		z := config.ZIndexCards + i
		borderColor := theme.CardBorder()
		gesture := interaction.Idle
		switch {
		case active != nil && active.CardID() == card.ID:
			z = config.ZIndexActive
			borderColor = theme.CardBorderActive()
			gesture = active.Gesture()
		case card.ID == m.Focused:
			z = config.ZIndexFocused
			borderColor = theme.CardBorderFocused()
		}

		if layer := m.renderCard(card, settings.LayoutConfig.LayoutMode, borderColor, gesture, z); layer != nil {
			layers = append(layers, layer)
		}
	}
	return layers
}

func (m *Dashboard) renderCard(card dashboard.Card, mode dashboard.LayoutMode, borderColor color.Color, gesture interaction.Gesture, z int) *lipgloss.Layer {
	x, y := config.ToCells(card.Position.X, card.Position.Y)
	w, h := config.ToCells(card.Dimensions.Width, card.Dimensions.Height)
	w, h = max(w, 6), max(h, 3)

	content := m.Board.Render(card.ID, w-2, h-2)

	box := lipgloss.NewStyle().
		Align(lipgloss.Left).
		AlignVertical(lipgloss.Top).
		Border(config.GetBorderForStyle()).
		BorderTop(false).
		BorderForeground(borderColor).
		Width(w).
		Height(h - 1)

	boxContent := addCardChrome(box.Render(content), borderColor, card.Name, cardBadges(card, mode, gesture))

	clipped, finalX, finalY := clipContent(boxContent, x, y, m.Width, m.Height)
	if clipped == "" {
		return nil
	}
	return lipgloss.NewLayer(clipped).X(finalX).Y(finalY).Z(z).ID(card.ID)
}

// cardBadges describes a card's state in its title line: the gesture in
// progress, or the directions it can still grow in grid mode.
func cardBadges(card dashboard.Card, mode dashboard.LayoutMode, gesture interaction.Gesture) string {
	if gesture != interaction.Idle {
		return gesture.String()
	}
	if mode != dashboard.LayoutGrid || card.GridPosition == nil {
		return "free"
	}

	arrows := map[dashboard.Direction]string{
		dashboard.Up:    "↑",
		dashboard.Down:  "↓",
		dashboard.Left:  "←",
		dashboard.Right: "→",
	}
	var b strings.Builder
	for _, d := range dashboard.Directions {
		if card.CanExpand(d) {
			b.WriteString(arrows[d])
		}
	}
	return b.String()
}

// renderGridGuides marks every grid line intersection in the card area.
func (m *Dashboard) renderGridGuides(cfg dashboard.LayoutConfig) *lipgloss.Layer {
	rows := make([][]rune, m.Height)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(" ", m.Width))
	}

	for r := 0; r <= cfg.GridSize.Rows; r++ {
		for c := 0; c <= cfg.GridSize.Cols; c++ {
			x, y := config.ToCells(c*cfg.GridCellSize.Width, config.HeaderOffset+r*cfg.GridCellSize.Height)
			x = min(x, m.Width-1)
			if x < 0 || y < 0 || y >= m.Height {
				continue
			}
			rows[y][x] = '┼'
		}
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = string(r)
	}
	guides := lipgloss.NewStyle().Foreground(theme.GridGuide()).Render(strings.Join(lines, "\n"))
	return lipgloss.NewLayer(guides).X(0).Y(0).Z(config.ZIndexGrid).ID("grid")
}
