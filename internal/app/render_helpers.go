package app

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/theme"
	"github.com/charmbracelet/x/ansi"
)

// resizeHandleGlyph marks the resize hit area in the bottom-right corner.
const resizeHandleGlyph = "◢"

// addCardChrome replaces the first line of a top-less box with a title
// border and draws the resize handle into the bottom border.
func addCardChrome(content string, borderColor color.Color, title, badges string) string {
	border := config.GetBorderForStyle()
	width := max(lipgloss.Width(content)-2, 0)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)

	topBorder := renderTitleLine(border, title, badges, width, borderColor)

	lines := strings.Split(content, "\n")
	if len(lines) > 0 && width >= 2 {
		handle := lipgloss.NewStyle().Foreground(theme.ResizeHandle()).Render(resizeHandleGlyph)
		lines[len(lines)-1] = borderStyle.Render(border.BottomLeft+strings.Repeat(border.Bottom, width-1)) +
			handle +
			borderStyle.Render(border.BottomRight)
	}
	return topBorder + "\n" + strings.Join(lines, "\n")
}

// renderTitleLine builds "╭─ Title ───── badges ─╮" for an inner width.
func renderTitleLine(border lipgloss.Border, title, badges string, width int, borderColor color.Color) string {
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(theme.CardTitle()).Bold(true)
	badgeStyle := lipgloss.NewStyle().Foreground(theme.CardDim())

	// One border char and a space on each side of the title.
	room := width - 3
	if badges != "" {
		room -= ansi.StringWidth(badges) + 2
	}
	if room < 1 {
		badges = ""
		room = width - 3
	}
	if room < 1 {
		return borderStyle.Render(border.TopLeft + strings.Repeat(border.Top, width) + border.TopRight)
	}

	name := ansi.Truncate(title, room, "…")
	used := 3 + ansi.StringWidth(name)

	var right string
	if badges != "" {
		right = " " + badgeStyle.Render(badges) + " "
		used += ansi.StringWidth(badges) + 2
	}
	fill := max(width-used, 0)

	return borderStyle.Render(border.TopLeft+border.Top+" ") +
		titleStyle.Render(name) +
		borderStyle.Render(" "+strings.Repeat(border.Top, fill)) +
		right +
		borderStyle.Render(border.TopRight)
}

// clipContent cuts content placed at x, y to the viewport and returns the
// visible part with its new origin.
func clipContent(content string, x, y, viewportWidth, viewportHeight int) (string, int, int) {
	lines := strings.Split(content, "\n")
	height := len(lines)
	width := 0
	if height > 0 {
		width = ansi.StringWidth(lines[0])
	}

	if x+width <= 0 || x >= viewportWidth || y+height <= 0 || y >= viewportHeight {
		return "", max(x, 0), max(y, 0)
	}

	clipTop, clipLeft := max(-y, 0), max(-x, 0)
	finalX, finalY := max(x, 0), max(y, 0)

	visible := lines[clipTop:]
	if maxLines := viewportHeight - finalY; maxLines < len(visible) {
		visible = visible[:maxLines]
	}

	maxWidth := viewportWidth - finalX
	if clipLeft == 0 && x+width <= viewportWidth {
		return strings.Join(visible, "\n"), finalX, finalY
	}

	clipped := make([]string, len(visible))
	for i, line := range visible {
		clipped[i] = ansi.Cut(line, clipLeft, clipLeft+maxWidth)
	}
	return strings.Join(clipped, "\n"), finalX, finalY
}
