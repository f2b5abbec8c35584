// Package theme provides the dashboard color palette, optionally backed by a bubbletint theme.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// If themeName is empty, theming is disabled and the built-in palette is used.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	tint.NewDefaultRegistry()

	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Warn("error loading custom themes", "dir", themesDir, "err", err)
		}
	}

	if !tint.SetTintID(themeName) {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	enabled = true
	return nil
}

// IDs returns the names of the built-in and custom themes.
func IDs() []string {
	tint.NewDefaultRegistry()
	if themesDir, err := GetThemesDir(); err == nil {
		_, _ = LoadCustomThemes(themesDir)
	}
	return tint.TintIDs()
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme, or nil when theming is disabled.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// pick returns the themed color when a theme is active and fallback otherwise.
func pick(fallback string, themed func(*tint.Tint) *tint.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	if c := themed(t); c != nil {
		return c
	}
	return lipgloss.Color(fallback)
}

// CardBorder returns the border color of an unfocused card.
func CardBorder() color.Color {
	return pick("#6c6c8a", func(t *tint.Tint) *tint.Color { return t.BrightBlack })
}

// CardBorderFocused returns the border color of the focused card.
func CardBorderFocused() color.Color {
	return pick("#AFFFFF", func(t *tint.Tint) *tint.Color { return t.BrightCyan })
}

// CardBorderActive returns the border color of a card being dragged or resized.
func CardBorderActive() color.Color {
	return pick("#AAFFAA", func(t *tint.Tint) *tint.Color { return t.BrightGreen })
}

// CardTitle returns the color of card titles.
func CardTitle() color.Color {
	return pick("#ffffff", func(t *tint.Tint) *tint.Color { return t.BrightWhite })
}

// CardText returns the color of card body text.
func CardText() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) *tint.Color { return t.Fg })
}

// CardDim returns the color of secondary card text.
func CardDim() color.Color {
	return pick("#7f7f7f", func(t *tint.Tint) *tint.Color { return t.BrightBlack })
}

// ResizeHandle returns the color of the resize corner glyph.
func ResizeHandle() color.Color {
	return pick("#ffff00", func(t *tint.Tint) *tint.Color { return t.Yellow })
}

// GridGuide returns the color of the grid cell guides.
func GridGuide() color.Color {
	return pick("#303040", func(t *tint.Tint) *tint.Color { return t.Black })
}

// HeaderBg returns the background of the title bar.
func HeaderBg() color.Color {
	return pick("#1a1a2e", func(t *tint.Tint) *tint.Color { return t.Bg })
}

// HeaderFg returns the foreground of the title bar.
func HeaderFg() color.Color {
	return pick("#a0a0b0", func(t *tint.Tint) *tint.Color { return t.Fg })
}

// HeaderAccent returns the color used for the active layout mode badge.
func HeaderAccent() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) *tint.Color { return t.BrightBlue })
}

// GaugeLow returns the gauge color for low utilisation.
func GaugeLow() color.Color {
	return pick("#00cd00", func(t *tint.Tint) *tint.Color { return t.Green })
}

// GaugeMid returns the gauge color for medium utilisation.
func GaugeMid() color.Color {
	return pick("#cdcd00", func(t *tint.Tint) *tint.Color { return t.Yellow })
}

// GaugeHigh returns the gauge color for high utilisation.
func GaugeHigh() color.Color {
	return pick("#cd0000", func(t *tint.Tint) *tint.Color { return t.Red })
}

// Directory returns the color of directory entries in the file card.
func Directory() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) *tint.Color { return t.Blue })
}

// NotificationError returns the color for error notifications.
func NotificationError() color.Color {
	return pick("#ff0000", func(t *tint.Tint) *tint.Color { return t.BrightRed })
}

// NotificationWarning returns the color for warning notifications.
func NotificationWarning() color.Color {
	return pick("#ffaa00", func(t *tint.Tint) *tint.Color { return t.BrightYellow })
}

// NotificationSuccess returns the color for success notifications.
func NotificationSuccess() color.Color {
	return pick("#00ff00", func(t *tint.Tint) *tint.Color { return t.BrightGreen })
}

// NotificationInfo returns the color for info notifications.
func NotificationInfo() color.Color {
	return pick("#00ffff", func(t *tint.Tint) *tint.Color { return t.BrightCyan })
}

// PanelBorder returns the border color of the settings panel.
func PanelBorder() color.Color {
	return pick("14", func(t *tint.Tint) *tint.Color { return t.BrightCyan })
}

// PanelSelected returns the highlight color of the selected settings row.
func PanelSelected() color.Color {
	return pick("11", func(t *tint.Tint) *tint.Color { return t.BrightYellow })
}

// PanelDisabled returns the color of disabled cards in the settings panel.
func PanelDisabled() color.Color {
	return pick("8", func(t *tint.Tint) *tint.Color { return t.BrightBlack })
}

// HelpKey returns the color of key badges in the help overlay.
func HelpKey() color.Color {
	return pick("11", func(t *tint.Tint) *tint.Color { return t.Yellow })
}

// HelpText returns the color of descriptions in the help overlay.
func HelpText() color.Color {
	return lipgloss.Color("7")
}

// CLITableHeader returns the color for CLI table headers.
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

// CLITableDim returns the dimmed color for CLI table elements.
func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
