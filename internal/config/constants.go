// Package config provides configuration constants, keybinding management, and user settings.
package config

import (
	"time"

	"charm.land/lipgloss/v2"
)

// =============================================================================
// Card Geometry
// =============================================================================

const (
	// HeaderOffset is the height in pixels of the title bar above the card area.
	// Cards can never be placed above it.
	HeaderOffset = 75

	// MinCardWidth is the minimum width a card can be resized to
	MinCardWidth = 200

	// MinCardHeight is the minimum height a card can be resized to
	MinCardHeight = 150

	// DefaultSnapThreshold is the default magnetic snapping distance in pixels
	DefaultSnapThreshold = 20

	// CardHeaderHeight is the height of the draggable header strip of a card
	CardHeaderHeight = 25

	// ResizeHandleWidth is the width of the resize hit area in the bottom-right corner
	ResizeHandleWidth = 20

	// ResizeHandleHeight is the height of the resize hit area in the bottom-right corner
	ResizeHandleHeight = 25
)

// =============================================================================
// Terminal Surface Scale
// =============================================================================

const (
	// PixelsPerColumn is how many layout pixels one terminal column represents
	PixelsPerColumn = 10

	// PixelsPerRow is how many layout pixels one terminal row represents
	PixelsPerRow = 25
)

// =============================================================================
// Layer Stacking
// =============================================================================

const (
	// ZIndexGrid is the z-index of the grid guides behind the cards
	ZIndexGrid = 0

	// ZIndexCards is the z-index of the lowest card; later cards stack above it
	ZIndexCards = 10

	// ZIndexFocused is the z-index of the focused card
	ZIndexFocused = 500

	// ZIndexActive is the z-index of a card being dragged or resized
	ZIndexActive = 600

	// ZIndexTitleBar is the z-index of the title bar
	ZIndexTitleBar = 700

	// ZIndexSettings is the z-index of the settings panel
	ZIndexSettings = 900

	// ZIndexHelp is the z-index of the help overlay
	ZIndexHelp = 1000
)

// =============================================================================
// Timeouts and Intervals
// =============================================================================

const (
	// WidgetRefreshInterval is the interval between card content refreshes
	WidgetRefreshInterval = 2 * time.Second

	// NotificationDuration is how long a notification stays in the title bar
	NotificationDuration = 1500 * time.Millisecond

	// PersistTimeout bounds a single write to the settings backend
	PersistTimeout = 2 * time.Second

	// NormalFPS is the refresh rate used by the program
	NormalFPS = 60
)

// =============================================================================
// Runtime Appearance (set from user config and CLI overrides)
// =============================================================================

var (
	// BorderStyle is the card border style: rounded, normal, thick, double, block, ascii
	BorderStyle = "rounded"

	// ShowGrid draws grid cell guides behind the cards in grid mode
	ShowGrid = false

	// ThemeName is the active theme, empty for standard terminal colors
	ThemeName = ""
)

// GetBorderForStyle returns the lipgloss border matching BorderStyle.
func GetBorderForStyle() lipgloss.Border {
	switch BorderStyle {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "ascii":
		return lipgloss.ASCIIBorder()
	case "block":
		return lipgloss.BlockBorder()
	case "rounded":
		fallthrough
	default:
		return lipgloss.RoundedBorder()
	}
}

// ToPixels converts a terminal cell coordinate into layout pixels.
func ToPixels(col, row int) (x, y int) {
	return col * PixelsPerColumn, row * PixelsPerRow
}

// ToCells converts layout pixels into terminal cells, rounding down.
func ToCells(x, y int) (col, row int) {
	return x / PixelsPerColumn, y / PixelsPerRow
}
