// Package interaction turns pointer gestures on a card into layout updates.
//
// A Controller drives one card. Pointer-down on the card's header starts a
// drag, pointer-down on its bottom-right resize handle starts a resize. While
// a gesture is active the controller captures the pointer surface so that
// moves and the final release reach it wherever the pointer goes.
package interaction

import (
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
)

// Store is the part of the dashboard store a controller needs.
type Store interface {
	Settings() dashboard.Settings
	UpdateCard(id string, patch dashboard.CardPatch) bool
}

// Handler receives pointer events while it holds a capture.
type Handler interface {
	PointerMove(p layout.Point)
	PointerUp(p layout.Point)
}

// Surface is the global pointer surface. Capture routes every move and
// release to h until the returned release function is called.
type Surface interface {
	Capture(h Handler) (release func())
	Viewport() layout.Viewport
}

// Gesture is the controller's current state.
type Gesture int

const (
	Idle Gesture = iota
	Dragging
	Resizing
)

func (g Gesture) String() string {
	switch g {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Region is the part of a card under the pointer.
type Region int

const (
	Outside Region = iota
	Body
	Header
	ResizeHandle
)

// HitTest classifies p against the card's pixel rectangle. The resize handle
// takes priority over the header.
func HitTest(c dashboard.Card, p layout.Point) Region {
	x, y := p.X-c.Position.X, p.Y-c.Position.Y
	w, h := c.Dimensions.Width, c.Dimensions.Height
	if x < 0 || y < 0 || x >= w || y >= h {
		return Outside
	}
	if x >= w-config.ResizeHandleWidth && y >= h-config.ResizeHandleHeight {
		return ResizeHandle
	}
	if y < config.CardHeaderHeight {
		return Header
	}
	return Body
}

// Controller is the drag/resize state machine of a single card.
type Controller struct {
	cardID  string
	store   Store
	surface Surface

	gesture      Gesture
	startPointer layout.Point
	startPos     layout.Point
	startDims    layout.Dimensions
	release      func()
}

// NewController returns an idle controller for the card with the given id.
func NewController(cardID string, store Store, surface Surface) *Controller {
	return &Controller{cardID: cardID, store: store, surface: surface}
}

// CardID returns the id of the controlled card.
func (c *Controller) CardID() string { return c.cardID }

// Gesture returns the active gesture.
func (c *Controller) Gesture() Gesture { return c.gesture }

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool { return c.gesture != Idle }

// PointerDown starts a gesture when p is on the card's header or resize
// handle and reports whether one started. A gesture left active by a lost
// release is ended first.
func (c *Controller) PointerDown(p layout.Point) bool {
	if c.Active() {
		c.end()
	}

	card, ok := c.store.Settings().Card(c.cardID)
	if !ok || !card.Enabled {
		return false
	}

	switch HitTest(card, p) {
	case ResizeHandle:
		c.gesture = Resizing
	case Header:
		c.gesture = Dragging
	default:
		return false
	}

	c.startPointer = p
	c.startPos = card.Position
	c.startDims = card.Dimensions
	c.release = c.surface.Capture(c)
	return true
}

// PointerMove updates the card for the active gesture. It is a no-op while
// idle.
func (c *Controller) PointerMove(p layout.Point) {
	if !c.Active() {
		return
	}

	settings := c.store.Settings()
	card, ok := settings.Card(c.cardID)
	if !ok {
		c.end()
		return
	}
	delta := layout.Point{X: p.X - c.startPointer.X, Y: p.Y - c.startPointer.Y}

	switch c.gesture {
	case Dragging:
		pos := c.dragTarget(settings, card, delta)
		c.store.UpdateCard(c.cardID, dashboard.MoveTo(pos))
	case Resizing:
		dims := c.resizeTarget(settings, card, delta)
		c.store.UpdateCard(c.cardID, dashboard.ResizeTo(dims))
	}
}

// PointerUp ends the active gesture and releases the pointer capture.
func (c *Controller) PointerUp(layout.Point) {
	c.end()
}

func (c *Controller) end() {
	if c.release != nil {
		c.release()
		c.release = nil
	}
	c.gesture = Idle
	c.startPointer = layout.Point{}
	c.startPos = layout.Point{}
	c.startDims = layout.Dimensions{}
}

// magnetic returns the live cell size and whether snapping applies.
func (c *Controller) magnetic(settings dashboard.Settings) (layout.CellSize, bool) {
	cfg := settings.LayoutConfig
	if cfg.LayoutMode != dashboard.LayoutGrid || !cfg.MagneticSnapping {
		return layout.CellSize{}, false
	}
	return dashboard.LiveCellSize(c.surface.Viewport(), cfg.GridSize), true
}

// dragTarget keeps the card inside the viewport and below the header, then
// pulls each axis onto a nearby grid line.
func (c *Controller) dragTarget(settings dashboard.Settings, card dashboard.Card, delta layout.Point) layout.Point {
	vp := c.surface.Viewport()
	w, h := card.Dimensions.Width, card.Dimensions.Height

	clamp := func(p layout.Point) layout.Point {
		return layout.Point{
			X: layout.Clamp(p.X, 0, vp.Width-w),
			Y: layout.Clamp(p.Y, config.HeaderOffset, vp.Height-h),
		}
	}

	pos := clamp(layout.Point{X: c.startPos.X + delta.X, Y: c.startPos.Y + delta.Y})
	if cell, ok := c.magnetic(settings); ok {
		threshold := settings.LayoutConfig.SnapThreshold
		pos.X = layout.SnapToLine(pos.X, cell.Width, 0, threshold)
		pos.Y = layout.SnapToLine(pos.Y, cell.Height, config.HeaderOffset, threshold)
		pos = clamp(pos)
	}
	return pos
}

// resizeTarget bounds the new extent between the card minimum and the
// viewport edge, then rounds it to a nearby cell multiple.
func (c *Controller) resizeTarget(settings dashboard.Settings, card dashboard.Card, delta layout.Point) layout.Dimensions {
	vp := c.surface.Viewport()
	maxW := vp.Width - card.Position.X
	maxH := vp.Height - card.Position.Y

	dims := layout.Dimensions{
		Width:  layout.Clamp(c.startDims.Width+delta.X, config.MinCardWidth, maxW),
		Height: layout.Clamp(c.startDims.Height+delta.Y, config.MinCardHeight, maxH),
	}
	if cell, ok := c.magnetic(settings); ok {
		threshold := settings.LayoutConfig.SnapThreshold
		dims.Width = layout.Clamp(layout.SnapExtent(dims.Width, cell.Width, threshold), config.MinCardWidth, maxW)
		dims.Height = layout.Clamp(layout.SnapExtent(dims.Height, cell.Height, threshold), config.MinCardHeight, maxH)
	}
	return dims
}
