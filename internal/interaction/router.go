package interaction

import (
	"github.com/Gaurav-Gosain/tuidash/internal/layout"
)

// Router owns one controller per card and sends pointer-down events to the
// topmost card under the pointer.
type Router struct {
	store       Store
	surface     Surface
	controllers map[string]*Controller
}

// NewRouter returns a router with no controllers; they are created on demand.
func NewRouter(store Store, surface Surface) *Router {
	return &Router{
		store:       store,
		surface:     surface,
		controllers: make(map[string]*Controller),
	}
}

// Controller returns the controller for id, creating it if needed.
func (r *Router) Controller(id string) *Controller {
	c, ok := r.controllers[id]
	if !ok {
		c = NewController(id, r.store, r.surface)
		r.controllers[id] = c
	}
	return c
}

// Active returns the controller with a gesture in progress, if any.
func (r *Router) Active() *Controller {
	for _, c := range r.controllers {
		if c.Active() {
			return c
		}
	}
	return nil
}

// PointerDown hit-tests p against the enabled cards in stacking order, topmost
// first, and starts a gesture on the first card that contains p. It returns
// that card's id, or "" when p is on no card, and the gesture started.
func (r *Router) PointerDown(p layout.Point, topmostFirst []string) (string, Gesture) {
	if active := r.Active(); active != nil {
		active.end()
	}

	settings := r.store.Settings()
	for _, id := range topmostFirst {
		card, ok := settings.Card(id)
		if !ok || !card.Enabled || HitTest(card, p) == Outside {
			continue
		}
		c := r.Controller(id)
		c.PointerDown(p)
		return id, c.Gesture()
	}
	return "", Idle
}
