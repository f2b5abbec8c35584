package config

import (
	"slices"
	"strings"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title     string
	Condition string // Empty for always shown, "grid" for grid mode, "freeform" for freeform mode
	Bindings  []Keybinding
}

// KeybindRegistry resolves key strings to actions for one input context.
type KeybindRegistry struct {
	actions map[string]string   // key -> action
	keys    map[string][]string // action -> keys
}

// NewKeybindRegistry builds a registry from an action -> keys map.
// When two actions claim the same key the first in sorted action order wins.
func NewKeybindRegistry(bindings map[string][]string) *KeybindRegistry {
	r := &KeybindRegistry{
		actions: make(map[string]string),
		keys:    make(map[string][]string),
	}

	names := make([]string, 0, len(bindings))
	for action := range bindings {
		names = append(names, action)
	}
	slices.Sort(names)

	for _, action := range names {
		for _, key := range bindings[action] {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if _, taken := r.actions[key]; taken {
				continue
			}
			r.actions[key] = action
			r.keys[action] = append(r.keys[action], key)
		}
	}
	return r
}

// GetAction returns the action bound to key, or "" when nothing is bound.
func (r *KeybindRegistry) GetAction(key string) string {
	if r == nil {
		return ""
	}
	return r.actions[key]
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	if r == nil {
		return nil
	}
	return r.keys[action]
}

// GetKeysForDisplay returns the keys for action formatted for the help overlay.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.GetKeys(action)
	if len(keys) == 0 {
		return ""
	}
	display := make([]string, len(keys))
	for i, k := range keys {
		display[i] = formatKey(k)
	}
	return strings.Join(display, ", ")
}

var keyNames = map[string]string{
	"up":    "↑",
	"down":  "↓",
	"left":  "←",
	"right": "→",
	"esc":   "Esc",
	"tab":   "Tab",
	"enter": "Enter",
	"space": "Space",
}

func formatKey(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		if name, ok := keyNames[p]; ok {
			parts[i] = name
			continue
		}
		if i < len(parts)-1 && len(p) > 1 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}

// GetKeybindings returns all keybinding sections for the help overlay.
// A nil registry falls back to the built-in defaults.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig().Keybindings.Dashboard)
	}

	sections := []KeybindingSection{}

	cards := KeybindingSection{Title: "CARDS"}
	addBinding(&cards, registry, "focus_next", "Focus next card")
	addBinding(&cards, registry, "focus_prev", "Focus previous card")
	addBinding(&cards, registry, "disable_focused", "Hide focused card")
	if len(cards.Bindings) > 0 {
		sections = append(sections, cards)
	}

	grid := KeybindingSection{Title: "GRID", Condition: "grid"}
	addBinding(&grid, registry, "expand_up", "Expand up")
	addBinding(&grid, registry, "expand_down", "Expand down")
	addBinding(&grid, registry, "expand_left", "Expand left")
	addBinding(&grid, registry, "expand_right", "Expand right")
	addBinding(&grid, registry, "shrink_up", "Shrink from top")
	addBinding(&grid, registry, "shrink_down", "Shrink from bottom")
	addBinding(&grid, registry, "shrink_left", "Shrink from left")
	addBinding(&grid, registry, "shrink_right", "Shrink from right")
	addBinding(&grid, registry, "toggle_grid", "Toggle grid guides")
	if len(grid.Bindings) > 0 {
		sections = append(sections, grid)
	}

	lay := KeybindingSection{Title: "LAYOUT"}
	addBinding(&lay, registry, "snap_to_grid", "Snap focused card to grid")
	addBinding(&lay, registry, "snap_all_to_grid", "Snap all cards to grid")
	addBinding(&lay, registry, "toggle_layout", "Toggle grid/freeform")
	addBinding(&lay, registry, "toggle_magnetic", "Toggle magnetic snapping")
	addBinding(&lay, registry, "reset_layout", "Reset layout")
	addBinding(&lay, registry, "open_settings", "Settings")
	addBinding(&lay, registry, "toggle_help", "Toggle help")
	addBinding(&lay, registry, "quit", "Quit")
	if len(lay.Bindings) > 0 {
		sections = append(sections, lay)
	}

	return append(sections, getStaticHelpSections()...)
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}

// getStaticHelpSections returns help sections that don't depend on the registry
func getStaticHelpSections() []KeybindingSection {
	return []KeybindingSection{
		{
			Title: "MOUSE",
			Bindings: []Keybinding{
				{"Drag title", "Move card"},
				{"Drag ◢ corner", "Resize card"},
				{"Click", "Focus card"},
			},
		},
	}
}
