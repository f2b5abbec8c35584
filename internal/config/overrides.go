package config

import (
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuidash/internal/theme"
)

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config default.
type Overrides struct {
	// BorderStyle overrides the card border style
	BorderStyle string

	// ShowGrid forces the grid guides on
	ShowGrid bool

	// ThemeName is the theme to load
	ThemeName string

	// Backend overrides the storage backend
	Backend string

	// StorageKey overrides the persisted layout key
	StorageKey string

	// RedisAddr overrides the redis address
	RedisAddr string
}

// ApplyOverrides applies CLI flag overrides to global config, falling back to user config defaults.
// Storage overrides are written back into userConfig so callers open the right backend.
// If userConfig is nil, only CLI flag values (when set) are applied.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	// Border Style - CLI flag takes precedence, otherwise use user config
	if overrides.BorderStyle != "" {
		BorderStyle = overrides.BorderStyle
	} else if userConfig != nil && userConfig.Appearance.BorderStyle != "" {
		BorderStyle = userConfig.Appearance.BorderStyle
	}

	// Grid guides - OR of CLI flag and user config
	if userConfig != nil {
		ShowGrid = overrides.ShowGrid || userConfig.Appearance.ShowGrid
	} else {
		ShowGrid = overrides.ShowGrid
	}

	if userConfig != nil {
		if overrides.Backend != "" {
			userConfig.Storage.Backend = overrides.Backend
		}
		if overrides.StorageKey != "" {
			userConfig.Storage.Key = overrides.StorageKey
		}
		if overrides.RedisAddr != "" {
			userConfig.Storage.RedisAddr = overrides.RedisAddr
		}
	}

	// Theme - CLI flag takes precedence, otherwise use user config
	themeName := overrides.ThemeName
	if themeName == "" && userConfig != nil && userConfig.Appearance.Theme != "" {
		themeName = userConfig.Appearance.Theme
	}
	if themeName != "" {
		if err := theme.Initialize(themeName); err != nil {
			log.Warn("failed to load theme", "theme", themeName, "err", err)
			return
		}
		ThemeName = themeName
	}
}
