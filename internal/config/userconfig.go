package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

const configRelPath = "tuidash/config.toml"

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Appearance  AppearanceConfig  `toml:"appearance"`
	Storage     StorageConfig     `toml:"storage"`
	Log         LogConfig         `toml:"log"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	Theme       string `toml:"theme"`        // Color theme name (e.g., dracula, nord, my-custom-theme)
	BorderStyle string `toml:"border_style"` // Card border style: rounded, normal, thick, double, block, ascii
	ShowGrid    bool   `toml:"show_grid"`    // Draw grid cell guides in grid mode
}

// StorageConfig selects where the dashboard layout is persisted
type StorageConfig struct {
	Backend       string `toml:"backend"`        // file, redis, memory (default: file)
	Key           string `toml:"key"`            // Storage key for the layout entry (default: dashboard-settings)
	Dir           string `toml:"dir"`            // Directory for the file backend (default: $XDG_STATE_HOME/tuidash)
	RedisAddr     string `toml:"redis_addr"`     // Redis address for the redis backend (default: localhost:6379)
	RedisPassword string `toml:"redis_password"` // Redis password, empty for none
	RedisDB       int    `toml:"redis_db"`       // Redis database number
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error (default: info)
	File  string `toml:"file"`  // Log file path (default: $XDG_STATE_HOME/tuidash/tuidash.log)
}

// KeybindingsConfig maps actions to key strings
type KeybindingsConfig struct {
	Dashboard map[string][]string `toml:"dashboard"`
	Settings  map[string][]string `toml:"settings"`
}

// Storage backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var (
	validBackends     = []string{BackendFile, BackendRedis, BackendMemory}
	validBorderStyles = []string{"rounded", "normal", "thick", "double", "block", "ascii"}
	validLogLevels    = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Appearance: AppearanceConfig{
			BorderStyle: "rounded",
		},
		Storage: StorageConfig{
			Backend:   BackendFile,
			Key:       "dashboard-settings",
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level: "info",
		},
		Keybindings: KeybindingsConfig{
			Dashboard: map[string][]string{
				"focus_next":       {"tab"},
				"focus_prev":       {"shift+tab"},
				"expand_up":        {"shift+up", "K"},
				"expand_down":      {"shift+down", "J"},
				"expand_left":      {"shift+left", "H"},
				"expand_right":     {"shift+right", "L"},
				"shrink_up":        {"ctrl+up"},
				"shrink_down":      {"ctrl+down"},
				"shrink_left":      {"ctrl+left"},
				"shrink_right":     {"ctrl+right"},
				"snap_to_grid":     {"s"},
				"toggle_layout":    {"g"},
				"toggle_magnetic":  {"m"},
				"toggle_grid":      {"G"},
				"open_settings":    {",", "o"},
				"reset_layout":     {"R"},
				"toggle_help":      {"?"},
				"quit":             {"q", "ctrl+c"},
				"disable_focused":  {"x"},
				"snap_all_to_grid": {"S"},
			},
			Settings: map[string][]string{
				"settings_up":      {"up", "k"},
				"settings_down":    {"down", "j"},
				"settings_toggle":  {"space", "enter"},
				"settings_move_up": {"shift+up", "K"},
				"settings_move_dn": {"shift+down", "J"},
				"settings_reset":   {"R"},
				"settings_close":   {"esc", ",", "q"},
			},
		},
	}
}

// LoadUserConfig loads the user configuration from XDG config directory
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		// Config doesn't exist, create default
		return createDefaultConfig()
	}
	return LoadUserConfigFile(configPath)
}

// LoadUserConfigFile parses a config file, fills in missing settings and validates it.
func LoadUserConfigFile(path string) (*UserConfig, error) {
	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaultCfg := DefaultConfig()
	fillMissingAppearance(&cfg, defaultCfg)
	fillMissingStorage(&cfg, defaultCfg)
	fillMissingLog(&cfg, defaultCfg)
	fillMissingKeybinds(&cfg, defaultCfg)

	validation := ValidateConfig(&cfg)
	if validation.HasErrors() {
		for _, err := range validation.Errors {
			fmt.Fprintf(os.Stderr, "Config error in [%s]: %s - %s\n", err.Field, err.Key, err.Message)
		}
		return nil, fmt.Errorf("configuration has %d error(s), please fix and restart", len(validation.Errors))
	}
	for _, warn := range validation.Warnings {
		fmt.Fprintf(os.Stderr, "Config warning in [%s]: %s - %s\n", warn.Field, warn.Key, warn.Message)
	}

	return &cfg, nil
}

// createDefaultConfig writes a default config file to the user's config directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()

	configPath, err := xdg.ConfigFile(configRelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	if err := WriteConfigFile(configPath, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfigFile marshals cfg with a commented header and writes it to path.
func WriteConfigFile(path string, cfg *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# tuidash configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n")
	sb.WriteString("#\n")
	sb.WriteString("# [appearance]\n")
	sb.WriteString("#   border_style: rounded, normal, thick, double, block, ascii (default: rounded)\n")
	sb.WriteString("#   theme: color theme name; custom themes live in ~/.config/tuidash/themes/*.json\n")
	sb.WriteString("#   show_grid: draw grid cell guides in grid mode (default: false)\n")
	sb.WriteString("#\n")
	sb.WriteString("# [storage]\n")
	sb.WriteString("#   backend: file, redis, memory (default: file)\n")
	sb.WriteString("#   key: name of the persisted layout entry (default: dashboard-settings)\n")
	sb.WriteString("#\n")
	sb.WriteString("# [log]\n")
	sb.WriteString("#   level: debug, info, warn, error (default: info)\n\n")

	if _, err := sb.Write(data); err != nil {
		return fmt.Errorf("failed to write config data: %w", err)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fillMissingAppearance(cfg, defaultCfg *UserConfig) {
	if cfg.Appearance.BorderStyle == "" {
		cfg.Appearance.BorderStyle = defaultCfg.Appearance.BorderStyle
	}
	// Theme and ShowGrid default to their zero values
}

func fillMissingStorage(cfg, defaultCfg *UserConfig) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = defaultCfg.Storage.Backend
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = defaultCfg.Storage.Key
	}
	if cfg.Storage.RedisAddr == "" {
		cfg.Storage.RedisAddr = defaultCfg.Storage.RedisAddr
	}
	// Dir defaults to empty (use XDG state dir), so we don't override it
}

func fillMissingLog(cfg, defaultCfg *UserConfig) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
}

func fillMissingKeybinds(cfg, defaultCfg *UserConfig) {
	if cfg.Keybindings.Dashboard == nil {
		cfg.Keybindings.Dashboard = make(map[string][]string)
	}
	if cfg.Keybindings.Settings == nil {
		cfg.Keybindings.Settings = make(map[string][]string)
	}
	fillMapDefaults(cfg.Keybindings.Dashboard, defaultCfg.Keybindings.Dashboard)
	fillMapDefaults(cfg.Keybindings.Settings, defaultCfg.Keybindings.Settings)
}

func fillMapDefaults(target, defaults map[string][]string) {
	for k, v := range defaults {
		if _, exists := target[k]; !exists {
			target[k] = v
		}
	}
}

// ValidationIssue describes one problem found in the config
type ValidationIssue struct {
	Field   string
	Key     string
	Message string
}

// ValidationResult collects config errors (fatal) and warnings (non-fatal)
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether any fatal issue was found
func (v *ValidationResult) HasErrors() bool { return len(v.Errors) > 0 }

// HasWarnings reports whether any non-fatal issue was found
func (v *ValidationResult) HasWarnings() bool { return len(v.Warnings) > 0 }

// ValidateConfig checks enumerated values and keybinding sanity
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	result := &ValidationResult{}

	if !slices.Contains(validBorderStyles, cfg.Appearance.BorderStyle) {
		result.Errors = append(result.Errors, ValidationIssue{
			Field:   "appearance",
			Key:     "border_style",
			Message: fmt.Sprintf("unknown border style %q (valid: %s)", cfg.Appearance.BorderStyle, strings.Join(validBorderStyles, ", ")),
		})
	}
	if !slices.Contains(validBackends, cfg.Storage.Backend) {
		result.Errors = append(result.Errors, ValidationIssue{
			Field:   "storage",
			Key:     "backend",
			Message: fmt.Sprintf("unknown backend %q (valid: %s)", cfg.Storage.Backend, strings.Join(validBackends, ", ")),
		})
	}
	if cfg.Storage.RedisDB < 0 {
		result.Errors = append(result.Errors, ValidationIssue{
			Field:   "storage",
			Key:     "redis_db",
			Message: "must not be negative",
		})
	}
	if !slices.Contains(validLogLevels, cfg.Log.Level) {
		result.Warnings = append(result.Warnings, ValidationIssue{
			Field:   "log",
			Key:     "level",
			Message: fmt.Sprintf("unknown level %q, falling back to info", cfg.Log.Level),
		})
		cfg.Log.Level = "info"
	}

	checkKeyConflicts(result, "keybindings.dashboard", cfg.Keybindings.Dashboard)
	checkKeyConflicts(result, "keybindings.settings", cfg.Keybindings.Settings)

	return result
}

// checkKeyConflicts warns when one key is bound to more than one action
func checkKeyConflicts(result *ValidationResult, field string, bindings map[string][]string) {
	owner := make(map[string]string)
	actions := make([]string, 0, len(bindings))
	for action := range bindings {
		actions = append(actions, action)
	}
	slices.Sort(actions)

	for _, action := range actions {
		for _, key := range bindings[action] {
			if prev, ok := owner[key]; ok && prev != action {
				result.Warnings = append(result.Warnings, ValidationIssue{
					Field:   field,
					Key:     key,
					Message: fmt.Sprintf("bound to both %s and %s", prev, action),
				})
				continue
			}
			owner[key] = action
		}
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(configRelPath)
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile(configRelPath)
	}
	return path, nil
}
