// Package tuidash provides the tuidash dashboard as a Bubble Tea model that
// can be embedded in other applications or run on its own.
//
// # Basic Usage
//
// Create a dashboard with default options. The layout is loaded from and
// saved to the backend in the user's config file:
//
//	model, err := tuidash.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tuidash.Close(model)
//
//	p := tea.NewProgram(model, tuidash.ProgramOptions()...)
//	if _, err := p.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Custom Configuration
//
//	model, err := tuidash.New(
//		tuidash.WithTheme("dracula"),
//		tuidash.WithBackend("memory"),
//		tuidash.WithDir("/var/log"),
//	)
//
// The returned model exposes the layout store, so embedders can drive the
// same operations the keyboard and mouse do:
//
//	model.Store.ExpandCard("network-status", tuidash.Left)
package tuidash

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/app"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/input"
	"github.com/Gaurav-Gosain/tuidash/internal/storage"
	"github.com/charmbracelet/log"
)

// Model is the dashboard model that implements tea.Model.
type Model = app.Dashboard

// Direction is a side of a card used by expand and shrink.
type Direction = dashboard.Direction

// Directions
const (
	Up    = dashboard.Up
	Down  = dashboard.Down
	Left  = dashboard.Left
	Right = dashboard.Right
)

// LayoutMode selects grid or freeform placement.
type LayoutMode = dashboard.LayoutMode

// Layout modes
const (
	LayoutGrid     = dashboard.LayoutGrid
	LayoutFreeform = dashboard.LayoutFreeform
)

// Options configures a dashboard.
type Options struct {
	// Theme is the color theme name (e.g., "dracula", "nord", "tokyonight").
	// Leave empty to use standard terminal colors.
	Theme string

	// BorderStyle sets the card border style.
	// Valid values: "rounded", "normal", "thick", "double", "block", "ascii"
	BorderStyle string

	// ShowGrid draws grid cell guides in grid mode.
	ShowGrid bool

	// Backend selects the layout storage: "file", "redis" or "memory".
	// Empty uses the user config.
	Backend string

	// StorageKey is the key the layout is stored under.
	StorageKey string

	// Dir is listed by the file browser card. Empty means the working directory.
	Dir string

	// Width is the initial width (set automatically if 0).
	Width int

	// Height is the initial height (set automatically if 0).
	Height int

	// Logger receives diagnostics. Nil uses log.Default().
	Logger *log.Logger

	// UserConfig is a custom user configuration. If nil, the user's config
	// file is loaded, falling back to defaults.
	UserConfig *config.UserConfig
}

// Option is a functional option for configuring a dashboard.
type Option func(*Options)

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Theme = name
	}
}

// WithBorderStyle sets the card border style.
func WithBorderStyle(style string) Option {
	return func(o *Options) {
		o.BorderStyle = style
	}
}

// WithShowGrid draws grid guides.
func WithShowGrid(enabled bool) Option {
	return func(o *Options) {
		o.ShowGrid = enabled
	}
}

// WithBackend selects the layout storage backend.
func WithBackend(backend string) Option {
	return func(o *Options) {
		o.Backend = backend
	}
}

// WithStorageKey sets the key the layout is stored under.
func WithStorageKey(key string) Option {
	return func(o *Options) {
		o.StorageKey = key
	}
}

// WithDir sets the directory shown by the file browser card.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(o *Options) {
		o.UserConfig = cfg
	}
}

// New creates a dashboard model with the given options. It fails only when
// the storage backend cannot be opened; a missing or corrupt saved layout
// falls back to the defaults.
func New(opts ...Option) (*Model, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}

	userConfig := options.UserConfig
	if userConfig == nil {
		var err error
		userConfig, err = config.LoadUserConfig()
		if err != nil {
			userConfig = config.DefaultConfig()
		}
	}

	config.ApplyOverrides(config.Overrides{
		BorderStyle: options.BorderStyle,
		ShowGrid:    options.ShowGrid,
		ThemeName:   options.Theme,
		Backend:     options.Backend,
		StorageKey:  options.StorageKey,
	}, userConfig)

	logger := options.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, userConfig.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", userConfig.Storage.Backend, err)
	}
	store := dashboard.Open(ctx, backend, dashboard.WithKey(userConfig.Storage.Key), dashboard.WithLogger(logger))

	app.SetInputHandler(input.HandleInput)

	model := app.NewDashboard(app.DashboardOptions{
		Store:      store,
		UserConfig: userConfig,
		Logger:     logger,
		Dir:        options.Dir,
	})
	if options.Width > 0 && options.Height > 0 {
		model.Resize(options.Width, options.Height)
	}
	return model, nil
}

// Close releases the model's store subscription and storage backend.
func Close(m *Model) error {
	m.Cleanup()
	return m.Store.Close()
}

// ProgramOptions returns recommended tea.ProgramOption values for running
// the dashboard:
//
//	p := tea.NewProgram(model, tuidash.ProgramOptions()...)
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
		tea.WithFilter(FilterMouseMotion),
	}
}

// FilterMouseMotion is a tea.WithFilter function that drops mouse motion
// unless a card is being dragged or resized.
func FilterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	m, ok := model.(*Model)
	if !ok || m.Captured() != nil {
		return msg
	}
	return nil
}

// Config re-exports the config package for customization.
// This allows users to access configuration types without importing internal packages.
var Config = struct {
	// LoadUserConfig loads the user's configuration file.
	LoadUserConfig func() (*config.UserConfig, error)
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.UserConfig
	// GetConfigPath returns the path to the configuration file.
	GetConfigPath func() (string, error)
}{
	LoadUserConfig: config.LoadUserConfig,
	DefaultConfig:  config.DefaultConfig,
	GetConfigPath:  config.GetConfigPath,
}
