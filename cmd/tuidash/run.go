package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/app"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/input"
	"github.com/Gaurav-Gosain/tuidash/internal/storage"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// filterMouseMotion drops motion events unless a card holds the pointer
// capture. Cell motion still reports every cell crossed while a button is
// down, and nothing else consumes them.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	d, ok := model.(*app.Dashboard)
	if !ok {
		return msg
	}
	if d.Captured() != nil {
		return msg
	}
	return nil
}

// loadConfig reads the user config and applies the global flags on top.
func loadConfig() *config.UserConfig {
	userConfig, err := config.LoadUserConfig()
	if err != nil {
		log.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}

	overrides := config.Overrides{
		BorderStyle: borderStyle,
		ShowGrid:    showGrid,
		ThemeName:   themeName,
		Backend:     backend,
		StorageKey:  storageKey,
		RedisAddr:   redisAddr,
	}
	if ephemeral {
		overrides.Backend = config.BackendMemory
	}
	config.ApplyOverrides(overrides, userConfig)
	return userConfig
}

// newLogger returns a timestamped logger at the configured level, or debug
// when --debug is set.
func newLogger(w io.Writer, cfg config.LogConfig) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	if debugMode {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// openLogFile opens the log file for appending. The TUI owns stdout, so
// the dashboard never logs to the terminal.
func openLogFile(cfg config.LogConfig) (*os.File, error) {
	path := cfg.File
	if path == "" {
		var err error
		path, err = xdg.StateFile("tuidash/tuidash.log")
		if err != nil {
			return nil, fmt.Errorf("failed to resolve log path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - path is the user's own log file
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// openStore opens the configured backend and loads the layout from it.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *log.Logger) (*dashboard.Store, error) {
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
	}
	return dashboard.Open(ctx, backend, dashboard.WithKey(cfg.Key), dashboard.WithLogger(logger)), nil
}

func runLocal() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tuidash needs an interactive terminal; use 'tuidash layout' to script the layout")
	}

	userConfig := loadConfig()

	logFile, err := openLogFile(userConfig.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, userConfig.Log)

	if debugMode {
		configPath, _ := config.GetConfigPath()
		fmt.Printf("Debug logging to %s\n", logFile.Name())
		logger.Debug("starting", "version", version, "config", configPath, "backend", userConfig.Storage.Backend)
	}

	ctx := context.Background()
	store, err := openStore(ctx, userConfig.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close storage", "err", err)
		}
	}()

	app.SetInputHandler(input.HandleInput)

	d := app.NewDashboard(app.DashboardOptions{
		Store:      store,
		UserConfig: userConfig,
		Logger:     logger,
		Dir:        browseDir,
	})

	p := tea.NewProgram(
		d,
		tea.WithFPS(config.NormalFPS),
		tea.WithoutSignalHandler(),
		tea.WithFilter(filterMouseMotion),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	finalModel, err := p.Run()

	if final, ok := finalModel.(*app.Dashboard); ok {
		final.Cleanup()
	}

	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
