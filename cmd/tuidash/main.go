// Package main implements tuidash, a terminal dashboard of live system cards.
// Cards sit on a grid or float freely; they can be dragged by their header,
// resized from their corner handle, expanded and shrunk from the keyboard,
// and the layout is persisted between runs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gaurav-Gosain/tuidash/internal/theme"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode   bool
	themeName   string
	listThemes  bool
	borderStyle string
	showGrid    bool
	backend     string
	storageKey  string
	redisAddr   string
	ephemeral   bool
	browseDir   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tuidash",
		Short: "Terminal system dashboard",
		Long: `tuidash - Terminal system dashboard

A dashboard of system cards (host info, resources, network, files) laid out
on a grid or freely. Drag a card by its header, resize it from the corner
handle, grow and shrink it from the keyboard. The layout is saved after every
change.`,
		Example: `  # Run the dashboard
  tuidash

  # Run with a theme and grid guides
  tuidash --theme dracula --show-grid

  # Keep the layout in redis
  tuidash --backend redis --redis-addr localhost:6379

  # Try layouts without touching the saved one
  tuidash --ephemeral

  # Inspect the saved layout
  tuidash layout show`,
		Version: version,
		RunE: func(_ *cobra.Command, _ []string) error {
			if listThemes {
				for _, t := range theme.IDs() {
					fmt.Println(t)
				}
				return nil
			}
			return runLocal()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty to use standard terminal colors")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&borderStyle, "border-style", "", "Card border style: rounded, normal, thick, double, block, ascii (default: from config or rounded)")
	rootCmd.PersistentFlags().BoolVar(&showGrid, "show-grid", false, "Draw grid cell guides in grid mode")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Layout storage backend: file, redis, memory (default: from config or file)")
	rootCmd.PersistentFlags().StringVar(&storageKey, "key", "", "Storage key of the layout (default: from config or dashboard-settings)")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the redis backend")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the layout in memory only")
	rootCmd.Flags().StringVar(&browseDir, "dir", "", "Directory shown by the file browser card (default: working directory)")

	rootCmd.AddCommand(newConfigCmd(), newLayoutCmd())

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
