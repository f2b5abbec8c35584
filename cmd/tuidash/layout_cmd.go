package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tuidash/internal/config"
	"github.com/Gaurav-Gosain/tuidash/internal/dashboard"
	"github.com/Gaurav-Gosain/tuidash/internal/storage"
	"github.com/Gaurav-Gosain/tuidash/internal/theme"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// withStore opens the configured layout store for a headless command and
// closes it afterwards. Diagnostics go to stderr.
func withStore(fn func(*dashboard.Store, *config.UserConfig) error) error {
	userConfig := loadConfig()

	logCfg := userConfig.Log
	if !debugMode {
		logCfg.Level = "warn"
	}
	logger := newLogger(os.Stderr, logCfg)

	store, err := openStore(context.Background(), userConfig.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close storage", "err", err)
		}
	}()
	return fn(store, userConfig)
}

// cardArg validates a card id argument against the stored layout.
func cardArg(store *dashboard.Store, id string) (dashboard.Card, error) {
	c, ok := store.Card(id)
	if !ok {
		return dashboard.Card{}, fmt.Errorf("unknown card %q (known: %s)", id, strings.Join(cardIDs(store), ", "))
	}
	return c, nil
}

func cardIDs(store *dashboard.Store) []string {
	cards := store.SortedCards()
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

func directionArg(s string) (dashboard.Direction, error) {
	d, ok := dashboard.ParseDirection(s)
	if !ok {
		return "", fmt.Errorf("invalid direction %q (use up, down, left or right)", s)
	}
	return d, nil
}

func completeCardIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return dashboard.DefaultCardIDs(), cobra.ShellCompDirectiveNoFileComp
	case 1:
		dirs := make([]string, len(dashboard.Directions))
		for i, d := range dashboard.Directions {
			dirs[i] = string(d)
		}
		return dirs, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func newLayoutCmd() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect and edit the saved layout",
		Long: `Inspect and edit the saved dashboard layout without starting the UI

Every change goes through the same checks as the dashboard: expansions and
snaps that would overlap another card or leave the grid are rejected.`,
		Example: `  # Show the cards and the grid
  tuidash layout show

  # Print the persisted document
  tuidash layout show --json

  # Grow the network card to the left
  tuidash layout expand network-status left

  # Switch to freeform layout
  tuidash layout mode freeform`,
	}

	var asJSON bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved layout",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withStore(func(store *dashboard.Store, _ *config.UserConfig) error {
				settings := store.Settings()
				if asJSON {
					data, err := dashboard.Encode(settings)
					if err != nil {
						return fmt.Errorf("failed to encode layout: %w", err)
					}
					fmt.Println(string(data))
					return nil
				}
				fmt.Print(renderLayoutTable(settings))
				if grid := renderMiniGrid(settings, terminalWidth()); grid != "" {
					fmt.Print("\n" + grid)
				}
				return nil
			})
		},
	}
	showCmd.Flags().BoolVar(&asJSON, "json", false, "Print the persisted JSON document")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print where the layout is stored",
		RunE: func(_ *cobra.Command, _ []string) error {
			userConfig := loadConfig()
			return printLayoutLocation(userConfig.Storage)
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default layout",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withStore(func(store *dashboard.Store, _ *config.UserConfig) error {
				store.Reset()
				fmt.Println("Layout reset to defaults.")
				return nil
			})
		},
	}

	modeCmd := &cobra.Command{
		Use:       "mode [grid|freeform]",
		Short:     "Print or set the layout mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(dashboard.LayoutGrid), string(dashboard.LayoutFreeform)},
		RunE: func(_ *cobra.Command, args []string) error {
			return withStore(func(store *dashboard.Store, _ *config.UserConfig) error {
				if len(args) == 0 {
					fmt.Println(store.Settings().LayoutConfig.LayoutMode)
					return nil
				}
				mode := dashboard.LayoutMode(args[0])
				if !mode.Valid() {
					return fmt.Errorf("invalid layout mode %q (use grid or freeform)", args[0])
				}
				store.UpdateLayoutMode(mode)
				fmt.Printf("Layout mode: %s\n", mode)
				return nil
			})
		},
	}

	expandCmd := &cobra.Command{
		Use:               "expand <card> <direction>",
		Short:             "Grow a card by one grid cell",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeCardIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			return resizeCard(args[0], args[1], true)
		},
	}

	shrinkCmd := &cobra.Command{
		Use:               "shrink <card> <direction>",
		Short:             "Shrink a card by one grid cell from a side",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeCardIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			return resizeCard(args[0], args[1], false)
		},
	}

	snapCmd := &cobra.Command{
		Use:   "snap <card> [x y]",
		Short: "Snap a card to the grid cell nearest a pixel position",
		Long: `Snap a card to the grid cell nearest to the pixel position (x, y).

Without a position the card snaps from where it is.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("expected <card> or <card> <x> <y>, got %d arguments", len(args))
			}
			return nil
		},
		ValidArgsFunction: completeCardIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			return withStore(func(store *dashboard.Store, _ *config.UserConfig) error {
				card, err := cardArg(store, args[0])
				if err != nil {
					return err
				}
				x, y := card.Position.X, card.Position.Y
				if len(args) == 3 {
					if x, err = strconv.Atoi(args[1]); err != nil {
						return fmt.Errorf("invalid x %q: %w", args[1], err)
					}
					if y, err = strconv.Atoi(args[2]); err != nil {
						return fmt.Errorf("invalid y %q: %w", args[2], err)
					}
				}
				if !store.SnapToGrid(card.ID, x, y) {
					if after, _ := store.Card(card.ID); after.IsSnappedToGrid && len(args) == 1 {
						fmt.Printf("%s is already on the grid.\n", card.ID)
						return nil
					}
					return fmt.Errorf("cannot snap %s: target cell overlaps another card", card.ID)
				}
				after, _ := store.Card(card.ID)
				fmt.Printf("%s snapped to %s\n", card.ID, formatGrid(after))
				return nil
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:               "toggle <card>",
		Short:             "Show or hide a card",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCardIDs,
		RunE: func(_ *cobra.Command, args []string) error {
			return withStore(func(store *dashboard.Store, _ *config.UserConfig) error {
				card, err := cardArg(store, args[0])
				if err != nil {
					return err
				}
				store.ToggleEnabled(card.ID)
				state := "hidden"
				if !card.Enabled {
					state = "shown"
				}
				fmt.Printf("%s %s\n", card.ID, state)
				return nil
			})
		},
	}

	layoutCmd.AddCommand(showCmd, pathCmd, resetCmd, modeCmd, expandCmd, shrinkCmd, snapCmd, toggleCmd)
	return layoutCmd
}

func resizeCard(id, dir string, grow bool) error {
	return withStore(func(store *dashboard.Store, _ *config.UserConfig) error {
		card, err := cardArg(store, id)
		if err != nil {
			return err
		}
		d, err := directionArg(dir)
		if err != nil {
			return err
		}

		verb, ok := "expand", false
		if grow {
			ok = store.ExpandCard(card.ID, d)
		} else {
			verb = "shrink"
			ok = store.ShrinkCard(card.ID, d)
		}
		if !ok {
			return fmt.Errorf("cannot %s %s %s", verb, card.ID, d)
		}
		after, _ := store.Card(card.ID)
		fmt.Printf("%s now spans %s\n", card.ID, formatGrid(after))
		return nil
	})
}

func printLayoutLocation(cfg config.StorageConfig) error {
	key := cfg.Key
	if key == "" {
		key = dashboard.DefaultKey
	}
	switch cfg.Backend {
	case config.BackendRedis:
		fmt.Printf("redis://%s/%d %s\n", cfg.RedisAddr, cfg.RedisDB, key)
	case config.BackendMemory:
		fmt.Println("memory (not persisted)")
	default:
		f, err := storage.NewFile(cfg.Dir)
		if err != nil {
			return err
		}
		path, err := f.Path(key)
		if err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func formatGrid(c dashboard.Card) string {
	if c.GridPosition == nil {
		return "-"
	}
	g := c.GridPosition
	return fmt.Sprintf("r%d c%d %dx%d", g.Row, g.Col, g.ColSpan, g.RowSpan)
}

func expandFlags(c dashboard.Card) string {
	arrows := map[dashboard.Direction]string{
		dashboard.Up: "↑", dashboard.Down: "↓", dashboard.Left: "←", dashboard.Right: "→",
	}
	var b strings.Builder
	for _, d := range dashboard.Directions {
		if c.CanExpand(d) {
			b.WriteString(arrows[d])
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// renderLayoutTable lists the layout config and every card in order.
func renderLayoutTable(s dashboard.Settings) string {
	header := lipgloss.NewStyle().Foreground(theme.CLITableHeader()).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.CLITableDim())

	cfg := s.LayoutConfig
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s %s  %s %dpx  %s %dx%d of %dx%dpx\n\n",
		dim.Render("mode"), cfg.LayoutMode,
		dim.Render("magnetic"), onOff(cfg.MagneticSnapping),
		dim.Render("threshold"), cfg.SnapThreshold,
		dim.Render("grid"), cfg.GridSize.Cols, cfg.GridSize.Rows, cfg.GridCellSize.Width, cfg.GridCellSize.Height)

	b.WriteString(header.Render(fmt.Sprintf("%-3s %-18s %-12s %-5s %-14s %-11s %-10s %s",
		"", "ID", "NAME", "SHOW", "GRID", "POS", "SIZE", "EXPAND")) + "\n")
	for i, c := range s.SortedCards() {
		row := fmt.Sprintf("%-3s %-18s %-12s %-5s %-14s %-11s %-10s %s",
			cardLetter(i), c.ID, c.Name, onOff(c.Enabled), formatGrid(c),
			fmt.Sprintf("%d,%d", c.Position.X, c.Position.Y),
			fmt.Sprintf("%dx%d", c.Dimensions.Width, c.Dimensions.Height),
			expandFlags(c))
		if !c.Enabled {
			row = dim.Render(row)
		}
		b.WriteString(row + "\n")
	}
	return b.String()
}

func cardLetter(i int) string {
	return string(rune('A' + i%26))
}

// renderMiniGrid draws the grid with each enabled, grid-placed card filled
// with its table letter. It returns "" when the grid does not fit width.
func renderMiniGrid(s dashboard.Settings, width int) string {
	const cellWidth = 4
	cfg := s.LayoutConfig
	cols, rows := cfg.GridSize.Cols, cfg.GridSize.Rows
	if cols <= 0 || rows <= 0 || cols*cellWidth+2 > width {
		return ""
	}

	cells := make([][]string, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
		for c := range cells[r] {
			cells[r][c] = " ·  "
		}
	}
	for i, card := range s.SortedCards() {
		g := card.GridPosition
		if !card.Enabled || g == nil {
			continue
		}
		for r := g.Row; r < g.Row+g.RowSpan && r < rows; r++ {
			for c := g.Col; c < g.Col+g.ColSpan && c < cols; c++ {
				cells[r][c] = " " + cardLetter(i) + "  "
			}
		}
	}

	lines := make([]string, rows)
	for r, row := range cells {
		lines[r] = strings.Join(row, "")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.CLITableDim()).
		Render(strings.Join(lines, "\n")) + "\n"
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
