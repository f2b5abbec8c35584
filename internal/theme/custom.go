package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	tint "github.com/lrstanley/bubbletint/v2"
)

// GetThemesDir returns the custom themes directory (~/.config/tuidash/themes/),
// creating it if needed.
func GetThemesDir() (string, error) {
	keepFile, err := xdg.ConfigFile("tuidash/themes/.keep")
	if err != nil {
		return "", fmt.Errorf("failed to get themes directory: %w", err)
	}
	return filepath.Dir(keepFile), nil
}

// LoadCustomThemes registers every *.json theme in themesDir with bubbletint
// and returns the IDs that loaded. Bad files are logged and skipped.
func LoadCustomThemes(themesDir string) ([]string, error) {
	entries, err := os.ReadDir(themesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read themes directory: %w", err)
	}

	var loaded []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		t, err := LoadCustomThemeFile(filepath.Join(themesDir, entry.Name()))
		if err != nil {
			log.Warn("skipping custom theme", "file", entry.Name(), "err", err)
			continue
		}

		tint.Register(t)
		loaded = append(loaded, t.ID)
	}

	return loaded, nil
}

// LoadCustomThemeFile parses one theme file. The ID falls back to the
// lowercased file name and missing colors are filled in.
func LoadCustomThemeFile(path string) (*tint.Tint, error) {
	// #nosec G304 - path is from user's config directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}

	var t tint.Tint
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse theme JSON: %w", err)
	}

	if t.ID == "" {
		base := filepath.Base(path)
		t.ID = strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	}
	if t.ID == "" {
		return nil, fmt.Errorf("theme has no ID")
	}
	if t.DisplayName == "" {
		t.DisplayName = t.ID
	}

	fillDefaults(&t)
	return &t, nil
}

type colorSlot struct {
	field **tint.Color
	hex   string       // used when set
	from  **tint.Color // copied when hex is empty
}

// fillDefaults fills nil colors. Base colors use xterm values, the cursor
// follows Fg and bright variants follow their normal counterpart.
func fillDefaults(t *tint.Tint) {
	slots := []colorSlot{
		{field: &t.Fg, hex: "#e5e5e5"},
		{field: &t.Bg, hex: "#000000"},
		{field: &t.Cursor, from: &t.Fg},
		{field: &t.Black, hex: "#000000"},
		{field: &t.Red, hex: "#cd0000"},
		{field: &t.Green, hex: "#00cd00"},
		{field: &t.Yellow, hex: "#cdcd00"},
		{field: &t.Blue, hex: "#0000ee"},
		{field: &t.Purple, hex: "#cd00cd"},
		{field: &t.Cyan, hex: "#00cdcd"},
		{field: &t.White, hex: "#e5e5e5"},
		{field: &t.BrightBlack, from: &t.Black},
		{field: &t.BrightRed, from: &t.Red},
		{field: &t.BrightGreen, from: &t.Green},
		{field: &t.BrightYellow, from: &t.Yellow},
		{field: &t.BrightBlue, from: &t.Blue},
		{field: &t.BrightPurple, from: &t.Purple},
		{field: &t.BrightCyan, from: &t.Cyan},
		{field: &t.BrightWhite, from: &t.White},
	}

	for _, s := range slots {
		if *s.field != nil {
			continue
		}
		if s.hex != "" {
			*s.field = tint.FromHex(s.hex)
		} else {
			*s.field = copyColor(*s.from)
		}
	}
}

func copyColor(c *tint.Color) *tint.Color {
	if c == nil {
		return nil
	}
	dup := *c
	return &dup
}
