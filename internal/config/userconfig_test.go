package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	result := ValidateConfig(DefaultConfig())
	if result.HasErrors() {
		t.Fatalf("default config has errors: %+v", result.Errors)
	}
	if result.HasWarnings() {
		t.Fatalf("default config has warnings: %+v", result.Warnings)
	}
}

func TestLoadUserConfigFileFillsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[appearance]
theme = "nord"

[storage]
backend = "memory"

[keybindings.dashboard]
quit = ["Q"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadUserConfigFile(path)
	if err != nil {
		t.Fatalf("LoadUserConfigFile: %v", err)
	}

	if cfg.Appearance.Theme != "nord" {
		t.Errorf("theme = %q, want nord", cfg.Appearance.Theme)
	}
	if cfg.Appearance.BorderStyle != "rounded" {
		t.Errorf("border style not back-filled, got %q", cfg.Appearance.BorderStyle)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "dashboard-settings" {
		t.Errorf("storage key not back-filled, got %q", cfg.Storage.Key)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level not back-filled, got %q", cfg.Log.Level)
	}
	if got := cfg.Keybindings.Dashboard["quit"]; len(got) != 1 || got[0] != "Q" {
		t.Errorf("user quit binding overwritten: %v", got)
	}
	if _, ok := cfg.Keybindings.Dashboard["expand_up"]; !ok {
		t.Error("missing dashboard binding not back-filled")
	}
	if _, ok := cfg.Keybindings.Settings["settings_close"]; !ok {
		t.Error("missing settings binding not back-filled")
	}
}

func TestLoadUserConfigFileRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad backend", content: "[storage]\nbackend = \"etcd\"\n"},
		{name: "bad border", content: "[appearance]\nborder_style = \"wavy\"\n"},
		{name: "negative redis db", content: "[storage]\nredis_db = -1\n"},
		{name: "not toml", content: "this is = = not toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadUserConfigFile(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestValidateConfigWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "chatty"
	cfg.Keybindings.Dashboard["toggle_help"] = []string{"q"}

	result := ValidateConfig(cfg)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", result.Warnings)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("unknown level should fall back to info, got %q", cfg.Log.Level)
	}
}

func TestWriteConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendRedis
	cfg.Storage.RedisDB = 3

	if err := WriteConfigFile(path, cfg); err != nil {
		t.Fatalf("WriteConfigFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config perms = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadUserConfigFile(path)
	if err != nil {
		t.Fatalf("LoadUserConfigFile: %v", err)
	}
	if loaded.Storage.Backend != BackendRedis || loaded.Storage.RedisDB != 3 {
		t.Errorf("storage not preserved: %+v", loaded.Storage)
	}
}

func TestKeybindRegistry(t *testing.T) {
	r := NewKeybindRegistry(map[string][]string{
		"quit":        {"q", "ctrl+c"},
		"toggle_help": {"?", "q"},
		"expand_up":   {"shift+up", " "},
	})

	if got := r.GetAction("ctrl+c"); got != "quit" {
		t.Errorf("GetAction(ctrl+c) = %q", got)
	}
	// "q" is claimed by quit, which sorts first.
	if got := r.GetAction("q"); got != "quit" {
		t.Errorf("GetAction(q) = %q, want quit", got)
	}
	if got := r.GetKeys("toggle_help"); len(got) != 1 || got[0] != "?" {
		t.Errorf("GetKeys(toggle_help) = %v", got)
	}
	if got := r.GetKeysForDisplay("expand_up"); got != "Shift+↑" {
		t.Errorf("GetKeysForDisplay(expand_up) = %q", got)
	}
	if got := r.GetAction("nope"); got != "" {
		t.Errorf("unbound key resolved to %q", got)
	}

	var nilRegistry *KeybindRegistry
	if nilRegistry.GetAction("q") != "" {
		t.Error("nil registry should resolve nothing")
	}
}

func TestGetKeybindingsDefaults(t *testing.T) {
	sections := GetKeybindings(nil)
	if len(sections) < 3 {
		t.Fatalf("expected at least 3 help sections, got %d", len(sections))
	}
	if sections[0].Title != "CARDS" {
		t.Errorf("first section = %q", sections[0].Title)
	}
}

func TestApplyOverrides(t *testing.T) {
	oldBorder, oldGrid := BorderStyle, ShowGrid
	t.Cleanup(func() { BorderStyle, ShowGrid = oldBorder, oldGrid })

	cfg := DefaultConfig()
	cfg.Appearance.BorderStyle = "double"

	ApplyOverrides(Overrides{Backend: BackendMemory, ShowGrid: true}, cfg)
	if BorderStyle != "double" {
		t.Errorf("BorderStyle = %q, want double from user config", BorderStyle)
	}
	if !ShowGrid {
		t.Error("ShowGrid flag should win")
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("backend override not applied: %q", cfg.Storage.Backend)
	}

	ApplyOverrides(Overrides{BorderStyle: "thick"}, cfg)
	if BorderStyle != "thick" {
		t.Errorf("CLI border style should win, got %q", BorderStyle)
	}
}

func TestPixelConversion(t *testing.T) {
	x, y := ToPixels(12, 3)
	if x != 120 || y != 75 {
		t.Errorf("ToPixels(12, 3) = (%d, %d)", x, y)
	}
	col, row := ToCells(129, 99)
	if col != 12 || row != 3 {
		t.Errorf("ToCells(129, 99) = (%d, %d)", col, row)
	}
}
