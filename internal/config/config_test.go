package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `
kodi_path = "/opt/kodi"
use_native_language = true
native_language = "German"
`
	if err := os.WriteFile(filepath.Join(dir, "sdt.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(dir)
	if cfg.KodiPath != "/opt/kodi" {
		t.Errorf("unexpected kodi path: %s", cfg.KodiPath)
	}
	if cfg.LanguageFolder() != "German" {
		t.Errorf("unexpected language folder: %s", cfg.LanguageFolder())
	}
}

func TestLoadMissing(t *testing.T) {
	cfg := Load(t.TempDir())
	if cfg.KodiPath != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
	if cfg.LanguageFolder() != DefaultLanguage {
		t.Errorf("unexpected default language: %s", cfg.LanguageFolder())
	}
}

func TestLoadUnparsable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sdt.toml"), []byte("kodi_path = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Load(dir)
	if cfg.KodiPath != "" {
		t.Errorf("expected zero config for broken settings, got %+v", cfg)
	}
}

func TestNativeLanguageDisabled(t *testing.T) {
	cfg := &Config{NativeLanguage: "German"}
	if cfg.LanguageFolder() != DefaultLanguage {
		t.Errorf("native language must be opt-in, got %s", cfg.LanguageFolder())
	}
}
