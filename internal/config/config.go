package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultLanguage is the catalog folder used when no native language is
// configured.
const DefaultLanguage = "English"

// Config carries the tool settings read from sdt.toml. Every field is
// optional; a missing file yields the zero config.
type Config struct {
	// KodiPath points at the engine installation used to resolve the
	// built-in string catalog.
	KodiPath string `toml:"kodi_path"`
	// UseNativeLanguage switches catalog loading to NativeLanguage.
	UseNativeLanguage bool   `toml:"use_native_language"`
	NativeLanguage    string `toml:"native_language"`
}

// LanguageFolder returns the language folder the catalogs are read from.
func (c *Config) LanguageFolder() string {
	if c.UseNativeLanguage && c.NativeLanguage != "" {
		return c.NativeLanguage
	}
	return DefaultLanguage
}

// Load reads sdt.toml from the project root, falling back to the user
// config directory. Absence of both is not an error.
func Load(projectRoot string) *Config {
	paths := []string{}
	if projectRoot != "" {
		paths = append(paths, filepath.Join(projectRoot, "sdt.toml"))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "sdt", "sdt.toml"))
	}

	cfg := &Config{}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := toml.Unmarshal(content, cfg); err == nil {
			return cfg
		}
		// Unparsable settings behave like missing settings.
		*cfg = Config{}
	}
	return cfg
}
