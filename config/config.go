// Package config loads assembler-facing settings that have no home in the
// core pipeline types: an override for the layout engine's starting
// address, memory-report display preferences, and which lint codes are
// enabled, loaded via a DefaultConfig/LoadConfig pair backed by
// github.com/BurntSushi/toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds settings read from a TOML file, falling back to
// DefaultConfig for anything the file doesn't set.
type Config struct {
	// Layout settings.
	Layout struct {
		ProgramStart string `toml:"program_start"` // overrides layout.ProgramStart; parsed as a constant expression
	} `toml:"layout"`

	// Display settings for memory_report() rendering.
	Display struct {
		NumberFormat string `toml:"number_format"` // "hex", "dec", or "both"
		BytesPerLine int    `toml:"bytes_per_line"`
	} `toml:"display"`

	// Lint settings. They are loaded and saved with the rest of the file;
	// tools.Lint takes its own LintOptions and does not read them.
	Lint struct {
		Strict          bool     `toml:"strict"` // treat warnings as errors
		EnabledCodes    []string `toml:"enabled_codes"`
		CheckUnusedOnly bool     `toml:"check_unused_only"`
	} `toml:"lint"`
}

// DefaultConfig returns a Config with the same values a fresh install
// would use with no TOML file present.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Layout.ProgramStart = "0"

	cfg.Display.NumberFormat = "hex"
	cfg.Display.BytesPerLine = 16

	cfg.Lint.Strict = false
	cfg.Lint.EnabledCodes = []string{"UNDEF_LABEL", "UNUSED_LABEL", "DUPLICATE_LABEL", "INVALID_DIRECTIVE"}
	cfg.Lint.CheckUnusedOnly = false

	return cfg
}

// GetConfigPath returns the platform-specific default config file path,
// creating its containing directory if needed.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "z33-asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "z33-asm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadConfig(GetConfigPath())
}

// LoadConfig loads configuration from path, returning DefaultConfig
// unchanged if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
