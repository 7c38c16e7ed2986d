// ABOUTME: Application settings management for the folder player
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-tunable application settings. The persisted
// playlist state lives elsewhere (the state package); this file is for
// knobs the user edits by hand.
type Config struct {
	// StateDir is where state.json and the instance lock live.
	// Empty means ~/.config/folder-player.
	StateDir string `toml:"state_dir"`

	// AutosaveIntervalSeconds is the periodic save interval.
	AutosaveIntervalSeconds int `toml:"autosave_interval_seconds"`

	// SeekStepSeconds is how far the seek keys jump.
	SeekStepSeconds int `toml:"seek_step_seconds"`

	// ResumePaused loads the last track paused at its saved position
	// on startup instead of auto-playing.
	ResumePaused bool `toml:"resume_paused"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/folder-player/config.toml
func GetConfigPath() string {
	// First try current directory
	if _, err := os.Stat("./folder-player.toml"); err == nil {
		return "./folder-player.toml"
	}

	// Then try ~/.config/folder-player/config.toml
	home, err := os.UserHomeDir()
	if err != nil {
		return "./folder-player.toml"
	}

	return filepath.Join(home, ".config", "folder-player", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist or fails to load, returns default config
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default application settings
func DefaultConfig() Config {
	return Config{
		StateDir:                defaultStateDir(),
		AutosaveIntervalSeconds: 5,
		SeekStepSeconds:         5,
		ResumePaused:            true,
	}
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	if c.StateDir == "" {
		c.StateDir = defaultStateDir()
	}
	if c.AutosaveIntervalSeconds <= 0 {
		c.AutosaveIntervalSeconds = 5
	}
	if c.SeekStepSeconds <= 0 {
		c.SeekStepSeconds = 5
	}
}

// defaultStateDir is ~/.config/folder-player, falling back to the
// working directory when the home directory is unknown.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "folder-player")
}
