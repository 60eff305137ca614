// Package config manages the user-wide configuration file
// (~/.config/reportchat/config.toml) for reportchat.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-wide settings.
type Config struct {
	Model           string       `toml:"model"`
	VectorStoreName string       `toml:"vector_store_name"`
	StatePath       string       `toml:"state_path"`
	Keys            KeysConfig   `toml:"keys"`
	Output          OutputConfig `toml:"output"`
	Upload          UploadConfig `toml:"upload"`
}

type KeysConfig struct {
	OpenAI string `toml:"openai"`
}

type OutputConfig struct {
	Stream bool `toml:"stream"`
	Color  bool `toml:"color"`
}

// UploadConfig tunes the collaborator calls made while ingesting.
type UploadConfig struct {
	ListLimit      int `toml:"list_limit"`
	PollIntervalMs int `toml:"poll_interval_ms"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		Model:           "gpt-4.1-mini",
		VectorStoreName: "reports_search_store",
		Output: OutputConfig{
			Stream: true,
			Color:  true,
		},
		Upload: UploadConfig{
			ListLimit:      100,
			PollIntervalMs: 1000,
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reportchat", "config.toml"), nil
}

// Load loads the config, applying defaults for any missing values.
func Load() (Config, error) {
	cfg := Default()
	var loadErr error

	// Missing file or undeterminable home dir just means defaults.
	if path, err := Path(); err == nil {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				loadErr = fmt.Errorf("config: load: %w", err)
			}
		}
	}

	// The env var wins over the config file, and applies even when no
	// config file exists yet.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}

	return cfg, loadErr
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// StateFilePath returns the session state file path, honoring an explicit
// override from the config.
func (c Config) StateFilePath() (string, error) {
	if c.StatePath != "" {
		return c.StatePath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "reportchat", "state.json"), nil
}
