package server

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config captures the knobs shared by the serve and index entry points.
type Config struct {
	Workspace string `yaml:"workspace"`
	LogPath   string `yaml:"log_path"`
	IndexPath string `yaml:"index_path"`
}

// DefaultConfig infers defaults from the current working directory. Errors
// from os.Getwd are ignored so callers can override manually.
func DefaultConfig() Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return Config{
		Workspace: cwd,
		LogPath:   filepath.Join(cwd, ".protolens", "protolens.log"),
		IndexPath: filepath.Join(cwd, ".protolens", "symbols.db"),
	}
}

// Normalize makes every path absolute and fills missing defaults so later
// initialization never re-checks the same invariants.
func (c *Config) Normalize() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace path required")
	}
	absWorkspace, err := filepath.Abs(c.Workspace)
	if err != nil {
		return fmt.Errorf("resolve workspace: %w", err)
	}
	c.Workspace = absWorkspace
	if c.LogPath == "" {
		c.LogPath = filepath.Join(c.Workspace, ".protolens", "protolens.log")
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(c.Workspace, c.LogPath)
	}
	if c.IndexPath == "" {
		c.IndexPath = filepath.Join(c.Workspace, ".protolens", "symbols.db")
	}
	if !filepath.IsAbs(c.IndexPath) {
		c.IndexPath = filepath.Join(c.Workspace, c.IndexPath)
	}
	return nil
}

// LoadConfig reads a YAML config file. A missing file yields the zero
// config so callers can fall back to defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig persists the config for future sessions.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		return fmt.Errorf("config path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
