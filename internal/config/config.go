// Package config loads the splitlens YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the splitlens configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Detector DetectorConfig `yaml:"detector"`
}

// DatabaseConfig locates the analysis database.
type DatabaseConfig struct {
	// Dir is the project directory holding .splitlens/analysis.db.
	Dir string `yaml:"dir"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DetectorConfig tunes community detection.
type DetectorConfig struct {
	MaxPasses int `yaml:"max_passes"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Dir: "."},
		Server:   ServerConfig{Port: 8080},
		Detector: DetectorConfig{MaxPasses: 50},
	}
}

// Load reads configuration from file, falling back to defaults.
// If configPath is empty, it looks for splitlens.yaml in the current
// directory. Values present in the file replace the defaults.
func Load(configPath string) (*Config, error) {
	defaults := Default()

	if configPath == "" {
		configPath = "splitlens.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No config file, use defaults
			return defaults, nil
		}
		return nil, err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}

	defaults.Merge(&fileCfg)
	return defaults, nil
}

// LoadFromDir loads configuration from the specified directory.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, "splitlens.yaml"))
}

// Merge combines another config into this one, with other taking precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Database.Dir != "" {
		c.Database.Dir = other.Database.Dir
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Detector.MaxPasses != 0 {
		c.Detector.MaxPasses = other.Detector.MaxPasses
	}
}
