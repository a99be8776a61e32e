// Package config loads diskforge's two configuration documents: the main
// config (paths and component selection) and the definitions document
// (harvester tags, per-tag stage chains, sampler parameters). Both are YAML,
// following the convention used throughout this codebase.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Paths holds every filesystem location the run needs, per spec.md §6.
type Paths struct {
	Source         string `yaml:"source"`
	JSONFile       string `yaml:"json_file"`
	StoredContents string `yaml:"stored_contents"`
	Destination    string `yaml:"destination"`
}

// Components names the concrete Harvester and Sampler kinds to instantiate.
// diskforge ships exactly one of each (FileHarvester, DiskImageSampler);
// the field is kept so the main config document can name them explicitly, as
// spec.md §6 requires, even though only one implementation exists today.
type Components struct {
	Harvester string `yaml:"harvester"`
	Sampler   string `yaml:"sampler"`
}

// Config is the top-level "paths"/"components" document.
type Config struct {
	Paths      Paths      `yaml:"paths"`
	Components Components `yaml:"components"`

	// dir is the directory config.yaml itself lives in, used to resolve
	// relative paths.JSONFile.
	dir string
}

// Load reads and parses the main config document at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Paths.Source == "" {
		return nil, fmt.Errorf("config: paths.source is required")
	}
	if cfg.Paths.JSONFile == "" {
		return nil, fmt.Errorf("config: paths.json_file is required")
	}
	if cfg.Paths.Destination == "" {
		return nil, fmt.Errorf("config: paths.destination is required")
	}
	if cfg.Components.Harvester == "" {
		cfg.Components.Harvester = "FileHarvester"
	}
	if cfg.Components.Sampler == "" {
		cfg.Components.Sampler = "DiskImageSampler"
	}
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

// DefinitionsPath resolves paths.json_file relative to the main config
// file's own directory when it isn't already absolute.
func (c *Config) DefinitionsPath() string {
	if filepath.IsAbs(c.Paths.JSONFile) {
		return c.Paths.JSONFile
	}
	return filepath.Join(c.dir, c.Paths.JSONFile)
}
