// Package config loads oai-jats configuration from YAML.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Config holds the settings shared by all commands.
type Config struct {
	// BaseURL is the site root article links are built from
	BaseURL string `yaml:"base_url"`

	// RepositoryID is the namespace part of OAI identifiers
	RepositoryID string `yaml:"repository_id"`

	// HostFile is the YAML host snapshot
	HostFile string `yaml:"host_file"`

	// FilesDir is the root of stored submission files
	FilesDir string `yaml:"files_dir"`

	// SettingsFile holds per-journal plugin settings
	SettingsFile string `yaml:"settings_file"`

	// Concurrency bounds parallel record transforms in list-records
	Concurrency int `yaml:"concurrency"`
}

// configDirOverride holds a user-specified configuration directory.
// When empty, the default $HOME/.oaijats is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the oai-jats configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".oaijats"), nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("parsing embedded config: %v", err))
	}
	return &c
}

// Load returns the defaults overlaid with the file at path. An empty path
// means config.yaml in the configuration directory, which may be absent.
func Load(path string) (*Config, error) {
	c := Default()

	explicit := path != ""
	if !explicit {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration for values the commands cannot use.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url is required")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config: concurrency must be at least 1, got %d", c.Concurrency)
	}
	return nil
}
