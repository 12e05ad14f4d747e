// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultGitHubAPIURL is the GitHub REST API endpoint
	DefaultGitHubAPIURL = "https://api.github.com"

	// DefaultIndexURL is the repository holding the package catalog
	DefaultIndexURL = "https://github.com/arc-language/relpkg-index"

	// DefaultIndexBranch is the catalog branch that gets synced
	DefaultIndexBranch = "main"

	// DefaultTimeout bounds a single network operation
	DefaultTimeout = 2 * time.Minute
)

// Config holds relpkg configuration
type Config struct {
	InstallPath  string        `yaml:"install_path"`
	CachePath    string        `yaml:"cache_path"`
	GitHubToken  string        `yaml:"github_token"`
	GitHubAPIURL string        `yaml:"github_api_url"`
	IndexURL     string        `yaml:"index_url"`
	IndexBranch  string        `yaml:"index_branch"`
	Timeout      time.Duration `yaml:"timeout"`
	Debug        bool          `yaml:"debug"`

	// Logger for custom logging, built from Debug when nil
	Logger *logrus.Logger `yaml:"-"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field. Environment variables win over
// built-in defaults but not over values already present in the config.
func (c *Config) ApplyDefaults() {
	if c.InstallPath == "" {
		c.InstallPath = getDefaultInstallPath()
	}
	if c.CachePath == "" {
		c.CachePath = getDefaultCachePath()
	}
	if c.GitHubToken == "" {
		c.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	if c.GitHubAPIURL == "" {
		c.GitHubAPIURL = DefaultGitHubAPIURL
	}
	if c.IndexURL == "" {
		c.IndexURL = DefaultIndexURL
	}
	if c.IndexBranch == "" {
		c.IndexBranch = DefaultIndexBranch
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = NewLogger(c.Debug)
	}
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfigPath returns $HOME/.config/relpkg/config.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "relpkg", "config.yaml")
	}
	return filepath.Join(home, ".config", "relpkg", "config.yaml")
}

func getDefaultInstallPath() string {
	if path := os.Getenv("RELPKG_INSTALL_PATH"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "relpkg")
	}

	return filepath.Join(home, ".relpkg")
}

func getDefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "relpkg-cache")
	}
	return filepath.Join(home, ".cache", "relpkg")
}
