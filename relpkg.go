// relpkg.go
package relpkg

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arc-language/relpkg/pkg/core"
	"github.com/arc-language/relpkg/pkg/github"
	"github.com/arc-language/relpkg/pkg/index"
	"github.com/arc-language/relpkg/pkg/install"
	"github.com/arc-language/relpkg/pkg/platform"
	"github.com/arc-language/relpkg/pkg/registry"
	"github.com/arc-language/relpkg/pkg/release"
)

// Re-export types for convenience
type (
	Config   = core.Config
	Package  = core.Package
	Release  = core.Release
	Request  = install.Request
	Outcome  = install.Outcome
	Action   = install.Action
	Platform = platform.Platform
)

// Re-export action constants
const (
	ActionInstall = install.ActionInstall
	ActionUpgrade = install.ActionUpgrade
	ActionRefresh = install.ActionRefresh
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Manager wires the package catalog, the release service and the install engine
type Manager struct {
	config   *core.Config
	catalog  *registry.Registry
	releases *release.Service
	engine   *install.Engine
	logger   *logrus.Logger
}

// Options tweaks how a Manager is built
type Options struct {
	Platform *platform.Platform // auto-detected if nil
	NoSync   bool               // do not sync a missing catalog
}

// NewManager creates a Manager. The catalog is synced first when it has
// never been fetched.
func NewManager(ctx context.Context, config *core.Config, opts *Options) (*Manager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	config.ApplyDefaults()
	if opts == nil {
		opts = &Options{}
	}

	if !opts.NoSync && !index.Exists(config.CachePath) {
		if err := index.Sync(ctx, config.CachePath, indexOptions(config)); err != nil {
			return nil, fmt.Errorf("failed to sync package index: %w", err)
		}
	}

	client := github.NewClient(github.Options{
		BaseURL: config.GitHubAPIURL,
		Token:   config.GitHubToken,
		Timeout: config.Timeout,
	})

	releases, err := release.NewService(client, release.Config{
		InstallPath: config.InstallPath,
		Platform:    opts.Platform,
		Logger:      config.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing release service: %w", err)
	}

	catalog := registry.New(config.CachePath)

	if config.Debug {
		config.Logger.Debugf("Initialized relpkg Manager")
		config.Logger.Debugf("  InstallPath: %s", config.InstallPath)
		config.Logger.Debugf("  CachePath: %s", config.CachePath)
		config.Logger.Debugf("  GitHubAPIURL: %s", config.GitHubAPIURL)
	}

	return &Manager{
		config:   config,
		catalog:  catalog,
		releases: releases,
		engine:   install.New(catalog, releases, install.WithLogger(config.Logger)),
		logger:   config.Logger,
	}, nil
}

func indexOptions(config *core.Config) index.Options {
	return index.Options{
		URL:    config.IndexURL,
		Branch: config.IndexBranch,
		Logger: config.Logger,
	}
}

// Plan decides what installing req would do without doing it
func (m *Manager) Plan(req Request) (*Outcome, error) {
	if req.Name == "" {
		return nil, &Error{Op: "install", Err: fmt.Errorf("package name is required")}
	}
	return m.engine.Plan(req)
}

// Apply carries out a planned outcome
func (m *Manager) Apply(ctx context.Context, o *Outcome) (*Outcome, error) {
	return m.engine.Apply(ctx, o)
}

// Install installs, upgrades or refreshes a package
func (m *Manager) Install(ctx context.Context, req Request) (*Outcome, error) {
	o, err := m.Plan(req)
	if err != nil {
		return nil, err
	}
	return m.Apply(ctx, o)
}

// Uninstall removes an installed package
func (m *Manager) Uninstall(ctx context.Context, name string) (*Release, error) {
	if name == "" {
		return nil, &Error{Op: "uninstall", Err: fmt.Errorf("package name is required")}
	}
	rel, err := m.releases.Remove(ctx, name)
	if err != nil {
		return nil, &Error{Op: "uninstall", Package: name, Err: err}
	}
	return rel, nil
}

// Info returns the catalog entry of a package
func (m *Manager) Info(name string) (*Package, error) {
	return m.catalog.Get(name)
}

// Search searches the catalog by name or description
func (m *Manager) Search(query string) ([]*Package, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}
	return m.catalog.Search(query)
}

// Installed lists installed releases
func (m *Manager) Installed() ([]*Release, error) {
	return m.releases.List()
}

// Current returns the installed release of a package
func (m *Manager) Current(name string) (*Release, error) {
	return m.releases.Current(&Package{Name: name})
}

// SyncIndex re-fetches the package catalog
func (m *Manager) SyncIndex(ctx context.Context) error {
	return index.Sync(ctx, m.config.CachePath, indexOptions(m.config))
}

// BinDir is the directory installed executables are linked into
func (m *Manager) BinDir() string {
	return m.releases.BinDir()
}
