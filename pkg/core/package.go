// pkg/core/package.go
package core

import (
	"fmt"
	"strings"
	"time"
)

// Source is the GitHub repository publishing a package's releases
type Source struct {
	Owner string
	Repo  string
}

func (s Source) String() string {
	return s.Owner + "/" + s.Repo
}

// AssetRule selects a release asset for one platform. Empty OS or Arch match any.
type AssetRule struct {
	OS      string // linux, darwin, windows
	Arch    string // amd64, arm64
	Pattern string // glob over asset names, {version} is expanded
}

// Package is a catalog entry plus the version requested for this invocation
type Package struct {
	Name        string
	Version     string // Requested version, empty means latest
	Description string
	Homepage    string
	Source      Source
	Assets      []AssetRule
	Binaries    []string // Executables to link, defaults to Name
	Checksum    string   // Optional checksum asset name, {version} is expanded
}

func (p *Package) String() string {
	version := p.Version
	if version == "" {
		version = "latest"
	}
	return fmt.Sprintf("%s (%s)", p.Name, version)
}

// Executables returns the binaries to link for the package
func (p *Package) Executables() []string {
	if len(p.Binaries) == 0 {
		return []string{p.Name}
	}
	return p.Binaries
}

// Release is the installed-state record of a package
type Release struct {
	ID          string    `yaml:"id"`
	Package     string    `yaml:"package"`
	Version     string    `yaml:"version"`
	Tag         string    `yaml:"tag"`
	Asset       string    `yaml:"asset"`
	Digest      string    `yaml:"digest"`
	InstalledAt time.Time `yaml:"installed_at"`
	Path        string    `yaml:"path"`
	Executables []string  `yaml:"executables"`
}

func (r *Release) String() string {
	return fmt.Sprintf("%s (%s)", r.Package, r.Version)
}

// ValidName reports whether name can be used as a single path element
// for catalog entries and release records.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
