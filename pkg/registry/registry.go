package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sahilm/fuzzy"

	"github.com/arc-language/relpkg/pkg/core"
)

// Entry represents a single packages/<name>/index.toml file
type Entry struct {
	Name        string   `toml:"name"`
	Description string   `toml:"description"`
	Homepage    string   `toml:"homepage"`
	Source      string   `toml:"source"` // owner/repo on GitHub
	Binaries    []string `toml:"binaries"`
	Checksum    string   `toml:"checksum"`
	Assets      []Asset  `toml:"assets"`
}

// Asset is one [[assets]] table of an entry
type Asset struct {
	OS      string `toml:"os"`
	Arch    string `toml:"arch"`
	Pattern string `toml:"pattern"`
}

// Registry provides lookup into the cached packages/ folder
type Registry struct {
	packagesDir string
}

// New creates a Registry pointed at the cached catalog
func New(cacheDir string) *Registry {
	return &Registry{
		packagesDir: filepath.Join(cacheDir, "packages"),
	}
}

// Has reports whether the catalog carries an index file for name
func (r *Registry) Has(name string) (bool, error) {
	if !core.ValidName(name) {
		return false, nil
	}
	_, err := os.Stat(r.indexPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("registry: %w", err)
}

// Get returns a fresh package descriptor for name
func (r *Registry) Get(name string) (*core.Package, error) {
	entry, err := r.Load(name)
	if err != nil {
		return nil, err
	}
	return entry.Package()
}

// Load reads and parses packages/<name>/index.toml.
func (r *Registry) Load(name string) (*Entry, error) {
	if !core.ValidName(name) {
		return nil, &core.NotFoundError{Name: name}
	}

	path := r.indexPath(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &core.NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("registry: reading '%s': %w", name, err)
	}

	var entry Entry
	if _, err := toml.Decode(string(data), &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", name, err)
	}
	if entry.Name == "" {
		entry.Name = name
	}

	return &entry, nil
}

// List returns every valid package of the catalog sorted by name.
// Entries that fail to parse are skipped.
func (r *Registry) List() ([]*core.Package, error) {
	entries, err := os.ReadDir(r.packagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("registry: catalog not found, run update-index first")
		}
		return nil, fmt.Errorf("registry: %w", err)
	}

	var pkgs []*core.Package
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pkg, err := r.Get(e.Name())
		if err != nil {
			continue
		}
		pkgs = append(pkgs, pkg)
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs, nil
}

// Search ranks catalog packages against query by fuzzy matching
// their name and description.
func (r *Registry) Search(query string) ([]*core.Package, error) {
	pkgs, err := r.List()
	if err != nil {
		return nil, err
	}

	targets := make([]string, len(pkgs))
	for i, p := range pkgs {
		targets[i] = p.Name + " " + p.Description
	}

	matches := fuzzy.Find(query, targets)
	results := make([]*core.Package, 0, len(matches))
	for _, m := range matches {
		results = append(results, pkgs[m.Index])
	}
	return results, nil
}

// Package converts the entry into a package descriptor
func (e *Entry) Package() (*core.Package, error) {
	owner, repo, ok := strings.Cut(e.Source, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("registry: package '%s' has source %q, want owner/repo: %w",
			e.Name, e.Source, core.ErrInvalidPackage)
	}

	pkg := &core.Package{
		Name:        e.Name,
		Description: e.Description,
		Homepage:    e.Homepage,
		Source:      core.Source{Owner: owner, Repo: repo},
		Binaries:    e.Binaries,
		Checksum:    e.Checksum,
	}
	for _, a := range e.Assets {
		pkg.Assets = append(pkg.Assets, core.AssetRule{OS: a.OS, Arch: a.Arch, Pattern: a.Pattern})
	}
	return pkg, nil
}

func (r *Registry) indexPath(name string) string {
	return filepath.Join(r.packagesDir, name, "index.toml")
}
