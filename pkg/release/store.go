package release

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arc-language/relpkg/pkg/core"
)

const recordExt = ".yaml"

// Store persists one release record per installed package.
type Store struct {
	dir string
}

// NewStore creates a Store keeping records under dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) recordPath(name string) string {
	return filepath.Join(s.dir, name+recordExt)
}

// Has reports whether a record exists for name
func (s *Store) Has(name string) (bool, error) {
	if !core.ValidName(name) {
		return false, nil
	}
	_, err := os.Stat(s.recordPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking release record: %w", err)
}

// Load reads the record of name, wrapping core.ErrReleaseNotFound when absent.
func (s *Store) Load(name string) (*core.Release, error) {
	if !core.ValidName(name) {
		return nil, fmt.Errorf("%q: %w", name, core.ErrReleaseNotFound)
	}
	data, err := os.ReadFile(s.recordPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", name, core.ErrReleaseNotFound)
		}
		return nil, fmt.Errorf("failed to read release record: %w", err)
	}

	var rel core.Release
	if err := yaml.Unmarshal(data, &rel); err != nil {
		return nil, fmt.Errorf("failed to parse release record %s: %w", name, err)
	}
	return &rel, nil
}

// Save atomically writes the record of rel.Package.
func (s *Store) Save(rel *core.Release) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create release directory: %w", err)
	}

	if !core.ValidName(rel.Package) {
		return fmt.Errorf("release record for %q: %w", rel.Package, core.ErrInvalidPackage)
	}

	data, err := yaml.Marshal(rel)
	if err != nil {
		return fmt.Errorf("failed to marshal release: %w", err)
	}

	path := s.recordPath(rel.Package)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write release record: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename release record: %w", err)
	}

	return nil
}

// Delete removes the record of name.
func (s *Store) Delete(name string) error {
	if !core.ValidName(name) {
		return fmt.Errorf("%q: %w", name, core.ErrReleaseNotFound)
	}
	err := os.Remove(s.recordPath(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove release record: %w", err)
	}
	return nil
}

// List returns every stored release sorted by package name.
func (s *Store) List() ([]*core.Release, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list release records: %w", err)
	}

	var releases []*core.Release
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		rel, err := s.Load(strings.TrimSuffix(e.Name(), recordExt))
		if err != nil {
			return nil, err
		}
		releases = append(releases, rel)
	}

	sort.Slice(releases, func(i, j int) bool { return releases[i].Package < releases[j].Package })
	return releases, nil
}
