// Package release installs GitHub release assets and keeps the record of
// what is installed for each package.
package release

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"zombiezen.com/go/nix"

	"github.com/arc-language/relpkg/pkg/archive"
	"github.com/arc-language/relpkg/pkg/core"
	"github.com/arc-language/relpkg/pkg/github"
	"github.com/arc-language/relpkg/pkg/platform"
)

// Config configures a Service
type Config struct {
	InstallPath string
	Platform    *platform.Platform // auto-detected if nil
	Logger      *logrus.Logger
}

// Service resolves, downloads and installs releases. It implements
// core.ReleaseLookup.
type Service struct {
	client      *github.Client
	store       *Store
	platform    *platform.Platform
	installPath string
	logger      *logrus.Logger
	now         func() time.Time
}

// NewService creates a release service installing under cfg.InstallPath
func NewService(client *github.Client, cfg Config) (*Service, error) {
	if cfg.InstallPath == "" {
		return nil, fmt.Errorf("install path is required")
	}

	plat := cfg.Platform
	if plat == nil {
		detected, err := platform.Detect()
		if err != nil {
			return nil, fmt.Errorf("detecting platform: %w", err)
		}
		plat = detected
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	return &Service{
		client:      client,
		store:       NewStore(filepath.Join(cfg.InstallPath, "releases")),
		platform:    plat,
		installPath: cfg.InstallPath,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// BinDir is where executables are linked
func (s *Service) BinDir() string {
	return filepath.Join(s.installPath, "bin")
}

func (s *Service) packageDir(name string) string {
	return filepath.Join(s.installPath, "packages", name)
}

// Has reports whether a release is installed for name
func (s *Service) Has(name string) (bool, error) {
	return s.store.Has(name)
}

// Current returns the installed release of pkg
func (s *Service) Current(pkg *core.Package) (*core.Release, error) {
	return s.store.Load(pkg.Name)
}

// List returns all installed releases
func (s *Service) List() ([]*core.Release, error) {
	return s.store.List()
}

// Create installs the first release of pkg
func (s *Service) Create(ctx context.Context, pkg *core.Package) (*core.Release, error) {
	rel, err := s.install(ctx, pkg)
	if err != nil {
		return nil, err
	}

	rel.ID = ulid.Make().String()
	if err := s.store.Save(rel); err != nil {
		return nil, err
	}
	return rel, nil
}

// Update replaces the installed release of pkg. The previous version's
// files are removed once the new release is recorded.
func (s *Service) Update(ctx context.Context, pkg *core.Package) (*core.Release, error) {
	prev, err := s.store.Load(pkg.Name)
	if err != nil {
		return nil, err
	}

	rel, err := s.install(ctx, pkg)
	if err != nil {
		return nil, err
	}

	rel.ID = prev.ID
	if rel.ID == "" {
		rel.ID = ulid.Make().String()
	}
	if err := s.store.Save(rel); err != nil {
		return nil, err
	}

	for _, link := range prev.Executables {
		if !contains(rel.Executables, link) {
			removeLink(link)
		}
	}
	if prev.Path != "" && prev.Path != rel.Path {
		if err := os.RemoveAll(prev.Path); err != nil {
			s.logger.WithError(err).Warnf("failed to remove %s", prev.Path)
		}
	}
	return rel, nil
}

// Remove uninstalls the release of name: links, files and record
func (s *Service) Remove(ctx context.Context, name string) (*core.Release, error) {
	rel, err := s.store.Load(name)
	if err != nil {
		return nil, err
	}

	for _, link := range rel.Executables {
		removeLink(link)
	}
	if err := os.RemoveAll(s.packageDir(name)); err != nil {
		return nil, fmt.Errorf("removing %s: %w", name, err)
	}
	if err := s.store.Delete(name); err != nil {
		return nil, err
	}

	s.logger.WithField("package", name).Debug("release removed")
	return rel, nil
}

func (s *Service) install(ctx context.Context, pkg *core.Package) (*core.Release, error) {
	log := s.logger.WithField("package", pkg.Name)

	// 1. Resolve the release
	var (
		ghRelease *github.Release
		err       error
	)
	if pkg.Version != "" {
		ghRelease, err = s.client.ResolveTag(ctx, pkg.Source.Owner, pkg.Source.Repo, pkg.Version)
	} else {
		ghRelease, err = s.client.Latest(ctx, pkg.Source.Owner, pkg.Source.Repo)
	}
	if err != nil {
		return nil, err
	}
	version := github.TrimTag(ghRelease.TagName)
	log = log.WithField("version", version)
	log.Debugf("resolved release %s", ghRelease.TagName)

	// 2. Select the asset
	assetName, err := platform.Match(s.platform, pkg.Assets, version, ghRelease.AssetNames())
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", pkg.Name, version, err)
	}
	asset, ok := ghRelease.Asset(assetName)
	if !ok {
		return nil, fmt.Errorf("%s %s: asset %s not in release %s: %w", pkg.Name, version, assetName, ghRelease.TagName, core.ErrReleaseNotFound)
	}
	log.Debugf("selected asset %s (%s)", asset.Name, humanize.Bytes(uint64(asset.Size)))

	var checksumAsset *github.Asset
	if pkg.Checksum != "" {
		name := strings.ReplaceAll(pkg.Checksum, "{version}", version)
		a, ok := ghRelease.Asset(name)
		if !ok {
			return nil, fmt.Errorf("checksum file %s missing from release %s: %w", name, ghRelease.TagName, core.ErrHashMismatch)
		}
		checksumAsset = a
	}

	// 3. Download the asset and its checksum file
	if err := os.MkdirAll(s.installPath, 0755); err != nil {
		return nil, fmt.Errorf("creating install directory: %w", err)
	}
	workDir, err := os.MkdirTemp(s.installPath, ".download-*")
	if err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	assetPath := filepath.Join(workDir, filepath.Base(asset.Name))
	hasher := nix.NewHasher(nix.SHA256)
	var checksums bytes.Buffer

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := os.Create(assetPath)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer f.Close()

		n, err := s.client.Download(gctx, asset.BrowserDownloadURL, io.MultiWriter(f, hasher))
		if err != nil {
			return fmt.Errorf("downloading %s: %w", asset.Name, err)
		}
		log.Debugf("downloaded %s", humanize.Bytes(uint64(n)))
		return nil
	})
	if checksumAsset != nil {
		g.Go(func() error {
			if _, err := s.client.Download(gctx, checksumAsset.BrowserDownloadURL, &checksums); err != nil {
				return fmt.Errorf("downloading %s: %w", checksumAsset.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 4. Verify the digest
	digest := hasher.SumHash()
	if checksumAsset != nil {
		if err := verifyChecksum(checksums.Bytes(), asset.Name, digest); err != nil {
			return nil, err
		}
		log.Debug("checksum verified")
	}

	// 5. Extract into a staging directory, then swap it in
	finalDir := filepath.Join(s.packageDir(pkg.Name), version)
	stagingDir := finalDir + ".staging"
	os.RemoveAll(stagingDir)

	rawName := s.platform.ExecutableName(pkg.Executables()[0])
	stats, err := archive.Extract(assetPath, archive.Detect(asset.Name), stagingDir, rawName)
	if err != nil {
		os.RemoveAll(stagingDir)
		return nil, fmt.Errorf("extracting %s: %w", asset.Name, err)
	}
	log.Debugf("extracted %d files, %d directories, %d symlinks", stats.Files, stats.Dirs, stats.Symlinks)

	if err := os.RemoveAll(finalDir); err != nil {
		os.RemoveAll(stagingDir)
		return nil, fmt.Errorf("removing %s: %w", finalDir, err)
	}
	if err := os.Rename(stagingDir, finalDir); err != nil {
		os.RemoveAll(stagingDir)
		return nil, fmt.Errorf("moving release into place: %w", err)
	}

	// 6. Link executables
	links, err := s.link(pkg, finalDir)
	if err != nil {
		return nil, err
	}

	return &core.Release{
		Package:     pkg.Name,
		Version:     version,
		Tag:         ghRelease.TagName,
		Asset:       asset.Name,
		Digest:      digest.SRI(),
		InstalledAt: s.now().UTC(),
		Path:        finalDir,
		Executables: links,
	}, nil
}

// link finds each executable of pkg under dir and links it into BinDir
func (s *Service) link(pkg *core.Package, dir string) ([]string, error) {
	if err := os.MkdirAll(s.BinDir(), 0755); err != nil {
		return nil, fmt.Errorf("creating bin directory: %w", err)
	}

	var links []string
	for _, name := range pkg.Executables() {
		exe := s.platform.ExecutableName(name)
		target, err := findFile(dir, exe)
		if err != nil {
			return nil, fmt.Errorf("%s: executable %s: %w", pkg.Name, exe, err)
		}
		if err := checkInside(dir, target); err != nil {
			return nil, fmt.Errorf("%s: executable %s: %w", pkg.Name, exe, err)
		}
		if err := os.Chmod(target, 0755); err != nil {
			return nil, fmt.Errorf("making %s executable: %w", target, err)
		}

		link := filepath.Join(s.BinDir(), exe)
		removeLink(link)
		if err := os.Symlink(target, link); err != nil {
			return nil, fmt.Errorf("linking %s: %w", exe, err)
		}
		links = append(links, link)
	}
	return links, nil
}

// verifyChecksum looks up asset in a sha256sum-style listing and compares it with digest
func verifyChecksum(listing []byte, asset string, digest nix.Hash) error {
	scanner := bufio.NewScanner(bytes.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimPrefix(fields[len(fields)-1], "*")
		if filepath.Base(name) != asset {
			continue
		}

		expected, err := hex.DecodeString(fields[0])
		if err != nil || len(expected) != sha256.Size {
			return fmt.Errorf("checksum for %s is not a sha256 digest: %w", asset, core.ErrHashMismatch)
		}
		want := nix.NewHash(nix.SHA256, expected)
		if want.SRI() != digest.SRI() {
			return fmt.Errorf("%s: expected %s, got %s: %w", asset, want.SRI(), digest.SRI(), core.ErrHashMismatch)
		}
		return nil
	}
	return fmt.Errorf("no checksum listed for %s: %w", asset, core.ErrHashMismatch)
}

// findFile returns the shallowest regular file called name under dir
func findFile(dir, name string) (string, error) {
	found, depth := "", -1
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != name {
			return nil
		}
		level := strings.Count(path, string(os.PathSeparator))
		if depth < 0 || level < depth {
			found, depth = path, level
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", os.ErrNotExist
	}
	return found, nil
}

// checkInside fails when path, with symlinks resolved, is not under dir
func checkInside(dir, path string) error {
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}
	if resolved != root && !strings.HasPrefix(resolved, root+string(os.PathSeparator)) {
		return fmt.Errorf("resolves outside the release directory: %s", resolved)
	}
	return nil
}

func removeLink(path string) {
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeDir == 0 {
		os.Remove(path)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
