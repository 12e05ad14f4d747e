package index

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/sirupsen/logrus"
)

// Options selects the catalog repository to sync
type Options struct {
	URL    string
	Branch string
	Logger *logrus.Logger
}

// Exists reports whether a catalog has already been synced into cacheDir
func Exists(cacheDir string) bool {
	info, err := os.Stat(filepath.Join(cacheDir, "packages"))
	return err == nil && info.IsDir()
}

// Sync clones the catalog repository and replaces the cached packages/ folder
func Sync(ctx context.Context, cacheDir string, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	tempDir, err := os.MkdirTemp("", "relpkg-clone-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	logger.Infof("Updating package index from %s...", opts.URL)

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:           opts.URL,
		ReferenceName: plumbing.NewBranchReferenceName(opts.Branch),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	if err := Install(filepath.Join(tempDir, "packages"), cacheDir); err != nil {
		return err
	}

	logger.Info("Package index updated successfully.")
	return nil
}

// Install copies a packages/ tree into cacheDir, replacing the previous
// catalog only after the copy completed.
func Install(src, cacheDir string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("catalog has no packages directory: %w", err)
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	dst := filepath.Join(cacheDir, "packages")
	staging := dst + ".new"
	os.RemoveAll(staging)

	if err := copyDir(src, staging); err != nil {
		os.RemoveAll(staging)
		return fmt.Errorf("copying catalog: %w", err)
	}
	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("removing old catalog: %w", err)
	}
	return os.Rename(staging, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}
