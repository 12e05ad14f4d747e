// Package archive unpacks downloaded release assets.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Format is the container format of an asset, derived from its name
type Format string

const (
	FormatTarGz  Format = "tar.gz"
	FormatTarXz  Format = "tar.xz"
	FormatTarZst Format = "tar.zst"
	FormatTar    Format = "tar"
	FormatZip    Format = "zip"
	FormatRaw    Format = "raw" // a bare executable
)

// Detect returns the format of an asset name
func Detect(name string) Format {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FormatTarXz
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tzst"):
		return FormatTarZst
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip
	default:
		return FormatRaw
	}
}

// Stats counts what an extraction produced
type Stats struct {
	Files    int
	Dirs     int
	Symlinks int
}

// Extract unpacks the archive at src into dest according to format.
// Raw assets are copied to dest/rawName with executable permissions.
func Extract(src string, format Format, dest, rawName string) (*Stats, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dest, err)
	}

	switch format {
	case FormatZip:
		return extractZip(src, dest)
	case FormatRaw:
		if err := copyFile(src, filepath.Join(dest, rawName), 0755); err != nil {
			return nil, err
		}
		return &Stats{Files: 1}, nil
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch format {
	case FormatTarGz:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gzr.Close()
		r = gzr
	case FormatTarXz:
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		r = xzr
	case FormatTarZst:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	case FormatTar:
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", format)
	}

	return extractTar(tar.NewReader(r), dest)
}

func extractTar(tr *tar.Reader, dest string) (*Stats, error) {
	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dest, err)
	}
	stats := &Stats{}

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}

		targetPath, ok, err := safeJoin(dest, header.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := checkParent(root, targetPath); err != nil {
			return nil, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return nil, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
			stats.Dirs++

		case tar.TypeSymlink:
			linked := filepath.Join(filepath.Dir(targetPath), header.Linkname)
			if filepath.IsAbs(header.Linkname) || !within(filepath.Clean(dest), linked) {
				return nil, fmt.Errorf("symlink %s points outside the archive: %s", header.Name, header.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return nil, fmt.Errorf("creating parent directory for symlink: %w", err)
			}
			os.Remove(targetPath)
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return nil, fmt.Errorf("creating symlink %s -> %s: %w", targetPath, header.Linkname, err)
			}
			stats.Symlinks++

		case tar.TypeReg:
			if err := writeFile(targetPath, tr, os.FileMode(header.Mode).Perm(), header.Size); err != nil {
				return nil, err
			}
			stats.Files++
		}
	}

	return stats, nil
}

func extractZip(src, dest string) (*Stats, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("opening zip: %w", err)
	}
	defer zr.Close()

	root, err := filepath.EvalSymlinks(dest)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dest, err)
	}
	stats := &Stats{}
	for _, f := range zr.File {
		targetPath, ok, err := safeJoin(dest, f.Name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := checkParent(root, targetPath); err != nil {
			return nil, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return nil, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
			stats.Dirs++
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		mode := f.Mode().Perm()
		if mode == 0 {
			mode = 0644
		}
		err = writeFile(targetPath, rc, mode, int64(f.UncompressedSize64))
		rc.Close()
		if err != nil {
			return nil, err
		}
		stats.Files++
	}

	return stats, nil
}

// safeJoin joins an archive entry name onto dest. It reports false for
// entries naming dest itself and fails for entries escaping it.
func safeJoin(dest, name string) (string, bool, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "./")
	if clean == "" || clean == "." {
		return "", false, nil
	}

	target := filepath.Join(dest, filepath.FromSlash(clean))
	if target == filepath.Clean(dest) || !within(filepath.Clean(dest), target) {
		return "", false, fmt.Errorf("archive entry %q escapes destination", name)
	}
	return target, true, nil
}

// within reports whether path is root or lies below it
func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// checkParent fails when the nearest existing parent of path resolves,
// through symlinks created by earlier entries, to a place outside root.
func checkParent(root, path string) error {
	dir := filepath.Dir(path)
	for {
		if _, err := os.Lstat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", dir, err)
	}
	if !within(root, resolved) {
		return fmt.Errorf("archive entry %s escapes destination through a symlink", path)
	}
	return nil
}

func writeFile(path string, r io.Reader, mode os.FileMode, size int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	// never write through a symlink left by an earlier entry
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("replacing symlink %s: %w", path, err)
		}
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	written, err := io.Copy(out, r)
	out.Close()
	if err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if written != size {
		return fmt.Errorf("file size mismatch for %s: expected %d, got %d", path, size, written)
	}
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	return writeFile(dst, in, mode, info.Size())
}
