package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/relpkg/pkg/core"
)

const ghIndex = `
name = "gh"
description = "GitHub on the command line"
homepage = "https://cli.github.com"
source = "cli/cli"
binaries = ["gh"]
checksum = "gh_{version}_checksums.txt"

[[assets]]
os = "linux"
arch = "amd64"
pattern = "gh_*_linux_amd64.tar.gz"

[[assets]]
os = "darwin"
pattern = "gh_*_macOS_universal.pkg"
`

func writeIndex(t *testing.T, cacheDir, name, content string) {
	t.Helper()
	dir := filepath.Join(cacheDir, "packages", name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.toml"), []byte(content), 0644))
}

func TestRegistryGet(t *testing.T) {
	cache := t.TempDir()
	writeIndex(t, cache, "gh", ghIndex)
	reg := New(cache)

	ok, err := reg.Has("gh")
	require.NoError(t, err)
	assert.True(t, ok)

	pkg, err := reg.Get("gh")
	require.NoError(t, err)
	assert.Equal(t, "gh", pkg.Name)
	assert.Equal(t, core.Source{Owner: "cli", Repo: "cli"}, pkg.Source)
	assert.Equal(t, []string{"gh"}, pkg.Binaries)
	assert.Equal(t, "gh_{version}_checksums.txt", pkg.Checksum)
	require.Len(t, pkg.Assets, 2)
	assert.Equal(t, core.AssetRule{OS: "darwin", Pattern: "gh_*_macOS_universal.pkg"}, pkg.Assets[1])
	assert.Empty(t, pkg.Version)
}

func TestRegistryGetReturnsFreshDescriptors(t *testing.T) {
	cache := t.TempDir()
	writeIndex(t, cache, "gh", ghIndex)
	reg := New(cache)

	first, err := reg.Get("gh")
	require.NoError(t, err)
	first.Version = "2.0.0"

	second, err := reg.Get("gh")
	require.NoError(t, err)
	assert.Empty(t, second.Version)
}

func TestRegistryMissing(t *testing.T) {
	reg := New(t.TempDir())

	for _, name := range []string{"nope", "../etc", "", ".."} {
		ok, err := reg.Has(name)
		require.NoError(t, err)
		assert.False(t, ok, name)

		_, err = reg.Get(name)
		assert.ErrorIs(t, err, core.ErrPackageNotFound, name)
	}

	_, err := reg.Get("nope")
	assert.EqualError(t, err, "nope not found")
}

func TestRegistryInvalidSource(t *testing.T) {
	cache := t.TempDir()
	writeIndex(t, cache, "broken", `source = "just-a-name"`)

	_, err := New(cache).Get("broken")
	assert.ErrorIs(t, err, core.ErrInvalidPackage)
}

func TestRegistryListAndSearch(t *testing.T) {
	cache := t.TempDir()
	writeIndex(t, cache, "gh", ghIndex)
	writeIndex(t, cache, "ripgrep", `
description = "Recursively search directories for a regex pattern"
source = "BurntSushi/ripgrep"
binaries = ["rg"]
`)
	writeIndex(t, cache, "broken", `source = "nope"`)
	reg := New(cache)

	pkgs, err := reg.List()
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	assert.Equal(t, "gh", pkgs[0].Name)
	assert.Equal(t, "ripgrep", pkgs[1].Name)

	found, err := reg.Search("ripgr")
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "ripgrep", found[0].Name)
}

func TestRegistryListWithoutCatalog(t *testing.T) {
	_, err := New(t.TempDir()).List()
	assert.Error(t, err)
}
