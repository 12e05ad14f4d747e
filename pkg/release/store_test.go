package release

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/relpkg/pkg/core"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "releases"))

	ok, err := s.Has("gh")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Load("gh")
	assert.ErrorIs(t, err, core.ErrReleaseNotFound)

	rel := &core.Release{
		ID:          "01HZX",
		Package:     "gh",
		Version:     "2.40.0",
		Tag:         "v2.40.0",
		InstalledAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Executables: []string{"/opt/bin/gh"},
	}
	require.NoError(t, s.Save(rel))

	ok, err = s.Has("gh")
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := s.Load("gh")
	require.NoError(t, err)
	assert.Equal(t, rel, loaded)

	_, err = os.Stat(filepath.Join(s.dir, "gh.yaml.tmp"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Delete("gh"))
	require.NoError(t, s.Delete("gh"))
	ok, err = s.Has("gh")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreList(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "releases"))

	releases, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, releases)

	require.NoError(t, s.Save(&core.Release{Package: "rg", Version: "14.1.0"}))
	require.NoError(t, s.Save(&core.Release{Package: "gh", Version: "2.40.0"}))

	releases, err = s.List()
	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, "gh", releases[0].Package)
	assert.Equal(t, "rg", releases[1].Package)
}

func TestStoreRejectsPathNames(t *testing.T) {
	base := t.TempDir()
	s := NewStore(filepath.Join(base, "releases"))
	require.NoError(t, os.WriteFile(filepath.Join(base, "outside.yaml"), []byte("package: outside\n"), 0644))

	ok, err := s.Has("../outside")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Load("../outside")
	assert.ErrorIs(t, err, core.ErrReleaseNotFound)

	assert.ErrorIs(t, s.Delete("../outside"), core.ErrReleaseNotFound)
	_, err = os.Stat(filepath.Join(base, "outside.yaml"))
	assert.NoError(t, err)

	assert.ErrorIs(t, s.Save(&core.Release{Package: "../outside"}), core.ErrInvalidPackage)
}
