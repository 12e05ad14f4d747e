package cli

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/relpkg"
	"github.com/arc-language/relpkg/pkg/github"
)

// run executes the root command with fresh flag state
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, installPath, debug = "", "", false
	installVersion, installRefresh = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) (string, string) {
	cfg, install, _ := writeConfigFor(t, "http://127.0.0.1:1")
	return cfg, install
}

func writeConfigFor(t *testing.T, apiURL string) (string, string, string) {
	t.Helper()
	t.Setenv("RELPKG_INSTALL_PATH", "")
	dir := t.TempDir()
	install := filepath.Join(dir, "install")
	cache := filepath.Join(dir, "cache")
	require.NoError(t, os.MkdirAll(filepath.Join(cache, "packages"), 0755))

	data, err := yaml.Marshal(map[string]string{
		"install_path":   install,
		"cache_path":     cache,
		"github_api_url": apiURL,
	})
	require.NoError(t, err)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path, install, cache
}

// serveBar fakes the GitHub API for acme/bar with a single v1.0 release
func serveBar(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/bar/releases", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]github.Release{{
			TagName: "v1.0",
			Assets:  []github.Asset{{Name: "bar.tar.gz", BrowserDownloadURL: srv.URL + "/dl/bar.tar.gz"}},
		}})
	})
	mux.HandleFunc("/dl/bar.tar.gz", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		tw := tar.NewWriter(gw)
		body := []byte("#!/bin/sh\necho bar\n")
		tw.WriteHeader(&tar.Header{Name: "bar", Mode: 0755, Size: int64(len(body)), Typeflag: tar.TypeReg})
		tw.Write(body)
		tw.Close()
		gw.Close()
		w.Write(buf.Bytes())
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestInstallUnknownPackage(t *testing.T) {
	cfg, _ := writeConfig(t)

	_, err := run(t, "install", "foo", "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, "foo not found", err.Error())
}

func TestInstallPrintsProgress(t *testing.T) {
	srv := serveBar(t)
	cfg, install, cache := writeConfigFor(t, srv.URL)

	dir := filepath.Join(cache, "packages", "bar")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.toml"), []byte(`
source = "acme/bar"

[[assets]]
pattern = "bar.tar.gz"
`), 0644))

	out, err := run(t, "install", "bar", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Installing bar (latest)")
	assert.Contains(t, out, "bar (1.0) installed")
	assert.Less(t, strings.Index(out, "Installing bar (latest)"), strings.Index(out, "bar (1.0) installed"))

	_, err = os.Stat(filepath.Join(install, "releases", "bar.yaml"))
	assert.NoError(t, err)

	_, err = run(t, "install", "bar", "--config", cfg)
	assert.ErrorIs(t, err, relpkg.ErrAlreadySatisfied)
}

func TestInstallRequiresPackage(t *testing.T) {
	cfg, _ := writeConfig(t)

	_, err := run(t, "install", "--config", cfg)
	assert.Error(t, err)
}

func TestEnv(t *testing.T) {
	cfg, install := writeConfig(t)

	out, err := run(t, "env", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(install, "bin"))
	assert.Contains(t, out, "export PATH=")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "relpkg version "+version)
}
