package github

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/relpkg/pkg/core"
)

func newTestServer(t *testing.T, releases []Release) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/tool/releases", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(releases)
	})
	mux.HandleFunc("/repos/acme/tool/releases/tags/", func(w http.ResponseWriter, r *http.Request) {
		tag := r.URL.Path[len("/repos/acme/tool/releases/tags/"):]
		for _, rel := range releases {
			if rel.TagName == tag {
				json.NewEncoder(w).Encode(rel)
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("/download/tool.tar.gz", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte("archive-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

var sampleReleases = []Release{
	{TagName: "v2.0.0-rc1", Prerelease: true},
	{TagName: "nightly"},
	{TagName: "v1.10.0"},
	{TagName: "v1.9.2"},
	{TagName: "v3.0.0", Draft: true},
}

func TestLatestPicksHighestStableVersion(t *testing.T) {
	srv := newTestServer(t, sampleReleases)
	c := NewClient(Options{BaseURL: srv.URL})

	rel, err := c.Latest(context.Background(), "acme", "tool")
	require.NoError(t, err)
	assert.Equal(t, "v1.10.0", rel.TagName)
}

func TestLatestWithoutStableRelease(t *testing.T) {
	srv := newTestServer(t, []Release{{TagName: "v1.0.0-beta", Prerelease: true}})
	c := NewClient(Options{BaseURL: srv.URL})

	_, err := c.Latest(context.Background(), "acme", "tool")
	assert.ErrorIs(t, err, core.ErrReleaseNotFound)
}

func TestResolveTagAddsPrefix(t *testing.T) {
	srv := newTestServer(t, sampleReleases)
	c := NewClient(Options{BaseURL: srv.URL})

	rel, err := c.ResolveTag(context.Background(), "acme", "tool", "1.9.2")
	require.NoError(t, err)
	assert.Equal(t, "v1.9.2", rel.TagName)

	rel, err = c.ResolveTag(context.Background(), "acme", "tool", "nightly")
	require.NoError(t, err)
	assert.Equal(t, "nightly", rel.TagName)

	_, err = c.ResolveTag(context.Background(), "acme", "tool", "9.9.9")
	assert.ErrorIs(t, err, core.ErrReleaseNotFound)
}

func TestClientSendsTokenToAPIOnly(t *testing.T) {
	var auth string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/tool/releases", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})
	api := httptest.NewServer(mux)
	defer api.Close()
	assets := newTestServer(t, nil)

	c := NewClient(Options{BaseURL: api.URL, Token: "secret"})
	_, err := c.Releases(context.Background(), "acme", "tool")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), assets.URL+"/download/tool.tar.gz", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len("archive-bytes")), n)
	assert.Equal(t, "archive-bytes", buf.String())
}

func TestDownloadStatusError(t *testing.T) {
	srv := newTestServer(t, nil)
	c := NewClient(Options{BaseURL: srv.URL})

	_, err := c.Download(context.Background(), srv.URL+"/missing", &bytes.Buffer{})
	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, http.StatusNotFound, status.Code)
}

func TestTrimTag(t *testing.T) {
	assert.Equal(t, "1.2.3", TrimTag("v1.2.3"))
	assert.Equal(t, "1.2.3", TrimTag("1.2.3"))
	assert.Equal(t, "vnext", TrimTag("vnext"))
	assert.Equal(t, "v", TrimTag("v"))
}

func TestReleaseAsset(t *testing.T) {
	rel := &Release{TagName: "v1.0", Assets: []Asset{{Name: "tool.tar.gz", Size: 10}}}

	a, ok := rel.Asset("tool.tar.gz")
	require.True(t, ok)
	assert.Equal(t, int64(10), a.Size)

	a, ok = rel.Asset("tool.zip")
	assert.False(t, ok)
	assert.Nil(t, a)
}
