package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/arc-language/relpkg/pkg/core"
)

// Release is a published GitHub release
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a downloadable file attached to a release
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	ContentType        string `json:"content_type"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Asset returns the asset called name
func (r *Release) Asset(name string) (*Asset, bool) {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i], true
		}
	}
	return nil, false
}

// AssetNames lists the release's asset names in publish order
func (r *Release) AssetNames() []string {
	names := make([]string, len(r.Assets))
	for i, a := range r.Assets {
		names[i] = a.Name
	}
	return names
}

// Releases lists the most recent releases of owner/repo, newest first
func (c *Client) Releases(ctx context.Context, owner, repo string) ([]Release, error) {
	var releases []Release
	path := fmt.Sprintf("/repos/%s/%s/releases?per_page=100", url.PathEscape(owner), url.PathEscape(repo))
	if err := c.GetJSON(ctx, path, &releases); err != nil {
		return nil, fmt.Errorf("listing releases of %s/%s: %w", owner, repo, notFound(err))
	}
	return releases, nil
}

// ReleaseByTag fetches the release tagged tag
func (c *Client) ReleaseByTag(ctx context.Context, owner, repo, tag string) (*Release, error) {
	var release Release
	path := fmt.Sprintf("/repos/%s/%s/releases/tags/%s", url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(tag))
	if err := c.GetJSON(ctx, path, &release); err != nil {
		return nil, fmt.Errorf("fetching release %s of %s/%s: %w", tag, owner, repo, notFound(err))
	}
	return &release, nil
}

// ResolveTag fetches the release for a version, trying it both as the
// literal tag and with a "v" prefix.
func (c *Client) ResolveTag(ctx context.Context, owner, repo, v string) (*Release, error) {
	release, err := c.ReleaseByTag(ctx, owner, repo, v)
	if err == nil || !errors.Is(err, core.ErrReleaseNotFound) || strings.HasPrefix(v, "v") {
		return release, err
	}
	return c.ReleaseByTag(ctx, owner, repo, "v"+v)
}

// Latest picks the highest stable release. Tags that are not versions
// rank below every versioned tag and keep GitHub's newest-first order.
func (c *Client) Latest(ctx context.Context, owner, repo string) (*Release, error) {
	releases, err := c.Releases(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	stable := make([]Release, 0, len(releases))
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		stable = append(stable, r)
	}
	if len(stable) == 0 {
		return nil, fmt.Errorf("no stable release of %s/%s: %w", owner, repo, core.ErrReleaseNotFound)
	}

	sort.SliceStable(stable, func(i, j int) bool {
		vi, erri := version.NewVersion(stable[i].TagName)
		vj, errj := version.NewVersion(stable[j].TagName)
		switch {
		case erri != nil && errj != nil:
			return false
		case erri != nil:
			return false
		case errj != nil:
			return true
		default:
			return vi.GreaterThan(vj)
		}
	})

	return &stable[0], nil
}

// TrimTag turns a release tag into the version recorded for it
func TrimTag(tag string) string {
	if len(tag) > 1 && tag[0] == 'v' && tag[1] >= '0' && tag[1] <= '9' {
		return tag[1:]
	}
	return tag
}

func notFound(err error) error {
	var status *StatusError
	if errors.As(err, &status) && status.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %v", core.ErrReleaseNotFound, err)
	}
	return err
}
