package platform

import (
	"fmt"
	"path"
	"strings"

	"github.com/arc-language/relpkg/pkg/core"
)

var osAliases = map[string][]string{
	"linux":   {"linux"},
	"darwin":  {"darwin", "macos", "apple", "osx"},
	"windows": {"windows", "win64", "win32"},
}

var archAliases = map[string][]string{
	"amd64": {"amd64", "x86_64", "x64", "64bit"},
	"arm64": {"arm64", "aarch64"},
	"386":   {"386", "i386", "i686", "x86", "32bit"},
	"arm":   {"armv7", "armv6", "armhf"},
}

// Files published next to binaries that are never the binary itself
var sidecarSuffixes = []string{
	".sha256", ".sha256sum", ".sha512", ".md5", ".txt", ".sig", ".asc",
	".pem", ".crt", ".sbom", ".json", ".spdx", ".intoto.jsonl", ".deb", ".rpm", ".apk", ".msi",
}

// Match selects the asset for p. The first rule for p whose pattern matches an
// asset name wins; without rules for p, asset names are matched on OS and
// architecture aliases.
func Match(p *Platform, rules []core.AssetRule, version string, assets []string) (string, error) {
	var applicable []core.AssetRule
	for _, r := range rules {
		if (r.OS == "" || r.OS == p.OS) && (r.Arch == "" || r.Arch == p.Arch) {
			applicable = append(applicable, r)
		}
	}

	if len(applicable) > 0 {
		for _, r := range applicable {
			pattern := strings.ReplaceAll(r.Pattern, "{version}", version)
			for _, name := range assets {
				if ok, _ := path.Match(pattern, name); ok {
					return name, nil
				}
			}
		}
		return "", fmt.Errorf("no asset matches the rules for %s: %w", p, core.ErrPlatformNotSupported)
	}

	for _, name := range assets {
		lower := strings.ToLower(name)
		if isSidecar(lower) {
			continue
		}
		if containsAny(lower, osAliases[p.OS]) && archOf(lower) == p.Arch {
			return name, nil
		}
	}

	return "", fmt.Errorf("no asset for %s: %w", p, core.ErrPlatformNotSupported)
}
