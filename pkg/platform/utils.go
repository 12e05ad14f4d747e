// pkg/platform/utils.go
package platform

import (
	"sort"
	"strings"
)

// containsAny checks if s contains any of the substrings
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isSidecar(name string) bool {
	for _, suffix := range sidecarSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// archOf names the architecture whose longest alias occurs in name, so
// "x86_64" counts as amd64 even though it contains "x86".
func archOf(name string) string {
	arches := make([]string, 0, len(archAliases))
	for arch := range archAliases {
		arches = append(arches, arch)
	}
	sort.Strings(arches)

	best, bestLen := "", 0
	for _, arch := range arches {
		for _, alias := range archAliases[arch] {
			if len(alias) > bestLen && strings.Contains(name, alias) {
				best, bestLen = arch, len(alias)
			}
		}
	}
	return best
}
