// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"

	"github.com/arc-language/relpkg/pkg/core"
)

// Platform represents the detected system platform
type Platform struct {
	OS   string // linux, darwin, windows
	Arch string // amd64, arm64, 386, arm
}

// Detect detects the current platform
func Detect() (*Platform, error) {
	p := &Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	switch p.OS {
	case "linux", "darwin", "windows":
	default:
		return nil, fmt.Errorf("operating system %s: %w", p.OS, core.ErrPlatformNotSupported)
	}

	return p, nil
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// ExecutableName returns the file name of an executable on this platform
func (p *Platform) ExecutableName(name string) string {
	if p.OS == "windows" {
		return name + ".exe"
	}
	return name
}
