// errors.go
package relpkg

import (
	"fmt"

	"github.com/arc-language/relpkg/pkg/core"
)

var (
	// ErrPackageNotFound indicates the package was not found
	ErrPackageNotFound = core.ErrPackageNotFound

	// ErrAlreadySatisfied indicates the installed release needs no change
	ErrAlreadySatisfied = core.ErrAlreadySatisfied

	// ErrReleaseNotFound indicates a release is neither installed nor published
	ErrReleaseNotFound = core.ErrReleaseNotFound

	// ErrInvalidPackage indicates the package specification is invalid
	ErrInvalidPackage = core.ErrInvalidPackage

	// ErrHashMismatch indicates a hash verification failure
	ErrHashMismatch = core.ErrHashMismatch

	// ErrPlatformNotSupported indicates the platform is not supported
	ErrPlatformNotSupported = core.ErrPlatformNotSupported
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
