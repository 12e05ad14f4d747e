// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrPackageNotFound indicates the package is unknown to the catalog
	ErrPackageNotFound = errors.New("package not found")

	// ErrAlreadySatisfied indicates the installed release already matches the request
	ErrAlreadySatisfied = errors.New("already installed")

	// ErrReleaseNotFound indicates there is no installed or published release
	ErrReleaseNotFound = errors.New("release not found")

	// ErrInvalidPackage indicates the package definition is invalid
	ErrInvalidPackage = errors.New("invalid package")

	// ErrHashMismatch indicates a hash verification failure
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrPlatformNotSupported indicates no release asset fits the platform
	ErrPlatformNotSupported = errors.New("platform not supported")
)

// NotFoundError names a package the catalog does not know.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrPackageNotFound
}

// AlreadySatisfiedError reports an installed release that needs no change.
// Hint is set when neither a version nor a refresh was requested.
type AlreadySatisfiedError struct {
	Release *Release
	Hint    bool
}

func (e *AlreadySatisfiedError) Error() string {
	msg := fmt.Sprintf("%s already installed", e.Release)
	if e.Hint {
		msg += ". Use '--refresh' or '--version' to update to the latest or a specific version"
	}
	return msg
}

func (e *AlreadySatisfiedError) Is(target error) bool {
	return target == ErrAlreadySatisfied
}
