// pkg/core/interface.go
package core

import "context"

// PackageLookup is the package catalog
type PackageLookup interface {
	// Has reports whether the catalog knows the package
	Has(name string) (bool, error)

	// Get returns a fresh descriptor; unknown names give a *NotFoundError
	Get(name string) (*Package, error)
}

// ReleaseLookup reads and manages installed releases
type ReleaseLookup interface {
	// Has reports whether a release is installed for the package
	Has(name string) (bool, error)

	// Current returns the installed release, wrapping ErrReleaseNotFound when absent
	Current(pkg *Package) (*Release, error)

	// Create installs pkg.Version, or the latest release when empty
	Create(ctx context.Context, pkg *Package) (*Release, error)

	// Update replaces the installed release with pkg.Version, or the latest release
	Update(ctx context.Context, pkg *Package) (*Release, error)
}
