package ports

import (
	"context"

	"ros-specgen/internal/types"
)

// DescriptorWriterPort persists rendered artifacts for one component.
type DescriptorWriterPort interface {
	// PackageDir returns the directory artifacts for pkg are written to.
	PackageDir(pkg string) string
	WriteFile(pkg string, filename string, content []byte) error
}

// BundlePort packs a checkout into a source tarball.
type BundlePort interface {
	Bundle(ctx context.Context, component types.ComponentModel, destination string) (string, error)
}
