package ports

import (
	"context"

	"ros-specgen/internal/types"
)

// ManifestPort parses catkin package.xml files.
type ManifestPort interface {
	// ReadManifest parses the package.xml found in dir.
	ReadManifest(dir string) (types.Manifest, error)
}

// WorkspacePort discovers components checked out in a workspace.
type WorkspacePort interface {
	// FindComponents returns component directory names under the
	// workspace source space, sorted.
	FindComponents(root string) ([]string, error)
}

// InventoryPort wraps the workspace inventory tool (wstool).
type InventoryPort interface {
	// ProvidedNames lists the local names of every checkout in the
	// workspace.
	ProvidedNames(ctx context.Context, root string) ([]string, error)

	// SourceLocation returns the checkout URI and revision of name. An
	// empty URI means the inventory does not know the component.
	SourceLocation(ctx context.Context, root string, name string) (types.SourceLocation, error)
}
