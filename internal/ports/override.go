package ports

import "ros-specgen/internal/types"

// OverridePort loads the workspace override document.
type OverridePort interface {
	LoadOverrides(path string) (types.OverrideSet, error)
}
