package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-specgen/internal/ports"
)

const sourceSpace = "src"

type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

// SourceSpace returns the directory components are checked out in:
// <root>/src when it exists, otherwise root itself.
func SourceSpace(root string) string {
	src := filepath.Join(root, sourceSpace)
	if info, err := os.Stat(src); err == nil && info.IsDir() {
		return src
	}
	return root
}

// FindComponents returns the paths, relative to the source space, of
// every directory holding a package.xml.
func (a WorkspaceAdapter) FindComponents(root string) ([]string, error) {
	if root == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is empty")
	}
	src := SourceSpace(root)
	var components []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && shouldSkipWorkspaceDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != manifestFilename {
			return nil
		}
		rel, err := filepath.Rel(src, filepath.Dir(path))
		if err != nil {
			return err
		}
		if rel != "." {
			components = append(components, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan workspace").
			WithCause(err)
	}
	sort.Strings(components)
	return components, nil
}

func shouldSkipWorkspaceDir(name string) bool {
	switch name {
	case "install", "build", "build_isolated", "devel", "devel_isolated", "log", ".git", ".svn", ".hg", ".ros":
		return true
	default:
		return false
	}
}

var _ ports.WorkspacePort = WorkspaceAdapter{}
