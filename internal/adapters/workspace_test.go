package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeComponent(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.xml"), []byte("<package/>"), 0644))
}

func TestWorkspaceAdapter_FindComponents(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, filepath.Join(root, "src", "pkg_b"))
	writeComponent(t, filepath.Join(root, "src", "pkg_a"))
	writeComponent(t, filepath.Join(root, "src", "stack", "pkg_c"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "pkg_a", "CMakeLists.txt"), []byte("cmake"), 0644))

	components, err := NewWorkspaceAdapter().FindComponents(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg_a", "pkg_b", filepath.Join("stack", "pkg_c")}, components)
}

func TestWorkspaceAdapter_SkipsBuildDirs(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"build", "build_isolated", "devel", "install", ".git"} {
		writeComponent(t, filepath.Join(root, "src", dir, "pkg"))
	}
	writeComponent(t, filepath.Join(root, "src", "real_pkg"))

	components, err := NewWorkspaceAdapter().FindComponents(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"real_pkg"}, components)
}

func TestWorkspaceAdapter_WithoutSourceSpace(t *testing.T) {
	root := t.TempDir()
	writeComponent(t, filepath.Join(root, "pkg_a"))

	assert.Equal(t, root, SourceSpace(root))
	components, err := NewWorkspaceAdapter().FindComponents(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg_a"}, components)
}

func TestWorkspaceAdapter_EmptyRootErrors(t *testing.T) {
	_, err := NewWorkspaceAdapter().FindComponents("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace root is empty")
}

func TestWorkspaceAdapter_NonExistentRootErrors(t *testing.T) {
	_, err := NewWorkspaceAdapter().FindComponents("/nonexistent/path/that/does/not/exist")
	require.Error(t, err)
}
