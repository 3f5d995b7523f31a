package adapters

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ros-specgen/internal/types"
)

func bundleModel(dir string) types.ComponentModel {
	return types.ComponentModel{
		Name:    "foo",
		Version: "1.0.0",
		Dir:     dir,
		Source:  types.SourceLocation{Kind: types.SourceKindBundle, URI: "foo-1.0.0"},
	}
}

func readBundle(t *testing.T, path string) map[string]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	gz, err := gzip.NewReader(file)
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	entries := map[string]string{}
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[header.Name] = string(data)
	}
	return entries
}

func TestBundleArchiveAdapter(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "package.xml"), []byte("<package/>"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "src", "foo.cpp"), []byte("int main() {}\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref\n"), 0644))

	dest := t.TempDir()
	path, err := NewBundleArchiveAdapter().Bundle(context.Background(), bundleModel(src), dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "foo-1.0.0"), path)

	entries := readBundle(t, path)
	assert.Equal(t, "<package/>", entries["foo-1.0.0/package.xml"])
	assert.Equal(t, "int main() {}\n", entries["foo-1.0.0/src/foo.cpp"])
	assert.Contains(t, entries, "foo-1.0.0/src/")
	assert.NotContains(t, entries, "foo-1.0.0/.git/HEAD")
}

func TestBundleArchiveAdapterDeterministic(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "package.xml"), []byte("<package/>"), 0644))

	first, err := NewBundleArchiveAdapter().Bundle(context.Background(), bundleModel(src), t.TempDir())
	require.NoError(t, err)
	second, err := NewBundleArchiveAdapter().Bundle(context.Background(), bundleModel(src), t.TempDir())
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBundleArchiveAdapterRequiresDir(t *testing.T) {
	_, err := NewBundleArchiveAdapter().Bundle(context.Background(), bundleModel(""), t.TempDir())
	require.Error(t, err)
}

func TestBundleArchiveAdapterRemovesPartialBundle(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "package.xml"), []byte("<package/>"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dest := t.TempDir()
	_, err := NewBundleArchiveAdapter().Bundle(ctx, bundleModel(src), dest)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dest, "foo-1.0.0"))
}
