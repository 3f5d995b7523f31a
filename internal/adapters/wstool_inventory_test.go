package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ros-specgen/internal/types"
)

func TestParseSourceLine(t *testing.T) {
	tests := []struct {
		line     string
		expected types.SourceLocation
	}{
		{line: "", expected: types.SourceLocation{}},
		{line: "https://github.com/ros/foo.git", expected: types.SourceLocation{URI: "https://github.com/ros/foo.git"}},
		{
			line:     "https://github.com/ros/foo.git,master,git",
			expected: types.SourceLocation{URI: "https://github.com/ros/foo.git", Revision: "master", SCM: "git"},
		},
		{
			line:     "https://github.com/ros/foo.git,,git",
			expected: types.SourceLocation{URI: "https://github.com/ros/foo.git", SCM: "git"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseSourceLine(tt.line))
		})
	}
}

func TestWstoolInventoryAdapter(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "calls")
	tool := writeTool(t, `
echo x >> "`+counter+`"
case "$*" in
  *"--only localname") printf 'foo\nbar\n' ;;
  *"--only cur_uri,version,scmtype foo") echo "https://github.com/ros/foo.git,master,git" ;;
  *) echo "Unknown Localname" >&2; exit 1 ;;
esac`)
	inventory, err := NewWstoolInventoryAdapter(tool, time.Second)
	require.NoError(t, err)
	root := t.TempDir()
	ctx := context.Background()

	names, err := inventory.ProvidedNames(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, names)
	_, err = inventory.ProvidedNames(ctx, root)
	require.NoError(t, err)
	calls, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(calls))

	location, err := inventory.SourceLocation(ctx, root, "foo")
	require.NoError(t, err)
	assert.Equal(t, types.SourceLocation{URI: "https://github.com/ros/foo.git", Revision: "master", SCM: "git"}, location)

	location, err = inventory.SourceLocation(ctx, root, "unknown")
	require.NoError(t, err)
	assert.Empty(t, location.URI)
}

func TestWstoolInventoryAdapterCancelled(t *testing.T) {
	inventory, err := NewWstoolInventoryAdapter(writeTool(t, "exec sleep 5"), 10*time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)
	location, err := inventory.SourceLocation(ctx, t.TempDir(), "foo")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeUnavailable, errbuilder.CodeOf(err))
	assert.Empty(t, location.URI)
}
