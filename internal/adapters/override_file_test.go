package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ros-specgen/internal/types"
)

const testOverrideXML = `<?xml version="1.0"?>
<ros2spec>
  <package name="foo">
    <summary>
      Foo for   robots
    </summary>
    <description>The foo
      package.</description>
    <patch name="first.patch"/>
    <patch name="second.patch"/>
  </package>
  <package name="bar">
    <ignore/>
  </package>
</ros2spec>
`

const testOverrideYAML = `packages:
  - name: foo
    summary: Foo for robots
    description: |
      The foo
      package.
    patches:
      - second.patch
      - first.patch
  - name: bar
    exclude: true
`

const testOverrideTOML = `[[packages]]
name = "foo"
summary = "Foo for robots"
description = "The foo package."
patches = ["second.patch", "first.patch"]

[[packages]]
name = "bar"
exclude = true
`

func writeOverride(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOverridesFormats(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{name: "xml", filename: DefaultOverrideFile, content: testOverrideXML},
		{name: "yaml", filename: "overrides.yaml", content: testOverrideYAML},
		{name: "toml", filename: "overrides.toml", content: testOverrideTOML},
	}
	summary := "Foo for robots"
	description := "The foo package."
	expectedFoo := types.Override{
		Summary:     &summary,
		Description: &description,
		Patches:     []string{"second.patch", "first.patch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeOverride(t, tt.filename, tt.content)

			set, err := NewOverrideFileAdapter().LoadOverrides(path)
			require.NoError(t, err)
			assert.Equal(t, 2, set.Len())
			if diff := cmp.Diff(expectedFoo, set.Lookup("foo")); diff != "" {
				t.Fatalf("override mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, set.Lookup("bar").Exclude)
			assert.Equal(t, types.Override{}, set.Lookup("baz"))
		})
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	set, err := NewOverrideFileAdapter().LoadOverrides(filepath.Join(t.TempDir(), DefaultOverrideFile))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestLoadOverridesEmptyElements(t *testing.T) {
	path := writeOverride(t, DefaultOverrideFile, `<ros2spec><package name="foo"><summary/></package></ros2spec>`)

	set, err := NewOverrideFileAdapter().LoadOverrides(path)
	require.NoError(t, err)
	override := set.Lookup("foo")
	require.NotNil(t, override.Summary)
	assert.Equal(t, "", *override.Summary)
	assert.Nil(t, override.Description)
	assert.False(t, override.Exclude)
}

func TestLoadOverridesErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
	}{
		{name: "malformed xml", filename: DefaultOverrideFile, content: "<ros2spec><package name=\"foo\">"},
		{name: "xml without name", filename: DefaultOverrideFile, content: "<ros2spec><package><ignore/></package></ros2spec>"},
		{name: "malformed yaml", filename: "o.yaml", content: "packages: [name: foo"},
		{name: "yaml without name", filename: "o.yml", content: "packages:\n  - exclude: true\n"},
		{name: "malformed toml", filename: "o.toml", content: "[[packages]\nname = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeOverride(t, tt.filename, tt.content)
			_, err := NewOverrideFileAdapter().LoadOverrides(path)
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
		})
	}
}
