package adapters

import (
	"encoding/xml"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"ros-specgen/internal/ports"
	"ros-specgen/internal/shared"
	"ros-specgen/internal/types"
)

// DefaultOverrideFile is the override document looked up at the
// workspace root when none is given.
const DefaultOverrideFile = ".ros2spec.xml"

type OverrideFileAdapter struct{}

func NewOverrideFileAdapter() OverrideFileAdapter {
	return OverrideFileAdapter{}
}

type xmlOverrideDocument struct {
	Packages []xmlOverride `xml:",any"`
}

type xmlOverride struct {
	Name        string       `xml:"name,attr"`
	Summary     *textContent `xml:"summary"`
	Description *textContent `xml:"description"`
	Patches     []xmlPatch   `xml:"patch"`
	Ignore      *struct{}    `xml:"ignore"`
}

type xmlPatch struct {
	Name string `xml:"name,attr"`
}

// LoadOverrides parses an override document; the format follows the
// file extension. A missing file yields an empty set.
func (a OverrideFileAdapter) LoadOverrides(path string) (types.OverrideSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", path).Msg("no override document")
			return types.NewOverrideSet(nil), nil
		}
		return types.OverrideSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read override document").
			WithCause(err)
	}

	var entries map[string]types.Override
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var file types.OverrideFile
		if err := yaml.Unmarshal(content, &file); err != nil {
			return types.OverrideSet{}, overrideParseError(path, err)
		}
		entries, err = fromOverrideEntries(path, file.Packages)
	case ".toml":
		var file types.OverrideFile
		if err := toml.Unmarshal(content, &file); err != nil {
			return types.OverrideSet{}, overrideParseError(path, err)
		}
		entries, err = fromOverrideEntries(path, file.Packages)
	default:
		entries, err = parseXMLOverrides(path, content)
	}
	if err != nil {
		return types.OverrideSet{}, err
	}
	log.Debug().Str("path", path).Int("overrides", len(entries)).Msg("overrides loaded")
	return types.NewOverrideSet(entries), nil
}

func parseXMLOverrides(path string, content []byte) (map[string]types.Override, error) {
	var doc xmlOverrideDocument
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, overrideParseError(path, err)
	}
	entries := make(map[string]types.Override, len(doc.Packages))
	for _, pkg := range doc.Packages {
		name := strings.TrimSpace(pkg.Name)
		if name == "" {
			return nil, overrideMissingName(path)
		}
		override := types.Override{
			Summary:     normalizedText(pkg.Summary),
			Description: normalizedText(pkg.Description),
			Exclude:     pkg.Ignore != nil,
		}
		// Later patch declarations are applied first.
		for i := len(pkg.Patches) - 1; i >= 0; i-- {
			if patch := strings.TrimSpace(pkg.Patches[i].Name); patch != "" {
				override.Patches = append(override.Patches, patch)
			}
		}
		entries[name] = override
	}
	return entries, nil
}

func fromOverrideEntries(path string, packages []types.OverrideEntry) (map[string]types.Override, error) {
	entries := make(map[string]types.Override, len(packages))
	for _, pkg := range packages {
		name := strings.TrimSpace(pkg.Name)
		if name == "" {
			return nil, overrideMissingName(path)
		}
		override := types.Override{Exclude: pkg.Exclude}
		if pkg.Summary != nil {
			value := shared.CollapseWhitespace(*pkg.Summary)
			override.Summary = &value
		}
		if pkg.Description != nil {
			value := shared.CollapseWhitespace(*pkg.Description)
			override.Description = &value
		}
		for _, patch := range pkg.Patches {
			if trimmed := strings.TrimSpace(patch); trimmed != "" {
				override.Patches = append(override.Patches, trimmed)
			}
		}
		entries[name] = override
	}
	return entries, nil
}

func normalizedText(text *textContent) *string {
	if text == nil {
		return nil
	}
	value := shared.CollapseWhitespace(string(*text))
	return &value
}

func overrideParseError(path string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("failed to parse override document: " + path).
		WithCause(err)
}

func overrideMissingName(path string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("override entry without name in " + path)
}

var _ ports.OverridePort = OverrideFileAdapter{}
