package adapters

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-specgen/internal/ports"
	"ros-specgen/internal/shared"
	"ros-specgen/internal/types"
)

const manifestFilename = "package.xml"

type PackageXMLAdapter struct {
	mu    sync.Mutex
	cache map[string]packageXMLCacheEntry
}

func NewPackageXMLAdapter() *PackageXMLAdapter {
	return &PackageXMLAdapter{cache: map[string]packageXMLCacheEntry{}}
}

type packageXML struct {
	Name        string         `xml:"name"`
	Version     string         `xml:"version"`
	URL         []string       `xml:"url"`
	License     []string       `xml:"license"`
	Description textContent    `xml:"description"`
	Export      exportSection  `xml:"export"`
	Buildtool   []simpleDepend `xml:"buildtool_depend"`
	Build       []simpleDepend `xml:"build_depend"`
	Run         []simpleDepend `xml:"run_depend"`
	Depend      []simpleDepend `xml:"depend"`
	ExecDepend  []simpleDepend `xml:"exec_depend"`
	BuildExport []simpleDepend `xml:"build_export_depend"`
}

type exportSection struct {
	Metapackage *struct{} `xml:"metapackage"`
}

type simpleDepend struct {
	Value string `xml:",chardata"`
}

// textContent collects all character data below an element, the way
// a DOM itertext() walk would.
type textContent string

func (t *textContent) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var builder strings.Builder
	depth := 1
	for depth > 0 {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := token.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			builder.Write(tok)
		}
	}
	*t = textContent(builder.String())
	return nil
}

type packageXMLCacheEntry struct {
	modTime  time.Time
	manifest types.Manifest
}

// ReadManifest parses dir/package.xml. Results are cached until the
// file changes.
func (a *PackageXMLAdapter) ReadManifest(dir string) (types.Manifest, error) {
	path := filepath.Join(dir, manifestFilename)
	info, err := os.Stat(path)
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read package.xml: " + path).
			WithCause(err)
	}
	a.mu.Lock()
	if entry, ok := a.cache[path]; ok && entry.modTime.Equal(info.ModTime()) {
		a.mu.Unlock()
		return entry.manifest, nil
	}
	a.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read package.xml: " + path).
			WithCause(err)
	}
	var pkg packageXML
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return types.Manifest{}, shared.ManifestError(path, "failed to parse package.xml", err)
	}
	manifest := toManifest(pkg)

	a.mu.Lock()
	a.cache[path] = packageXMLCacheEntry{modTime: info.ModTime(), manifest: manifest}
	a.mu.Unlock()
	return manifest, nil
}

// toManifest maps format 1 and format 2 dependency tags onto the
// buildtool/build/run lists.
func toManifest(pkg packageXML) types.Manifest {
	manifest := types.Manifest{
		Name:          strings.TrimSpace(pkg.Name),
		Version:       strings.TrimSpace(pkg.Version),
		URL:           firstValue(pkg.URL),
		License:       firstValue(pkg.License),
		Description:   string(pkg.Description),
		IsMetapackage: pkg.Export.Metapackage != nil,
	}
	manifest.BuildtoolDepends = dependValues(pkg.Buildtool)
	manifest.BuildDepends = append(dependValues(pkg.Build), dependValues(pkg.Depend)...)
	manifest.BuildDepends = append(manifest.BuildDepends, dependValues(pkg.BuildExport)...)
	manifest.RunDepends = append(dependValues(pkg.Run), dependValues(pkg.Depend)...)
	manifest.RunDepends = append(manifest.RunDepends, dependValues(pkg.ExecDepend)...)
	return manifest
}

func dependValues(deps []simpleDepend) []string {
	var values []string
	for _, dep := range deps {
		if value := strings.TrimSpace(dep.Value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

func firstValue(values []string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

var _ ports.ManifestPort = (*PackageXMLAdapter)(nil)
