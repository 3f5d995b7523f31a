package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	debversion "github.com/knqyf263/go-deb-version"
	"github.com/rs/zerolog/log"

	"ros-specgen/internal/ports"
	"ros-specgen/internal/shared"
	"ros-specgen/internal/types"
)

// installScriptMarker is the file whose presence means the component
// installs Python modules through setuptools.
const installScriptMarker = "setup.py"

// releaseRepoPattern matches bloom release repositories on GitHub.
var releaseRepoPattern = regexp.MustCompile(`^(?:https?://|git@)github\.com[:/]([^/]+)/([^/]+?-release)(?:\.git)?/?$`)

// Component couples the immutable model with its dependency store.
type Component struct {
	Model        types.ComponentModel
	Dependencies *DependencyStore
}

type ComponentBuilder struct {
	Manifests ports.ManifestPort
	Inventory ports.InventoryPort
	Distro    string
	Prefix    string
}

func NewComponentBuilder(manifests ports.ManifestPort, inventory ports.InventoryPort, distro string) ComponentBuilder {
	return ComponentBuilder{
		Manifests: manifests,
		Inventory: inventory,
		Distro:    distro,
		Prefix:    shared.PackagePrefix,
	}
}

// Build reads the manifest in dir and resolves everything the renderer
// needs except external dependency names.
func (b ComponentBuilder) Build(ctx context.Context, dir string, workspaceRoot string, override types.Override) (Component, error) {
	manifest, err := b.Manifests.ReadManifest(dir)
	if err != nil {
		return Component{}, err
	}
	if err := validateManifest(dir, manifest); err != nil {
		return Component{}, err
	}

	description := shared.UpperFirst(shared.CollapseWhitespace(manifest.Description))
	if override.Description != nil {
		description = *override.Description
	}
	summary := shared.FirstSentence(description)
	if override.Summary != nil {
		summary = *override.Summary
	}

	location, err := b.Inventory.SourceLocation(ctx, workspaceRoot, manifest.Name)
	if err != nil {
		return Component{}, err
	}
	source := b.classifySource(manifest, location)
	if source.Kind == types.SourceKindBundle {
		log.Ctx(ctx).Warn().
			Str("component", manifest.Name).
			Str("bundle", source.URI).
			Msg("source location unknown, bundling checkout")
	}

	model := types.ComponentModel{
		Name:             manifest.Name,
		Version:          manifest.Version,
		URL:              manifest.URL,
		License:          manifest.License,
		Summary:          summary,
		Description:      description,
		Source:           source,
		Patches:          append([]string(nil), override.Patches...),
		Dir:              dir,
		HasInstallScript: fileExists(filepath.Join(dir, installScriptMarker)),
		IsMetapackage:    manifest.IsMetapackage,
		RequiresBundling: source.Kind == types.SourceKindBundle,
	}
	assert.NotEmpty(ctx, model.Source.URI, "component source must be set")

	prefix := b.Prefix
	if prefix == "" {
		prefix = shared.PackagePrefix
	}
	deps := Classify(manifest.BuildtoolDepends, manifest.BuildDepends, manifest.RunDepends).
		WithPrefix(prefix).
		WithOwner(manifest.Name)
	provided, err := b.Inventory.ProvidedNames(ctx, workspaceRoot)
	if err != nil {
		return Component{}, err
	}
	for _, name := range provided {
		deps.Mark(name)
	}

	log.Ctx(ctx).Debug().
		Str("component", model.Name).
		Str("source", string(source.Kind)).
		Bool("metapackage", model.IsMetapackage).
		Msg("component model built")
	return Component{Model: model, Dependencies: deps}, nil
}

func (b ComponentBuilder) classifySource(manifest types.Manifest, location types.SourceLocation) types.SourceLocation {
	uri := strings.TrimSpace(location.URI)
	if uri == "" {
		return types.SourceLocation{
			Kind: types.SourceKindBundle,
			URI:  BundleFilename(manifest.Name, manifest.Version),
		}
	}
	location.CheckoutURI = uri
	if match := releaseRepoPattern.FindStringSubmatch(uri); match != nil {
		ref := strings.TrimSpace(location.Revision)
		if ref == "" {
			ref = fmt.Sprintf("release/%s/%s/%s-0", b.Distro, manifest.Name, manifest.Version)
		}
		location.Kind = types.SourceKindGeneratedMirror
		location.URI = fmt.Sprintf("https://github.com/%s/%s/archive/%s.tar.gz", match[1], match[2], ref)
		return location
	}
	location.Kind = types.SourceKindVersionControl
	location.URI = uri
	return location
}

// BundleFilename is the deterministic name of a packed checkout.
func BundleFilename(name string, version string) string {
	return name + "-" + version
}

func validateManifest(dir string, manifest types.Manifest) error {
	path := filepath.Join(dir, "package.xml")
	if strings.TrimSpace(manifest.Name) == "" {
		return shared.ManifestError(path, "manifest is missing name", nil)
	}
	if strings.TrimSpace(manifest.Version) == "" {
		return shared.ManifestError(path, "manifest is missing version", nil)
	}
	if strings.TrimSpace(manifest.License) == "" {
		return shared.ManifestError(path, "manifest is missing license", nil)
	}
	if _, err := debversion.NewVersion(manifest.Version); err != nil {
		return shared.ManifestError(path, "manifest version is invalid", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
