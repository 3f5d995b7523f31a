package core

import (
	"context"
	"sync"

	"ros-specgen/internal/shared"
	"ros-specgen/internal/types"
)

type fakeResolver struct {
	packages map[string]string

	mu    sync.Mutex
	calls map[string]int
}

func newFakeResolver(packages map[string]string) *fakeResolver {
	return &fakeResolver{packages: packages, calls: map[string]int{}}
}

func (f *fakeResolver) Resolve(_ context.Context, name string) (string, error) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
	resolved, ok := f.packages[name]
	if !ok {
		return "", shared.UnresolvedDependencyError(name, nil)
	}
	return resolved, nil
}

func (f *fakeResolver) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

type fakeManifests map[string]types.Manifest

func (f fakeManifests) ReadManifest(dir string) (types.Manifest, error) {
	manifest, ok := f[dir]
	if !ok {
		return types.Manifest{}, shared.ManifestError(dir+"/package.xml", "manifest not found", nil)
	}
	return manifest, nil
}

type fakeInventory struct {
	provided  []string
	locations map[string]types.SourceLocation
}

func (f fakeInventory) ProvidedNames(context.Context, string) ([]string, error) {
	return f.provided, nil
}

func (f fakeInventory) SourceLocation(_ context.Context, _ string, name string) (types.SourceLocation, error) {
	return f.locations[name], nil
}
