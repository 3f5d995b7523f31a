package core

import (
	"context"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-specgen/internal/shared"
	"ros-specgen/internal/types"
)

// DependencyStore holds the build and run dependencies of one
// component, keyed by declared name.
type DependencyStore struct {
	owner  string
	prefix string
	build  map[string]*types.Dependency
	run    map[string]*types.Dependency
}

// Classify builds a store from the three manifest dependency lists.
// Buildtool and build names collapse into one build set.
func Classify(buildtool []string, build []string, run []string) *DependencyStore {
	store := &DependencyStore{
		prefix: shared.PackagePrefix,
		build:  map[string]*types.Dependency{},
		run:    map[string]*types.Dependency{},
	}
	for _, name := range append(append([]string(nil), build...), buildtool...) {
		store.add(store.build, name)
	}
	for _, name := range run {
		store.add(store.run, name)
	}
	return store
}

// WithPrefix sets the namespace prefix used for locally provided
// dependencies.
func (s *DependencyStore) WithPrefix(prefix string) *DependencyStore {
	s.prefix = prefix
	return s
}

func (s *DependencyStore) add(set map[string]*types.Dependency, name string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	if _, ok := set[trimmed]; ok {
		return
	}
	set[trimmed] = &types.Dependency{Name: trimmed, State: types.DependencyUnresolved}
}

// WithOwner records the component the store belongs to, for
// diagnostics.
func (s *DependencyStore) WithOwner(owner string) *DependencyStore {
	s.owner = owner
	return s
}

// Mark flags name as provided by the workspace in both sets.
func (s *DependencyStore) Mark(name string) {
	trimmed := strings.TrimSpace(name)
	if dep, ok := s.build[trimmed]; ok {
		dep.State = types.DependencyLocallyProvided
	}
	if dep, ok := s.run[trimmed]; ok {
		dep.State = types.DependencyLocallyProvided
	}
}

// Dependencies returns the entries of one class sorted by name.
func (s *DependencyStore) Dependencies(class types.DependencyClass) []types.Dependency {
	set := s.set(class)
	deps := make([]types.Dependency, 0, len(set))
	for _, dep := range set {
		deps = append(deps, *dep)
	}
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].Name < deps[j].Name
	})
	return deps
}

// ResolvedBuildNames returns the platform package names of all build
// dependencies, sorted.
func (s *DependencyStore) ResolvedBuildNames(ctx context.Context, cache *ResolverCache) ([]string, error) {
	return s.resolvedNames(ctx, types.DependencyClassBuild, cache)
}

// ResolvedRunNames returns the platform package names of all run
// dependencies, sorted.
func (s *DependencyStore) ResolvedRunNames(ctx context.Context, cache *ResolverCache) ([]string, error) {
	return s.resolvedNames(ctx, types.DependencyClassRun, cache)
}

func (s *DependencyStore) resolvedNames(ctx context.Context, class types.DependencyClass, cache *ResolverCache) ([]string, error) {
	var names []string
	for _, dep := range s.Dependencies(class) {
		if dep.State == types.DependencyLocallyProvided {
			names = append(names, s.prefix+dep.Name)
			continue
		}
		resolved, err := cache.Resolve(ctx, dep.Name)
		if err != nil {
			if errbuilder.CodeOf(err) == errbuilder.CodeFailedPrecondition {
				return nil, shared.RequiredByError(dep.Name, s.owner, err)
			}
			return nil, err
		}
		names = append(names, resolved)
	}
	sort.Strings(names)
	return names, nil
}

func (s *DependencyStore) set(class types.DependencyClass) map[string]*types.Dependency {
	if class == types.DependencyClassRun {
		return s.run
	}
	return s.build
}
