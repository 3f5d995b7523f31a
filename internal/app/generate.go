package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"ros-specgen/internal/adapters"
	"ros-specgen/internal/core"
	"ros-specgen/internal/ports"
	"ros-specgen/internal/shared"
	"ros-specgen/internal/types"
)

const serviceFilename = "_service"

// Generate converts every selected workspace component into a spec,
// its rpmlint sidecar and, in remote mode, a build service descriptor.
// The run stops at the first fatal error; files already written stay.
func (s Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	workspace := strings.TrimSpace(req.Workspace)
	destination := strings.TrimSpace(req.Destination)
	if workspace == "" {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace is required")
	}
	if destination == "" {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("destination is required")
	}
	if info, err := os.Stat(workspace); err != nil || !info.IsDir() {
		return GenerateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("workspace not found: " + workspace)
	}

	layout, err := s.layout(req.Layout)
	if err != nil {
		return GenerateResult{}, err
	}
	overridesPath := strings.TrimSpace(req.OverridesPath)
	if overridesPath == "" {
		overridesPath = filepath.Join(workspace, adapters.DefaultOverrideFile)
	}
	overrides, err := s.Overrides.LoadOverrides(overridesPath)
	if err != nil {
		return GenerateResult{}, err
	}

	dirs, err := s.componentDirs(workspace)
	if err != nil {
		return GenerateResult{}, err
	}
	names := make([]string, 0, len(dirs))
	for name := range dirs {
		names = append(names, name)
	}
	sort.Strings(names)
	selected, err := core.BatchFilter{
		ResumeAt: req.ResumeAt,
		Skip:     req.Skip,
		Only:     req.Packages,
	}.Apply(names)
	if err != nil {
		return GenerateResult{}, err
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		prefix = shared.PackagePrefix
	}
	cache := core.NewResolverCache(s.Resolver)
	builder := core.NewComponentBuilder(s.Manifests, s.Inventory, s.Distro)
	builder.Prefix = prefix
	renderer := core.NewRenderer(layout, cache)
	renderer.Prefix = prefix

	run := &generateRun{
		service:   s,
		req:       req,
		workspace: workspace,
		overrides: overrides,
		builder:   builder,
		renderer:  renderer,
		writer:    s.NewWriter(destination),
	}
	if req.Remote {
		existing, err := s.Repository.List(ctx)
		if err != nil {
			return GenerateResult{}, err
		}
		run.existing = make(map[string]struct{}, len(existing))
		for _, pkg := range existing {
			run.existing[pkg] = struct{}{}
		}
	}

	log.Ctx(ctx).Info().
		Int("components", len(selected)).
		Str("layout", string(layout.Name)).
		Str("distro", s.Distro).
		Bool("remote", req.Remote).
		Msg("generating specs")

	if err := run.all(ctx, selected, dirs); err != nil {
		return GenerateResult{}, err
	}
	result := run.result
	result.Lookups = cache.Lookups()
	sort.Strings(result.Generated)
	sort.Strings(result.Bundled)
	sort.Strings(result.Excluded)
	sort.Strings(result.Committed)
	return result, nil
}

func (s Service) layout(name string) (types.BuildLayout, error) {
	if strings.TrimSpace(name) != "" {
		return core.LayoutByName(name)
	}
	return core.LayoutForDistro(s.Distro), nil
}

// componentDirs maps component names, the base name of each checkout,
// to their absolute directories.
func (s Service) componentDirs(workspace string) (map[string]string, error) {
	rels, err := s.Workspace.FindComponents(workspace)
	if err != nil {
		return nil, err
	}
	src := adapters.SourceSpace(workspace)
	dirs := make(map[string]string, len(rels))
	for _, rel := range rels {
		name := filepath.Base(rel)
		if existing, ok := dirs[name]; ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("component %s found in both %s and %s", name, existing, filepath.Join(src, rel)))
		}
		dirs[name] = filepath.Join(src, rel)
	}
	return dirs, nil
}

type generateRun struct {
	service   Service
	req       GenerateRequest
	workspace string
	overrides types.OverrideSet
	builder   core.ComponentBuilder
	renderer  core.Renderer
	writer    ports.DescriptorWriterPort
	existing  map[string]struct{}

	mu     sync.Mutex
	result GenerateResult
}

func (r *generateRun) all(ctx context.Context, names []string, dirs map[string]string) error {
	if r.req.Jobs <= 1 {
		for _, name := range names {
			if err := r.one(ctx, name, dirs[name]); err != nil {
				return err
			}
		}
		return nil
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.req.Jobs)
	for _, name := range names {
		dir := dirs[name]
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return r.one(groupCtx, name, dir)
		})
	}
	return group.Wait()
}

func (r *generateRun) one(ctx context.Context, name string, dir string) error {
	logger := log.Ctx(ctx).With().Str("component", name).Logger()
	ctx = logger.WithContext(ctx)

	override := r.overrides.Lookup(name)
	if override.Exclude {
		logger.Info().Msg("component excluded by override")
		r.record(func(res *GenerateResult) { res.Excluded = append(res.Excluded, name) })
		return nil
	}

	component, err := r.builder.Build(ctx, dir, r.workspace, override)
	if err != nil {
		return shared.ComponentError(name, err)
	}
	model := component.Model
	pkg := r.renderer.PackageName(model.Name)

	var spec bytes.Buffer
	if err := r.renderer.Render(ctx, component, &spec); err != nil {
		return err
	}
	var lint bytes.Buffer
	if err := r.renderer.RenderLintSidecar(&lint); err != nil {
		return err
	}

	if r.req.Remote {
		if err := r.checkout(ctx, pkg, model); err != nil {
			return err
		}
	}
	if err := r.writer.WriteFile(pkg, r.renderer.SpecFilename(model.Name), spec.Bytes()); err != nil {
		return err
	}
	if err := r.writer.WriteFile(pkg, r.renderer.LintFilename(model.Name), lint.Bytes()); err != nil {
		return err
	}
	if model.RequiresBundling {
		if _, err := r.service.Bundler.Bundle(ctx, model, r.writer.PackageDir(pkg)); err != nil {
			return err
		}
		r.record(func(res *GenerateResult) { res.Bundled = append(res.Bundled, name) })
	} else if r.req.Remote {
		var service bytes.Buffer
		if err := r.renderer.RenderService(model, &service); err != nil {
			return err
		}
		if err := r.writer.WriteFile(pkg, serviceFilename, service.Bytes()); err != nil {
			return err
		}
	}
	r.record(func(res *GenerateResult) { res.Generated = append(res.Generated, name) })
	logger.Info().Str("package", pkg).Str("source", string(model.Source.Kind)).Msg("spec generated")

	if !r.req.Remote {
		return nil
	}
	message := fmt.Sprintf("Update %s to %s", pkg, model.Version)
	if err := r.service.Repository.Commit(ctx, r.writer.PackageDir(pkg), message); err != nil {
		return err
	}
	r.record(func(res *GenerateResult) { res.Committed = append(res.Committed, name) })
	return nil
}

// checkout creates pkg on the build service when it is new and checks
// it out into the package directory.
func (r *generateRun) checkout(ctx context.Context, pkg string, model types.ComponentModel) error {
	if _, ok := r.existing[pkg]; !ok {
		log.Ctx(ctx).Info().Str("package", pkg).Msg("creating build service package")
		if err := r.service.Repository.Create(ctx, pkg, model.Summary, model.Description); err != nil {
			return err
		}
	}
	return r.service.Repository.Checkout(ctx, pkg, r.writer.PackageDir(pkg))
}

func (r *generateRun) record(update func(*GenerateResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	update(&r.result)
}
