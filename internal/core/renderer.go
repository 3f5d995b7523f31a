package core

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-specgen/internal/shared"
	"ros-specgen/internal/types"
)

const (
	specGroup   = "Productivity/Scientific/Other"
	lintSuffix  = "-rpmlintrc"
	defaultSCM  = "git"
	manifestCmd = "rosmanifestparser"
)

var baselineBuildRequires = []string{
	"python-devel",
	"gcc-c++",
	"python-rosmanifestparser",
}

var lintDirectives = []string{
	"setBadness('devel-file-in-non-devel-package', 0)",
	"setBadness('shlib-policy-name-error', 0)",
}

// Renderer turns a component into an RPM spec, its rpmlint sidecar and
// an OBS service file.
type Renderer struct {
	Prefix string
	Layout types.BuildLayout
	Cache  *ResolverCache
}

func NewRenderer(layout types.BuildLayout, cache *ResolverCache) Renderer {
	return Renderer{Prefix: shared.PackagePrefix, Layout: layout, Cache: cache}
}

// PackageName is the platform package name of a component.
func (r Renderer) PackageName(name string) string {
	return r.Prefix + name
}

// SpecFilename is the recipe filename for a component.
func (r Renderer) SpecFilename(name string) string {
	return r.PackageName(name) + ".spec"
}

// LintFilename is the rpmlint sidecar filename for a component.
func (r Renderer) LintFilename(name string) string {
	return r.PackageName(name) + lintSuffix
}

// Render writes the spec for component. Dependency names are resolved
// before anything is written, so a resolution failure leaves w untouched.
func (r Renderer) Render(ctx context.Context, component Component, w io.Writer) error {
	model := component.Model
	assert.NotEmpty(ctx, model.Name, "component name must be set")

	buildNames, err := component.Dependencies.ResolvedBuildNames(ctx, r.Cache)
	if err != nil {
		return err
	}
	runNames, err := component.Dependencies.ResolvedRunNames(ctx, r.Cache)
	if err != nil {
		return err
	}

	pkgName := r.PackageName(model.Name)
	var buf bytes.Buffer
	buf.WriteString("%define __pkgconfig_path {\"\"}\n\n")
	fmt.Fprintf(&buf, "Name:\t\t%s\n", pkgName)
	fmt.Fprintf(&buf, "Version:\t%s\n", model.Version)
	buf.WriteString("Release:\t0\n")
	fmt.Fprintf(&buf, "License:\t%s\n", model.License)
	fmt.Fprintf(&buf, "Summary:\t%s\n", model.Summary)
	fmt.Fprintf(&buf, "Url:\t%s\n", model.URL)
	fmt.Fprintf(&buf, "Group:\t%s\n", specGroup)
	fmt.Fprintf(&buf, "Source0:\t%s\n", model.Source.URI)
	fmt.Fprintf(&buf, "Source1:\t%s\n", r.LintFilename(model.Name))
	for i, patch := range model.Patches {
		fmt.Fprintf(&buf, "Patch%d:\t%s\n", i, patch)
	}
	for _, name := range baselineBuildRequires {
		fmt.Fprintf(&buf, "BuildRequires:  %s\n", name)
	}
	for _, name := range buildNames {
		fmt.Fprintf(&buf, "BuildRequires:\t%s\n", name)
	}
	for _, name := range runNames {
		fmt.Fprintf(&buf, "Requires:\t%s\n", name)
	}
	fmt.Fprintf(&buf, "\n%%description\n%s\n", model.Description)
	r.writeBody(&buf, model)

	_, err = w.Write(buf.Bytes())
	return err
}

func (r Renderer) writeBody(buf *bytes.Buffer, model types.ComponentModel) {
	name := model.Name
	buf.WriteString("\n%prep\n")
	buf.WriteString("%setup -q -c -n workspace\n")
	fmt.Fprintf(buf, "mv * %s\n", name)
	for i := range model.Patches {
		fmt.Fprintf(buf, "%%patch%d -p0\n", i)
	}
	buf.WriteString("mkdir src\n")
	fmt.Fprintf(buf, "mv %s src\n", name)

	buf.WriteString("%build\n")
	installManifest := "build/install_manifest.txt"
	switch {
	case r.Layout.Isolated:
		buf.WriteString("CMAKE_PREFIX_PATH=/usr catkin_make_isolated -DSETUPTOOLS_DEB_LAYOUT=\"OFF\" -DCMAKE_INSTALL_PREFIX=/usr\n")
		buf.WriteString("\n%install\n")
		buf.WriteString("DESTDIR=%{?buildroot} catkin_make_isolated --install -DCMAKE_INSTALL_PREFIX=/usr\n")
		installManifest = fmt.Sprintf("build_isolated/%s/install_manifest.txt", name)
	case r.Layout.Name == types.BuildLayoutLegacy:
		buf.WriteString("CMAKE_PREFIX_PATH=/usr catkin_make -DSETUPTOOLS_ARG_EXTRA=\"\" -DCMAKE_INSTALL_PREFIX=/usr\n")
		buf.WriteString("\n%install\n")
		buf.WriteString("catkin_make install DESTDIR=%{?buildroot}\n")
	default:
		buf.WriteString("CMAKE_PREFIX_PATH=/usr catkin_make -DSETUPTOOLS_DEB_LAYOUT=\"OFF\" -DCMAKE_INSTALL_PREFIX=/usr\n")
		buf.WriteString("\n%install\n")
		buf.WriteString("catkin_make install DESTDIR=%{?buildroot}\n")
	}
	buf.WriteString("rm %{?buildroot}/usr/.catkin %{?buildroot}/usr/.rosinstall \\\n")
	buf.WriteString("   %{?buildroot}/usr/env.sh %{?buildroot}/usr/_setup_util.py \\\n")
	buf.WriteString("   %{?buildroot}/usr/setup*\n")
	if r.relocatesPkgConfig(model) {
		buf.WriteString("mkdir %{?buildroot}/usr/share/pkgconfig\n")
		fmt.Fprintf(buf, "mv %%{?buildroot}/usr/lib/pkgconfig/%s.pc %%{?buildroot}/usr/share/pkgconfig/\n", name)
		buf.WriteString("rmdir %{?buildroot}/usr/lib/pkgconfig\n")
	}
	fmt.Fprintf(buf, "%s %s %s %%{?buildroot} %s\n", manifestCmd, name, installManifest, pythonBool(model.HasInstallScript))

	buf.WriteString("\n%files -f ros_install_manifest\n")
	buf.WriteString("%defattr(-,root,root)\n")
	buf.WriteString("\n%changelog\n")
}

func (r Renderer) relocatesPkgConfig(model types.ComponentModel) bool {
	if !r.Layout.RelocatePkgConfig {
		return false
	}
	if r.Layout.MetapackageAware && model.IsMetapackage {
		return false
	}
	return true
}

// RenderLintSidecar writes the rpmlint suppressions shipped with every
// spec.
func (r Renderer) RenderLintSidecar(w io.Writer) error {
	_, err := io.WriteString(w, strings.Join(lintDirectives, "\n")+"\n")
	return err
}

// RenderService writes the OBS _service file that fetches sources on
// the build service.
func (r Renderer) RenderService(model types.ComponentModel, w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("<services>\n")
	switch model.Source.Kind {
	case types.SourceKindGeneratedMirror:
		buf.WriteString("  <service name=\"download_files\"/>\n")
	case types.SourceKindVersionControl:
		scm := strings.TrimSpace(model.Source.SCM)
		if scm == "" {
			scm = defaultSCM
		}
		uri := model.Source.CheckoutURI
		if uri == "" {
			uri = model.Source.URI
		}
		buf.WriteString("  <service name=\"tar_scm\">\n")
		writeParam(&buf, "url", uri)
		writeParam(&buf, "scm", scm)
		writeParam(&buf, "version", model.Version)
		if revision := strings.TrimSpace(model.Source.Revision); revision != "" {
			writeParam(&buf, "revision", revision)
		}
		writeParam(&buf, "filename", r.PackageName(model.Name))
		buf.WriteString("  </service>\n")
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("no service descriptor for %s source of %s", model.Source.Kind, model.Name))
	}
	buf.WriteString("</services>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func writeParam(buf *bytes.Buffer, name string, value string) {
	fmt.Fprintf(buf, "    <param name=\"%s\">", name)
	_ = xml.EscapeText(buf, []byte(value))
	buf.WriteString("</param>\n")
}

func pythonBool(value bool) string {
	if value {
		return "True"
	}
	return "False"
}
