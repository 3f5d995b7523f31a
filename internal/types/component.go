package types

// DependencyState tracks how a declared dependency is satisfied.
type DependencyState string

const (
	DependencyUnresolved      DependencyState = "unresolved"
	DependencyLocallyProvided DependencyState = "local"
)

// DependencyClass is the lifecycle phase a dependency is declared for.
type DependencyClass string

const (
	DependencyClassBuild DependencyClass = "build"
	DependencyClassRun   DependencyClass = "run"
)

type Dependency struct {
	Name  string
	State DependencyState
}

// SourceKind classifies where the packaged sources come from.
type SourceKind string

const (
	// SourceKindGeneratedMirror is a bloom release repository; the
	// source is a tarball derived from the release tag.
	SourceKindGeneratedMirror SourceKind = "generated-mirror"
	SourceKindVersionControl  SourceKind = "vcs"
	// SourceKindBundle means no location was known and the checkout
	// itself must be packed next to the recipe.
	SourceKindBundle SourceKind = "bundle"
)

// SourceLocation is what the workspace inventory knows about a
// checkout: its URI, the checked-out revision and the SCM kind.
type SourceLocation struct {
	Kind     SourceKind
	URI      string
	Revision string
	SCM      string
	// CheckoutURI is the raw inventory URI before any tarball
	// derivation; the remote service descriptor needs it.
	CheckoutURI string
}

// Manifest is the subset of a catkin package.xml the generator reads.
type Manifest struct {
	Name             string
	Version          string
	URL              string
	License          string
	Description      string
	BuildtoolDepends []string
	BuildDepends     []string
	RunDepends       []string
	IsMetapackage    bool
}

// ComponentModel is the resolved, render-ready view of one workspace
// component. It is built once and never mutated.
type ComponentModel struct {
	Name             string
	Version          string
	URL              string
	License          string
	Summary          string
	Description      string
	Source           SourceLocation
	Patches          []string
	Dir              string
	HasInstallScript bool
	IsMetapackage    bool
	RequiresBundling bool
}
