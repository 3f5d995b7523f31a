package types

// BuildLayoutName selects the recipe body template.
type BuildLayoutName string

const (
	BuildLayoutCatkinMake         BuildLayoutName = "catkin_make"
	BuildLayoutCatkinMakeIsolated BuildLayoutName = "catkin_make_isolated"
	BuildLayoutLegacy             BuildLayoutName = "legacy"
)

// BuildLayout captures the differences between platform release eras
// that affect the %build and %install sections.
type BuildLayout struct {
	Name BuildLayoutName
	// Isolated installs each package into its own devel/install space.
	Isolated bool
	// RelocatePkgConfig moves lib/pkgconfig/<name>.pc to share/pkgconfig.
	RelocatePkgConfig bool
	// MetapackageAware skips the relocation for metapackages, which do
	// not ship a .pc file. Pre-1.x catkin had no metapackages.
	MetapackageAware bool
}
