package core

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-specgen/internal/types"
)

var buildLayouts = map[types.BuildLayoutName]types.BuildLayout{
	types.BuildLayoutCatkinMake: {
		Name:              types.BuildLayoutCatkinMake,
		RelocatePkgConfig: true,
		MetapackageAware:  true,
	},
	types.BuildLayoutCatkinMakeIsolated: {
		Name:              types.BuildLayoutCatkinMakeIsolated,
		Isolated:          true,
		RelocatePkgConfig: true,
		MetapackageAware:  true,
	},
	types.BuildLayoutLegacy: {
		Name:              types.BuildLayoutLegacy,
		RelocatePkgConfig: true,
	},
}

var distroLayouts = map[string]types.BuildLayoutName{
	"groovy":  types.BuildLayoutLegacy,
	"hydro":   types.BuildLayoutCatkinMake,
	"indigo":  types.BuildLayoutCatkinMake,
	"jade":    types.BuildLayoutCatkinMakeIsolated,
	"kinetic": types.BuildLayoutCatkinMakeIsolated,
	"lunar":   types.BuildLayoutCatkinMakeIsolated,
	"melodic": types.BuildLayoutCatkinMakeIsolated,
}

// LayoutByName returns a known build layout.
func LayoutByName(name string) (types.BuildLayout, error) {
	layout, ok := buildLayouts[types.BuildLayoutName(strings.TrimSpace(name))]
	if !ok {
		return types.BuildLayout{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unknown build layout: " + name)
	}
	return layout, nil
}

// LayoutForDistro picks the layout a ROS distribution was packaged
// with. Unknown distributions get catkin_make.
func LayoutForDistro(distro string) types.BuildLayout {
	name, ok := distroLayouts[strings.ToLower(strings.TrimSpace(distro))]
	if !ok {
		name = types.BuildLayoutCatkinMake
	}
	return buildLayouts[name]
}
