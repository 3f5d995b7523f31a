package app

import (
	"strings"
	"time"

	"ros-specgen/internal/adapters"
	"ros-specgen/internal/ports"
)

const (
	defaultDistro      = "indigo"
	defaultToolTimeout = 60 * time.Second
)

// Config selects the external tools the service talks to.
type Config struct {
	Distro        string
	OSName        string
	WstoolCommand string
	RosdepCommand string
	OscCommand    string
	OBSAPIURL     string
	Project       string
	ToolTimeout   time.Duration
}

type Service struct {
	Distro     string
	Manifests  ports.ManifestPort
	Workspace  ports.WorkspacePort
	Inventory  ports.InventoryPort
	Resolver   ports.SystemResolverPort
	Overrides  ports.OverridePort
	Bundler    ports.BundlePort
	Repository ports.PackageRepositoryPort
	NewWriter  func(dir string) ports.DescriptorWriterPort
}

func NewService(cfg Config) (Service, error) {
	distro := strings.TrimSpace(cfg.Distro)
	if distro == "" {
		distro = defaultDistro
	}
	timeout := cfg.ToolTimeout
	if timeout <= 0 {
		timeout = defaultToolTimeout
	}
	inventory, err := adapters.NewWstoolInventoryAdapter(defaultCommand(cfg.WstoolCommand, "wstool"), timeout)
	if err != nil {
		return Service{}, err
	}
	resolver, err := adapters.NewRosdepResolverAdapter(defaultCommand(cfg.RosdepCommand, "rosdep"), distro, cfg.OSName, timeout)
	if err != nil {
		return Service{}, err
	}
	repository, err := adapters.NewOBSRepositoryAdapter(defaultCommand(cfg.OscCommand, "osc"), cfg.OBSAPIURL, cfg.Project, timeout)
	if err != nil {
		return Service{}, err
	}
	return Service{
		Distro:     distro,
		Manifests:  adapters.NewPackageXMLAdapter(),
		Workspace:  adapters.NewWorkspaceAdapter(),
		Inventory:  inventory,
		Resolver:   resolver,
		Overrides:  adapters.NewOverrideFileAdapter(),
		Bundler:    adapters.NewBundleArchiveAdapter(),
		Repository: repository,
		NewWriter: func(dir string) ports.DescriptorWriterPort {
			return adapters.NewDescriptorFileAdapter(dir)
		},
	}, nil
}

func defaultCommand(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
