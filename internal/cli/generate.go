package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ros-specgen/internal/app"
)

type generateOptions struct {
	Packages      []string
	Skip          []string
	ResumeAt      string
	Local         bool
	Remote        bool
	Distro        string
	OSName        string
	Overrides     string
	Layout        string
	Project       string
	OBSAPIURL     string
	Jobs          int
	ToolTimeout   time.Duration
	Prefix        string
	WstoolCommand string
	RosdepCommand string
	OscCommand    string
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <workspace> <destination>",
		Short: "Generate spec files for the packages of a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Packages, "packages", nil, "Only generate these packages")
	cmd.Flags().StringSliceVar(&opts.Skip, "skip", nil, "Packages to skip")
	cmd.Flags().StringVar(&opts.ResumeAt, "resume-at", "", "Resume at this package")
	cmd.Flags().BoolVar(&opts.Local, "local", true, "Write specs to the destination only")
	cmd.Flags().BoolVar(&opts.Remote, "remote", false, "Commit specs to the build service project")
	cmd.Flags().StringVar(&opts.Distro, "distro", "indigo", "ROS distribution")
	cmd.Flags().StringVar(&opts.OSName, "os", "", "Resolver target os (name:version)")
	cmd.Flags().StringVar(&opts.Overrides, "overrides", "", "Override document (default <workspace>/.ros2spec.xml)")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "Build layout (catkin_make, catkin_make_isolated, legacy)")
	cmd.Flags().StringVar(&opts.Project, "project", "", "Build service project")
	cmd.Flags().StringVar(&opts.OBSAPIURL, "obs-api", "", "Build service API URL")
	cmd.Flags().IntVar(&opts.Jobs, "jobs", 1, "Packages generated in parallel")
	cmd.Flags().DurationVar(&opts.ToolTimeout, "tool-timeout", 60*time.Second, "Timeout for each external tool call")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "ros-", "Package name prefix")
	cmd.Flags().StringVar(&opts.WstoolCommand, "wstool", "wstool", "wstool command")
	cmd.Flags().StringVar(&opts.RosdepCommand, "rosdep", "rosdep", "rosdep command")
	cmd.Flags().StringVar(&opts.OscCommand, "osc", "osc", "osc command")
	cmd.MarkFlagsMutuallyExclusive("local", "remote")

	_ = viper.BindPFlag("packages", cmd.Flags().Lookup("packages"))
	_ = viper.BindPFlag("skip", cmd.Flags().Lookup("skip"))
	_ = viper.BindPFlag("resume_at", cmd.Flags().Lookup("resume-at"))
	_ = viper.BindPFlag("remote", cmd.Flags().Lookup("remote"))
	_ = viper.BindPFlag("distro", cmd.Flags().Lookup("distro"))
	_ = viper.BindPFlag("os", cmd.Flags().Lookup("os"))
	_ = viper.BindPFlag("overrides", cmd.Flags().Lookup("overrides"))
	_ = viper.BindPFlag("layout", cmd.Flags().Lookup("layout"))
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("obs_api", cmd.Flags().Lookup("obs-api"))
	_ = viper.BindPFlag("jobs", cmd.Flags().Lookup("jobs"))
	_ = viper.BindPFlag("tool_timeout", cmd.Flags().Lookup("tool-timeout"))
	_ = viper.BindPFlag("prefix", cmd.Flags().Lookup("prefix"))
	_ = viper.BindPFlag("wstool", cmd.Flags().Lookup("wstool"))
	_ = viper.BindPFlag("rosdep", cmd.Flags().Lookup("rosdep"))
	_ = viper.BindPFlag("osc", cmd.Flags().Lookup("osc"))

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, workspace string, destination string, opts generateOptions) error {
	remote := resolveBool(cmd, opts.Remote, "remote", "remote")
	if flagChanged(cmd, "local") {
		remote = !opts.Local
	}
	service, err := newAppService(app.Config{
		Distro:        resolveString(cmd, opts.Distro, "distro", "distro"),
		OSName:        resolveString(cmd, opts.OSName, "os", "os"),
		WstoolCommand: resolveString(cmd, opts.WstoolCommand, "wstool", "wstool"),
		RosdepCommand: resolveString(cmd, opts.RosdepCommand, "rosdep", "rosdep"),
		OscCommand:    resolveString(cmd, opts.OscCommand, "osc", "osc"),
		OBSAPIURL:     resolveString(cmd, opts.OBSAPIURL, "obs_api", "obs-api"),
		Project:       resolveString(cmd, opts.Project, "project", "project"),
		ToolTimeout:   resolveDuration(cmd, opts.ToolTimeout, "tool_timeout", "tool-timeout"),
	})
	if err != nil {
		return err
	}
	result, err := service.Generate(ctx, app.GenerateRequest{
		Workspace:     workspace,
		Destination:   destination,
		Packages:      resolveStrings(cmd, opts.Packages, "packages", "packages"),
		Skip:          resolveStrings(cmd, opts.Skip, "skip", "skip"),
		ResumeAt:      resolveString(cmd, opts.ResumeAt, "resume_at", "resume-at"),
		Remote:        remote,
		OverridesPath: resolveString(cmd, opts.Overrides, "overrides", "overrides"),
		Layout:        resolveString(cmd, opts.Layout, "layout", "layout"),
		Prefix:        resolveString(cmd, opts.Prefix, "prefix", "prefix"),
		Jobs:          resolveInt(cmd, opts.Jobs, "jobs", "jobs"),
	})
	if err != nil {
		return err
	}
	fmt.Printf("generated: %d, bundled: %d, excluded: %d\n", len(result.Generated), len(result.Bundled), len(result.Excluded))
	if remote {
		fmt.Printf("committed: %d\n", len(result.Committed))
	}
	return nil
}

func newAppService(cfg app.Config) (app.Service, error) {
	return app.NewService(cfg)
}
