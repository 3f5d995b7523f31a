package adapters

import (
	"context"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"ros-specgen/internal/ports"
	"ros-specgen/internal/shared"
)

// RosdepResolverAdapter maps rosdep keys to platform packages with
// `rosdep resolve`.
type RosdepResolverAdapter struct {
	cmd toolCommand
	OS  string
}

func NewRosdepResolverAdapter(command string, distro string, osName string, timeout time.Duration) (RosdepResolverAdapter, error) {
	cmd, err := newToolCommand(command, timeout)
	if err != nil {
		return RosdepResolverAdapter{}, err
	}
	if strings.TrimSpace(distro) != "" {
		cmd.Env = []string{"ROS_DISTRO=" + strings.TrimSpace(distro)}
	}
	return RosdepResolverAdapter{cmd: cmd, OS: strings.TrimSpace(osName)}, nil
}

// Resolve expects the two-line answer rosdep gives for a unique rule:
// the installer header followed by the package name.
func (a RosdepResolverAdapter) Resolve(ctx context.Context, name string) (string, error) {
	args := []string{"resolve"}
	if a.OS != "" {
		args = append(args, "--os="+a.OS)
	}
	args = append(args, name)
	output, err := a.cmd.run(ctx, "", args...)
	if err != nil {
		if isExitError(err) {
			return "", shared.UnresolvedDependencyError(name, err)
		}
		return "", err
	}
	return parseRosdepOutput(name, string(output))
}

func parseRosdepOutput(name string, output string) (string, error) {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "#") {
		return "", shared.UnresolvedDependencyError(name, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("ambiguous rosdep answer: "+strings.Join(lines, " | ")))
	}
	return lines[1], nil
}

var _ ports.SystemResolverPort = RosdepResolverAdapter{}
