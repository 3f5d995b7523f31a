package adapters

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"mvdan.cc/sh/v3/shell"

	"ros-specgen/internal/shared"
)

const (
	defaultToolTimeout = 60 * time.Second
	// toolWaitDelay bounds how long run waits for output pipes after
	// the tool was killed.
	toolWaitDelay = 2 * time.Second
)

// toolCommand runs one external tool with a per-call timeout.
type toolCommand struct {
	Name    string
	Argv    []string
	Timeout time.Duration
	Env     []string
}

// newToolCommand splits a configured command line the way a shell
// would, so operators can pass wrappers such as "sudo -u ros rosdep".
func newToolCommand(line string, timeout time.Duration) (toolCommand, error) {
	argv, err := shell.Fields(line, os.Getenv)
	if err != nil {
		return toolCommand{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid tool command: " + line).
			WithCause(err)
	}
	if len(argv) == 0 {
		return toolCommand{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("tool command is empty")
	}
	if timeout <= 0 {
		timeout = defaultToolTimeout
	}
	return toolCommand{Name: argv[0], Argv: argv, Timeout: timeout}, nil
}

// run executes the tool with args appended. A missing binary, an
// expired timeout or a cancelled context is reported as an unavailable
// adapter; a non-zero exit is returned as an *exec.ExitError wrapped
// with the output. The tool and its children are killed together.
func (c toolCommand) run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	argv := append(append([]string(nil), c.Argv[1:]...), args...)
	cmd := exec.CommandContext(ctx, c.Argv[0], argv...)
	cmd.Dir = dir
	cmd.WaitDelay = toolWaitDelay
	killProcessGroup(cmd)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err == nil {
		return output, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, shared.AdapterUnavailableError(c.Name, ctxErr)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, shared.AdapterUnavailableError(c.Name, err)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, shared.CommandError([]byte(stderr.String()), err)
	}
	return nil, shared.AdapterUnavailableError(c.Name, err)
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
