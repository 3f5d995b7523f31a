//go:build unix

package adapters

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the tool in its own process group so that a
// timeout also stops the helpers it spawned (git, svn, python).
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
