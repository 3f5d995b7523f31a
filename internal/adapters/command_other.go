//go:build !unix

package adapters

import "os/exec"

func killProcessGroup(cmd *exec.Cmd) {}
