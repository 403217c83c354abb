//go:build windows

package supervisor

import (
	"os"
	"os/exec"
	"syscall"
)

// setSysProcAttr starts the backend in its own process group so console
// control events aimed at the shell do not reach it.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

// killProcess terminates the backend. Windows has no process group signal,
// so only the interpreter itself is killed.
func killProcess(p *os.Process) error {
	return p.Kill()
}

func interpreterName() string {
	return "python"
}
