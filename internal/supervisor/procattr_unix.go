//go:build unix

package supervisor

import (
	"os"
	"os/exec"
	"syscall"
)

// setSysProcAttr puts the backend in a new process group so uvicorn and any
// workers it forks can be signalled together.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcess sends SIGKILL to the backend's process group, falling back to
// the group leader alone when the group cannot be signalled.
func killProcess(p *os.Process) error {
	if err := syscall.Kill(-p.Pid, syscall.SIGKILL); err != nil {
		return p.Kill()
	}
	return nil
}

func interpreterName() string {
	return "python3"
}
