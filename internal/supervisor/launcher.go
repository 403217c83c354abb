package supervisor

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Fixed network contract with the backend.
const (
	BackendHost = "127.0.0.1"
	BackendPort = "8000"
	HealthURL   = "http://localhost:8000/health"
)

// drainGrace bounds how long Wait lets output readers finish before reaping.
const drainGrace = 2 * time.Second

// Process is the supervisor's view of a launched backend.
type Process interface {
	// ID identifies this launch in diagnostics.
	ID() string
	PID() int
	// Kill requests termination of the OS process.
	Kill() error
	// Wait blocks until the process has exited and been reaped. An exit
	// caused by Kill is not an error.
	Wait() error
}

// Launcher starts the backend. Each call attempts exactly one spawn.
type Launcher interface {
	Launch() (Process, error)
}

// Command describes how the backend is executed.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the parent environment.
	Env []string
}

// DefaultCommand returns the uvicorn invocation for the current platform
// and build mode.
func DefaultCommand() Command {
	return Command{
		Name: interpreterName(),
		Args: []string{
			"-m", "uvicorn",
			"sentinel_core.api.main:app",
			"--host", BackendHost,
			"--port", BackendPort,
			"--log-level", "info",
		},
		Dir: backendDir,
	}
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ExecLauncher launches the backend as a child process with piped output.
type ExecLauncher struct {
	Command Command

	// Logger, when set, receives every line the backend writes at debug
	// level. Without it the Handle's Stdout and Stderr are left unread.
	Logger *slog.Logger
}

var _ Launcher = (*ExecLauncher)(nil)

// NewExecLauncher returns a launcher for DefaultCommand.
func NewExecLauncher(logger *slog.Logger) *ExecLauncher {
	return &ExecLauncher{Command: DefaultCommand(), Logger: logger}
}

// Launch starts the backend once. Failures are returned as *LaunchError.
func (l *ExecLauncher) Launch() (Process, error) {
	c := l.Command
	fail := func(err error) (Process, error) {
		return nil, &LaunchError{Command: c.String(), Dir: c.Dir, Err: err}
	}

	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	setSysProcAttr(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fail(err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		return fail(err)
	}
	if err := cmd.Start(); err != nil {
		return fail(err)
	}

	h := &Handle{
		id:     uuid.New().String(),
		cmd:    cmd,
		Stdout: stdout,
		Stderr: stderr,
	}
	if l.Logger != nil {
		h.drain("stdout", stdout, l.Logger)
		h.drain("stderr", stderr, l.Logger)
	}
	return h, nil
}

// Handle is a running backend started by ExecLauncher.
type Handle struct {
	// Stdout and Stderr are the backend's output pipes. They are consumed
	// internally when the launcher was given a logger.
	Stdout io.ReadCloser
	Stderr io.ReadCloser

	id  string
	cmd *exec.Cmd

	drained  sync.WaitGroup
	waitOnce sync.Once
	waitErr  error
}

var _ Process = (*Handle)(nil)

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) PID() int {
	if h.cmd.Process == nil {
		return -1
	}
	return h.cmd.Process.Pid
}

func (h *Handle) Kill() error {
	return killProcess(h.cmd.Process)
}

// Wait reaps the process. It is safe to call more than once.
func (h *Handle) Wait() error {
	h.waitOnce.Do(func() {
		h.awaitDrain(drainGrace)
		err := h.cmd.Wait()
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			h.waitErr = err
		}
	})
	return h.waitErr
}

// ExitCode returns the exit status once the process has been reaped, or -1
// while it is running or when it was terminated by a signal.
func (h *Handle) ExitCode() int {
	if h.cmd.ProcessState == nil {
		return -1
	}
	return h.cmd.ProcessState.ExitCode()
}

func (h *Handle) drain(stream string, r io.Reader, logger *slog.Logger) {
	h.drained.Add(1)
	go func() {
		defer h.drained.Done()
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			logger.Debug("backend output", "run_id", h.id, "stream", stream, "line", sc.Text())
		}
		// Keep the pipe flowing even after an oversized line.
		_, _ = io.Copy(io.Discard, r)
	}()
}

func (h *Handle) awaitDrain(grace time.Duration) {
	done := make(chan struct{})
	go func() {
		h.drained.Wait()
		close(done)
	}()
	t := time.NewTimer(grace)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
	}
}
