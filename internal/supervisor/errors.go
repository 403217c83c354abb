package supervisor

import (
	"errors"
	"fmt"
)

// ErrSlotOccupied is returned when a second process is stored in a Slot
// that already tracks one.
var ErrSlotOccupied = errors.New("backend slot already holds a process")

// LaunchError reports that the OS could not create the backend process.
type LaunchError struct {
	Command string
	Dir     string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch backend %q in %s: %v", e.Command, e.Dir, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ProbeError describes one failed health check. StatusCode is zero when the
// request never produced a response.
type ProbeError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ProbeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("health probe GET %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("health probe GET %s: %v", e.URL, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// ReadinessTimeout is reported when every readiness attempt failed.
type ReadinessTimeout struct {
	Attempts int
	Last     *ProbeError
}

func (e *ReadinessTimeout) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("backend not ready after %d attempts: %v", e.Attempts, e.Last)
	}
	return fmt.Sprintf("backend not ready after %d attempts", e.Attempts)
}

func (e *ReadinessTimeout) Unwrap() error {
	if e.Last == nil {
		return nil
	}
	return e.Last
}

// TerminationError reports a failed kill request or reap during shutdown.
// Op is "kill" or "wait".
type TerminationError struct {
	PID int
	Op  string
	Err error
}

func (e *TerminationError) Error() string {
	return fmt.Sprintf("terminate backend (pid %d): %s: %v", e.PID, e.Op, e.Err)
}

func (e *TerminationError) Unwrap() error {
	return e.Err
}
