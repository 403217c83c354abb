package supervisor

import (
	"log/slog"
	"time"
)

// EventKind names a supervisor lifecycle event.
type EventKind string

const (
	EventLaunched          EventKind = "launched"
	EventLaunchFailed      EventKind = "launch_failed"
	EventProbeFailed       EventKind = "probe_failed"
	EventReady             EventKind = "ready"
	EventReadinessTimeout  EventKind = "readiness_timeout"
	EventStartupAbandoned  EventKind = "startup_abandoned"
	EventTerminating       EventKind = "terminating"
	EventTerminated        EventKind = "terminated"
	EventTerminationFailed EventKind = "termination_failed"
)

// Failure reports whether the event describes an error the operator should see.
func (k EventKind) Failure() bool {
	switch k {
	case EventLaunchFailed, EventReadinessTimeout, EventTerminationFailed:
		return true
	}
	return false
}

func (k EventKind) message() string {
	switch k {
	case EventLaunched:
		return "backend process started"
	case EventLaunchFailed:
		return "failed to launch backend"
	case EventProbeFailed:
		return "backend not ready yet"
	case EventReady:
		return "backend is ready"
	case EventReadinessTimeout:
		return "backend health check failed"
	case EventStartupAbandoned:
		return "backend readiness wait abandoned"
	case EventTerminating:
		return "terminating backend process"
	case EventTerminated:
		return "backend process terminated"
	case EventTerminationFailed:
		return "failed to terminate backend process"
	default:
		return string(k)
	}
}

// Event is a structured diagnostic emitted by the Supervisor.
type Event struct {
	Kind  EventKind
	RunID string
	PID   int
	// Attempt and MaxAttempts are set for probe and readiness events.
	Attempt     int
	MaxAttempts int
	Err         error
	Time        time.Time
}

// Reporter receives supervisor events. Implementations must not block for long;
// they are called inline from the startup goroutine and the shutdown path.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

type multiReporter []Reporter

func (m multiReporter) Report(e Event) {
	for _, r := range m {
		r.Report(e)
	}
}

// MultiReporter fans each event out to every non-nil reporter in order.
func MultiReporter(reporters ...Reporter) Reporter {
	var m multiReporter
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

// LogReporter writes events to a slog.Logger.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a reporter backed by logger, or slog.Default() if nil.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(e Event) {
	attrs := []any{"event", string(e.Kind)}
	if e.RunID != "" {
		attrs = append(attrs, "run_id", e.RunID)
	}
	if e.PID > 0 {
		attrs = append(attrs, "pid", e.PID)
	}
	if e.MaxAttempts > 0 {
		attrs = append(attrs, "attempt", e.Attempt, "max_attempts", e.MaxAttempts)
	}
	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}

	msg := e.Kind.message()
	switch {
	case e.Kind.Failure():
		r.logger.Error(msg, attrs...)
	case e.Kind == EventStartupAbandoned:
		r.logger.Warn(msg, attrs...)
	case e.Kind == EventProbeFailed:
		r.logger.Debug(msg, attrs...)
	default:
		r.logger.Info(msg, attrs...)
	}
}
