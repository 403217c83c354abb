// Package supervisor launches the sentinel backend, waits for it to become
// ready and terminates it when the host application exits.
//
// The host triggers two events: Start, run in its own goroutine when the
// application starts, and Shutdown, called synchronously on exit. Both share
// a Slot holding the launched process. Failures never propagate to the host;
// they are delivered to a Reporter as Events.
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Readiness loop bounds.
const (
	MaxReadinessAttempts = 30
	ReadinessDelay       = 500 * time.Millisecond
)

// Phase is the supervised process's lifecycle state.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseLaunching
	PhaseRunning
	PhaseReadyReported
	PhaseTimedOut
	PhaseTerminating
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseLaunching:
		return "launching"
	case PhaseRunning:
		return "running"
	case PhaseReadyReported:
		return "ready"
	case PhaseTimedOut:
		return "timed_out"
	case PhaseTerminating:
		return "terminating"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Supervisor owns the backend process for the lifetime of the host.
type Supervisor struct {
	launcher Launcher
	prober   Prober
	slot     *Slot
	reporter Reporter
	sleep    func(context.Context, time.Duration) error
	now      func() time.Time

	started atomic.Bool
	done    chan struct{}

	mu    sync.Mutex
	phase Phase
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithSlot shares an existing slot instead of allocating a new one.
func WithSlot(slot *Slot) Option {
	return func(s *Supervisor) {
		s.slot = slot
	}
}

// WithProber replaces the default HTTP health prober.
func WithProber(p Prober) Option {
	return func(s *Supervisor) {
		s.prober = p
	}
}

// WithReporter sets where lifecycle events are delivered.
func WithReporter(r Reporter) Option {
	return func(s *Supervisor) {
		s.reporter = r
	}
}

// New returns a supervisor that launches the backend with launcher.
// By default it probes HealthURL and discards events.
func New(launcher Launcher, opts ...Option) *Supervisor {
	s := &Supervisor{
		launcher: launcher,
		prober:   NewHTTPProber(HealthURL, DefaultProbeTimeout),
		slot:     NewSlot(),
		reporter: ReporterFunc(func(Event) {}),
		sleep:    sleepContext,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slot returns the slot shared by Start and Shutdown.
func (s *Supervisor) Slot() *Slot {
	return s.slot
}

// Phase returns the current lifecycle phase.
func (s *Supervisor) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Done is closed once the startup sequence has finished, whatever its outcome.
// It stays open if Start is never called.
func (s *Supervisor) Done() <-chan struct{} {
	return s.done
}

// Start launches the backend and waits for it to report healthy. It is meant
// to run in its own goroutine and only the first call has any effect.
//
// A launch failure leaves the slot empty. A readiness timeout leaves the
// process stored so Shutdown still terminates it.
func (s *Supervisor) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	defer close(s.done)

	s.setPhase(PhaseLaunching)
	proc, err := s.launcher.Launch()
	if err != nil {
		s.setPhase(PhaseNotStarted)
		s.report(Event{Kind: EventLaunchFailed, Err: err})
		return
	}

	if err := s.slot.Store(proc); err != nil {
		// A shared slot already tracks a backend; do not leave this one orphaned.
		_ = proc.Kill()
		_ = proc.Wait()
		s.setPhase(PhaseNotStarted)
		s.report(Event{Kind: EventLaunchFailed, RunID: proc.ID(), PID: proc.PID(), Err: err})
		return
	}
	s.setPhase(PhaseRunning)
	s.report(Event{Kind: EventLaunched, RunID: proc.ID(), PID: proc.PID()})

	s.waitReady(ctx, proc)
}

func (s *Supervisor) waitReady(ctx context.Context, proc Process) {
	var last *ProbeError
	for attempt := 1; attempt <= MaxReadinessAttempts; attempt++ {
		if s.shuttingDown() {
			return
		}
		res := s.prober.Probe(ctx)
		// The process may have been killed while the request was in flight.
		if s.shuttingDown() {
			return
		}
		if res.Ready() {
			s.setPhase(PhaseReadyReported)
			s.report(Event{
				Kind:        EventReady,
				RunID:       proc.ID(),
				PID:         proc.PID(),
				Attempt:     attempt,
				MaxAttempts: MaxReadinessAttempts,
			})
			return
		}

		last = res.Err
		s.report(Event{
			Kind:        EventProbeFailed,
			RunID:       proc.ID(),
			PID:         proc.PID(),
			Attempt:     attempt,
			MaxAttempts: MaxReadinessAttempts,
			Err:         res.Err,
		})
		if attempt == MaxReadinessAttempts {
			break
		}
		if err := s.sleep(ctx, ReadinessDelay); err != nil {
			if s.shuttingDown() {
				return
			}
			s.report(Event{
				Kind:        EventStartupAbandoned,
				RunID:       proc.ID(),
				PID:         proc.PID(),
				Attempt:     attempt,
				MaxAttempts: MaxReadinessAttempts,
				Err:         err,
			})
			return
		}
	}

	if s.shuttingDown() {
		return
	}
	s.setPhase(PhaseTimedOut)
	s.report(Event{
		Kind:        EventReadinessTimeout,
		RunID:       proc.ID(),
		PID:         proc.PID(),
		Attempt:     MaxReadinessAttempts,
		MaxAttempts: MaxReadinessAttempts,
		Err:         &ReadinessTimeout{Attempts: MaxReadinessAttempts, Last: last},
	})
}

// Shutdown terminates the tracked backend and reaps it before returning.
// With nothing tracked it does nothing, so repeated calls are safe. A failed
// kill request is reported and returned without waiting.
func (s *Supervisor) Shutdown() error {
	proc := s.slot.Take()
	if proc == nil {
		return nil
	}

	s.setPhase(PhaseTerminating)
	s.report(Event{Kind: EventTerminating, RunID: proc.ID(), PID: proc.PID()})

	if err := proc.Kill(); err != nil {
		terr := &TerminationError{PID: proc.PID(), Op: "kill", Err: err}
		s.report(Event{Kind: EventTerminationFailed, RunID: proc.ID(), PID: proc.PID(), Err: terr})
		return terr
	}
	if err := proc.Wait(); err != nil {
		terr := &TerminationError{PID: proc.PID(), Op: "wait", Err: err}
		s.report(Event{Kind: EventTerminationFailed, RunID: proc.ID(), PID: proc.PID(), Err: terr})
		return terr
	}

	s.setPhase(PhaseTerminated)
	s.report(Event{Kind: EventTerminated, RunID: proc.ID(), PID: proc.PID()})
	return nil
}

// setPhase records p unless shutdown has already begun; a readiness result
// arriving after Terminating must not move the state backwards.
func (s *Supervisor) setPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase >= PhaseTerminating && p < PhaseTerminating {
		return
	}
	s.phase = p
}

// shuttingDown reports whether Shutdown has taken over the process. The
// readiness loop stops without reporting once it has.
func (s *Supervisor) shuttingDown() bool {
	return s.Phase() >= PhaseTerminating
}

func (s *Supervisor) report(e Event) {
	e.Time = s.now()
	s.reporter.Report(e)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
