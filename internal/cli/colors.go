package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/sentinelhq/sentinel/internal/supervisor"
)

// palette holds the operator-facing styles. The renderer detects whether the
// writer is a colour terminal, so plain writers get unstyled text.
type palette struct {
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		ok:    r.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#f9e2af")),
		fail:  r.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("#6c7086")),
	}
}

// consoleReporter prints one line per milestone event for the operator.
// Probe attempts are left to the logger.
type consoleReporter struct {
	mu sync.Mutex
	w  io.Writer
	p  palette
}

func newConsoleReporter(w io.Writer) *consoleReporter {
	return &consoleReporter{w: w, p: newPalette(w)}
}

func (c *consoleReporter) Report(e supervisor.Event) {
	var line string
	switch e.Kind {
	case supervisor.EventLaunched:
		line = c.p.muted.Render(fmt.Sprintf("● backend started (pid %d)", e.PID))
	case supervisor.EventReady:
		line = c.p.ok.Render(fmt.Sprintf("✓ backend ready after %d/%d checks", e.Attempt, e.MaxAttempts))
	case supervisor.EventReadinessTimeout:
		line = c.p.fail.Render("✗ backend did not become ready") + " " + c.p.muted.Render(errText(e.Err))
	case supervisor.EventLaunchFailed:
		line = c.p.fail.Render("✗ backend failed to launch") + " " + c.p.muted.Render(errText(e.Err))
	case supervisor.EventStartupAbandoned:
		line = c.p.warn.Render("! stopped waiting for backend")
	case supervisor.EventTerminated:
		line = c.p.muted.Render("● backend stopped")
	case supervisor.EventTerminationFailed:
		line = c.p.fail.Render("✗ backend could not be stopped") + " " + c.p.muted.Render(errText(e.Err))
	default:
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
