package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinelhq/sentinel/internal/supervisor"
)

// startupDrainTimeout bounds how long exit waits for an in-flight startup
// sequence to notice cancellation.
const startupDrainTimeout = 5 * time.Second

func newRunCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the backend and supervise it until exit",
		Long: `Launch the Sentinel API backend and keep it running until the shell exits.

The backend is started as:
  python3 -m uvicorn sentinel_core.api.main:app --host 127.0.0.1 --port 8000 --log-level info
(python on Windows), from ../../sentinel-core in development builds and
../sentinel-core in release builds. Readiness is checked against
http://localhost:8000/health up to 30 times, 500ms apart.

On SIGINT or SIGTERM the backend is killed and reaped before sentinel exits.

Examples:
  sentinel run                      # Supervise with the default config
  SENTINEL_LOG_LEVEL=debug sentinel run   # Include backend output and probe attempts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reporters := []supervisor.Reporter{supervisor.NewLogReporter(logger)}
			if !quiet {
				reporters = append(reporters, newConsoleReporter(cmd.OutOrStdout()))
			}

			sup := supervisor.New(
				supervisor.NewExecLauncher(logger),
				supervisor.WithProber(supervisor.NewHTTPProber(supervisor.HealthURL, cfg.Probe.Timeout())),
				supervisor.WithReporter(supervisor.MultiReporter(reporters...)),
			)

			// Setup signal handling for shutdown
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			go cancelOnSignal(ctx, sigCh, cancel, logger)

			return runHost(ctx, sup, logger)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only write log output, no status lines")

	return cmd
}

// stopSignals is swapped in tests.
var stopSignals = signal.Stop

// cancelOnSignal cancels on the first exit signal and then stops relaying, so
// a second Ctrl+C during a slow reap gets the default handling and ends the
// process.
func cancelOnSignal(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc, logger *slog.Logger) {
	select {
	case sig := <-sigCh:
		stopSignals(sigCh)
		logger.Info("exit requested", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}
}

// runHost plays the application shell: it raises the start event, blocks
// until ctx is done (the exit request) and then raises the exit event.
// Supervisor failures are reported through its Reporter and never returned.
func runHost(ctx context.Context, sup *supervisor.Supervisor, logger *slog.Logger) error {
	startCtx, cancelStart := context.WithCancel(context.Background())
	defer cancelStart()

	go sup.Start(startCtx)

	<-ctx.Done()
	logger.Info("application exiting, cleaning up")

	_ = sup.Shutdown()

	// A launch still in flight may store its handle after the first
	// Shutdown; stop the readiness loop and sweep the slot once more.
	cancelStart()
	select {
	case <-sup.Done():
	case <-time.After(startupDrainTimeout):
		logger.Warn("startup sequence still running at exit")
	}
	_ = sup.Shutdown()

	return nil
}
