package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentinelhq/sentinel/internal/output"
	"github.com/sentinelhq/sentinel/internal/supervisor"
)

// statusFormat is bound to status --format and also decides how a failed
// status run reports its error.
var statusFormat string

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether the backend is answering its health endpoint",
		Long: `Send a single GET to http://localhost:8000/health and report the result.

Exits with status 1 when the backend is not ready.

Examples:
  sentinel status
  sentinel status --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(statusFormat)
			if err != nil {
				return err
			}
			return runStatus(cmd.Context(), supervisor.HealthURL, cfg.Probe.Timeout(),
				output.New(output.WithFormat(f), output.WithWriter(cmd.OutOrStdout())))
		},
	}

	cmd.Flags().StringVar(&statusFormat, "format", "text", "Output format: text, json or yaml")

	return cmd
}

func runStatus(ctx context.Context, url string, timeout time.Duration, f *output.Formatter) error {
	start := time.Now()
	res := supervisor.NewHTTPProber(url, timeout).Probe(ctx)

	resp := output.StatusResponse{
		GeneratedAt: output.Timestamp(),
		URL:         url,
		Ready:       res.Ready(),
		Readiness:   res.Readiness.String(),
		LatencyMS:   time.Since(start).Milliseconds(),
		Build:       buildMode(),
	}
	if res.Err != nil {
		resp.StatusCode = res.Err.StatusCode
		resp.Error = res.Err.Error()
	}

	if err := f.Output(statusResult{resp}); err != nil {
		return err
	}
	if !resp.Ready {
		return &ExitError{Code: 1}
	}
	return nil
}

type statusResult struct {
	resp output.StatusResponse
}

func (s statusResult) Data() interface{} {
	return s.resp
}

func (s statusResult) Text(w io.Writer) error {
	p := newPalette(w)
	r := s.resp
	if r.Ready {
		fmt.Fprintf(w, "%s %s\n", p.ok.Render("✓ ready"), p.muted.Render(fmt.Sprintf("%s (%dms)", r.URL, r.LatencyMS)))
		return nil
	}
	fmt.Fprintf(w, "%s %s\n", p.fail.Render("✗ "+r.Readiness), p.muted.Render(r.URL))
	if r.Error != "" {
		fmt.Fprintf(w, "  %s\n", r.Error)
	}
	return nil
}
