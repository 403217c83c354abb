package supervisor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultProbeTimeout bounds a single health request.
const DefaultProbeTimeout = 2 * time.Second

// Readiness classifies one probe outcome.
type Readiness int

const (
	Ready Readiness = iota
	NotReady
	TransportError
)

func (r Readiness) String() string {
	switch r {
	case Ready:
		return "ready"
	case NotReady:
		return "not_ready"
	case TransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// ReadinessResult is the outcome of one probe attempt. Err is nil only when
// the backend is Ready.
type ReadinessResult struct {
	Readiness Readiness
	Err       *ProbeError
}

// Ready reports whether the backend answered with a 2xx status.
func (r ReadinessResult) Ready() bool {
	return r.Readiness == Ready
}

// Prober performs a single readiness check.
type Prober interface {
	Probe(ctx context.Context) ReadinessResult
}

// HTTPProber checks readiness with a GET request.
type HTTPProber struct {
	URL    string
	Client *http.Client
}

var _ Prober = (*HTTPProber)(nil)

// NewHTTPProber returns a prober whose requests give up after timeout.
// A non-positive timeout selects DefaultProbeTimeout.
func NewHTTPProber(url string, timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Probe issues one GET. Any 2xx is Ready, any other status is NotReady and a
// request that produced no response is a TransportError.
func (p *HTTPProber) Probe(ctx context.Context) ReadinessResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return ReadinessResult{Readiness: TransportError, Err: &ProbeError{URL: p.URL, Err: err}}
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return ReadinessResult{Readiness: TransportError, Err: &ProbeError{URL: p.URL, Err: err}}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return ReadinessResult{Readiness: Ready}
	}
	return ReadinessResult{
		Readiness: NotReady,
		Err:       &ProbeError{URL: p.URL, StatusCode: resp.StatusCode},
	}
}
