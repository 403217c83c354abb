package supervisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProber(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Readiness
	}{
		{"ok", http.StatusOK, Ready},
		{"no content", http.StatusNoContent, Ready},
		{"unavailable", http.StatusServiceUnavailable, NotReady},
		{"not found", http.StatusNotFound, NotReady},
		{"redirect", http.StatusNotModified, NotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod, gotPath = r.Method, r.URL.Path
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			res := NewHTTPProber(srv.URL+"/health", time.Second).Probe(context.Background())

			if res.Readiness != tt.want {
				t.Fatalf("Readiness = %v, want %v (%v)", res.Readiness, tt.want, res.Err)
			}
			if gotMethod != http.MethodGet || gotPath != "/health" {
				t.Errorf("request = %s %s, want GET /health", gotMethod, gotPath)
			}
			if tt.want == Ready {
				if res.Err != nil {
					t.Errorf("Ready result carries error: %v", res.Err)
				}
				return
			}
			if res.Err == nil || res.Err.StatusCode != tt.status {
				t.Errorf("Err = %+v, want status %d", res.Err, tt.status)
			}
		})
	}
}

func TestHTTPProberConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL + "/health"
	srv.Close()

	res := NewHTTPProber(url, time.Second).Probe(context.Background())

	if res.Readiness != TransportError {
		t.Fatalf("Readiness = %v, want transport_error", res.Readiness)
	}
	if res.Err == nil || res.Err.StatusCode != 0 || res.Err.Err == nil {
		t.Fatalf("Err = %+v, want transport failure", res.Err)
	}
	if res.Ready() {
		t.Fatal("Ready() = true for transport failure")
	}
}

func TestHTTPProberTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	res := NewHTTPProber(srv.URL, 50*time.Millisecond).Probe(context.Background())

	if res.Readiness != TransportError {
		t.Fatalf("Readiness = %v, want transport_error", res.Readiness)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("probe took %v; timeout not applied", elapsed)
	}
}

func TestNewHTTPProberDefaultTimeout(t *testing.T) {
	p := NewHTTPProber(HealthURL, 0)
	if p.Client.Timeout != DefaultProbeTimeout {
		t.Fatalf("Timeout = %v, want %v", p.Client.Timeout, DefaultProbeTimeout)
	}
	if p.URL != "http://localhost:8000/health" {
		t.Fatalf("URL = %q", p.URL)
	}
}

func TestReadinessString(t *testing.T) {
	for r, want := range map[Readiness]string{
		Ready:          "ready",
		NotReady:       "not_ready",
		TransportError: "transport_error",
		Readiness(7):   "unknown(7)",
	} {
		if got := r.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(r), got, want)
		}
	}
}
