package output

import "time"

// ErrorResponse is the standard structured error format
type ErrorResponse struct {
	Error string `json:"error" yaml:"error"`
}

// NewError creates a new error response
func NewError(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Timestamp returns the current time in UTC, truncated to seconds.
func Timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// StatusResponse is the output format for the status command
type StatusResponse struct {
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	URL         string    `json:"url" yaml:"url"`
	Ready       bool      `json:"ready" yaml:"ready"`
	Readiness   string    `json:"readiness" yaml:"readiness"`
	StatusCode  int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	LatencyMS   int64     `json:"latency_ms" yaml:"latency_ms"`
	Build       string    `json:"build" yaml:"build"` // dev or release
}
