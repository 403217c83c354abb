package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"SENTINEL_LOG_LEVEL", "SENTINEL_LOG_FORMAT", "SENTINEL_PROBE_TIMEOUT_MS"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "auto", cfg.Log.Format)
	assert.Equal(t, 2*time.Second, cfg.Probe.Timeout())
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "sentinel", "config.toml"), DefaultPath())
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[log]\nlevel = \"debug\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultProbeTimeoutMS, cfg.Probe.TimeoutMS)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[log]\nlevel = \"debug\"\nformat = \"text\"\n[probe]\ntimeout_ms = 500\n")
	t.Setenv("SENTINEL_LOG_LEVEL", "WARN")
	t.Setenv("SENTINEL_LOG_FORMAT", "json")
	t.Setenv("SENTINEL_PROBE_TIMEOUT_MS", "750")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 750*time.Millisecond, cfg.Probe.Timeout())
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantErr string
	}{
		{"bad toml", "[log\n", nil, "parsing config"},
		{"bad level", "[log]\nlevel = \"verbose\"\n", nil, "invalid log level"},
		{"bad format", "[log]\nformat = \"xml\"\n", nil, "invalid log format"},
		{"negative timeout", "[probe]\ntimeout_ms = -1\n", nil, "timeout_ms must be positive"},
		{"bad env timeout", "", map[string]string{"SENTINEL_PROBE_TIMEOUT_MS": "soon"}, "SENTINEL_PROBE_TIMEOUT_MS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SENTINEL_LOG_LEVEL", "error")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)

	t.Setenv("SENTINEL_LOG_FORMAT", "yaml")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestPrintRoundTrip(t *testing.T) {
	clearEnv(t)
	want := &Config{
		Log:   LogConfig{Level: "warn", Format: "json"},
		Probe: ProbeConfig{TimeoutMS: 1500},
	}

	var buf bytes.Buffer
	require.NoError(t, Print(want, &buf))
	assert.Contains(t, buf.String(), "[probe]")
	assert.Contains(t, buf.String(), "timeout_ms = 1500")

	path := writeConfig(t, buf.String())
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreateDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path, err := CreateDefault()
	require.NoError(t, err)
	assert.Equal(t, DefaultPath(), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = CreateDefault()
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("second CreateDefault error = %v, want already exists", err)
	}
}
