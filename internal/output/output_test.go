package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// mockResult implements Result for testing Formatter.Output.
type mockResult struct {
	textOut string
	textErr error
	data    interface{}
}

func (m *mockResult) Text(w io.Writer) error {
	if m.textErr != nil {
		return m.textErr
	}
	_, err := fmt.Fprint(w, m.textOut)
	return err
}

func (m *mockResult) Data() interface{} { return m.data }

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Format{
		"":      FormatText,
		"text":  FormatText,
		"JSON":  FormatJSON,
		" yaml": FormatYAML,
	} {
		got, err := ParseFormat(raw)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", raw, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestFormatterOutput_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := New(WithFormat(FormatJSON), WithWriter(&buf))

	if err := f.Output(&mockResult{data: map[string]string{"status": "ok"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if decoded["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", decoded["status"])
	}
}

func TestFormatterOutput_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := New(WithFormat(FormatYAML), WithWriter(&buf))

	resp := StatusResponse{URL: "http://localhost:8000/health", Ready: true, Readiness: "ready", Build: "dev"}
	if err := f.Output(&mockResult{data: resp}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML output: %v", err)
	}
	if decoded["ready"] != true || decoded["readiness"] != "ready" {
		t.Errorf("unexpected YAML: %s", buf.String())
	}
	if _, ok := decoded["status_code"]; ok {
		t.Errorf("status_code should be omitted when zero")
	}
	if !strings.HasPrefix(buf.String(), "generated_at:") {
		t.Errorf("expected fields in declaration order, got:\n%s", buf.String())
	}
}

func TestFormatterOutput_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f := New(WithWriter(&buf))

	if err := f.Output(&mockResult{textOut: "hello world"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "hello world" {
		t.Errorf("got %q", buf.String())
	}

	wantErr := errors.New("render failed")
	if err := f.Output(&mockResult{textErr: wantErr}); err != wantErr {
		t.Errorf("expected text error to propagate, got %v", err)
	}
}

func TestFormatterError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	var buf bytes.Buffer
	if err := New(WithFormat(FormatJSON), WithWriter(&buf)).Error(boom); err != nil {
		t.Fatalf("JSON Error returned %v", err)
	}
	if !strings.Contains(buf.String(), `"error": "boom"`) {
		t.Errorf("unexpected JSON: %s", buf.String())
	}

	buf.Reset()
	if err := New(WithFormat(FormatYAML), WithWriter(&buf)).Error(boom); err != nil {
		t.Fatalf("YAML Error returned %v", err)
	}
	if buf.String() != "error: boom\n" {
		t.Errorf("unexpected YAML: %q", buf.String())
	}

	buf.Reset()
	if err := New(WithWriter(&buf)).Error(boom); err != boom {
		t.Errorf("text Error = %v, want boom", err)
	}
	if buf.Len() != 0 {
		t.Errorf("text Error wrote %q", buf.String())
	}
}

func TestPrintError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	var buf bytes.Buffer
	PrintError(&buf, boom, FormatText)
	if buf.String() != "Error: boom\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	PrintError(&buf, boom, FormatJSON)
	var resp ErrorResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Error != "boom" {
		t.Errorf("resp.Error = %q", resp.Error)
	}

	buf.Reset()
	PrintError(&buf, boom, FormatYAML)
	resp = ErrorResponse{}
	if err := yaml.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if resp.Error != "boom" {
		t.Errorf("resp.Error = %q", resp.Error)
	}
}
