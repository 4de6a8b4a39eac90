package internal

import (
	"bytes"
	"log"
	"os"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	fn()
	return buf.String()
}

func TestLogger_DebugGatedByLevel(t *testing.T) {
	quiet := NewLogger(LogLevelWarn)
	if out := captureOutput(t, func() { quiet.Debug("draws=%d", 10) }); out != "" {
		t.Errorf("Warn-level logger emitted debug output: %q", out)
	}

	verbose := NewLogger(LogLevelDebug)
	out := captureOutput(t, func() { verbose.Debug("draws=%d", 10) })
	if !bytes.Contains([]byte(out), []byte("[DEBUG] draws=10")) {
		t.Errorf("Debug-level logger output = %q, want it to contain the message", out)
	}
}

func TestNewDefaultLogger_ReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	if l := NewDefaultLogger(); l.level != LogLevelDebug {
		t.Errorf("LOG_LEVEL=DEBUG gave level %d", l.level)
	}

	t.Setenv("LOG_LEVEL", "")
	if l := NewDefaultLogger(); l.level != LogLevelWarn {
		t.Errorf("unset LOG_LEVEL should default to Warn, got %d", l.level)
	}
}
