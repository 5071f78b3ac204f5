package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	if Verbosity() != LevelInfo {
		t.Errorf("expected verbosity %d, got %d", LevelInfo, Verbosity())
	}
	Info("ready")
	if !strings.Contains(buf.String(), "ready") {
		t.Errorf("expected records on the initialized writer, got %q", buf.String())
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelTrace, &buf)

	Info("test info", "key", "value")
	Debug("test debug", "key", "value")
	Trace("test trace", "key", "value")
	Warn("test warn", "key", "value")

	for _, want := range []string{"test info", "test debug", "test trace", "test warn"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output, got %q", want, buf.String())
		}
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelQuiet, &buf)

	Info("hidden")
	Debug("hidden")
	Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info/debug to be suppressed, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warning in output, got %q", out)
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	Progress("Fetching issues page %d", 2)
	ProgressDone()

	if got := buf.String(); got != "\rFetching issues page 2 done\n" {
		t.Errorf("unexpected progress output %q", got)
	}
}

func TestProgressInterruptedByLog(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	Progress("Fetching pulls page %d", 1)
	Warn("slow response")

	if !strings.HasPrefix(buf.String(), "\rFetching pulls page 1\n") {
		t.Errorf("expected progress line to be terminated before log record, got %q", buf.String())
	}
}

func TestVerbosityLevels(t *testing.T) {
	tests := []struct {
		level   int
		isDebug bool
		isTrace bool
	}{
		{LevelQuiet, false, false},
		{LevelInfo, false, false},
		{LevelDebug, true, false},
		{LevelTrace, true, true},
	}

	var buf bytes.Buffer
	for _, tt := range tests {
		Initialize(tt.level, &buf)

		if IsDebug() != tt.isDebug {
			t.Errorf("at level %d: expected IsDebug()=%v, got %v", tt.level, tt.isDebug, IsDebug())
		}
		if IsTrace() != tt.isTrace {
			t.Errorf("at level %d: expected IsTrace()=%v, got %v", tt.level, tt.isTrace, IsTrace())
		}
	}
}
