package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"log/slog"
)

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl)).With("component", "audiodetect")

	logger.Info("catch candidates detected", "kept", 3, "baseline", 0.0125)

	line := buf.String()
	if !strings.Contains(line, "INF audiodetect: catch candidates detected") {
		t.Errorf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "kept=3") {
		t.Errorf("missing attribute in console line: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should be promoted out of the attribute list: %q", line)
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "WRN emitted") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestJSONHandlerShape(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, lvl))

	logger.Info("release detected", "release_time", 2.05)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal json log line: %v", err)
	}
	if record["msg"] != "release detected" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Errorf("level = %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Error("ts field missing")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestEnsure(t *testing.T) {
	if Ensure(nil) == nil {
		t.Fatal("Ensure(nil) returned nil")
	}
	logger := NewNop()
	if Ensure(logger) != logger {
		t.Fatal("Ensure should pass through a non-nil logger")
	}
}
