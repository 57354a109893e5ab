package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	return out
}

func TestCloudLoggingHandlerWritesSeverityAndData(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudLoggingHandler(&buf, slog.LevelInfo))

	log.With("request_id", "r1").Warn("model failed", "model", "gemini-2.5-flash", "error", errors.New("quota"))

	event := decodeLine(t, &buf)
	if event["severity"] != "WARNING" {
		t.Fatalf("severity = %v, want WARNING", event["severity"])
	}
	if event["message"] != "model failed" {
		t.Fatalf("message = %v", event["message"])
	}
	data, ok := event["data"].(map[string]any)
	if !ok {
		t.Fatalf("missing data: %v", event)
	}
	if data["request_id"] != "r1" || data["model"] != "gemini-2.5-flash" || data["error"] != "quota" {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestCloudLoggingHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCloudLoggingHandler(&buf, slog.LevelDebug))

	log.WithGroup("ai").Info("attempt", "provider", "primary", slog.Group("usage", "calls", 2))

	data := decodeLine(t, &buf)["data"].(map[string]any)
	if data["ai.provider"] != "primary" {
		t.Fatalf("group prefix missing: %v", data)
	}
	if data["ai.usage.calls"] != float64(2) {
		t.Fatalf("nested group missing: %v", data)
	}
}

func TestCloudLoggingHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewCloudLoggingHandler(&buf, slog.LevelWarn)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be disabled at warn level")
	}
	slog.New(h).Info("skipped")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
