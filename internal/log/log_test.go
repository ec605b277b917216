package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func withCapturedLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
	})
	return buf
}

func TestInfoProducesLogfmtWithTimestamp(t *testing.T) {
	buf := withCapturedLogger(t)

	Info(context.Background(), "hello", "user", "test")

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatalf("expected log output, got empty string")
	}
	if !strings.Contains(line, "ts=") {
		t.Fatalf("expected timestamp field in log line, got %q", line)
	}
	if !strings.Contains(line, "level=info") {
		t.Fatalf("expected level field in log line, got %q", line)
	}
	if !strings.Contains(line, "msg=hello") {
		t.Fatalf("expected message field in log line, got %q", line)
	}
	if !strings.Contains(line, "user=test") {
		t.Fatalf("expected structured field in log line, got %q", line)
	}
}

func TestWarnUsesWarnLevel(t *testing.T) {
	buf := withCapturedLogger(t)

	Warn(context.Background(), "token mismatch", "recipe", "Bramborák")

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "level=warn") {
		t.Fatalf("expected warn level in log line, got %q", line)
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	for _, level := range []string{"", "info", "debug", "warn", "error", "DEBUG"} {
		if err := SetLevel(level); err != nil {
			t.Fatalf("SetLevel(%q) returned error: %v", level, err)
		}
	}
	if err := SetLevel("info"); err != nil {
		t.Fatalf("failed to restore info level: %v", err)
	}
}
