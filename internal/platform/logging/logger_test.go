package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"":        LevelInfo,
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: got=%s want=%s", raw, got, want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unsupported level")
	}
}

func TestLogger_InfoContextAddsRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelInfo).With("service", "lastmatch-logger")

	ctx := WithRequestID(context.Background(), "req-123")
	logger.InfoContext(ctx, "request completed", "status", 200, "error", errors.New("none"))

	var entry map[string]any
	if err := sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "request completed" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "INFO" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["request_id"] != "req-123" {
		t.Fatalf("expected request_id field, got %v", entry["request_id"])
	}
	if entry["service"] != "lastmatch-logger" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
	if entry["error"] != "none" {
		t.Fatalf("expected error field, got %v", entry["error"])
	}
}

func TestLogger_BelowLevelIsDropped(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONWriter(&buf, LevelWarn)
	logger.Debug("debug line")
	logger.Info("info line")

	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
}

func TestLogger_NilIsSafe(t *testing.T) {
	t.Parallel()

	var logger *Logger
	logger.Info("ignored")
	logger.WarnContext(context.Background(), "ignored")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync nil logger: %v", err)
	}
}
