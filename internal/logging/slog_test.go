package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufferLogger() (*SlogLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("log line is not valid JSON: %v (%q)", err, buf.String())
	}
	return m
}

func TestSlogLogger_InfoWithArgs(t *testing.T) {
	l, buf := newBufferLogger()

	l.Info(context.Background(), "hello", "user_id", "u1")

	m := decodeLine(t, buf)
	if m["msg"] != "hello" {
		t.Fatalf("expected msg=hello, got %v", m["msg"])
	}
	if m["user_id"] != "u1" {
		t.Fatalf("expected user_id=u1, got %v", m["user_id"])
	}
}

func TestSlogLogger_WithAddsFields(t *testing.T) {
	l, buf := newBufferLogger()

	child := l.With("module", "ws")
	child.Error(context.Background(), "boom")

	m := decodeLine(t, buf)
	if m["module"] != "ws" {
		t.Fatalf("expected module=ws, got %v", m["module"])
	}
	if m["level"] != "ERROR" {
		t.Fatalf("expected level=ERROR, got %v", m["level"])
	}
}
