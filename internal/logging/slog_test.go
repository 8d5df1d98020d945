package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func newBufLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, nil))), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("log line is not valid JSON: %v (%q)", err, buf.String())
	}
	return m
}

func TestInfo_WritesMessageAndAttrs(t *testing.T) {
	log, buf := newBufLogger(t)

	log.Info(context.Background(), "hello", "key", "value")

	m := decodeLine(t, buf)
	if m["msg"] != "hello" {
		t.Fatalf("msg mismatch: %v", m["msg"])
	}
	if m["key"] != "value" {
		t.Fatalf("attr missing: %v", m)
	}
	if m["level"] != "INFO" {
		t.Fatalf("level mismatch: %v", m["level"])
	}
}

func TestWith_ChildIncludesBoundAttrs(t *testing.T) {
	log, buf := newBufLogger(t)

	child := log.With("module", "test")
	child.Error(context.Background(), "boom")

	m := decodeLine(t, buf)
	if m["module"] != "test" {
		t.Fatalf("bound attr missing: %v", m)
	}
	if m["level"] != "ERROR" {
		t.Fatalf("level mismatch: %v", m["level"])
	}
}
