package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"aya-hq/companion/pkg/config"
)

func newTestLogger(t *testing.T, cfg Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg.Writer = &buf
	logger, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return logger, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLogger_Levels(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "warn", Format: "json"})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	logger.Warn("shown")
	entry := decodeLine(t, buf)
	if entry["msg"] != "shown" || entry["level"] != "WARN" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestLogger_RedactsMessageAndAttrs(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Level: "info", Format: "json", RedactPII: true})

	logger.Info("user jane@example.org wrote in",
		"phone", "212-555-0147",
		"token", "dapi-secret-value",
		"err", errors.New("bad call from 10.1.2.3"),
		"count", 3,
	)

	out := buf.String()
	for _, leak := range []string{"jane@example.org", "555-0147", "dapi-secret-value", "10.1.2.3"} {
		if strings.Contains(out, leak) {
			t.Errorf("log output leaked %q: %s", leak, out)
		}
	}

	entry := decodeLine(t, buf)
	if entry["msg"] != "user [REDACTED_EMAIL] wrote in" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["token"] != "dapi***" {
		t.Errorf("token = %v", entry["token"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("count = %v", entry["count"])
	}
}

func TestLogger_RedactionDisabled(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Format: "json"})

	logger.Info("contact", "email", "jane@example.org")
	if entry := decodeLine(t, buf); entry["email"] != "jane@example.org" {
		t.Errorf("email = %v, want unredacted", entry["email"])
	}
}

func TestLogger_ContextFields(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Format: "json", RedactPII: true})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithSession(ctx, "sess-9")
	ctx = WithLocale(ctx, "es")

	logger.InfoContext(ctx, "message received")

	entry := decodeLine(t, buf)
	want := map[string]string{"request_id": "req-1", "session": "sess-9", "locale": "es"}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
	if _, ok := entry["trace_id"]; ok {
		t.Error("trace_id should be omitted when absent")
	}
}

func TestLogger_WithRedactsBoundAttrs(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Format: "json", RedactPII: true})

	logger.With("user", "jane@example.org").Info("bound")
	if entry := decodeLine(t, buf); entry["user"] != "[REDACTED_EMAIL]" {
		t.Errorf("user = %v", entry["user"])
	}
}

func TestLogger_TextFormat(t *testing.T) {
	logger, buf := newTestLogger(t, Config{Format: "text"})

	logger.Error("failed", "kind", "timeout")
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "kind=timeout") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.LoggingConfig{
		Level:     "debug",
		Format:    "text",
		AddSource: true,
		RedactPII: true,
	})
	if cfg.Level != "debug" || cfg.Format != "text" || !cfg.AddSource || !cfg.RedactPII {
		t.Errorf("FromConfig() = %+v", cfg)
	}
}
