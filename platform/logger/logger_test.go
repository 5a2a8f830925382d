package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestJSONLoggerRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Env: "production", Writer: &buf})

	log.Info("login", slog.String("email", "ana@example.com"), slog.String("password", "hunter2"))

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Fatalf("password leaked into log output: %s", out)
	}
	if !strings.Contains(out, "ana@example.com") {
		t.Fatalf("expected non-secret attribute to survive, got %s", out)
	}
}

func TestAuditDroppedLogsAtWarn(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Env: "production", Writer: &buf})

	log.AuditDropped("create_user", "new@example.com", errors.New("connection reset"))

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("expected warn level, got %s", out)
	}
	if !strings.Contains(out, "create_user") || !strings.Contains(out, "connection reset") {
		t.Fatalf("expected action and cause in output, got %s", out)
	}
}

func TestSlogToCharmLevelClampsExtremes(t *testing.T) {
	if got := slogToCharmLevel(slog.Level(-12)); got.String() != "debug" {
		t.Fatalf("expected debug, got %s", got)
	}
	if got := slogToCharmLevel(slog.Level(12)); got.String() != "error" {
		t.Fatalf("expected error, got %s", got)
	}
}
