package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestConfigure_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	Configure("debug", "json", &buf)
	defer Configure("info", "json", nil)

	Info("windows built", "windows", 3, "dropped", 1)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "windows built" {
		t.Errorf("Unexpected message: %v", entry["message"])
	}
	if entry["windows"] != float64(3) {
		t.Errorf("Expected windows=3, got %v", entry["windows"])
	}
	if entry["level"] != "info" {
		t.Errorf("Expected level info, got %v", entry["level"])
	}
}

func TestConfigure_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Configure("warn", "json", &buf)
	defer Configure("info", "json", nil)

	Debug("hidden")
	Info("hidden too")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below warn level, got %q", buf.String())
	}

	Error("embedder failed", errors.New("connection refused"))
	if !strings.Contains(buf.String(), "connection refused") {
		t.Errorf("Expected error text in output, got %q", buf.String())
	}
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure("chatty", "json", &buf)
	defer Configure("info", "json", nil)

	Debug("hidden")
	Info("shown")
	if !strings.Contains(buf.String(), "shown") || strings.Contains(buf.String(), "hidden") {
		t.Errorf("Expected info level filtering, got %q", buf.String())
	}
}
