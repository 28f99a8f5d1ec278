package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Init("debug", "json", &buf)
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", l.GetLevel())
	}

	WithComponent("import").WithField("passes", 42).Info("stored pass log")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["component"] != "import" || entry["msg"] != "stored pass log" {
		t.Errorf("unexpected entry %v", entry)
	}
	if entry["passes"] != float64(42) {
		t.Errorf("expected passes=42, got %v", entry["passes"])
	}
}

func TestInitInvalidLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	l := Init("loud", "text", &buf)
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info fallback, got %s", l.GetLevel())
	}
	if !strings.Contains(buf.String(), "invalid_level=loud") {
		t.Errorf("expected a warning about the level, got %q", buf.String())
	}

	buf.Reset()
	Get().Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug line written at info level: %q", buf.String())
	}
}

// The level warning is written with the formatter of the same Init call,
// whatever format an earlier call left behind.
func TestInitWarningUsesNewFormat(t *testing.T) {
	var buf bytes.Buffer
	Init("info", "json", &buf)

	buf.Reset()
	Init("loud", "text", &buf)
	out := buf.String()
	if strings.HasPrefix(out, "{") || !strings.Contains(out, "invalid_level=loud") {
		t.Errorf("expected a text warning after switching from json, got %q", out)
	}

	buf.Reset()
	Init("loud", "json", &buf)
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON warning after switching from text, got %q: %v", buf.String(), err)
	}
	if entry["invalid_level"] != "loud" {
		t.Errorf("unexpected entry %v", entry)
	}
}
