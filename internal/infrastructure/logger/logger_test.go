package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/flashcard/internal/infrastructure/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %s", logger.GetLevel())
	}
	logger.WithField("card_id", 7).Debug("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["card_id"] != float64(7) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{}, &buf)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf("expected warn level, got %s", logger.GetLevel())
	}
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level: %q", buf.String())
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected level error")
	}
	if _, err := New(config.LogConfig{Format: "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected format error")
	}
}
