package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Deck.File != "flashcards.json" || cfg.Storage.Driver != "json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" || cfg.Quiz.Seed != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	t.Setenv("FLASHCARD_DECK_FILE", "/tmp/spanish.json")
	t.Setenv("FLASHCARD_STORAGE_DRIVER", "sqlite3")
	t.Setenv("FLASHCARD_QUIZ_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Deck.File != "/tmp/spanish.json" || cfg.Storage.Driver != "sqlite3" || cfg.Quiz.Seed != 42 {
		t.Fatalf("environment not applied: %+v", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Chdir(dir)
	content := "deck:\n  file: french.json\nlog:\n  level: debug\n  format: json\n"
	if err := os.WriteFile(filepath.Join(dir, ".flashcard.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Deck.File != "french.json" || cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("config file not applied: %+v", cfg)
	}
}

func TestLoadRejectsEmptyDeckFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Chdir(t.TempDir())
	viper.Set("deck.file", "  ")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for empty deck file")
	}
}
