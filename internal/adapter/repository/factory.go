package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/eslsoft/flashcard/internal/repository"
)

const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite3"
)

// NormalizeDriver maps user supplied driver names onto the supported set.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "json":
		return DriverJSON, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// NewDeckRepository returns the store for driver rooted at path.
func NewDeckRepository(driver, path string, clock func() time.Time) (repository.DeckRepository, error) {
	normalized, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("deck file path is required")
	}
	switch normalized {
	case DriverSQLite:
		return NewSQLiteDeckRepository(path, clock), nil
	default:
		return NewJSONDeckRepository(path, NewDeckCodec(clock)), nil
	}
}
