package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/eslsoft/flashcard/internal/entity"
	"github.com/eslsoft/flashcard/internal/repository"
)

// JSONDeckRepository keeps a deck in a single JSON file.
// Saves overwrite the file in place; there is no temp-file swap.
type JSONDeckRepository struct {
	path  string
	codec *DeckCodec
}

// NewJSONDeckRepository constructs a file-backed repository.
func NewJSONDeckRepository(path string, codec *DeckCodec) repository.DeckRepository {
	if codec == nil {
		codec = NewDeckCodec(nil)
	}
	return &JSONDeckRepository{path: filepath.Clean(path), codec: codec}
}

func (r *JSONDeckRepository) Location() string { return r.path }

func (r *JSONDeckRepository) Load(ctx context.Context) (*entity.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", entity.ErrDeckNotFound, err)
		}
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	deck, err := r.codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return deck, nil
}

func (r *JSONDeckRepository) Save(ctx context.Context, deck *entity.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := r.codec.Marshal(deck)
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write deck file: %w", err)
	}
	return nil
}
