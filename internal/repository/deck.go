package repository

import (
	"context"

	"github.com/eslsoft/flashcard/internal/entity"
)

// ListCardsQuery holds parameters for listing cards of a deck.
type ListCardsQuery struct {
	FilterOrder
}

// DeckRepository abstracts where a deck lives so usecases stay storage agnostic.
//
// Load returns an error wrapping entity.ErrDeckNotFound when nothing has been
// saved yet and entity.ErrDeckFormat when the stored content is malformed.
// Save replaces whatever was stored before.
type DeckRepository interface {
	Load(ctx context.Context) (*entity.Deck, error)
	Save(ctx context.Context, deck *entity.Deck) error
	Location() string
}
