package entity

import "errors"

// Domain errors for the deck aggregate and its persistence.
var (
	ErrDeckNotFound      = errors.New("deck not found")
	ErrDeckFormat        = errors.New("invalid deck format")
	ErrInvalidDeck       = errors.New("invalid deck")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrDeckFull          = errors.New("deck has no card ids left")
)
