package entity

import (
	"fmt"
	"strings"
)

// Difficulty is the most recent self-reported difficulty of a card.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty converts a case-insensitive name into a Difficulty.
func ParseDifficulty(value string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, value)
	}
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

func (d Difficulty) String() string { return string(d) }

// MarshalText rejects values outside the enumeration so they never reach disk.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(d))
	}
	return []byte(d), nil
}

// UnmarshalText accepts only the exact persisted names.
func (d *Difficulty) UnmarshalText(text []byte) error {
	v := Difficulty(text)
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDifficulty, string(text))
	}
	*d = v
	return nil
}

// CardMetadata holds the review statistics of a single card.
type CardMetadata struct {
	Difficulty    Difficulty
	TimesReviewed uint32
	CorrectCount  uint32
	// LastReviewed is a YYYY-MM-DD date, empty when the card was never rated.
	LastReviewed string
}

// DefaultCardMetadata returns the metadata every new or reset card starts with.
func DefaultCardMetadata() CardMetadata {
	return CardMetadata{Difficulty: DifficultyMedium}
}

// Reviewed reports whether the card has at least one recorded rating.
func (m CardMetadata) Reviewed() bool { return m.TimesReviewed > 0 }

// SuccessRate returns correct/reviewed as a percentage, 0 when never reviewed.
func (m CardMetadata) SuccessRate() float64 {
	if m.TimesReviewed == 0 {
		return 0
	}
	return float64(m.CorrectCount) / float64(m.TimesReviewed) * 100
}

// Flashcard is a question/answer pair plus its review metadata.
type Flashcard struct {
	ID       uint32
	Question string
	Answer   string
	Metadata CardMetadata
}
