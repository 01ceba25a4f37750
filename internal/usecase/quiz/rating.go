package quiz

import (
	"strings"

	"github.com/eslsoft/flashcard/internal/entity"
)

// Rating is the user's single-character judgement of a quiz turn.
type Rating string

const (
	RatingCorrect Rating = "c" // correct and easy
	RatingGood    Rating = "g" // correct, medium effort
	RatingWrong   Rating = "w"
	RatingQuit    Rating = "q"
)

// ParseRating trims and lower-cases input before matching it against the rating keys.
func ParseRating(input string) (Rating, bool) {
	switch r := Rating(strings.ToLower(strings.TrimSpace(input))); r {
	case RatingCorrect, RatingGood, RatingWrong, RatingQuit:
		return r, true
	default:
		return "", false
	}
}

// Outcome maps a rating to the difficulty it records and whether it counts as correct.
// Both c and g count as correct; they differ only in the stored difficulty.
func (r Rating) Outcome() (entity.Difficulty, bool) {
	switch r {
	case RatingCorrect:
		return entity.DifficultyEasy, true
	case RatingGood:
		return entity.DifficultyMedium, true
	default:
		return entity.DifficultyHard, false
	}
}
