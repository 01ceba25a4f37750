package quiz

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/flashcard/internal/entity"
)

// Outcome is the terminal state a session ended in.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeAborted
	OutcomeNothingToQuiz
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeAborted:
		return "aborted"
	case OutcomeNothingToQuiz:
		return "nothing_to_quiz"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result counts the completed turns of a session. A card abandoned with q
// is in neither count.
type Result struct {
	SessionID string
	Outcome   Outcome
	Attempted int
	Correct   int
}

// Percent returns 100*Correct/Attempted, or 0 when nothing was attempted.
func (r Result) Percent() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Attempted) * 100
}

// Summary renders the score line, e.g. "0/1 correct (0.0%)".
func (r Result) Summary() string {
	return fmt.Sprintf("%d/%d correct (%.1f%%)", r.Correct, r.Attempted, r.Percent())
}

type state int

const (
	stateNotStarted state = iota
	statePresenting
	stateRevealed
	stateRating
	stateSummary
	stateAborted
)

// Session walks a deck once in shuffled order: question, reveal, rating.
// It mutates the deck through UpdateCardDifficulty and never persists it.
type Session struct {
	in       *bufio.Reader
	out      io.Writer
	shuffler entity.Shuffler
	logger   logrus.FieldLogger
	newID    func() string
}

// Option customises a Session.
type Option func(*Session)

// WithShuffler replaces the process-wide random source used to order cards.
func WithShuffler(shuffler entity.Shuffler) Option {
	return func(s *Session) {
		if shuffler != nil {
			s.shuffler = shuffler
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession reads answers from in and writes prompts to out.
func NewSession(in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		in:       bufio.NewReader(in),
		out:      out,
		shuffler: entity.ShuffleFunc(rand.Shuffle),
		logger:   logrus.StandardLogger(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one quiz over deck. Closed input ends the session as if q was
// entered; only read failures other than EOF are errors. The context is not
// consulted: a session ends through q, closed input or process termination.
func (s *Session) Run(_ context.Context, deck *entity.Deck) (Result, error) {
	result := Result{SessionID: s.newID()}
	log := s.logger.WithField("session_id", result.SessionID)

	var (
		order []uint32
		pos   int
		card  entity.Flashcard
		st    = stateNotStarted
	)
	for {
		switch st {
		case stateNotStarted:
			if deck.Len() == 0 {
				s.printf("No flashcards to quiz! Add some first.\n")
				result.Outcome = OutcomeNothingToQuiz
				return result, nil
			}
			order = deck.RandomCardOrder(s.shuffler)
			log.WithField("cards", len(order)).Debug("quiz started")
			s.printf("Starting quiz! Press Enter to see the answer, then rate your performance:\n")
			s.printf("Ratings: (c)orrect + easy, (g)ot it but medium, (w)rong/hard, (q)uit\n\n")
			st = statePresenting

		case statePresenting:
			card, _ = deck.Card(order[pos])
			s.printf("--- Card %d/%d ---\n", pos+1, len(order))
			s.printf("Question: %s\n", card.Question)
			s.printf("Press Enter to reveal answer...")
			if _, err := s.readLine(); err != nil {
				if !errors.Is(err, io.EOF) {
					return result, err
				}
				st = stateAborted
				continue
			}
			st = stateRevealed

		case stateRevealed:
			s.printf("Answer: %s\n\n", card.Answer)
			st = stateRating

		case stateRating:
			s.printf("Rate your performance (c/g/w/q): ")
			line, err := s.readLine()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					return result, err
				}
				st = stateAborted
				continue
			}
			rating, ok := ParseRating(line)
			if !ok {
				s.printf("Invalid input! Use: c (correct/easy), g (got it/medium), w (wrong/hard), q (quit)\n")
				continue
			}
			if rating == RatingQuit {
				st = stateAborted
				continue
			}

			difficulty, correct := rating.Outcome()
			deck.UpdateCardDifficulty(card.ID, difficulty, correct)
			result.Attempted++
			if correct {
				result.Correct++
			}
			log.WithFields(logrus.Fields{"card_id": card.ID, "rating": string(rating)}).Debug("card rated")
			s.printf("%s\n\n", feedback(rating))

			pos++
			if pos < len(order) {
				st = statePresenting
			} else {
				st = stateSummary
			}

		case stateSummary, stateAborted:
			result.Outcome = OutcomeCompleted
			if st == stateAborted {
				result.Outcome = OutcomeAborted
				s.printf("Quiz ended early!\n")
			}
			s.printf("Quiz Complete!\n")
			s.printf("Results: %s\n", result.Summary())
			log.WithFields(logrus.Fields{
				"outcome":   result.Outcome.String(),
				"attempted": result.Attempted,
				"correct":   result.Correct,
			}).Info("quiz finished")
			return result, nil
		}
	}
}

func feedback(r Rating) string {
	switch r {
	case RatingCorrect:
		return "Marked as correct & easy!"
	case RatingGood:
		return "Marked as correct but medium difficulty!"
	default:
		return "Marked as hard - review this one more!"
	}
}

// readLine returns the next line without its terminator. A final line without
// a newline is still returned; io.EOF is reported only when nothing was read.
func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
