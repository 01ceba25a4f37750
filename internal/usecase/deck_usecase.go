package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/flashcard/internal/entity"
	"github.com/eslsoft/flashcard/internal/repository"
	"github.com/eslsoft/flashcard/internal/usecase/quiz"
)

// DeckUsecase exposes one operation per CLI verb. Every mutating operation
// loads the deck, applies the change through entity.Deck and saves it back.
type DeckUsecase interface {
	Open(ctx context.Context) (*entity.Deck, error)
	Save(ctx context.Context, deck *entity.Deck) error
	AddCard(ctx context.Context, question, answer string) (uint32, error)
	ListCards(ctx context.Context, query *repository.ListCardsQuery) ([]entity.Flashcard, entity.DeckStats, error)
	GetCard(ctx context.Context, id uint32) (entity.Flashcard, bool, error)
	DeleteCard(ctx context.Context, id uint32) (bool, error)
	ResetStats(ctx context.Context, confirm Confirmer) (ResetOutcome, error)
	Stats(ctx context.Context) (entity.DeckStats, error)
	Quiz(ctx context.Context, runner QuizRunner) (quiz.Result, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer func() (bool, error)

// QuizRunner drives an interactive session against a loaded deck.
type QuizRunner interface {
	Run(ctx context.Context, deck *entity.Deck) (quiz.Result, error)
}

// ResetOutcome tells the caller what ResetStats did.
type ResetOutcome int

const (
	ResetEmptyDeck ResetOutcome = iota
	ResetCancelled
	ResetDone
)

// Option customises the deck usecase.
type Option func(*deckUsecase)

// WithLogger sets the structured logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(u *deckUsecase) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewDeckUsecase wires the repository with default behaviour.
func NewDeckUsecase(repo repository.DeckRepository, opts ...Option) DeckUsecase {
	u := &deckUsecase{
		repo:   repo,
		clock:  time.Now,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type deckUsecase struct {
	repo   repository.DeckRepository
	clock  func() time.Time
	logger logrus.FieldLogger
}

// Open loads the deck, substituting an empty one when nothing was saved yet.
func (u *deckUsecase) Open(ctx context.Context) (*entity.Deck, error) {
	deck, err := u.repo.Load(ctx)
	if err == nil {
		u.logger.WithFields(logrus.Fields{"path": u.repo.Location(), "cards": deck.Len()}).Debug("deck loaded")
		return deck, nil
	}
	if errors.Is(err, entity.ErrDeckNotFound) {
		u.logger.WithField("path", u.repo.Location()).Debug("no deck yet, starting empty")
		return entity.NewDeck(entity.WithClock(u.clock)), nil
	}
	return nil, err
}

func (u *deckUsecase) Save(ctx context.Context, deck *entity.Deck) error {
	if err := u.repo.Save(ctx, deck); err != nil {
		return err
	}
	u.logger.WithFields(logrus.Fields{"path": u.repo.Location(), "cards": deck.Len(), "next_id": deck.NextID()}).Debug("deck saved")
	return nil
}

func (u *deckUsecase) AddCard(ctx context.Context, question, answer string) (uint32, error) {
	deck, err := u.Open(ctx)
	if err != nil {
		return 0, err
	}
	if deck.Full() {
		return 0, entity.ErrDeckFull
	}
	id := deck.AddCard(question, answer)
	if err := u.Save(ctx, deck); err != nil {
		return 0, err
	}
	u.logger.WithField("card_id", id).Info("card added")
	return id, nil
}

func (u *deckUsecase) ListCards(ctx context.Context, query *repository.ListCardsQuery) ([]entity.Flashcard, entity.DeckStats, error) {
	if query == nil {
		query = &repository.ListCardsQuery{}
	}
	selection, err := parseCardQuery(query)
	if err != nil {
		return nil, entity.DeckStats{}, err
	}
	deck, err := u.Open(ctx)
	if err != nil {
		return nil, entity.DeckStats{}, err
	}
	return selection.apply(deck.Cards()), deck.Stats(), nil
}

func (u *deckUsecase) GetCard(ctx context.Context, id uint32) (entity.Flashcard, bool, error) {
	deck, err := u.Open(ctx)
	if err != nil {
		return entity.Flashcard{}, false, err
	}
	card, ok := deck.Card(id)
	return card, ok, nil
}

// DeleteCard only writes the deck back when a card was actually removed.
func (u *deckUsecase) DeleteCard(ctx context.Context, id uint32) (bool, error) {
	deck, err := u.Open(ctx)
	if err != nil {
		return false, err
	}
	if !deck.DeleteCard(id) {
		return false, nil
	}
	if err := u.Save(ctx, deck); err != nil {
		return false, err
	}
	u.logger.WithField("card_id", id).Info("card deleted")
	return true, nil
}

func (u *deckUsecase) ResetStats(ctx context.Context, confirm Confirmer) (ResetOutcome, error) {
	deck, err := u.Open(ctx)
	if err != nil {
		return ResetEmptyDeck, err
	}
	if deck.Len() == 0 {
		return ResetEmptyDeck, nil
	}
	if confirm != nil {
		ok, err := confirm()
		if err != nil {
			return ResetCancelled, err
		}
		if !ok {
			return ResetCancelled, nil
		}
	}
	deck.ResetAllStats()
	if err := u.Save(ctx, deck); err != nil {
		return ResetCancelled, err
	}
	u.logger.WithField("cards", deck.Len()).Info("statistics reset")
	return ResetDone, nil
}

func (u *deckUsecase) Stats(ctx context.Context) (entity.DeckStats, error) {
	deck, err := u.Open(ctx)
	if err != nil {
		return entity.DeckStats{}, err
	}
	return deck.Stats(), nil
}

// Quiz runs a session and saves afterwards, including after an early quit.
// An empty deck is reported without running or saving.
func (u *deckUsecase) Quiz(ctx context.Context, runner QuizRunner) (quiz.Result, error) {
	deck, err := u.Open(ctx)
	if err != nil {
		return quiz.Result{}, err
	}
	if deck.Len() == 0 {
		return quiz.Result{Outcome: quiz.OutcomeNothingToQuiz}, nil
	}
	result, err := runner.Run(ctx, deck)
	if err != nil {
		return result, err
	}
	if err := u.Save(ctx, deck); err != nil {
		return result, err
	}
	return result, nil
}
