package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/flashcard/internal/entity"
)

// Codec serialises a whole deck document.
type Codec interface {
	Encode(w io.Writer, deck *entity.Deck) error
	Decode(r io.Reader) (*entity.Deck, error)
}

// Mode selects how an imported deck is combined with the current one.
type Mode string

const (
	// ModeMerge appends imported cards as new cards with fresh statistics.
	ModeMerge Mode = "merge"
	// ModeReplace swaps the current deck for the imported one, statistics included.
	ModeReplace Mode = "replace"
)

// ParseMode validates a user supplied mode, defaulting to merge.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("backup: unknown import mode %q", value)
	}
}

type Service struct {
	codec  Codec
	logger logrus.FieldLogger
}

type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a backup service around codec.
func NewService(codec Codec, opts ...Option) (*Service, error) {
	if codec == nil {
		return nil, errors.New("backup: codec is required")
	}
	svc := &Service{codec: codec, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Export writes the full deck document to w.
func (s *Service) Export(ctx context.Context, w io.Writer, deck *entity.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.codec.Encode(w, deck); err != nil {
		return fmt.Errorf("export deck: %w", err)
	}
	s.logger.WithField("cards", deck.Len()).Info("deck exported")
	return nil
}

type ImportOption func(*importConfig)

type importConfig struct {
	mode Mode
}

// WithMode selects merge or replace semantics.
func WithMode(mode Mode) ImportOption {
	return func(cfg *importConfig) {
		if mode != "" {
			cfg.mode = mode
		}
	}
}

// Report describes what an import did.
type Report struct {
	Mode     Mode
	Imported int
	Skipped  int
}

// Import reads a deck document from r and combines it with current. It returns
// the deck the caller should persist: current itself for merges, the decoded
// deck for replacements. Nothing is saved here.
func (s *Service) Import(ctx context.Context, r io.Reader, current *entity.Deck, opts ...ImportOption) (*entity.Deck, Report, error) {
	cfg := importConfig{mode: ModeMerge}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := ctx.Err(); err != nil {
		return nil, Report{}, err
	}

	incoming, err := s.codec.Decode(r)
	if err != nil {
		return nil, Report{}, fmt.Errorf("import deck: %w", err)
	}

	report := Report{Mode: cfg.mode}
	var result *entity.Deck
	switch cfg.mode {
	case ModeReplace:
		report.Imported = incoming.Len()
		result = incoming
	case ModeMerge:
		seen := make(map[cardKey]struct{}, current.Len()+incoming.Len())
		for _, card := range current.Cards() {
			seen[keyOf(card)] = struct{}{}
		}
		for _, card := range incoming.Cards() {
			key := keyOf(card)
			if _, dup := seen[key]; dup {
				report.Skipped++
				continue
			}
			if current.Full() {
				return nil, Report{}, fmt.Errorf("import deck: %w", entity.ErrDeckFull)
			}
			seen[key] = struct{}{}
			current.AddCard(card.Question, card.Answer)
			report.Imported++
		}
		result = current
	default:
		return nil, Report{}, fmt.Errorf("backup: unknown import mode %q", cfg.mode)
	}

	s.logger.WithFields(logrus.Fields{
		"mode":     string(report.Mode),
		"imported": report.Imported,
		"skipped":  report.Skipped,
	}).Info("deck imported")
	return result, report, nil
}

type cardKey struct {
	question string
	answer   string
}

func keyOf(card entity.Flashcard) cardKey {
	return cardKey{question: card.Question, answer: card.Answer}
}
