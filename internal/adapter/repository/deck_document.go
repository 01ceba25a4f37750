package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/eslsoft/flashcard/internal/entity"
)

// deckDocument is the on-disk shape of a deck. Pointers mark required fields
// so a missing key can be told apart from a zero value.
type deckDocument struct {
	Cards  map[string]cardDocument `json:"cards"`
	NextID *uint32                 `json:"next_id"`
}

type cardDocument struct {
	ID       *uint32           `json:"id"`
	Question *string           `json:"question"`
	Answer   *string           `json:"answer"`
	Metadata *metadataDocument `json:"metadata"`
}

type metadataDocument struct {
	Difficulty    *entity.Difficulty `json:"difficulty"`
	TimesReviewed *uint32            `json:"times_reviewed"`
	CorrectCount  *uint32            `json:"correct_count"`
	LastReviewed  *string            `json:"last_reviewed"`
}

// DeckCodec converts decks to and from the JSON document format.
type DeckCodec struct {
	clock func() time.Time
}

// NewDeckCodec returns a codec; decoded decks stamp reviews with clock.
func NewDeckCodec(clock func() time.Time) *DeckCodec {
	if clock == nil {
		clock = time.Now
	}
	return &DeckCodec{clock: clock}
}

// Marshal renders the deck as indented JSON.
func (c *DeckCodec) Marshal(deck *entity.Deck) ([]byte, error) {
	doc := deckDocument{
		Cards:  make(map[string]cardDocument, deck.Len()),
		NextID: lo.ToPtr(deck.NextID()),
	}
	for _, card := range deck.Cards() {
		var lastReviewed *string
		if card.Metadata.LastReviewed != "" {
			lastReviewed = lo.ToPtr(card.Metadata.LastReviewed)
		}
		doc.Cards[strconv.FormatUint(uint64(card.ID), 10)] = cardDocument{
			ID:       lo.ToPtr(card.ID),
			Question: lo.ToPtr(card.Question),
			Answer:   lo.ToPtr(card.Answer),
			Metadata: &metadataDocument{
				Difficulty:    lo.ToPtr(card.Metadata.Difficulty),
				TimesReviewed: lo.ToPtr(card.Metadata.TimesReviewed),
				CorrectCount:  lo.ToPtr(card.Metadata.CorrectCount),
				LastReviewed:  lastReviewed,
			},
		}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode deck: %w", err)
	}
	return data, nil
}

// Encode writes the marshalled deck to w.
func (c *DeckCodec) Encode(w io.Writer, deck *entity.Deck) error {
	data, err := c.Marshal(deck)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}

// Unmarshal parses and validates a deck document. Every failure wraps entity.ErrDeckFormat.
func (c *DeckCodec) Unmarshal(data []byte) (*entity.Deck, error) {
	var doc deckDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, formatError(err)
	}
	if doc.Cards == nil {
		return nil, formatError(errors.New(`missing field "cards"`))
	}
	if doc.NextID == nil {
		return nil, formatError(errors.New(`missing field "next_id"`))
	}

	cards := make([]entity.Flashcard, 0, len(doc.Cards))
	for key, cd := range doc.Cards {
		card, err := cd.toEntity(key)
		if err != nil {
			return nil, formatError(err)
		}
		cards = append(cards, card)
	}

	deck, err := entity.RestoreDeck(cards, *doc.NextID, entity.WithClock(c.clock))
	if err != nil {
		return nil, formatError(err)
	}
	return deck, nil
}

// Decode reads a whole deck document from r.
func (c *DeckCodec) Decode(r io.Reader) (*entity.Deck, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return c.Unmarshal(data)
}

func (cd cardDocument) toEntity(key string) (entity.Flashcard, error) {
	switch {
	case cd.ID == nil:
		return entity.Flashcard{}, fmt.Errorf(`card %q: missing field "id"`, key)
	case cd.Question == nil:
		return entity.Flashcard{}, fmt.Errorf(`card %q: missing field "question"`, key)
	case cd.Answer == nil:
		return entity.Flashcard{}, fmt.Errorf(`card %q: missing field "answer"`, key)
	case cd.Metadata == nil:
		return entity.Flashcard{}, fmt.Errorf(`card %q: missing field "metadata"`, key)
	}
	if key != strconv.FormatUint(uint64(*cd.ID), 10) {
		return entity.Flashcard{}, fmt.Errorf("card key %q does not match id %d", key, *cd.ID)
	}

	md := cd.Metadata
	switch {
	case md.Difficulty == nil:
		return entity.Flashcard{}, fmt.Errorf(`card %q: missing field "difficulty"`, key)
	case md.TimesReviewed == nil:
		return entity.Flashcard{}, fmt.Errorf(`card %q: missing field "times_reviewed"`, key)
	case md.CorrectCount == nil:
		return entity.Flashcard{}, fmt.Errorf(`card %q: missing field "correct_count"`, key)
	}

	var lastReviewed string
	if md.LastReviewed != nil {
		if _, err := time.Parse(time.DateOnly, *md.LastReviewed); err != nil {
			return entity.Flashcard{}, fmt.Errorf("card %q: last_reviewed %q is not YYYY-MM-DD", key, *md.LastReviewed)
		}
		lastReviewed = *md.LastReviewed
	}

	return entity.Flashcard{
		ID:       *cd.ID,
		Question: *cd.Question,
		Answer:   *cd.Answer,
		Metadata: entity.CardMetadata{
			Difficulty:    *md.Difficulty,
			TimesReviewed: *md.TimesReviewed,
			CorrectCount:  *md.CorrectCount,
			LastReviewed:  lastReviewed,
		},
	}, nil
}

func formatError(err error) error {
	return fmt.Errorf("%w: %w", entity.ErrDeckFormat, err)
}
