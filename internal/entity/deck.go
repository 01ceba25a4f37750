package entity

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/samber/lo"
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// ShuffleFunc adapts a plain function such as rand.Shuffle to Shuffler.
type ShuffleFunc func(n int, swap func(i, j int))

func (f ShuffleFunc) Shuffle(n int, swap func(i, j int)) { f(n, swap) }

// Deck is the aggregate owning every card and the id sequence.
// All mutations of a Flashcard go through its methods.
type Deck struct {
	cards  map[uint32]*Flashcard
	nextID uint32
	clock  func() time.Time
}

// DeckOption customises a Deck.
type DeckOption func(*Deck)

// WithClock overrides the time source used to stamp reviews.
func WithClock(clock func() time.Time) DeckOption {
	return func(d *Deck) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// NewDeck returns an empty deck whose first card gets id 1.
func NewDeck(opts ...DeckOption) *Deck {
	d := &Deck{
		cards:  make(map[uint32]*Flashcard),
		nextID: 1,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RestoreDeck rebuilds a deck from persisted state, enforcing the aggregate invariants.
func RestoreDeck(cards []Flashcard, nextID uint32, opts ...DeckOption) (*Deck, error) {
	d := NewDeck(opts...)
	d.nextID = nextID
	for _, card := range cards {
		if _, dup := d.cards[card.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate card id %d", ErrInvalidDeck, card.ID)
		}
		if card.ID >= nextID {
			return nil, fmt.Errorf("%w: card id %d is not below next_id %d", ErrInvalidDeck, card.ID, nextID)
		}
		if !card.Metadata.Difficulty.Valid() {
			return nil, fmt.Errorf("%w: card %d: %w", ErrInvalidDeck, card.ID, ErrUnknownDifficulty)
		}
		if card.Metadata.CorrectCount > card.Metadata.TimesReviewed {
			return nil, fmt.Errorf("%w: card %d has correct_count %d above times_reviewed %d",
				ErrInvalidDeck, card.ID, card.Metadata.CorrectCount, card.Metadata.TimesReviewed)
		}
		c := card
		d.cards[c.ID] = &c
	}
	return d, nil
}

// NextID is the id the next added card will receive.
func (d *Deck) NextID() uint32 { return d.nextID }

// Len returns the number of cards in the deck.
func (d *Deck) Len() int { return len(d.cards) }

// Full reports whether every card id has been handed out. A full deck can
// still be loaded, saved and quizzed, but AddCard must not be called on it.
func (d *Deck) Full() bool { return d.nextID == math.MaxUint32 }

// AddCard stores a new card with default metadata and returns its id.
// It panics on a full deck; callers check Full first.
func (d *Deck) AddCard(question, answer string) uint32 {
	if d.Full() {
		panic("entity: deck has no card ids left")
	}
	id := d.nextID
	d.cards[id] = &Flashcard{
		ID:       id,
		Question: question,
		Answer:   answer,
		Metadata: DefaultCardMetadata(),
	}
	d.nextID++
	return id
}

// Card returns a copy of the card with the given id.
func (d *Deck) Card(id uint32) (Flashcard, bool) {
	card, ok := d.cards[id]
	if !ok {
		return Flashcard{}, false
	}
	return *card, true
}

// Cards returns a snapshot of every card ordered by id.
func (d *Deck) Cards() []Flashcard {
	ids := d.sortedIDs()
	out := make([]Flashcard, 0, len(ids))
	for _, id := range ids {
		out = append(out, *d.cards[id])
	}
	return out
}

// DeleteCard removes the card and reports whether it existed. Ids are never reused.
func (d *Deck) DeleteCard(id uint32) bool {
	if _, ok := d.cards[id]; !ok {
		return false
	}
	delete(d.cards, id)
	return true
}

// UpdateCardDifficulty records one review outcome. Unknown ids are ignored.
func (d *Deck) UpdateCardDifficulty(id uint32, difficulty Difficulty, correct bool) {
	card, ok := d.cards[id]
	if !ok {
		return
	}
	card.Metadata.Difficulty = difficulty
	card.Metadata.TimesReviewed++
	if correct {
		card.Metadata.CorrectCount++
	}
	card.Metadata.LastReviewed = d.clock().UTC().Format(time.DateOnly)
}

// ResetAllStats replaces the metadata of every card with the defaults.
func (d *Deck) ResetAllStats() {
	for _, card := range d.cards {
		card.Metadata = DefaultCardMetadata()
	}
}

// RandomCardOrder returns every card id exactly once in the order produced by shuffler.
// Ids are sorted before shuffling so a seeded shuffler yields a reproducible order.
func (d *Deck) RandomCardOrder(shuffler Shuffler) []uint32 {
	ids := d.sortedIDs()
	if shuffler != nil {
		shuffler.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}
	return ids
}

// Stats aggregates review counters across the deck.
func (d *Deck) Stats() DeckStats {
	cards := lo.Values(d.cards)
	return DeckStats{
		TotalCards:   len(cards),
		TotalReviews: lo.SumBy(cards, func(c *Flashcard) uint64 { return uint64(c.Metadata.TimesReviewed) }),
		TotalCorrect: lo.SumBy(cards, func(c *Flashcard) uint64 { return uint64(c.Metadata.CorrectCount) }),
	}
}

func (d *Deck) sortedIDs() []uint32 {
	ids := lo.Keys(d.cards)
	slices.Sort(ids)
	return ids
}

// DeckStats summarises the review history of a whole deck.
type DeckStats struct {
	TotalCards   int
	TotalReviews uint64
	TotalCorrect uint64
}

// SuccessRate is the overall correct percentage, 0 when nothing was reviewed.
func (s DeckStats) SuccessRate() float64 {
	if s.TotalReviews == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalReviews) * 100
}
