package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/flashcard/internal/entity"
	"github.com/eslsoft/flashcard/internal/repository"
)

var testNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func seededDeck(t *testing.T) *entity.Deck {
	t.Helper()
	d := entity.NewDeck(entity.WithClock(testClock))
	a := d.AddCard("2+2?", "4")
	b := d.AddCard("Capital of Peru?", "Lima")
	c := d.AddCard("unicode ✓ \"quoted\"", "line\nbreak")
	d.UpdateCardDifficulty(a, entity.DifficultyEasy, true)
	d.UpdateCardDifficulty(b, entity.DifficultyHard, false)
	d.UpdateCardDifficulty(b, entity.DifficultyMedium, true)
	require.True(t, d.DeleteCard(c))
	d.AddCard("never reviewed", "yet")
	return d
}

func assertDeckEqual(t *testing.T, want, got *entity.Deck) {
	t.Helper()
	assert.Equal(t, want.NextID(), got.NextID())
	assert.Equal(t, want.Cards(), got.Cards())
}

type storeBuilder func(t *testing.T, dir string) repository.DeckRepository

func stores() map[string]storeBuilder {
	return map[string]storeBuilder{
		DriverJSON: func(_ *testing.T, dir string) repository.DeckRepository {
			return NewJSONDeckRepository(filepath.Join(dir, "flashcards.json"), NewDeckCodec(testClock))
		},
		DriverSQLite: func(t *testing.T, dir string) repository.DeckRepository {
			requireSQLite(t)
			return NewSQLiteDeckRepository(filepath.Join(dir, "flashcards.db"), testClock)
		},
	}
}

func TestDeckRepositoryRoundTrip(t *testing.T) {
	for name, build := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t, t.TempDir())

			original := seededDeck(t)
			require.NoError(t, repo.Save(ctx, original))

			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			assertDeckEqual(t, original, loaded)
		})
	}
}

func TestDeckRepositoryRoundTripEmptyDeckAfterDeletes(t *testing.T) {
	for name, build := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t, t.TempDir())

			original := entity.NewDeck()
			original.DeleteCard(original.AddCard("q", "a"))
			original.DeleteCard(original.AddCard("q", "a"))
			require.NoError(t, repo.Save(ctx, original))

			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, loaded.Len())
			assert.Equal(t, uint32(3), loaded.NextID())
		})
	}
}

func TestDeckRepositorySaveOverwrites(t *testing.T) {
	for name, build := range stores() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := build(t, t.TempDir())

			require.NoError(t, repo.Save(ctx, seededDeck(t)))
			smaller := entity.NewDeck()
			smaller.AddCard("only", "one")
			require.NoError(t, repo.Save(ctx, smaller))

			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			assertDeckEqual(t, smaller, loaded)
		})
	}
}

func TestDeckRepositoryLoadMissing(t *testing.T) {
	for name, build := range stores() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			repo := build(t, dir)
			_, err := repo.Load(context.Background())
			require.ErrorIs(t, err, entity.ErrDeckNotFound)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "load must not create the store")
		})
	}
}

func TestDeckRepositorySaveIntoMissingDirectory(t *testing.T) {
	for name, build := range stores() {
		t.Run(name, func(t *testing.T) {
			repo := build(t, filepath.Join(t.TempDir(), "does", "not", "exist"))
			deck := entity.NewDeck()
			deck.AddCard("q", "a")

			err := repo.Save(context.Background(), deck)
			require.Error(t, err)
			assert.NotErrorIs(t, err, entity.ErrDeckFormat)

			// the in-memory deck stays usable
			id := deck.AddCard("after", "failure")
			assert.Equal(t, uint32(2), id)
			assert.Equal(t, 2, deck.Len())
		})
	}
}

func TestJSONDeckRepositoryWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	repo := NewJSONDeckRepository(path, NewDeckCodec(testClock))

	d := entity.NewDeck(entity.WithClock(testClock))
	id := d.AddCard("2+2?", "4")
	d.AddCard("fresh", "card")
	d.UpdateCardDifficulty(id, entity.DifficultyEasy, true)
	require.NoError(t, repo.Save(context.Background(), d))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
	  "cards": {
	    "1": {"id": 1, "question": "2+2?", "answer": "4",
	          "metadata": {"difficulty": "Easy", "times_reviewed": 1, "correct_count": 1, "last_reviewed": "2025-06-01"}},
	    "2": {"id": 2, "question": "fresh", "answer": "card",
	          "metadata": {"difficulty": "Medium", "times_reviewed": 0, "correct_count": 0, "last_reviewed": null}}
	  },
	  "next_id": 3
	}`, string(raw))
}

func TestDeckCodecRejectsMalformedDocuments(t *testing.T) {
	codec := NewDeckCodec(testClock)
	cases := map[string]string{
		"not json":          `{"cards": `,
		"missing cards":     `{"next_id": 1}`,
		"missing next_id":   `{"cards": {}}`,
		"wrong type":        `{"cards": {}, "next_id": "one"}`,
		"negative next_id":  `{"cards": {}, "next_id": -1}`,
		"unknown difficulty": `{"cards": {"1": {"id": 1, "question": "q", "answer": "a",
			"metadata": {"difficulty": "Brutal", "times_reviewed": 0, "correct_count": 0, "last_reviewed": null}}}, "next_id": 2}`,
		"missing metadata": `{"cards": {"1": {"id": 1, "question": "q", "answer": "a"}}, "next_id": 2}`,
		"missing counter": `{"cards": {"1": {"id": 1, "question": "q", "answer": "a",
			"metadata": {"difficulty": "Easy", "correct_count": 0, "last_reviewed": null}}}, "next_id": 2}`,
		"key mismatch": `{"cards": {"7": {"id": 1, "question": "q", "answer": "a",
			"metadata": {"difficulty": "Easy", "times_reviewed": 0, "correct_count": 0, "last_reviewed": null}}}, "next_id": 8}`,
		"id not below next_id": `{"cards": {"1": {"id": 1, "question": "q", "answer": "a",
			"metadata": {"difficulty": "Easy", "times_reviewed": 0, "correct_count": 0, "last_reviewed": null}}}, "next_id": 1}`,
		"correct above reviewed": `{"cards": {"1": {"id": 1, "question": "q", "answer": "a",
			"metadata": {"difficulty": "Easy", "times_reviewed": 1, "correct_count": 2, "last_reviewed": null}}}, "next_id": 2}`,
		"bad date": `{"cards": {"1": {"id": 1, "question": "q", "answer": "a",
			"metadata": {"difficulty": "Easy", "times_reviewed": 1, "correct_count": 1, "last_reviewed": "yesterday"}}}, "next_id": 2}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Unmarshal([]byte(doc))
			require.ErrorIs(t, err, entity.ErrDeckFormat)
		})
	}
}

func TestDeckCodecAcceptsMissingLastReviewed(t *testing.T) {
	codec := NewDeckCodec(testClock)
	deck, err := codec.Unmarshal([]byte(`{"cards": {"3": {"id": 3, "question": "q", "answer": "a",
		"metadata": {"difficulty": "Hard", "times_reviewed": 2, "correct_count": 0}}}, "next_id": 9}`))
	require.NoError(t, err)

	card, ok := deck.Card(3)
	require.True(t, ok)
	assert.Equal(t, entity.DifficultyHard, card.Metadata.Difficulty)
	assert.Empty(t, card.Metadata.LastReviewed)
	assert.Equal(t, uint32(9), deck.NextID())
}

func TestJSONDeckRepositoryLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := NewJSONDeckRepository(path, nil).Load(context.Background())
	require.ErrorIs(t, err, entity.ErrDeckFormat)
}

func TestSQLiteDeckRepositoryLoadForeignDatabase(t *testing.T) {
	requireSQLite(t)
	path := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewSQLiteDeckRepository(path, testClock).Load(context.Background())
	require.ErrorIs(t, err, entity.ErrDeckFormat)
}

func TestNewDeckRepository(t *testing.T) {
	repo, err := NewDeckRepository("", "deck.json", nil)
	require.NoError(t, err)
	assert.IsType(t, &JSONDeckRepository{}, repo)

	repo, err = NewDeckRepository("SQLite", "deck.db", nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteDeckRepository{}, repo)
	assert.Equal(t, "deck.db", repo.Location())

	_, err = NewDeckRepository("postgres", "deck", nil)
	require.Error(t, err)

	_, err = NewDeckRepository("json", "  ", nil)
	require.Error(t, err)
}

func requireSQLite(t *testing.T) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Skipf("skipping sqlite-dependent tests: %v", err)
	}
}
