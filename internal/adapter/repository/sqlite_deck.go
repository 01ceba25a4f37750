package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/eslsoft/flashcard/internal/entity"
	"github.com/eslsoft/flashcard/internal/repository"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS deck (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	next_id INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cards (
	id             INTEGER PRIMARY KEY,
	question       TEXT    NOT NULL,
	answer         TEXT    NOT NULL,
	difficulty     TEXT    NOT NULL,
	times_reviewed INTEGER NOT NULL DEFAULT 0,
	correct_count  INTEGER NOT NULL DEFAULT 0,
	last_reviewed  TEXT
);`

// SQLiteDeckRepository keeps a deck in a local SQLite database file.
type SQLiteDeckRepository struct {
	path  string
	clock func() time.Time
}

// NewSQLiteDeckRepository constructs a SQLite-backed repository.
func NewSQLiteDeckRepository(path string, clock func() time.Time) repository.DeckRepository {
	if clock == nil {
		clock = time.Now
	}
	return &SQLiteDeckRepository{path: filepath.Clean(path), clock: clock}
}

func (r *SQLiteDeckRepository) Location() string { return r.path }

func (r *SQLiteDeckRepository) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+r.path+"?_fk=1")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

func (r *SQLiteDeckRepository) Load(ctx context.Context) (*entity.Deck, error) {
	// sqlite would silently create a missing file; check first.
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", entity.ErrDeckNotFound, err)
		}
		return nil, fmt.Errorf("stat deck db: %w", err)
	}

	db, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var nextID int64
	err = db.QueryRowContext(ctx, `SELECT next_id FROM deck WHERE id = 1`).Scan(&nextID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: deck row missing", entity.ErrDeckFormat)
		}
		return nil, fmt.Errorf("%w: read deck row: %w", entity.ErrDeckFormat, err)
	}
	if nextID < 0 || nextID > int64(^uint32(0)) {
		return nil, fmt.Errorf("%w: next_id %d out of range", entity.ErrDeckFormat, nextID)
	}

	rows, err := db.QueryContext(ctx, `SELECT id, question, answer, difficulty, times_reviewed, correct_count, last_reviewed FROM cards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query cards: %w", entity.ErrDeckFormat, err)
	}
	defer rows.Close()

	var cards []entity.Flashcard
	for rows.Next() {
		var (
			card         entity.Flashcard
			difficulty   string
			lastReviewed sql.NullString
		)
		if err := rows.Scan(&card.ID, &card.Question, &card.Answer, &difficulty,
			&card.Metadata.TimesReviewed, &card.Metadata.CorrectCount, &lastReviewed); err != nil {
			return nil, fmt.Errorf("%w: scan card: %w", entity.ErrDeckFormat, err)
		}
		if err := card.Metadata.Difficulty.UnmarshalText([]byte(difficulty)); err != nil {
			return nil, fmt.Errorf("%w: card %d: %w", entity.ErrDeckFormat, card.ID, err)
		}
		if lastReviewed.Valid {
			if _, err := time.Parse(time.DateOnly, lastReviewed.String); err != nil {
				return nil, fmt.Errorf("%w: card %d: last_reviewed %q is not YYYY-MM-DD", entity.ErrDeckFormat, card.ID, lastReviewed.String)
			}
			card.Metadata.LastReviewed = lastReviewed.String
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	deck, err := entity.RestoreDeck(cards, uint32(nextID), entity.WithClock(r.clock))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrDeckFormat, err)
	}
	return deck, nil
}

func (r *SQLiteDeckRepository) Save(ctx context.Context, deck *entity.Deck) (err error) {
	// sqlite creates the file but not its directory; surface that as an I/O error.
	if _, statErr := os.Stat(filepath.Dir(r.path)); statErr != nil {
		return fmt.Errorf("write deck db: %w", statErr)
	}

	db, err := r.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cards (id, question, answer, difficulty, times_reviewed, correct_count, last_reviewed) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, card := range deck.Cards() {
		var lastReviewed sql.NullString
		if card.Metadata.LastReviewed != "" {
			lastReviewed = sql.NullString{String: card.Metadata.LastReviewed, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, card.ID, card.Question, card.Answer, string(card.Metadata.Difficulty),
			card.Metadata.TimesReviewed, card.Metadata.CorrectCount, lastReviewed); err != nil {
			return fmt.Errorf("insert card %d: %w", card.ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO deck (id, next_id) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET next_id = excluded.next_id`, deck.NextID()); err != nil {
		return fmt.Errorf("store next_id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit deck: %w", err)
	}
	commit = true
	return nil
}
