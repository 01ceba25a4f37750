package backup

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/eslsoft/flashcard/internal/adapter/repository"
	"github.com/eslsoft/flashcard/internal/entity"
)

var backupNow = time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)

func clock() time.Time { return backupNow }

func newService(t *testing.T) *Service {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	svc, err := NewService(adapter.NewDeckCodec(clock), WithLogger(logger))
	require.NoError(t, err)
	return svc
}

func sourceDeck() *entity.Deck {
	d := entity.NewDeck(entity.WithClock(clock))
	a := d.AddCard("hola", "hello")
	d.AddCard("adiós", "goodbye")
	d.UpdateCardDifficulty(a, entity.DifficultyEasy, true)
	return d
}

func TestServiceExportImportReplace(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	src := sourceDeck()

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf, src))

	current := entity.NewDeck()
	current.AddCard("to be", "replaced")

	got, report, err := svc.Import(ctx, bytes.NewReader(buf.Bytes()), current, WithMode(ModeReplace))
	require.NoError(t, err)
	assert.Equal(t, Report{Mode: ModeReplace, Imported: 2}, report)
	assert.Equal(t, src.Cards(), got.Cards())
	assert.Equal(t, src.NextID(), got.NextID())
}

func TestServiceImportMerge(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf, sourceDeck()))

	current := entity.NewDeck(entity.WithClock(clock))
	current.AddCard("hola", "hello")
	current.DeleteCard(current.AddCard("gone", "gone"))

	got, report, err := svc.Import(ctx, &buf, current)
	require.NoError(t, err)
	assert.Same(t, current, got)
	assert.Equal(t, Report{Mode: ModeMerge, Imported: 1, Skipped: 1}, report)

	cards := got.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, uint32(3), cards[1].ID, "merged cards take fresh ids")
	assert.Equal(t, "adiós", cards[1].Question)
	assert.Equal(t, entity.DefaultCardMetadata(), cards[1].Metadata, "statistics are not merged")
}

func TestServiceImportMergeSkipsDuplicatesWithinDocument(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	src := entity.NewDeck()
	src.AddCard("same", "card")
	src.AddCard("same", "card")

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf, src))

	got, report, err := svc.Import(ctx, &buf, entity.NewDeck())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
	assert.Equal(t, 1, report.Skipped)
}

func TestServiceImportMergeIntoFullDeck(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, &buf, sourceDeck()))

	current, err := entity.RestoreDeck(nil, math.MaxUint32, entity.WithClock(clock))
	require.NoError(t, err)

	_, _, err = svc.Import(ctx, &buf, current)
	require.ErrorIs(t, err, entity.ErrDeckFull)
	assert.Equal(t, 0, current.Len())
}

func TestServiceImportMalformed(t *testing.T) {
	svc := newService(t)
	current := entity.NewDeck()
	current.AddCard("keep", "me")

	_, _, err := svc.Import(context.Background(), strings.NewReader(`{"cards": {}}`), current)
	require.ErrorIs(t, err, entity.ErrDeckFormat)
	assert.Equal(t, 1, current.Len())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeMerge, "Merge": ModeMerge, " replace ": ModeReplace} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("append")
	require.Error(t, err)
}

func TestNewServiceRequiresCodec(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}
