package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("FLASHCARD_DECK_FILE", filepath.Join(dir, "deck.json"))
	t.Setenv("FLASHCARD_LOG_LEVEL", "info")

	var logs bytes.Buffer
	c, err := Initialize(&logs)
	require.NoError(t, err)
	require.NotNil(t, c.Decks)
	require.NotNil(t, c.Backup)

	id, err := c.Decks.AddCard(context.Background(), "Q", "A")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), id)
	assert.Contains(t, logs.String(), "card added")
	assert.Contains(t, logs.String(), "driver=json")
}

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("FLASHCARD_STORAGE_DRIVER", "mongo")

	_, err := Initialize(&bytes.Buffer{})
	assert.Error(t, err)
}
