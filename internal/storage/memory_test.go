package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeronotes/sharenote/internal/models"
)

func TestMemoryStoreCRUD(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	saved, err := store.SaveNote(&models.Note{Title: "Todo", Content: "buy milk"})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	got, err := store.GetNote(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Content)

	_, err = store.GetNote("missing")
	assert.ErrorIs(t, err, models.ErrNoteNotFound)

	require.NoError(t, store.DeleteNote(saved.ID))
	notes, err := store.ListNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	saved, err := store.SaveNote(&models.Note{Title: "Todo", Content: "x"})
	require.NoError(t, err)

	saved.Title = "Mutated"
	got, err := store.GetNote(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Todo", got.Title)
}

func TestMemoryStoreDuplicateTitles(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	saved, err := store.SaveNote(&models.Note{Title: "Meeting Notes", Content: "x"})
	require.NoError(t, err)

	dup, err := store.IsTitleDuplicate("meeting notes", "other")
	require.NoError(t, err)
	assert.True(t, dup)

	dup, err = store.IsTitleDuplicate("meeting notes", saved.ID)
	require.NoError(t, err)
	assert.False(t, dup)
}
