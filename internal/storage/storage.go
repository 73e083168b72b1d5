package storage

import (
	"fmt"

	"github.com/zeronotes/sharenote/internal/models"
)

// NoteStore is durable CRUD over the local note collection.
//
// SaveNote is an upsert: a note without an ID gets a fresh one derived
// from the current timestamp with createdAt == updatedAt; an existing
// note keeps its createdAt and pinned flag and gets updatedAt
// refreshed. Callers needing display order sort by UpdatedAt
// descending themselves.
type NoteStore interface {
	ListNotes() ([]*models.Note, error)
	GetNote(id string) (*models.Note, error)
	SaveNote(note *models.Note) (*models.Note, error)
	DeleteNote(id string) error

	// IsTitleDuplicate compares the normalized candidate title against
	// all notes other than excludingID.
	IsTitleDuplicate(title, excludingID string) (bool, error)

	// TogglePin flips the pinned flag. Pinning beyond the system-wide
	// cap of models.MaxPinned is a no-op, not an error.
	TogglePin(id string) (*models.Note, error)

	Close() error
}

// newNoteID derives an identifier from the creation time. IDs are
// immutable once assigned.
func newNoteID() string {
	return fmt.Sprintf("note-%d", models.NowMillis())
}
