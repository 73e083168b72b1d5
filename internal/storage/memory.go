package storage

import (
	"sync"

	"github.com/zeronotes/sharenote/internal/models"
)

// MemoryStore keeps the note collection in process memory. Used for
// tests and throwaway runs.
type MemoryStore struct {
	mu    sync.RWMutex
	notes map[string]*models.Note
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notes: make(map[string]*models.Note),
	}
}

func (s *MemoryStore) ListNotes() ([]*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]*models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		notes = append(notes, n.Clone())
	}
	return notes, nil
}

func (s *MemoryStore) GetNote(id string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n, exists := s.notes[id]; exists {
		return n.Clone(), nil
	}
	return nil, models.ErrNoteNotFound
}

func (s *MemoryStore) SaveNote(note *models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := models.NowMillis()
	saved := note.Clone()

	if existing, exists := s.notes[note.ID]; note.ID != "" && exists {
		saved.CreatedAt = existing.CreatedAt
		saved.Pinned = existing.Pinned
		saved.UpdatedAt = now
	} else {
		if saved.ID == "" {
			saved.ID = newNoteID()
		}
		saved.CreatedAt = now
		saved.UpdatedAt = now
	}

	s.notes[saved.ID] = saved
	return saved.Clone(), nil
}

func (s *MemoryStore) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.notes, id)
	return nil
}

func (s *MemoryStore) IsTitleDuplicate(title, excludingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	normalized := models.NormalizeTitle(title)
	for id, n := range s.notes {
		if id != excludingID && models.NormalizeTitle(n.Title) == normalized {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) TogglePin(id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, exists := s.notes[id]
	if !exists {
		return nil, models.ErrNoteNotFound
	}

	if !n.Pinned {
		pinned := 0
		for _, other := range s.notes {
			if other.Pinned {
				pinned++
			}
		}
		if pinned >= models.MaxPinned {
			return n.Clone(), nil
		}
	}

	n.Pinned = !n.Pinned
	return n.Clone(), nil
}

func (s *MemoryStore) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
