package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeronotes/sharenote/internal/models"
	"go.uber.org/zap"
)

// FileStore persists the whole note collection as one JSON array in a
// single file, the durable equivalent of the browser's one storage
// key. There is no partial-record access: every write rewrites the
// blob. A read that fails or does not parse degrades to an empty
// collection instead of failing the caller.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating notes directory: %v", err)
	}
	return &FileStore{path: path, logger: logger}, nil
}

func (s *FileStore) load() []*models.Note {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read notes file, treating as empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}

	var notes []*models.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		s.logger.Warn("Notes file is corrupted, treating as empty",
			zap.String("path", s.path), zap.Error(err))
		return nil
	}
	return notes
}

// write replaces the blob atomically: temp file, fsync, rename.
func (s *FileStore) write(notes []*models.Note) error {
	data, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("error encoding notes: %v", err)
	}

	dir := filepath.Dir(s.path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp.%s.%d", filepath.Base(s.path), os.Getpid()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("error opening temp file: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("error writing notes: %v", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("error syncing notes: %v", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing notes file: %v", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("error replacing notes file: %v", err)
	}
	return nil
}

func (s *FileStore) ListNotes() ([]*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.load()
	out := make([]*models.Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Clone())
	}
	return out, nil
}

func (s *FileStore) GetNote(id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.load() {
		if n.ID == id {
			return n.Clone(), nil
		}
	}
	return nil, models.ErrNoteNotFound
}

func (s *FileStore) SaveNote(note *models.Note) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.load()
	now := models.NowMillis()
	saved := note.Clone()

	replaced := false
	for i, n := range notes {
		if note.ID != "" && n.ID == note.ID {
			saved.CreatedAt = n.CreatedAt
			saved.Pinned = n.Pinned
			saved.UpdatedAt = now
			notes[i] = saved
			replaced = true
			break
		}
	}
	if !replaced {
		if saved.ID == "" {
			saved.ID = newNoteID()
		}
		saved.CreatedAt = now
		saved.UpdatedAt = now
		notes = append(notes, saved)
	}

	if err := s.write(notes); err != nil {
		return nil, err
	}
	return saved.Clone(), nil
}

func (s *FileStore) DeleteNote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.load()
	kept := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(notes) {
		// No-op if absent
		return nil
	}
	return s.write(kept)
}

func (s *FileStore) IsTitleDuplicate(title, excludingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := models.NormalizeTitle(title)
	for _, n := range s.load() {
		if n.ID != excludingID && models.NormalizeTitle(n.Title) == normalized {
			return true, nil
		}
	}
	return false, nil
}

func (s *FileStore) TogglePin(id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes := s.load()
	var target *models.Note
	pinned := 0
	for _, n := range notes {
		if n.Pinned {
			pinned++
		}
		if n.ID == id {
			target = n
		}
	}
	if target == nil {
		return nil, models.ErrNoteNotFound
	}
	if !target.Pinned && pinned >= models.MaxPinned {
		return target.Clone(), nil
	}

	target.Pinned = !target.Pinned
	if err := s.write(notes); err != nil {
		return nil, err
	}
	return target.Clone(), nil
}

func (s *FileStore) Close() error {
	return nil
}
