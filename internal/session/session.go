// Package session mediates one open note between the editor, the note
// store, and the sharing reconciler.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/zeronotes/sharenote/internal/content"
	"github.com/zeronotes/sharenote/internal/models"
	"github.com/zeronotes/sharenote/internal/reconciler"
	"github.com/zeronotes/sharenote/internal/storage"
	"go.uber.org/zap"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session is closed")

type Config struct {
	AutosaveEnabled  bool
	AutosaveDebounce time.Duration
}

// Session holds the in-memory editing state of a single note: title,
// content, dirty flag and sharing status. A session starts as an
// unsaved draft with no identity; the first successful Save binds it
// to a note ID. At most one remote operation is in flight at a time,
// and at most one autosave timer is pending.
type Session struct {
	store      storage.NoteStore
	reconciler *reconciler.Reconciler
	inspector  content.Inspector
	logger     *zap.Logger
	cfg        Config

	mu        sync.Mutex
	id        string
	title     string
	content   string
	cloudSlug string
	dirty     bool
	inFlight  bool
	closed    bool
	timer     *time.Timer
}

// New opens a session for a brand-new draft.
func New(store storage.NoteStore, rec *reconciler.Reconciler, inspector content.Inspector, logger *zap.Logger, cfg Config) *Session {
	return &Session{
		store:      store,
		reconciler: rec,
		inspector:  inspector,
		logger:     logger,
		cfg:        cfg,
	}
}

// Open loads an existing note into a session.
func Open(store storage.NoteStore, rec *reconciler.Reconciler, inspector content.Inspector, logger *zap.Logger, cfg Config, id string) (*Session, error) {
	note, err := store.GetNote(id)
	if err != nil {
		return nil, err
	}
	s := New(store, rec, inspector, logger, cfg)
	s.id = note.ID
	s.title = note.Title
	s.content = note.Content
	s.cloudSlug = note.CloudSlug
	return s, nil
}

// SetTitle records an edit and arms the autosave timer.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
	s.dirty = true
	s.scheduleAutosaveLocked()
}

// SetContent records an edit and arms the autosave timer.
func (s *Session) SetContent(content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content = content
	s.dirty = true
	s.scheduleAutosaveLocked()
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

func (s *Session) CloudSlug() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloudSlug
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// InFlight reports whether a remote operation is outstanding, so the
// surface can disable re-entrant actions.
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Save validates the draft and persists it. On the first save the
// session binds to the newly assigned note ID; callers should switch
// from the "new note" context to editing that ID.
func (s *Session) Save() (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.saveLocked()
}

func (s *Session) saveLocked() (*models.Note, error) {
	if err := s.validateLocked(); err != nil {
		return nil, err
	}

	saved, err := s.store.SaveNote(&models.Note{
		ID:        s.id,
		Title:     s.title,
		Content:   s.content,
		CloudSlug: s.cloudSlug,
	})
	if err != nil {
		return nil, err
	}

	s.id = saved.ID
	s.dirty = false
	return saved, nil
}

func (s *Session) validateLocked() error {
	if strings.TrimSpace(s.title) == "" {
		return models.ErrEmptyTitle
	}
	duplicate, err := s.store.IsTitleDuplicate(s.title, s.id)
	if err != nil {
		return err
	}
	if duplicate {
		return models.ErrDuplicateTitle
	}
	if s.inspector.IsEmpty(s.content) {
		return models.ErrEmptyContent
	}
	return nil
}

// Share saves the draft, then runs the reconciler's share transition.
func (s *Session) Share(ctx context.Context) (*models.Note, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, models.ErrBusy
	}
	saved, err := s.saveLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.inFlight = true
	id := saved.ID
	s.mu.Unlock()

	note, err := s.reconciler.Share(ctx, id)

	s.mu.Lock()
	s.inFlight = false
	if err == nil {
		s.cloudSlug = note.CloudSlug
	}
	s.mu.Unlock()
	return note, err
}

// Unshare runs the reconciler's unshare transition. With force set the
// local slug is cleared even if the remote deletion failed; that is
// the caller's surfaced choice, never the default.
func (s *Session) Unshare(ctx context.Context, force bool) (*models.Note, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, models.ErrBusy
	}
	if s.id == "" {
		s.mu.Unlock()
		return nil, models.ErrNotShared
	}
	s.inFlight = true
	id := s.id
	s.mu.Unlock()

	note, err := s.reconciler.Unshare(ctx, id, force)

	s.mu.Lock()
	s.inFlight = false
	if err == nil {
		s.cloudSlug = ""
	}
	s.mu.Unlock()
	return note, err
}

// Delete removes the note and closes the session. A draft that was
// never saved has nothing to delete; the session just closes and the
// caller discards its view.
func (s *Session) Delete(ctx context.Context, force bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return models.ErrBusy
	}
	if s.id == "" {
		s.closeLocked()
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	id := s.id
	s.mu.Unlock()

	err := s.reconciler.Delete(ctx, id, force)

	s.mu.Lock()
	s.inFlight = false
	if err == nil {
		s.closeLocked()
	}
	s.mu.Unlock()
	return err
}

// CanNavigateAway reports whether leaving the session needs no
// confirmation. Only an unsaved draft with typed title or content
// prompts; an existing note never does.
func (s *Session) CanNavigateAway() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != "" {
		return true
	}
	return strings.TrimSpace(s.title) == "" && s.inspector.IsEmpty(s.content)
}

// Close cancels any pending autosave so no write lands on a stale
// session after navigation.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// scheduleAutosaveLocked resets the single pending timer; each new
// edit pushes the save out by the full debounce window.
func (s *Session) scheduleAutosaveLocked() {
	if !s.cfg.AutosaveEnabled || s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.AutosaveDebounce, s.autosave)
}

// autosave re-runs the Save validations and silently skips on failure:
// unlike manual Save it must never interrupt typing with an error.
func (s *Session) autosave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.inFlight || !s.dirty {
		return
	}
	if _, err := s.saveLocked(); err != nil {
		s.logger.Debug("Autosave skipped", zap.Error(err))
	}
}
