// Package reconciler owns the transitions between a note's local copy
// and its optional public copy. Each transition is a named operation
// that either completes on both sides or leaves local state untouched;
// the force flag is the caller's explicit choice to diverge locally
// after a failed remote call.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zeronotes/sharenote/internal/cloud"
	"github.com/zeronotes/sharenote/internal/content"
	"github.com/zeronotes/sharenote/internal/models"
	"github.com/zeronotes/sharenote/internal/storage"
	"go.uber.org/zap"
)

// RemoteError marks a failed call to the cloud store. Surfaces that
// see it may offer the user a forced local-only outcome.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsRemote reports whether err originated at the cloud store boundary.
func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

type Reconciler struct {
	store     storage.NoteStore
	publisher cloud.Publisher
	inspector content.Inspector
	logger    *zap.Logger
}

func New(store storage.NoteStore, publisher cloud.Publisher, inspector content.Inspector, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:     store,
		publisher: publisher,
		inspector: inspector,
		logger:    logger,
	}
}

// Share publishes the note's current title and content. A Private note
// gets a fresh slug; a Public note is overwritten in place under its
// existing slug, so sharing twice never changes the public URL. The
// local slug is only written after the remote call succeeds.
func (r *Reconciler) Share(ctx context.Context, id string) (*models.Note, error) {
	note, err := r.store.GetNote(id)
	if err != nil {
		return nil, err
	}
	if err := r.validate(note); err != nil {
		return nil, err
	}

	existingSlug := ""
	if state, ok := models.StateOf(note).(models.Public); ok {
		existingSlug = state.Slug
	}

	slug, err := r.publisher.Publish(ctx, note.Title, note.Content, existingSlug)
	if err != nil {
		return nil, &RemoteError{Op: "publish", Err: err}
	}

	note.CloudSlug = slug
	saved, err := r.store.SaveNote(note)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Note shared",
		zap.String("id", saved.ID),
		zap.String("slug", slug),
		zap.Bool("updated", existingSlug != ""))
	return saved, nil
}

// Unshare deletes the shared copy, then clears the local slug. When
// the remote deletion fails the slug is kept unless force is set, so
// the default path never orphans a reachable public copy.
func (r *Reconciler) Unshare(ctx context.Context, id string, force bool) (*models.Note, error) {
	note, err := r.store.GetNote(id)
	if err != nil {
		return nil, err
	}

	state, ok := models.StateOf(note).(models.Public)
	if !ok {
		return nil, models.ErrNotShared
	}

	if err := r.publisher.Remove(ctx, state.Slug); err != nil {
		if !force {
			return nil, &RemoteError{Op: "remove", Err: err}
		}
		r.logger.Warn("Unlinking note locally despite failed remote deletion",
			zap.String("id", note.ID),
			zap.String("slug", state.Slug),
			zap.Error(err))
	}

	note.CloudSlug = ""
	saved, err := r.store.SaveNote(note)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Note unshared", zap.String("id", saved.ID))
	return saved, nil
}

// Delete removes the note. For a Public note the remote copy goes
// first; the local record is only removed once that succeeded or the
// caller forced the local-only outcome. Deleting a Private note never
// touches the cloud store. Deleting an absent note is a no-op.
func (r *Reconciler) Delete(ctx context.Context, id string, force bool) error {
	note, err := r.store.GetNote(id)
	if errors.Is(err, models.ErrNoteNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if state, ok := models.StateOf(note).(models.Public); ok {
		if err := r.publisher.Remove(ctx, state.Slug); err != nil {
			if !force {
				return &RemoteError{Op: "remove", Err: err}
			}
			r.logger.Warn("Deleting note locally despite failed remote deletion",
				zap.String("id", note.ID),
				zap.String("slug", state.Slug),
				zap.Error(err))
		}
	}

	if err := r.store.DeleteNote(id); err != nil {
		return err
	}
	r.logger.Info("Note deleted", zap.String("id", id))
	return nil
}

// validate gates Share with the same preconditions as Save: non-empty
// title, no duplicate title, non-empty content.
func (r *Reconciler) validate(note *models.Note) error {
	if strings.TrimSpace(note.Title) == "" {
		return models.ErrEmptyTitle
	}
	duplicate, err := r.store.IsTitleDuplicate(note.Title, note.ID)
	if err != nil {
		return err
	}
	if duplicate {
		return models.ErrDuplicateTitle
	}
	if r.inspector.IsEmpty(note.Content) {
		return models.ErrEmptyContent
	}
	return nil
}
