package reconciler

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeronotes/sharenote/internal/cloud"
	"github.com/zeronotes/sharenote/internal/content"
	"github.com/zeronotes/sharenote/internal/models"
	"github.com/zeronotes/sharenote/internal/storage"
	"go.uber.org/zap"
)

var errUnreachable = errors.New("cloud store unreachable")

// flakyPublisher wraps the in-memory publisher with switchable
// failures and call counting.
type flakyPublisher struct {
	*cloud.MemoryPublisher
	failPublish bool
	failRemove  bool
	removeCalls int
}

func (p *flakyPublisher) Publish(ctx context.Context, title, content, existingSlug string) (string, error) {
	if p.failPublish {
		return "", errUnreachable
	}
	return p.MemoryPublisher.Publish(ctx, title, content, existingSlug)
}

func (p *flakyPublisher) Remove(ctx context.Context, slug string) error {
	p.removeCalls++
	if p.failRemove {
		return errUnreachable
	}
	return p.MemoryPublisher.Remove(ctx, slug)
}

func newTestReconciler(t *testing.T) (*Reconciler, storage.NoteStore, *flakyPublisher) {
	t.Helper()
	store := storage.NewMemoryStore()
	publisher := &flakyPublisher{MemoryPublisher: cloud.NewMemoryPublisher()}
	rec := New(store, publisher, content.MarkdownInspector{}, zap.NewNop())
	return rec, store, publisher
}

func mustSave(t *testing.T, store storage.NoteStore, title, body string) *models.Note {
	t.Helper()
	note, err := store.SaveNote(&models.Note{Title: title, Content: body})
	require.NoError(t, err)
	return note
}

func TestShareAssignsSlug(t *testing.T) {
	rec, store, _ := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")

	shared, err := rec.Share(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^todo-[a-z0-9]{4}$`), shared.CloudSlug)

	stored, err := store.GetNote(note.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.CloudSlug, stored.CloudSlug)
}

func TestShareTwiceKeepsSlug(t *testing.T) {
	rec, store, publisher := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")
	ctx := context.Background()

	first, err := rec.Share(ctx, note.ID)
	require.NoError(t, err)

	// Edit, then share again: same URL, fresh snapshot
	first.Content = "buy milk and bread"
	_, err = store.SaveNote(first)
	require.NoError(t, err)

	second, err := rec.Share(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CloudSlug, second.CloudSlug)

	copy, err := publisher.Fetch(ctx, second.CloudSlug)
	require.NoError(t, err)
	assert.Equal(t, "buy milk and bread", copy.Content)
}

func TestUnshareThenReshareGetsNewSlug(t *testing.T) {
	rec, store, _ := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")
	ctx := context.Background()

	first, err := rec.Share(ctx, note.ID)
	require.NoError(t, err)

	unshared, err := rec.Unshare(ctx, note.ID, false)
	require.NoError(t, err)
	assert.False(t, unshared.Shared())

	second, err := rec.Share(ctx, note.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.CloudSlug, second.CloudSlug, "slugs are not reused after unshare")
}

func TestShareValidation(t *testing.T) {
	rec, store, _ := newTestReconciler(t)
	ctx := context.Background()

	empty := mustSave(t, store, "Empty", "- \n\n## ")
	_, err := rec.Share(ctx, empty.ID)
	assert.ErrorIs(t, err, models.ErrEmptyContent)

	mustSave(t, store, "Todo", "x")
	dup := mustSave(t, store, "TODO ", "y")
	_, err = rec.Share(ctx, dup.ID)
	assert.ErrorIs(t, err, models.ErrDuplicateTitle)
}

func TestShareFailureLeavesLocalStateUntouched(t *testing.T) {
	rec, store, publisher := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")
	publisher.failPublish = true

	_, err := rec.Share(context.Background(), note.ID)
	require.Error(t, err)
	assert.True(t, IsRemote(err))

	stored, err := store.GetNote(note.ID)
	require.NoError(t, err)
	assert.False(t, stored.Shared(), "no partial cloudSlug may be written on failure")
}

func TestUnshareRemoteFailure(t *testing.T) {
	rec, store, publisher := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")
	ctx := context.Background()

	shared, err := rec.Share(ctx, note.ID)
	require.NoError(t, err)
	publisher.failRemove = true

	// Default path keeps the slug rather than orphaning the remote copy
	_, err = rec.Unshare(ctx, note.ID, false)
	require.Error(t, err)
	assert.True(t, IsRemote(err))

	stored, err := store.GetNote(note.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.CloudSlug, stored.CloudSlug)

	// Forcing is the explicit, surfaced choice to unlink anyway
	forced, err := rec.Unshare(ctx, note.ID, true)
	require.NoError(t, err)
	assert.False(t, forced.Shared())
}

func TestUnshareOfPrivateNote(t *testing.T) {
	rec, store, _ := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")

	_, err := rec.Unshare(context.Background(), note.ID, false)
	assert.ErrorIs(t, err, models.ErrNotShared)
}

func TestDeleteSharedNoteRequiresRemoteSuccess(t *testing.T) {
	rec, store, publisher := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")
	ctx := context.Background()

	_, err := rec.Share(ctx, note.ID)
	require.NoError(t, err)
	publisher.failRemove = true

	err = rec.Delete(ctx, note.ID, false)
	require.Error(t, err)
	assert.True(t, IsRemote(err))

	_, err = store.GetNote(note.ID)
	require.NoError(t, err, "the local record stays until the remote deletion succeeds or is forced")

	require.NoError(t, rec.Delete(ctx, note.ID, true))
	_, err = store.GetNote(note.ID)
	assert.ErrorIs(t, err, models.ErrNoteNotFound)
}

func TestDeleteSharedNoteRemovesRemoteCopy(t *testing.T) {
	rec, store, publisher := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")
	ctx := context.Background()

	shared, err := rec.Share(ctx, note.ID)
	require.NoError(t, err)

	require.NoError(t, rec.Delete(ctx, note.ID, false))
	_, err = publisher.Fetch(ctx, shared.CloudSlug)
	assert.ErrorIs(t, err, cloud.ErrNotFound, "no orphaned public copy after delete")
}

func TestDeletePrivateNoteNeverCallsRemote(t *testing.T) {
	rec, store, publisher := newTestReconciler(t)
	note := mustSave(t, store, "Todo", "buy milk")

	require.NoError(t, rec.Delete(context.Background(), note.ID, false))
	assert.Zero(t, publisher.removeCalls)
}

func TestDeleteAbsentNoteIsNoOp(t *testing.T) {
	rec, _, _ := newTestReconciler(t)
	assert.NoError(t, rec.Delete(context.Background(), "never-existed", false))
}
