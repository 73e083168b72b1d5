package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeronotes/sharenote/internal/cloud"
	"github.com/zeronotes/sharenote/internal/content"
	"github.com/zeronotes/sharenote/internal/models"
	"github.com/zeronotes/sharenote/internal/reconciler"
	"github.com/zeronotes/sharenote/internal/session"
	"github.com/zeronotes/sharenote/internal/storage"
	"go.uber.org/zap"
)

type brokenRemove struct {
	*cloud.MemoryPublisher
	failRemove bool
}

func (p *brokenRemove) Remove(ctx context.Context, slug string) error {
	if p.failRemove {
		return errors.New("cloud store unreachable")
	}
	return p.MemoryPublisher.Remove(ctx, slug)
}

func newTestServer(t *testing.T) (*Server, *brokenRemove) {
	t.Helper()
	store := storage.NewMemoryStore()
	publisher := &brokenRemove{MemoryPublisher: cloud.NewMemoryPublisher()}
	rec := reconciler.New(store, publisher, content.MarkdownInspector{}, zap.NewNop())
	server := New(store, rec, publisher, nil, zap.NewNop(), "http://localhost:8080", session.Config{})
	return server, publisher
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func createNote(t *testing.T, s *Server, title, body string) models.Note {
	t.Helper()
	w := do(t, s, http.MethodPost, "/api/notes", `{"title":"`+title+`","content":"`+body+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var note models.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	return note
}

func TestCreateAndListNotes(t *testing.T) {
	server, _ := newTestServer(t)

	note := createNote(t, server, "Todo", "buy milk")
	assert.True(t, strings.HasPrefix(note.ID, "note-"))

	w := do(t, server, http.MethodGet, "/api/notes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "Todo", raw[0]["title"])
	_, present := raw[0]["cloudSlug"]
	assert.False(t, present, "an unshared note carries no cloudSlug field")
}

func TestCreateRejectsDuplicateTitle(t *testing.T) {
	server, _ := newTestServer(t)
	createNote(t, server, "Todo", "buy milk")

	w := do(t, server, http.MethodPost, "/api/notes", `{"title":"todo","content":"other"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	server, _ := newTestServer(t)
	w := do(t, server, http.MethodPost, "/api/notes", `{"title":"  ","content":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestShareFlow(t *testing.T) {
	server, _ := newTestServer(t)
	note := createNote(t, server, "Todo", "buy milk")

	w := do(t, server, http.MethodPost, "/api/notes/"+note.ID+"/share", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Note models.Note `json:"note"`
		URL  string      `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^todo-[a-z0-9]{4}$`, resp.Note.CloudSlug)
	assert.Equal(t, "http://localhost:8080/s/"+resp.Note.CloudSlug, resp.URL)

	// Sharing again keeps the public URL stable
	w = do(t, server, http.MethodPost, "/api/notes/"+note.ID+"/share", "")
	require.Equal(t, http.StatusOK, w.Code)
	var again struct {
		Note models.Note `json:"note"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, resp.Note.CloudSlug, again.Note.CloudSlug)
}

func TestPublicShareView(t *testing.T) {
	server, _ := newTestServer(t)
	note := createNote(t, server, "Groceries", `- milk\n- bread`)

	w := do(t, server, http.MethodPost, "/api/notes/"+note.ID+"/share", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Note models.Note `json:"note"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = do(t, server, http.MethodGet, "/s/"+resp.Note.CloudSlug, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Groceries")
	assert.Contains(t, w.Body.String(), "<li>milk</li>")

	w = do(t, server, http.MethodGet, "/s/gone-0000", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnshareRemoteFailureOffersForce(t *testing.T) {
	server, publisher := newTestServer(t)
	note := createNote(t, server, "Todo", "buy milk")

	w := do(t, server, http.MethodPost, "/api/notes/"+note.ID+"/share", "")
	require.Equal(t, http.StatusOK, w.Code)

	publisher.failRemove = true
	w = do(t, server, http.MethodDelete, "/api/notes/"+note.ID+"/share", "")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["force"], "the response offers the explicit local-only override")

	// The slug must still be set until the user forces the unlink
	w = do(t, server, http.MethodGet, "/api/notes/"+note.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.True(t, stored.Shared())

	w = do(t, server, http.MethodDelete, "/api/notes/"+note.ID+"/share?force=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	var unlinked models.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unlinked))
	assert.False(t, unlinked.Shared())
}

func TestDeleteSharedNote(t *testing.T) {
	server, publisher := newTestServer(t)
	note := createNote(t, server, "Todo", "buy milk")

	w := do(t, server, http.MethodPost, "/api/notes/"+note.ID+"/share", "")
	require.Equal(t, http.StatusOK, w.Code)

	publisher.failRemove = true
	w = do(t, server, http.MethodDelete, "/api/notes/"+note.ID, "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = do(t, server, http.MethodDelete, "/api/notes/"+note.ID+"?force=true", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, server, http.MethodGet, "/api/notes/"+note.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAbsentNoteIsNoOp(t *testing.T) {
	server, _ := newTestServer(t)
	w := do(t, server, http.MethodDelete, "/api/notes/never-existed", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPinCapOverAPI(t *testing.T) {
	server, _ := newTestServer(t)

	ids := make([]string, 0, models.MaxPinned+1)
	for _, title := range []string{"One", "Two", "Three", "Four", "Five"} {
		ids = append(ids, createNote(t, server, title, "x").ID)
	}

	for i := 0; i < models.MaxPinned; i++ {
		w := do(t, server, http.MethodPost, "/api/notes/"+ids[i]+"/pin", "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(t, server, http.MethodPost, "/api/notes/"+ids[models.MaxPinned]+"/pin", "")
	require.Equal(t, http.StatusOK, w.Code)
	var note models.Note
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.False(t, note.Pinned, "pinning a fifth note is a no-op")
}

func TestAssistUnavailableWithoutKey(t *testing.T) {
	server, _ := newTestServer(t)
	w := do(t, server, http.MethodPost, "/api/assist/generate", `{"prompt":"draft an agenda"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
