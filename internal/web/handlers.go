package web

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zeronotes/sharenote/internal/cloud"
	"github.com/zeronotes/sharenote/internal/models"
	"github.com/zeronotes/sharenote/internal/reconciler"
	"go.uber.org/zap"
)

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type formatRequest struct {
	Content string `json:"content"`
}

// respondError converts core errors into the notification the
// frontend shows. Validation failures are expected control flow and
// never surface as 5xx; remote failures carry a force hint so the UI
// can offer the local-only override.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNoteNotFound), errors.Is(err, cloud.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrEmptyTitle),
		errors.Is(err, models.ErrDuplicateTitle),
		errors.Is(err, models.ErrEmptyContent):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrNotShared), errors.Is(err, models.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case reconciler.IsRemote(err):
		c.JSON(http.StatusBadGateway, gin.H{"message": err.Error(), "force": true})
	default:
		s.logger.Error("Request error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func forceParam(c *gin.Context) bool {
	return c.Query("force") == "true"
}

func (s *Server) listNotes(c *gin.Context) {
	notes, err := s.store.ListNotes()
	if err != nil {
		s.respondError(c, err)
		return
	}

	// Pinned notes first, then most recently updated
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Pinned != notes[j].Pinned {
			return notes[i].Pinned
		}
		return notes[i].UpdatedAt > notes[j].UpdatedAt
	})
	c.JSON(http.StatusOK, notes)
}

func (s *Server) createNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid note"})
		return
	}

	sess := s.newSession()
	defer sess.Close()
	sess.SetTitle(req.Title)
	sess.SetContent(req.Content)

	note, err := sess.Save()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (s *Server) getNote(c *gin.Context) {
	note, err := s.store.GetNote(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) updateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid note"})
		return
	}

	sess, err := s.openSession(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer sess.Close()
	sess.SetTitle(req.Title)
	sess.SetContent(req.Content)

	note, err := sess.Save()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) deleteNote(c *gin.Context) {
	sess, err := s.openSession(c.Param("id"))
	if errors.Is(err, models.ErrNoteNotFound) {
		// Deleting an absent note is a no-op
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer sess.Close()

	if err := sess.Delete(c.Request.Context(), forceParam(c)); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) shareNote(c *gin.Context) {
	sess, err := s.openSession(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer sess.Close()

	note, err := sess.Share(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"note": note,
		"url":  strings.TrimSuffix(s.baseURL, "/") + "/s/" + note.CloudSlug,
	})
}

func (s *Server) unshareNote(c *gin.Context) {
	sess, err := s.openSession(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	defer sess.Close()

	note, err := sess.Unshare(c.Request.Context(), forceParam(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) togglePin(c *gin.Context) {
	note, err := s.store.TogglePin(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) assistGenerate(c *gin.Context) {
	if s.assist == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "assist is not configured"})
		return
	}
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid prompt"})
		return
	}
	text, err := s.assist.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to generate content"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": text})
}

func (s *Server) assistFormat(c *gin.Context) {
	if s.assist == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "assist is not configured"})
		return
	}
	var req formatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid content"})
		return
	}
	text, err := s.assist.Format(c.Request.Context(), req.Content)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"message": "failed to format note"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": text})
}
