package web

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeronotes/sharenote/internal/content"
	"go.uber.org/zap"
)

// The public view is deliberately plain: one readable page per shared
// note, no app chrome.
var sharePageTmpl = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 46rem; margin: 2rem auto; padding: 0 1rem; font-family: system-ui, sans-serif; line-height: 1.6; color: #1a1a1a; }
h1.note-title { margin-bottom: 0.25rem; }
p.note-meta { color: #777; font-size: 0.85rem; margin-top: 0; }
pre { background: #f5f5f5; padding: 0.75rem; overflow-x: auto; border-radius: 4px; }
code { font-family: ui-monospace, monospace; }
img { max-width: 100%; }
blockquote { border-left: 3px solid #ddd; margin-left: 0; padding-left: 1rem; color: #555; }
</style>
</head>
<body>
<h1 class="note-title">{{.Title}}</h1>
<p class="note-meta">Shared {{.SharedAt}}</p>
<main>{{.Body}}</main>
</body>
</html>`))

func (s *Server) sharePage(c *gin.Context) {
	slug := c.Param("slug")

	shared, err := s.publisher.Fetch(c.Request.Context(), slug)
	if err != nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8",
			[]byte("<!DOCTYPE html><title>Not found</title><h1>This note is no longer shared.</h1>"))
		return
	}

	body, err := content.RenderHTML(shared.Content)
	if err != nil {
		s.logger.Error("Failed to render shared note", zap.String("slug", slug), zap.Error(err))
		c.String(http.StatusInternalServerError, "failed to render note")
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	_ = sharePageTmpl.Execute(c.Writer, gin.H{
		"Title":    shared.Title,
		"SharedAt": time.UnixMilli(shared.CreatedAt).Format("Jan 2, 2006"),
		"Body":     body,
	})
}

func (s *Server) getSharedJSON(c *gin.Context) {
	shared, err := s.publisher.Fetch(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shared)
}
