package web

import (
	"github.com/gin-gonic/gin"
	"github.com/zeronotes/sharenote/internal/assist"
	"github.com/zeronotes/sharenote/internal/cloud"
	"github.com/zeronotes/sharenote/internal/content"
	"github.com/zeronotes/sharenote/internal/reconciler"
	"github.com/zeronotes/sharenote/internal/session"
	"github.com/zeronotes/sharenote/internal/storage"
	"go.uber.org/zap"
)

// Server exposes the note core to a browser frontend: a JSON API for
// the editor plus the public share view.
type Server struct {
	store      storage.NoteStore
	reconciler *reconciler.Reconciler
	publisher  cloud.Publisher
	assist     *assist.Service // nil when no API key is configured
	inspector  content.Inspector
	logger     *zap.Logger
	baseURL    string
	sessionCfg session.Config
	engine     *gin.Engine
}

func New(store storage.NoteStore, rec *reconciler.Reconciler, publisher cloud.Publisher,
	assistSvc *assist.Service, logger *zap.Logger, baseURL string, sessionCfg session.Config) *Server {

	s := &Server{
		store:      store,
		reconciler: rec,
		publisher:  publisher,
		assist:     assistSvc,
		inspector:  content.MarkdownInspector{},
		logger:     logger,
		baseURL:    baseURL,
		sessionCfg: sessionCfg,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	api := engine.Group("/api")
	{
		api.GET("/notes", s.listNotes)
		api.POST("/notes", s.createNote)
		api.GET("/notes/:id", s.getNote)
		api.PUT("/notes/:id", s.updateNote)
		api.DELETE("/notes/:id", s.deleteNote)
		api.POST("/notes/:id/share", s.shareNote)
		api.DELETE("/notes/:id/share", s.unshareNote)
		api.POST("/notes/:id/pin", s.togglePin)
		api.GET("/shared/:slug", s.getSharedJSON)
		api.POST("/assist/generate", s.assistGenerate)
		api.POST("/assist/format", s.assistFormat)
	}
	engine.GET("/s/:slug", s.sharePage)

	s.engine = engine
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Run(addr string) error {
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// newSession builds a request-scoped editing session. Callers must
// Close it so no autosave timer outlives the request.
func (s *Server) newSession() *session.Session {
	return session.New(s.store, s.reconciler, s.inspector, s.logger, s.sessionCfg)
}

func (s *Server) openSession(id string) (*session.Session, error) {
	return session.Open(s.store, s.reconciler, s.inspector, s.logger, s.sessionCfg, id)
}
