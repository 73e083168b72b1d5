package main

import (
	"time"

	"github.com/zeronotes/sharenote/internal/assist"
	"github.com/zeronotes/sharenote/internal/cloud"
	"github.com/zeronotes/sharenote/internal/content"
	"github.com/zeronotes/sharenote/internal/reconciler"
	"github.com/zeronotes/sharenote/internal/session"
	"github.com/zeronotes/sharenote/internal/storage"
	"github.com/zeronotes/sharenote/internal/web"
	"github.com/zeronotes/sharenote/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize the note store
	var store storage.NoteStore
	switch cfg.Storage.Backend {
	case "postgres":
		logger.Info("Using PostgreSQL note store")
		store, err = storage.NewPostgresStore(storage.DatabaseConfig{
			Host:     cfg.Storage.Database.Host,
			Port:     cfg.Storage.Database.Port,
			User:     cfg.Storage.Database.User,
			Password: cfg.Storage.Database.Password,
			DBName:   cfg.Storage.Database.DBName,
			SSLMode:  cfg.Storage.Database.SSLMode,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	case "memory":
		logger.Info("Using in-memory note store")
		store = storage.NewMemoryStore()
	default:
		logger.Info("Using file note store", zap.String("path", cfg.Storage.FilePath))
		store, err = storage.NewFileStore(cfg.Storage.FilePath, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize the shared-copy store
	var publisher cloud.Publisher
	if cfg.Cloud.Backend == "memory" {
		logger.Info("Using in-memory sharing backend")
		publisher = cloud.NewMemoryPublisher()
	} else {
		logger.Info("Using SQLite sharing backend", zap.String("path", cfg.Cloud.SQLitePath))
		sqlitePublisher, err := cloud.NewSQLitePublisher(cfg.Cloud.SQLitePath)
		if err != nil {
			logger.Fatal("Failed to initialize sharing backend", zap.Error(err))
		}
		defer sqlitePublisher.Close()
		publisher = sqlitePublisher
	}

	inspector := content.MarkdownInspector{}
	rec := reconciler.New(store, publisher, inspector, logger)

	// Assist is optional; without an API key the endpoints report unavailable
	var assistSvc *assist.Service
	if cfg.OpenAI.APIKey != "" {
		assistSvc = assist.New(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			logger,
		)
	}

	sessionCfg := session.Config{
		AutosaveEnabled:  cfg.Autosave.Enabled,
		AutosaveDebounce: time.Duration(cfg.Autosave.DebounceMillis) * time.Millisecond,
	}

	server := web.New(store, rec, publisher, assistSvc, logger, cfg.Server.BaseURL, sessionCfg)
	if err := server.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
