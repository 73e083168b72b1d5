// Package cli implements the noted command line interface over the
// same note core the server exposes.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeronotes/sharenote/internal/cloud"
	"github.com/zeronotes/sharenote/internal/content"
	"github.com/zeronotes/sharenote/internal/reconciler"
	"github.com/zeronotes/sharenote/internal/session"
	"github.com/zeronotes/sharenote/internal/storage"
	"github.com/zeronotes/sharenote/pkg/config"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "noted",
	Short: "Manage local notes and their public copies",
	Long: `noted is the command line companion to the sharenote server.
It works on the same note store and sharing backend, so notes created
here show up in the browser frontend and vice versa.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to config file")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env bundles everything a command needs; commands build one, use it,
// and close it.
type env struct {
	cfg        *config.Config
	logger     *zap.Logger
	store      storage.NoteStore
	publisher  cloud.Publisher
	reconciler *reconciler.Reconciler
	inspector  content.Inspector
}

func newEnv() (*env, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Commands print their own output; only warnings and up go to the log.
	logCfg := zap.NewProductionConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := logCfg.Build()
	if err != nil {
		return nil, err
	}

	var store storage.NoteStore
	switch cfg.Storage.Backend {
	case "postgres":
		store, err = storage.NewPostgresStore(storage.DatabaseConfig{
			Host:     cfg.Storage.Database.Host,
			Port:     cfg.Storage.Database.Port,
			User:     cfg.Storage.Database.User,
			Password: cfg.Storage.Database.Password,
			DBName:   cfg.Storage.Database.DBName,
			SSLMode:  cfg.Storage.Database.SSLMode,
		}, logger)
		if err != nil {
			return nil, err
		}
	case "memory":
		store = storage.NewMemoryStore()
	default:
		store, err = storage.NewFileStore(cfg.Storage.FilePath, logger)
		if err != nil {
			return nil, err
		}
	}

	var publisher cloud.Publisher
	if cfg.Cloud.Backend == "memory" {
		publisher = cloud.NewMemoryPublisher()
	} else {
		publisher, err = cloud.NewSQLitePublisher(cfg.Cloud.SQLitePath)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	inspector := content.MarkdownInspector{}
	return &env{
		cfg:        cfg,
		logger:     logger,
		store:      store,
		publisher:  publisher,
		reconciler: reconciler.New(store, publisher, inspector, logger),
		inspector:  inspector,
	}, nil
}

func (e *env) close() {
	e.store.Close()
	if closer, ok := e.publisher.(interface{ Close() error }); ok {
		closer.Close()
	}
	e.logger.Sync()
}

func (e *env) sessionConfig() session.Config {
	return session.Config{
		AutosaveEnabled:  e.cfg.Autosave.Enabled,
		AutosaveDebounce: time.Duration(e.cfg.Autosave.DebounceMillis) * time.Millisecond,
	}
}

func (e *env) shareURL(slug string) string {
	return fmt.Sprintf("%s/s/%s", e.cfg.Server.BaseURL, slug)
}
