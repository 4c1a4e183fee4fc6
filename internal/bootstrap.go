package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/seokit/internal/audit"
	"github.com/starford/seokit/internal/content"
	"github.com/starford/seokit/internal/database"
	"github.com/starford/seokit/internal/seoservice"
	"github.com/starford/seokit/internal/settings"
	"github.com/starford/seokit/internal/storage"
)

// components are the collaborators shared by every command.
type components struct {
	db    *database.DB
	audit *audit.Recorder
	svc   *seoservice.Service
	out   *storage.FS
}

func (c *components) Close() error {
	return c.db.Close()
}

// newLogger installs the structured JSON logger as the default.
func (a *application) newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// bootstrap opens the database, makes sure the settings record exists and
// wires the service.
func (a *application) bootstrap(ctx context.Context, logger *slog.Logger) (*components, error) {
	cfg := a.config

	db, err := database.Open(cfg.Database.Options())
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	rec := audit.NewRecorder(db.SQL(), logger)
	store := settings.NewStore(db.SQL(), rec)

	created, err := store.Seed(ctx, cfg.Site.Defaults())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	if created {
		logger.Info("Settings record created", slog.String("base_url", cfg.Site.URL))
	}

	opts := []seoservice.Option{
		seoservice.WithLogger(logger),
		seoservice.WithFallbackBaseURL(cfg.Site.URL),
	}

	var out *storage.FS
	dir := cfg.Export.Dir
	if a.exportDir != "" {
		dir = a.exportDir
	}
	if dir != "" {
		out, err = storage.NewFS(dir)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init export dir: %w", err)
		}
		opts = append(opts, seoservice.WithExport(out))
	}

	svc := seoservice.NewService(store, content.NewCollector(content.DefaultSources(db.SQL())...), rec, opts...)
	return &components{db: db, audit: rec, svc: svc, out: out}, nil
}
