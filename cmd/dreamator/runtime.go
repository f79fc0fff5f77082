package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/basel-ax/dreamator/internal/app"
	"github.com/basel-ax/dreamator/internal/config"
	"github.com/basel-ax/dreamator/internal/domain"
	"github.com/basel-ax/dreamator/internal/infrastructure/pollinations"
	"github.com/basel-ax/dreamator/internal/repository"
	"github.com/basel-ax/dreamator/internal/service"
)

// runtime bundles the wired application components.
type runtime struct {
	catalog    *domain.Catalog
	controller *app.Controller
	store      repository.KVStore
}

func newRuntime(ctx context.Context, cfg *config.Config, sharer domain.Sharer) (*runtime, error) {
	catalog, err := domain.LoadCatalog(cfg.StylesPath)
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	builder := pollinations.NewRequestBuilder(cfg.BaseURL, catalog, nil)
	client := pollinations.NewClient(builder, cfg.HTTPTimeout)
	generator := service.NewImageGenerationService(client, cfg.BatchSize)

	controller := app.NewController(ctx, app.Dependencies{
		Generator: generator,
		Fetcher:   client,
		Gallery:   repository.NewGalleryRepository(store, cfg.GalleryKey),
		Sharer:    sharer,
	}, app.Options{
		BatchSize:   cfg.BatchSize,
		DownloadDir: cfg.DownloadDir,
	})

	return &runtime{catalog: catalog, controller: controller, store: store}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close gallery store")
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.KVStore, error) {
	switch cfg.GalleryBackend {
	case config.BackendMemory:
		return repository.NewMemoryStore(), nil

	case config.BackendPostgres:
		log.Debug().Str("host", cfg.DB.Host).Msg("Initializing database connection...")
		db, err := sql.Open("postgres", cfg.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

		store := repository.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare database: %w", err)
		}
		return store, nil

	default:
		if err := os.MkdirAll(cfg.GalleryDir, 0o755); err != nil {
			return nil, fmt.Errorf("create gallery dir: %w", err)
		}
		return repository.NewBadgerStore(repository.BadgerOptions{Dir: cfg.GalleryDir})
	}
}

// writerSharer "shares" by printing the share payload.
type writerSharer struct {
	w io.Writer
}

func (s writerSharer) Share(_ context.Context, data domain.ShareData) error {
	_, err := fmt.Fprintf(s.w, "%s\n%s\n%s\n", data.Title, data.Text, data.URL)
	return err
}

func printGallery(w io.Writer, images []domain.GeneratedImage) {
	if len(images) == 0 {
		fmt.Fprintln(w, "The gallery is empty.")
		return
	}
	for i, img := range images {
		fmt.Fprintf(w, "%3d. %s\n     seed=%d model=%s\n     %s\n", i+1, img.Prompt, img.Settings.Seed, img.Settings.Model, img.URL)
	}
}

func printStyles(w io.Writer, styles []domain.StyleOption) {
	for _, s := range styles {
		fmt.Fprintf(w, "%-16s %s - %s\n", s.ID, s.Label, s.Description)
	}
}
