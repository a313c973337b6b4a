package game

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ebenmoss/sultanate/internal/content"
	"github.com/ebenmoss/sultanate/internal/server"
	"github.com/ebenmoss/sultanate/internal/storage"
	bboltstore "github.com/ebenmoss/sultanate/internal/storage/bbolt"
	sqlitestore "github.com/ebenmoss/sultanate/internal/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Run loads the content catalog, opens the save store, and serves HTTP
// until the context is canceled.
func Run(ctx context.Context, cfg Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	catalog, err := content.LoadDir(cfg.ContentDir)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	log.Info().
		Int("cards", len(catalog.CardIDs())).
		Int("scenes", len(catalog.SceneIDs())).
		Str("dir", cfg.ContentDir).
		Msg("content loaded")

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open save store: %w", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: server.New(catalog, store, log).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "bbolt":
		return bboltstore.Open(cfg.StoragePath)
	case "sqlite":
		return sqlitestore.Open(cfg.StoragePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
