// Command server runs the similarity API: it loads the catalog once at
// startup, builds the genre model and similarity engine over it, and
// serves /api/similar and /api/dump over HTTP until terminated.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CDrummond/essentia-api/internal/api"
	"github.com/CDrummond/essentia-api/internal/catalog"
	"github.com/CDrummond/essentia-api/internal/config"
	"github.com/CDrummond/essentia-api/internal/genre"
	"github.com/CDrummond/essentia-api/internal/logging"
	"github.com/CDrummond/essentia-api/internal/metrics"
	"github.com/CDrummond/essentia-api/internal/similarity"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.json", "path to the JSON configuration file")
	logLevel := flag.String("log-level", "", "log level (trace,debug,info,warn,error); info when unset")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logCfg := logging.DefaultConfig()
	if cfg.LogLevel != "" {
		logCfg.Level = cfg.LogLevel
	}
	logging.Init(logCfg)

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	model := genre.NewBuilder()
	index, err := catalog.Load(ctx, cfg.DB, model, catalog.NormalizeOptions{
		Album:  cfg.Album,
		Artist: cfg.Artist,
		Title:  cfg.Title,
	})
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	model.SetGroups(cfg.Genres)
	metrics.CatalogSize.Set(float64(index.Len()))

	engine := similarity.NewEngine(index, model)
	engine.OnRebuild = metrics.EngineTreeRebuilds.Inc

	handler := api.NewHandler(index, model, engine, cfg)
	router := api.NewRouter(handler, nil)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router.SetupChi(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Int("tracks", index.Len()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
