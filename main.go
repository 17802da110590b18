package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sjsage522/couponfinder/config"
	"sjsage522/couponfinder/internal"
	"sjsage522/couponfinder/internal/crawler"
	"sjsage522/couponfinder/logger"
	"sjsage522/couponfinder/services/api"
	"sjsage522/couponfinder/services/worker"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("listing_url", cfg.ListingURL).
		Str("api_addr", cfg.APIAddr).
		Bool("publishing", cfg.PublishEnabled()).
		Msg("Starting application")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := internal.NewDependencies(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer deps.Close()

	server := &http.Server{
		Addr:    cfg.APIAddr,
		Handler: api.NewServer(deps.Service, cfg.DefaultListingLimit).Router(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.APIAddr).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if deps.Publisher != nil {
		mode := crawler.ModeStatic
		if cfg.PublishRendered {
			mode = crawler.ModeRendered
		}

		w := worker.NewWorker(deps.Service, deps.Publisher, deps.Cache, worker.Options{
			Interval: cfg.PublishInterval,
			Limit:    cfg.DefaultListingLimit,
			Mode:     mode,
			SeenTTL:  cfg.SeenTTL,
		})

		g.Go(func() error {
			log.Info().Dur("interval", cfg.PublishInterval).Msg("Starting listing worker")
			return w.Start(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Exited with error")
	}

	log.Info().Msg("Shutting down gracefully...")
}
