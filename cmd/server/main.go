package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/paper-digest/backend/internal/config"
	delivery "github.com/paper-digest/backend/internal/delivery/http"
	"github.com/paper-digest/backend/internal/journal"
	"github.com/paper-digest/backend/internal/observability"
	"github.com/paper-digest/backend/internal/usecase"
	"github.com/paper-digest/backend/pkg/crossref"
	"github.com/paper-digest/backend/pkg/openalex"
)

func main() {
	// A missing .env is fine, the environment wins anyway.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)

	openalexClient := openalex.NewClient(openalex.Config{
		BaseURL:   cfg.OpenAlex.BaseURL,
		Contact:   cfg.Contact.Email,
		UserAgent: cfg.UserAgent(),
		Timeout:   cfg.OpenAlex.Timeout,
		RateLimit: cfg.OpenAlex.RateLimit,
		Burst:     cfg.OpenAlex.Burst,
	})
	crossrefClient := crossref.NewClient(crossref.Config{
		BaseURL:   cfg.Crossref.BaseURL,
		Contact:   cfg.Contact.Email,
		UserAgent: cfg.UserAgent(),
		Timeout:   cfg.Crossref.Timeout,
		RateLimit: cfg.Crossref.RateLimit,
		Burst:     cfg.Crossref.Burst,
	})

	resolver := journal.NewResolver(journal.NewCache(), openalexClient, cfg.Digest.LookupTimeout, logger)
	digestUsecase := usecase.NewDigestUsecase(
		resolver,
		openalexClient,
		crossrefClient,
		cfg.Digest.PrimaryMaxPages,
		cfg.Digest.SecondaryMaxPages,
		logger,
	)

	handler := delivery.NewHandler(digestUsecase)
	router := delivery.NewRouter(handler, logger, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}
