package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"insightgo/internal/delivery"
	"insightgo/internal/infrastructure"
	"insightgo/internal/usecase"
	"insightgo/pkg/config"
	"insightgo/pkg/logger"
	"insightgo/pkg/metrics"

	"github.com/joho/godotenv"
)

func main() {
	// Local development convenience, absent .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	m := metrics.New()

	responseCache := infrastructure.NewTTLCache(cfg.Cache.ResponseTTL)
	profileCache := infrastructure.NewTTLCache(cfg.Cache.ProfileTTL)
	narrativeCache := infrastructure.NewTTLCache(cfg.Cache.NarrativeTTL)

	provider := infrastructure.NewProviderClient(cfg.Provider, responseCache, profileCache, log, m)

	templateNarrative := infrastructure.NewTemplateNarrative(m)
	openAINarrative := infrastructure.NewOpenAINarrative(cfg.Narrative, templateNarrative, log, m)
	narrative := infrastructure.NewCachedNarrative(openAINarrative, narrativeCache, m)

	availability := usecase.NewAvailabilityService(provider, log, m)
	pipeline := usecase.NewPipelineService(provider, log, m)
	assembler := usecase.NewAssembler()
	reportService := usecase.NewReportService(provider, availability, pipeline, narrative, assembler, log, m)

	handlers := delivery.NewHTTPHandlers(reportService, cfg.Provider.DefaultBlogID, log, m)
	router := delivery.NewHTTPRouter(handlers, log, m)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.SetupRoutes(),
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}

	log.Info("Server stopped")
}
