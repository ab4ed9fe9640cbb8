package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/claimtrack-api/internal/config"
	"github.com/jwalitptl/claimtrack-api/internal/export"
	claimHandler "github.com/jwalitptl/claimtrack-api/internal/handler/claim"
	healthHandler "github.com/jwalitptl/claimtrack-api/internal/handler/health"
	reportHandler "github.com/jwalitptl/claimtrack-api/internal/handler/report"
	"github.com/jwalitptl/claimtrack-api/internal/repository/sqlite"
	"github.com/jwalitptl/claimtrack-api/internal/router"
	claimService "github.com/jwalitptl/claimtrack-api/internal/service/claim"
	reportService "github.com/jwalitptl/claimtrack-api/internal/service/report"
	"github.com/jwalitptl/claimtrack-api/internal/validator"
	"github.com/jwalitptl/claimtrack-api/pkg/logger"
	"github.com/jwalitptl/claimtrack-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.Log.Level))
	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     true,
	})

	// Initialize database
	db, err := sqlite.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	m := metrics.NewMetrics("claimtrack")

	// Initialize repositories
	claimRepo := sqlite.NewClaimRepository(db, m)

	// Initialize services
	claimValidator := validator.New(validator.Options{
		EnforceApprovedLimit: cfg.Validation.EnforceApprovedLimit,
	})
	exporter := export.New()
	reportSvc := reportService.NewService(
		claimRepo,
		claimValidator,
		exporter,
		time.Duration(cfg.Stats.CacheTTLSeconds)*time.Second,
		m,
	)
	claimSvc := claimService.NewService(claimRepo, claimValidator, reportSvc, appLogger)

	// Initialize handlers
	claimH := claimHandler.NewHandler(claimSvc)
	reportH := reportHandler.NewHandler(reportSvc)
	healthH := healthHandler.NewHandler(db)

	// Setup router
	r := router.NewRouter(claimH, reportH, healthH, m, router.Config{
		RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
		RateBurst: cfg.RateLimit.Burst,
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("database", cfg.Database.Path).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
