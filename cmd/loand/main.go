package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crediario/loan-engine/internal/application/cache"
	"github.com/crediario/loan-engine/internal/application/usecase"
	"github.com/crediario/loan-engine/internal/domain/service"
	"github.com/crediario/loan-engine/internal/infrastructure/config"
	"github.com/crediario/loan-engine/internal/infrastructure/messaging"
	pgRepo "github.com/crediario/loan-engine/internal/infrastructure/persistence/postgres"
	pkgkafka "github.com/crediario/loan-engine/pkg/kafka"
	"github.com/crediario/loan-engine/pkg/observability"
	pkgpostgres "github.com/crediario/loan-engine/pkg/postgres"
)

// loand is the resident daemon: it owns migrations, the periodic penalty
// sweep and the health/metrics endpoints. Interactive back-office operations
// go through loanctl.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Local development overrides; silently absent in production.
	_ = godotenv.Load()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	slog.SetDefault(logger)

	logger.Info("starting loan-engine", "http_port", cfg.HTTPPort)

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pgCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if migErr := pkgpostgres.RunMigrations(pgCfg.DSN(), "file://"+cfg.MigrationsDir); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	loanRepo := pgRepo.NewLoanRepo(pool)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{Brokers: cfg.Kafka.Brokers})
	defer kafkaProducer.Close()
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, "loan-events", logger)

	penaltyEngine := service.NewPenaltyEngine()
	loanCache := cache.NewLoanCache(cfg.CacheTTL)
	penaltyUC := usecase.NewApplyPenaltiesUseCase(loanRepo, publisher, penaltyEngine, loanCache)

	// Periodic penalty sweep.
	if cfg.SweepTenant != "" {
		go runPenaltySweep(ctx, penaltyUC, cfg.SweepTenant, cfg.SweepInterval, logger)
	}

	// HTTP server: health and metrics only.
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pkgpostgres.HealthCheck(r.Context(), pool); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/metrics", observability.MetricsHandler())

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("loan-engine stopped")
}

func runPenaltySweep(
	ctx context.Context,
	penaltyUC *usecase.ApplyPenaltiesUseCase,
	tenantID string,
	interval time.Duration,
	logger *slog.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			charged, err := penaltyUC.Sweep(ctx, tenantID, time.Now().UTC())
			if err != nil {
				logger.Error("penalty sweep failed", "tenant_id", tenantID, "error", err)
				continue
			}
			logger.Info("penalty sweep complete", "tenant_id", tenantID, "loans_charged", charged)
		}
	}
}
