package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/moodscope/adapter/api"
	"github.com/felixgeelhaar/moodscope/internal/app"
	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodscope/pkg/config"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

const (
	statsInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting moodscope worker")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	g, gctx := errgroup.WithContext(ctx)

	// Events published by other processes arrive over RabbitMQ; in-process
	// events are already handled by the container's bus.
	if cfg.RabbitMQURL != "" && container.Bus == nil {
		consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
			URL:    cfg.RabbitMQURL,
			Logger: logger,
		}, eventbus.NewRegistry(logger))
		if err != nil {
			logger.Error("failed to create event consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()

		if err := consumer.RegisterConsumer(container.CacheInvalidator); err != nil {
			logger.Error("failed to register cache invalidator", "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			err := consumer.Start(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	apiServer := api.NewServer(api.ServerConfig{
		Addr:         cfg.APIAddr,
		ReadTimeout:  api.DefaultServerConfig().ReadTimeout,
		WriteTimeout: api.DefaultServerConfig().WriteTimeout,
		IdleTimeout:  api.DefaultServerConfig().IdleTimeout,
	}, api.NewWellnessHandler(api.WellnessHandlerConfig{
		RecordInteractions: container.RecordInteractionsHandler,
		LogMood:            container.LogMoodHandler,
		SaveProfile:        container.SaveProfileHandler,
		ClearCache:         container.ClearCacheHandler,
		DailySeries:        container.GetDailySeriesHandler,
		SocialScore:        container.GetSocialScoreHandler,
		ScreenTime:         container.GetScreenTimeHandler,
		GenerateReport:     container.GenerateReportHandler,
		Profiles:           container.Profiles,
		Logger:             logger,
	}), container.Health, logger)
	serve(gctx, g, "api", apiServer.Start, apiServer.Shutdown)

	if cfg.WorkerHealthAddr != "" {
		healthSrv := &http.Server{
			Addr:              cfg.WorkerHealthAddr,
			Handler:           healthMux(container),
			ReadHeaderTimeout: 5 * time.Second,
		}
		logger.Info("health server starting", "addr", cfg.WorkerHealthAddr)
		serve(gctx, g, "health", healthSrv.ListenAndServe, healthSrv.Shutdown)
	}

	g.Go(func() error {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				logger.Info("worker stats", "counters", container.Metrics.Snapshot())
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
	fmt.Println("Goodbye!")
}

// serve runs start until ctx ends, then calls shutdown.
func serve(ctx context.Context, g *errgroup.Group, name string, start func() error, shutdown func(context.Context) error) {
	g.Go(func() error {
		if err := start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return shutdown(shutdownCtx)
	})
}

func healthMux(container *app.Container) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/healthz", container.Health.Handler())

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		w.Header().Set("Content-Type", "application/json")
		if err := container.DBConn.Ping(checkCtx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ready"})
	})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(container.Metrics.Snapshot())
	})
	return mux
}
