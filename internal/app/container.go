// Package app wires moodscope's dependencies for the CLI, the API and the worker.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/breaker"
	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/cache"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/commands"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/queries"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/subscribers"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
	"github.com/felixgeelhaar/moodscope/internal/wellness/infrastructure/devicedata"
	"github.com/felixgeelhaar/moodscope/internal/wellness/infrastructure/persistence"
	"github.com/felixgeelhaar/moodscope/internal/wellness/infrastructure/reportgen"
	"github.com/felixgeelhaar/moodscope/internal/wellness/infrastructure/stressapi"
	"github.com/felixgeelhaar/moodscope/pkg/config"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Storage
	DBConn      database.Connection
	RedisClient *redis.Client
	Cache       cache.Cache

	// Repositories and device sources
	HistoryRepo  *persistence.HistoryRepository
	BaselineRepo *persistence.BaselineRepository
	ProfileRepo  *persistence.ProfileRepository
	MoodRepo     *persistence.MoodRepository
	Device       *devicedata.Source

	// External services. Nil when not configured.
	StressSource    domain.StressSource
	ReportGenerator domain.ReportGenerator

	// Events. Bus is set when events are delivered in-process.
	EventPublisher   eventbus.Publisher
	Bus              *eventbus.InProcessBus
	CacheInvalidator *subscribers.CacheInvalidator

	// Services
	Profiles   *services.ProfileService
	Social     *services.SocialTracker
	ScreenTime *services.ScreenTimeAnalyzer
	Aggregator *services.WellnessAggregator
	Reports    *services.ReportService

	// Command handlers
	RecordInteractionsHandler *commands.RecordInteractionsHandler
	LogMoodHandler            *commands.LogMoodHandler
	SaveProfileHandler        *commands.SaveProfileHandler
	ClearCacheHandler         *commands.ClearCacheHandler

	// Query handlers
	GetDailySeriesHandler *queries.GetDailySeriesHandler
	GetSocialScoreHandler *queries.GetSocialScoreHandler
	GetScreenTimeHandler  *queries.GetScreenTimeHandler
	GenerateReportHandler *queries.GenerateReportHandler
}

// NewContainer creates and wires all dependencies. Without DATABASE_URL the
// embedded SQLite store is used; Redis and RabbitMQ are optional and fall
// back to in-memory counterparts in development.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initEvents(); err != nil {
		c.Close()
		return nil, err
	}

	fallback, err := loadFallbackProfile(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.HistoryRepo = persistence.NewHistoryRepository(c.DBConn)
	c.BaselineRepo = persistence.NewBaselineRepository(c.DBConn)
	c.ProfileRepo = persistence.NewProfileRepository(c.DBConn)
	c.MoodRepo = persistence.NewMoodRepository(c.DBConn)
	c.Device = devicedata.NewSource(cfg.DeviceDataDir)
	c.initExternalServices(ctx)

	// Services
	c.Profiles = services.NewProfileService(c.ProfileRepo, fallback, logger)
	c.Social = services.NewSocialTracker(c.HistoryRepo, c.BaselineRepo, c.Device, c.Profiles,
		services.SocialConfig{RetentionDays: cfg.HistoryRetentionDays, BaselineMinDays: cfg.BaselineMinDays}, logger)
	c.ScreenTime = services.NewScreenTimeAnalyzer(c.Device, logger)
	c.Aggregator = services.NewWellnessAggregator(c.MoodRepo, c.Social, c.ScreenTime, c.StressSource, c.Cache, logger).
		WithTTL(cfg.CacheTTL).
		WithMetrics(c.Metrics)
	c.Reports = services.NewReportService(services.ReportDeps{
		Aggregator: c.Aggregator,
		History:    c.HistoryRepo,
		Stress:     c.StressSource,
		Screen:     c.ScreenTime,
		Sleep:      c.Device,
		Generator:  c.ReportGenerator,
		Metrics:    c.Metrics,
		Logger:     logger,
	})

	// Command handlers
	c.RecordInteractionsHandler = commands.NewRecordInteractionsHandler(c.Social, c.EventPublisher, logger)
	c.LogMoodHandler = commands.NewLogMoodHandler(c.MoodRepo, c.Profiles, c.EventPublisher, logger)
	c.SaveProfileHandler = commands.NewSaveProfileHandler(c.Profiles, c.EventPublisher, logger)
	c.ClearCacheHandler = commands.NewClearCacheHandler(c.Cache, c.Metrics)

	// Query handlers
	c.GetDailySeriesHandler = queries.NewGetDailySeriesHandler(c.Aggregator, c.Profiles, cfg.DeviceID)
	c.GetSocialScoreHandler = queries.NewGetSocialScoreHandler(c.Social)
	c.GetScreenTimeHandler = queries.NewGetScreenTimeHandler(c.ScreenTime, c.Profiles)
	c.GenerateReportHandler = queries.NewGenerateReportHandler(c.Reports, c.Profiles, cfg.DeviceID)

	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	conn, err := database.Open(ctx, database.Config{
		Driver:     database.DetectDriver(c.Config.DatabaseURL),
		URL:        c.Config.DatabaseURL,
		SQLitePath: c.Config.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn

	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	c.Logger.Info("connected to database", "driver", conn.Driver(), "migrations_applied", len(applied))
	c.Health.Register("database", observability.PingChecker("database", true, conn.Ping))
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	c.Cache = cache.NewMemoryCache()
	if c.Config.RedisURL == "" {
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, using in-memory cache", "error", err)
		return nil
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, using in-memory cache", "error", err)
		return nil
	}

	c.RedisClient = client
	redisCache := cache.NewRedisCache(client, cache.DefaultRedisPrefix)
	c.Cache = redisCache
	c.Health.Register("redis", observability.PingChecker("redis", false, redisCache.Ping))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initEvents() error {
	c.CacheInvalidator = subscribers.NewCacheInvalidator(c.Cache, c.Metrics, c.Logger)

	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		switch {
		case err == nil:
			c.EventPublisher = publisher
			return nil
		case !c.Config.IsDevelopment():
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		default:
			c.Logger.Warn("RabbitMQ not available, delivering events in-process", "error", err)
		}
	}

	c.Bus = eventbus.NewInProcessBus(c.Logger)
	c.Bus.RegisterConsumer(c.CacheInvalidator)
	c.EventPublisher = c.Bus
	return nil
}

func (c *Container) initExternalServices(ctx context.Context) {
	cfg := c.Config
	breakerConfig := func(name string) breaker.Config {
		return breaker.Config{
			Name:             name,
			FailureThreshold: convert.IntToUint32Clamped(cfg.BreakerFailureThreshold),
			OpenTimeout:      cfg.BreakerOpenTimeout,
		}
	}

	if cfg.StressAPIURL != "" {
		client := stressapi.NewClient(cfg.StressAPIURL, c.Logger).
			WithTimeout(cfg.HTTPTimeout).
			WithBreaker(breaker.New(breakerConfig("stress-api"), c.Logger, c.Metrics))
		if ts := stressapi.TokenSource(ctx, stressapi.Credentials{
			Token:        cfg.StressAPIToken,
			ClientID:     cfg.StressAPIClientID,
			ClientSecret: cfg.StressAPIClientSecret,
			TokenURL:     cfg.StressAPITokenURL,
		}); ts != nil {
			client = client.WithTokenSource(ts)
		}
		c.StressSource = client
	} else {
		c.Logger.Info("stress API not configured, work stress will score neutral")
	}

	if cfg.ReportAPIURL != "" {
		c.ReportGenerator = reportgen.NewClient(cfg.ReportAPIURL, c.Logger).
			WithTimeout(cfg.HTTPTimeout).
			WithBreaker(breaker.New(breakerConfig("report-generator"), c.Logger, c.Metrics))
	}
}

// loadFallbackProfile overlays the optional profile file on the built-in
// default profile.
func loadFallbackProfile(cfg *config.Config) (domain.UserProfile, error) {
	profile := domain.DefaultUserProfile()
	if _, err := config.LoadProfileFile(cfg.ProfilePath, &profile); err != nil {
		return profile, err
	}
	if err := profile.Validate(); err != nil {
		return profile, fmt.Errorf("profile file %s: %w", cfg.ProfilePath, err)
	}
	return profile, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBConn.Driver())
		}
	}
}
