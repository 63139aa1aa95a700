// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/cellarmind/v1/internal/application/enrichment"
	"github.com/cellarmind/v1/internal/infrastructure/ai/mistral"
	"github.com/cellarmind/v1/internal/infrastructure/ai/openai"
	"github.com/cellarmind/v1/internal/infrastructure/config"
	"github.com/cellarmind/v1/internal/infrastructure/http/server"
	gormRepo "github.com/cellarmind/v1/internal/infrastructure/persistence/gorm"
	"github.com/cellarmind/v1/internal/infrastructure/persistence/memory"
	"github.com/cellarmind/v1/internal/infrastructure/persistence/redis"
	"github.com/cellarmind/v1/internal/infrastructure/persistence/sqlite"
	"github.com/cellarmind/v1/internal/infrastructure/vintage"
	"github.com/cellarmind/v1/internal/ports/outbound"
	"github.com/cellarmind/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	AIModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the SQLite cellar database
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := sqlite.SetupDatabase(cfg.Database.Path, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}

		if cfg.Database.Seed {
			if err := sqlite.SeedDatabase(db); err != nil {
				log.Warn("failed to seed database", zap.Error(err))
			}
		}

		log.Info("connected to SQLite database", zap.String("path", cfg.Database.Path))
		return db, nil
	},
)

// CacheModule provides the enrichment cache, selected by config
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		switch cfg.Cache.Backend {
		case "redis":
			cache, err := redis.NewCacheRepository(context.Background(), redis.Config{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				Database: cfg.Redis.Database,
			}, log)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to redis: %w", err)
			}
			log.Info("using redis enrichment cache",
				zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
			return cache, nil
		default:
			log.Info("using in-memory enrichment cache")
			return memory.NewCacheRepository(log), nil
		}
	},
)

// RepositoryModule provides the cellar store and the vintage chart
var RepositoryModule = fx.Provide(
	func(db *gorm.DB) outbound.WineRepository {
		return gormRepo.NewWineRepository(db)
	},
	func() outbound.VintageChart {
		return vintage.NewChart()
	},
)

// AIModule provides the LLM client, selected by config
var AIModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.LLMClient {
		switch cfg.AI.Provider {
		case "mistral":
			return mistral.NewClient(mistral.Config{
				APIKey:            cfg.AI.MistralKey,
				Model:             cfg.AI.MistralModel,
				Timeout:           cfg.AI.Timeout,
				RequestsPerSecond: cfg.AI.RequestsPerSecond,
			}, log)
		default:
			return openai.NewClient(openai.Config{
				APIKey:            cfg.AI.OpenAIKey,
				Model:             cfg.AI.OpenAIModel,
				Timeout:           cfg.AI.Timeout,
				RequestsPerSecond: cfg.AI.RequestsPerSecond,
			}, log)
		}
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		cfg *config.Config,
		cache outbound.CacheRepository,
		store outbound.WineRepository,
		chart outbound.VintageChart,
		llm outbound.LLMClient,
		log *zap.Logger,
	) *enrichment.Service {
		return enrichment.NewService(enrichment.Config{
			CacheTTL:        cfg.Cache.TTL,
			DefaultLanguage: cfg.App.Language,
			Temperature:     cfg.AI.Temperature,
			MaxTokens:       cfg.AI.MaxTokens,
		}, cache, store, chart, llm, log)
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule wires start and stop hooks
var LifecycleModule = fx.Invoke(
	func(lc fx.Lifecycle, srv *server.Server, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := srv.Start(); err != nil {
						log.Error("HTTP server stopped", zap.Error(err))
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
		})
	},
)
