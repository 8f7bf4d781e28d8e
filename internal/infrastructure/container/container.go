// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/mealprep/pantrymatch/internal/application/eventing"
	mealplanapp "github.com/mealprep/pantrymatch/internal/application/mealplan"
	pantryapp "github.com/mealprep/pantrymatch/internal/application/pantry"
	recipeapp "github.com/mealprep/pantrymatch/internal/application/recipe"
	"github.com/mealprep/pantrymatch/internal/infrastructure/ai"
	"github.com/mealprep/pantrymatch/internal/infrastructure/ai/openai"
	"github.com/mealprep/pantrymatch/internal/infrastructure/config"
	"github.com/mealprep/pantrymatch/internal/infrastructure/http/admin"
	"github.com/mealprep/pantrymatch/internal/infrastructure/http/handlers"
	"github.com/mealprep/pantrymatch/internal/infrastructure/http/server"
	"github.com/mealprep/pantrymatch/internal/infrastructure/messaging"
	"github.com/mealprep/pantrymatch/internal/infrastructure/monitoring"
	"github.com/mealprep/pantrymatch/internal/infrastructure/nutritionix"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/badger"
	gormrepo "github.com/mealprep/pantrymatch/internal/infrastructure/persistence/gorm"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/memory"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/migrations"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/postgres"
	rediscache "github.com/mealprep/pantrymatch/internal/infrastructure/persistence/redis"
	"github.com/mealprep/pantrymatch/internal/infrastructure/persistence/sqlite"
	"github.com/mealprep/pantrymatch/internal/ports/inbound"
	"github.com/mealprep/pantrymatch/internal/ports/outbound"
	"github.com/mealprep/pantrymatch/pkg/healthcheck"
	"github.com/mealprep/pantrymatch/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigPath is the configuration file to load. Empty searches the
// default locations.
type ConfigPath string

const badgerGCInterval = 10 * time.Minute

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	MonitoringModule,

	// Repository modules
	RepositoryModule,
	ClientModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Event modules
	EventModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, *viper.Viper, error) {
		return config.LoadWithViper(string(path))
	},
	func(cfg *config.Config) (*time.Location, error) {
		return cfg.Location()
	},
)

// LoggerModule provides logging. The level follows app.log_level in the
// config file while the process runs.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) zap.AtomicLevel {
		return zap.NewAtomicLevelAt(logger.ParseLevel(cfg.App.LogLevel))
	},
	func(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
		return logger.NewWithLevel(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		}, level)
	},
)

// DatabaseModule provides the catalog database. The memory driver
// provides a nil *gorm.DB.
var DatabaseModule = fx.Provide(NewDatabase)

// NewDatabase opens the database selected by database.driver
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Database.Driver {
	case "memory":
		log.Info("Using in-memory repositories")
		return nil, nil

	case "postgres":
		dsn := cfg.GetDSN()
		if cfg.Database.AutoMigrate {
			if err := migrations.Run(dsn, log); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		db, err = postgres.Open(ctx, cfg.Database, dsn, log)

	default:
		db, err = sqlite.SetupDatabase(cfg.Database.Path, postgres.GormLogLevel(cfg.Database.LogLevel))
		if err == nil {
			log.Info("Connected to SQLite database",
				zap.String("path", cfg.Database.Path),
				zap.Bool("in_memory", cfg.Database.Path == "" || cfg.Database.Path == sqlite.InMemory),
			)
		}
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}))
	return db, nil
}

// CacheModule provides caching. Redis is used when enabled, otherwise an
// in-process cache; the redis client is nil in that case.
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config) (redis.UniversalClient, error) {
		if !cfg.Redis.Enabled {
			return nil, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := rediscache.NewClient(ctx, cfg.Redis, cfg.RedisAddr())
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(client.Close))
		return client, nil
	},
	func(lc fx.Lifecycle, cfg *config.Config, client redis.UniversalClient, log *zap.Logger) outbound.CacheRepository {
		if client != nil {
			log.Info("Using Redis cache", zap.String("address", cfg.RedisAddr()))
			return rediscache.NewCacheRepository(client, cfg.Redis.KeyPrefix, log)
		}
		log.Info("Using in-memory cache")
		cache := memory.NewCacheRepository()
		lc.Append(fx.StopHook(cache.Close))
		return cache
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *monitoring.MetricsCollector {
		if !cfg.Monitoring.EnableMetrics {
			return nil
		}
		return monitoring.NewMetricsCollector(log)
	},
	func(metrics *monitoring.MetricsCollector) outbound.MetricsRecorder {
		if metrics == nil {
			return outbound.NopMetrics{}
		}
		return metrics
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tracing, err := monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.Monitoring.ServiceName,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(tracing.Shutdown))
		return tracing, nil
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	func(db *gorm.DB) outbound.RecipeRepository {
		if db == nil {
			return memory.NewRecipeRepository()
		}
		return gormrepo.NewRecipeRepository(db)
	},
	func(db *gorm.DB) outbound.MealPlanRepository {
		if db == nil {
			return memory.NewMealPlanRepository()
		}
		return gormrepo.NewMealPlanRepository(db)
	},
	NewPantryRepository,
)

// NewPantryRepository provides the store selected by pantry.store
func NewPantryRepository(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger) (outbound.PantryRepository, error) {
	if cfg.Pantry.Store == "badger" {
		bdb, err := badger.Open(cfg.Pantry.BadgerPath)
		if err != nil {
			return nil, err
		}
		repo := badger.NewPantryRepository(bdb, log)
		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				repo.StartGC(ctx, badgerGCInterval)
				return nil
			},
			OnStop: func(context.Context) error {
				cancel()
				return closeBadger(bdb)
			},
		})
		return repo, nil
	}
	if db == nil {
		return memory.NewPantryRepository(), nil
	}
	return gormrepo.NewPantryRepository(db), nil
}

func closeBadger(db *badgerdb.DB) error {
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close pantry store: %w", err)
	}
	return nil
}

// ClientModule provides the third-party API clients
var ClientModule = fx.Provide(
	func(cfg *config.Config, metrics outbound.MetricsRecorder, log *zap.Logger) outbound.NutritionProvider {
		return nutritionix.NewClient(cfg.Nutritionix, metrics, log)
	},
	func(cfg *config.Config, cache outbound.CacheRepository, metrics outbound.MetricsRecorder, log *zap.Logger) outbound.RecipeGenerator {
		var generator outbound.RecipeGenerator = openai.NewGenerator(cfg.AI, metrics, log)
		if cfg.AI.CacheTTL > 0 {
			generator = ai.NewCachedGenerator(generator, cache, cfg.AI.CacheTTL, metrics, log)
		}
		return generator
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		recipes outbound.RecipeRepository,
		pantry outbound.PantryRepository,
		cache outbound.CacheRepository,
		generator outbound.RecipeGenerator,
		bus outbound.MessageBus,
		metrics outbound.MetricsRecorder,
		cfg *config.Config,
		log *zap.Logger,
	) *recipeapp.RecipeService {
		return recipeapp.NewRecipeService(recipes, pantry, cache, generator, bus, metrics, recipeapp.Config{
			DefaultLimit: cfg.Matching.DefaultLimit,
			MatchTTL:     cfg.Cache.MatchTTL,
		}, log)
	},
	func(svc *recipeapp.RecipeService) inbound.RecipeService { return svc },

	fx.Annotate(
		pantryapp.NewPantryService,
		fx.As(new(inbound.PantryService)),
	),
	fx.Annotate(
		mealplanapp.NewMealPlanService,
		fx.As(new(inbound.MealPlanService)),
	),
)

// HTTPModule provides the API and admin servers
var HTTPModule = fx.Provide(
	handlers.NewRecipeHandlers,
	handlers.NewPantryHandlers,
	handlers.NewMealPlanHandlers,
	func(
		cfg *config.Config,
		log *zap.Logger,
		recipes *handlers.RecipeHandlers,
		pantry *handlers.PantryHandlers,
		mealPlans *handlers.MealPlanHandlers,
		metrics *monitoring.MetricsCollector,
		tracing *monitoring.TracingProvider,
	) (*server.Server, error) {
		router, err := server.NewRouter(cfg, log, server.Routes{
			Recipes:   recipes,
			Pantry:    pantry,
			MealPlans: mealPlans,
		}, metrics, tracing)
		if err != nil {
			return nil, err
		}
		return server.NewServer(cfg, router, log), nil
	},
	NewHealthCheck,
	func(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector, health *healthcheck.HealthCheck) *admin.Server {
		var metricsHandler http.Handler
		if metrics != nil {
			metricsHandler = metrics.Handler()
		}
		return admin.NewServer(cfg, admin.NewRouter(cfg.App.Version, metricsHandler, health), log)
	},
)

// NewHealthCheck registers a checker for every backing service in use
func NewHealthCheck(cfg *config.Config, db *gorm.DB, client redis.UniversalClient, log *zap.Logger) (*healthcheck.HealthCheck, error) {
	health := healthcheck.New(cfg.App.Version, log)
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		health.Register("database", healthcheck.SQL(sqlDB))
	}
	if client != nil {
		health.Register("redis", healthcheck.Redis(client))
	}
	return health, nil
}

// EventModule provides the message bus and its subscribers
var EventModule = fx.Options(
	fx.Provide(
		func(lc fx.Lifecycle, log *zap.Logger) *messaging.Bus {
			bus := messaging.NewBus(log)
			lc.Append(fx.StopHook(bus.Close))
			return bus
		},
		func(bus *messaging.Bus) outbound.MessageBus { return bus },
	),
	fx.Invoke(RegisterEventHandlers),
)

// RegisterEventHandlers drops cached match results whenever the catalog
// or the pantry changes
func RegisterEventHandlers(bus outbound.MessageBus, cache outbound.CacheRepository, log *zap.Logger) error {
	handler := eventing.InvalidatePrefix(cache, recipeapp.MatchCachePrefix, log)
	return eventing.Subscribe(context.Background(), bus, handler, outbound.TopicRecipes, outbound.TopicPantry)
}

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	WatchConfig,
	RegisterLifecycleHooks,
)

// WatchConfig applies log level changes from the config file
func WatchConfig(v *viper.Viper, level zap.AtomicLevel, log *zap.Logger) {
	if v.ConfigFileUsed() == "" {
		return
	}
	config.Watch(v, func(cfg *config.Config) {
		next := logger.ParseLevel(cfg.App.LogLevel)
		if next != level.Level() {
			log.Info("Log level changed", zap.Stringer("level", next))
			level.SetLevel(next)
		}
	}, func(err error) {
		log.Warn("Ignoring invalid configuration change", zap.Error(err))
	})
}

// LifecycleParams are the components started and stopped with the app
type LifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Config     *config.Config
	Logger     *zap.Logger
	Recipes    *recipeapp.RecipeService
	API        *server.Server
	Admin      *admin.Server
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(p LifecycleParams) {
	log := p.Logger
	cfg := p.Config

	serve := func(name string, start func() error) {
		go func() {
			if err := start(); err != nil {
				log.Error("Server stopped unexpectedly", zap.String("server", name), zap.Error(err))
				_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			}
		}()
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting PantryMatch",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
			)

			if cfg.Database.SeedSamples {
				if _, err := p.Recipes.SeedSampleCatalog(ctx); err != nil {
					log.Warn("Failed to seed sample recipes", zap.Error(err))
				}
			}

			serve("api", p.API.Start)
			if cfg.Server.AdminPort > 0 {
				serve("admin", p.Admin.Start)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down PantryMatch")

			if err := p.API.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown API server", zap.Error(err))
			}
			if cfg.Server.AdminPort > 0 {
				if err := p.Admin.Shutdown(ctx); err != nil {
					log.Error("Failed to shutdown admin server", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
