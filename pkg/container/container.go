package container

import (
	"context"
	"fmt"
	"time"

	"wildlife-catalog-backend/internal/config"
	infraCache "wildlife-catalog-backend/internal/infrastructure/cache"
	"wildlife-catalog-backend/internal/infrastructure/database"
	"wildlife-catalog-backend/internal/infrastructure/memstore"
	"wildlife-catalog-backend/internal/infrastructure/sqlitestore"
	"wildlife-catalog-backend/internal/seed"
	"wildlife-catalog-backend/pkg/cache"
	"wildlife-catalog-backend/pkg/jwt"
	"wildlife-catalog-backend/pkg/logger"

	contributionHandler "wildlife-catalog-backend/internal/domains/contribution/handler"
	contributionRepo "wildlife-catalog-backend/internal/domains/contribution/repository"
	contributionService "wildlife-catalog-backend/internal/domains/contribution/service"
	ecosystemHandler "wildlife-catalog-backend/internal/domains/ecosystem/handler"
	ecosystemRepo "wildlife-catalog-backend/internal/domains/ecosystem/repository"
	ecosystemService "wildlife-catalog-backend/internal/domains/ecosystem/service"
	speciesHandler "wildlife-catalog-backend/internal/domains/species/handler"
	speciesRepo "wildlife-catalog-backend/internal/domains/species/repository"
	speciesService "wildlife-catalog-backend/internal/domains/species/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config
	DB         *database.PostgresDB    // postgres driver only
	SQLite     *sqlitestore.Store      // sqlite driver only
	Redis      *infraCache.RedisClient // nil when REDIS_ADDR is empty
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	ContributionRepo contributionRepo.Repository
	SpeciesRepo      speciesRepo.Repository
	EcosystemRepo    ecosystemRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================

	ContributionService contributionService.ServiceInterface
	SpeciesService      speciesService.ServiceInterface
	EcosystemService    ecosystemService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================

	ContributionHandler *contributionHandler.ContributionHandler
	SpeciesHandler      *speciesHandler.SpeciesHandler
	EcosystemHandler    *ecosystemHandler.EcosystemHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in order:
// store, cache, repositories, services, handlers.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{
		Config:     cfg,
		JWTManager: jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry),
	}

	// Step 1: Record store and repositories
	if err := c.initStore(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// Step 2: Cache
	if err := c.initCache(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// Step 3: Seed an empty store
	if cfg.Store.Seed {
		if _, err := seed.Run(ctx, c.EcosystemRepo, c.SpeciesRepo, time.Now()); err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	// Step 4: Services and handlers
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"store": cfg.Store.Driver,
		"redis": c.Redis != nil,
	})
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Store.Driver {
	case config.DriverPostgres:
		db := database.NewPostgresDB(c.Config.Database.DBConfig())

		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := db.Connect(connectCtx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		c.ContributionRepo = contributionRepo.NewPostgresRepository(db.Pool)
		c.SpeciesRepo = speciesRepo.NewPostgresRepository(db.Pool)
		c.EcosystemRepo = ecosystemRepo.NewPostgresRepository(db.Pool)

	case config.DriverSQLite:
		store, err := sqlitestore.Open(c.Config.Store.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
		c.SQLite = store
		c.useMemstore(store.Store)

	default:
		c.useMemstore(memstore.New())
	}
	return nil
}

func (c *Container) useMemstore(store *memstore.Store) {
	c.ContributionRepo = store.Contributions()
	c.SpeciesRepo = store.Species()
	c.EcosystemRepo = store.Ecosystems()
}

// initCache uses Redis when configured and falls back to process memory
func (c *Container) initCache(ctx context.Context) error {
	if c.Config.Redis.Addr == "" {
		c.Cache = infraCache.NewMemoryCache()
		return nil
	}

	client := infraCache.NewRedisClient(c.Config.Redis.Addr, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := client.Connect(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.Redis = client
	c.Cache = infraCache.NewRedisCache(client.Client, c.Config.Redis.Prefix)
	return nil
}

func (c *Container) initServices() {
	c.ContributionService = contributionService.NewContributionService(c.ContributionRepo, nil)
	c.SpeciesService = speciesService.NewSpeciesService(c.SpeciesRepo, c.EcosystemRepo, nil)
	c.EcosystemService = ecosystemService.NewEcosystemService(c.EcosystemRepo, c.SpeciesRepo, c.Cache, nil)
}

func (c *Container) initHandlers() {
	c.ContributionHandler = contributionHandler.NewContributionHandler(c.ContributionService)
	c.SpeciesHandler = speciesHandler.NewSpeciesHandler(c.SpeciesService)
	c.EcosystemHandler = ecosystemHandler.NewEcosystemHandler(c.EcosystemService)
}

// HealthCheck reports the state of every backing service
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"store": c.Config.Store.Driver}

	if c.DB != nil {
		status["database"] = "ok"
		if err := c.DB.Ping(ctx); err != nil {
			status["database"] = err.Error()
		}
	}

	status["cache"] = "ok"
	if err := c.Cache.Ping(ctx); err != nil {
		status["cache"] = err.Error()
	}

	return status
}

// Cleanup releases every opened resource
func (c *Container) Cleanup() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			logger.Error("failed to close sqlite store", err)
		}
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
