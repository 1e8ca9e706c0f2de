package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pubs-backend/internal/config"
	"pubs-backend/internal/infrastructure/database"
	"pubs-backend/internal/infrastructure/persistence"

	authorHandler "pubs-backend/internal/domains/author/handler"
	authorService "pubs-backend/internal/domains/author/service"
	bookHandler "pubs-backend/internal/domains/book/handler"
	bookService "pubs-backend/internal/domains/book/service"
	publisherHandler "pubs-backend/internal/domains/publisher/handler"
	publisherService "pubs-backend/internal/domains/publisher/service"
	saleHandler "pubs-backend/internal/domains/sale/handler"
	saleService "pubs-backend/internal/domains/sale/service"
	storeHandler "pubs-backend/internal/domains/store/handler"
	storeService "pubs-backend/internal/domains/store/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config *config.Config
	DB     *database.PostgresDB // nil khi container được build với factory có sẵn

	// Mỗi request mở một Unit of Work mới từ factory
	UnitOfWork persistence.Factory

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	AuthorService    authorService.ServiceInterface
	BookService      bookService.ServiceInterface
	PublisherService publisherService.ServiceInterface
	StoreService     storeService.ServiceInterface
	SaleService      saleService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	AuthorHandler    *authorHandler.AuthorHandler
	BookHandler      *bookHandler.Handler
	PublisherHandler *publisherHandler.PublisherHandler
	StoreHandler     *storeHandler.StoreHandler
	SaleHandler      *saleHandler.SaleHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph
//
// Thứ tự initialization:
// 1. Config
// 2. Database pool (+ schema nếu APP_AUTO_MIGRATE)
// 3. Unit of Work factory
// 4. Services
// 5. Handlers
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Msg("initializing DI container")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db := database.NewPostgresDB(cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	if cfg.App.AutoMigrate {
		if err := db.ApplySchema(ctx, cfg.App.SchemaPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	c := New(cfg, persistence.NewFactory(db.Pool))
	c.DB = db

	log.Info().Str("environment", cfg.App.Environment).Msg("DI container initialized")
	return c, nil
}

// New wires services and handlers on top of an existing Unit of Work factory.
func New(cfg *config.Config, uow persistence.Factory) *Container {
	c := &Container{Config: cfg, UnitOfWork: uow}
	c.initServices()
	c.initHandlers()
	return c
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.UnitOfWork)
	c.BookService = bookService.NewService(c.UnitOfWork)
	c.PublisherService = publisherService.NewPublisherService(c.UnitOfWork)
	c.StoreService = storeService.NewStoreService(c.UnitOfWork)
	c.SaleService = saleService.NewSaleService(c.UnitOfWork)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.PublisherHandler = publisherHandler.NewPublisherHandler(c.PublisherService)
	c.StoreHandler = storeHandler.NewStoreHandler(c.StoreService)
	c.SaleHandler = saleHandler.NewSaleHandler(c.SaleService)
}

// HealthCheck reports database reachability. A container without a
// database (tests) is always healthy.
func (c *Container) HealthCheck(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	return c.DB.HealthCheck(ctx)
}

// PoolStats returns nil when no database is wired or the pool is closed.
func (c *Container) PoolStats() *database.PoolStats {
	if c.DB == nil {
		return nil
	}
	stats, err := c.DB.Stats()
	if err != nil {
		return nil
	}
	return stats
}

// ========================================
// CLEANUP
// ========================================

func (c *Container) Cleanup() {
	log.Info().Msg("cleaning up container resources")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}
}
