package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"books-api/internal/config"
	infraCache "books-api/internal/infrastructure/cache"
	"books-api/internal/infrastructure/database"
	"books-api/internal/migrate"
	"books-api/pkg/cache"
	pkgdb "books-api/pkg/database"
	"books-api/pkg/jwt"

	authorHandler "books-api/internal/domains/author/handler"
	authorRepo "books-api/internal/domains/author/repository"
	authorService "books-api/internal/domains/author/service"
	bookHandler "books-api/internal/domains/book/handler"
	bookRepo "books-api/internal/domains/book/repository"
	bookService "books-api/internal/domains/book/service"
	userHandler "books-api/internal/domains/user/handler"
	userRepo "books-api/internal/domains/user/repository"
	userService "books-api/internal/domains/user/service"
)

const startupTimeout = 2 * time.Minute

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is built
// once at startup and shared for the lifetime of the process.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient // nil when redis is disabled or unreachable
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories
	AuthorRepo authorRepo.RepositoryInterface
	BookRepo   bookRepo.RepositoryInterface
	UserRepo   userRepo.RepositoryInterface

	// Services
	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface
	UserService   userService.ServiceInterface

	// Handlers
	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.Handler
	UserHandler   *userHandler.UserHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer loads the configuration, opens the infrastructure and wires
// repositories, services and handlers in that order.
func NewContainer() (*Container, error) {
	log.Info().Msg("[CONTAINER] Initializing")

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("env", cfg.App.Environment).Msg("[CONTAINER] Config loaded")

	// ========================================
	// STEP 2: DATABASE
	// ========================================
	c.DB = database.NewPostgresDB(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// ========================================
	// STEP 3: MIGRATIONS
	// ========================================
	if cfg.Migrate.AutoMigrate {
		if err := migrate.Up(ctx, cfg.Database.DSN()); err != nil {
			c.DB.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Msg("[CONTAINER] Migrations applied")
	}

	// ========================================
	// STEP 4: CACHE (non-critical)
	// ========================================
	c.Cache = c.openCache(ctx)

	// ========================================
	// STEP 5: TOKENS
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	// ========================================
	// STEP 6: DOMAINS
	// ========================================
	c.Wire(c.DB.Pool)

	log.Info().Msg("[CONTAINER] Ready")
	return c, nil
}

// openCache connects to redis when it is enabled. A cache that cannot be
// reached only costs performance, so startup continues without it.
func (c *Container) openCache(ctx context.Context) cache.Cache {
	if !c.Config.Redis.Enabled {
		log.Info().Msg("[CONTAINER] Redis disabled, author cache off")
		return cache.Noop{}
	}

	client := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := client.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("[CONTAINER] Redis unavailable, continuing without cache")
		_ = client.Close()
		return cache.Noop{}
	}

	c.Redis = client
	return client
}

// Wire builds the domain layers on top of db. Config, Cache and JWTManager
// must already be set.
func (c *Container) Wire(db pkgdb.DB) {
	c.initRepositories(db)
	c.initServices()
	c.initHandlers()
}

func (c *Container) initRepositories(db pkgdb.DB) {
	if c.Cache == nil {
		c.Cache = cache.Noop{}
	}
	c.AuthorRepo = authorRepo.NewPostgresRepository(db, c.Cache)
	c.BookRepo = bookRepo.NewPostgresRepository(db)
	c.UserRepo = userRepo.NewPostgresRepository(db)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, userService.Options{
		AllowRoleOnRegister: c.Config.Auth.AllowRoleOnRegister,
		BcryptCost:          c.Config.Auth.BcryptCost,
	})
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases the pool and the redis client. Call it once on shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("[CONTAINER] Cleaning up")

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("[CONTAINER] Failed to close redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
