package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/studentcrm/internal/app/controllers"
	appMigrations "github.com/yigit/studentcrm/internal/app/migrations"
	appModels "github.com/yigit/studentcrm/internal/app/models"
	appRepos "github.com/yigit/studentcrm/internal/app/repositories"
	appRoutes "github.com/yigit/studentcrm/internal/app/routes"
	appServices "github.com/yigit/studentcrm/internal/app/services"
	"github.com/yigit/studentcrm/internal/config"
	"github.com/yigit/studentcrm/internal/db"
	appMiddleware "github.com/yigit/studentcrm/internal/middleware"
	pkgAuth "github.com/yigit/studentcrm/internal/pkg/auth"
	"github.com/yigit/studentcrm/internal/pkg/helpers"
	"github.com/yigit/studentcrm/internal/pkg/logger"
	"github.com/yigit/studentcrm/internal/pkg/ratelimit"
	"github.com/yigit/studentcrm/internal/seed"
)

// DefaultConfigPath is used when no path is given on the command line
const DefaultConfigPath = "configs/config.yaml"

// Stores holds the storage backends selected by configuration and the
// connections behind them. Connection fields are nil when unused.
type Stores struct {
	Records   appRepos.RecordSource
	Documents appRepos.DocumentStore
	Users     appRepos.UserRepository

	Postgres *db.PostgresDB
	Mongo    *db.MongoDB
	Redis    *redis.Client

	// writer is set for backends the importer can fill
	writer appRepos.RecordWriter
}

// RecordWriter returns the writable records backend, or an error when the
// configured driver is read-only.
func (s *Stores) RecordWriter() (appRepos.RecordWriter, error) {
	if s.writer == nil {
		return nil, errors.New("records driver does not support import; use mongo, postgres or memory")
	}
	return s.writer, nil
}

// Close releases every open connection.
func (s *Stores) Close(ctx context.Context) error {
	var err error
	if s.Redis != nil {
		err = errors.Join(err, s.Redis.Close())
	}
	if s.Mongo != nil {
		err = errors.Join(err, s.Mongo.Close(ctx))
	}
	if s.Postgres != nil {
		s.Postgres.Close()
	}
	return err
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos      *appRepos.Repositories
	JWTService *pkgAuth.JWTService
	Limiter    ratelimit.Limiter

	AuthService          *appServices.AuthService
	StudentService       *appServices.StudentService
	FinanceService       *appServices.FinanceService
	CommunicationService *appServices.CommunicationService
	OpportunityService   *appServices.OpportunityService
	SessionService       *appServices.SessionService
	TimelineService      *appServices.TimelineService
	SummaryService       *appServices.SummaryService
	ResourceServices     []*appServices.ResourceService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.ConfigFromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("logFormat", cfg.Logging.Format).
		Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupPostgres connects to PostgreSQL and applies the migrations found in
// cfg.Database.MigrationsDir.
func SetupPostgres(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := RunMigrations(ctx, cfg, database, lgr); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// RunMigrations applies every pending SQL file of the migrations directory.
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// SetupStores opens the connections the configured drivers need and builds
// the records, documents and users backends on top of them.
func SetupStores(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Stores, error) {
	stores := &Stores{}
	fail := func(err error) (*Stores, error) {
		_ = stores.Close(context.Background())
		return nil, err
	}

	if cfg.UsesDriver(config.DriverPostgres) {
		pg, err := SetupPostgres(ctx, cfg, lgr)
		if err != nil {
			return nil, fmt.Errorf("failed to setup database: %w", err)
		}
		stores.Postgres = pg
	}

	if cfg.UsesDriver(config.DriverMongo) {
		lgr.Info().Str("database", cfg.Mongo.Database).Msg("Connecting to MongoDB...")
		mongoDB, err := db.NewMongoDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to MongoDB")
			return fail(err)
		}
		stores.Mongo = mongoDB
		if err := appRepos.EnsureMongoIndexes(ctx, mongoDB.Database); err != nil {
			lgr.Error().Err(err).Msg("Failed to create MongoDB indexes")
			return fail(err)
		}
	}

	redisClient, err := db.NewRedisClient(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to Redis")
		return fail(err)
	}
	stores.Redis = redisClient

	switch cfg.Storage.Records.Driver {
	case config.DriverJSONFile:
		stores.Records = appRepos.NewJSONFileSource(cfg.Storage.Records.DataDir)
	case config.DriverMemory:
		mem := appRepos.NewMemoryStore()
		// Missing or broken tables are logged; the rest still serve
		if _, err := seed.ImportDirectory(ctx, cfg.Storage.Records.DataDir, mem, lgr); err != nil {
			lgr.Warn().Err(err).Msg("Some record tables could not be loaded")
		}
		stores.Records, stores.writer = mem, mem
	case config.DriverMongo:
		store := appRepos.NewMongoStore(stores.Mongo.Database)
		stores.Records, stores.writer = store, store
	case config.DriverPostgres:
		store := appRepos.NewPostgresStore(stores.Postgres.Pool)
		stores.Records, stores.writer = store, store
	}

	switch cfg.Storage.Documents.Driver {
	case config.DriverMemory:
		stores.Documents = appRepos.NewMemoryStore()
		stores.Users = appRepos.NewMemoryUserRepository()
	case config.DriverMongo:
		stores.Documents = appRepos.NewMongoStore(stores.Mongo.Database)
		stores.Users = appRepos.NewMongoUserRepository(stores.Mongo.Database)
	case config.DriverPostgres:
		stores.Documents = appRepos.NewPostgresStore(stores.Postgres.Pool)
		stores.Users = appRepos.NewPostgresUserRepository(stores.Postgres.Pool)
	}

	lgr.Info().
		Str("records", cfg.Storage.Records.Driver).
		Str("documents", cfg.Storage.Documents.Driver).
		Bool("redis", stores.Redis != nil).
		Msg("Storage backends ready")
	return stores, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, stores *Stores, lgr zerolog.Logger) (*Dependencies, error) {
	if stores == nil || stores.Records == nil || stores.Documents == nil || stores.Users == nil {
		return nil, errors.New("storage backends are not initialized")
	}
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(stores.Records, stores.Documents, stores.Users)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Limiter = ratelimit.NoopLimiter{}
	if stores.Redis != nil {
		window := helpers.ParseDuration(cfg.Redis.LoginWindow, 15*time.Minute)
		deps.Limiter = ratelimit.NewRedisLimiter(stores.Redis, cfg.Redis.LoginMaxAttempts, window)
	}

	// Initialize services
	deps.AuthService = appServices.NewAuthService(deps.Repos.Users, deps.JWTService, deps.Limiter, lgr)
	deps.StudentService = appServices.NewStudentService(deps.Repos, lgr)
	deps.FinanceService = appServices.NewFinanceService(deps.Repos, lgr)
	deps.CommunicationService = appServices.NewCommunicationService(deps.Repos, lgr)
	deps.OpportunityService = appServices.NewOpportunityService(deps.Repos, lgr)
	deps.SessionService = appServices.NewSessionService(deps.Repos, lgr)
	deps.TimelineService = appServices.NewTimelineService(deps.Repos, lgr)
	deps.SummaryService = appServices.NewSummaryService(
		deps.StudentService,
		deps.FinanceService,
		deps.CommunicationService,
		deps.SessionService,
		lgr,
	)

	resourceControllers := make([]*appControllers.ResourceController, 0, len(appModels.Resources()))
	for _, schema := range appModels.Resources() {
		svc := appServices.NewResourceService(schema, deps.Repos.Documents, lgr)
		deps.ResourceServices = append(deps.ResourceServices, svc)
		resourceControllers = append(resourceControllers, appControllers.NewResourceController(svc))
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(deps.AuthService, lgr),
		Student: appControllers.NewStudentController(
			deps.StudentService,
			deps.TimelineService,
			deps.SummaryService,
		),
		Engagement: appControllers.NewEngagementController(
			deps.CommunicationService,
			deps.OpportunityService,
			deps.SessionService,
			deps.FinanceService,
		),
		Health:    appControllers.NewHealthController(cfg.Storage.Records.Driver, cfg.Storage.Documents.Driver),
		Resources: resourceControllers,
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		cors.New(corsConfig(cfg.Server.AllowedOrigins)),
		appMiddleware.Timeout(cfg.RequestTimeout()),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, cfg.Server.RequireAuth)
	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", appMiddleware.RequestIDHeader},
		ExposeHeaders: []string{appMiddleware.RequestIDHeader, "X-Total-Count", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	var allowed []string
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
		if o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		// cors.New rejects a config with no origin rule at all
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = allowed
	return c
}
