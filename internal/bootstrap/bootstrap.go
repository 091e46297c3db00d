package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/emre/akademix/internal/app/controllers"
	appMigrations "github.com/emre/akademix/internal/app/migrations"
	appRepos "github.com/emre/akademix/internal/app/repositories"
	appRoutes "github.com/emre/akademix/internal/app/routes"
	appServices "github.com/emre/akademix/internal/app/services"
	"github.com/emre/akademix/internal/config"
	"github.com/emre/akademix/internal/db"
	appMiddleware "github.com/emre/akademix/internal/middleware"
	pkgAuth "github.com/emre/akademix/internal/pkg/auth"
	"github.com/emre/akademix/internal/pkg/logger"
	"github.com/emre/akademix/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           *appServices.AuthService
	UserService           *appServices.UserService
	AdmissionService      *appServices.AdmissionService
	FeeService            *appServices.FeeService
	CatalogService        *appServices.CatalogService
	AppointmentService    *appServices.AppointmentService
	AuditService          *appServices.AuditService
	SettingsService       *appServices.SettingsService
	DashboardService      *appServices.DashboardService
	AuthController        *appControllers.AuthController
	UserController        *appControllers.UserController
	EnquiryController     *appControllers.EnquiryController
	FeeController         *appControllers.FeeController
	CatalogController     *appControllers.CatalogController
	AppointmentController *appControllers.AppointmentController
	AdminController       *appControllers.AdminController
	StaffController       *appControllers.StaffController
	AuthMiddleware        *appMiddleware.AuthMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  config.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: config.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.AuditRepository,
		database,
		deps.JWTService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.AuditRepository,
		database,
		lgr,
	)
	deps.AdmissionService = appServices.NewAdmissionService(
		deps.Repos.EnquiryRepository,
		deps.Repos.StudentRepository,
		deps.Repos.FeeRepository,
		deps.Repos.AuditRepository,
		database,
		lgr,
	)
	deps.FeeService = appServices.NewFeeService(
		deps.Repos.FeeRepository,
		deps.Repos.StudentRepository,
		deps.Repos.UserRepository,
		deps.Repos.AuditRepository,
		database,
		lgr,
	)
	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.CourseRepository,
		deps.Repos.AuditRepository,
		database,
		lgr,
	)
	deps.AppointmentService = appServices.NewAppointmentService(
		deps.Repos.AppointmentRepository,
		deps.Repos.UserRepository,
		deps.Repos.AuditRepository,
		database,
		lgr,
	)
	deps.AuditService = appServices.NewAuditService(deps.Repos.AuditRepository, lgr)
	deps.SettingsService = appServices.NewSettingsService(
		deps.Repos.SettingsRepository,
		deps.Repos.AuditRepository,
		database,
		lgr,
	)
	deps.DashboardService = appServices.NewDashboardService(
		deps.Repos.StudentRepository,
		deps.Repos.EnquiryRepository,
		deps.Repos.UserRepository,
		deps.Repos.AppointmentRepository,
		deps.Repos.FeeRepository,
		deps.Repos.CourseRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.EnquiryController = appControllers.NewEnquiryController(deps.AdmissionService)
	deps.FeeController = appControllers.NewFeeController(deps.FeeService)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.AppointmentController = appControllers.NewAppointmentController(deps.AppointmentService)
	deps.AdminController = appControllers.NewAdminController(
		deps.DashboardService,
		deps.AuditService,
		deps.FeeService,
		deps.SettingsService,
	)
	deps.StaffController = appControllers.NewStaffController(deps.DashboardService)

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

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.EnquiryController,
		deps.FeeController,
		deps.CatalogController,
		deps.AppointmentController,
		deps.AdminController,
		deps.StaffController,
		deps.AuthMiddleware,
	)

	return router
}
