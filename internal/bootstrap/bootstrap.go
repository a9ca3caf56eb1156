// Package bootstrap wires configuration, database, repositories, services
// and controllers together at startup.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/dmoran/orienta/docs" // Import generated swagger docs
	appAuth "github.com/dmoran/orienta/internal/app/auth"
	appControllers "github.com/dmoran/orienta/internal/app/controllers"
	appMigrations "github.com/dmoran/orienta/internal/app/migrations"
	appRepos "github.com/dmoran/orienta/internal/app/repositories"
	appRoutes "github.com/dmoran/orienta/internal/app/routes"
	appServices "github.com/dmoran/orienta/internal/app/services"
	"github.com/dmoran/orienta/internal/config"
	"github.com/dmoran/orienta/internal/db"
	appMiddleware "github.com/dmoran/orienta/internal/middleware"
	pkgAuth "github.com/dmoran/orienta/internal/pkg/auth"
	"github.com/dmoran/orienta/internal/pkg/helpers"
	"github.com/dmoran/orienta/internal/pkg/logger"
	"github.com/dmoran/orienta/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            appServices.AuthService
	GuardianLinkService    appServices.GuardianLinkService
	PlanService            appServices.PlanService
	EventService           appServices.EventService
	ResourceService        appServices.ResourceService
	CompanyService         appServices.CompanyService
	InvitationService      appServices.InvitationService
	AuthController         *appControllers.AuthController
	GuardianLinkController *appControllers.GuardianLinkController
	PlanController         *appControllers.PlanController
	EventController        *appControllers.EventController
	ResourceController     *appControllers.ResourceController
	CompanyController      *appControllers.CompanyController
	InvitationController   *appControllers.InvitationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	AccessService          *appAuth.AccessService
	Logger                 zerolog.Logger
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
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	deps.AccessService = appAuth.NewAccessService(deps.Repos.Student, deps.Repos.GuardianLink)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		database,
		deps.Repos.Profile,
		deps.Repos.Student,
		deps.Repos.Company,
		deps.Repos.Invitation,
		deps.JWTService,
		lgr,
	)

	deps.GuardianLinkService = appServices.NewGuardianLinkService(
		deps.Repos.GuardianLink,
		deps.Repos.Profile,
		deps.Repos.Student,
		deps.AccessService,
		lgr,
	)
	deps.PlanService = appServices.NewPlanService(
		deps.Repos.Plan,
		deps.Repos.Profile,
		deps.Repos.Student,
		deps.AccessService,
		lgr,
	)
	deps.EventService = appServices.NewEventService(
		deps.Repos.Event,
		deps.Repos.Profile,
		deps.Repos.Student,
		deps.Repos.Company,
		deps.AccessService,
		lgr,
	)
	deps.ResourceService = appServices.NewResourceService(
		deps.Repos.Resource,
		deps.Repos.Profile,
		deps.Repos.Company,
		deps.AccessService,
		lgr,
	)
	deps.CompanyService = appServices.NewCompanyService(
		deps.Repos.Company,
		deps.Repos.Profile,
		deps.AccessService,
		lgr,
	)
	deps.InvitationService = appServices.NewInvitationService(
		deps.Repos.Invitation,
		deps.Repos.Profile,
		deps.AccessService,
		cfg.Invitations.DefaultExpiryDays,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.GuardianLinkController = appControllers.NewGuardianLinkController(deps.GuardianLinkService)
	deps.PlanController = appControllers.NewPlanController(deps.PlanService)
	deps.EventController = appControllers.NewEventController(deps.EventService)
	deps.ResourceController = appControllers.NewResourceController(deps.ResourceService)
	deps.CompanyController = appControllers.NewCompanyController(deps.CompanyService)
	deps.InvitationController = appControllers.NewInvitationController(deps.InvitationService)

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

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.GuardianLinkController,
		deps.PlanController,
		deps.EventController,
		deps.ResourceController,
		deps.CompanyController,
		deps.InvitationController,
		deps.AuthMiddleware,
	)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
