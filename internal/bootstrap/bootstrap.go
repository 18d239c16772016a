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

	appAuth "github.com/yigit/classqa/internal/app/auth"
	appControllers "github.com/yigit/classqa/internal/app/controllers"
	appMigrations "github.com/yigit/classqa/internal/app/migrations"
	appRepos "github.com/yigit/classqa/internal/app/repositories"
	appRoutes "github.com/yigit/classqa/internal/app/routes"
	appServices "github.com/yigit/classqa/internal/app/services"
	"github.com/yigit/classqa/internal/config"
	"github.com/yigit/classqa/internal/db"
	appMiddleware "github.com/yigit/classqa/internal/middleware"
	pkgAuth "github.com/yigit/classqa/internal/pkg/auth"
	"github.com/yigit/classqa/internal/pkg/filestorage"
	"github.com/yigit/classqa/internal/pkg/helpers"
	"github.com/yigit/classqa/internal/pkg/logger"
	"github.com/yigit/classqa/internal/pkg/metrics"
	"github.com/yigit/classqa/internal/pkg/validation"
	"github.com/yigit/classqa/internal/pkg/websocket"
	"github.com/yigit/classqa/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService     appServices.AuthService
	LectureService  appServices.LectureService
	TagService      appServices.TagService
	QuestionService appServices.QuestionService
	AnswerService   appServices.AnswerService
	UploadService   appServices.UploadService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware

	Repos       *appRepos.Repositories
	JWTService  *pkgAuth.JWTService
	Visibility  *appAuth.Visibility
	FileStorage *filestorage.LocalStorage
	Hub         *websocket.Hub
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	if configPath == "" {
		configPath = filepath.Join("configs", "config.yaml")
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsPath
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SeedDemoData creates the demo teacher and lecture when seeding is enabled.
// Failures are logged and startup continues.
func SeedDemoData(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}
	err := seed.CreateDefaultData(ctx, repos.UserRepository, repos.LectureRepository, seed.Options{
		TeacherEmail:    cfg.Seed.TeacherEmail,
		TeacherPassword: cfg.Seed.TeacherPassword,
		TeacherName:     cfg.Seed.TeacherName,
		LectureName:     cfg.Seed.LectureName,
	}, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbtx appRepos.DBTX, lgr zerolog.Logger) (*Dependencies, error) {
	validation.RegisterCustomValidations()

	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(dbtx)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.Server.UploadsURLPrefix)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Metrics = metrics.NewMetrics()
	deps.Hub = websocket.NewHub(logger.WithComponent("events"), deps.Metrics)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Visibility = appAuth.NewVisibility(cfg.Display.AnonymousLabel)

	repos := deps.Repos
	deps.AuthService = appServices.NewAuthService(repos.UserRepository, deps.JWTService, lgr)
	deps.LectureService = appServices.NewLectureService(repos.LectureRepository, deps.FileStorage, deps.Hub, lgr)
	deps.TagService = appServices.NewTagService(repos.TagRepository, lgr)
	deps.QuestionService = appServices.NewQuestionService(
		repos.QuestionRepository,
		repos.LectureRepository,
		repos.TagRepository,
		repos.UserRepository,
		deps.FileStorage,
		deps.Visibility,
		deps.Hub,
		lgr,
	)
	deps.AnswerService = appServices.NewAnswerService(
		repos.AnswerRepository,
		repos.QuestionRepository,
		deps.FileStorage,
		deps.Visibility,
		deps.Hub,
		lgr,
	)
	deps.UploadService = appServices.NewUploadService(deps.FileStorage, appServices.UploadConfig{
		MaxSizeBytes: cfg.Uploads.MaxSizeBytes,
		AllowedTypes: cfg.Uploads.AllowedTypes,
	}, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, lgr)

	deps.Controllers = appRoutes.Controllers{
		Auth:     appControllers.NewAuthController(deps.AuthService, lgr),
		Lecture:  appControllers.NewLectureController(deps.LectureService, lgr),
		Tag:      appControllers.NewTagController(deps.TagService, lgr),
		Question: appControllers.NewQuestionController(deps.QuestionService, deps.AnswerService, lgr),
		Upload:   appControllers.NewUploadController(deps.UploadService, cfg.Uploads.MaxSizeBytes, lgr),
		Events:   websocket.NewHandler(deps.Hub, repos.LectureRepository, cfg.Server.CORSOrigins, logger.WithComponent("events")),
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
		appMiddleware.Recovery(lgr),
		appMiddleware.RequestLogger(logger.WithComponent("http")),
		appMiddleware.CORS(cfg.Server.CORSOrigins),
		deps.Metrics.Middleware(),
	)

	appRoutes.SetupSwagger(router)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
