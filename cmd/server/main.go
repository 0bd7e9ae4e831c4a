package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"course-media/internal/delivery/http/handlers"
	"course-media/internal/delivery/http/routers"
	"course-media/internal/domain/repositories"
	"course-media/internal/infrastructure/db"
	"course-media/internal/infrastructure/processor"
	"course-media/internal/infrastructure/queue"
	infra_repo "course-media/internal/infrastructure/repositories"
	"course-media/internal/infrastructure/storage"
	"course-media/internal/pkg/config"
	"course-media/internal/usecases"
	"course-media/pkg/constants"

	_ "course-media/docs"
	_ "course-media/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment")
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.LoadConfig()
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("cannot create media directories")
	}

	database, err := db.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	if os.Getenv("RUN_AUTO_MIGRATION") == "true" {
		sqlDB, err := database.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("cannot access sql.DB")
		}
		goose.SetBaseFS(nil)
		if err := goose.SetDialect("postgres"); err != nil {
			log.Fatal().Err(err).Msg("invalid migration dialect")
		}
		if err := goose.Up(sqlDB, "migrations"); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	} else if os.Getenv("DEV_AUTO_MIGRATE") == "true" {
		// Schema sync straight from the entities, for local development only.
		if err := db.AutoMigrate(database); err != nil {
			log.Fatal().Err(err).Msg("auto migration failed")
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})

	store := buildStorage(cfg)

	appLogger := log.Logger

	prober := processor.NewFFProbe(cfg.Media.FFprobeBin, appLogger)
	thumbnailer := processor.NewFFmpegThumbnailer(cfg.Media.FFmpegBin, appLogger)
	transcodeLock := queue.NewRedisTranscodeLock(rdb)
	transcoder := processor.NewTranscoder(cfg.Media.FFmpegBin, transcodeLock, appLogger)

	courseRepo := infra_repo.NewCourseRepository(database)
	orderRepo := infra_repo.NewOrderRepository(database)
	renditionRepo := infra_repo.NewRenditionRepository(database)

	transcodeQueue := queue.NewRedisQueue(rdb)

	accessService := usecases.NewAccessService(courseRepo, orderRepo)
	courseService := usecases.NewCourseService(
		courseRepo, renditionRepo, store, prober, thumbnailer, transcodeQueue,
		cfg.Upload, cfg.Media, appLogger)
	streamService := usecases.NewStreamService(courseRepo, renditionRepo, store, transcoder, appLogger)
	orderService := usecases.NewOrderService(orderRepo, courseRepo)
	cleanupService := usecases.NewCleanupService(courseRepo, cfg.Upload.TempDir, cfg.Upload.RenditionsDir, appLogger)

	app := fiber.New(fiber.Config{
		// Multipart overhead on top of the video ceiling.
		BodyLimit: int(cfg.Upload.MaxVideoSizeBytes) + 10*1024*1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	routers.SetupRoutes(app,
		cfg.Auth.JWTSecret,
		handlers.NewCourseHandler(courseService),
		handlers.NewVideoHandler(accessService, streamService),
		handlers.NewOrderHandler(orderService),
	)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": constants.StatusOK})
	})

	c := cron.New(cron.WithSeconds())
	_, _ = c.AddFunc("0 */10 * * * *", func() {
		if err := cleanupService.CleanupOldTempFiles(24 * time.Hour); err != nil {
			log.Error().Err(err).Msg("temp file cleanup failed")
		}
		if err := cleanupService.CleanupOrphanRenditions(context.Background()); err != nil {
			log.Error().Err(err).Msg("orphan rendition cleanup failed")
		}
	})
	c.Start()

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	c.Stop()

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctxShut); err != nil {
		log.Fatal().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped cleanly")
}

func buildStorage(cfg *config.Config) repositories.StorageStrategy {
	if cfg.Storage.Driver == "s3" {
		s3store, err := storage.NewS3Storage(cfg.Storage.S3Bucket, cfg.Storage.S3Region)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot initialize S3 storage")
		}
		return s3store
	}
	root := os.Getenv("MEDIA_ROOT")
	if root == "" {
		root = "data"
	}
	return storage.NewLocalStorage(root)
}
