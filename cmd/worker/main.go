package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"course-media/internal/domain/repositories"
	"course-media/internal/infrastructure/db"
	"course-media/internal/infrastructure/processor"
	"course-media/internal/infrastructure/queue"
	infra_repo "course-media/internal/infrastructure/repositories"
	"course-media/internal/infrastructure/storage"
	"course-media/internal/pkg/config"
	"course-media/internal/usecases"
)

const workerCount = 2

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

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})

	store := buildStorage(cfg)

	transcodeLock := queue.NewRedisTranscodeLock(rdb)
	transcoder := processor.NewTranscoder(cfg.Media.FFmpegBin, transcodeLock, log.Logger)
	renditionRepo := infra_repo.NewRenditionRepository(database)

	prewarm := usecases.NewPrewarmService(renditionRepo, store, transcoder, log.Logger)
	pool := queue.NewWorkerPool(workerCount, prewarm, log.Logger)

	transcodeQueue := queue.NewRedisQueue(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})

	go func() {
		defer close(consumerDone)
		for {
			job, err := transcodeQueue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("dequeue failed")
				time.Sleep(time.Second)
				continue
			}
			if job == nil {
				continue
			}
			pool.AddJob(*job)
		}
	}()

	log.Info().Int("workers", workerCount).Msg("transcode worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	cancel()
	<-consumerDone
	pool.Shutdown()
	log.Info().Msg("worker stopped cleanly")
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
