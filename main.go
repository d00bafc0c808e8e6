package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"

	"github.com/muhammadolammi/profiletracer/internal/ai"
	"github.com/muhammadolammi/profiletracer/internal/assistant"
	"github.com/muhammadolammi/profiletracer/internal/command"
	"github.com/muhammadolammi/profiletracer/internal/config"
	"github.com/muhammadolammi/profiletracer/internal/database"
	"github.com/muhammadolammi/profiletracer/internal/logger"
	"github.com/muhammadolammi/profiletracer/internal/profile"
	"github.com/muhammadolammi/profiletracer/internal/textextract"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.G(ctx)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.WithError(err).Warn("unknown LOG_LEVEL, keeping default")
	}

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		log.WithError(err).Fatal("error opening db")
	}
	defer db.Close()
	store := database.NewStore(db)

	source, err := newFileSource(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("error creating file source")
	}
	extractor := textextract.New(source, textextract.Tesseract{
		Binary:   cfg.TesseractPath,
		Language: cfg.OCRLanguage,
	})

	backend, err := ai.NewBackend(ctx, cfg.APIKey())
	if err != nil {
		log.WithError(err).Fatal("error creating model backend")
	}
	if backend == nil {
		log.Warn("no GEMINI_API_KEY or GOOGLE_API_KEY set, every answer will be an offline default")
	}
	resolver := ai.NewResolver(backend, cfg.GeminiModel)
	client := ai.NewClient(resolver, backend, ai.RetryConfig{
		Attempts: cfg.ModelRetryAttempts,
		Delay:    cfg.ModelRetryDelay,
	})

	workerConfig := WorkerConfig{
		DB:                store,
		Models:            client,
		ModelCheckTimeout: cfg.ModelCheckTimeout,
		RABBITMQUrl:       cfg.RabbitMQURL,
	}

	var replier assistant.Replier
	if backend != nil {
		mascot := NewMascot(cfg.APIKey(), resolver)
		replier = mascot
		workerConfig.Mascot = mascot
	}
	helper := assistant.New(client, replier)
	workerConfig.Advisor = helper
	workerConfig.Profiles = profile.NewService(store, extractor, helper)
	workerConfig.Dispatcher = command.NewDispatcher(store, helper)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.WithError(err).Fatal("error connecting to RabbitMQ")
	}
	defer conn.Close()
	workerConfig.RabbitConn = conn

	log.WithField("workers", cfg.WorkerCount).Info("starting consumer pool")
	workerConfig.StartConsumerWorkerPool(ctx, cfg.WorkerCount)
	log.Info("consumer pool stopped")
}

func newFileSource(ctx context.Context, cfg config.Config) (textextract.Source, error) {
	if !cfg.UseR2() {
		return textextract.LocalSource{Root: cfg.UploadDir}, nil
	}

	r2Config := textextract.R2Config{
		AccountID: cfg.R2AccountID,
		AccessKey: cfg.R2AccessKey,
		SecretKey: cfg.R2SecretKey,
		Bucket:    cfg.R2Bucket,
	}
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2Config.AccessKey, r2Config.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "error creating aws config")
	}
	return textextract.NewR2Source(awsConfig, r2Config), nil
}
