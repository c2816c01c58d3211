package main

import (
	"context"
	"database/sql"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/hireloop/screeningworker/internal/database"
	"github.com/hireloop/screeningworker/internal/logger"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("error loading config: ", err)
	}

	zl, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		log.Fatal("error building logger: ", err)
	}
	defer zl.Sync()

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		zl.Fatal("error opening db", zap.Error(err))
	}
	queries := database.New(db)

	ctx := context.Background()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithRegion(cfg.S3Region),
	)
	if err != nil {
		zl.Fatal("error creating aws config", zap.Error(err))
	}
	store := NewS3Store(awsCfg, cfg.S3Bucket, cfg.S3Endpoint)

	extractor, err := NewAgentExtractor(cfg.GoogleAPIKey)
	if err != nil {
		zl.Fatal("error creating extraction agent", zap.Error(err))
	}

	embedder, err := NewGeminiEmbedder(ctx, cfg.GoogleAPIKey, cfg.EmbeddingModel)
	if err != nil {
		zl.Fatal("error creating embedder", zap.Error(err))
	}

	conn, err := amqp.Dial(cfg.AMQPUrl)
	if err != nil {
		zl.Fatal("error connecting to rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	queue, err := NewAMQPQueue(conn, pipelineQueue)
	if err != nil {
		zl.Fatal("error setting up task queue", zap.Error(err))
	}

	notifier, err := NewNotifier(conn, zl)
	if err != nil {
		zl.Fatal("error setting up notification channel", zap.Error(err))
	}

	pipeline := NewPipeline(store, extractor, embedder, queries, queue, notifier, zl, cfg.FileConcurrency)

	workerConfig := WorkerConfig{
		AMQPUrl:   cfg.AMQPUrl,
		QueueName: pipelineQueue,
		Pipeline:  pipeline,
		Log:       zl,
	}

	zl.Info("starting consumer worker pool", zap.Int("workers", cfg.Workers))
	workerConfig.StartConsumerWorkerPool(cfg.Workers)
}
