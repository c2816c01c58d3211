package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBURL       string
	AMQPUrl     string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	GoogleAPIKey   string
	EmbeddingModel string

	Workers         int
	FileConcurrency int

	LogJSON  bool
	LogDebug bool
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "auto"),
		EmbeddingModel:  os.Getenv("EMBEDDING_MODEL"),
		Workers:         envIntOrDefault("WORKERS", 3),
		FileConcurrency: envIntOrDefault("FILE_CONCURRENCY", 4),
		LogJSON:         os.Getenv("LOG_JSON") == "true",
		LogDebug:        os.Getenv("LOG_DEBUG") == "true",
	}

	var err error
	if cfg.DBURL, err = requireEnv("DB_URL"); err != nil {
		return nil, err
	}
	if cfg.AMQPUrl, err = requireEnv("RABBITMQ_URL"); err != nil {
		return nil, err
	}
	if cfg.S3Bucket, err = requireEnv("S3_BUCKET"); err != nil {
		return nil, err
	}
	if cfg.S3AccessKey, err = requireEnv("S3_ACCESS_KEY"); err != nil {
		return nil, err
	}
	if cfg.S3SecretKey, err = requireEnv("S3_SECRET_KEY"); err != nil {
		return nil, err
	}
	if cfg.GoogleAPIKey, err = requireEnv("GOOGLE_API_KEY"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("empty %s in environment", key)
	}
	return v, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
