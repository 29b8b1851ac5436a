package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	AWS struct {
		Region string
	}

	Store struct {
		Backend string // "dynamodb" or "redis"
		Table   string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Auth struct {
		TokenSecret string
		TokenTTL    time.Duration
	}

	S3 struct {
		Bucket string
	}

	Analysis struct {
		URL     string
		APIKey  string
		Timeout time.Duration
	}
}

func New() *Config {
	cfg := &Config{}

	cfg.Port = getEnvDefault("PORT", "8080")

	cfg.AWS.Region = getEnvDefault("AWS_REGION", "us-east-1")

	cfg.Store.Backend = getEnvDefault("STORE_BACKEND", "dynamodb")
	cfg.Store.Table = getEnvDefault("STORE_TABLE", "BondedStore")

	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	cfg.Auth.TokenSecret = getEnvDefault("TOKEN_SECRET", "bonded-dev-secret")
	cfg.Auth.TokenTTL = getDurationDefault("TOKEN_TTL", 24*time.Hour)

	cfg.S3.Bucket = os.Getenv("S3_BUCKET_NAME")

	cfg.Analysis.URL = os.Getenv("ANALYSIS_URL")
	cfg.Analysis.APIKey = os.Getenv("ANALYSIS_API_KEY")
	cfg.Analysis.Timeout = getDurationDefault("ANALYSIS_TIMEOUT", 8*time.Second)

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDurationDefault(k string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
