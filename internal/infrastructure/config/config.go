package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Queue QueueConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=service_desk"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type QueueConfig struct {
	// PollInterval is the fixed delay between live queue poll cycles.
	PollInterval time.Duration `env:"QUEUE_POLL_INTERVAL, default=2s"`
	// SuppressionTTL bounds how long a locally completed ticket stays
	// hidden before a failed durable write lets it reappear.
	SuppressionTTL time.Duration `env:"QUEUE_SUPPRESSION_TTL, default=30s"`
	// WritebackWorkers is the number of asynchronous status writers.
	WritebackWorkers int `env:"QUEUE_WRITEBACK_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
