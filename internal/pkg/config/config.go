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

	Mongo    MongoConfig
	Redis    RedisConfig
	Queues   QueueConfig
	Consumer ConsumerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_directory"`
}

// RedisConfig covers the broker streams and the idempotency keyspace, which
// share one logical database.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// QueueConfig names the logical queues for each command kind. All three must
// be present; routing is resolved once at startup and a missing entry is a
// boot failure, not a per-request error.
type QueueConfig struct {
	Create     string `env:"QUEUE_USER_CREATE, default=usuario.create"`
	Update     string `env:"QUEUE_USER_UPDATE, default=usuario.update"`
	Delete     string `env:"QUEUE_USER_DELETE, default=usuario.delete"`
	DeadLetter string `env:"QUEUE_DEAD_LETTER, default=usuario.dlq"`
}

type ConsumerConfig struct {
	Group        string        `env:"CONSUMER_GROUP,         default=usuario_workers"`
	Name         string        `env:"CONSUMER_NAME,          default=worker-1"`
	BlockTimeout time.Duration `env:"CONSUMER_BLOCK_TIMEOUT, default=5s"`
	ClaimIdle    time.Duration `env:"CONSUMER_CLAIM_IDLE,    default=30s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
