package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	SessionStoreSQL   = "sql"
	SessionStoreRedis = "redis"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	SessionStore string
	SessionTTL   time.Duration
	RedisURL     string
	AMQPURL      string
	AMQPQueue    string
	SeedFile     string
}

// ParseFlags reads flags, falls back to env variables, and applies defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("student-vote", flag.ContinueOnError)

	// Network and storage
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.SeedFile, "seed", "", "JSON file with organizations and credentials to load")

	// Sessions
	fs.StringVar(&cfg.SessionStore, "session-store", "", "Session store (sql or redis)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Admin session lifetime")
	fs.StringVar(&cfg.RedisURL, "redis", "", "Redis URL (redis://host:6379/0) or host:port for the redis session store")

	// Vote events
	fs.StringVar(&cfg.AMQPURL, "amqp", "", "RabbitMQ URL (events disabled when empty)")
	fs.StringVar(&cfg.AMQPQueue, "amqp-queue", "", "RabbitMQ queue for vote events")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	if cfg.SeedFile == "" {
		cfg.SeedFile = os.Getenv("SEED_FILE")
	}

	if cfg.SessionStore == "" {
		cfg.SessionStore = os.Getenv("SESSION_STORE")
		if cfg.SessionStore == "" {
			cfg.SessionStore = SessionStoreSQL
		}
	}
	if cfg.SessionStore != SessionStoreSQL && cfg.SessionStore != SessionStoreRedis {
		return Config{}, fmt.Errorf("invalid session store %q (use sql or redis)", cfg.SessionStore)
	}

	if cfg.SessionTTL == 0 {
		if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid SESSION_TTL env variable")
			}
			cfg.SessionTTL = ttl
		} else {
			cfg.SessionTTL = 12 * time.Hour
		}
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.SessionStore == SessionStoreRedis && cfg.RedisURL == "" {
		return Config{}, errors.New("REDIS_URL required for the redis session store")
	}

	if cfg.AMQPURL == "" {
		cfg.AMQPURL = os.Getenv("AMQP_URL")
	}
	if cfg.AMQPQueue == "" {
		cfg.AMQPQueue = os.Getenv("AMQP_QUEUE")
		if cfg.AMQPQueue == "" {
			cfg.AMQPQueue = "votes"
		}
	}

	return cfg, nil
}
