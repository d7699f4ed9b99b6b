// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SeedFile: JSON seed data loaded at startup (optional)
  - SessionStore: sql or redis (default: sql)
  - SessionTTL: admin session lifetime (default: 12h)
  - RedisURL: redis:// URL or host:port (required for the redis session store)
  - AMQPURL: RabbitMQ URL; vote events are off when empty
  - AMQPQueue: queue for vote events (default: votes)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-seed            Seed file
	-session-store   Session store
	-session-ttl     Session lifetime, e.g. 30m
	-redis           Redis URL or address
	-amqp            RabbitMQ URL
	-amqp-queue      RabbitMQ queue

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	SEED_FILE     → -seed
	SESSION_STORE → -session-store
	SESSION_TTL   → -session-ttl
	REDIS_URL     → -redis
	AMQP_URL      → -amqp
	AMQP_QUEUE    → -amqp-queue

CLI flags take precedence over environment variables. main loads a .env
file into the environment before parsing.
*/
package cliparse
