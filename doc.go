// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the student vote API server.

Students pick one candidate pair per organization; admins watch the
percentages come in.

# Starting the Server

	DATABASE_URL=file:votes.db go run . -seed seed.json

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." -seed seed.json

Settings may also live in a .env file in the working directory.

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SEED_FILE (-seed): organizations, pairs, members, credentials
  - SESSION_STORE (-session-store): sql or redis
  - REDIS_URL (-redis), SESSION_TTL (-session-ttl)
  - AMQP_URL (-amqp), AMQP_QUEUE (-amqp-queue): vote events

# Architecture

  - handlers: HTTP request handlers (voting, results, auth)
  - voting: submission rules and tally
  - store: vote repository (SQL and in-memory)
  - auth: credentials and sessions
  - events: RabbitMQ vote events
  - hub: websocket fan-out for live results
  - router, middleware, models, db, cliparse

See package documentation for each component.
*/
package main
