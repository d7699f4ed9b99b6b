package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/student-vote/auth"
	"github.com/danielhkuo/student-vote/cliparse"
	"github.com/danielhkuo/student-vote/db"
	"github.com/danielhkuo/student-vote/events"
	"github.com/danielhkuo/student-vote/hub"
	"github.com/danielhkuo/student-vote/middleware"
	"github.com/danielhkuo/student-vote/router"
	"github.com/danielhkuo/student-vote/store"
	"github.com/danielhkuo/student-vote/voting"
)

func main() {
	var err error

	// A missing .env file is fine; real env vars still apply
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		slog.Error("invalid database type", "error", err)
		os.Exit(1)
	}

	// Connect and verify
	dbConn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, dialect); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "dialect", dialect)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load reference data
	if cfg.SeedFile != "" {
		data, err := db.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			slog.Error("seed file invalid", "error", err)
			os.Exit(1)
		}
		if err := db.Seed(ctx, dbConn, data); err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Seed data loaded", "organizations", len(data.Organizations))
	}

	// Sessions
	var sessions auth.SessionStore = auth.NewSQLSessions(dbConn, cfg.SessionTTL)
	if cfg.SessionStore == cliparse.SessionStoreRedis {
		rdb, err := auth.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		sessions = auth.NewRedisSessions(rdb, cfg.SessionTTL)
		slog.Info("Using redis session store")
	}

	// Vote events
	var notifiers []voting.Notifier
	if cfg.AMQPURL != "" {
		conn, err := events.Dial(cfg.AMQPURL, 5*time.Second)
		if err != nil {
			slog.Error("message broker connection failed", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		publisher, err := events.NewAMQPPublisher(conn, cfg.AMQPQueue)
		if err != nil {
			slog.Error("message broker setup failed", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
		slog.Info("Publishing vote events", "queue", cfg.AMQPQueue)
	}

	// Live results
	liveHub := hub.New()
	go liveHub.Run(ctx)

	// Create router
	mux := router.NewRouter(router.Deps{
		Repo:        store.NewSQLRepository(dbConn, dialect),
		Credentials: auth.NewSQLCredentials(dbConn),
		Sessions:    sessions,
		Hub:         liveHub,
		Notifiers:   notifiers,
	})

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
