package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/phishsim/internal/api"
	"github.com/ignite/phishsim/internal/auth"
	"github.com/ignite/phishsim/internal/config"
	"github.com/ignite/phishsim/internal/pkg/logger"
	"github.com/ignite/phishsim/internal/repository"
	"github.com/ignite/phishsim/internal/repository/memory"
	"github.com/ignite/phishsim/internal/repository/sqlstore"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	sessions, redisClient, err := openSessions(ctx, cfg.Session)
	if err != nil {
		logger.Error("failed to initialize session store", "store", cfg.Session.Store, "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	authManager := auth.NewAuthManager(store, sessions, cfg.Session)
	handlers := api.NewHandlers(store, cfg.Import.MaxUploadBytes)
	health := api.NewHealthChecker(store, redisClient)
	server := api.NewServer(cfg.Server, api.SetupRoutes(handlers, authManager, health, cfg.CORS.AllowedOrigins))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr(), "storage", cfg.Storage.Type, "sessions", cfg.Session.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

// openStore builds the configured entity store. Relational stores are
// migrated before use.
func openStore(ctx context.Context, cfg config.StorageConfig) (repository.Store, func(), error) {
	switch cfg.Type {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.New(), func() {}, nil
	case sqlstore.DriverPostgres, sqlstore.DriverSQLite:
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("storage.dsn is required for %s", cfg.Type)
		}
		db, err := sqlstore.Open(ctx, cfg.Type, cfg.DSN, cfg.MaxOpenConns)
		if err != nil {
			return nil, nil, err
		}
		n, err := sqlstore.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("schema ready", "driver", cfg.Type, "files", n)
		return sqlstore.New(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// openSessions builds the configured session store. The memory store's
// expiry sweep stops when ctx is cancelled.
func openSessions(ctx context.Context, cfg config.SessionConfig) (auth.SessionStore, *redis.Client, error) {
	switch cfg.Store {
	case "memory":
		s := auth.NewMemoryStore()
		s.CleanupExpiredSessions(ctx, 5*time.Minute)
		return s, nil, nil
	case "redis":
		if cfg.RedisURL == "" {
			return nil, nil, errors.New("session.redis_url is required for the redis store")
		}
		client, err := auth.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return auth.NewRedisStore(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
