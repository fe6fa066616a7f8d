package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	wsapi "codeberg.org/algorave/relay/api/websocket"
	"codeberg.org/algorave/relay/internal/access"
	"codeberg.org/algorave/relay/internal/config"
	"codeberg.org/algorave/relay/internal/logger"
	"codeberg.org/algorave/relay/internal/ratelimit"
	ws "codeberg.org/algorave/relay/internal/websocket"
)

const connectTimeout = 5 * time.Second

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := newDatabasePool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var accessStore access.Store = access.OpenStore{}
	if db != nil {
		accessStore = access.NewPostgresStore(db)
	} else {
		logger.Warn("DATABASE_URL not set, every authenticated user may edit every file")
	}

	redisClient, err := newRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	handshake, err := ratelimit.NewHandshakeLimiter(cfg.HandshakeRateLimit, redisClient)
	if err != nil {
		closeDB(db)
		closeRedis(redisClient)
		return nil, err
	}

	registry := ws.NewRegistry(ws.WithOperationHook(ws.LogHook{}))

	server := &Server{
		db:          db,
		redis:       redisClient,
		config:      cfg,
		accessStore: accessStore,
		registry:    registry,
		upgrader:    wsapi.NewUpgrader(ws.NewOriginChecker(cfg.Environment, cfg.AllowedOrigins)),
		handshake:   handshake,
		router:      gin.Default(),
	}

	RegisterRoutes(server.router, server)

	return server, nil
}

// releases database and redis connections
func (s *Server) Close() {
	closeRedis(s.redis)
	closeDB(s.db)
}

func newDatabasePool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, nil
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// access checks are single-row reads on the handshake path; keep the pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// poolers in transaction mode (PgBouncer) don't support prepared statements
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to database")

	return db, nil
}

func newRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on init failure
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("connected to redis")

	return client, nil
}

func closeDB(db *pgxpool.Pool) {
	if db != nil {
		db.Close()
	}
}

func closeRedis(client *redis.Client) {
	if client != nil {
		client.Close() //nolint:errcheck,gosec // best-effort cleanup on shutdown
	}
}
