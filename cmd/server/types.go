package main

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"codeberg.org/algorave/relay/internal/access"
	"codeberg.org/algorave/relay/internal/config"
	ws "codeberg.org/algorave/relay/internal/websocket"
)

// holds all dependencies and state for the relay server
type Server struct {
	db          *pgxpool.Pool // nil when DATABASE_URL is unset
	redis       *redis.Client // nil when REDIS_URL is unset
	config      *config.Config
	accessStore access.Store
	registry    *ws.Registry
	upgrader    *websocket.Upgrader
	handshake   gin.HandlerFunc
	router      *gin.Engine
}
