package main

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/algorave/relay/api/rest/files"
	"codeberg.org/algorave/relay/api/rest/health"
	"codeberg.org/algorave/relay/api/websocket"
	"codeberg.org/algorave/relay/internal/errors"
	"codeberg.org/algorave/relay/internal/metrics"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware(server.config))
	router.GET("/health", health.Handler(server.registry))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.NoRoute(func(c *gin.Context) {
		errors.NotFound(c, "route")
	})

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		files.RegisterRoutes(v1, server.registry, server.accessStore)
		websocket.RegisterRoutes(v1, server.registry, server.accessStore, server.upgrader, server.handshake)
	}
}
