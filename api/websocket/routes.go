package websocket

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/algorave/relay/internal/access"
	ws "codeberg.org/algorave/relay/internal/websocket"
)

// mounts the upgrade endpoint; middleware runs before the handshake (rate limiting)
func RegisterRoutes(router *gin.RouterGroup, registry *ws.Registry, store access.Store, upgrader *websocket.Upgrader, middleware ...gin.HandlerFunc) {
	handlers := append(slices.Clone(middleware), WebSocketHandler(registry, store, upgrader))
	router.GET("/ws", handlers...)
}
