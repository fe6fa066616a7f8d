package files

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/algorave/relay/internal/access"
	"codeberg.org/algorave/relay/internal/auth"
)

func RegisterRoutes(router *gin.RouterGroup, source PresenceSource, store access.Store) {
	// live presence for one file (authenticated, view access required)
	router.GET("/files/:fileId/presence", auth.AuthMiddleware(), PresenceHandler(source, store))
}
