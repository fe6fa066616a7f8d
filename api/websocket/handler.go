package websocket

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/algorave/relay/internal/access"
	"codeberg.org/algorave/relay/internal/auth"
	"codeberg.org/algorave/relay/internal/errors"
	"codeberg.org/algorave/relay/internal/logger"
	"codeberg.org/algorave/relay/internal/metrics"
	ws "codeberg.org/algorave/relay/internal/websocket"
)

const accessLookupTimeout = 10 * time.Second

// builds the upgrader used for every relay connection
func NewUpgrader(checkOrigin func(r *http.Request) bool) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}
}

// authenticates the caller, checks file access, upgrades the connection
// and joins it to the file's session.
func WebSocketHandler(registry *ws.Registry, store access.Store, upgrader *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			reject("bad_request")
			errors.ValidationError(c, err)
			return
		}

		if !errors.IsValidFileID(params.FileID) {
			reject("bad_request")
			errors.BadRequest(c, "invalid file_id format", nil)
			return
		}

		token := params.Token
		if token == "" {
			token, _ = auth.BearerToken(c.GetHeader("Authorization"))
		}

		if token == "" {
			reject("unauthorized")
			errors.Unauthorized(c, "")
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			reject("unauthorized")
			errors.Unauthorized(c, "invalid or expired token")
			return
		}

		userID := claims.UserID

		// use timeout context so a slow store can't hold the handshake open
		ctx, cancel := context.WithTimeout(c.Request.Context(), accessLookupTimeout)
		defer cancel()

		grant, err := store.Lookup(ctx, params.FileID, userID)
		if stderrors.Is(err, access.ErrFileNotFound) {
			reject("not_found")
			errors.FileNotFound(c)
			return
		}

		if err != nil {
			reject("store_error")
			errors.InternalError(c, "failed to check file access", err)
			return
		}

		if !grant.CanView {
			reject("forbidden")
			errors.Forbidden(c, "no access to this file")
			return
		}

		clientID, err := ws.GenerateClientID()
		if err != nil {
			errors.InternalError(c, "failed to generate client ID", err)
			return
		}

		ipAddress := c.ClientIP()

		// upgrade writes its own error response on failure
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			reject("upgrade_failed")
			logger.ErrorErr(err, "failed to upgrade connection",
				"file_id", params.FileID,
				"ip", ipAddress,
			)

			return
		}

		client := ws.NewClient(clientID, params.FileID, userID, grant.CanEdit, ipAddress, conn, registry)
		registry.Join(params.FileID, userID, grant.CanEdit, client)

		go client.WritePump()
		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", clientID,
			"file_id", params.FileID,
			"user_id", userID,
			"can_edit", grant.CanEdit,
			"ip", ipAddress,
		)
	}
}

func reject(reason string) {
	metrics.HandshakesRejected.WithLabelValues(reason).Inc()
}
