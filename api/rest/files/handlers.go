package files

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/algorave/relay/internal/access"
	"codeberg.org/algorave/relay/internal/auth"
	"codeberg.org/algorave/relay/internal/errors"
)

const accessLookupTimeout = 5 * time.Second

// returns who is currently editing a file, its leader and version
func PresenceHandler(source PresenceSource, store access.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		fileID, ok := errors.ValidatePathFileID(c, "fileId")
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), accessLookupTimeout)
		defer cancel()

		grant, err := store.Lookup(ctx, fileID, userID)
		if stderrors.Is(err, access.ErrFileNotFound) {
			errors.FileNotFound(c)
			return
		}

		if err != nil {
			errors.InternalError(c, "failed to check file access", err)
			return
		}

		if !grant.CanView {
			errors.Forbidden(c, "no access to this file")
			return
		}

		presence, _ := source.Presence(fileID)
		c.JSON(http.StatusOK, presence)
	}
}
