package websocket

import (
	"context"

	"codeberg.org/algorave/relay/internal/logger"
)

// records content operations in the debug log of the context logger, which
// carries the file id and version. Nothing is stored.
type LogHook struct{}

func (LogHook) OnContent(ctx context.Context, op Operation) error {
	logger.FromContext(ctx).Debug("content operation",
		"user_id", op.UserID,
		"bytes", len(op.Frame),
	)

	return nil
}

