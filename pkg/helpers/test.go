package helpers

import (
	"context"
	"io"
	"log/slog"

	"github.com/surenmigorskiy-ui/duo-backend/pkg/logger"
)

// TestCtx returns a context carrying a logger that discards output.
func TestCtx() context.Context {
	log := slog.New(logger.NewTestHandler(io.Discard, slog.LevelInfo))
	return logger.ToContext(context.Background(), log)
}
