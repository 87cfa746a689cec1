package graceful

import (
	"context"
	"os"
	"os/signal"
	"place-map-service/internal/platform/logging"
	"syscall"
)

// Context returns a context canceled on SIGINT or SIGTERM.
func Context(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger := logging.GetFromContext(ctx)
			logger.Info().Msg("received termination signal, starting graceful shutdown")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
