package graceful

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// ListenAndServe runs srv until ctx is cancelled, then shuts it down within timeout.
func ListenAndServe(ctx context.Context, log *slog.Logger, srv *http.Server, timeout time.Duration) error {
	if log == nil {
		log = slog.Default()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("shutting down http server", slog.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
