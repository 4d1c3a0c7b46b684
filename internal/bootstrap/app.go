package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle and the background sweep
// that deactivates groups whose outing window has passed.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	groups group.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, groups group.Service) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, groups: groups}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.sweepExpiredGroups(sweepCtx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) sweepExpiredGroups(ctx context.Context) {
	interval := a.cfg.Planner.SweepInterval
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := a.groups.DeactivateExpired(ctx)
			if err != nil {
				a.logger.Error("expired group sweep failed", "error", err)
				continue
			}
			if count > 0 {
				a.logger.Info("expired groups deactivated", "count", count)
			}
		}
	}
}
