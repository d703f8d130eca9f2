package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/mymedialist/medialist-server/internal/api"
	"github.com/mymedialist/medialist-server/internal/config"
	"github.com/mymedialist/medialist-server/internal/logger"
	"github.com/mymedialist/medialist-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	apiServer *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.apiServer.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	listService := do.MustInvoke[*service.ListService](i)
	statsService := do.MustInvoke[*service.StatsService](i)
	profileService := do.MustInvoke[*service.ProfileService](i)

	services := &api.Services{
		Auth:    authService,
		Session: sessionService,
		List:    listService,
		Stats:   statsService,
		Profile: profileService,
	}

	opts := api.Options{
		AuthRatePerMinute: cfg.Auth.RateLimitPerMinute,
		AuthRateBurst:     cfg.Auth.RateLimitBurst,
	}

	handler := api.NewServer(storeHandle.Store, services, opts, log.Logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv, apiServer: handler}, nil
}
