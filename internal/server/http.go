package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"modelhub/internal/config"
	"modelhub/internal/logger"
)

// shutdownDrainPeriod bounds how long in-flight requests may keep running
// after a stop signal before the listener is torn down.
const shutdownDrainPeriod = 10 * time.Second

type httpServer struct {
	server *http.Server
	logger *logger.Logger
}

func newHTTPServer(router http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.RequestTimeout,
			IdleTimeout:       time.Minute,
		},
		logger: logger,
	}
}

func (h *httpServer) RunServer() {
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Err(err).Msg("HTTP server ListenAndServe")
	}
}

func (h *httpServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownDrainPeriod)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Err(err).Msg("HTTP server Shutdown")
	}
}
