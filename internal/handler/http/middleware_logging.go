package http

import (
	"net/http"
	"time"

	"modelhub/internal/logger"
)

// withLogging writes one access log line per request. Server errors are
// logged at error level so they stand out from routine viewer traffic.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(lw, r)

		log := logger.FromRequest(r)
		evt := log.Info()
		if lw.status >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", lw.status).
			Int("size", lw.size).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
