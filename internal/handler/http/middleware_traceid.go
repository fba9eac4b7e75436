package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"modelhub/internal/utils"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID tags the request with a trace identifier and binds it to the
// request-scoped logger, so every log line of one request shares the same
// trace_id. Inbound X-Trace-ID values are reused; otherwise a fresh
// time-ordered ID is generated. The ID is echoed back in the response header
// either way.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = utils.NewID()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID).Str("remote_addr", r.RemoteAddr)
		})

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}
