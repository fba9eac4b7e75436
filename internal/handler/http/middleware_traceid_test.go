package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"modelhub/internal/logger"
)

func TestWithTraceID_GeneratesAndEchoes(t *testing.T) {
	h := &Handler{logger: logger.Nop()}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(traceIDHeader, "trace-42")
	h.withTraceID(next).ServeHTTP(rec, req)
	assert.Equal(t, "trace-42", rec.Header().Get(traceIDHeader), "inbound trace IDs are reused")
}
