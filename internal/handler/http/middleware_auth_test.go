package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelhub/internal/service"
	"modelhub/internal/utils"
)

// echoUserID is a terminal handler that writes the context user ID (or
// "anonymous") so tests can observe what the middleware attached.
func echoUserID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		userID = "anonymous"
	}
	w.Write([]byte(userID))
}

func newAuthMiddlewareHandler(t *testing.T) *Handler {
	t.Helper()
	auth := &mockAuthService{
		validateTokenFn: func(token string) (string, error) {
			if token == "valid-token" {
				return "u-1", nil
			}
			return "", service.ErrTokenIsExpired
		},
	}
	return newHandlerWithAuth(t, auth)
}

func TestAuth_NoToken(t *testing.T) {
	h := newAuthMiddlewareHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()

	h.auth(http.HandlerFunc(echoUserID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_BearerToken(t *testing.T) {
	h := newAuthMiddlewareHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	h.auth(http.HandlerFunc(echoUserID)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", rec.Body.String())
}

func TestAuth_SessionCookie(t *testing.T) {
	h := newAuthMiddlewareHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()

	h.auth(http.HandlerFunc(echoUserID)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", rec.Body.String())
}

func TestAuth_MalformedHeader(t *testing.T) {
	h := newAuthMiddlewareHandler(t)

	for name, header := range map[string]string{
		"no token":    "Bearer",
		"empty token": "Bearer ",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()

			h.auth(http.HandlerFunc(echoUserID)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	h := newAuthMiddlewareHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()

	h.auth(http.HandlerFunc(echoUserID)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentify_AnonymousPassesThrough(t *testing.T) {
	h := newAuthMiddlewareHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()

	h.identify(http.HandlerFunc(echoUserID)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestIdentify_ValidSessionAttachesUser(t *testing.T) {
	h := newAuthMiddlewareHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "valid-token"})
	rec := httptest.NewRecorder()

	h.identify(http.HandlerFunc(echoUserID)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", rec.Body.String())
}

// A stale session on a read route downgrades to anonymous instead of 401.
func TestIdentify_InvalidSessionStaysAnonymous(t *testing.T) {
	h := newAuthMiddlewareHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale-token"})
	rec := httptest.NewRecorder()

	h.identify(http.HandlerFunc(echoUserID)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}
