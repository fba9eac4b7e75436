package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"modelhub/internal/logger"
	"modelhub/internal/service"
	"modelhub/internal/utils"
)

// sessionCookieName is the cookie carrying the session JWT for browser
// clients. API clients may send the same token in the "Authorization"
// header instead.
const sessionCookieName = "session"

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the session token from the request (cookie or "Authorization"
// header), validates it via [service.AuthService.ValidateToken], and — on
// success — stores the authenticated user's ID in the request context under
// [utils.UserIDCtxKey] before delegating to the next handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized when no token
// is present, when the header cannot be parsed as a bearer token, when the
// token has expired ([service.ErrTokenIsExpired]), or when it is otherwise
// invalid.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := sessionTokenFromRequest(r)
		if err != nil {
			log.Warn().Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		userID, err := h.services.AuthService.ValidateToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpired):
				log.Warn().Err(err).Msg("token expired")
				http.Error(w, service.ErrTokenIsExpired.Error(), http.StatusUnauthorized)
				return
			default:
				log.Warn().Err(err).Msg("error occurred during parsing token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		// Store the authenticated user's ID in the context so that downstream
		// handlers can retrieve it without re-parsing the token.
		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identify is the optional counterpart of [Handler.auth] used on read
// routes: a valid session attaches the viewer's user ID to the context,
// while a missing or invalid token leaves the request anonymous instead of
// rejecting it.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := sessionTokenFromRequest(r)
		if err == nil {
			if userID, validateErr := h.services.AuthService.ValidateToken(tokenString); validateErr == nil {
				ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, userID)
				r = r.WithContext(ctx)
			} else {
				logger.FromRequest(r).Debug().Err(validateErr).Msg("ignoring invalid session token on read route")
			}
		}

		next.ServeHTTP(w, r)
	})
}

// sessionTokenFromRequest extracts the session token from the request,
// preferring the "Authorization" header over the session cookie.
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] — if the header contains fewer than
//     two space-separated parts (i.e. the token is missing entirely).
//   - [ErrEmptyToken] — if the second part exists but is an empty string.
//   - [ErrNoSessionToken] — if neither the header nor the cookie is present.
func sessionTokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) < 2 {
			return "", ErrInvalidAuthorizationHeader
		}
		if parts[1] == "" {
			return "", ErrEmptyToken
		}
		return parts[1], nil
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", ErrNoSessionToken
}
