package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"modelhub/internal/logger"
	"modelhub/internal/service"
	"modelhub/internal/store"
	"modelhub/internal/utils"
	"modelhub/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, token, err := h.services.AuthService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Warn().Err(err).Msg("invalid data provided")
			writeError(w, r, err)
			return
		case errors.Is(err, store.ErrUsernameTaken) || errors.Is(err, store.ErrEmailTaken):
			log.Warn().Err(err).Msg("account already exists")
			writeError(w, r, err)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user registration")
			writeError(w, r, err)
			return
		}
	}

	h.writeSession(w, user, token)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, token, err := h.services.AuthService.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Warn().Err(err).Msg("invalid data provided")
			writeError(w, r, err)
			return
		case errors.Is(err, store.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword):
			// An unknown username and a wrong password produce the same
			// response, so login cannot be used to probe for accounts.
			log.Warn().Err(err).Msg("no user was found/wrong password")
			utils.WriteJSON(w, models.ErrorResponse{Error: "invalid username or password"}, http.StatusUnauthorized)
			return
		default:
			log.Err(err).Msg("unexpected error occurred during user login")
			writeError(w, r, err)
			return
		}
	}

	h.writeSession(w, user, token)
}

// writeSession sets the session cookie and the "Authorization" header, then
// writes the authenticated user with the issued token.
func (h *Handler) writeSession(w http.ResponseWriter, user models.User, token models.Token) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    token.SignedString,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if token.ExpiresAt != nil {
		cookie.Expires = token.ExpiresAt.Time
	}
	http.SetCookie(w, cookie)

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))

	utils.WriteJSON(w, models.AuthResponse{
		Success: true,
		Token:   token.SignedString,
		User:    user,
	}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, _ := utils.GetUserIDFromContext(ctx)

	user, err := h.services.AuthService.GetProfile(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _ := utils.GetUserIDFromContext(ctx)

	var req models.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.UpdateProfile(ctx, userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _ := utils.GetUserIDFromContext(ctx)

	var req models.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ChangePassword(ctx, userID, req); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}
