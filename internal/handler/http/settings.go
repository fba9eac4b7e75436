package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"modelhub/internal/logger"
	"modelhub/internal/utils"
	"modelhub/models"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewerID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")

	setting, err := h.services.SettingService.Get(ctx, viewerID, modelID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, setting, http.StatusOK)
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actorID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")

	var update models.SettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if _, err := h.services.SettingService.Upsert(ctx, actorID, modelID, update); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}
