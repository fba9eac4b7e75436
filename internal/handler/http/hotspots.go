package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"modelhub/internal/logger"
	"modelhub/internal/utils"
	"modelhub/models"
)

func (h *Handler) listHotspots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewerID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")

	hotspots, err := h.services.HotspotService.List(ctx, viewerID, modelID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, hotspots, http.StatusOK)
}

func (h *Handler) addHotspot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actorID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")

	var req models.HotspotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	hotspot, err := h.services.HotspotService.Add(ctx, actorID, modelID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{Success: true, ID: hotspot.HotspotID}, http.StatusOK)
}

func (h *Handler) updateHotspot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actorID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")
	hotspotID := chi.URLParam(r, "hotspotID")

	var update models.HotspotUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.HotspotService.Update(ctx, actorID, modelID, hotspotID, update); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

func (h *Handler) deleteHotspot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actorID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")
	hotspotID := chi.URLParam(r, "hotspotID")

	if err := h.services.HotspotService.Delete(ctx, actorID, modelID, hotspotID); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}
