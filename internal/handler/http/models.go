package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"modelhub/internal/logger"
	"modelhub/internal/service"
	"modelhub/internal/utils"
	"modelhub/models"
)

// maxMultipartMemory caps how much of a multipart upload is buffered in
// memory before spilling to a temp file. The asset itself is streamed.
const maxMultipartMemory = 10 << 20

func (h *Handler) listModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewerID, _ := utils.GetUserIDFromContext(ctx)

	list, err := h.services.ModelService.ListVisible(ctx, viewerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, _ := utils.GetUserIDFromContext(ctx)

	list, err := h.services.ModelService.ListOwned(ctx, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) getModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	viewerID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")

	detail, err := h.services.ModelService.GetDetail(ctx, viewerID, modelID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, detail, http.StatusOK)
}

func (h *Handler) createModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _ := utils.GetUserIDFromContext(ctx)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn().Err(err).Msg("invalid multipart form")
		writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	upload := service.ModelUpload{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		IsPublic:    isCheckboxOn(r.FormValue("is_public")),
		ExternalURL: r.FormValue("external_url"),
	}

	file, header, err := r.FormFile("model_file")
	switch {
	case err == nil:
		defer file.Close()
		upload.File = file
		upload.Filename = header.Filename
		upload.Size = header.Size
	case errors.Is(err, http.ErrMissingFile):
		// external_url uploads carry no file part
	default:
		log.Warn().Err(err).Msg("reading uploaded file failed")
		writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	model, err := h.services.ModelService.Create(ctx, userID, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("model_id", model.ModelID).Msg("model created")
	utils.WriteJSON(w, models.SuccessResponse{Success: true, ID: model.ModelID}, http.StatusOK)
}

func (h *Handler) updateModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actorID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")

	var update models.ModelUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	model, err := h.services.ModelService.Update(ctx, actorID, modelID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, model, http.StatusOK)
}

func (h *Handler) deleteModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actorID, _ := utils.GetUserIDFromContext(ctx)
	modelID := chi.URLParam(r, "modelID")

	if err := h.services.ModelService.Delete(ctx, actorID, modelID); err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("model_id", modelID).Msg("model deleted")
	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

func (h *Handler) embedModel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	modelID := chi.URLParam(r, "modelID")

	snippet, err := h.services.ModelService.Embed(ctx, modelID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.EmbedResponse{Success: true, EmbedCode: snippet}, http.StatusOK)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// isCheckboxOn interprets the HTML-form spellings of a checked checkbox.
func isCheckboxOn(value string) bool {
	return value == "on" || value == "true" || value == "1"
}
