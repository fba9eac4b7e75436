package service

import (
	"context"
	"time"

	"modelhub/internal/logger"
	"modelhub/internal/store"
	"modelhub/internal/utils"
	"modelhub/models"
)

// hotspotService is the concrete implementation of [HotspotService].
type hotspotService struct {
	store  store.Store
	guard  *guard
	logger *logger.Logger
}

// NewHotspotService constructs a [HotspotService] over the given store.
func NewHotspotService(s store.Store, log *logger.Logger) HotspotService {
	return &hotspotService{
		store:  s,
		guard:  newGuard(s, log),
		logger: log,
	}
}

// List returns the model's hotspots in insertion order, enforcing
// visibility.
func (h *hotspotService) List(ctx context.Context, viewerID, modelID string) ([]models.Hotspot, error) {
	if _, err := h.guard.visible(ctx, viewerID, modelID); err != nil {
		return nil, err
	}
	return h.store.Hotspots().ListHotspotsByModelID(ctx, modelID)
}

// Add creates a hotspot after the ownership check. Name and position are
// required; everything else is optional annotation detail.
func (h *hotspotService) Add(ctx context.Context, actorID, modelID string, req models.HotspotRequest) (models.Hotspot, error) {
	log := logger.FromContext(ctx)

	if req.Name == "" || req.Position == "" {
		return models.Hotspot{}, ErrInvalidDataProvided
	}

	if _, err := h.guard.authorize(ctx, actorID, modelID); err != nil {
		return models.Hotspot{}, err
	}

	hotspot := models.Hotspot{
		HotspotID: utils.NewID(),
		ModelID:   modelID,
		Name:      req.Name,
		Position:  req.Position,
		Normal:    req.Normal,
		Surface:   req.Surface,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}

	created, err := h.store.Hotspots().CreateHotspot(ctx, hotspot)
	if err != nil {
		log.Err(err).Str("model_id", modelID).Msg("hotspot creation ended with error")
		return models.Hotspot{}, err
	}

	return created, nil
}

// Update applies a partial update to one hotspot after the ownership check.
// A hotspot ID that exists under a different model yields
// [store.ErrHotspotNotFound].
func (h *hotspotService) Update(ctx context.Context, actorID, modelID, hotspotID string, update models.HotspotUpdate) error {
	if update.Empty() {
		return ErrInvalidDataProvided
	}
	if update.Name != nil && *update.Name == "" {
		return ErrInvalidDataProvided
	}
	if update.Position != nil && *update.Position == "" {
		return ErrInvalidDataProvided
	}

	if _, err := h.guard.authorize(ctx, actorID, modelID); err != nil {
		return err
	}

	return h.store.Hotspots().UpdateHotspot(ctx, modelID, hotspotID, update)
}

// Delete removes one hotspot after the ownership check.
func (h *hotspotService) Delete(ctx context.Context, actorID, modelID, hotspotID string) error {
	if _, err := h.guard.authorize(ctx, actorID, modelID); err != nil {
		return err
	}

	return h.store.Hotspots().DeleteHotspot(ctx, modelID, hotspotID)
}
