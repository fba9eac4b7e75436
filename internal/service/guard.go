package service

import (
	"context"

	"modelhub/internal/logger"
	"modelhub/internal/store"
	"modelhub/models"
)

// guard centralises the two access checks every model-scoped operation
// starts with. Ownership is immutable after creation, so a passed check
// cannot be invalidated by a concurrent ownership change; the only race left
// is a concurrent delete, which downstream calls surface as not-found.
type guard struct {
	store  store.Store
	logger *logger.Logger
}

func newGuard(s store.Store, log *logger.Logger) *guard {
	return &guard{store: s, logger: log}
}

// authorize loads the model and verifies that actorID owns it. Ownership is
// the only grant: nobody mutates another user's model.
//
// Returns [store.ErrModelNotFound] for a missing model and
// [ErrPermissionDenied] for everyone else's models.
func (g *guard) authorize(ctx context.Context, actorID, modelID string) (models.Model, error) {
	log := logger.FromContext(ctx)

	model, err := g.store.Models().FindModelByID(ctx, modelID)
	if err != nil {
		return models.Model{}, err
	}

	if model.UserID == actorID {
		return model, nil
	}

	log.Warn().
		Str("func", "*guard.authorize").
		Str("actor_id", actorID).
		Str("model_id", modelID).
		Msg("mutation denied: actor does not own the model")
	return models.Model{}, ErrPermissionDenied
}

// visible loads the model and verifies that viewerID may read it: public
// models are readable by anyone (including anonymous viewers with an empty
// viewerID), private models only by their owner.
//
// Returns [store.ErrModelNotFound] for a missing model and [ErrForbidden]
// for a private model the viewer does not own.
func (g *guard) visible(ctx context.Context, viewerID, modelID string) (models.Model, error) {
	model, err := g.store.Models().FindModelByID(ctx, modelID)
	if err != nil {
		return models.Model{}, err
	}

	if model.IsPublic || (viewerID != "" && model.UserID == viewerID) {
		return model, nil
	}

	return models.Model{}, ErrForbidden
}
