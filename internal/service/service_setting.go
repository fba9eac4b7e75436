package service

import (
	"context"
	"errors"

	"modelhub/internal/logger"
	"modelhub/internal/store"
	"modelhub/models"
)

// settingService is the concrete implementation of [SettingService].
type settingService struct {
	store  store.Store
	guard  *guard
	logger *logger.Logger
}

// NewSettingService constructs a [SettingService] over the given store.
func NewSettingService(s store.Store, log *logger.Logger) SettingService {
	return &settingService{
		store:  s,
		guard:  newGuard(s, log),
		logger: log,
	}
}

// Get returns the model's settings with defaults filled in. A model that
// never saved settings yields the all-defaults value, not an error.
func (s *settingService) Get(ctx context.Context, viewerID, modelID string) (models.ModelSetting, error) {
	if _, err := s.guard.visible(ctx, viewerID, modelID); err != nil {
		return models.ModelSetting{}, err
	}

	setting, err := s.store.Settings().FindSettingByModelID(ctx, modelID)
	if errors.Is(err, store.ErrSettingNotFound) {
		setting = models.ModelSetting{ModelID: modelID}
	} else if err != nil {
		return models.ModelSetting{}, err
	}

	return setting.WithDefaults(), nil
}

// Upsert creates or partially updates the model's settings after the
// ownership check. The parent model's updated_at is refreshed by the store
// in the same atomic unit.
func (s *settingService) Upsert(ctx context.Context, actorID, modelID string, update models.SettingUpdate) (models.ModelSetting, error) {
	if _, err := s.guard.authorize(ctx, actorID, modelID); err != nil {
		return models.ModelSetting{}, err
	}

	return s.store.Settings().UpsertSetting(ctx, modelID, update)
}
