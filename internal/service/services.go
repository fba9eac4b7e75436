package service

import (
	"modelhub/internal/assets"
	"modelhub/internal/config"
	"modelhub/internal/logger"
	"modelhub/internal/store"
)

// Services bundles every application service for handler wiring.
type Services struct {
	AuthService    AuthService
	ModelService   ModelService
	SettingService SettingService
	HotspotService HotspotService
}

// NewServices constructs the full service layer over one storage backend and
// one asset storage.
func NewServices(s store.Store, a assets.Storage, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:    NewAuthService(s, cfg.App, logger),
		ModelService:   NewModelService(s, a, logger),
		SettingService: NewSettingService(s, logger),
		HotspotService: NewHotspotService(s, logger),
	}
}
