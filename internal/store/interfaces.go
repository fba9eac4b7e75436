package store

import (
	"context"

	"modelhub/models"
)

// UserRepository provides access to user account records.
type UserRepository interface {
	// CreateUser persists a new user and returns it. Duplicate usernames and
	// emails yield [ErrUsernameTaken] and [ErrEmailTaken] respectively.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByID returns the user with the given ID or [ErrUserNotFound].
	FindUserByID(ctx context.Context, userID string) (models.User, error)

	// FindUserByUsername returns the user with the given username or
	// [ErrUserNotFound].
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	// UpdateUser overwrites the mutable fields (email, password hash, bio,
	// avatar) of the user identified by user.UserID.
	UpdateUser(ctx context.Context, user models.User) error

	// CountUsers returns the total number of user records. Used by the
	// first-run admin bootstrap.
	CountUsers(ctx context.Context) (int64, error)
}

// ModelRepository provides access to model records.
type ModelRepository interface {
	// CreateModel persists a new model and returns it.
	CreateModel(ctx context.Context, model models.Model) (models.Model, error)

	// FindModelByID returns the model with the given ID or [ErrModelNotFound].
	FindModelByID(ctx context.Context, modelID string) (models.Model, error)

	// ListVisibleModels returns public models plus, when userID is non-empty,
	// the private models owned by userID, newest first.
	ListVisibleModels(ctx context.Context, userID string) ([]models.Model, error)

	// ListModelsByOwner returns every model owned by userID, most recently
	// updated first.
	ListModelsByOwner(ctx context.Context, userID string) ([]models.Model, error)

	// UpdateModel applies the partial update to the model and refreshes its
	// updated_at marker, returning the updated record. Zero matched rows
	// yield [ErrModelNotFound].
	UpdateModel(ctx context.Context, modelID string, update models.ModelUpdate) (models.Model, error)

	// DeleteModelCascade removes the model's settings record (if any), all of
	// its hotspots, and finally the model row itself, as one atomic unit
	// where the backend supports it. Dependent records are always removed
	// before the model row. Zero matched model rows yield [ErrModelNotFound].
	DeleteModelCascade(ctx context.Context, modelID string) error
}

// SettingRepository provides access to per-model viewer settings.
// At most one settings record exists per model; every implementation
// enforces this at the storage level rather than by check-then-act.
type SettingRepository interface {
	// FindSettingByModelID returns the settings record for the model or
	// [ErrSettingNotFound].
	FindSettingByModelID(ctx context.Context, modelID string) (models.ModelSetting, error)

	// UpsertSetting creates the settings record for update.ModelID if none
	// exists, otherwise applies the partial update to the existing one, as a
	// single atomic operation. The parent model's updated_at marker is
	// refreshed in the same unit. A missing parent model yields
	// [ErrModelNotFound].
	UpsertSetting(ctx context.Context, modelID string, update models.SettingUpdate) (models.ModelSetting, error)
}

// HotspotRepository provides access to hotspot annotation records.
// All mutations refresh the parent model's updated_at marker within the
// same atomic unit.
type HotspotRepository interface {
	// CreateHotspot persists a new hotspot and returns it. A missing parent
	// model yields [ErrModelNotFound].
	CreateHotspot(ctx context.Context, hotspot models.Hotspot) (models.Hotspot, error)

	// ListHotspotsByModelID returns the model's hotspots in insertion order.
	ListHotspotsByModelID(ctx context.Context, modelID string) ([]models.Hotspot, error)

	// CountHotspotsByModelID returns the number of hotspots under the model.
	CountHotspotsByModelID(ctx context.Context, modelID string) (int64, error)

	// UpdateHotspot applies the partial update to the hotspot identified by
	// (modelID, hotspotID). Zero matched rows yield [ErrHotspotNotFound].
	UpdateHotspot(ctx context.Context, modelID, hotspotID string, update models.HotspotUpdate) error

	// DeleteHotspot removes the hotspot identified by (modelID, hotspotID).
	// Zero matched rows yield [ErrHotspotNotFound].
	DeleteHotspot(ctx context.Context, modelID, hotspotID string) error
}

// Store aggregates the four repositories of one storage backend together
// with its connectivity surface.
type Store interface {
	Users() UserRepository
	Models() ModelRepository
	Settings() SettingRepository
	Hotspots() HotspotRepository

	// Ping reports whether the backend is reachable. The in-memory backend
	// always reports success.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
