package service

import (
	"context"
	"io"

	"modelhub/models"
)

// AuthService handles account lifecycle and session tokens.
type AuthService interface {
	// Register creates a new account and returns it with a session token.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, models.Token, error)

	// Login verifies credentials and returns the account with a fresh
	// session token.
	Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error)

	// GetProfile returns the account identified by userID.
	GetProfile(ctx context.Context, userID string) (models.User, error)

	// UpdateProfile applies the partial profile update. Password changes go
	// through ChangePassword.
	UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdateRequest) (models.User, error)

	// ChangePassword verifies the current password and replaces it.
	ChangePassword(ctx context.Context, userID string, req models.PasswordChangeRequest) error

	// ValidateToken parses and validates a session token string, returning
	// the user ID it carries.
	ValidateToken(token string) (string, error)
}

// ModelUpload carries a new model's metadata and either an uploaded file or
// an external URL (exactly one of the two).
type ModelUpload struct {
	Name        string
	Description string
	IsPublic    bool

	// File, Filename and Size describe the uploaded binary.
	File     io.Reader
	Filename string
	Size     int64

	// ExternalURL, when non-empty, is stored verbatim as the model's file
	// reference instead of an upload.
	ExternalURL string
}

// ModelService handles model lifecycle and read paths. viewerID arguments
// are empty for anonymous callers.
type ModelService interface {
	// Create stores the uploaded asset and persists the model record.
	Create(ctx context.Context, userID string, upload ModelUpload) (models.Model, error)

	// GetDetail returns the model with its viewer settings (defaults filled
	// in) and hotspots, enforcing visibility.
	GetDetail(ctx context.Context, viewerID, modelID string) (models.ModelResponse, error)

	// ListVisible returns public models plus the viewer's own private ones,
	// newest first.
	ListVisible(ctx context.Context, viewerID string) ([]models.Model, error)

	// ListOwned returns the user's models with hotspot counts, most
	// recently updated first.
	ListOwned(ctx context.Context, userID string) ([]models.Model, error)

	// Update applies a partial metadata update, owner only.
	Update(ctx context.Context, actorID, modelID string, update models.ModelUpdate) (models.Model, error)

	// Delete removes the model together with its settings, hotspots, and
	// stored asset, owner only.
	Delete(ctx context.Context, actorID, modelID string) error

	// Embed returns an HTML snippet embedding the viewer for a public model.
	Embed(ctx context.Context, modelID string) (string, error)
}

// SettingService handles per-model viewer settings.
type SettingService interface {
	// Get returns the model's settings with defaults filled in, enforcing
	// visibility. A model that never saved settings yields all defaults.
	Get(ctx context.Context, viewerID, modelID string) (models.ModelSetting, error)

	// Upsert creates or partially updates the model's settings, owner only.
	Upsert(ctx context.Context, actorID, modelID string, update models.SettingUpdate) (models.ModelSetting, error)
}

// HotspotService handles hotspot annotations.
type HotspotService interface {
	// List returns the model's hotspots in insertion order, enforcing
	// visibility.
	List(ctx context.Context, viewerID, modelID string) ([]models.Hotspot, error)

	// Add creates a hotspot on the model, owner only.
	Add(ctx context.Context, actorID, modelID string, req models.HotspotRequest) (models.Hotspot, error)

	// Update applies a partial update to one hotspot, owner only.
	Update(ctx context.Context, actorID, modelID, hotspotID string, update models.HotspotUpdate) error

	// Delete removes one hotspot, owner only.
	Delete(ctx context.Context, actorID, modelID, hotspotID string) error
}
