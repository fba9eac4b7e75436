package models

import "time"

// Model represents one uploaded 3D asset together with its metadata.
//
// The binary asset itself lives outside the database; FilePath is an opaque
// locator (a local path or an absolute URL) persisted verbatim. UpdatedAt is
// refreshed whenever the model's own fields change and whenever a dependent
// [Hotspot] or [ModelSetting] is created, updated, or deleted.
type Model struct {
	// ModelID is the unique identifier of the model (UUID string).
	ModelID string `json:"id"`

	// Name is the display name of the model. Required.
	Name string `json:"name"`

	// Description is optional free-form text.
	Description string `json:"description,omitempty"`

	// UserID references the owning [User]. Ownership is immutable after
	// creation.
	UserID string `json:"user_id"`

	// OwnerName is the owner's username, populated on read paths for
	// presentation. It is not a persisted column.
	OwnerName string `json:"owner,omitempty"`

	// IsPublic controls visibility: public models are readable by anyone,
	// private models only by their owner.
	IsPublic bool `json:"is_public"`

	// FilePath is the opaque asset locator returned by the asset storage
	// collaborator. Values prefixed with "https://" are served verbatim.
	FilePath string `json:"file_path"`

	// ThumbnailPath is an optional locator of a preview image.
	ThumbnailPath string `json:"thumbnail_path,omitempty"`

	// FileSize is the asset size in bytes, as reported at upload time.
	FileSize int64 `json:"file_size,omitempty"`

	// FileType is the asset extension without the dot (glb, gltf, usdz).
	FileType string `json:"file_type,omitempty"`

	// HotspotCount is populated on dashboard reads; not a persisted column.
	HotspotCount int64 `json:"hotspot_count,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Model model.
func (m Model) TableName() string {
	return "models"
}

// ModelUpdate carries a partial update of a [Model]. Nil pointers mean
// "leave the field unchanged". Ownership and asset references are not
// updatable through this type.
type ModelUpdate struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	IsPublic      *bool   `json:"is_public,omitempty"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u ModelUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.IsPublic == nil && u.ThumbnailPath == nil
}
