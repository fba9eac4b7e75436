package models

import "time"

// Hotspot is a named annotation anchored to a point on a model's surface.
// Position and Normal are serialized coordinate strings in the form the
// model-viewer component emits ("0m 1.2m 0.4m"); the storage layer treats
// them as opaque text.
type Hotspot struct {
	// HotspotID is the unique identifier of the hotspot (UUID string).
	HotspotID string `json:"id"`

	// ModelID references the owning [Model]. Required.
	ModelID string `json:"model_id"`

	// Name is the annotation label. Required.
	Name string `json:"name"`

	// Position is the serialized 3D surface point. Required.
	Position string `json:"position"`

	// Normal is the optional serialized surface normal at Position.
	Normal string `json:"normal,omitempty"`

	// Surface is the optional model-viewer surface identifier.
	Surface string `json:"surface,omitempty"`

	// Content is free-form annotation text or HTML.
	Content string `json:"content,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the Hotspot model.
func (h Hotspot) TableName() string {
	return "hotspots"
}

// HotspotUpdate carries a partial update of a [Hotspot]. Nil pointers mean
// "leave the field unchanged".
type HotspotUpdate struct {
	Name     *string `json:"name,omitempty"`
	Position *string `json:"position,omitempty"`
	Normal   *string `json:"normal,omitempty"`
	Surface  *string `json:"surface,omitempty"`
	Content  *string `json:"content,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u HotspotUpdate) Empty() bool {
	return u.Name == nil && u.Position == nil && u.Normal == nil && u.Surface == nil && u.Content == nil
}

// Apply copies every set field of the update onto h.
func (u HotspotUpdate) Apply(h *Hotspot) {
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.Position != nil {
		h.Position = *u.Position
	}
	if u.Normal != nil {
		h.Normal = *u.Normal
	}
	if u.Surface != nil {
		h.Surface = *u.Surface
	}
	if u.Content != nil {
		h.Content = *u.Content
	}
}
