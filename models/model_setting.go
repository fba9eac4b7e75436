package models

import "time"

// Viewer defaults applied when a field of [ModelSetting] is unset.
// They mirror the attribute defaults of the model-viewer web component.
const (
	DefaultCameraOrbit     = "0deg 75deg 2m"
	DefaultCameraTarget    = "0m 0m 0m"
	DefaultFieldOfView     = "45deg"
	DefaultExposure        = "1"
	DefaultShadowIntensity = "0.7"
	DefaultShadowSoftness  = "1"
)

// ModelSetting holds the per-model viewer configuration (camera, lighting,
// environment, animation). At most one ModelSetting exists per [Model]; the
// storage layer enforces this. Every string field is optional — the empty
// string means "use the viewer default", never an error.
type ModelSetting struct {
	// SettingID is the unique identifier of the settings record (UUID string).
	SettingID string `json:"id"`

	// ModelID references the owning [Model]. Exactly one settings record may
	// exist per model.
	ModelID string `json:"model_id"`

	CameraOrbit      string `json:"camera_orbit,omitempty"`
	CameraTarget     string `json:"camera_target,omitempty"`
	FieldOfView      string `json:"field_of_view,omitempty"`
	Exposure         string `json:"exposure,omitempty"`
	ShadowIntensity  string `json:"shadow_intensity,omitempty"`
	ShadowSoftness   string `json:"shadow_softness,omitempty"`
	EnvironmentImage string `json:"environment_image,omitempty"`
	SkyboxImage      string `json:"skybox_image,omitempty"`
	AnimationName    string `json:"animation_name,omitempty"`
	Autoplay         bool   `json:"autoplay"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the ModelSetting model.
func (s ModelSetting) TableName() string {
	return "model_settings"
}

// WithDefaults returns a copy of the settings with every unset string field
// replaced by its model-viewer default. Autoplay keeps its stored value
// (false when never configured).
func (s ModelSetting) WithDefaults() ModelSetting {
	out := s
	if out.CameraOrbit == "" {
		out.CameraOrbit = DefaultCameraOrbit
	}
	if out.CameraTarget == "" {
		out.CameraTarget = DefaultCameraTarget
	}
	if out.FieldOfView == "" {
		out.FieldOfView = DefaultFieldOfView
	}
	if out.Exposure == "" {
		out.Exposure = DefaultExposure
	}
	if out.ShadowIntensity == "" {
		out.ShadowIntensity = DefaultShadowIntensity
	}
	if out.ShadowSoftness == "" {
		out.ShadowSoftness = DefaultShadowSoftness
	}
	return out
}

// SettingUpdate carries a partial update of a [ModelSetting]. Nil pointers
// mean "leave the field unchanged".
type SettingUpdate struct {
	CameraOrbit      *string `json:"camera_orbit,omitempty"`
	CameraTarget     *string `json:"camera_target,omitempty"`
	FieldOfView      *string `json:"field_of_view,omitempty"`
	Exposure         *string `json:"exposure,omitempty"`
	ShadowIntensity  *string `json:"shadow_intensity,omitempty"`
	ShadowSoftness   *string `json:"shadow_softness,omitempty"`
	EnvironmentImage *string `json:"environment_image,omitempty"`
	SkyboxImage      *string `json:"skybox_image,omitempty"`
	AnimationName    *string `json:"animation_name,omitempty"`
	Autoplay         *bool   `json:"autoplay,omitempty"`
}

// Apply copies every set field of the update onto s.
func (u SettingUpdate) Apply(s *ModelSetting) {
	if u.CameraOrbit != nil {
		s.CameraOrbit = *u.CameraOrbit
	}
	if u.CameraTarget != nil {
		s.CameraTarget = *u.CameraTarget
	}
	if u.FieldOfView != nil {
		s.FieldOfView = *u.FieldOfView
	}
	if u.Exposure != nil {
		s.Exposure = *u.Exposure
	}
	if u.ShadowIntensity != nil {
		s.ShadowIntensity = *u.ShadowIntensity
	}
	if u.ShadowSoftness != nil {
		s.ShadowSoftness = *u.ShadowSoftness
	}
	if u.EnvironmentImage != nil {
		s.EnvironmentImage = *u.EnvironmentImage
	}
	if u.SkyboxImage != nil {
		s.SkyboxImage = *u.SkyboxImage
	}
	if u.AnimationName != nil {
		s.AnimationName = *u.AnimationName
	}
	if u.Autoplay != nil {
		s.Autoplay = *u.Autoplay
	}
}
