package models

// Request and response shapes of the HTTP API. Mutation responses follow the
// `{"success": true}` convention; failures are {"error": "..."} with a
// status code from the handler-level error mapping.

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdateRequest is the body of PUT /api/auth/profile.
// Password changes go through [PasswordChangeRequest] instead.
type ProfileUpdateRequest struct {
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// PasswordChangeRequest is the body of PUT /api/auth/password.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HotspotRequest is the body of hotspot create requests.
type HotspotRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Normal   string `json:"normal,omitempty"`
	Surface  string `json:"surface,omitempty"`
	Content  string `json:"content,omitempty"`
}

// AuthResponse is the body of successful register and login calls. The
// token is also set as the session cookie and the "Authorization" header.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// SuccessResponse acknowledges a mutation. ID is set only by operations
// that create a record (e.g. hotspot add).
type SuccessResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// ErrorResponse carries a terminal request failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ModelResponse is the body of GET /api/models/{id}: the model together
// with its viewer settings (defaults filled in) and hotspots.
type ModelResponse struct {
	Model    Model        `json:"model"`
	Settings ModelSetting `json:"settings"`
	Hotspots []Hotspot    `json:"hotspots"`
}

// EmbedResponse is the body of GET /api/models/{id}/embed.
type EmbedResponse struct {
	Success   bool   `json:"success"`
	EmbedCode string `json:"embedCode"`
}
