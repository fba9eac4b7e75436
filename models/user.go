package models

import "time"

// Role constants for [User.Role].
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account entity used for authentication and ownership
// of models. Sensitive fields must never be exposed outside trusted
// boundaries.
type User struct {
	// UserID is the unique identifier of the user (UUID string).
	UserID string `json:"id"`

	// Username is the unique login handle.
	Username string `json:"username"`

	// Email is the unique contact address of the account.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This value MUST be a hash, never plaintext, and is never serialized.
	PasswordHash string `json:"-"`

	// Role is either [RoleUser] or [RoleAdmin].
	Role string `json:"role"`

	// AvatarURL is an optional reference to the user's avatar image.
	AvatarURL string `json:"avatar_url,omitempty"`

	// Bio is free-form profile text. May be empty.
	Bio string `json:"bio,omitempty"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
