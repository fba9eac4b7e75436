package models

import "github.com/golang-jwt/jwt/v5"

// Token bundles a parsed JWT with the user identity extracted from its
// subject claim. SignedString is populated when the token is issued;
// Token and UserID when it is parsed and validated.
type Token struct {
	jwt.RegisteredClaims

	Token        *jwt.Token `json:"-"`
	SignedString string     `json:"token,omitempty"`
	UserID       string     `json:"-"`
}
