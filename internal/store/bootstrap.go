package store

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"modelhub/internal/logger"
	"modelhub/internal/utils"
	"modelhub/models"
)

// Bootstrap account details for first-run installations.
const (
	bootstrapAdminUsername = "admin"
	bootstrapAdminEmail    = "admin@example.com"
)

// EnsureAdmin creates the default admin account when the store holds no
// users at all. Subsequent starts are no-ops, so the account can be renamed
// or deleted without being recreated.
func EnsureAdmin(ctx context.Context, s Store, password string, log *logger.Logger) error {
	count, err := s.Users().CountUsers(ctx)
	if err != nil {
		log.Err(err).Str("func", "EnsureAdmin").Msg("error counting users")
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Str("func", "EnsureAdmin").Msg("error hashing bootstrap password")
		return err
	}

	admin := models.User{
		UserID:       utils.NewID(),
		Username:     bootstrapAdminUsername,
		Email:        bootstrapAdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err = s.Users().CreateUser(ctx, admin); err != nil {
		log.Err(err).Str("func", "EnsureAdmin").Msg("error creating bootstrap admin")
		return err
	}
	log.Info().Str("func", "EnsureAdmin").Str("username", admin.Username).Msg("created bootstrap admin account")

	return nil
}
