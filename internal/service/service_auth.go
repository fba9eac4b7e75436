package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"modelhub/internal/config"
	"modelhub/internal/logger"
	"modelhub/internal/store"
	"modelhub/internal/utils"
	"modelhub/models"
)

// authService is the concrete implementation of [AuthService]. It handles
// registration, credential verification, profile maintenance, and JWT token
// lifecycle, using bcrypt for password hashing.
type authService struct {
	store store.Store

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] over the given storage backend
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(s store.Store, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		store:         s,
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// Register creates a new account and issues its first session token.
//
// Returns the persisted user and token, or:
//   - [ErrInvalidDataProvided] if username, email, or password is empty.
//   - A wrapped storage error if the repository call fails (duplicate
//     username/email — see [store.ErrUsernameTaken], [store.ErrEmailTaken]).
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		log.Error().Str("username", req.Username).Msg("invalid registration data provided")
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("error hashing password")
		return models.User{}, models.Token{}, fmt.Errorf("error hashing password: %w", err)
	}

	user := models.User{
		UserID:       utils.NewID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	registered, err := a.store.Users().CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("user creation ended with error")
		return models.User{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, registered.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Msg("error generating session token")
		return models.User{}, models.Token{}, err
	}

	return registered, token, nil
}

// Login authenticates an existing user and issues a session token.
//
// Returns the authenticated user and token, or:
//   - [ErrInvalidDataProvided] if username or password is empty.
//   - A wrapped storage error if the lookup fails (see [store.ErrUserNotFound]).
//   - [ErrWrongPassword] if the password does not match.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if req.Username == "" || req.Password == "" {
		log.Error().Str("username", req.Username).Msg("invalid login data provided")
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	found, err := a.store.Users().FindUserByUsername(ctx, req.Username)
	if err != nil {
		log.Err(err).Str("username", req.Username).Msg("user search by username failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by username failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(req.Password)); err != nil {
		log.Warn().Str("username", req.Username).Msg("wrong password")
		return models.User{}, models.Token{}, ErrWrongPassword
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, found.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Msg("error generating session token")
		return models.User{}, models.Token{}, err
	}

	return found, token, nil
}

// GetProfile returns the account identified by userID.
func (a *authService) GetProfile(ctx context.Context, userID string) (models.User, error) {
	return a.store.Users().FindUserByID(ctx, userID)
}

// UpdateProfile applies the partial profile update and returns the stored
// record. Empty updates are rejected.
func (a *authService) UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdateRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if req.Email == nil && req.Bio == nil && req.AvatarURL == nil {
		return models.User{}, ErrInvalidDataProvided
	}
	if req.Email != nil && *req.Email == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := a.store.Users().FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err = a.store.Users().UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("user_id", userID).Msg("profile update ended with error")
		return models.User{}, fmt.Errorf("profile update ended with error: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the current password before storing the bcrypt
// hash of the new one.
func (a *authService) ChangePassword(ctx context.Context, userID string, req models.PasswordChangeRequest) error {
	log := logger.FromContext(ctx)

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrInvalidDataProvided
	}

	user, err := a.store.Users().FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		log.Warn().Str("user_id", userID).Msg("wrong current password")
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err = a.store.Users().UpdateUser(ctx, user); err != nil {
		log.Err(err).Str("user_id", userID).Msg("password change ended with error")
		return fmt.Errorf("password change ended with error: %w", err)
	}

	return nil
}

// ValidateToken parses and validates a session token string and returns the
// user ID it carries. Expired tokens yield [ErrTokenIsExpired].
func (a *authService) ValidateToken(tokenString string) (string, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenIsExpired
		}
		return "", err
	}
	return token.UserID, nil
}
