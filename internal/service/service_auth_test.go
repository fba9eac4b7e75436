package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelhub/internal/config"
	"modelhub/internal/logger"
	"modelhub/internal/store"
	"modelhub/models"
)

func testAppConfig() config.App {
	return config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "modelhub-test",
		TokenDuration: time.Hour,
	}
}

func newTestAuthService() (AuthService, *store.MemoryStore) {
	s := store.NewMemoryStore()
	return NewAuthService(s, testAppConfig(), logger.Nop()), s
}

func register(t *testing.T, auth AuthService, username string) models.User {
	t.Helper()

	user, _, err := auth.Register(context.Background(), models.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_IssuesTokenAndHashesPassword(t *testing.T) {
	auth, s := newTestAuthService()
	ctx := context.Background()

	user, token, err := auth.Register(ctx, models.RegisterRequest{
		Username: "john",
		Email:    "john@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEmpty(t, token.SignedString)

	stored, err := s.Users().FindUserByUsername(ctx, "john")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)

	userID, err := auth.ValidateToken(token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, userID)
}

func TestRegister_Validation(t *testing.T) {
	auth, _ := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"empty username", models.RegisterRequest{Email: "a@b.c", Password: "x"}},
		{"empty email", models.RegisterRequest{Username: "a", Password: "x"}},
		{"empty password", models.RegisterRequest{Username: "a", Email: "a@b.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := auth.Register(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	auth, _ := newTestAuthService()
	register(t, auth, "john")

	_, _, err := auth.Register(context.Background(), models.RegisterRequest{
		Username: "john",
		Email:    "second@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, store.ErrUsernameTaken)
}

func TestLogin_Success(t *testing.T) {
	auth, _ := newTestAuthService()
	registered := register(t, auth, "john")

	user, token, err := auth.Login(context.Background(), models.LoginRequest{
		Username: "john",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, user.UserID)
	assert.NotEmpty(t, token.SignedString)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth, _ := newTestAuthService()
	register(t, auth, "john")

	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Username: "john",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestLogin_UnknownUser(t *testing.T) {
	auth, _ := newTestAuthService()

	_, _, err := auth.Login(context.Background(), models.LoginRequest{
		Username: "ghost",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := testAppConfig()
	cfg.TokenDuration = -time.Minute
	s := store.NewMemoryStore()
	auth := NewAuthService(s, cfg, logger.Nop())

	_, token, err := auth.Register(context.Background(), models.RegisterRequest{
		Username: "john",
		Email:    "john@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = auth.ValidateToken(token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpired)
}

func TestValidateToken_Garbage(t *testing.T) {
	auth, _ := newTestAuthService()

	_, err := auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	auth, _ := newTestAuthService()
	user := register(t, auth, "john")
	ctx := context.Background()

	bio := "3D artist"
	updated, err := auth.UpdateProfile(ctx, user.UserID, models.ProfileUpdateRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, user.Email, updated.Email, "untouched fields preserved")

	_, err = auth.UpdateProfile(ctx, user.UserID, models.ProfileUpdateRequest{})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	empty := ""
	_, err = auth.UpdateProfile(ctx, user.UserID, models.ProfileUpdateRequest{Email: &empty})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestChangePassword(t *testing.T) {
	auth, _ := newTestAuthService()
	user := register(t, auth, "john")
	ctx := context.Background()

	err := auth.ChangePassword(ctx, user.UserID, models.PasswordChangeRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = auth.ChangePassword(ctx, user.UserID, models.PasswordChangeRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, models.LoginRequest{Username: "john", Password: "newsecret"})
	assert.NoError(t, err)

	_, _, err = auth.Login(ctx, models.LoginRequest{Username: "john", Password: "secret123"})
	assert.ErrorIs(t, err, ErrWrongPassword)
}
