package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"modelhub/internal/logger"
	"modelhub/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles user account creation and lookup against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new user record and returns it.
//
// Error handling:
//   - unique violation on username → [ErrUsernameTaken]
//   - unique violation on email → [ErrEmailTaken]
//   - any other driver-level error → wrapped as "unexpected DB error"
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Insert(user.TableName()).
		Columns(userColumns...).
		Values(user.UserID, user.Username, user.Email, user.PasswordHash, user.Role,
			user.AvatarURL, user.Bio, user.CreatedAt).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")

		switch {
		case isUniqueViolation(err, "username"):
			return models.User{}, ErrUsernameTaken
		case isUniqueViolation(err, "email"):
			return models.User{}, ErrEmailTaken
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return user, nil
}

// FindUserByID retrieves a user record by its ID.
func (r *userRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	return r.findUser(ctx, squirrel.Eq{"id": userID}, "*userRepository.FindUserByID")
}

// FindUserByUsername retrieves a user record by its unique username.
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findUser(ctx, squirrel.Eq{"username": username}, "*userRepository.FindUserByUsername")
}

func (r *userRepository) findUser(ctx context.Context, where squirrel.Eq, funcName string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select(userColumns...).
		From(models.User{}.TableName()).
		Where(where).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var found models.User
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&found.UserID, &found.Username, &found.Email, &found.PasswordHash,
		&found.Role, &found.AvatarURL, &found.Bio, &found.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// UpdateUser overwrites the mutable profile fields of the user identified by
// user.UserID. Username and role are not touched.
func (r *userRepository) UpdateUser(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Update(user.TableName()).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("avatar_url", user.AvatarURL).
		Set("bio", user.Bio).
		Where(squirrel.Eq{"id": user.UserID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error updating user")

		if isUniqueViolation(err, "email") {
			return ErrEmailTaken
		}
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Msg("error reading affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// CountUsers returns the total number of user records.
func (r *userRepository) CountUsers(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.builder.Select("COUNT(*)").
		From(models.User{}.TableName()).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CountUsers").Msg("error building query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*userRepository.CountUsers").Msg("error: scanning error")
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count, nil
}
