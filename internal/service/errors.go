package service

import (
	"errors"
	"fmt"

	"modelhub/internal/store"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired = errors.New("token is expired")

	// ErrPermissionDenied is returned when an authenticated user attempts to
	// mutate a model they do not own.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrForbidden is returned when a viewer requests a private model they
	// do not own.
	ErrForbidden = errors.New("access to private model forbidden")

	// ErrNotEmbeddable is returned when an embed snippet is requested for a
	// private model. It wraps [store.ErrModelNotFound] so the embed endpoint
	// answers a private model exactly like a missing one and does not reveal
	// that the model exists.
	ErrNotEmbeddable = fmt.Errorf("model not found or not public: %w", store.ErrModelNotFound)
)
