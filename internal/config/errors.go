package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrUnknownStorageBackend indicates that Storage.Backend names a kind
	// the application does not implement.
	ErrUnknownStorageBackend = errors.New("unknown storage backend")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, a missing DSN for a relational backend).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a missing token sign key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidAssetConfigs indicates that neither a local upload directory
	// nor an S3 bucket is configured for asset storage.
	ErrInvalidAssetConfigs = errors.New("invalid asset storage configuration")
)
