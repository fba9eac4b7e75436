// SPDX-License-Identifier: Apache-2.0

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.Backend {
	case BackendPostgres, BackendSQLite:
		if cfg.Storage.DSN == "" {
			return ErrInvalidStorageConfigs
		}
	case BackendRedis:
		if cfg.Storage.RedisAddr == "" {
			return ErrInvalidStorageConfigs
		}
	case BackendMemory:
		// nothing external to configure
	default:
		return ErrUnknownStorageBackend
	}

	if cfg.Storage.FallbackWindow <= 0 || cfg.Storage.ProbeInterval <= 0 {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Assets.S3Bucket == "" && cfg.Assets.UploadDir == "" {
		return ErrInvalidAssetConfigs
	}

	return nil
}
