// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// Storage backend kinds accepted by [Storage.Backend].
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// StructuredConfig is the top-level configuration container for the
// modelhub application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, an optional JSON file, and built-in defaults (in that order of
// precedence).
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token parameters and
	// the bootstrap admin credential.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the persistence backends and the
	// fallback policy.
	Storage Storage `envPrefix:"STORAGE_"`

	// Assets holds configuration for the binary asset storage collaborator
	// (local upload directory or S3 bucket).
	Assets Assets `envPrefix:"ASSETS_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control security,
// token lifecycle, and first-run bootstrap.
type App struct {
	// TokenSignKey is the secret key used to sign and verify session JWT
	// tokens. Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued JWT token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a session token remains valid after
	// issuance (e.g. "24h").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// AdminPassword is the password given to the deterministic admin
	// account created when the user table is empty on startup.
	// Env: APP_ADMIN_PASSWORD
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Storage groups the configuration for the storage backends and the
// primary-down fallback policy.
type Storage struct {
	// Backend selects the authoritative storage backend:
	// "postgres", "sqlite", "redis" or "memory".
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DSN is the relational database connection string: a PostgreSQL URI
	// for the postgres backend or a file path for the sqlite backend.
	// Env: STORAGE_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// RedisAddr is the host:port of the Redis server for the redis backend.
	// Env: STORAGE_REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR"`

	// RedisDB is the Redis logical database index.
	// Env: STORAGE_REDIS_DB
	RedisDB int `env:"REDIS_DB"`

	// FallbackWindow is how long the primary backend may stay unreachable
	// before the selector switches to the in-memory fallback.
	// Env: STORAGE_FALLBACK_WINDOW
	FallbackWindow time.Duration `env:"FALLBACK_WINDOW"`

	// ProbeInterval is the period of the background connectivity check
	// against the primary backend.
	// Env: STORAGE_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// Assets holds settings for the binary asset storage collaborator.
// When S3Bucket is set, assets are stored in S3; otherwise they are written
// to UploadDir on the local filesystem.
type Assets struct {
	// UploadDir is the local directory for uploaded model files.
	// Env: ASSETS_UPLOAD_DIR
	UploadDir string `env:"UPLOAD_DIR"`

	// MaxUploadBytes caps the size of a single uploaded asset.
	// Env: ASSETS_MAX_UPLOAD_BYTES
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES"`

	// S3Bucket is the destination bucket for cloud asset storage.
	// Env: ASSETS_S3_BUCKET
	S3Bucket string `env:"S3_BUCKET"`

	// S3Region is the AWS region of the bucket.
	// Env: ASSETS_S3_REGION
	S3Region string `env:"S3_REGION"`

	// S3Endpoint overrides the S3 endpoint URL (for S3-compatible stores).
	// Env: ASSETS_S3_ENDPOINT
	S3Endpoint string `env:"S3_ENDPOINT"`

	// S3AccessKeyID and S3SecretAccessKey are static credentials for the
	// bucket. When empty, the default AWS credential chain is used.
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// defaultConfig returns the built-in defaults merged in as the lowest
// precedence layer. The 10 second fallback window matches the grace period
// the service has always given the primary store before switching.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "modelhub",
			TokenDuration: 24 * time.Hour,
			AdminPassword: "admin123",
		},
		Storage: Storage{
			Backend:        BackendMemory,
			FallbackWindow: 10 * time.Second,
			ProbeInterval:  2 * time.Second,
		},
		Assets: Assets{
			UploadDir:      "uploads",
			MaxUploadBytes: 50 << 20,
		},
		Server: Server{
			HTTPAddress:    ":8080",
			RequestTimeout: 30 * time.Second,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration.
//
// Sources are merged with first-wins precedence:
//  1. environment variables
//  2. command-line flags
//  3. JSON file (if one was specified by either of the above)
//  4. built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
