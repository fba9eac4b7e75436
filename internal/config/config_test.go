package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *StructuredConfig {
	cfg := defaultConfig()
	cfg.App.TokenSignKey = "secret"
	return cfg
}

func TestValidate_DefaultsWithSignKey(t *testing.T) {
	cfg := validTestConfig()
	assert.NoError(t, cfg.validate())
}

func TestValidate_MissingSignKey(t *testing.T) {
	cfg := defaultConfig()
	assert.ErrorIs(t, cfg.validate(), ErrInvalidAppConfigs)
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := validTestConfig()
	cfg.Storage.Backend = "cassandra"
	assert.ErrorIs(t, cfg.validate(), ErrUnknownStorageBackend)
}

func TestValidate_RelationalBackendRequiresDSN(t *testing.T) {
	for _, backend := range []string{BackendPostgres, BackendSQLite} {
		cfg := validTestConfig()
		cfg.Storage.Backend = backend
		cfg.Storage.DSN = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs, backend)

		cfg.Storage.DSN = "some-dsn"
		assert.NoError(t, cfg.validate(), backend)
	}
}

func TestValidate_RedisBackendRequiresAddr(t *testing.T) {
	cfg := validTestConfig()
	cfg.Storage.Backend = BackendRedis
	assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)

	cfg.Storage.RedisAddr = "localhost:6379"
	assert.NoError(t, cfg.validate())
}

func TestValidate_NoAssetDestination(t *testing.T) {
	cfg := validTestConfig()
	cfg.Assets.UploadDir = ""
	cfg.Assets.S3Bucket = ""
	assert.ErrorIs(t, cfg.validate(), ErrInvalidAssetConfigs)
}

func TestBuild_FirstLayerWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{
			App:     App{TokenSignKey: "from-env"},
			Storage: Storage{Backend: BackendSQLite, DSN: "env.sqlite"},
		},
		&StructuredConfig{
			App:     App{TokenSignKey: "from-flags", TokenIssuer: "flag-issuer"},
			Storage: Storage{DSN: "flags.sqlite"},
		},
		defaultConfig(),
	)

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.App.TokenSignKey)
	assert.Equal(t, "env.sqlite", cfg.Storage.DSN)
	// gap in the first layer is filled by the second
	assert.Equal(t, "flag-issuer", cfg.App.TokenIssuer)
	// gaps in both are filled by defaults
	assert.Equal(t, 10*time.Second, cfg.Storage.FallbackWindow)
	assert.Equal(t, "uploads", cfg.Assets.UploadDir)
}

func TestBuild_PropagatesValidationError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, defaultConfig()) // no sign key

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NetAddress
		wantErr bool
	}{
		{name: "localhost", input: "localhost:8080", want: NetAddress{Host: "localhost", Port: 8080}},
		{name: "empty host", input: ":8080", want: NetAddress{Host: "", Port: 8080}},
		{name: "ip host", input: "127.0.0.1:9000", want: NetAddress{Host: "127.0.0.1", Port: 9000}},
		{name: "no port", input: "localhost", wantErr: true},
		{name: "bad port", input: "localhost:abc", wantErr: true},
		{name: "negative port", input: "localhost:-1", wantErr: true},
		{name: "bad host", input: "not-an-ip:8080", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
			assert.Equal(t, tt.input, a.String())
		})
	}
}

func TestNetAddress_String_Zero(t *testing.T) {
	var a NetAddress
	assert.Equal(t, "", a.String())
}
