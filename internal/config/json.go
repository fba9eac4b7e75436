package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-typed durations, so that a configuration file can spell durations
// as "30s" or "24h".
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		AdminPassword string   `json:"admin_password"`
	} `json:"app,omitempty"`

	Storage struct {
		Backend        string   `json:"backend"`
		DSN            string   `json:"dsn"`
		RedisAddr      string   `json:"redis_addr"`
		RedisDB        int      `json:"redis_db"`
		FallbackWindow Duration `json:"fallback_window"`
		ProbeInterval  Duration `json:"probe_interval"`
	} `json:"storage,omitempty"`

	Assets struct {
		UploadDir         string `json:"upload_dir"`
		MaxUploadBytes    int64  `json:"max_upload_bytes"`
		S3Bucket          string `json:"s3_bucket"`
		S3Region          string `json:"s3_region"`
		S3Endpoint        string `json:"s3_endpoint"`
		S3AccessKeyID     string `json:"s3_access_key_id"`
		S3SecretAccessKey string `json:"s3_secret_access_key"`
	} `json:"assets,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`
}

// Duration is a time.Duration that unmarshals from either a JSON number
// (nanoseconds) or a duration string such as "10s".
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler for [Duration].
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("error parsing duration string %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration value: %v", v)
	}
}

// parseJSON reads the configuration file at jsonFilePath and converts it to
// a [StructuredConfig] layer for merging.
func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			AdminPassword: jsonCfg.App.AdminPassword,
		},
		Storage: Storage{
			Backend:        jsonCfg.Storage.Backend,
			DSN:            jsonCfg.Storage.DSN,
			RedisAddr:      jsonCfg.Storage.RedisAddr,
			RedisDB:        jsonCfg.Storage.RedisDB,
			FallbackWindow: time.Duration(jsonCfg.Storage.FallbackWindow),
			ProbeInterval:  time.Duration(jsonCfg.Storage.ProbeInterval),
		},
		Assets: Assets{
			UploadDir:         jsonCfg.Assets.UploadDir,
			MaxUploadBytes:    jsonCfg.Assets.MaxUploadBytes,
			S3Bucket:          jsonCfg.Assets.S3Bucket,
			S3Region:          jsonCfg.Assets.S3Region,
			S3Endpoint:        jsonCfg.Assets.S3Endpoint,
			S3AccessKeyID:     jsonCfg.Assets.S3AccessKeyID,
			S3SecretAccessKey: jsonCfg.Assets.S3SecretAccessKey,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
	}

	return cfg, nil
}
