package config

import (
	"encoding/json"
	"os"

	"github.com/rentacat/rentacat/internal/flagx"
	"github.com/rentacat/rentacat/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "10m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP  string         `json:"endpoint_addr_http"`
	DatabaseDSN       string         `json:"database_dsn"`
	SecretKey         string         `json:"secret_key"`
	SessionLifetime   timex.Duration `json:"session_lifetime"`
	CSRFTokenTTL      timex.Duration `json:"csrf_token_ttl"`
	LoginRateLimit    int            `json:"login_rate_limit"`
	LoginRateWindow   timex.Duration `json:"login_rate_window"`
	GeneralRateLimit  int            `json:"general_rate_limit"`
	GeneralRateWindow timex.Duration `json:"general_rate_window"`
	UploadDir         string         `json:"upload_dir"`
	PublicImageBase   string         `json:"public_image_base"`
	MaxUploadBytes    int64          `json:"max_upload_bytes"`
	S3Enabled         bool           `json:"s3_enabled"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config
// command-line flags; if neither is set, no JSON file is loaded.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.SessionLifetime = c.SessionLifetime.Duration
	config.CSRFTokenTTL = c.CSRFTokenTTL.Duration
	config.LoginRateLimit = c.LoginRateLimit
	config.LoginRateWindow = c.LoginRateWindow.Duration
	config.GeneralRateLimit = c.GeneralRateLimit
	config.GeneralRateWindow = c.GeneralRateWindow.Duration
	config.UploadDir = c.UploadDir
	config.PublicImageBase = c.PublicImageBase
	config.MaxUploadBytes = c.MaxUploadBytes
	config.S3Enabled = c.S3Enabled
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
