package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chatauth/internal/flagx"
	"github.com/dmitrijs2005/chatauth/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file.
// Durations accept both "720h" strings and integer nanoseconds.
// Absent keys leave the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	ImageBackend                string          `json:"image_backend"`
	UploadsDir                  string          `json:"uploads_dir"`
	MaxImageSize                int64           `json:"max_image_size"`
	SeedGuest                   *bool           `json:"seed_guest"`
	S3RootUser                  string          `json:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket"`
	S3Region                    string          `json:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the file named by -c / -config.
// If no file is given nothing happens; unreadable or malformed files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.ImageBackend, c.ImageBackend)
	setString(&config.UploadsDir, c.UploadsDir)
	if c.MaxImageSize > 0 {
		config.MaxImageSize = c.MaxImageSize
	}
	if c.SeedGuest != nil {
		config.SeedGuest = *c.SeedGuest
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
