package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognised by parseEnv.
const (
	EnvAddr           = "CHAT_ADDR"
	EnvDatabaseDSN    = "CHAT_DATABASE_DSN"
	EnvSecretKey      = "CHAT_SECRET_KEY"
	EnvTokenTTL       = "CHAT_TOKEN_TTL"
	EnvImageBackend   = "CHAT_IMAGE_BACKEND"
	EnvUploadsDir     = "CHAT_UPLOADS_DIR"
	EnvMaxImageSize   = "CHAT_MAX_IMAGE_SIZE"
	EnvSeedGuest      = "CHAT_SEED_GUEST"
	EnvS3RootUser     = "CHAT_S3_ROOT_USER"
	EnvS3RootPass     = "CHAT_S3_ROOT_PASSWORD"
	EnvS3Bucket       = "CHAT_S3_BUCKET"
	EnvS3Region       = "CHAT_S3_REGION"
	EnvS3BaseEndpoint = "CHAT_S3_BASE_ENDPOINT"
)

// parseEnv loads an optional .env file from the working directory and then
// overlays every CHAT_* variable that is set. Variables already present in
// the process environment win over the file.
func parseEnv(config *Config) {
	// a missing .env is fine
	_ = godotenv.Load()

	if err := applyEnv(config, os.LookupEnv); err != nil {
		panic(err)
	}
}

func applyEnv(config *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvAddr, &config.EndpointAddrHTTP)
	str(EnvDatabaseDSN, &config.DatabaseDSN)
	str(EnvSecretKey, &config.SecretKey)
	str(EnvImageBackend, &config.ImageBackend)
	str(EnvUploadsDir, &config.UploadsDir)
	str(EnvS3RootUser, &config.S3RootUser)
	str(EnvS3RootPass, &config.S3RootPassword)
	str(EnvS3Bucket, &config.S3Bucket)
	str(EnvS3Region, &config.S3Region)
	str(EnvS3BaseEndpoint, &config.S3BaseEndpoint)

	if v, ok := lookup(EnvTokenTTL); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTokenTTL, err)
		}
		config.AccessTokenValidityDuration = d
	}

	if v, ok := lookup(EnvMaxImageSize); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxImageSize, err)
		}
		config.MaxImageSize = n
	}

	if v, ok := lookup(EnvSeedGuest); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeedGuest, err)
		}
		config.SeedGuest = b
	}

	return nil
}
