// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Supported storage providers.
const (
	ProviderDrive = "gdrive"
	ProviderS3    = "s3"
)

const (
	keyPort            = "port"
	keyAppEnv          = "app_env"
	keyLogLevel        = "log_level"
	keyProvider        = "storage_provider"
	keyCredentialsJSON = "google_credentials_json"
	keyDriveFolderID   = "google_drive_folder_id"
	keyTempDir         = "upload_tmp_dir"
	keyMaxUploadBytes  = "max_upload_bytes"

	keyStorageEndpoint  = "storage_endpoint"
	keyStorageAccessKey = "storage_access_key"
	keyStorageSecretKey = "storage_secret_key"
	keyStorageRegion    = "storage_region"
	keyStorageUseSSL    = "storage_use_ssl"
	keyStorageBucket    = "storage_bucket"
)

// Config holds all runtime configuration for the service.
//
// Fields are read once at startup. The destination container is deliberately
// not a field: it is looked up on every request through Destination.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string
	Provider string

	// CredentialsJSON is the raw service-account document, escapes and all.
	CredentialsJSON string

	TempDir        string
	MaxUploadBytes int64

	// S3-compatible provider (MinIO locally, any S3 endpoint in production).
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageRegion    string
	StorageUseSSL    bool

	// EnvFileLoaded reports whether the .env file was found and applied.
	EnvFileLoaded bool

	v *viper.Viper
}

// Load parses command-line flags, applies the .env file (if present) and
// reads configuration from the environment.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("driverelay", pflag.ContinueOnError)
	fs.String("port", "", "HTTP listen port (overrides PORT)")
	envFile := fs.String("env-file", ".env", "path to an optional dotenv file")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	loaded := true
	if err := godotenv.Load(*envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", *envFile, err)
		}
		loaded = false
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyAppEnv, "development")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyProvider, ProviderDrive)
	v.SetDefault(keyTempDir, os.TempDir())
	v.SetDefault(keyMaxUploadBytes, int64(100<<20))
	v.SetDefault(keyStorageRegion, "us-east-1")
	v.SetDefault(keyStorageUseSSL, false)
	if err := v.BindPFlag(keyPort, fs.Lookup("port")); err != nil {
		return nil, fmt.Errorf("bind port flag: %w", err)
	}

	cfg := &Config{
		Port:            v.GetString(keyPort),
		AppEnv:          v.GetString(keyAppEnv),
		LogLevel:        v.GetString(keyLogLevel),
		Provider:        v.GetString(keyProvider),
		CredentialsJSON: v.GetString(keyCredentialsJSON),
		TempDir:         v.GetString(keyTempDir),
		MaxUploadBytes:  v.GetInt64(keyMaxUploadBytes),

		StorageEndpoint:  v.GetString(keyStorageEndpoint),
		StorageAccessKey: v.GetString(keyStorageAccessKey),
		StorageSecretKey: v.GetString(keyStorageSecretKey),
		StorageRegion:    v.GetString(keyStorageRegion),
		StorageUseSSL:    v.GetBool(keyStorageUseSSL),

		EnvFileLoaded: loaded,
		v:             v,
	}

	switch cfg.Provider {
	case ProviderDrive, ProviderS3:
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive, got %d", cfg.MaxUploadBytes)
	}

	return cfg, nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DriveFolderID returns the current Google Drive destination folder.
func (c *Config) DriveFolderID() string {
	return c.v.GetString(keyDriveFolderID)
}

// Bucket returns the current S3 destination bucket.
func (c *Config) Bucket() string {
	return c.v.GetString(keyStorageBucket)
}

// Destination returns the remote container for the configured provider.
// It is read from the environment on every call; an empty result means the
// destination is not configured.
func (c *Config) Destination() string {
	if c.Provider == ProviderS3 {
		return c.Bucket()
	}
	return c.DriveFolderID()
}
