// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Image pipeline defaults.
const (
	DefaultFetchConcurrency = 3
	DefaultImageCacheItems  = 128
	DefaultUploadFolder     = "zentao_bug"
)

// Config holds all configuration for the MCP server.
type Config struct {
	// ZenTao tracker
	ZentaoURL      string        // ZENTAO_URL, default "http://localhost/zentao"
	ZentaoUsername string        // ZENTAO_USERNAME, default "admin"
	ZentaoPassword string        // ZENTAO_PASSWORD, default "admin"
	ZentaoAPIVer   string        // ZENTAO_API_VERSION, default "v1"
	TokenTTL       time.Duration // CACHE_DURATION_MS, default 300000ms (5m)

	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 30000ms (30s)

	// Image host. Rehosting is disabled when ImageBedURL is empty; the
	// uploader then reports a configuration-missing failure per image.
	ImageBedURL    string // IMAGE_BED_URL, default ""
	ImageBedAuth   string // IMAGE_BED_AUTH, default ""
	ImageBedFolder string // IMAGE_BED_FOLDER, default "zentao_bug"

	// Image pipeline
	ImageFetchTimeout  time.Duration // IMAGE_FETCH_TIMEOUT_MS, default 10000ms (10s)
	ImageUploadTimeout time.Duration // IMAGE_UPLOAD_TIMEOUT_MS, default 30000ms (30s)
	FetchConcurrency   int           // IMAGE_FETCH_CONCURRENCY, default 3
	ImageCacheMaxItems int           // IMAGE_CACHE_MAX_ITEMS, default 128

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		ZentaoURL:      getEnvString("ZENTAO_URL", "http://localhost/zentao"),
		ZentaoUsername: getEnvString("ZENTAO_USERNAME", "admin"),
		ZentaoPassword: getEnvString("ZENTAO_PASSWORD", "admin"),
		ZentaoAPIVer:   getEnvString("ZENTAO_API_VERSION", "v1"),
		TokenTTL:       getEnvDurationMs("CACHE_DURATION_MS", 300000),

		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 30000),

		ImageBedURL:    getEnvString("IMAGE_BED_URL", ""),
		ImageBedAuth:   getEnvString("IMAGE_BED_AUTH", ""),
		ImageBedFolder: getEnvString("IMAGE_BED_FOLDER", DefaultUploadFolder),

		ImageFetchTimeout:  getEnvDurationMs("IMAGE_FETCH_TIMEOUT_MS", 10000),
		ImageUploadTimeout: getEnvDurationMs("IMAGE_UPLOAD_TIMEOUT_MS", 30000),
		FetchConcurrency:   getEnvInt("IMAGE_FETCH_CONCURRENCY", DefaultFetchConcurrency),
		ImageCacheMaxItems: getEnvInt("IMAGE_CACHE_MAX_ITEMS", DefaultImageCacheItems),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
