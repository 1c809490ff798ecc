package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvConfig holds process settings read from the environment.
type EnvConfig struct {
	// http config
	APP_PORT        string
	BASE_URL        string
	REQUEST_TIMEOUT time.Duration
	// storage config
	UPLOAD_FOLDER      string
	FILE_MAX_LIFETIME  time.Duration
	CLEAN_INTERVAL     time.Duration
	REPORT_CONFIG_PATH string
	// logger config
	LOG_FILE_PATH string
}

// LoadEnvConfig reads an optional .env file and the process environment.
func LoadEnvConfig(files ...string) (*EnvConfig, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &EnvConfig{
		APP_PORT:           getEnvString("APP_PORT", "8080"),
		BASE_URL:           getEnvString("BASE_URL", "http://localhost:8080"),
		REQUEST_TIMEOUT:    getEnvDuration("REQUEST_TIMEOUT", 2*time.Minute),
		UPLOAD_FOLDER:      getEnvString("UPLOAD_FOLDER", "uploads"),
		FILE_MAX_LIFETIME:  getEnvDuration("FILE_MAX_LIFETIME", time.Hour),
		CLEAN_INTERVAL:     getEnvDuration("CLEAN_INTERVAL", 10*time.Minute),
		REPORT_CONFIG_PATH: getEnvString("REPORT_CONFIG_PATH", "report_config.yaml"),
		LOG_FILE_PATH:      getEnvString("LOG_FILE_PATH", ""),
	}, nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i := getEnvInt(key, -1); i >= 0 {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
