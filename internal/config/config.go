package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultDirectoryTimeout = 2 * time.Minute
	defaultMaxUploadBytes   = 10 << 20
)

type Config struct {
	DirectoryBaseURL  string
	DirectoryAPIToken string
	DirectoryTimeout  time.Duration
	HTTPAddr          string
	MetricsAddr       string
	MaxUploadBytes    int64
}

type LoadOptions struct {
	RequireDirectory bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDirectory: true})
}

func LoadOptionalDirectory() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDirectory: false})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		DirectoryBaseURL:  strings.TrimSpace(os.Getenv("DIRECTORY_BASE_URL")),
		DirectoryAPIToken: strings.TrimSpace(os.Getenv("DIRECTORY_API_TOKEN")),
		DirectoryTimeout:  defaultDirectoryTimeout,
		HTTPAddr:          getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:       getenvDefault("METRICS_ADDR", ""),
		MaxUploadBytes:    defaultMaxUploadBytes,
	}

	if v := os.Getenv("DIRECTORY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.DirectoryTimeout = d
		}
	}

	if opts.RequireDirectory {
		if cfg.DirectoryBaseURL == "" {
			return cfg, errors.New("DIRECTORY_BASE_URL is required")
		}
		if cfg.DirectoryAPIToken == "" {
			return cfg, errors.New("DIRECTORY_API_TOKEN is required")
		}
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
