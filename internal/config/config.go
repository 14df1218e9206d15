// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Upstream UpstreamConfig
	Assets   AssetsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// UpstreamConfig holds the source endpoints the pipeline consumes.
type UpstreamConfig struct {
	// AnalysisEndpoint serves the garment record array (or lambda envelope).
	AnalysisEndpoint string
	// FolderMapEndpoint serves the brand/season -> storage folder mapping.
	FolderMapEndpoint string
	// FetchTimeout bounds a single upstream request (default: 30s).
	FetchTimeout time.Duration
	// RefreshInterval drives the periodic background refetch; zero disables it.
	RefreshInterval time.Duration
}

// AssetsConfig holds the externally stored runway image location.
type AssetsConfig struct {
	Bucket string // S3 bucket holding runway photography (default: runwayimages)
	Region string // AWS region in the public URL (default: eu-west-2)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	analysisEndpoint := flag.String("analysis-endpoint", "", "URL of the garment analysis source")
	folderMapEndpoint := flag.String("folder-map-endpoint", "", "URL of the storage folder mapping source")
	fetchTimeout := flag.String("fetch-timeout", "", "Upstream fetch timeout (default: 30s)")
	refreshInterval := flag.String("refresh-interval", "", "Background refresh interval, 0 to disable (default: 15m)")

	assetsBucket := flag.String("assets-bucket", "", "S3 bucket holding runway images (default: runwayimages)")
	assetsRegion := flag.String("assets-region", "", "AWS region of the image bucket (default: eu-west-2)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Upstream: UpstreamConfig{
			AnalysisEndpoint:  getConfigValue(*analysisEndpoint, "ANALYSIS_ENDPOINT", ""),
			FolderMapEndpoint: getConfigValue(*folderMapEndpoint, "FOLDER_MAP_ENDPOINT", ""),
		},
		Assets: AssetsConfig{
			Bucket: getConfigValue(*assetsBucket, "ASSETS_BUCKET", "runwayimages"),
			Region: getConfigValue(*assetsRegion, "ASSETS_REGION", "eu-west-2"),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, err
	}
	if cfg.Upstream.FetchTimeout, err = parseDurationValue(*fetchTimeout, "FETCH_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.Upstream.RefreshInterval, err = parseDurationValue(*refreshInterval, "REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Upstream.AnalysisEndpoint == "" {
		return errors.New("ANALYSIS_ENDPOINT is required")
	}
	if err := validateURL(c.Upstream.AnalysisEndpoint); err != nil {
		return fmt.Errorf("invalid analysis endpoint: %w", err)
	}

	// The folder map endpoint is optional: without it resolution runs on
	// the synthesized fallback rule alone.
	if c.Upstream.FolderMapEndpoint != "" {
		if err := validateURL(c.Upstream.FolderMapEndpoint); err != nil {
			return fmt.Errorf("invalid folder map endpoint: %w", err)
		}
	}

	if c.Assets.Bucket == "" {
		return errors.New("ASSETS_BUCKET cannot be empty")
	}
	if c.Assets.Region == "" {
		return errors.New("ASSETS_REGION cannot be empty")
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	raw := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), raw, err)
	}
	return d, nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Existing environment variables win over the .env file.
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}
