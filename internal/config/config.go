// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPort is used when neither the config file nor PORT sets one.
const DefaultPort = 8080

// Config represents the settings that can be loaded from a JSON file or the environment.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	Model       string `json:"model,omitempty"`        // Overrides the standard-tier model
	Port        int    `json:"port,omitempty"`         // HTTP listen port

	// PDF export
	ChromePath      string `json:"chrome_path,omitempty"`
	ExportBucket    string `json:"export_bucket,omitempty"`
	ExportEndpoint  string `json:"export_endpoint,omitempty"`
	ExportRegion    string `json:"export_region,omitempty"`
	ExportAccessKey string `json:"export_access_key,omitempty"`
	ExportSecretKey string `json:"export_secret_key,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads the configuration from environment variables. Unset variables leave
// fields empty; a malformed PORT is reported.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		APIKey:          os.Getenv("GEMINI_API_KEY"),
		Model:           os.Getenv("GEMINI_MODEL"),
		ChromePath:      os.Getenv("CHROME_PATH"),
		ExportBucket:    os.Getenv("EXPORT_BUCKET"),
		ExportEndpoint:  os.Getenv("EXPORT_ENDPOINT"),
		ExportRegion:    os.Getenv("EXPORT_REGION"),
		ExportAccessKey: os.Getenv("EXPORT_ACCESS_KEY"),
		ExportSecretKey: os.Getenv("EXPORT_SECRET_KEY"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       os.Getenv("LOG_FORMAT"),
	}

	port, err := envInt("PORT", 0)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	return cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the command being run.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch c.LogFormat {
	case "", LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("config error: 'log_format' must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, c.LogFormat)
	}

	if c.ExportBucket == "" && (c.ExportEndpoint != "" || c.ExportAccessKey != "") {
		return fmt.Errorf("config error: export storage settings given without 'export_bucket'")
	}
	if (c.ExportAccessKey == "") != (c.ExportSecretKey == "") {
		return fmt.Errorf("config error: 'export_access_key' and 'export_secret_key' must be set together")
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome binary not found: %s", c.ChromePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer the environment and config file under CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Model, defaults.Model)
	fill(&result.ChromePath, defaults.ChromePath)
	fill(&result.ExportBucket, defaults.ExportBucket)
	fill(&result.ExportEndpoint, defaults.ExportEndpoint)
	fill(&result.ExportRegion, defaults.ExportRegion)
	fill(&result.ExportAccessKey, defaults.ExportAccessKey)
	fill(&result.ExportSecretKey, defaults.ExportSecretKey)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFormat, defaults.LogFormat)

	if result.Port == 0 {
		if defaults.Port > 0 {
			result.Port = defaults.Port
		} else {
			result.Port = DefaultPort
		}
	}

	return result
}
