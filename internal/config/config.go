package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults reads the configuration file, applies defaults and validates it.
// An empty path yields the default configuration.
func LoadWithDefaults(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults sets default values for unset fields
func ApplyDefaults(cfg *Config) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.PanelURL == "" {
		cfg.PanelURL = DefaultPanelURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Protocol == "" {
		cfg.Protocol = DefaultProtocol
	}
	if cfg.ServerSelection == "" {
		cfg.ServerSelection = DefaultServerSelection
	}
	if cfg.Project == "" {
		cfg.Project = DefaultProject
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.FTPTimeout == 0 {
		cfg.FTPTimeout = DefaultFTPTimeout
	}
	if cfg.Cache != nil && cfg.Cache.Enabled {
		if cfg.Cache.TTL == 0 {
			cfg.Cache.TTL = DefaultCacheTTL
		}
		if cfg.Cache.Size == 0 {
			cfg.Cache.Size = DefaultCacheSize
		}
	}
}

// Validate checks the configuration for errors.
// The API key is not checked here, callers may supply it from the environment.
func Validate(cfg *Config) error {
	if cfg.Endpoint == "" {
		return errors.New("endpoint is required")
	}

	if cfg.Protocol != ProtocolFTP && cfg.Protocol != ProtocolHTTP {
		return fmt.Errorf("protocol must be 'ftp' or 'http', got '%s'", cfg.Protocol)
	}

	validSelections := map[string]bool{
		"lowest-load": true,
		"random":      true,
		"round-robin": true,
	}
	if !validSelections[cfg.ServerSelection] {
		return fmt.Errorf("serverSelection must be one of: lowest-load, random, round-robin")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("logLevel must be one of: debug, info, warn, error")
	}

	if cfg.ConnectTimeout < 0 {
		return fmt.Errorf("connectTimeout must be non-negative")
	}

	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("requestTimeout must be non-negative")
	}

	if cfg.FTPTimeout < 0 {
		return fmt.Errorf("ftpTimeout must be non-negative")
	}

	if cfg.IsCacheEnabled() {
		if cfg.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled")
		}
		if cfg.Cache.Size <= 0 {
			return fmt.Errorf("cache.size must be positive when cache is enabled")
		}
	}

	return nil
}
