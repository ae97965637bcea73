// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Session  SessionConfig  `mapstructure:"session"`
	Demo     DemoConfig     `mapstructure:"demo"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig holds settings for the REST gateway.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// Configured reports whether the REST gateway can be used at all.
func (a APIConfig) Configured() bool {
	return a.BaseURL != ""
}

// SupabaseConfig holds settings for the hosted backend.
type SupabaseConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

// Configured reports whether the hosted backend can be used at all.
func (s SupabaseConfig) Configured() bool {
	return s.URL != "" && s.AnonKey != ""
}

// RealtimeURL derives the websocket endpoint from the project URL.
func (s SupabaseConfig) RealtimeURL() string {
	if s.URL == "" {
		return ""
	}
	url := s.URL
	switch {
	case len(url) > 8 && url[:8] == "https://":
		url = "wss://" + url[8:]
	case len(url) > 7 && url[:7] == "http://":
		url = "ws://" + url[7:]
	}
	return url + "/realtime/v1/websocket"
}

// SessionConfig holds settings for session persistence.
type SessionConfig struct {
	Store string      `mapstructure:"store"` // "redis" or "memory"
	Redis RedisConfig `mapstructure:"redis"`
	TTL   int         `mapstructure:"ttl"` // seconds, 0 disables expiry
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DemoConfig controls the built-in demo data source.
type DemoConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	JobID   string `mapstructure:"job_id"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

func validateConfig(cfg *Config) error {
	switch cfg.Session.Store {
	case "", "memory":
	case "redis":
		if cfg.Session.Redis.Address == "" {
			return fmt.Errorf("session.redis.address is required when session.store is redis")
		}
	default:
		return fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "elite-customer"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 15000
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}
	// Demo fixtures are the fallback source, not an error state.
	if !cfg.API.Configured() && !cfg.Supabase.Configured() {
		cfg.Demo.Enabled = true
	}
	if cfg.Demo.JobID == "" {
		cfg.Demo.JobID = "JOB-2024-001"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}
}
