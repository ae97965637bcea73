// internal/common/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_DemoFallback(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.True(t, cfg.Demo.Enabled, "no configured source must fall back to demo")
	assert.Equal(t, "JOB-2024-001", cfg.Demo.JobID)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 15000, cfg.API.Timeout)
}

func TestApplyDefaults_ConfiguredSourceSkipsDemo(t *testing.T) {
	cfg := &Config{}
	cfg.API.BaseURL = "https://api.example.com"
	applyDefaults(cfg)

	assert.False(t, cfg.Demo.Enabled)
}

func TestValidateConfig_SessionStore(t *testing.T) {
	tests := []struct {
		name    string
		store   string
		address string
		wantErr bool
	}{
		{name: "memory needs nothing", store: "memory"},
		{name: "empty defaults fine", store: ""},
		{name: "redis without address fails", store: "redis", wantErr: true},
		{name: "redis with address passes", store: "redis", address: "localhost:6379"},
		{name: "unknown store fails", store: "etcd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Session.Store = tt.store
			cfg.Session.Redis.Address = tt.address

			err := validateConfig(cfg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSupabaseConfig_RealtimeURL(t *testing.T) {
	cfg := SupabaseConfig{URL: "https://xyz.supabase.co", AnonKey: "anon"}
	assert.True(t, cfg.Configured())
	assert.Equal(t, "wss://xyz.supabase.co/realtime/v1/websocket", cfg.RealtimeURL())
}
