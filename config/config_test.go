package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("API_URL", "http://backend:3000/")
	t.Setenv("API_TOKEN", "abc")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.URL != "http://backend:3000" {
		t.Errorf("API.URL = %q, trailing slash should be trimmed", cfg.API.URL)
	}
	if cfg.Server.Port != "8080" || cfg.Messages.DefaultPageSize != 10 || cfg.Messages.ViewTTL != 30*time.Minute {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled without REDIS_ADDR")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing api url", map[string]string{"API_URL": "", "API_TOKEN": "abc"}},
		{"no credentials", map[string]string{"API_URL": "http://backend", "API_TOKEN": "", "API_SECRET": ""}},
		{"bad page size", map[string]string{"API_URL": "http://backend", "API_TOKEN": "abc", "ITEMS_PER_PAGE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}
