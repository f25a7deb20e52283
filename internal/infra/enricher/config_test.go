package enricher

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Provider != ProviderDeepSeek {
		t.Errorf("Provider = %q, want deepseek", cfg.Provider)
	}
	if cfg.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Model != "deepseek-chat" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.MaxTokens != 600 {
		t.Errorf("MaxTokens = %d, want 600", cfg.MaxTokens)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MinInterval != 500*time.Millisecond {
		t.Errorf("MinInterval = %v, want 500ms", cfg.MinInterval)
	}
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("ENRICHER_TYPE", "claude")
	t.Setenv("ENRICHMENT_API_KEY", "secret")
	t.Setenv("ENRICHMENT_MODEL", "claude-sonnet-4-5")
	t.Setenv("ENRICHMENT_TIMEOUT", "30s")
	t.Setenv("ENRICHMENT_MIN_INTERVAL", "250ms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Provider != ProviderClaude {
		t.Errorf("Provider = %q, want claude", cfg.Provider)
	}
	if cfg.BaseURL != "" {
		t.Errorf("BaseURL = %q, claude must not inherit the deepseek endpoint", cfg.BaseURL)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MinInterval != 250*time.Millisecond {
		t.Errorf("MinInterval = %v, want 250ms", cfg.MinInterval)
	}
}

func TestLoadConfig_InvalidProvider(t *testing.T) {
	t.Setenv("ENRICHER_TYPE", "gemini")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() error = nil, want invalid provider error")
	}
}

func TestLoadConfig_InvalidTimeout(t *testing.T) {
	t.Setenv("ENRICHMENT_TIMEOUT", "soon")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() error = nil, want parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "none provider needs nothing else",
			cfg:     Config{Provider: ProviderNone},
			wantErr: false,
		},
		{
			name:    "missing model",
			cfg:     Config{Provider: ProviderDeepSeek, MaxTokens: 600, Timeout: time.Minute},
			wantErr: true,
		},
		{
			name:    "zero max tokens",
			cfg:     Config{Provider: ProviderDeepSeek, Model: "deepseek-chat", Timeout: time.Minute},
			wantErr: true,
		},
		{
			name:    "negative min interval",
			cfg:     Config{Provider: ProviderDeepSeek, Model: "deepseek-chat", MaxTokens: 600, Timeout: time.Minute, MinInterval: -time.Second},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
