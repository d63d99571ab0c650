package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	envVars := []string{
		"SERVICE_PRINCIPAL", "HTTP_PORT", "METRICS_PORT", "ENV", "LOG_LEVEL",
		"STT_PROVIDER", "STT_LANGUAGE", "MAX_UPLOAD_BYTES",
		"OPENAI_CHAT_MODEL", "OPENAI_WHISPER_MODEL",
		"HUBSPOT_BASE_URL", "HUBSPOT_SCOPES", "HUBSPOT_HTTP_TIMEOUT",
		"TOKEN_STORE", "TOKEN_FILE", "KAFKA_ENABLED", "KAFKA_PRINCIPAL",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}

	cfg := Load()

	if cfg.Service.Principal != "svc-voice2crm" {
		t.Errorf("expected default principal 'svc-voice2crm', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.MaxUploadBytes != 25*1024*1024 {
		t.Errorf("expected default max upload 25MB, got %d", cfg.Service.MaxUploadBytes)
	}
	if cfg.STT.Provider != "openai" {
		t.Errorf("expected default STT provider 'openai', got %s", cfg.STT.Provider)
	}
	if cfg.STT.Language != "fr" {
		t.Errorf("expected default language 'fr', got %s", cfg.STT.Language)
	}
	if cfg.OpenAI.WhisperModel != "whisper-1" {
		t.Errorf("expected default whisper model 'whisper-1', got %s", cfg.OpenAI.WhisperModel)
	}
	if cfg.HubSpot.BaseURL != "https://api.hubapi.com" {
		t.Errorf("expected default HubSpot base URL, got %s", cfg.HubSpot.BaseURL)
	}
	if cfg.HubSpot.HTTPTimeout != 15*time.Second {
		t.Errorf("expected default HubSpot timeout 15s, got %v", cfg.HubSpot.HTTPTimeout)
	}
	if len(cfg.HubSpot.Scopes) != 2 {
		t.Errorf("expected 2 default scopes, got %v", cfg.HubSpot.Scopes)
	}
	if cfg.Store.Backend != "file" {
		t.Errorf("expected default store backend 'file', got %s", cfg.Store.Backend)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	os.Setenv("HTTP_PORT", "9999")
	os.Setenv("STT_PROVIDER", "google")
	os.Setenv("STT_LANGUAGE", "en-US")
	os.Setenv("MAX_UPLOAD_BYTES", "1048576")
	os.Setenv("HUBSPOT_SCOPES", "crm.objects.contacts.write, crm.objects.contacts.read ,oauth")
	os.Setenv("HUBSPOT_HTTP_TIMEOUT", "30s")
	os.Setenv("TOKEN_STORE", "sqlite")
	os.Setenv("KAFKA_ENABLED", "true")
	os.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	defer func() {
		for _, v := range []string{
			"SERVICE_PRINCIPAL", "HTTP_PORT", "STT_PROVIDER", "STT_LANGUAGE",
			"MAX_UPLOAD_BYTES", "HUBSPOT_SCOPES", "HUBSPOT_HTTP_TIMEOUT",
			"TOKEN_STORE", "KAFKA_ENABLED", "KAFKA_BROKERS",
		} {
			os.Unsetenv(v)
		}
	}()

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.STT.Provider != "google" {
		t.Errorf("expected STT provider 'google', got %s", cfg.STT.Provider)
	}
	if cfg.Service.MaxUploadBytes != 1048576 {
		t.Errorf("expected max upload 1048576, got %d", cfg.Service.MaxUploadBytes)
	}
	if len(cfg.HubSpot.Scopes) != 3 {
		t.Errorf("expected 3 scopes, got %v", cfg.HubSpot.Scopes)
	}
	if cfg.HubSpot.Scopes[1] != "crm.objects.contacts.read" {
		t.Errorf("expected trimmed scope, got %q", cfg.HubSpot.Scopes[1])
	}
	if cfg.HubSpot.HTTPTimeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.HubSpot.HTTPTimeout)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected store backend 'sqlite', got %s", cfg.Store.Backend)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoad_InvalidValues_FallbackToDefaults(t *testing.T) {
	os.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	os.Setenv("HUBSPOT_HTTP_TIMEOUT", "invalid")
	os.Setenv("KAFKA_ENABLED", "invalid")

	defer func() {
		os.Unsetenv("MAX_UPLOAD_BYTES")
		os.Unsetenv("HUBSPOT_HTTP_TIMEOUT")
		os.Unsetenv("KAFKA_ENABLED")
	}()

	cfg := Load()

	if cfg.Service.MaxUploadBytes != 25*1024*1024 {
		t.Errorf("expected default max upload on invalid input, got %d", cfg.Service.MaxUploadBytes)
	}
	if cfg.HubSpot.HTTPTimeout != 15*time.Second {
		t.Errorf("expected default timeout on invalid input, got %v", cfg.HubSpot.HTTPTimeout)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled on invalid input")
	}
}

func TestLoad_KafkaPrincipal_FallsBackToServicePrincipal(t *testing.T) {
	os.Setenv("SERVICE_PRINCIPAL", "my-service")
	os.Unsetenv("KAFKA_PRINCIPAL")

	defer os.Unsetenv("SERVICE_PRINCIPAL")

	cfg := Load()

	if cfg.Kafka.Principal != "my-service" {
		t.Errorf("expected Kafka principal to fall back to service principal, got %s", cfg.Kafka.Principal)
	}
}

func TestEnvOrDefaultBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      bool
		expected bool
	}{
		{"true string", "true", false, true},
		{"false string", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"TRUE uppercase", "TRUE", false, true},
		{"invalid", "invalid", true, true},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.envValue != "" {
				os.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}
			defer os.Unsetenv(key)

			got := envOrDefaultBool(key, tt.def)
			if got != tt.expected {
				t.Errorf("envOrDefaultBool(%s, %v) = %v, want %v", tt.envValue, tt.def, got, tt.expected)
			}
		})
	}
}
