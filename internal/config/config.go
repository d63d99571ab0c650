// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configuration holds all service configuration, grouped by concern.
type Configuration struct {
	Service       ServiceConfig
	OpenAI        OpenAIConfig
	STT           STTConfig
	HubSpot       HubSpotConfig
	Store         StoreConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Principal      string
	HTTPPort       string
	MetricsPort    string
	Environment    string
	FrontendURL    string
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// OpenAIConfig holds credentials and model names for the OpenAI API.
type OpenAIConfig struct {
	APIKey       string
	ChatModel    string
	WhisperModel string
}

// STTConfig selects and tunes the speech-to-text provider.
type STTConfig struct {
	Provider string // openai, google, mock
	Language string // language hint passed to the provider
}

// HubSpotConfig holds OAuth and API settings for the CRM.
type HubSpotConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	APIKey       string // static private-app key, optional
	BaseURL      string
	AuthURL      string
	TokenURL     string
	HTTPTimeout  time.Duration
}

// StoreConfig selects the token store backend.
type StoreConfig struct {
	Backend  string // file or sqlite
	FilePath string
	DBPath   string
}

// KafkaConfig holds lead event publishing configuration.
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	TopicExtracted string
	TopicSubmitted string
	Principal      string
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel string
}

// Load reads configuration from the environment, falling back to defaults
// for anything unset or unparseable. A .env file in the working directory
// is loaded first when present.
func Load() *Configuration {
	_ = godotenv.Load()

	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-voice2crm")

	return &Configuration{
		Service: ServiceConfig{
			Principal:      principal,
			HTTPPort:       envOrDefault("HTTP_PORT", "8080"),
			MetricsPort:    envOrDefault("METRICS_PORT", "9090"),
			Environment:    envOrDefault("ENV", "prod"),
			FrontendURL:    os.Getenv("FRONTEND_URL"),
			MaxUploadBytes: envOrDefaultInt64("MAX_UPLOAD_BYTES", 25*1024*1024),
			ReadTimeout:    envOrDefaultDuration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   envOrDefaultDuration("HTTP_WRITE_TIMEOUT", 120*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:       os.Getenv("OPENAI_API_KEY"),
			ChatModel:    envOrDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			WhisperModel: envOrDefault("OPENAI_WHISPER_MODEL", "whisper-1"),
		},
		STT: STTConfig{
			Provider: envOrDefault("STT_PROVIDER", "openai"),
			Language: envOrDefault("STT_LANGUAGE", "fr"),
		},
		HubSpot: HubSpotConfig{
			ClientID:     os.Getenv("HUBSPOT_CLIENT_ID"),
			ClientSecret: os.Getenv("HUBSPOT_CLIENT_SECRET"),
			RedirectURI:  os.Getenv("HUBSPOT_REDIRECT_URI"),
			Scopes:       envOrDefaultStrings("HUBSPOT_SCOPES", []string{"crm.objects.contacts.write", "oauth"}),
			APIKey:       os.Getenv("HUBSPOT_API_KEY"),
			BaseURL:      envOrDefault("HUBSPOT_BASE_URL", "https://api.hubapi.com"),
			AuthURL:      envOrDefault("HUBSPOT_AUTH_URL", "https://app.hubspot.com/oauth/authorize"),
			TokenURL:     envOrDefault("HUBSPOT_TOKEN_URL", "https://api.hubapi.com/oauth/v1/token"),
			HTTPTimeout:  envOrDefaultDuration("HUBSPOT_HTTP_TIMEOUT", 15*time.Second),
		},
		Store: StoreConfig{
			Backend:  envOrDefault("TOKEN_STORE", "file"),
			FilePath: envOrDefault("TOKEN_FILE", "tokens.json"),
			DBPath:   envOrDefault("TOKEN_DB_PATH", "tokens.db"),
		},
		Kafka: KafkaConfig{
			Enabled:        envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:        envOrDefaultStrings("KAFKA_BROKERS", nil),
			TopicExtracted: envOrDefault("KAFKA_TOPIC_EXTRACTED", "lead.extracted"),
			TopicSubmitted: envOrDefault("KAFKA_TOPIC_SUBMITTED", "lead.submitted"),
			Principal:      envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel: envOrDefault("LOG_LEVEL", "info"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envOrDefaultStrings(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
