package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"namidia/internal/cache"
	"namidia/internal/external"
	"namidia/internal/messaging"
	"namidia/internal/ratelimit"
	"namidia/internal/supabase"
)

// Config holds the full application configuration.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Public site URL, used in emails and OG image links
	SiteURL string

	// Admin e-mail allow-list for the back office endpoints
	AdminEmails []string

	Supabase      supabase.Config
	Email         external.EmailConfig
	Push          external.PushConfig
	NATS          messaging.Config
	Valkey        cache.Config
	Elasticsearch ElasticsearchConfig
	RateLimit     ratelimit.Config
}

// ElasticsearchConfig holds the product search index settings.
type ElasticsearchConfig struct {
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		SiteURL: getEnv("SITE_URL", "https://namidia.com.br"),

		AdminEmails: getEnvList("ADMIN_EMAILS", nil),

		Supabase: supabase.Config{
			URL:            getEnv("SUPABASE_URL", "http://localhost:54321"),
			AnonKey:        getEnv("SUPABASE_ANON_KEY", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			Timeout:        time.Duration(getEnvInt("SUPABASE_TIMEOUT_SEC", 30)) * time.Second,
		},

		Email: external.EmailConfig{
			BaseURL: getEnv("EMAIL_API_URL", "https://api.resend.com"),
			APIKey:  getEnv("EMAIL_API_KEY", ""),
			From:    getEnv("EMAIL_FROM", "Na Mídia <pedidos@namidia.com.br>"),
			Timeout: time.Duration(getEnvInt("EMAIL_TIMEOUT_SEC", 15)) * time.Second,
		},

		Push: external.PushConfig{
			BaseURL: getEnv("PUSH_API_URL", "https://onesignal.com/api/v1"),
			AppID:   getEnv("PUSH_APP_ID", ""),
			RESTKey: getEnv("PUSH_REST_KEY", ""),
			Timeout: time.Duration(getEnvInt("PUSH_TIMEOUT_SEC", 15)) * time.Second,
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "namidia"),
			ClientID:  getEnv("NATS_CLIENT_ID", "namidia-api"),
		},

		Valkey: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			TTL:      time.Duration(getEnvInt("VALKEY_TTL_SEC", 60)) * time.Second,
		},

		Elasticsearch: ElasticsearchConfig{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "delivery_products"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		RateLimit: ratelimit.Config{
			MaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 10),
			Window:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 60000)) * time.Millisecond,
		},
	}
}

// getEnv returns an environment variable or the given default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or the given default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvList parses a comma-separated environment variable.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
