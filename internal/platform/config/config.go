// Package config builds process configuration from environment variables so
// main stays lean. Defaults target the production SERPRO endpoints; tests and
// local runs override the URLs.
package config

import (
	"os"
	"strings"
	"time"
)

// Defaults for the SERPRO Integra Contador deployment.
const (
	DefaultAuthURL        = "https://autenticacao.sapi.serpro.gov.br/authenticate"
	DefaultGatewayBaseURL = "https://gateway.apiserpro.serpro.gov.br/integra-contador/v1"
	DefaultSystemID       = "PGDASD"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string

	// AccessSecret guards /api and /config when non-empty. Empty disables
	// the check (deployment-level access control, not core protocol).
	AccessSecret string
}

// Provider captures everything needed to talk to SERPRO.
type Provider struct {
	AuthURL        string
	GatewayBaseURL string
	CertFile       string
	KeyFile        string

	// SystemID is the default idSistema when the caller omits it.
	SystemID string
}

// Store selects the backing store for provider account credentials.
type Store struct {
	// FilePath is the JSON blob location used when DatabaseURL is empty.
	FilePath string

	// DatabaseURL switches the account store to Postgres when set.
	DatabaseURL string
}

// Redis captures connection settings for the optional credential cache.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Audit captures the optional Kafka audit sink.
type Audit struct {
	Brokers []string
	Topic   string
}

// Token captures credential caching behavior.
type Token struct {
	// CacheTTL bounds cache entries when the access token carries no
	// readable expiry. Zero disables caching entirely, preserving the
	// authenticate-every-call behavior of the original deployment.
	CacheTTL time.Duration
}

// Config is the full process configuration.
type Config struct {
	Server   Server
	Provider Provider
	Store    Store
	Redis    Redis
	Audit    Audit
	Token    Token
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		Server: Server{
			Addr:         envOr("ICBRIDGE_ADDR", ":8080"),
			AccessSecret: os.Getenv("ICBRIDGE_ACCESS_SECRET"),
		},
		Provider: Provider{
			AuthURL:        envOr("SERPRO_AUTH_URL", DefaultAuthURL),
			GatewayBaseURL: envOr("SERPRO_GATEWAY_URL", DefaultGatewayBaseURL),
			CertFile:       envOr("SERPRO_CERT_FILE", "certificado.crt"),
			KeyFile:        envOr("SERPRO_KEY_FILE", "chave.key"),
			SystemID:       envOr("SERPRO_SYSTEM_ID", DefaultSystemID),
		},
		Store: Store{
			FilePath:    envOr("ICBRIDGE_CONFIG_FILE", "config.json"),
			DatabaseURL: os.Getenv("ICBRIDGE_DATABASE_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("ICBRIDGE_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Audit: Audit{
			Topic: envOr("ICBRIDGE_AUDIT_TOPIC", "icbridge.operations"),
		},
	}

	if brokers := os.Getenv("ICBRIDGE_KAFKA_BROKERS"); brokers != "" {
		cfg.Audit.Brokers = strings.Split(brokers, ",")
	}

	if ttl, err := time.ParseDuration(os.Getenv("ICBRIDGE_TOKEN_CACHE_TTL")); err == nil {
		cfg.Token.CacheTTL = ttl
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
