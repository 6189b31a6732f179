package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration for the API server. Values
// come from SOUZOKU_* environment variables so main stays lean.
type Server struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig

	// JWTSigningKey enables bearer-token auth on mutating routes when set.
	JWTSigningKey string

	// OpenAIAPIKey enables the LLM-backed interview agent when set; the
	// rule-based fallback is used otherwise.
	OpenAIAPIKey string
	OpenAIModel  string

	RequestTimeout time.Duration
	CacheTTL       time.Duration
}

// RedisConfig configures the optional calculation-result cache.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional audit event sink.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	cfg := Server{
		Addr:           envOr("SOUZOKU_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("SOUZOKU_DATABASE_URL"),
		JWTSigningKey:  os.Getenv("SOUZOKU_JWT_SIGNING_KEY"),
		OpenAIAPIKey:   os.Getenv("SOUZOKU_OPENAI_API_KEY"),
		OpenAIModel:    envOr("SOUZOKU_OPENAI_MODEL", "gpt-4o-mini"),
		RequestTimeout: 30 * time.Second,
		CacheTTL:       5 * time.Minute,
		Redis: RedisConfig{
			URL:          os.Getenv("SOUZOKU_REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic: envOr("SOUZOKU_KAFKA_AUDIT_TOPIC", "souzoku.audit"),
		},
	}
	if brokers := os.Getenv("SOUZOKU_KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
