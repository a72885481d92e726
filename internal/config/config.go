package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL      string
	DBAutoMigrate    bool
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	RedisURL         string
	EventTopicPrefix string

	Storage StorageConfig
	Casdoor CasdoorConfig
	Kafka   KafkaConfig
}

// StorageConfig points at an S3-compatible bucket. For Google Cloud Storage the
// endpoint is the XML interoperability API and the keys are HMAC keys.
type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
	ProjectID       string
}

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// Enabled reports whether bearer-token auth should guard the API.
func (c CasdoorConfig) Enabled() bool {
	return c.Endpoint != ""
}

type KafkaConfig struct {
	Brokers []string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	req := func(keys ...string) string {
		for _, key := range keys {
			if v := strings.TrimSpace(os.Getenv(key)); v != "" {
				return v
			}
		}
		missing = append(missing, keys[0])
		return ""
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:      req("DATABASE_URL"),
		DBAutoMigrate:    getEnvBool("DB_AUTO_MIGRATE", false),
		DBMaxOpenConns:   getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   getEnvInt("DB_MAX_IDLE_CONNS", 5),
		RedisURL:         getEnv("REDIS_URL", ""),
		EventTopicPrefix: getEnv("EVENT_TOPIC_PREFIX", "career-portal"),
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", "https://storage.googleapis.com"),
			Region:          getEnv("STORAGE_REGION", "auto"),
			Bucket:          req("STORAGE_BUCKET", "GOOGLE_CLOUD_BUCKET_NAME"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("STORAGE_SECRET_ACCESS_KEY", ""),
			PublicBaseURL:   getEnv("STORAGE_PUBLIC_BASE_URL", ""),
			ProjectID:       getEnv("GOOGLE_CLOUD_PROJECT_ID", ""),
		},
		Casdoor: CasdoorConfig{
			Endpoint:     getEnv("CASDOOR_ENDPOINT", ""),
			ClientID:     getEnv("CASDOOR_CLIENT_ID", ""),
			ClientSecret: getEnv("CASDOOR_CLIENT_SECRET", ""),
			Cert:         strings.ReplaceAll(getEnv("CASDOOR_CERT", ""), `\n`, "\n"),
			Organization: getEnv("CASDOOR_ORGANIZATION", ""),
			Application:  getEnv("CASDOOR_APPLICATION", ""),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
