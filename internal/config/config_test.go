package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/career")
	t.Setenv("STORAGE_BUCKET", "resumes")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "https://storage.googleapis.com", cfg.Storage.Endpoint)
	assert.Equal(t, "resumes", cfg.Storage.Bucket)
	assert.Equal(t, "career-portal", cfg.EventTopicPrefix)
	assert.False(t, cfg.Casdoor.Enabled())
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadConfig_BucketFallbackAndLists(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/career")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("GOOGLE_CLOUD_BUCKET_NAME", "legacy-bucket")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CASDOOR_ENDPOINT", "https://auth.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "legacy-bucket", cfg.Storage.Bucket)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.Casdoor.Enabled())
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("GOOGLE_CLOUD_BUCKET_NAME", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "STORAGE_BUCKET")
}
