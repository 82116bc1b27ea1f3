package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "veloxide", cfg.Service.Name)
	assert.Equal(t, "json", cfg.Service.PayloadEncoding)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	content := `
version: "1"
service:
  name: bank
  log_level: debug
  payload_encoding: msgpack
database:
  driver: postgres
  url: postgres://localhost:5432/bank
  schema: bank_events
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  topic: bank-events
tracing:
  enabled: true
  stdout: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "bank", cfg.Service.Name)
	assert.Equal(t, "debug", cfg.Service.LogLevel)
	assert.Equal(t, "msgpack", cfg.Service.PayloadEncoding)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "bank_events", cfg.Database.Schema)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Tracing.Stdout)
	assert.Empty(t, cfg.Validate())
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := DefaultConfig()
	cfg.Service.Name = "bank"
	cfg.SNS.Enabled = true
	cfg.SNS.TopicARN = "arn:aws:sns:eu-west-1:123456789012:bank-events"
	require.NoError(t, cfg.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		problem string
	}{
		{"missing service name", func(c *Config) { c.Service.Name = "" }, "service.name"},
		{"unknown payload encoding", func(c *Config) { c.Service.PayloadEncoding = "xml" }, "service.payload_encoding"},
		{"postgres without url", func(c *Config) { c.Database.Driver = "postgres" }, "database.url"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, "database.driver"},
		{"kafka without topic", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Topic = "" }, "kafka.topic"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }, "kafka.brokers"},
		{"sns without arn", func(c *Config) { c.SNS.Enabled = true }, "sns.topic_arn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			problems := cfg.Validate()
			require.NotEmpty(t, problems)

			found := false
			for _, p := range problems {
				if strings.Contains(p, tt.problem) {
					found = true
				}
			}
			assert.True(t, found, "expected a problem mentioning %q, got %v", tt.problem, problems)
		})
	}
}
