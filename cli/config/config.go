// Package config provides configuration loading for the veloxide CLI.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the default config file name.
const ConfigFileName = "veloxide.yaml"

// Config is the veloxide CLI configuration.
type Config struct {
	Version string `yaml:"version"`

	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	SNS      SNSConfig      `yaml:"sns"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// ServiceConfig contains service-level settings.
type ServiceConfig struct {
	// Name labels metrics and trace spans.
	Name string `yaml:"name"`

	// LogLevel: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// PayloadEncoding selects the event payload codec (json, msgpack).
	PayloadEncoding string `yaml:"payload_encoding"`
}

// DatabaseConfig contains event store backend settings.
type DatabaseConfig struct {
	// Driver is the storage backend (postgres, memory).
	Driver string `yaml:"driver"`

	// URL is the connection string, postgres only.
	URL string `yaml:"url,omitempty"`

	// Schema is the database schema, postgres only.
	Schema string `yaml:"schema"`
}

// KafkaConfig configures the optional Kafka event publisher.
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// SNSConfig configures the optional SNS event publisher.
type SNSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	TopicARN string `yaml:"topic_arn"`
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Stdout exports spans to stdout instead of a collector.
	Stdout bool `yaml:"stdout"`
}

// DefaultConfig returns the configuration used when no file is present:
// in-memory storage, info logging, publishers and tracing off.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Service: ServiceConfig{
			Name:            "veloxide",
			LogLevel:        "info",
			PayloadEncoding: "json",
		},
		Database: DatabaseConfig{
			Driver: "memory",
			Schema: "veloxide",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "veloxide-events",
		},
	}
}

// Load loads configuration from the specified directory, falling back to
// defaults when no config file exists.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveFile writes the configuration to a specific file path.
func (c *Config) SaveFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate returns a list of problems with the configuration.
func (c *Config) Validate() []string {
	var problems []string

	if c.Service.Name == "" {
		problems = append(problems, "service.name is required")
	}

	switch c.Service.PayloadEncoding {
	case "json", "msgpack", "":
	default:
		problems = append(problems, "service.payload_encoding must be 'json' or 'msgpack'")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			problems = append(problems, "database.url is required for the postgres driver")
		}
	case "memory":
	case "":
		problems = append(problems, "database.driver is required")
	default:
		problems = append(problems, "database.driver must be 'postgres' or 'memory'")
	}

	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			problems = append(problems, "kafka.brokers is required when kafka is enabled")
		}
		if c.Kafka.Topic == "" {
			problems = append(problems, "kafka.topic is required when kafka is enabled")
		}
	}

	if c.SNS.Enabled && c.SNS.TopicARN == "" {
		problems = append(problems, "sns.topic_arn is required when sns is enabled")
	}

	return problems
}
