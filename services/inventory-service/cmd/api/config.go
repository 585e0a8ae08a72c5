package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/application"
	"github.com/oreocakepoop/tmd-emirates-fuel/services/inventory-service/internal/infrastructure/firestore"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/kafka"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/mongodb"
	"github.com/oreocakepoop/tmd-emirates-fuel/shared/pkg/tracing"
)

// Store drivers
const (
	DriverMemory    = "memory"
	DriverMongoDB   = "mongodb"
	DriverFirestore = "firestore"
)

// Config holds the service configuration
type Config struct {
	ServerAddr   string                   `yaml:"serverAddr"`
	LogLevel     string                   `yaml:"logLevel"`
	Environment  string                   `yaml:"environment"`
	StationID    string                   `yaml:"stationId"`
	StoreDriver  string                   `yaml:"storeDriver"`
	MongoDB      *mongodb.Config          `yaml:"mongodb"`
	Firestore    firestore.Config         `yaml:"firestore"`
	KafkaEnabled bool                     `yaml:"kafkaEnabled"`
	Kafka        *kafka.Config            `yaml:"kafka"`
	Tracing      *tracing.Config          `yaml:"tracing"`
	Ledger       application.LedgerConfig `yaml:"ledger"`
}

func defaultConfig() *Config {
	kafkaConfig := kafka.DefaultConfig()
	kafkaConfig.ClientID = serviceName

	return &Config{
		ServerAddr:  ":8008",
		LogLevel:    "info",
		Environment: "development",
		StationID:   "station-001",
		StoreDriver: DriverMemory,
		MongoDB:     mongodb.DefaultConfig(),
		Kafka:       kafkaConfig,
		Tracing:     tracing.DefaultConfig(serviceName),
		Ledger:      application.DefaultLedgerConfig(),
	}
}

// loadConfig reads the optional YAML file at path over the defaults, then
// applies environment overrides
func loadConfig(path string, getenv func(string) string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := config.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	setString("SERVER_ADDR", &c.ServerAddr)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("ENVIRONMENT", &c.Environment)
	setString("STATION_ID", &c.StationID)
	setString("STORE_DRIVER", &c.StoreDriver)
	setString("MONGODB_URI", &c.MongoDB.URI)
	setString("MONGODB_DATABASE", &c.MongoDB.Database)
	setString("FIRESTORE_PROJECT_ID", &c.Firestore.ProjectID)
	setString("FIRESTORE_CREDENTIALS_FILE", &c.Firestore.CredentialsFile)
	setString("OTEL_EXPORTER_OTLP_ENDPOINT", &c.Tracing.OTLPEndpoint)

	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}

	for key, dst := range map[string]*bool{
		"KAFKA_ENABLED":   &c.KafkaEnabled,
		"TRACING_ENABLED": &c.Tracing.Enabled,
	} {
		if v := getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v := getenv("LEDGER_MAX_WRITE_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEDGER_MAX_WRITE_ATTEMPTS: %w", err)
		}
		c.Ledger.MaxWriteAttempts = n
	}

	c.Tracing.Environment = c.Environment
	return nil
}

// Validate checks the settings the selected store driver needs
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverMongoDB:
		if c.MongoDB.URI == "" || c.MongoDB.Database == "" {
			return fmt.Errorf("store driver %s requires MONGODB_URI and MONGODB_DATABASE", c.StoreDriver)
		}
	case DriverFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("store driver %s requires FIRESTORE_PROJECT_ID", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.KafkaEnabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka is enabled but no brokers are configured")
	}
	if c.Ledger.MaxWriteAttempts < 1 {
		return fmt.Errorf("ledger max write attempts must be at least 1, got %d", c.Ledger.MaxWriteAttempts)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
