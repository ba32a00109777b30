package config

import (
	"fmt"
	"os"

	"trade-relay/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// Defaults applied before validation so the YAML file only needs to name
// what differs from a sensible local setup.
const (
	defaultPriceInterval  = 1.0
	defaultTradeInterval  = 1.0
	defaultDealLookback   = 24  // hours
	defaultReplayLookback = 7   // days
	defaultHistoryCap     = 1000
	defaultHeartbeat      = 30 // seconds
)

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from a YAML file
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// Validation is the binary's call: the server runs Validate, the
	// forwarder only needs ValidateClient.
	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.Feed.PriceIntervalSeconds <= 0 {
		c.Feed.PriceIntervalSeconds = defaultPriceInterval
	}
	if c.Feed.TradeIntervalSeconds <= 0 {
		c.Feed.TradeIntervalSeconds = defaultTradeInterval
	}
	if c.Feed.DealLookbackHours <= 0 {
		c.Feed.DealLookbackHours = defaultDealLookback
	}
	if c.Feed.ReplayLookbackDays <= 0 {
		c.Feed.ReplayLookbackDays = defaultReplayLookback
	}
	if c.Feed.HistoryCap <= 0 {
		c.Feed.HistoryCap = defaultHistoryCap
	}
	if c.Provider.Kind == "" {
		c.Provider.Kind = "sim"
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "none"
	}
	if c.Client.HeartbeatSeconds <= 0 {
		c.Client.HeartbeatSeconds = defaultHeartbeat
	}
	if c.Client.Backoff.InitialSeconds <= 0 {
		c.Client.Backoff.InitialSeconds = 5
	}
	if c.Client.Backoff.Factor <= 1 {
		c.Client.Backoff.Factor = 1.5
	}
	if c.Client.Backoff.MaxSeconds <= 0 {
		c.Client.Backoff.MaxSeconds = 60
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	switch c.Provider.Kind {
	case "sim":
		if len(c.Provider.Symbols) == 0 {
			return fmt.Errorf("sim provider requires at least one symbol")
		}
	default:
		return fmt.Errorf("unknown provider kind: %s", c.Provider.Kind)
	}

	switch c.Sink.Type {
	case "none", "csv":
		// no connection settings required
	case "kafka":
		if c.Sink.Kafka.BrokerURL == "" || c.Sink.Kafka.Topic == "" {
			return fmt.Errorf("kafka sink requires broker_url and topic")
		}
	case "postgres":
		if c.Sink.Postgres.ConnectionString == "" {
			return fmt.Errorf("postgres sink requires connection_string")
		}
	case "sqlite":
		if c.Sink.SQLite.Path == "" {
			return fmt.Errorf("sqlite sink requires path")
		}
	case "redis":
		if c.Sink.Redis.Addr == "" {
			return fmt.Errorf("redis sink requires addr")
		}
	default:
		return fmt.Errorf("unknown sink type: %s", c.Sink.Type)
	}

	if c.Client.Backoff.MaxSeconds < c.Client.Backoff.InitialSeconds {
		return fmt.Errorf("backoff max_seconds must be >= initial_seconds")
	}

	return nil
}

// -----------------------------------------------------------------------------

// ValidateClient checks the fields only the forwarder binary needs.
func (c *Config) ValidateClient() error {
	if c.Client.ServerURL == "" {
		return fmt.Errorf("client server_url cannot be empty")
	}
	if len(c.Client.Symbols) == 0 {
		return fmt.Errorf("client must subscribe to at least one symbol")
	}
	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
