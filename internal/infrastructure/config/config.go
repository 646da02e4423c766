package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Meteolink Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Telegram TelegramConfig `yaml:"telegram"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Relay    RelayConfig    `yaml:"relay"`
	State    StateConfig    `yaml:"state"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Broker   BrokerConfig   `yaml:"broker"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// TelegramConfig contains Telegram bot settings.
type TelegramConfig struct {
	Token string `yaml:"token"`

	// PollTimeout is the long-poll timeout in seconds for update retrieval.
	PollTimeout int `yaml:"poll_timeout"`
}

// OpenAIConfig contains text-generation service settings.
type OpenAIConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`

	// TimeoutSeconds bounds a single completion call. 0 means no timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// RelayConfig contains message-routing settings.
type RelayConfig struct {
	// Schema selects the inbound payload schema: "weather" accepts only bare
	// weather records, "envelope" additionally accepts device-list and
	// device-info messages.
	Schema string `yaml:"schema"`

	// Enrichment toggles LLM-generated notification text. When false,
	// subscribers receive the verbatim inbound payload.
	Enrichment bool `yaml:"enrichment"`

	// Sender is the originator tag carried in outbound request envelopes.
	Sender string `yaml:"sender"`

	// BotName scopes the inbound measurements topic: when set, the relay
	// subscribes to measurements/<bot_name> instead of measurements.
	BotName string `yaml:"bot_name"`
}

// Payload schema tags accepted by RelayConfig.Schema.
const (
	SchemaWeather  = "weather"
	SchemaEnvelope = "envelope"
)

// StateConfig contains flat-file persistence settings.
type StateConfig struct {
	Path string `yaml:"path"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// BrokerConfig contains embedded MQTT broker settings.
// When enabled, Meteolink runs its own broker on the local port so no
// external Mosquitto is required for small deployments.
type BrokerConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: METEOLINK_SECTION_KEY
// For example: METEOLINK_MQTT_HOST, METEOLINK_TELEGRAM_TOKEN
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "meteolink-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Telegram: TelegramConfig{
			PollTimeout: 30,
		},
		OpenAI: OpenAIConfig{
			Model:          "gpt-3.5-turbo",
			MaxTokens:      1000,
			Temperature:    0.6,
			TimeoutSeconds: 30,
		},
		Relay: RelayConfig{
			Schema:     SchemaEnvelope,
			Enrichment: true,
			Sender:     "meteolink",
		},
		State: StateConfig{
			Path: "./data/data.json",
		},
		Broker: BrokerConfig{
			Enabled: false,
			Port:    1883,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: METEOLINK_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// MQTT
	if v := os.Getenv("METEOLINK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("METEOLINK_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("METEOLINK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("METEOLINK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Telegram
	if v := os.Getenv("METEOLINK_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}

	// OpenAI
	if v := os.Getenv("METEOLINK_OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}

	// Relay
	if v := os.Getenv("METEOLINK_RELAY_ENRICHMENT"); v != "" {
		cfg.Relay.Enrichment = strings.EqualFold(v, "true") || v == "1"
	}

	// State
	if v := os.Getenv("METEOLINK_STATE_PATH"); v != "" {
		cfg.State.Path = v
	}

	// InfluxDB
	if v := os.Getenv("METEOLINK_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Embedded broker
	if v := os.Getenv("METEOLINK_LOCAL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Broker.Port = port
		}
	}
}

// Validate checks the configuration for required values and consistency.
//
// Returns:
//   - error: Describing the first invalid field found, nil if valid
func (c *Config) Validate() error {
	if c.MQTT.Broker.Host == "" {
		return fmt.Errorf("mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port <= 0 || c.MQTT.Broker.Port > 65535 {
		return fmt.Errorf("mqtt.broker.port must be between 1 and 65535, got %d", c.MQTT.Broker.Port)
	}
	if c.MQTT.Broker.ClientID == "" {
		return fmt.Errorf("mqtt.broker.client_id is required")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos must be 0, 1, or 2, got %d", c.MQTT.QoS)
	}

	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required (set METEOLINK_TELEGRAM_TOKEN)")
	}

	switch c.Relay.Schema {
	case SchemaWeather, SchemaEnvelope:
	default:
		return fmt.Errorf("relay.schema must be %q or %q, got %q", SchemaWeather, SchemaEnvelope, c.Relay.Schema)
	}

	if c.Relay.Enrichment && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required when relay.enrichment is enabled (set METEOLINK_OPENAI_API_KEY)")
	}

	if c.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			return fmt.Errorf("influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Token == "" {
			return fmt.Errorf("influxdb.token is required when influxdb is enabled")
		}
	}

	if c.Broker.Enabled && (c.Broker.Port <= 0 || c.Broker.Port > 65535) {
		return fmt.Errorf("broker.port must be between 1 and 65535, got %d", c.Broker.Port)
	}

	return nil
}
