package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
mqtt:
  broker:
    host: "broker.example.com"
    port: 8883
    tls: true
    client_id: "test-client"
  qos: 1
telegram:
  token: "123456:test-token"
relay:
  schema: "envelope"
  enrichment: false
  sender: "test-bot"
state:
  path: "/tmp/data.json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "broker.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.example.com")
	}
	if !cfg.MQTT.Broker.TLS {
		t.Error("MQTT.Broker.TLS = false, want true")
	}
	if cfg.Telegram.Token != "123456:test-token" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "123456:test-token")
	}
	if cfg.Relay.Enrichment {
		t.Error("Relay.Enrichment = true, want false")
	}
	if cfg.Relay.Sender != "test-bot" {
		t.Errorf("Relay.Sender = %q, want %q", cfg.Relay.Sender, "test-bot")
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeConfig(t, `
telegram:
  token: "123456:test-token"
relay:
  enrichment: false
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("default MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("default MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.OpenAI.Model != "gpt-3.5-turbo" {
		t.Errorf("default OpenAI.Model = %q, want %q", cfg.OpenAI.Model, "gpt-3.5-turbo")
	}
	if cfg.Relay.Schema != SchemaEnvelope {
		t.Errorf("default Relay.Schema = %q, want %q", cfg.Relay.Schema, SchemaEnvelope)
	}
	if cfg.State.Path != "./data/data.json" {
		t.Errorf("default State.Path = %q, want %q", cfg.State.Path, "./data/data.json")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := writeConfig(t, `
mqtt:
  broker:
    host: "file-host"
telegram:
  token: "file-token"
relay:
  enrichment: false
`)

	t.Setenv("METEOLINK_MQTT_HOST", "env-host")
	t.Setenv("METEOLINK_MQTT_PASSWORD", "env-secret")
	t.Setenv("METEOLINK_TELEGRAM_TOKEN", "env-token")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "env-host" {
		t.Errorf("MQTT.Broker.Host = %q, want env override %q", cfg.MQTT.Broker.Host, "env-host")
	}
	if cfg.MQTT.Auth.Password != "env-secret" {
		t.Errorf("MQTT.Auth.Password = %q, want env override", cfg.MQTT.Auth.Password)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Errorf("Telegram.Token = %q, want env override %q", cfg.Telegram.Token, "env-token")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Telegram.Token = "123456:token"
		cfg.Relay.Enrichment = false
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing telegram token",
			mutate:  func(c *Config) { c.Telegram.Token = "" },
			wantErr: true,
		},
		{
			name:    "invalid schema tag",
			mutate:  func(c *Config) { c.Relay.Schema = "banana" },
			wantErr: true,
		},
		{
			name:    "enrichment without api key",
			mutate:  func(c *Config) { c.Relay.Enrichment = true },
			wantErr: true,
		},
		{
			name: "enrichment with api key",
			mutate: func(c *Config) {
				c.Relay.Enrichment = true
				c.OpenAI.APIKey = "sk-test"
			},
			wantErr: false,
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid broker port",
			mutate:  func(c *Config) { c.MQTT.Broker.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "influxdb enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: true,
		},
		{
			name:    "empty state path",
			mutate:  func(c *Config) { c.State.Path = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
