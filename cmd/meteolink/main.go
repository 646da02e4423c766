// Meteolink Core - Sensor Telemetry Relay
//
// This is the main entry point for the Meteolink Core application.
// Meteolink relays weather-station telemetry from an MQTT bus to Telegram
// subscribers, optionally enriching notifications through a language-model
// call, and answers device-list and device-info requests over the same bus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/meteolink/meteolink-core/internal/infrastructure/broker"
	"github.com/meteolink/meteolink-core/internal/infrastructure/config"
	"github.com/meteolink/meteolink-core/internal/infrastructure/influxdb"
	"github.com/meteolink/meteolink-core/internal/infrastructure/logging"
	"github.com/meteolink/meteolink-core/internal/infrastructure/mqtt"
	"github.com/meteolink/meteolink-core/internal/llm"
	"github.com/meteolink/meteolink-core/internal/notify"
	"github.com/meteolink/meteolink-core/internal/relay"
	"github.com/meteolink/meteolink-core/internal/state"
	"github.com/meteolink/meteolink-core/internal/subscriber"
	"github.com/meteolink/meteolink-core/internal/telegram"
	"github.com/meteolink/meteolink-core/internal/weather"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Meteolink Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Start embedded broker (optional)
	if cfg.Broker.Enabled {
		localBroker, brokerErr := broker.Start(cfg.Broker, log.Logger)
		if brokerErr != nil {
			return fmt.Errorf("starting embedded broker: %w", brokerErr)
		}
		defer func() {
			log.Info("stopping embedded broker")
			if closeErr := localBroker.Close(); closeErr != nil {
				log.Error("error closing embedded broker", "error", closeErr)
			}
		}()
		log.Info("embedded broker started", "port", localBroker.Port())
	}

	// Core state
	history := weather.NewHistory()
	subscribers := subscriber.NewRegistry()
	stateStore := state.NewStore(cfg.State.Path)

	// Notification composer, with the OpenAI generator when enrichment is on
	var generator notify.Generator
	if cfg.Relay.Enrichment {
		generator = llm.NewOpenAIGenerator(cfg.OpenAI)
		log.Info("notification enrichment enabled", "model", cfg.OpenAI.Model)
	} else {
		log.Info("notification enrichment disabled, relaying raw payloads")
	}
	composer := notify.NewComposer(cfg.Relay.Enrichment, history, generator)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Start Telegram bot
	bot, err := telegram.New(cfg.Telegram)
	if err != nil {
		return fmt.Errorf("starting Telegram bot: %w", err)
	}
	log.Info("Telegram bot authenticated", "username", bot.Username())

	// Wire the dispatcher
	dispatcher := relay.NewDispatcher(
		relay.Config{
			Schema: cfg.Relay.Schema,
			Sender: cfg.Relay.Sender,
			QoS:    byte(cfg.MQTT.QoS),
		},
		history,
		subscribers,
		composer,
		mqttClient,
		bot,
		stateStore,
	)
	dispatcher.SetLogger(log.With("component", "relay"))

	// Connect to InfluxDB (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		dispatcher.SetMeasurementSink(influxClient)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Load persisted state: subscribers union, history wholesale
	snapshot, err := stateStore.Load()
	if err != nil {
		return fmt.Errorf("loading persisted state: %w", err)
	}
	dispatcher.LoadState(snapshot)

	// Subscribe to inbound telemetry
	inboundTopic := mqtt.Topics{}.Measurements(cfg.Relay.BotName)
	err = mqttClient.Subscribe(inboundTopic, byte(cfg.MQTT.QoS), func(topic string, payload []byte) error {
		return dispatcher.HandleBusMessage(ctx, topic, payload)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", inboundTopic, err)
	}
	log.Info("subscribed to telemetry", "topic", inboundTopic)

	// Start consuming chat updates
	bot.SetLogger(log.With("component", "telegram"))
	bot.Start(dispatcher)
	defer func() {
		log.Info("stopping Telegram bot")
		if closeErr := bot.Close(); closeErr != nil {
			log.Error("error closing Telegram bot", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. Telegram bot
	// 2. InfluxDB (if enabled)
	// 3. MQTT
	// 4. Embedded broker (if enabled)

	log.Info("Meteolink Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses METEOLINK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("METEOLINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
