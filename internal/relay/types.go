package relay

import (
	"github.com/meteolink/meteolink-core/internal/state"
	"github.com/meteolink/meteolink-core/internal/subscriber"
	"github.com/meteolink/meteolink-core/internal/weather"
)

// Bus is the outbound side of the message bus.
// Satisfied by the infrastructure mqtt.Client.
type Bus interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Chat is the notification sink towards chat participants.
// Satisfied by the telegram.Bot.
type Chat interface {
	// SendText delivers a plain text message to one participant.
	SendText(id subscriber.ID, text string) error

	// SendDeviceChoices renders a one-button-per-device selection prompt.
	SendDeviceChoices(id subscriber.ID, devices []weather.DeviceInfo) error
}

// MeasurementSink receives admitted measurements for side-channel storage.
// Satisfied by the infrastructure influxdb.Client; optional.
type MeasurementSink interface {
	WriteWeatherPoint(source string, rec weather.Record)
}

// Snapshots persists the durable state blob.
// Satisfied by the state.Store.
type Snapshots interface {
	Save(snap state.Snapshot) error
}

// Logger defines the logging interface used by the Dispatcher.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config carries the routing parameters that distinguish deployments.
type Config struct {
	// Schema is the inbound payload schema tag (config.SchemaWeather or
	// config.SchemaEnvelope).
	Schema string

	// Sender is the originator tag for outbound request envelopes.
	Sender string

	// QoS is the quality-of-service level for outbound publishes.
	QoS byte
}
