package mqtt

import "fmt"

// Topic names for the measurements bus. These are stable wire contracts
// shared with the station firmware; renaming them breaks deployed devices.
const (
	// TopicPrefixMeasurements is the base for all telemetry topics.
	TopicPrefixMeasurements = "measurements"

	// TopicRequestSetting carries control requests from the relay to the
	// station side (device listing, device selection, information).
	TopicRequestSetting = "measurements/RequestSetting"

	// TopicSystemStatus carries relay online/offline announcements,
	// including the Last Will message.
	TopicSystemStatus = "measurements/status"
)

// Topics provides builders for Meteolink MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	inbound := topics.Measurements("weather-bot")
//	// Returns: "measurements/weather-bot"
type Topics struct{}

// Measurements returns the inbound telemetry topic.
//
// With an empty botName the shared topic is returned; otherwise the
// per-bot topic is used so several relays can share one broker.
//
// Examples: "measurements", "measurements/weather-bot"
func (Topics) Measurements(botName string) string {
	if botName == "" {
		return TopicPrefixMeasurements
	}
	return fmt.Sprintf("%s/%s", TopicPrefixMeasurements, botName)
}

// RequestSetting returns the outbound control-request topic.
//
// Example: measurements/RequestSetting
func (Topics) RequestSetting() string {
	return TopicRequestSetting
}

// SystemStatus returns the relay status topic used for online/offline
// announcements and the Last Will message.
//
// Example: measurements/status
func (Topics) SystemStatus() string {
	return TopicSystemStatus
}

// AllMeasurements returns a pattern matching the whole measurements tree.
// Use with caution - this receives ALL telemetry traffic.
//
// Pattern: measurements/#
func (Topics) AllMeasurements() string {
	return fmt.Sprintf("%s/#", TopicPrefixMeasurements)
}
