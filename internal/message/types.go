package message

import (
	"encoding/json"

	"github.com/meteolink/meteolink-core/internal/weather"
)

// Kind is the semantic category assigned to an inbound bus payload.
type Kind int

// Inbound payload categories, in classification priority order.
const (
	// KindUnrecognized marks a payload that decoded fine but matched no rule.
	KindUnrecognized Kind = iota

	// KindMeasurement is a bare weather record.
	KindMeasurement

	// KindDeviceList is a reply carrying the selectable devices.
	KindDeviceList

	// KindDeviceInfo is a reply carrying the selected device's status report.
	KindDeviceInfo
)

// String returns the kind name for logging.
func (k Kind) String() string {
	switch k {
	case KindMeasurement:
		return "measurement"
	case KindDeviceList:
		return "device_list"
	case KindDeviceInfo:
		return "device_info"
	default:
		return "unrecognized"
	}
}

// Inbound is a classified bus payload. Exactly one of the variant fields is
// populated, selected by Kind; Raw always carries the verbatim payload text.
type Inbound struct {
	Kind Kind
	Raw  []byte

	Measurement weather.Record       // KindMeasurement
	Devices     []weather.DeviceInfo // KindDeviceList
	Info        weather.CommonInfo   // KindDeviceInfo
}

// Request command values understood by the station side.
const (
	CommandInformation  = "information"
	CommandListDevices  = "listDevices"
	CommandChangeDevice = "changeDevice"
	CommandSendMessage  = "sendMessage"
)

// Request is the outbound control envelope published on
// measurements/RequestSetting. Field names are a wire contract with the
// station firmware.
type Request struct {
	Sender         string `json:"sender"`
	RequestCommand string `json:"requestCommand"`
	Data           string `json:"data,omitempty"`
}

// Encode serializes the request for publishing.
func (r Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}
