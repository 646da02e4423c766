package weather

import "time"

// Record is a single weather measurement as published by a station.
//
// Temperature is in °C, humidity in %, pressure in hPa. A record is only
// admitted into the history when all three numeric fields are present on
// the wire; Timestamp is optional and passed through untouched.
type Record struct {
	Temperature float64    `json:"temperature"`
	Humidity    float64    `json:"humidity"`
	Pressure    float64    `json:"pressure"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// DeviceStatus is a device's reported availability.
type DeviceStatus string

// Device availability values as reported by the station side.
const (
	StatusOnline  DeviceStatus = "Online"
	StatusOffline DeviceStatus = "Offline"
)

// DeviceInfo describes one selectable device in a list reply.
// It exists only for the duration of that reply and is never persisted.
type DeviceInfo struct {
	Name   string       `json:"name"`
	Status DeviceStatus `json:"status"`
}

// Online reports whether the device declared itself reachable.
func (d DeviceInfo) Online() bool {
	return d.Status == StatusOnline
}

// CommonInfo is the fixed-field status report for the currently selected
// device. Field names mirror the station firmware's JSON keys, quirks
// included. Ephemeral, never persisted.
type CommonInfo struct {
	SelectedDevice   string  `json:"selected_device"`
	AbsolutePressure float64 `json:"absolut_pressure"`
	Altitude         float64 `json:"altitude"`
	RSSI             int     `json:"rssi"`
	Timestamp        string  `json:"timestep"`
	Status           string  `json:"status"`
}
