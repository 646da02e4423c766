// Package weather defines the telemetry data model for Meteolink Core and
// the rolling measurement history built on it.
//
// # Key Types
//
//   - Record: a single weather measurement (temperature, humidity, pressure)
//   - History: append-only arrival-order store answering "last N records"
//   - DeviceInfo: one selectable device in a list reply (ephemeral)
//   - CommonInfo: the fixed-field report for the selected device (ephemeral)
//
// Only Record values are ever persisted; DeviceInfo and CommonInfo live
// for the duration of a single reply.
package weather
