// Package message defines the wire formats of the measurements bus and the
// classifier that routes inbound payloads.
//
// Inbound payloads are arbitrary JSON objects published by stations; the
// Classifier assigns each to exactly one Kind using a fixed-priority rule
// chain over discriminating fields. Outbound control messages use the
// Request envelope on measurements/RequestSetting.
//
// All field names in this package are wire contracts shared with station
// firmware and must not be renamed.
package message
