package message

import (
	"encoding/json"
	"fmt"

	"github.com/meteolink/meteolink-core/internal/infrastructure/config"
	"github.com/meteolink/meteolink-core/internal/weather"
)

// Classifier assigns inbound bus payloads to exactly one semantic kind.
//
// Rules are evaluated in fixed priority order; once a rule matches, later
// rules are never consulted:
//
//  1. temperature, humidity and pressure all present and non-null → Measurement
//  2. list_devices present and a sequence → DeviceList
//  3. selected_device present → DeviceInfo
//  4. otherwise → Unrecognized
//
// In the "weather" schema only rule 1 applies; device traffic is reported
// as Unrecognized.
type Classifier struct {
	schema string
}

// NewClassifier creates a classifier for the given payload schema
// (config.SchemaWeather or config.SchemaEnvelope).
func NewClassifier(schema string) *Classifier {
	return &Classifier{schema: schema}
}

// probe mirrors the discriminating fields of every known payload shape.
// Pointer fields distinguish "absent or null" from zero values: a station
// legitimately reports 0°C.
type probe struct {
	Temperature *float64        `json:"temperature"`
	Humidity    *float64        `json:"humidity"`
	Pressure    *float64        `json:"pressure"`
	ListDevices json.RawMessage `json:"list_devices"`
	Selected    *string         `json:"selected_device"`
}

// Classify decodes payload and assigns it to exactly one kind.
//
// A payload that is not a well-formed JSON object fails with
// ErrMalformedPayload before any rule is consulted. A well-formed payload
// matching no rule is returned as KindUnrecognized, not an error; the
// caller decides whether to log and drop.
func (c *Classifier) Classify(payload []byte) (Inbound, error) {
	var p probe
	if err := json.Unmarshal(payload, &p); err != nil {
		return Inbound{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	// Rule 1: all three numeric fields present → Measurement.
	if p.Temperature != nil && p.Humidity != nil && p.Pressure != nil {
		var rec weather.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return Inbound{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		return Inbound{Kind: KindMeasurement, Raw: payload, Measurement: rec}, nil
	}

	if c.schema == config.SchemaWeather {
		return Inbound{Kind: KindUnrecognized, Raw: payload}, nil
	}

	// Rule 2: list_devices present and a sequence → DeviceList.
	if len(p.ListDevices) > 0 && string(p.ListDevices) != "null" {
		if devices, ok := decodeDeviceList(p.ListDevices); ok {
			return Inbound{Kind: KindDeviceList, Raw: payload, Devices: devices}, nil
		}
	}

	// Rule 3: selected_device present → DeviceInfo.
	if p.Selected != nil {
		var info weather.CommonInfo
		if err := json.Unmarshal(payload, &info); err != nil {
			return Inbound{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
		return Inbound{Kind: KindDeviceInfo, Raw: payload, Info: info}, nil
	}

	return Inbound{Kind: KindUnrecognized, Raw: payload}, nil
}

// decodeDeviceList parses the list_devices value. Entries may be bare name
// strings or {name, status} objects; entries of any other shape are
// skipped. Returns ok=false when the value is not a sequence at all, so
// the rule chain can fall through.
func decodeDeviceList(raw json.RawMessage) ([]weather.DeviceInfo, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}

	devices := make([]weather.DeviceInfo, 0, len(elems))
	for _, elem := range elems {
		var name string
		if err := json.Unmarshal(elem, &name); err == nil {
			// Bare-name entry: the station listed it, so report it online.
			devices = append(devices, weather.DeviceInfo{Name: name, Status: weather.StatusOnline})
			continue
		}

		var info weather.DeviceInfo
		if err := json.Unmarshal(elem, &info); err == nil && info.Name != "" {
			devices = append(devices, info)
		}
	}
	return devices, true
}
