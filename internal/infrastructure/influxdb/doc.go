// Package influxdb provides an optional time-series sink for Meteolink Core.
//
// When enabled in configuration, every admitted measurement is also written
// as an InfluxDB point so dashboards can chart the telemetry independently
// of the chat-facing relay. Writes are batched and non-blocking; a failed
// write never affects notification delivery.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // feature off, continue without the sink
//	}
//	defer client.Close()
//
//	client.WriteWeatherPoint("measurements", rec)
package influxdb
