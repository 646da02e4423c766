// Package logging provides structured logging for Meteolink Core.
//
// It wraps log/slog with configuration-driven level filtering, JSON or
// text output, and default service/version attributes on every record.
//
// # Usage
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("MQTT connected", "broker", addr)
//
//	relayLog := log.With("component", "relay")
//	relayLog.Warn("discarded reply", "kind", "device_list")
//
// Use Default() for the brief window before configuration is loaded.
package logging
