// Package mqtt provides MQTT client connectivity for Meteolink Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Meteolink uses MQTT as the message bus between weather stations and the
// relay. Stations publish telemetry onto the measurements topic; the relay
// publishes control requests (device listing, device selection) onto
// measurements/RequestSetting for the station side to act on.
//
//	Weather Station ↔ MQTT Broker ↔ Meteolink Core
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to inbound telemetry
//	err = client.Subscribe(mqtt.Topics{}.Measurements(""), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish a control request
//	topic := mqtt.Topics{}.RequestSetting()
//	client.Publish(topic, []byte(`{"sender":"meteolink","requestCommand":"listDevices"}`), 1, false)
//
// # Security Considerations
//
//   - TLS is recommended for non-local brokers (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for the embedded local broker
package mqtt
