// Package config provides configuration loading for Meteolink Core.
//
// Configuration is read from a YAML file, merged over hardcoded defaults,
// and finally overridden by METEOLINK_* environment variables. Secrets
// (broker password, bot token, API keys) are expected to arrive via the
// environment rather than the file.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.MQTT.Broker.Host)
//
// # Environment Overrides
//
//   - METEOLINK_MQTT_HOST, METEOLINK_MQTT_PORT
//   - METEOLINK_MQTT_USERNAME, METEOLINK_MQTT_PASSWORD
//   - METEOLINK_TELEGRAM_TOKEN
//   - METEOLINK_OPENAI_API_KEY
//   - METEOLINK_RELAY_ENRICHMENT
//   - METEOLINK_STATE_PATH
//   - METEOLINK_INFLUXDB_TOKEN
//   - METEOLINK_LOCAL_PORT (embedded broker)
package config
