// Package broker provides an optional embedded MQTT broker for Meteolink
// Core, so small deployments can run the relay and the broker as a single
// process. Stations connect to the configured local port exactly as they
// would to an external Mosquitto.
package broker
