// Package state persists the relay's durable state to a flat JSON file.
//
// The blob holds the measurement history and the subscriber list under the
// legacy key names WeatherHistory and Users. It is loaded once at startup
// and rewritten in full after every mutating event. The requester queues
// are intentionally not part of the blob: a mid-flight request cannot be
// resumed after a restart, because replies pair with requests by arrival
// order only.
package state
