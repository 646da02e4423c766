// Package telegram is the chat transport for Meteolink Core.
//
// The Bot long-polls the Telegram Bot API for updates and routes commands
// (/start, /help, /list, /info) and device-selection callbacks to a
// Handler, normally the relay.Dispatcher. Outbound it offers the two send
// primitives the dispatcher needs: plain text and a one-button-per-device
// choice prompt.
//
// Device commands are only active in the envelope schema; a weather-only
// deployment answers /start and /help and ignores the rest.
package telegram
