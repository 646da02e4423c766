// Package relay contains the message-routing core of Meteolink.
//
// The Dispatcher is the orchestrator between the measurements bus and the
// chat transport. Inbound bus payloads are classified and routed to the
// measurement history, the notification composer and the subscriber
// registry; chat commands flow the other way, enqueueing requesters and
// publishing control envelopes for the station side.
//
// # Event Routing
//
//	bus measurement  → store → compose → broadcast → republish → persist
//	bus device list  → dequeue list requester → choice prompt (or drop)
//	bus device info  → dequeue info requester → field report (or drop)
//	chat /start      → subscribe (idempotent) → persist if new → welcome
//	chat /list       → enqueue requester → publish listDevices request
//	chat /info       → enqueue requester → publish information request
//	chat selection   → publish changeDevice request → acknowledge
//
// Request/reply pairing is purely FIFO; see the subscriber package.
// Collaborators are injected through small interfaces (Bus, Chat,
// Snapshots, MeasurementSink) so the routing logic tests without any
// transport.
package relay
