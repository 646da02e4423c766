// Package subscriber tracks who receives notifications and who is waiting
// for an asynchronous device reply.
//
// The Registry holds the broadcast set (persisted across restarts) and two
// FIFO requester queues (transient). Request/reply pairing relies purely on
// arrival order: the first /list requester is answered by the first
// device-list reply to arrive, and so on. The queues therefore never
// deduplicate and never reorder.
package subscriber
