// Package events defines the typed authentication lifecycle events and a
// small synchronous dispatcher for them.
//
// Guards and brokers emit events through the Dispatcher interface; Bus is
// the in-process implementation, Discard swallows everything. Each event
// carries a stable dotted name (for example "auth.login") that listeners
// subscribe to, alongside its typed payload.
package events
