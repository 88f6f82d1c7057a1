// Package transport defines the pub/sub binding between protocol components
// and the broker connection that carries their messages.
//
// The SDK does not own a broker connection. Instead, components such as the
// provisioning handler are handed a TopicClient (publish, subscribe,
// unsubscribe) at construction, and register themselves with a Dispatcher
// that routes inbound messages to them by topic.
//
// # Payload Kinds
//
// Each APIHandler declares whether it consumes decoded JSON documents or raw
// bytes. The Dispatcher validates JSON before delivery; a handler that
// declares PayloadJSON never sees malformed payloads, and raw deliveries to
// it are defined no-ops.
//
// # Loopback
//
// Loopback is an in-memory broker for tests and examples. It implements
// TopicClient, tracks subscriptions, and lets a stub server observe publishes
// and inject responses.
package transport
