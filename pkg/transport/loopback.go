package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Loopback errors.
var (
	ErrNotSubscribed   = errors.New("not subscribed to topic")
	ErrInvalidDocument = errors.New("publish payload is not valid JSON")
)

// Loopback is an in-memory broker for tests and examples. It implements
// TopicClient on the device side and lets a stub server observe publishes
// (OnPublish) and inject inbound messages (Deliver).
type Loopback struct {
	mu sync.Mutex

	subscriptions map[string]struct{}
	onPublish     func(topic string, payload []byte)
	dispatcher    *Dispatcher
}

// NewLoopback creates a new loopback broker.
func NewLoopback() *Loopback {
	return &Loopback{
		subscriptions: make(map[string]struct{}),
	}
}

// Bind attaches the dispatcher that receives messages injected via Deliver.
func (l *Loopback) Bind(d *Dispatcher) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dispatcher = d
}

// OnPublish registers the server-side observer invoked for every publish.
// The observer runs synchronously on the publishing goroutine, so it may
// call Deliver directly to answer a request in-line.
func (l *Loopback) OnPublish(fn func(topic string, payload []byte)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onPublish = fn
}

// PublishJSON publishes a serialized JSON document on the given topic.
// Payloads that are not valid JSON are rejected.
func (l *Loopback) PublishJSON(topic string, payload []byte) error {
	if !json.Valid(payload) {
		return fmt.Errorf("%w: topic %s", ErrInvalidDocument, topic)
	}

	l.mu.Lock()
	fn := l.onPublish
	l.mu.Unlock()

	if fn != nil {
		fn(topic, payload)
	}
	return nil
}

// Subscribe subscribes the client to the given topic.
func (l *Loopback) Subscribe(topic string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscriptions[topic] = struct{}{}
	return nil
}

// Unsubscribe removes the subscription for the given topic. Unsubscribing a
// topic that was never subscribed is not an error, matching broker behavior.
func (l *Loopback) Unsubscribe(topic string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subscriptions, topic)
	return nil
}

// Subscribed reports whether the client currently holds a subscription for
// the topic.
func (l *Loopback) Subscribed(topic string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.subscriptions[topic]
	return ok
}

// Deliver injects an inbound message. The message is forwarded to the bound
// dispatcher only if the client holds a subscription for the topic,
// mirroring how a broker only delivers subscribed topics.
func (l *Loopback) Deliver(topic string, payload []byte) error {
	l.mu.Lock()
	_, subscribed := l.subscriptions[topic]
	d := l.dispatcher
	l.mu.Unlock()

	if !subscribed {
		return fmt.Errorf("%w: %s", ErrNotSubscribed, topic)
	}
	if d == nil {
		return nil
	}
	return d.Dispatch(topic, payload)
}

// Compile-time interface satisfaction check.
var _ TopicClient = (*Loopback)(nil)
