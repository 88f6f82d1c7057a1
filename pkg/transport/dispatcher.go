package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwesenjak/thingsboard-client-sdk/pkg/log"
)

// Dispatcher errors.
var (
	ErrTopicRegistered = errors.New("topic already registered")
	ErrUnknownTopic    = errors.New("no handler registered for topic")
	ErrInvalidJSON     = errors.New("payload is not valid JSON")
)

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	// Logger is the optional operational logger. If nil, logging is
	// disabled.
	Logger *slog.Logger

	// Events is the optional protocol event capture sink.
	Events log.Logger
}

// Dispatcher routes inbound broker messages to registered APIHandlers by
// topic. The host's receive loop calls Dispatch for every message that
// arrives; the dispatcher validates the payload shape each handler declared
// and delivers accordingly.
type Dispatcher struct {
	mu sync.RWMutex

	sessionID string
	handlers  map[string]APIHandler

	logger *slog.Logger
	events log.Logger
}

// NewDispatcher creates a dispatcher with default configuration.
func NewDispatcher() *Dispatcher {
	return NewDispatcherWithConfig(DispatcherConfig{})
}

// NewDispatcherWithConfig creates a dispatcher with custom configuration.
func NewDispatcherWithConfig(cfg DispatcherConfig) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var events log.Logger = log.NoopLogger{}
	if cfg.Events != nil {
		events = cfg.Events
	}

	return &Dispatcher{
		sessionID: uuid.New().String(),
		handlers:  make(map[string]APIHandler),
		logger:    logger,
		events:    events,
	}
}

// SessionID returns the unique identifier of this dispatcher session.
func (d *Dispatcher) SessionID() string {
	return d.sessionID
}

// Register adds a handler for its declared response topic.
func (d *Dispatcher) Register(h APIHandler) error {
	topic := h.ResponseTopic()

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.handlers[topic]; exists {
		return fmt.Errorf("%w: %s", ErrTopicRegistered, topic)
	}
	d.handlers[topic] = h
	return nil
}

// Unregister removes the handler for the given topic.
// Returns true if a handler existed and was removed.
func (d *Dispatcher) Unregister(topic string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, exists := d.handlers[topic]
	if exists {
		delete(d.handlers, topic)
	}
	return exists
}

// HandlerCount returns the number of registered handlers.
func (d *Dispatcher) HandlerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.handlers)
}

// Dispatch delivers an inbound message to the handler registered for its
// topic. JSON handlers receive validated documents; raw payloads addressed
// to a JSON handler are dropped as defined no-ops.
func (d *Dispatcher) Dispatch(topic string, payload []byte) error {
	d.mu.RLock()
	h, exists := d.handlers[topic]
	d.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	switch h.Kind() {
	case PayloadJSON:
		if !json.Valid(payload) {
			d.logger.Warn("dropping malformed JSON payload",
				"topic", topic, "size", len(payload))
			d.events.Log(log.Event{
				Timestamp: time.Now(),
				SessionID: d.sessionID,
				Direction: log.DirectionIn,
				Layer:     log.LayerWire,
				Category:  log.CategoryError,
				Topic:     topic,
				Error: &log.ErrorEventData{
					Message: ErrInvalidJSON.Error(),
					Context: "dispatch",
				},
			})
			return fmt.Errorf("%w: topic %s", ErrInvalidJSON, topic)
		}

		d.events.Log(log.Event{
			Timestamp: time.Now(),
			SessionID: d.sessionID,
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Topic:     topic,
			Message:   &log.MessageEvent{Size: len(payload), Kind: h.Kind().String()},
		})
		h.HandleJSON(topic, json.RawMessage(payload))

	case PayloadRaw:
		d.events.Log(log.Event{
			Timestamp: time.Now(),
			SessionID: d.sessionID,
			Direction: log.DirectionIn,
			Layer:     log.LayerTransport,
			Category:  log.CategoryMessage,
			Topic:     topic,
			Message:   &log.MessageEvent{Size: len(payload), Kind: h.Kind().String()},
		})
		h.HandleRaw(topic, payload)
	}

	return nil
}
