package provision

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/mwesenjak/thingsboard-client-sdk/pkg/log"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/transport"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/wire"
)

// State represents the handshake state.
type State uint8

const (
	// StateIdle - no handshake pending.
	StateIdle State = iota

	// StateAwaitingResponse - subscribed and waiting for the server's
	// response.
	StateAwaitingResponse
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateAwaitingResponse:
		return "AWAITING_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// HandlerConfig configures a Handler.
type HandlerConfig struct {
	// Logger is the optional operational logger. If nil, logging is
	// disabled.
	Logger *slog.Logger

	// Events is the optional protocol event capture sink.
	Events log.Logger
}

// Handler drives the provisioning handshake. It owns the single
// pending-callback slot and implements transport.APIHandler so a Dispatcher
// can deliver the response to it.
//
// All methods are safe for concurrent use, but the handshake itself is
// strictly one-at-a-time: RequestStart fails with ErrRequestPending while a
// response is outstanding.
type Handler struct {
	mu sync.Mutex

	client transport.TopicClient
	logger *slog.Logger
	events log.Logger

	state   State
	pending ResponseHandler
}

// NewHandler creates a provisioning handler bound to the given topic client.
func NewHandler(client transport.TopicClient) *Handler {
	return NewHandlerWithConfig(client, HandlerConfig{})
}

// NewHandlerWithConfig creates a provisioning handler with custom
// configuration.
func NewHandlerWithConfig(client transport.TopicClient, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	var events log.Logger = log.NoopLogger{}
	if cfg.Events != nil {
		events = cfg.Events
	}

	return &Handler{
		client: client,
		logger: logger,
		events: events,
	}
}

// State returns the current handshake state.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// RequestStart validates the callback, subscribes to the response topic,
// stores the callback, and publishes the request document.
//
// The steps short-circuit on first failure: a validation error performs no
// transport call, a subscribe failure publishes nothing, and a publish
// failure rolls the subscription and the stored callback back so the handler
// is observably idle again. On success the handler stays in
// StateAwaitingResponse until the response arrives or Unsubscribe is called.
func (h *Handler) RequestStart(cb *Callback) error {
	req, err := BuildRequest(cb)
	if err != nil {
		return err
	}

	payload, err := wire.EncodeRequest(req)
	if err != nil {
		return fmt.Errorf("encode provision request: %w", err)
	}

	h.mu.Lock()
	if h.state == StateAwaitingResponse {
		h.mu.Unlock()
		return ErrRequestPending
	}

	if err := h.client.Subscribe(wire.ProvisionResponseTopic); err != nil {
		h.mu.Unlock()
		h.logger.Warn("failed to subscribe to topic",
			"topic", wire.ProvisionResponseTopic, "error", err)
		h.logError(err.Error(), "subscribe")
		return fmt.Errorf("%w: %v", ErrSubscribeFailed, err)
	}

	h.pending = cb.Handler
	h.setStateLocked(StateAwaitingResponse, "request started")

	// Publish without the lock held: brokers that deliver the response on
	// the publishing goroutine re-enter HandleJSON before PublishJSON
	// returns.
	h.mu.Unlock()

	if err := h.client.PublishJSON(wire.ProvisionRequestTopic, payload); err != nil {
		// Roll the handshake back so observable state matches the error:
		// the subscription is torn down and the slot cleared.
		_ = h.client.Unsubscribe(wire.ProvisionResponseTopic)

		h.mu.Lock()
		h.pending = nil
		h.setStateLocked(StateIdle, "publish failed")
		h.mu.Unlock()

		h.logError(err.Error(), "publish")
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}

	h.events.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOut,
		Layer:     log.LayerAPI,
		Category:  log.CategoryMessage,
		Topic:     wire.ProvisionRequestTopic,
		Message:   &log.MessageEvent{Size: len(payload)},
	})

	return nil
}

// ResponseTopic returns the fixed topic this handler wants dispatched to it.
func (h *Handler) ResponseTopic() string {
	return wire.ProvisionResponseTopic
}

// Kind declares that this handler consumes decoded JSON documents only.
func (h *Handler) Kind() transport.PayloadKind {
	return transport.PayloadJSON
}

// HandleJSON delivers the provisioning response. The stored callback is
// invoked exactly once with the document, without any content inspection,
// and the response topic is unsubscribed unconditionally afterwards - the
// exchange is single-shot, so the subscription has served its purpose
// whatever the document said.
func (h *Handler) HandleJSON(topic string, doc json.RawMessage) {
	resp, err := wire.DecodeResponse(doc)
	if err != nil {
		// Dispatcher guarantees valid JSON; a shape mismatch still reaches
		// the callback with the raw document attached.
		h.logger.Warn("provision response did not match expected shape",
			"topic", topic, "error", err)
		resp = &wire.ProvisionResponse{Raw: json.RawMessage(append([]byte(nil), doc...))}
	}

	h.mu.Lock()
	cb := h.pending
	h.pending = nil
	h.setStateLocked(StateIdle, "response dispatched")
	h.mu.Unlock()

	if cb != nil {
		cb(resp)
	}

	// Resubscribed anyway if another request is sent.
	if err := h.client.Unsubscribe(wire.ProvisionResponseTopic); err != nil {
		h.logger.Debug("failed to unsubscribe from topic",
			"topic", wire.ProvisionResponseTopic, "error", err)
	}
}

// HandleRaw is a defined no-op; the handler only accepts JSON documents.
func (h *Handler) HandleRaw(string, []byte) {}

// Unsubscribe abandons any pending handshake: the stored callback is cleared
// and the response topic unsubscribed. It is idempotent and safe to call at
// any time; with no handshake pending it still issues the unsubscribe call.
func (h *Handler) Unsubscribe() error {
	h.mu.Lock()
	h.pending = nil
	h.setStateLocked(StateIdle, "manual unsubscribe")
	h.mu.Unlock()

	return h.client.Unsubscribe(wire.ProvisionResponseTopic)
}

// setStateLocked transitions the state and records the change.
// Callers must hold h.mu.
func (h *Handler) setStateLocked(next State, reason string) {
	if h.state == next {
		return
	}
	old := h.state
	h.state = next

	h.events.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerAPI,
		Category:  log.CategoryState,
		Topic:     wire.ProvisionResponseTopic,
		StateChange: &log.StateChangeEvent{
			OldState: old.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

func (h *Handler) logError(msg, context string) {
	h.events.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     log.LayerAPI,
		Category:  log.CategoryError,
		Topic:     wire.ProvisionResponseTopic,
		Error:     &log.ErrorEventData{Message: msg, Context: context},
	})
}

// Compile-time interface satisfaction check.
var _ transport.APIHandler = (*Handler)(nil)
