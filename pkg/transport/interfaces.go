package transport

import "encoding/json"

// TopicClient is the broker surface a protocol component needs. It is
// implemented by Loopback and by whatever MQTT or pub/sub client the host
// application uses.
type TopicClient interface {
	// PublishJSON publishes a serialized JSON document on the given topic.
	PublishJSON(topic string, payload []byte) error

	// Subscribe subscribes the client to the given topic.
	Subscribe(topic string) error

	// Unsubscribe removes the subscription for the given topic.
	Unsubscribe(topic string) error
}

// PayloadKind declares which payload shape an APIHandler consumes.
type PayloadKind uint8

const (
	// PayloadJSON - the handler consumes decoded JSON documents.
	PayloadJSON PayloadKind = 0

	// PayloadRaw - the handler consumes raw bytes.
	PayloadRaw PayloadKind = 1
)

// String returns the payload kind name.
func (k PayloadKind) String() string {
	switch k {
	case PayloadJSON:
		return "JSON"
	case PayloadRaw:
		return "RAW"
	default:
		return "UNKNOWN"
	}
}

// APIHandler is implemented by protocol components that receive messages on
// a fixed topic, such as the provisioning handler.
type APIHandler interface {
	// ResponseTopic returns the fixed topic this handler wants dispatched
	// to it.
	ResponseTopic() string

	// Kind returns the payload shape this handler consumes.
	Kind() PayloadKind

	// HandleJSON delivers a validated JSON document that arrived on the
	// handler's topic. Only called when Kind is PayloadJSON.
	HandleJSON(topic string, doc json.RawMessage)

	// HandleRaw delivers raw bytes that arrived on the handler's topic.
	// Only called when Kind is PayloadRaw; JSON handlers treat this as a
	// no-op.
	HandleRaw(topic string, payload []byte)
}
