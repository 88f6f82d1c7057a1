package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwesenjak/thingsboard-client-sdk/pkg/transport"
)

func TestLoopback_PublishReachesObserver(t *testing.T) {
	broker := transport.NewLoopback()

	var gotTopic string
	var gotPayload []byte
	broker.OnPublish(func(topic string, payload []byte) {
		gotTopic = topic
		gotPayload = payload
	})

	require.NoError(t, broker.PublishJSON("/provision/request", []byte(`{"provisionDeviceKey":"K"}`)))
	assert.Equal(t, "/provision/request", gotTopic)
	assert.JSONEq(t, `{"provisionDeviceKey":"K"}`, string(gotPayload))
}

func TestLoopback_PublishRejectsInvalidJSON(t *testing.T) {
	broker := transport.NewLoopback()

	err := broker.PublishJSON("/provision/request", []byte("not json"))
	require.ErrorIs(t, err, transport.ErrInvalidDocument)
}

func TestLoopback_SubscriptionLifecycle(t *testing.T) {
	broker := transport.NewLoopback()

	assert.False(t, broker.Subscribed("/provision/response"))
	require.NoError(t, broker.Subscribe("/provision/response"))
	assert.True(t, broker.Subscribed("/provision/response"))
	require.NoError(t, broker.Unsubscribe("/provision/response"))
	assert.False(t, broker.Subscribed("/provision/response"))

	// Unsubscribing again is not an error.
	require.NoError(t, broker.Unsubscribe("/provision/response"))
}

func TestLoopback_DeliverRequiresSubscription(t *testing.T) {
	broker := transport.NewLoopback()
	broker.Bind(transport.NewDispatcher())

	err := broker.Deliver("/provision/response", []byte(`{}`))
	require.ErrorIs(t, err, transport.ErrNotSubscribed)
}

func TestLoopback_DeliverForwardsToDispatcher(t *testing.T) {
	broker := transport.NewLoopback()
	d := transport.NewDispatcher()
	broker.Bind(d)

	h := &stubHandler{topic: "/provision/response", kind: transport.PayloadJSON}
	require.NoError(t, d.Register(h))
	require.NoError(t, broker.Subscribe("/provision/response"))

	require.NoError(t, broker.Deliver("/provision/response", []byte(`{"status":"SUCCESS"}`)))
	require.Len(t, h.jsonDocs, 1)
}
