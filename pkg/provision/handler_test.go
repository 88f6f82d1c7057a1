package provision_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwesenjak/thingsboard-client-sdk/pkg/provision"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/wire"
)

// publishCall records one PublishJSON invocation.
type publishCall struct {
	topic   string
	payload []byte
}

// mockTopicClient is a recording mock for testing the handler's transport
// interactions.
type mockTopicClient struct {
	mu sync.Mutex

	published    []publishCall
	subscribed   []string
	unsubscribed []string

	publishErr   error
	subscribeErr error
}

func newMockTopicClient() *mockTopicClient {
	return &mockTopicClient{}
}

func (m *mockTopicClient) PublishJSON(topic string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishCall{topic: topic, payload: payload})
	return nil
}

func (m *mockTopicClient) Subscribe(topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribeErr != nil {
		return m.subscribeErr
	}
	m.subscribed = append(m.subscribed, topic)
	return nil
}

func (m *mockTopicClient) Unsubscribe(topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unsubscribed = append(m.unsubscribed, topic)
	return nil
}

func (m *mockTopicClient) calls() (published []publishCall, subscribed, unsubscribed []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published, m.subscribed, m.unsubscribed
}

func validCallback(handler provision.ResponseHandler) *provision.Callback {
	return &provision.Callback{
		DeviceKey:    "K",
		DeviceSecret: "S",
		Handler:      handler,
	}
}

func TestRequestStart_EmptyKey_NoTransportCalls(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	err := handler.RequestStart(&provision.Callback{DeviceKey: "", DeviceSecret: "S"})
	require.ErrorIs(t, err, provision.ErrMissingDeviceKey)

	published, subscribed, unsubscribed := client.calls()
	assert.Empty(t, published)
	assert.Empty(t, subscribed)
	assert.Empty(t, unsubscribed)
	assert.Equal(t, provision.StateIdle, handler.State())
}

func TestRequestStart_EmptySecret_NoTransportCalls(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	err := handler.RequestStart(&provision.Callback{DeviceKey: "K", DeviceSecret: ""})
	require.ErrorIs(t, err, provision.ErrMissingDeviceSecret)

	published, subscribed, _ := client.calls()
	assert.Empty(t, published)
	assert.Empty(t, subscribed)
}

func TestRequestStart_SubscribeFails_NoPublish(t *testing.T) {
	client := newMockTopicClient()
	client.subscribeErr = errors.New("broker refused")
	handler := provision.NewHandler(client)

	err := handler.RequestStart(validCallback(nil))
	require.ErrorIs(t, err, provision.ErrSubscribeFailed)

	published, _, _ := client.calls()
	assert.Empty(t, published)
	assert.Equal(t, provision.StateIdle, handler.State())
}

func TestRequestStart_PublishesRequestDocument(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	err := handler.RequestStart(&provision.Callback{
		DeviceKey:    "K",
		DeviceSecret: "S",
		DeviceName:   "dev1",
	})
	require.NoError(t, err)

	published, subscribed, _ := client.calls()
	require.Len(t, subscribed, 1)
	assert.Equal(t, wire.ProvisionResponseTopic, subscribed[0])

	require.Len(t, published, 1)
	assert.Equal(t, wire.ProvisionRequestTopic, published[0].topic)

	var doc map[string]string
	require.NoError(t, json.Unmarshal(published[0].payload, &doc))
	assert.Equal(t, map[string]string{
		"deviceName":            "dev1",
		"provisionDeviceKey":    "K",
		"provisionDeviceSecret": "S",
	}, doc)

	assert.Equal(t, provision.StateAwaitingResponse, handler.State())
}

func TestRequestStart_BusyWhileAwaitingResponse(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	require.NoError(t, handler.RequestStart(validCallback(nil)))

	err := handler.RequestStart(validCallback(nil))
	require.ErrorIs(t, err, provision.ErrRequestPending)

	// The rejected request touched nothing: still one subscribe, one publish.
	published, subscribed, _ := client.calls()
	assert.Len(t, subscribed, 1)
	assert.Len(t, published, 1)
	assert.Equal(t, provision.StateAwaitingResponse, handler.State())
}

func TestRequestStart_PublishFails_RollsBack(t *testing.T) {
	client := newMockTopicClient()
	client.publishErr = errors.New("connection lost")
	handler := provision.NewHandler(client)

	err := handler.RequestStart(validCallback(nil))
	require.ErrorIs(t, err, provision.ErrPublishFailed)

	// Subscription rolled back, slot cleared, state consistent with the
	// returned error.
	_, subscribed, unsubscribed := client.calls()
	assert.Len(t, subscribed, 1)
	assert.Len(t, unsubscribed, 1)
	assert.Equal(t, provision.StateIdle, handler.State())

	// The handler is usable again immediately.
	client.publishErr = nil
	require.NoError(t, handler.RequestStart(validCallback(nil)))
	assert.Equal(t, provision.StateAwaitingResponse, handler.State())
}

func TestHandleJSON_DispatchesCallbackOnceAndUnsubscribes(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	var responses []*wire.ProvisionResponse
	require.NoError(t, handler.RequestStart(validCallback(func(resp *wire.ProvisionResponse) {
		responses = append(responses, resp)
	})))

	doc := []byte(`{"credentialsType":"ACCESS_TOKEN","credentialsValue":"abc","status":"SUCCESS"}`)
	handler.HandleJSON(wire.ProvisionResponseTopic, doc)

	require.Len(t, responses, 1)
	assert.Equal(t, wire.CredentialsAccessToken, responses[0].CredentialsType)
	assert.Equal(t, "abc", responses[0].CredentialsValue)
	assert.JSONEq(t, string(doc), string(responses[0].Raw))

	_, _, unsubscribed := client.calls()
	require.Len(t, unsubscribed, 1)
	assert.Equal(t, wire.ProvisionResponseTopic, unsubscribed[0])
	assert.Equal(t, provision.StateIdle, handler.State())

	// A second delivery finds the slot empty: no further callback.
	handler.HandleJSON(wire.ProvisionResponseTopic, doc)
	assert.Len(t, responses, 1)
}

func TestHandleJSON_UnexpectedShapeStillDispatched(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	var got *wire.ProvisionResponse
	require.NoError(t, handler.RequestStart(validCallback(func(resp *wire.ProvisionResponse) {
		got = resp
	})))

	// Valid JSON whose fields do not match the expected types.
	doc := []byte(`{"status":17}`)
	handler.HandleJSON(wire.ProvisionResponseTopic, doc)

	require.NotNil(t, got)
	assert.JSONEq(t, string(doc), string(got.Raw))
	assert.Equal(t, provision.StateIdle, handler.State())
}

func TestHandleRaw_IsNoOp(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	called := false
	require.NoError(t, handler.RequestStart(validCallback(func(*wire.ProvisionResponse) {
		called = true
	})))

	handler.HandleRaw(wire.ProvisionResponseTopic, []byte{0x01, 0x02})

	assert.False(t, called)
	assert.Equal(t, provision.StateAwaitingResponse, handler.State())
}

func TestUnsubscribe_Idle_StillIssuesTransportCall(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	require.NoError(t, handler.Unsubscribe())

	_, _, unsubscribed := client.calls()
	require.Len(t, unsubscribed, 1)
	assert.Equal(t, wire.ProvisionResponseTopic, unsubscribed[0])
	assert.Equal(t, provision.StateIdle, handler.State())
}

func TestUnsubscribe_AbandonsPendingHandshake(t *testing.T) {
	client := newMockTopicClient()
	handler := provision.NewHandler(client)

	called := false
	require.NoError(t, handler.RequestStart(validCallback(func(*wire.ProvisionResponse) {
		called = true
	})))
	require.NoError(t, handler.Unsubscribe())
	assert.Equal(t, provision.StateIdle, handler.State())

	// A response arriving after the abandon finds no callback.
	handler.HandleJSON(wire.ProvisionResponseTopic, []byte(`{"status":"SUCCESS"}`))
	assert.False(t, called)

	// And a new handshake can start.
	require.NoError(t, handler.RequestStart(validCallback(nil)))
}

func TestHandlerMetadata(t *testing.T) {
	handler := provision.NewHandler(newMockTopicClient())

	assert.Equal(t, wire.ProvisionResponseTopic, handler.ResponseTopic())
	assert.Equal(t, "JSON", handler.Kind().String())
}
