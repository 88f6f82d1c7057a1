package provision

import "errors"

// Handshake errors.
var (
	// ErrMissingDeviceKey - the mandatory provisioning device key is empty.
	ErrMissingDeviceKey = errors.New("provision device key is empty")

	// ErrMissingDeviceSecret - the mandatory provisioning device secret is
	// empty.
	ErrMissingDeviceSecret = errors.New("provision device secret is empty")

	// ErrNilCallback - RequestStart was called without a callback.
	ErrNilCallback = errors.New("provision callback is nil")

	// ErrRequestPending - a handshake is already awaiting its response.
	ErrRequestPending = errors.New("provisioning request already pending")

	// ErrSubscribeFailed - the transport refused to subscribe the response
	// topic.
	ErrSubscribeFailed = errors.New("failed to subscribe provision response topic")

	// ErrPublishFailed - the transport refused to publish the request.
	ErrPublishFailed = errors.New("failed to publish provision request")
)
