package provision

import (
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/wire"
)

// BuildRequest builds the request document for a callback. It is a pure
// function with no transport side effects.
//
// The only validated precondition is that both the device key and the device
// secret are non-empty; every other field is copied as-is, and a callback
// with no strategy fields produces a request asking the server to assign
// default credentials.
func BuildRequest(cb *Callback) (*wire.ProvisionRequest, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}
	if cb.DeviceKey == "" {
		return nil, ErrMissingDeviceKey
	}
	if cb.DeviceSecret == "" {
		return nil, ErrMissingDeviceSecret
	}

	req := &wire.ProvisionRequest{
		DeviceName:      cb.DeviceName,
		CredentialsType: cb.CredentialsType,
		DeviceKey:       cb.DeviceKey,
		DeviceSecret:    cb.DeviceSecret,
	}

	creds := cb.Credentials
	if creds == nil {
		creds = NoCredentials{}
	}
	creds.apply(req)

	return req, nil
}
