// Package provision implements the device provisioning handshake.
//
// A device that owns a pre-shared provisioning key/secret pair can request
// cloud-issued identity and credentials in a single request/response
// exchange over the pub/sub transport:
//
//	handler := provision.NewHandler(client)
//	dispatcher.Register(handler)
//
//	err := handler.RequestStart(&provision.Callback{
//	    DeviceKey:    "k3y",
//	    DeviceSecret: "s3cr3t",
//	    DeviceName:   "sensor-17",
//	    Handler: func(resp *wire.ProvisionResponse) {
//	        // reconnect with resp credentials
//	    },
//	})
//
// The handler subscribes to the fixed response topic, publishes the request
// document, and delivers exactly one response to the registered callback
// before tearing the subscription down again. Response content is not
// interpreted here - success, failure, and credential extraction are the
// callback's concern.
//
// # Credential Strategies
//
// The Credentials field of Callback selects what kind of credentials the
// server should issue: NoCredentials (server-generated token, the default),
// AccessToken, BasicAuth, or CertificateHash. Exactly the fields the chosen
// strategy carries appear in the request document.
//
// # Lifecycle
//
// One request may be in flight at a time. Starting a second request while
// the first awaits its response fails with ErrRequestPending; the pending
// exchange can be abandoned early with Unsubscribe. No timeout is applied -
// if the server never answers, the handshake stays pending until Unsubscribe
// or the next successful RequestStart after an Unsubscribe.
package provision
