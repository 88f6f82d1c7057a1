package provision

import (
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/wire"
)

// ResponseHandler receives the provisioning response document. It is invoked
// exactly once per handshake, on the dispatch goroutine. The handler owns
// interpretation of the document, including server-reported failures.
type ResponseHandler func(resp *wire.ProvisionResponse)

// Credentials selects the kind of credentials the server should issue.
// Implementations: NoCredentials, AccessToken, BasicAuth, CertificateHash.
type Credentials interface {
	// apply copies the strategy's fields into the request document.
	apply(req *wire.ProvisionRequest)
}

// NoCredentials asks the server to generate default token credentials.
// It is the zero strategy: a nil Credentials field behaves the same.
type NoCredentials struct{}

func (NoCredentials) apply(*wire.ProvisionRequest) {}

// AccessToken asks the server to register the given token as the device's
// credentials.
type AccessToken struct {
	Token string
}

func (c AccessToken) apply(req *wire.ProvisionRequest) {
	req.Token = c.Token
}

// BasicAuth asks the server to register MQTT basic credentials. Any subset
// of the three fields may be set; empty fields are omitted from the request.
type BasicAuth struct {
	Username string
	Password string
	ClientID string
}

func (c BasicAuth) apply(req *wire.ProvisionRequest) {
	req.Username = c.Username
	req.Password = c.Password
	req.ClientID = c.ClientID
}

// CertificateHash asks the server to register X.509 certificate credentials
// identified by the certificate's fingerprint.
type CertificateHash struct {
	Hash string
}

func (c CertificateHash) apply(req *wire.ProvisionRequest) {
	req.Hash = c.Hash
}

// Callback describes one provisioning request: the pre-shared key/secret
// that authorize it, the optional device identity fields, the credential
// strategy, and the handler that receives the response.
//
// A Callback is read-only once passed to RequestStart and may be discarded
// by the caller afterwards; the handler keeps what it needs.
type Callback struct {
	// DeviceKey and DeviceSecret identify the provisioning profile on the
	// server. Both are mandatory.
	DeviceKey    string
	DeviceSecret string

	// DeviceName is the optional display name. If empty the server assigns
	// a random name.
	DeviceName string

	// CredentialsType is the optional explicit credentials type label
	// (wire.CredentialsAccessToken and friends). Most strategies do not
	// need it; set it only when the server profile requires the label.
	CredentialsType string

	// Credentials selects the credential strategy. Nil means NoCredentials.
	Credentials Credentials

	// Handler receives the response document.
	Handler ResponseHandler
}
