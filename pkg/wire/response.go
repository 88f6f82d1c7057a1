package wire

import "encoding/json"

// Provisioning outcome status values, as reported by the server inside the
// response document.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// Credentials type labels the server issues or accepts.
const (
	CredentialsAccessToken = "ACCESS_TOKEN"
	CredentialsMQTTBasic   = "MQTT_BASIC"
	CredentialsX509        = "X509_CERTIFICATE"
)

// BasicMQTTCredentials is the credentialsValue payload for MQTT_BASIC
// responses, where the value is itself a JSON document.
type BasicMQTTCredentials struct {
	ClientID string `json:"clientId,omitempty"`
	UserName string `json:"userName,omitempty"`
	Password string `json:"password,omitempty"`
}

// ProvisionResponse is the decoded response document delivered on
// ProvisionResponseTopic.
//
// The handshake layer never inspects these fields; it hands the whole
// document to the registered callback. The accessors below exist for
// callbacks, which are the layer responsible for interpreting content.
type ProvisionResponse struct {
	// CredentialsType names the kind of credentials issued.
	CredentialsType string `json:"credentialsType,omitempty"`

	// CredentialsValue carries the issued credentials. For ACCESS_TOKEN and
	// X509_CERTIFICATE it is the bare value; for MQTT_BASIC it is a nested
	// JSON document (see BasicMQTTCredentials).
	CredentialsValue string `json:"credentialsValue,omitempty"`

	// Status is SUCCESS or FAILURE.
	Status string `json:"status,omitempty"`

	// ErrorMsg describes the failure when Status is FAILURE.
	ErrorMsg string `json:"errorMsg,omitempty"`

	// Raw is the response document exactly as it arrived, retained so
	// callbacks can reach fields this struct does not model.
	Raw json.RawMessage `json:"-"`
}

// DecodeResponse decodes JSON bytes into a response document, keeping the
// original bytes in Raw.
func DecodeResponse(data []byte) (*ProvisionResponse, error) {
	var resp ProvisionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	resp.Raw = json.RawMessage(append([]byte(nil), data...))
	return &resp, nil
}

// IsSuccess reports whether the server accepted the provisioning request.
func (r *ProvisionResponse) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// BasicCredentials decodes the nested MQTT_BASIC credentials value.
func (r *ProvisionResponse) BasicCredentials() (*BasicMQTTCredentials, error) {
	var creds BasicMQTTCredentials
	if err := json.Unmarshal([]byte(r.CredentialsValue), &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}
