package wire

import "encoding/json"

// ProvisionRequest is the request document published on ProvisionRequestTopic.
//
// Field order matches the order the server documents them; encoding/json
// preserves struct order, so the serialized document is deterministic.
// Optional fields are omitted when empty rather than sent as empty strings -
// the server treats key presence as strategy selection.
type ProvisionRequest struct {
	// DeviceName is the display name to register. If absent the server
	// assigns a random name.
	DeviceName string `json:"deviceName,omitempty"`

	// Token is the access token the device wants issued (ACCESS_TOKEN
	// strategy).
	Token string `json:"token,omitempty"`

	// Username, Password and ClientID form the MQTT basic-auth triple
	// (MQTT_BASIC strategy). Any subset may be set.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	ClientID string `json:"clientId,omitempty"`

	// Hash is the X.509 certificate fingerprint (X509_CERTIFICATE strategy).
	Hash string `json:"hash,omitempty"`

	// CredentialsType is the explicit credentials type label, set only when
	// the caller names one.
	CredentialsType string `json:"credentialsType,omitempty"`

	// DeviceKey and DeviceSecret identify the provisioning profile to apply.
	// Both are mandatory; requests without them are rejected before encoding.
	DeviceKey    string `json:"provisionDeviceKey"`
	DeviceSecret string `json:"provisionDeviceSecret"`
}

// EncodeRequest encodes a request document to JSON bytes.
func EncodeRequest(req *ProvisionRequest) ([]byte, error) {
	return json.Marshal(req)
}

// DecodeRequest decodes JSON bytes into a request document.
func DecodeRequest(data []byte) (*ProvisionRequest, error) {
	var req ProvisionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Keys returns the document keys that would be present in the encoded
// request, in encoding order.
func (r *ProvisionRequest) Keys() []string {
	keys := make([]string, 0, MaxRequestKeys)
	if r.DeviceName != "" {
		keys = append(keys, KeyDeviceName)
	}
	if r.Token != "" {
		keys = append(keys, KeyToken)
	}
	if r.Username != "" {
		keys = append(keys, KeyUsername)
	}
	if r.Password != "" {
		keys = append(keys, KeyPassword)
	}
	if r.ClientID != "" {
		keys = append(keys, KeyClientID)
	}
	if r.Hash != "" {
		keys = append(keys, KeyHash)
	}
	if r.CredentialsType != "" {
		keys = append(keys, KeyCredentialsType)
	}
	return append(keys, KeyDeviceKey, KeyDeviceSecret)
}
