package wire_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/mwesenjak/thingsboard-client-sdk/pkg/wire"
)

// TestEncodeRequest_NameOnly verifies a request with only a device name
// carries exactly the three expected keys.
func TestEncodeRequest_NameOnly(t *testing.T) {
	req := &wire.ProvisionRequest{
		DeviceName:   "dev1",
		DeviceKey:    "K",
		DeviceSecret: "S",
	}

	data, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to decode document: %v", err)
	}

	expected := map[string]string{
		"deviceName":            "dev1",
		"provisionDeviceKey":    "K",
		"provisionDeviceSecret": "S",
	}
	if !reflect.DeepEqual(doc, expected) {
		t.Errorf("Document: expected %v, got %v", expected, doc)
	}
}

// TestEncodeRequest_BasicAuthSubset verifies that only the non-empty
// basic-auth fields are emitted.
func TestEncodeRequest_BasicAuthSubset(t *testing.T) {
	req := &wire.ProvisionRequest{
		DeviceKey:    "K",
		DeviceSecret: "S",
		Username:     "u",
		Password:     "p",
	}

	data, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	var doc map[string]string
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to decode document: %v", err)
	}

	expected := map[string]string{
		"provisionDeviceKey":    "K",
		"provisionDeviceSecret": "S",
		"username":              "u",
		"password":              "p",
	}
	if !reflect.DeepEqual(doc, expected) {
		t.Errorf("Document: expected %v, got %v", expected, doc)
	}
}

// TestRequestKeys verifies key presence tracking for each optional field.
func TestRequestKeys(t *testing.T) {
	tests := []struct {
		name     string
		req      wire.ProvisionRequest
		expected []string
	}{
		{
			name:     "mandatory only",
			req:      wire.ProvisionRequest{DeviceKey: "K", DeviceSecret: "S"},
			expected: []string{"provisionDeviceKey", "provisionDeviceSecret"},
		},
		{
			name: "access token",
			req:  wire.ProvisionRequest{DeviceKey: "K", DeviceSecret: "S", Token: "tok", CredentialsType: wire.CredentialsAccessToken},
			expected: []string{
				"token", "credentialsType", "provisionDeviceKey", "provisionDeviceSecret",
			},
		},
		{
			name: "certificate hash",
			req:  wire.ProvisionRequest{DeviceKey: "K", DeviceSecret: "S", Hash: "ab:cd"},
			expected: []string{
				"hash", "provisionDeviceKey", "provisionDeviceSecret",
			},
		},
		{
			name: "full basic auth with name",
			req: wire.ProvisionRequest{
				DeviceName: "dev", DeviceKey: "K", DeviceSecret: "S",
				Username: "u", Password: "p", ClientID: "c",
			},
			expected: []string{
				"deviceName", "username", "password", "clientId",
				"provisionDeviceKey", "provisionDeviceSecret",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.Keys()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Keys: expected %v, got %v", tt.expected, got)
			}
			if len(got) > wire.MaxRequestKeys {
				t.Errorf("Keys: %d entries exceeds MaxRequestKeys", len(got))
			}
		})
	}
}

// TestDecodeRequest_RoundTrip verifies a fully populated request survives a
// round trip and stays within the key budget.
func TestDecodeRequest_RoundTrip(t *testing.T) {
	req := &wire.ProvisionRequest{
		DeviceName:      "dev",
		Token:           "tok",
		Username:        "u",
		Password:        "p",
		ClientID:        "c",
		Hash:            "ff:ee",
		CredentialsType: wire.CredentialsAccessToken,
		DeviceKey:       "K",
		DeviceSecret:    "S",
	}

	if got := len(req.Keys()); got != wire.MaxRequestKeys {
		t.Fatalf("Keys: expected %d entries, got %d", wire.MaxRequestKeys, got)
	}

	data, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}

	decoded, err := wire.DecodeRequest(data)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !reflect.DeepEqual(decoded, req) {
		t.Errorf("Round trip: expected %+v, got %+v", req, decoded)
	}
}
