package persistence

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mwesenjak/thingsboard-client-sdk/pkg/wire"
)

// CredentialsVersion is the current version of the credentials file format.
const CredentialsVersion = 1

// ErrNotProvisioned is returned when a response that did not issue
// credentials is converted for storage.
var ErrNotProvisioned = errors.New("response carries no issued credentials")

// DeviceCredentials contains the credentials issued by the provisioning
// server, flattened for storage.
type DeviceCredentials struct {
	// Version is the credentials file format version.
	Version int `json:"version"`

	// SavedAt is when the credentials were last saved.
	SavedAt time.Time `json:"saved_at"`

	// DeviceName is the name the request asked for, if any.
	DeviceName string `json:"device_name,omitempty"`

	// CredentialsType names the kind of credentials issued.
	CredentialsType string `json:"credentials_type"`

	// AccessToken is set for ACCESS_TOKEN credentials.
	AccessToken string `json:"access_token,omitempty"`

	// ClientID, Username and Password are set for MQTT_BASIC credentials.
	ClientID string `json:"client_id,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`

	// CertificateHash is set for X509_CERTIFICATE credentials.
	CertificateHash string `json:"certificate_hash,omitempty"`
}

// CredentialsFromResponse flattens a successful provisioning response into
// storable credentials. MQTT_BASIC responses carry a nested JSON value that
// is unpacked here.
func CredentialsFromResponse(deviceName string, resp *wire.ProvisionResponse) (*DeviceCredentials, error) {
	if !resp.IsSuccess() || resp.CredentialsValue == "" {
		return nil, ErrNotProvisioned
	}

	creds := &DeviceCredentials{
		DeviceName:      deviceName,
		CredentialsType: resp.CredentialsType,
	}

	switch resp.CredentialsType {
	case wire.CredentialsMQTTBasic:
		basic, err := resp.BasicCredentials()
		if err != nil {
			return nil, err
		}
		creds.ClientID = basic.ClientID
		creds.Username = basic.UserName
		creds.Password = basic.Password
	case wire.CredentialsX509:
		creds.CertificateHash = resp.CredentialsValue
	default:
		// ACCESS_TOKEN and anything unrecognized: keep the bare value.
		creds.AccessToken = resp.CredentialsValue
	}

	return creds, nil
}

// CredentialsStore manages persistence of issued credentials to a JSON file.
type CredentialsStore struct {
	mu   sync.Mutex
	path string
}

// NewCredentialsStore creates a new credentials store.
func NewCredentialsStore(path string) *CredentialsStore {
	return &CredentialsStore{path: path}
}

// Save persists the credentials to disk.
func (s *CredentialsStore) Save(creds *DeviceCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	creds.Version = CredentialsVersion
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	// Credentials are secrets: owner read/write only.
	return os.WriteFile(s.path, data, 0600)
}

// Load reads the credentials from disk.
// Returns nil, nil if the file doesn't exist (device not provisioned).
func (s *CredentialsStore) Load() (*DeviceCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	creds := &DeviceCredentials{}
	if err := json.Unmarshal(data, creds); err != nil {
		return nil, err
	}

	return creds, nil
}

// Clear removes the credentials file.
func (s *CredentialsStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
