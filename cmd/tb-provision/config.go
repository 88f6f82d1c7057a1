package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mwesenjak/thingsboard-client-sdk/pkg/provision"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/wire"
)

// Config is the YAML configuration for tb-provision.
type Config struct {
	// DeviceName is the optional display name to register.
	DeviceName string `yaml:"device_name"`

	// ProvisionKey and ProvisionSecret identify the device profile.
	ProvisionKey    string `yaml:"provision_key"`
	ProvisionSecret string `yaml:"provision_secret"`

	// Strategy selects the credential strategy: none, token, basic, x509.
	Strategy string `yaml:"strategy"`

	// CredentialsType is the optional explicit credentials type label.
	CredentialsType string `yaml:"credentials_type"`

	// Token is the requested access token (strategy: token).
	Token string `yaml:"token"`

	// Username, Password and ClientID are the requested MQTT basic
	// credentials (strategy: basic).
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	ClientID string `yaml:"client_id"`

	// CertificateHash is the requested certificate fingerprint
	// (strategy: x509).
	CertificateHash string `yaml:"certificate_hash"`

	// CredentialsFile is where issued credentials are stored.
	CredentialsFile string `yaml:"credentials_file"`

	// EventsFile is the optional protocol event capture file.
	EventsFile string `yaml:"events_file"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{Strategy: "none"}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// credentials builds the credential strategy from the configuration.
func (c *Config) credentials() (provision.Credentials, error) {
	switch c.Strategy {
	case "", "none":
		return provision.NoCredentials{}, nil
	case "token":
		return provision.AccessToken{Token: c.Token}, nil
	case "basic":
		return provision.BasicAuth{
			Username: c.Username,
			Password: c.Password,
			ClientID: c.ClientID,
		}, nil
	case "x509":
		return provision.CertificateHash{Hash: c.CertificateHash}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want none, token, basic or x509)", c.Strategy)
	}
}

// Callback builds the provisioning callback described by the configuration.
func (c *Config) Callback(handler provision.ResponseHandler) (*provision.Callback, error) {
	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}

	return &provision.Callback{
		DeviceKey:       c.ProvisionKey,
		DeviceSecret:    c.ProvisionSecret,
		DeviceName:      c.DeviceName,
		CredentialsType: c.CredentialsType,
		Credentials:     creds,
		Handler:         handler,
	}, nil
}

// Request builds the request document described by the configuration,
// without any transport interaction.
func (c *Config) Request() (*wire.ProvisionRequest, error) {
	cb, err := c.Callback(nil)
	if err != nil {
		return nil, err
	}
	return provision.BuildRequest(cb)
}
