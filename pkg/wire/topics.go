package wire

// Provisioning topics. Both are fixed by the server; every handshake uses the
// same pair regardless of device identity.
const (
	// ProvisionRequestTopic is where devices publish provisioning requests.
	ProvisionRequestTopic = "/provision/request"

	// ProvisionResponseTopic is where the server publishes provisioning
	// responses.
	ProvisionResponseTopic = "/provision/response"
)

// Request document keys.
const (
	KeyDeviceName      = "deviceName"
	KeyDeviceKey       = "provisionDeviceKey"
	KeyDeviceSecret    = "provisionDeviceSecret"
	KeyCredentialsType = "credentialsType"
	KeyToken           = "token"
	KeyUsername        = "username"
	KeyPassword        = "password"
	KeyClientID        = "clientId"
	KeyHash            = "hash"
)

// MaxRequestKeys is the maximum number of entries a request document can
// carry. Implementations with static memory budgets size their buffers with
// this.
const MaxRequestKeys = 9
