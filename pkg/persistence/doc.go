// Package persistence stores credentials issued by the provisioning server.
//
// A provisioned device must survive restarts without re-provisioning, so the
// credentials returned in the provisioning response are written to a JSON
// file and loaded again on startup. Nothing else about the handshake is
// persisted; a missing file simply means the device has not been provisioned
// yet.
package persistence
