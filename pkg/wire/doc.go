// Package wire defines the JSON wire format for the ThingsBoard device
// provisioning exchange.
//
// Provisioning uses plain JSON documents published on two fixed topics:
//   - /provision/request: device to server, at most 9 keys
//   - /provision/response: server to device, credentials or failure
//
// # Field Presence
//
// The request document only carries the keys the chosen credential strategy
// needs. Absent keys are meaningful: a request without any credential field
// asks the server to generate default token credentials. All optional fields
// therefore use omitempty; provisionDeviceKey and provisionDeviceSecret are
// always present.
package wire
