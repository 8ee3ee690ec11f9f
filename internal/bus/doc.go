// Package bus provides the core messagebus client.
//
// Messages are JSON objects with a type, a data payload and a routing
// context. Two Client implementations exist:
//   - WebsocketClient: dials the external core messagebus
//   - Loopback: in-process dispatch for tests and embedded deployments
//
// Emissions loop back through the bus, so subscribers see their own
// service's messages exactly like any other bus participant's.
package bus
