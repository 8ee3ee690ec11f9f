// Package server wires the gin HTTP layer: the GUI websocket route, static
// serving of page resources and the health, status and metrics endpoints.
package server
