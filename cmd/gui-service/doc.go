// Package main is the entry point for the GUI service.
//
// The service bridges the core messagebus and the display clients: skills
// publish show/hide/update requests on the bus, the service maintains the
// resulting namespace stack and streams wire-protocol deltas to every
// connected display over websocket.
//
// Usage:
//
//	# defaults (websocket on :18181, core bus at 127.0.0.1:8181)
//	./gui-service
//
//	# with a config file, re-read on change
//	./gui-service -config /etc/voiceshell/gui.yaml
//
// Environment variables (GUI_PORT, BUS_HOST, LOG_LEVEL, ...) provide the
// baseline configuration; the file overlays it.
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
