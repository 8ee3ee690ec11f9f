// Package gui manages the websocket-connected display clients and the wire
// protocol spoken to them.
//
// The Hub owns the client set: it fans outgoing protocol deltas out to every
// client, replays the active-namespace state to newly connected ones and
// translates inbound client events into core-bus messages. Wire message
// types are fixed by the mycroft-gui transport protocol and shared by all
// client frameworks (qt5, qt6 and web shells alike).
package gui
