// Package bridge exposes an IR transmitter over a websocket so other hosts
// can send AEHA frames through it.
//
// The server (irblaster-bridge) owns a local peripheral, usually a LIRC
// device, and accepts JSON text messages on /ws:
//
//	{"type":"pulses","id":1,"pulses":[3400,1750,436,...]}
//	{"type":"command","id":2,"customer_code":"23CB","payloads":["200002"]}
//
// Each request is answered with {"type":"done","id":N} once the
// transmission has finished, or {"type":"error","id":N,"error":"..."}.
// Requests from all connections are serialised through one transmit.Driver.
// GET /healthz reports the bridge ID, version and counters.
//
// When advertising is enabled the server registers "_irblaster._tcp" over
// mDNS with id, version and path TXT records (see package discovery).
//
// Client is the other end: a transmit.Peripheral that forwards each pulse
// frame to a bridge, so a local transmit.Driver drives a remote LED with the
// same frame pacing as a local one.
package bridge
