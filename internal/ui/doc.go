// Package ui provides terminal UI components for the irblaster CLI.
//
// Most components follow a "render and exit" pattern: a Header describes the
// operation, a Progress tracks the frames of a multi-payload send, and a
// Result box reports the outcome. Runner ties the three together around a
// transmit.Driver.
//
// RenderBitstream and RenderPulseSummary format encoder output for the
// encode and pulses commands.
//
// RemoteModel is the only interactive component. It is a Bubble Tea model
// that lists every command of the remote registry and transmits the selected
// one.
//
// # Logging Integration
//
// zap logging is silent unless IRBLASTER_LOG_LEVEL is set, so the styled
// output is not interleaved with log lines.
package ui
