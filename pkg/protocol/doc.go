// Package protocol is the binary wire format spoken between the thin
// browser client and a server session. Each WebSocket message carries
// one frame:
//
//	type (1 byte) | flags (1 byte) | payload length (uint32, big-endian) | payload
//
// The client sends FrameEvent frames. The server answers with FrameRender
// frames holding the component's HTML and FrameError frames for rejected
// events. Either side may send FrameControl pings; the server closes a
// session with a FrameControl close notice.
//
// Lengths and sequence numbers are uvarints and strings are length
// prefixed. Decoders bound every allocation by the limits in limits.go.
package protocol
