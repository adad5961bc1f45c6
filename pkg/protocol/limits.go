package protocol

// Allocation limits to prevent DoS attacks via malicious length prefixes.
const (
	// DefaultMaxAllocation is the largest string the decoder will allocate (4MB).
	DefaultMaxAllocation = 4 * 1024 * 1024

	// MaxPayloadSize is the largest frame payload accepted (4MB).
	MaxPayloadSize = DefaultMaxAllocation

	// MaxEventValueSize bounds the value carried by a single input event.
	MaxEventValueSize = 64 * 1024
)
