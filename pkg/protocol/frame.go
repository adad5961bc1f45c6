package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// FrameHeaderSize is the length of the header preceding every payload:
// type (1 byte) | flags (1 byte) | payload length (uint32).
const FrameHeaderSize = 6

type FrameType uint8

const (
	FrameEvent   FrameType = 0x01 // client to server
	FrameRender  FrameType = 0x02 // server to client
	FrameControl FrameType = 0x03
	FrameError   FrameType = 0x05 // server to client
)

var frameTypeNames = map[FrameType]string{
	FrameEvent:   "Event",
	FrameRender:  "Render",
	FrameControl: "Control",
	FrameError:   "Error",
}

func (ft FrameType) String() string {
	if name, ok := frameTypeNames[ft]; ok {
		return name
	}
	return "Unknown"
}

func (ft FrameType) valid() bool {
	_, ok := frameTypeNames[ft]
	return ok
}

type FrameFlags uint8

const (
	FlagFinal    FrameFlags = 0x04
	FlagPriority FrameFlags = 0x08
)

func (ff FrameFlags) Has(flag FrameFlags) bool { return ff&flag != 0 }

var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame is one WebSocket message.
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// Encode returns the header followed by the payload.
func (f *Frame) Encode() []byte {
	buf := make([]byte, 0, FrameHeaderSize+len(f.Payload))
	buf = append(buf, byte(f.Type), byte(f.Flags))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(f.Payload)))
	return append(buf, f.Payload...)
}

// parseHeader validates a frame header and returns its payload length.
func parseHeader(h []byte) (FrameType, FrameFlags, int, error) {
	ft := FrameType(h[0])
	if !ft.valid() {
		return 0, 0, 0, ErrInvalidFrameType
	}
	n := binary.BigEndian.Uint32(h[2:FrameHeaderSize])
	if n > MaxPayloadSize {
		return 0, 0, 0, ErrFrameTooLarge
	}
	return ft, FrameFlags(h[1]), int(n), nil
}

// DecodeFrame decodes a WebSocket message holding exactly one frame. The
// returned payload is a copy.
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) < FrameHeaderSize {
		return nil, io.ErrUnexpectedEOF
	}
	ft, flags, n, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data)-FrameHeaderSize != n {
		return nil, io.ErrUnexpectedEOF
	}
	return &Frame{Type: ft, Flags: flags, Payload: append([]byte(nil), data[FrameHeaderSize:]...)}, nil
}

// ReadFrame reads the next frame from a stream. It returns io.EOF only
// when the stream ends between frames.
func ReadFrame(r io.Reader) (*Frame, error) {
	var header [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	ft, flags, n, err := parseHeader(header[:])
	if err != nil {
		return nil, err
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return &Frame{Type: ft, Flags: flags, Payload: payload}, nil
}

func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
