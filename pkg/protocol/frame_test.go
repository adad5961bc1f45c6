package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrameEncodeDecode(t *testing.T) {
	f := &Frame{Type: FrameRender, Flags: FlagFinal, Payload: []byte("hello")}
	data := f.Encode()

	if len(data) != FrameHeaderSize+5 {
		t.Fatalf("encoded length = %d, want %d", len(data), FrameHeaderSize+5)
	}
	if data[0] != byte(FrameRender) || data[1] != byte(FlagFinal) {
		t.Errorf("header = %v", data[:2])
	}
	if !bytes.Equal(data[2:6], []byte{0, 0, 0, 5}) {
		t.Errorf("length bytes = %v, want big-endian 5", data[2:6])
	}

	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if got.Type != FrameRender || !got.Flags.Has(FlagFinal) || string(got.Payload) != "hello" {
		t.Errorf("DecodeFrame() = %+v", got)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	valid := NewFrame(FrameEvent, []byte{1, 2, 3}).Encode()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short header", []byte{0x01, 0x00}, io.ErrUnexpectedEOF},
		{"truncated payload", valid[:len(valid)-1], io.ErrUnexpectedEOF},
		{"extra bytes", append(append([]byte{}, valid...), 0xFF), io.ErrUnexpectedEOF},
		{"unknown type", []byte{0x7F, 0, 0, 0, 0, 0}, ErrInvalidFrameType},
		{"payload too large", []byte{0x01, 0, 0xFF, 0xFF, 0xFF, 0xFF}, ErrFrameTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeFrame(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("DecodeFrame() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameEvent, EncodeEvent(&Event{Seq: 1, Type: EventInput, HID: "h3", Value: "test"})),
		NewFrame(FrameControl, EncodeControl(NewPing(99))),
		NewFrame(FrameError, nil),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame() error = %v", err)
		}
	}
	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		if got.Type != want.Type || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("frame #%d = %+v, want %+v", i, got, want)
		}
	}
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("ReadFrame() at end = %v, want io.EOF", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := map[FrameType]string{
		FrameEvent:      "Event",
		FrameRender:     "Render",
		FrameControl:    "Control",
		FrameError:      "Error",
		FrameType(0x7F): "Unknown",
	}
	for ft, want := range tests {
		if ft.String() != want {
			t.Errorf("FrameType(%d).String() = %q, want %q", ft, ft.String(), want)
		}
	}
}
