package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrAllocationTooLarge = errors.New("protocol: allocation size exceeds limit")
	ErrTrailingBytes      = errors.New("protocol: trailing bytes after payload")
)

// Encoder appends payload fields to a growing buffer. Strings are a
// uvarint length followed by the bytes; fixed-width integers are
// big-endian.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes returns the encoded payload. It aliases the encoder's buffer.
func (e *Encoder) Bytes() []byte { return e.buf }

func (e *Encoder) PutByte(b byte) { e.buf = append(e.buf, b) }
func (e *Encoder) PutUvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }
func (e *Encoder) PutUint16(v uint16) { e.buf = binary.BigEndian.AppendUint16(e.buf, v) }
func (e *Encoder) PutUint64(v uint64) { e.buf = binary.BigEndian.AppendUint64(e.buf, v) }

func (e *Encoder) PutString(s string) {
	e.PutUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *Encoder) PutBool(b bool) {
	var v byte
	if b {
		v = 1
	}
	e.PutByte(v)
}

// Decoder reads payload fields written by an Encoder. Every read past the
// end of the buffer fails with io.ErrUnexpectedEOF.
type Decoder struct {
	buf []byte
	off int
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }

// EOF reports whether the whole buffer has been read.
func (d *Decoder) EOF() bool { return d.Remaining() <= 0 }

// take consumes the next n bytes.
func (d *Decoder) take(n int) ([]byte, error) {
	if n > d.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) ReadByte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadUvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.off:])
	switch {
	case n == 0:
		return 0, io.ErrUnexpectedEOF
	case n < 0:
		return 0, ErrVarintOverflow
	}
	d.off += n
	return v, nil
}

// ReadBool treats any non-zero byte as true.
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	return b != 0, err
}

func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadString reads a string of at most DefaultMaxAllocation bytes.
func (d *Decoder) ReadString() (string, error) {
	return d.ReadStringMax(DefaultMaxAllocation)
}

// ReadStringMax fails with ErrAllocationTooLarge before allocating a
// string longer than max.
func (d *Decoder) ReadStringMax(max int) (string, error) {
	n, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(max) {
		return "", ErrAllocationTooLarge
	}
	if n > uint64(d.Remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	b, _ := d.take(int(n))
	return string(b), nil
}

// finish rejects payloads with unread bytes.
func (d *Decoder) finish() error {
	if !d.EOF() {
		return ErrTrailingBytes
	}
	return nil
}
