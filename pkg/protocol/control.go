package protocol

import "errors"

// ControlType is the first byte of a FrameControl payload.
type ControlType uint8

const (
	ControlPing  ControlType = 0x01
	ControlPong  ControlType = 0x02
	ControlClose ControlType = 0x20
)

var ErrUnknownControl = errors.New("protocol: unknown control type")

func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlClose:
		return "Close"
	}
	return "Unknown"
}

// CloseReason says why the server is ending a session.
type CloseReason uint8

const (
	CloseNormal         CloseReason = 0x00
	CloseGoingAway      CloseReason = 0x01
	CloseServerShutdown CloseReason = 0x03
	CloseError          CloseReason = 0x04
)

var closeReasonNames = [...]string{
	CloseNormal:         "Normal",
	CloseGoingAway:      "GoingAway",
	CloseServerShutdown: "ServerShutdown",
	CloseError:          "Error",
}

func (cr CloseReason) String() string {
	if int(cr) < len(closeReasonNames) && closeReasonNames[cr] != "" {
		return closeReasonNames[cr]
	}
	return "Unknown"
}

// Control is a ping, a pong or a close notice.
//
//	ping, pong: type (1 byte) | unix millis (uint64)
//	close:      type (1 byte) | reason (1 byte) | message (string)
type Control struct {
	Type      ControlType
	Timestamp uint64
	Reason    CloseReason
	Message   string
}

func NewPing(ts uint64) *Control { return &Control{Type: ControlPing, Timestamp: ts} }

// NewPong answers a ping by echoing its timestamp.
func NewPong(ts uint64) *Control { return &Control{Type: ControlPong, Timestamp: ts} }

func NewClose(reason CloseReason, message string) *Control {
	return &Control{Type: ControlClose, Reason: reason, Message: message}
}

func EncodeControl(c *Control) []byte {
	e := NewEncoder()
	e.PutByte(byte(c.Type))
	if c.Type == ControlClose {
		e.PutByte(byte(c.Reason))
		e.PutString(c.Message)
	} else {
		e.PutUint64(c.Timestamp)
	}
	return e.Bytes()
}

func DecodeControl(data []byte) (*Control, error) {
	d := NewDecoder(data)
	b, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	c := Control{Type: ControlType(b)}
	switch c.Type {
	case ControlPing, ControlPong:
		c.Timestamp, err = d.ReadUint64()
	case ControlClose:
		if b, err = d.ReadByte(); err == nil {
			c.Reason = CloseReason(b)
			c.Message, err = d.ReadString()
		}
	default:
		return nil, ErrUnknownControl
	}
	if err == nil {
		err = d.finish()
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
