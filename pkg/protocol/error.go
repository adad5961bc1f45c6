package protocol

import "fmt"

// ErrorCode classifies an ErrorMessage.
type ErrorCode uint16

const (
	ErrUnknown         ErrorCode = 0x0000
	ErrInvalidFrame    ErrorCode = 0x0001
	ErrInvalidEvent    ErrorCode = 0x0002
	ErrHandlerNotFound ErrorCode = 0x0003 // no element with the event's HID
	ErrHandlerPanic    ErrorCode = 0x0004
	ErrRateLimited     ErrorCode = 0x0006 // event queue full
	ErrServerError     ErrorCode = 0x0100
)

var errorCodeNames = map[ErrorCode]string{
	ErrInvalidFrame:    "InvalidFrame",
	ErrInvalidEvent:    "InvalidEvent",
	ErrHandlerNotFound: "HandlerNotFound",
	ErrHandlerPanic:    "HandlerPanic",
	ErrRateLimited:     "RateLimited",
	ErrServerError:     "ServerError",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ErrorMessage is the payload of a FrameError. A fatal error is followed by
// the server closing the connection.
//
//	code (uint16) | message (string) | fatal (bool)
type ErrorMessage struct {
	Code    ErrorCode
	Message string
	Fatal   bool
}

func NewError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message}
}

func NewFatalError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{Code: code, Message: message, Fatal: true}
}

func (em *ErrorMessage) Error() string {
	s := fmt.Sprintf("%s: %s", em.Code, em.Message)
	if em.Fatal {
		return "fatal: " + s
	}
	return s
}

func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.PutUint16(uint16(em.Code))
	e.PutString(em.Message)
	e.PutBool(em.Fatal)
	return e.Bytes()
}

func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	var (
		d   = NewDecoder(data)
		em  ErrorMessage
		raw uint16
		err error
	)
	if raw, err = d.ReadUint16(); err != nil {
		return nil, err
	}
	em.Code = ErrorCode(raw)
	if em.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if err = d.finish(); err != nil {
		return nil, err
	}
	return &em, nil
}
