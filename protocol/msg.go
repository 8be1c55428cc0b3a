// Package protocol defines the JSON messages exchanged with camera clients
// over WebSocket.
package protocol

import (
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
)

const (
	// ErrTypeMsgSkip is returned by message handlers that do not handle a
	// given message type.
	ErrTypeMsgSkip = "msg_skip"

	// ErrTypeUnknownMsg reports a message type that no handler knows.
	ErrTypeUnknownMsg = "unknown_msg"

	ErrTypeInvalidMsg = "invalid_msg"

	// ErrTypeInternal is the code of errors that were not given a type.
	ErrTypeInternal = "internal"
)

// Msg is the envelope of every message. Data holds the type specific
// payload.
type Msg struct {
	Type      string          `json:"type"`
	RequestID uint32          `json:"request_id,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMsg creates a message with data encoded as its payload. A nil data
// leaves the payload empty.
func NewMsg(msgType string, requestID uint32, data any) (Msg, error) {
	msg := Msg{
		Type:      msgType,
		RequestID: requestID,
	}

	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Msg{}, errors.New("encoding message data failed").
				WithTag("msg_type", msgType).
				Wrap(err)
		}
		msg.Data = b
	}
	return msg, nil
}

// DataTo decodes the message payload into v.
func (m Msg) DataTo(v any) error {
	if len(m.Data) == 0 {
		return errors.New("message has no data").
			WithType(ErrTypeInvalidMsg).
			WithTag("msg_type", m.Type)
	}

	if err := json.Unmarshal(m.Data, v); err != nil {
		return errors.New("decoding message data failed").
			WithType(ErrTypeInvalidMsg).
			WithTag("msg_type", m.Type).
			Wrap(err)
	}
	return nil
}

// Decode parses a message envelope.
func Decode(b []byte) (Msg, error) {
	var msg Msg
	if err := json.Unmarshal(b, &msg); err != nil {
		return Msg{}, errors.New("decoding message failed").
			WithType(ErrTypeInvalidMsg).
			Wrap(err)
	}

	if msg.Type == "" {
		return Msg{}, errors.New("message has no type").
			WithType(ErrTypeInvalidMsg)
	}
	return msg, nil
}

// Encode returns the JSON encoding of a message.
func Encode(msg Msg) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.New("encoding message failed").
			WithTag("msg_type", msg.Type).
			Wrap(err)
	}
	return b, nil
}

// ResponseSender sends messages to the client that sent the message being
// handled.
type ResponseSender interface {
	// Send encodes data and sends it as a message of the given type.
	Send(msgType string, requestID uint32, data any)

	// SendMsg sends an already built message.
	SendMsg(Msg)
}

// Receiver reads the next message from a client. It returns the number of
// bytes read.
type Receiver func() (Msg, int, error)

// Sender writes a message to a client. It returns the number of bytes
// written.
type Sender func(Msg) (int, error)

// SendError sends an error response built from err to the client. The
// response carries the error message only, without tags or source lines.
func SendError(respond ResponseSender, requestID uint32, err error) {
	respond.Send(MsgTypeErrorResponse, requestID, ErrorResponse{
		Code:    ErrorCode(err, ErrTypeInternal),
		Message: errors.Message(err),
	})
}

// ErrorCode returns the type err was given, or defaultCode when err has none.
// Untyped errors report their Go type name as type, which is never used as a
// code.
func ErrorCode(err error, defaultCode string) string {
	code := errors.Type(err)
	if code == "" || strings.ContainsAny(code, ".*") {
		return defaultCode
	}
	return code
}
