// internal/driver/wavegen/errors.go
package wavegen

import (
	"errors"

	"wavegen/internal/model"
)

// ErrorKind classifies a ProtocolError
type ErrorKind string

const (
	KindBadConfig      ErrorKind = "BAD_CONFIG"
	KindNoConfig       ErrorKind = "NO_CONFIG"
	KindBadCommand     ErrorKind = "BAD_COMMAND"
	KindMalformedReply ErrorKind = "MALFORMED_REPLY"
	KindDebugCorrupt   ErrorKind = "DEBUG_CORRUPT"
	KindDebugFailed    ErrorKind = "DEBUG_FAILED"
)

// Sentinels matched by errors.Is against a *ProtocolError of the same kind
var (
	ErrBadConfig      = errors.New("bad configuration")
	ErrNoConfig       = errors.New("no configuration")
	ErrBadCommand     = errors.New("bad command")
	ErrMalformedReply = errors.New("malformed reply")
	ErrDebugCorrupt   = errors.New("debug capture corrupt")
	ErrDebugFailed    = errors.New("debug capture failed")

	// ErrDecode matches every ProtocolError caused by an undecodable payload
	ErrDecode = errors.New("decode error")
)

var kindSentinels = map[ErrorKind]error{
	KindBadConfig:      ErrBadConfig,
	KindNoConfig:       ErrNoConfig,
	KindBadCommand:     ErrBadCommand,
	KindMalformedReply: ErrMalformedReply,
	KindDebugCorrupt:   ErrDebugCorrupt,
	KindDebugFailed:    ErrDebugFailed,
}

// ProtocolError means the generator answered, but rejected the request or
// sent something that could not be decoded. The connection stays usable.
type ProtocolError struct {
	Kind   ErrorKind
	Op     string
	Retval model.AckResult
	Err    error
}

func (e *ProtocolError) Error() string {
	msg := kindSentinels[e.Kind].Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinel, and ErrDecode for decode failures
func (e *ProtocolError) Is(target error) bool {
	if target == ErrDecode {
		return e.IsDecode()
	}
	return kindSentinels[e.Kind] == target
}

// IsDecode reports whether the payload itself was unusable
func (e *ProtocolError) IsDecode() bool {
	return e.Kind == KindMalformedReply || e.Kind == KindDebugCorrupt
}

// IsFatal reports whether err leaves the client unusable. Everything that
// is not a device-level ProtocolError is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProtocolError
	return !errors.As(err, &pe)
}

// KindOf extracts the ProtocolError kind from err
func KindOf(err error) (ErrorKind, bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

// ackError maps a reply discriminant to its outcome
func ackError(op string, ack model.AckResult) error {
	switch ack {
	case model.AckOK:
		return nil
	case model.AckBadConfig:
		return &ProtocolError{Kind: KindBadConfig, Op: op, Retval: ack}
	case model.AckNoConfig:
		return &ProtocolError{Kind: KindNoConfig, Op: op, Retval: ack}
	case model.AckBadCommand:
		return &ProtocolError{Kind: KindBadCommand, Op: op, Retval: ack}
	case model.AckInvalidMsg:
		return &ProtocolError{Kind: KindMalformedReply, Op: op, Retval: ack,
			Err: errors.New("device could not decode the request")}
	default:
		return &ProtocolError{Kind: KindMalformedReply, Op: op, Retval: ack,
			Err: errors.New("unexpected retval " + string(ack))}
	}
}
