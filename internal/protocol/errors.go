// internal/protocol/errors.go
package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpen is returned for operations on a closed or never-opened connection
	ErrNotOpen = errors.New("connection not open")
	// ErrReplyTimeout is returned when no reply arrived within the reply timeout
	ErrReplyTimeout = errors.New("no reply within timeout")
	// ErrPeerClosed is returned when the generator closed the stream
	ErrPeerClosed = errors.New("peer closed connection")
)

// ConnectionError is a transport failure. It is fatal to the connection:
// there is no automatic reconnect.
type ConnectionError struct {
	Op      string
	Addr    string
	Timeout bool
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is or wraps a ConnectionError
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
