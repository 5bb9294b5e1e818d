// internal/model/command.go
package model

// ControlCommand is a transient request sent to a running generator
type ControlCommand string

const (
	CommandStart        ControlCommand = "START"
	CommandStop         ControlCommand = "STOP"
	CommandTriggerDebug ControlCommand = "TRIGGER_DEBUG"
	// CommandBrokenConn tells the firmware the client is going away
	CommandBrokenConn ControlCommand = "BROKEN_CONN"
)

// AckResult is the discriminant carried by a reply envelope
type AckResult string

const (
	AckOK           AckResult = "ACK"
	AckBadConfig    AckResult = "BAD_CONFIG"
	AckNoConfig     AckResult = "NO_CONFIG"
	AckBadCommand   AckResult = "BAD_COMMAND"
	AckInvalidMsg   AckResult = "INVALID_MSG"
	AckDebugIsValid AckResult = "DEBUG_IS_VALID"
	AckDebugError   AckResult = "DEBUG_ERROR"
	AckUnknown      AckResult = "UNKNOWN"
)
