// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventGeneratorConnected    EventType = "GENERATOR_CONNECTED"
	EventGeneratorDisconnected EventType = "GENERATOR_DISCONNECTED"
	EventConfigApplied         EventType = "CONFIG_APPLIED"
	EventConfigRejected        EventType = "CONFIG_REJECTED"
	EventCommandCompleted      EventType = "COMMAND_COMPLETED"
	EventCommandFailed         EventType = "COMMAND_FAILED"
	EventCaptureCompleted      EventType = "CAPTURE_COMPLETED"
	EventCaptureFailed         EventType = "CAPTURE_FAILED"
)

// GeneratorEvent is published whenever the generator state changes
type GeneratorEvent struct {
	ID        uuid.UUID              `json:"id"`
	EventType EventType              `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Severity  string                 `json:"severity"` // info, warning, error
}

// NewGeneratorEvent stamps a new event
func NewGeneratorEvent(eventType EventType, severity string, data map[string]interface{}) GeneratorEvent {
	return GeneratorEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Data:      data,
		Timestamp: time.Now(),
		Source:    "wavegen",
		Severity:  severity,
	}
}

