// internal/protocol/protocol.go
package protocol

import (
	"context"
	"time"
)

// FrameTransport is a stream connection to the generator.
//
// Two read operations exist because the device answers in two shapes: short
// acks that must arrive within a reply timeout, and unframed bulk bursts
// whose end is only visible as silence on the line.
type FrameTransport interface {
	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Data communication
	SendFrame(ctx context.Context, data []byte) error
	ReceiveFixed(ctx context.Context, maxBytes int, replyTimeout time.Duration) ([]byte, error)
	ReceiveUntilIdle(ctx context.Context, chunkCap int, idleTimeout time.Duration) ([]byte, error)

	// Health and diagnostics
	Address() string
	Stats() ProtocolStats
}

// ProtocolStats provides protocol-level statistics
type ProtocolStats struct {
	BytesWritten   int64         `json:"bytes_written"`
	BytesRead      int64         `json:"bytes_read"`
	OperationCount int64         `json:"operation_count"`
	ErrorCount     int64         `json:"error_count"`
	BurstCount     int64         `json:"burst_count"`
	LastBurstBytes int64         `json:"last_burst_bytes"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
	IsConnected    bool          `json:"is_connected"`
}
