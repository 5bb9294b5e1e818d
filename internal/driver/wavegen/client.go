// internal/driver/wavegen/client.go
package wavegen

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"wavegen/internal/config"
	"wavegen/internal/protocol"
	"wavegen/internal/utils"
	"wavegen/pkg/driver"
)

// Options is the read policy of a client
type Options struct {
	// ReplyTimeout bounds the wait for an ack
	ReplyTimeout time.Duration
	// IdleTimeout is the silence that ends a debug burst
	IdleTimeout time.Duration
	// AckBufferSize caps a single ack read
	AckBufferSize int
	// ChunkSize caps each read of a debug burst
	ChunkSize int
}

// OptionsFromConfig maps the generator section of the application config
func OptionsFromConfig(cfg *config.DeviceConfig) Options {
	return Options{
		ReplyTimeout:  cfg.ReplyTimeout,
		IdleTimeout:   cfg.IdleTimeout,
		AckBufferSize: cfg.AckBufferSize,
		ChunkSize:     cfg.ChunkSize,
	}
}

// Client drives one generator over one connection. One operation at a
// time: callers that share a Client must serialise their calls.
type Client struct {
	transport   protocol.FrameTransport
	options     Options
	logger      *utils.DeviceLogger
	connectedAt time.Time

	metricsMutex sync.RWMutex
	metrics      driver.HealthMetrics
}

// Connect dials the generator described by cfg. A failed connect returns a
// *protocol.ConnectionError and no client.
func Connect(ctx context.Context, cfg *config.DeviceConfig, logger *zap.Logger) (*Client, error) {
	tcpConfig := protocol.NewTCPConfig(cfg)
	deviceLogger := utils.NewDeviceLogger(logger, tcpConfig.Address())

	conn, err := protocol.Dial(ctx, tcpConfig, logger)
	if err != nil {
		deviceLogger.LogConnection("connect", false, err)
		return nil, err
	}
	deviceLogger.LogConnection("connect", true, nil)

	return NewClient(conn, OptionsFromConfig(cfg), logger), nil
}

// NewClient wraps an already open transport
func NewClient(transport protocol.FrameTransport, options Options, logger *zap.Logger) *Client {
	return &Client{
		transport:   transport,
		options:     options,
		logger:      utils.NewDeviceLogger(logger, transport.Address()),
		connectedAt: time.Now(),
	}
}

// IsConnected reports whether the transport is still open
func (c *Client) IsConnected() bool {
	return c.transport.IsOpen()
}

// GetDeviceInfo describes the peer
func (c *Client) GetDeviceInfo() *driver.DeviceInfo {
	return &driver.DeviceInfo{
		Address:     c.transport.Address(),
		Protocol:    "tcp",
		ConnectedAt: c.connectedAt,
	}
}

// GetHealthMetrics returns a snapshot of exchange statistics
func (c *Client) GetHealthMetrics() *driver.HealthMetrics {
	c.metricsMutex.RLock()
	metrics := c.metrics
	c.metricsMutex.RUnlock()

	stats := c.transport.Stats()
	metrics.Connected = c.transport.IsOpen()
	metrics.BytesWritten = stats.BytesWritten
	metrics.BytesRead = stats.BytesRead
	metrics.LastBurstBytes = stats.LastBurstBytes
	if metrics.TotalOperations > 0 {
		failed := metrics.ErrorCount + metrics.RejectionCount
		metrics.SuccessRate = float64(metrics.TotalOperations-failed) / float64(metrics.TotalOperations)
	}

	return &metrics
}

// Close releases the connection
func (c *Client) Close() error {
	err := c.transport.Close()
	c.logger.LogConnection("close", err == nil, err)
	return err
}

func (c *Client) recordOperation(op string, start time.Time, err error) {
	duration := time.Since(start)
	now := time.Now()

	c.metricsMutex.Lock()
	c.metrics.TotalOperations++
	c.metrics.ResponseTime = duration
	switch {
	case err == nil:
		c.metrics.LastSuccessTime = &now
	case IsFatal(err):
		c.metrics.ErrorCount++
		c.metrics.LastError = err.Error()
		c.metrics.LastErrorTime = &now
	default:
		c.metrics.RejectionCount++
		c.metrics.LastError = err.Error()
		c.metrics.LastErrorTime = &now
	}
	c.metricsMutex.Unlock()

	c.logger.LogOperation(op, duration, err == nil, err)
}

func (c *Client) recordCapture() {
	c.metricsMutex.Lock()
	c.metrics.CaptureCount++
	c.metricsMutex.Unlock()
}
