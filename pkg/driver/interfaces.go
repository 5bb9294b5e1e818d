// pkg/driver/interfaces.go
package driver

import (
	"context"

	"wavegen/internal/model"
)

// GeneratorDriver is the remote-control surface of a waveform generator.
// Implementations are not safe for concurrent use except for IsConnected,
// GetDeviceInfo and GetHealthMetrics.
type GeneratorDriver interface {
	// Configuration
	PushConfig(ctx context.Context, cfg *model.GeneratorConfig) error

	// Control
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	TriggerAndCollect(ctx context.Context) (*model.DebugSamples, error)

	// Health and monitoring
	IsConnected() bool
	GetDeviceInfo() *DeviceInfo
	GetHealthMetrics() *HealthMetrics

	// Cleanup
	Close() error
}
