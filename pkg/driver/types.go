// pkg/driver/types.go
package driver

import "time"

// DeviceInfo describes the connected generator
type DeviceInfo struct {
	Address     string    `json:"address"`
	Protocol    string    `json:"protocol"`
	ConnectedAt time.Time `json:"connected_at"`
}

// HealthMetrics contains device health information
type HealthMetrics struct {
	Connected       bool          `json:"connected"`
	ResponseTime    time.Duration `json:"response_time"`
	SuccessRate     float64       `json:"success_rate"` // 0.0-1.0
	ErrorCount      int64         `json:"error_count"`
	RejectionCount  int64         `json:"rejection_count"`
	TotalOperations int64         `json:"total_operations"`
	CaptureCount    int64         `json:"capture_count"`
	LastError       string        `json:"last_error,omitempty"`
	LastErrorTime   *time.Time    `json:"last_error_time,omitempty"`
	LastSuccessTime *time.Time    `json:"last_success_time,omitempty"`
	BytesWritten    int64         `json:"bytes_written"`
	BytesRead       int64         `json:"bytes_read"`
	LastBurstBytes  int64         `json:"last_burst_bytes"`
}
