// internal/protocol/factory.go
package protocol

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"wavegen/internal/config"
)

// NewTCPConfig maps the generator section of the application config
func NewTCPConfig(cfg *config.DeviceConfig) *TCPConfig {
	return &TCPConfig{
		Host:           cfg.Host,
		Port:           cfg.Port,
		KeepAlive:      cfg.KeepAlive,
		ConnectTimeout: cfg.ConnectTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	}
}

// Dial validates the configuration and opens a connection. On failure
// nothing is left open.
func Dial(ctx context.Context, tcpConfig *TCPConfig, logger *zap.Logger) (*TCPConnection, error) {
	if err := validateTCPConfig(tcpConfig); err != nil {
		return nil, err
	}

	logger.Info("Creating TCP protocol",
		zap.String("host", tcpConfig.Host),
		zap.Int("port", tcpConfig.Port),
	)

	conn := NewTCPConnection(tcpConfig, logger)
	if err := conn.Open(ctx); err != nil {
		return nil, err
	}
	return conn, nil
}

// validateTCPConfig validates TCP configuration
func validateTCPConfig(config *TCPConfig) error {
	if config.Host == "" {
		return fmt.Errorf("host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d", config.Port)
	}
	if config.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	return nil
}
