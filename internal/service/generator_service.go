// internal/service/generator_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wavegen/internal/config"
	"wavegen/internal/model"
	"wavegen/internal/repository"
	"wavegen/internal/sink"
	"wavegen/internal/utils"
	"wavegen/pkg/driver"
)

// ErrNotConnected is returned when the generator cannot be reached
var ErrNotConnected = errors.New("generator not connected")

// DialFunc opens a new driver for the configured generator
type DialFunc func(ctx context.Context) (driver.GeneratorDriver, error)

// EventPublisher receives generator events
type EventPublisher interface {
	Publish(event model.GeneratorEvent)
}

// GeneratorStatus is a point-in-time view of the service
type GeneratorStatus struct {
	Connected     bool                   `json:"connected"`
	Device        *driver.DeviceInfo     `json:"device,omitempty"`
	Health        *driver.HealthMetrics  `json:"health,omitempty"`
	PendingConfig *model.GeneratorConfig `json:"pending_config"`
	AppliedConfig *model.GeneratorConfig `json:"applied_config,omitempty"`
	LastCaptureID *uuid.UUID             `json:"last_capture_id,omitempty"`
	ArchiveActive bool                   `json:"archive_active"`
}

// GeneratorService owns the pending configuration and the single driver.
// All driver calls are serialised by one mutex.
type GeneratorService struct {
	dial      DialFunc
	repo      repository.CaptureRepository
	publisher EventPublisher
	config    *config.CaptureConfig
	logger    *utils.ServiceLogger

	mutex   sync.Mutex
	driver  driver.GeneratorDriver
	pending *model.GeneratorConfig
	// applied is the last configuration the device accepted on the
	// current connection
	applied *model.GeneratorConfig

	historyMutex sync.RWMutex
	history      []*model.Capture
}

// NewGeneratorService creates a generator service. repo and publisher may
// be nil; without a repository captures are kept in memory only.
func NewGeneratorService(
	dial DialFunc,
	repo repository.CaptureRepository,
	publisher EventPublisher,
	captureConfig *config.CaptureConfig,
	debugEnabled bool,
	logger *zap.Logger,
) *GeneratorService {
	return &GeneratorService{
		dial:      dial,
		repo:      repo,
		publisher: publisher,
		config:    captureConfig,
		logger:    utils.NewServiceLogger(logger, "generator-service"),
		pending:   model.NewGeneratorConfig().EnableDebug(debugEnabled),
	}
}

// Connect opens the driver if it is not already connected
func (s *GeneratorService) Connect(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, err := s.ensureConnected(ctx)
	return err
}

// PendingConfig returns a copy of the configuration the next push will send
func (s *GeneratorService) PendingConfig() *model.GeneratorConfig {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.pending.Clone()
}

// EnableDebug toggles debug capture in the pending configuration without
// pushing it.
func (s *GeneratorService) EnableDebug(enabled bool) *model.GeneratorConfig {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.pending.EnableDebug(enabled)
	return s.pending.Clone()
}

// Configure applies a setter to the pending configuration and pushes it.
// The change stays in the pending configuration even when the device
// rejects it.
func (s *GeneratorService) Configure(ctx context.Context, apply func(cfg *model.GeneratorConfig)) (*model.GeneratorConfig, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	apply(s.pending)
	snapshot := s.pending.Clone()

	drv, err := s.ensureConnected(ctx)
	if err != nil {
		return snapshot, err
	}

	if err := drv.PushConfig(ctx, s.pending); err != nil {
		s.handleDriverError(err)
		s.logger.Warn("Configuration rejected",
			zap.String("config", snapshot.String()),
			zap.Error(err),
		)
		s.publish(model.EventConfigRejected, "warning", map[string]interface{}{
			"config": snapshot,
			"error":  err.Error(),
		})
		return snapshot, err
	}

	s.applied = snapshot.Clone()
	s.logger.Info("Configuration applied", zap.String("config", snapshot.String()))
	s.publish(model.EventConfigApplied, "info", map[string]interface{}{
		"config": snapshot,
	})
	return snapshot, nil
}

// Start starts waveform generation
func (s *GeneratorService) Start(ctx context.Context) error {
	return s.control(ctx, model.CommandStart, func(drv driver.GeneratorDriver) error {
		return drv.Start(ctx)
	})
}

// Stop halts waveform generation
func (s *GeneratorService) Stop(ctx context.Context) error {
	return s.control(ctx, model.CommandStop, func(drv driver.GeneratorDriver) error {
		return drv.Stop(ctx)
	})
}

func (s *GeneratorService) control(ctx context.Context, cmd model.ControlCommand, call func(driver.GeneratorDriver) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	drv, err := s.ensureConnected(ctx)
	if err != nil {
		return err
	}

	if err := call(drv); err != nil {
		s.handleDriverError(err)
		s.publish(model.EventCommandFailed, "warning", map[string]interface{}{
			"command": cmd,
			"error":   err.Error(),
		})
		return err
	}

	s.publish(model.EventCommandCompleted, "info", map[string]interface{}{
		"command": cmd,
	})
	return nil
}

// Trigger arms a debug capture and records the burst that comes back
func (s *GeneratorService) Trigger(ctx context.Context) (*model.Capture, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	drv, err := s.ensureConnected(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	samples, err := drv.TriggerAndCollect(ctx)
	if err != nil {
		s.handleDriverError(err)
		s.publish(model.EventCaptureFailed, "warning", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	running := s.applied
	if running == nil {
		running = s.pending
	}
	capture := &model.Capture{
		ID:         uuid.New(),
		CapturedAt: start,
		Duration:   time.Since(start),
		Mode:       running.Mode,
		Waveform:   running.WaveformKind(),
		Config:     running.Clone(),
		Samples:    samples,
		Stats:      sink.Summarize(samples),
	}

	s.remember(capture)
	if s.repo != nil {
		if err := s.repo.Create(ctx, capture); err != nil {
			s.logger.Error("Failed to archive capture",
				zap.String("capture_id", capture.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Capture completed",
		zap.String("capture_id", capture.ID.String()),
		zap.Int("num_samples", samples.NumSamples),
		zap.Duration("duration", capture.Duration),
	)
	s.publish(model.EventCaptureCompleted, "info", map[string]interface{}{
		"capture_id":     capture.ID.String(),
		"num_samples":    samples.NumSamples,
		"rms_amplitude":  capture.Stats.RMSAmplitude,
		"peak_amplitude": capture.Stats.PeakAmplitude,
	})

	return capture, nil
}

// GetCapture looks a capture up in memory, then in the archive
func (s *GeneratorService) GetCapture(ctx context.Context, id uuid.UUID) (*model.Capture, error) {
	s.historyMutex.RLock()
	for _, capture := range s.history {
		if capture.ID == id {
			s.historyMutex.RUnlock()
			return capture, nil
		}
	}
	s.historyMutex.RUnlock()

	if s.repo == nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrCaptureNotFound, id)
	}
	return s.repo.GetByID(ctx, id)
}

// ListCaptures lists archived captures, or the in-memory history when no
// archive is configured. Newest first.
func (s *GeneratorService) ListCaptures(ctx context.Context, filter *model.CaptureFilter) ([]*model.Capture, int, error) {
	if s.repo != nil {
		return s.repo.List(ctx, filter)
	}

	s.historyMutex.RLock()
	defer s.historyMutex.RUnlock()

	var matched []*model.Capture
	for k := len(s.history) - 1; k >= 0; k-- {
		capture := s.history[k]
		if filter != nil && filter.Mode != nil && capture.Mode != *filter.Mode {
			continue
		}
		if filter != nil && filter.Since != nil && capture.CapturedAt.Before(*filter.Since) {
			continue
		}
		matched = append(matched, capture)
	}

	total := len(matched)
	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(matched) {
				matched = nil
			} else {
				matched = matched[filter.Offset:]
			}
		}
		if filter.Limit > 0 && len(matched) > filter.Limit {
			matched = matched[:filter.Limit]
		}
	}

	return matched, total, nil
}

// Status reports connection state and driver health
func (s *GeneratorService) Status() *GeneratorStatus {
	s.mutex.Lock()
	status := &GeneratorStatus{
		PendingConfig: s.pending.Clone(),
		ArchiveActive: s.repo != nil,
	}
	if s.applied != nil {
		status.AppliedConfig = s.applied.Clone()
	}
	if s.driver != nil {
		status.Connected = s.driver.IsConnected()
		status.Device = s.driver.GetDeviceInfo()
		status.Health = s.driver.GetHealthMetrics()
	}
	s.mutex.Unlock()

	s.historyMutex.RLock()
	if n := len(s.history); n > 0 {
		id := s.history[n-1].ID
		status.LastCaptureID = &id
	}
	s.historyMutex.RUnlock()

	return status
}

// RunCleanup prunes captures older than the retention period until ctx is
// done.
func (s *GeneratorService) RunCleanup(ctx context.Context) error {
	if s.config.CleanupInterval <= 0 || s.config.Retention <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.cleanup(ctx, time.Now().Add(-s.config.Retention))
		}
	}
}

func (s *GeneratorService) cleanup(ctx context.Context, cutoff time.Time) {
	s.historyMutex.Lock()
	kept := s.history[:0]
	for _, capture := range s.history {
		if !capture.CapturedAt.Before(cutoff) {
			kept = append(kept, capture)
		}
	}
	s.history = kept
	s.historyMutex.Unlock()

	if s.repo == nil {
		return
	}
	if _, err := s.repo.DeleteOlderThan(ctx, cutoff); err != nil {
		s.logger.Error("Capture cleanup failed", zap.Error(err))
	}
}

// Close stops nothing on the device; it only drops the connection
func (s *GeneratorService) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.driver == nil {
		return nil
	}
	err := s.driver.Close()
	s.driver = nil
	return err
}

// ensureConnected returns the live driver, dialing a new one if the last
// connection was lost. Callers hold s.mutex.
func (s *GeneratorService) ensureConnected(ctx context.Context) (driver.GeneratorDriver, error) {
	if s.driver != nil && s.driver.IsConnected() {
		return s.driver, nil
	}
	if s.driver != nil {
		s.driver.Close()
		s.driver = nil
	}

	drv, err := s.dial(ctx)
	if err != nil {
		s.logger.Error("Failed to connect to generator", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrNotConnected, err)
	}

	s.driver = drv
	// a fresh session starts unconfigured
	s.applied = nil
	info := drv.GetDeviceInfo()
	s.logger.Info("Generator connected", zap.String("address", info.Address))
	s.publish(model.EventGeneratorConnected, "info", map[string]interface{}{
		"address": info.Address,
	})
	return drv, nil
}

// handleDriverError drops a driver whose connection did not survive err
func (s *GeneratorService) handleDriverError(err error) {
	if s.driver == nil || s.driver.IsConnected() {
		return
	}

	address := s.driver.GetDeviceInfo().Address
	s.driver.Close()
	s.driver = nil

	s.logger.Error("Generator connection lost", zap.String("address", address), zap.Error(err))
	s.publish(model.EventGeneratorDisconnected, "error", map[string]interface{}{
		"address": address,
		"error":   err.Error(),
	})
}

func (s *GeneratorService) remember(capture *model.Capture) {
	size := s.config.HistorySize
	if size <= 0 {
		return
	}

	s.historyMutex.Lock()
	defer s.historyMutex.Unlock()

	s.history = append(s.history, capture)
	if len(s.history) > size {
		s.history = append(s.history[:0:0], s.history[len(s.history)-size:]...)
	}
}

func (s *GeneratorService) publish(eventType model.EventType, severity string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(model.NewGeneratorEvent(eventType, severity, data))
}
