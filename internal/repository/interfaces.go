// internal/repository/interfaces.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"wavegen/internal/model"
)

// ErrCaptureNotFound is returned when no capture has the requested id
var ErrCaptureNotFound = errors.New("capture not found")

// CaptureRepository defines capture archive operations
type CaptureRepository interface {
	// Create stores a capture together with its samples
	Create(ctx context.Context, capture *model.Capture) error
	// GetByID returns a capture with its samples
	GetByID(ctx context.Context, id uuid.UUID) (*model.Capture, error)
	// List returns capture summaries, newest first, and the total match count
	List(ctx context.Context, filter *model.CaptureFilter) ([]*model.Capture, int, error)

	// Cleanup
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}
