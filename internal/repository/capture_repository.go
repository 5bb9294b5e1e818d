// internal/repository/capture_repository.go
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"wavegen/internal/database"
	"wavegen/internal/model"
	"wavegen/internal/utils"
)

// captureRepository implements CaptureRepository on PostgreSQL
type captureRepository struct {
	db     *database.DB
	logger *utils.ServiceLogger
}

// NewCaptureRepository creates a new capture repository
func NewCaptureRepository(db *database.DB, logger *zap.Logger) CaptureRepository {
	return &captureRepository{
		db:     db,
		logger: utils.NewServiceLogger(logger, "capture-repository"),
	}
}

// Create archives a capture
func (r *captureRepository) Create(ctx context.Context, capture *model.Capture) error {
	query := `
		INSERT INTO captures (
			id, captured_at, duration_ms, mode, waveform, config,
			num_samples, i_samples, q_samples, stats
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	configJSON, err := json.Marshal(capture.Config)
	if err != nil {
		return fmt.Errorf("failed to encode capture config: %w", err)
	}
	statsJSON, err := json.Marshal(capture.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode capture stats: %w", err)
	}

	samples := capture.Samples
	if samples == nil {
		samples = model.EmptySamples()
	}

	args := []interface{}{
		capture.ID, capture.CapturedAt, capture.Duration.Milliseconds(),
		capture.Mode, capture.Waveform, configJSON,
		samples.NumSamples, pq.Array(samples.ISamples), pq.Array(samples.QSamples), statsJSON,
	}

	start := time.Now()
	_, err = r.db.ExecContext(ctx, query, args...)
	r.logger.LogQuery("insert capture", time.Since(start), err, zap.String("capture_id", capture.ID.String()))
	if err != nil {
		return fmt.Errorf("failed to create capture: %w", err)
	}

	r.logger.Debug("Capture archived",
		zap.String("capture_id", capture.ID.String()),
		zap.Int("num_samples", samples.NumSamples),
	)
	return nil
}

// GetByID retrieves a capture and its samples
func (r *captureRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Capture, error) {
	query := `
		SELECT id, captured_at, duration_ms, mode, waveform, config,
			   num_samples, i_samples, q_samples, stats
		FROM captures WHERE id = $1
	`

	capture := &model.Capture{Samples: &model.DebugSamples{}}
	var (
		durationMs int64
		configJSON []byte
		statsJSON  []byte
	)

	start := time.Now()
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&capture.ID, &capture.CapturedAt, &durationMs, &capture.Mode, &capture.Waveform,
		&configJSON, &capture.Samples.NumSamples,
		pq.Array(&capture.Samples.ISamples), pq.Array(&capture.Samples.QSamples), &statsJSON,
	)
	r.logger.LogQuery("select capture", time.Since(start), err, zap.String("capture_id", id.String()))

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrCaptureNotFound, id)
		}
		return nil, fmt.Errorf("failed to get capture: %w", err)
	}

	capture.Duration = time.Duration(durationMs) * time.Millisecond
	if err := decodeCaptureJSON(capture, configJSON, statsJSON); err != nil {
		return nil, err
	}

	return capture, nil
}

// List returns capture summaries without samples
func (r *captureRepository) List(ctx context.Context, filter *model.CaptureFilter) ([]*model.Capture, int, error) {
	where, args := buildCaptureWhere(filter)

	countQuery := "SELECT COUNT(*) FROM captures" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count captures: %w", err)
	}

	query := `
		SELECT id, captured_at, duration_ms, mode, waveform, config, num_samples, stats
		FROM captures` + where + " ORDER BY captured_at DESC"

	if filter != nil && filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter != nil && filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.logger.LogQuery("list captures", time.Since(start), err, zap.Int("filters", len(args)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list captures: %w", err)
	}
	defer rows.Close()

	var captures []*model.Capture
	for rows.Next() {
		capture := &model.Capture{}
		var (
			durationMs int64
			numSamples int
			configJSON []byte
			statsJSON  []byte
		)
		if err := rows.Scan(
			&capture.ID, &capture.CapturedAt, &durationMs, &capture.Mode, &capture.Waveform,
			&configJSON, &numSamples, &statsJSON,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan capture: %w", err)
		}

		capture.Duration = time.Duration(durationMs) * time.Millisecond
		if err := decodeCaptureJSON(capture, configJSON, statsJSON); err != nil {
			return nil, 0, err
		}
		captures = append(captures, capture)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate captures: %w", err)
	}

	return captures, total, nil
}

// DeleteOlderThan removes captures taken before olderThan
func (r *captureRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, `DELETE FROM captures WHERE captured_at < $1`, olderThan)
	r.logger.LogQuery("delete old captures", time.Since(start), err, zap.Time("older_than", olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to delete old captures: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if deleted > 0 {
		r.logger.Info("Old captures deleted", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

func buildCaptureWhere(filter *model.CaptureFilter) (string, []interface{}) {
	if filter == nil {
		return "", nil
	}

	var (
		conditions []string
		args       []interface{}
	)
	if filter.Mode != nil {
		args = append(args, *filter.Mode)
		conditions = append(conditions, fmt.Sprintf("mode = $%d", len(args)))
	}
	if filter.Since != nil {
		args = append(args, *filter.Since)
		conditions = append(conditions, fmt.Sprintf("captured_at >= $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func decodeCaptureJSON(capture *model.Capture, configJSON, statsJSON []byte) error {
	capture.Config = &model.GeneratorConfig{}
	if err := json.Unmarshal(configJSON, capture.Config); err != nil {
		return fmt.Errorf("failed to decode capture config: %w", err)
	}
	if len(statsJSON) > 0 && string(statsJSON) != "null" {
		capture.Stats = &model.SampleStats{}
		if err := json.Unmarshal(statsJSON, capture.Stats); err != nil {
			return fmt.Errorf("failed to decode capture stats: %w", err)
		}
	}
	return nil
}
