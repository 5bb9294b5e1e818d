// internal/model/capture.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// DebugSamples is one decoded debug burst. NumSamples <= len(ISamples) == len(QSamples).
type DebugSamples struct {
	ISamples   []int32 `json:"i_samples"`
	QSamples   []int32 `json:"q_samples"`
	NumSamples int     `json:"num_samples"`
}

// EmptySamples is what a burst without data decodes to
func EmptySamples() *DebugSamples {
	return &DebugSamples{ISamples: []int32{}, QSamples: []int32{}}
}

// Valid returns the first NumSamples pairs
func (d *DebugSamples) Valid() (i, q []int32) {
	n := d.NumSamples
	if n > len(d.ISamples) {
		n = len(d.ISamples)
	}
	return d.ISamples[:n], d.QSamples[:n]
}

// SampleStats summarises a capture
type SampleStats struct {
	NumSamples    int     `json:"num_samples"`
	IMean         float64 `json:"i_mean"`
	QMean         float64 `json:"q_mean"`
	IStdDev       float64 `json:"i_std_dev"`
	QStdDev       float64 `json:"q_std_dev"`
	IMin          float64 `json:"i_min"`
	IMax          float64 `json:"i_max"`
	QMin          float64 `json:"q_min"`
	QMax          float64 `json:"q_max"`
	RMSAmplitude  float64 `json:"rms_amplitude"`
	PeakAmplitude float64 `json:"peak_amplitude"`
}

// Capture is a debug burst together with the configuration that produced it
type Capture struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	CapturedAt time.Time        `json:"captured_at" db:"captured_at"`
	Duration   time.Duration    `json:"duration" db:"duration_ms"`
	Mode       Mode             `json:"mode" db:"mode"`
	Waveform   WaveformKind     `json:"waveform" db:"waveform"`
	Config     *GeneratorConfig `json:"config" db:"-"`
	Samples    *DebugSamples    `json:"-" db:"-"`
	Stats      *SampleStats     `json:"stats,omitempty" db:"-"`
}

// NumSamples is a nil-safe accessor
func (c *Capture) NumSamples() int {
	if c.Samples == nil {
		return 0
	}
	return c.Samples.NumSamples
}

// CaptureFilter narrows capture listings
type CaptureFilter struct {
	Mode   *Mode      `json:"mode,omitempty"`
	Since  *time.Time `json:"since,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}
