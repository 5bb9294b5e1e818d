// internal/sink/stats.go
package sink

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"wavegen/internal/model"
)

// Summarize computes per-channel statistics over the valid part of a
// capture. An empty capture yields a zero summary.
func Summarize(samples *model.DebugSamples) *model.SampleStats {
	summary := &model.SampleStats{}
	if samples == nil {
		return summary
	}

	i, q := samples.Valid()
	summary.NumSamples = len(i)
	if len(i) == 0 {
		return summary
	}

	fi := toFloats(i)
	fq := toFloats(q)

	summary.IMean, summary.IStdDev = stat.MeanStdDev(fi, nil)
	summary.QMean, summary.QStdDev = stat.MeanStdDev(fq, nil)
	summary.IMin, summary.IMax = floats.Min(fi), floats.Max(fi)
	summary.QMin, summary.QMax = floats.Min(fq), floats.Max(fq)

	// |s|^2 = i^2 + q^2
	power := make([]float64, len(fi))
	floats.MulTo(power, fi, fi)
	floats.AddScaledTo(power, power, 1, squared(fq))

	summary.RMSAmplitude = math.Sqrt(stat.Mean(power, nil))
	summary.PeakAmplitude = math.Sqrt(floats.Max(power))
	if len(fi) == 1 {
		summary.IStdDev, summary.QStdDev = 0, 0
	}

	return summary
}

func toFloats(values []int32) []float64 {
	out := make([]float64, len(values))
	for k, v := range values {
		out[k] = float64(v)
	}
	return out
}

func squared(values []float64) []float64 {
	out := make([]float64, len(values))
	floats.MulTo(out, values, values)
	return out
}
