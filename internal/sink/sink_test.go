package sink

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"wavegen/internal/model"
)

func TestDumpEncoder_Encode(t *testing.T) {
	buf := &bytes.Buffer{}
	samples := &model.DebugSamples{
		ISamples:   []int32{1, -2, 32767, 9},
		QSamples:   []int32{-32768, 0, 5, 9},
		NumSamples: 3,
	}

	if err := NewDumpEncoder(buf).Encode(samples); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := "1,-32768\n-2,0\n32767,5\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestDumpEncoder_Empty(t *testing.T) {
	buf := &bytes.Buffer{}

	if err := NewDumpEncoder(buf).Encode(model.EmptySamples()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if err := NewDumpEncoder(buf).Encode(nil); err != nil {
		t.Fatalf("Encode nil failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestDumpToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.txt")
	if err := os.WriteFile(path, []byte("stale\nstale\nstale\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	samples := &model.DebugSamples{ISamples: []int32{4}, QSamples: []int32{-4}, NumSamples: 1}
	if err := DumpToFile(path, samples); err != nil {
		t.Fatalf("DumpToFile failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != "4,-4\n" {
		t.Errorf("unexpected dump %q", got)
	}
}

func TestDumpToFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dump.txt")
	if err := DumpToFile(path, model.EmptySamples()); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}

func TestSummarize(t *testing.T) {
	samples := &model.DebugSamples{
		ISamples:   []int32{3, -3, 3, -3, 1000},
		QSamples:   []int32{4, -4, 4, -4, 1000},
		NumSamples: 4,
	}

	stats := Summarize(samples)
	if stats.NumSamples != 4 {
		t.Fatalf("expected 4 samples, got %d", stats.NumSamples)
	}
	if stats.IMean != 0 || stats.QMean != 0 {
		t.Errorf("expected zero means, got %f/%f", stats.IMean, stats.QMean)
	}
	if stats.IMin != -3 || stats.IMax != 3 || stats.QMin != -4 || stats.QMax != 4 {
		t.Errorf("unexpected extremes %+v", stats)
	}
	if math.Abs(stats.RMSAmplitude-5) > 1e-9 {
		t.Errorf("expected RMS amplitude 5, got %f", stats.RMSAmplitude)
	}
	if math.Abs(stats.PeakAmplitude-5) > 1e-9 {
		t.Errorf("expected peak amplitude 5, got %f", stats.PeakAmplitude)
	}
	// unbiased: sqrt(4*9/3)
	if math.Abs(stats.IStdDev-math.Sqrt(12)) > 1e-9 {
		t.Errorf("unexpected I std-dev %f", stats.IStdDev)
	}
}

func TestSummarize_Degenerate(t *testing.T) {
	if stats := Summarize(nil); stats.NumSamples != 0 {
		t.Errorf("expected empty summary, got %+v", stats)
	}
	if stats := Summarize(model.EmptySamples()); stats.NumSamples != 0 || stats.RMSAmplitude != 0 {
		t.Errorf("expected empty summary, got %+v", stats)
	}

	single := Summarize(&model.DebugSamples{ISamples: []int32{7}, QSamples: []int32{0}, NumSamples: 1})
	if math.IsNaN(single.IStdDev) || single.IStdDev != 0 {
		t.Errorf("expected zero std-dev for one sample, got %f", single.IStdDev)
	}
	if single.PeakAmplitude != 7 {
		t.Errorf("expected peak 7, got %f", single.PeakAmplitude)
	}
}
