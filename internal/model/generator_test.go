package model

import (
	"encoding/json"
	"testing"
)

func TestGeneratorConfig_NewIsContinuousWithoutWaveform(t *testing.T) {
	cfg := NewGeneratorConfig()

	if cfg.Mode != ModeContinuous {
		t.Errorf("expected continuous, got %s", cfg.Mode)
	}
	if cfg.WaveformKind() != WaveformNone {
		t.Errorf("expected no waveform, got %s", cfg.WaveformKind())
	}
	if cfg.DebugEnabled {
		t.Error("debug enabled by default")
	}
}

func TestGeneratorConfig_ContinuousKeepsPulseTiming(t *testing.T) {
	cfg := NewGeneratorConfig()
	cfg.SetPulsedConstFreq(250, 100, 500)
	cfg.SetContinuousPhaseMod(100, 7, 3)

	if cfg.Mode != ModeContinuous {
		t.Fatalf("expected continuous, got %s", cfg.Mode)
	}
	// Period and pulse length from the pulsed setter stay in memory
	if cfg.PeriodUs != 250 || cfg.PulseLengthUs != 100 {
		t.Errorf("pulse timing lost: period=%d pulse=%d", cfg.PeriodUs, cfg.PulseLengthUs)
	}
	want := PhaseMod{FreqKhz: 100, BarkerSeqNum: 7, BarkerSubpulseLengthUs: 3}
	if cfg.Waveform != want {
		t.Errorf("waveform = %+v, want %+v", cfg.Waveform, want)
	}
}

func TestGeneratorConfig_PulsedSettersResetContinuousOnlyFields(t *testing.T) {
	cfg := NewGeneratorConfig()

	cfg.SetContinuousFreqMod(0, 500, 250)
	cfg.SetPulsedFreqMod(250, 50, 0, 5000)
	if fm := cfg.Waveform.(FreqMod); fm.LengthUs != 0 || fm.HighFreqKhz != 5000 {
		t.Errorf("unexpected pulsed sweep %+v", fm)
	}

	cfg.SetContinuousPhaseMod(100, 7, 3)
	cfg.SetPulsedPhaseMod(250, 70, 100, 7)
	if pm := cfg.Waveform.(PhaseMod); pm.BarkerSubpulseLengthUs != 0 {
		t.Errorf("subpulse length survived: %+v", pm)
	}
	if cfg.Mode != ModePulsed || cfg.PeriodUs != 250 || cfg.PulseLengthUs != 70 {
		t.Errorf("unexpected pulsed config %s", cfg)
	}
}

func TestGeneratorConfig_EnableDebugKeepsWaveform(t *testing.T) {
	cfg := NewGeneratorConfig().SetContinuousConstFreq(10)
	cfg.EnableDebug(true)

	if !cfg.DebugEnabled {
		t.Error("debug not enabled")
	}
	if cfg.Waveform != (ConstFreq{FreqKhz: 10}) {
		t.Errorf("waveform changed: %+v", cfg.Waveform)
	}
}

func TestGeneratorConfig_CloneIsIndependent(t *testing.T) {
	cfg := NewGeneratorConfig().SetPulsedConstFreq(250, 100, 500)
	cp := cfg.Clone()

	cfg.SetContinuousConstFreq(21000)
	if cp.Mode != ModePulsed || cp.Waveform != (ConstFreq{FreqKhz: 500}) {
		t.Errorf("clone followed original: %s", cp)
	}
}

func TestGeneratorConfig_JSONTaggedWaveform(t *testing.T) {
	cfg := NewGeneratorConfig().EnableDebug(true).SetPulsedPhaseMod(250, 70, 100, 7)

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	waveform, ok := raw["waveform"].(map[string]interface{})
	if !ok || waveform["type"] != string(WaveformPhaseMod) {
		t.Fatalf("unexpected waveform object %v", raw["waveform"])
	}
	if _, ok := waveform["low_freq_khz"]; ok {
		t.Error("fields of other variants leaked into JSON")
	}

	var decoded GeneratorConfig
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != *cfg {
		t.Errorf("decoded %s, want %s", &decoded, cfg)
	}
}

func TestGeneratorConfig_JSONUnknownWaveform(t *testing.T) {
	var cfg GeneratorConfig
	err := json.Unmarshal([]byte(`{"mode":"PULSED","waveform":{"type":"SQUARE"}}`), &cfg)
	if err == nil {
		t.Fatal("expected error for unknown waveform type")
	}
}

func TestDebugSamples_Valid(t *testing.T) {
	samples := &DebugSamples{
		ISamples:   []int32{1, 2, 3, 4},
		QSamples:   []int32{5, 6, 7, 8},
		NumSamples: 2,
	}

	i, q := samples.Valid()
	if len(i) != 2 || len(q) != 2 || i[1] != 2 || q[1] != 6 {
		t.Errorf("unexpected valid window i=%v q=%v", i, q)
	}

	// NumSamples larger than the arrays is clamped
	samples.NumSamples = 10
	if i, _ := samples.Valid(); len(i) != 4 {
		t.Errorf("expected 4 samples, got %d", len(i))
	}

	if i, q := EmptySamples().Valid(); len(i) != 0 || len(q) != 0 {
		t.Error("empty samples not empty")
	}
}
