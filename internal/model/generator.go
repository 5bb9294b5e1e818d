// internal/model/generator.go
package model

import (
	"encoding/json"
	"fmt"
)

// Mode selects how the generator emits the configured waveform
type Mode string

const (
	ModeContinuous Mode = "CONTINUOUS"
	ModePulsed     Mode = "PULSED"
)

// WaveformKind names the active variant of the waveform union
type WaveformKind string

const (
	WaveformNone      WaveformKind = "NONE"
	WaveformConstFreq WaveformKind = "CONST_FREQ"
	WaveformFreqMod   WaveformKind = "FREQ_MOD"
	WaveformPhaseMod  WaveformKind = "PHASE_MOD"
)

// Device limits enforced by the generator firmware. The client never checks
// them; a violating configuration is answered with BAD_CONFIG.
const (
	MaxPeriodUs               = 250
	MaxPulseLengthUs          = 200
	MinPulseLengthUs          = 5
	MinPeriodUs               = 5 + MinPulseLengthUs
	MinBarkerSubpulseLengthUs = 1
	MaxFreqKhz                = 20000
	MaxDebugSamples           = 125000
)

// BarkerLengths lists the Barker sequence lengths the device can modulate with
var BarkerLengths = []uint32{2, 3, 4, 5, 7, 11, 13}

// Waveform is the tagged union of modulation settings. Exactly one variant
// is active in a GeneratorConfig at a time.
type Waveform interface {
	Kind() WaveformKind
	isWaveform()
}

// ConstFreq is an unmodulated carrier
type ConstFreq struct {
	FreqKhz uint32 `json:"freq_khz"`
}

// FreqMod is a linear frequency sweep. LengthUs is only read by the device
// in continuous mode.
type FreqMod struct {
	LowFreqKhz  uint32 `json:"low_freq_khz"`
	HighFreqKhz uint32 `json:"high_freq_khz"`
	LengthUs    uint32 `json:"length_us"`
}

// PhaseMod is a Barker-coded phase modulation. BarkerSubpulseLengthUs is only
// read by the device in continuous mode.
type PhaseMod struct {
	FreqKhz                uint32 `json:"freq_khz"`
	BarkerSeqNum           uint32 `json:"barker_seq_num"`
	BarkerSubpulseLengthUs uint32 `json:"barker_subpulse_length_us"`
}

func (ConstFreq) Kind() WaveformKind { return WaveformConstFreq }
func (FreqMod) Kind() WaveformKind   { return WaveformFreqMod }
func (PhaseMod) Kind() WaveformKind  { return WaveformPhaseMod }

func (ConstFreq) isWaveform() {}
func (FreqMod) isWaveform()   {}
func (PhaseMod) isWaveform()  {}

// GeneratorConfig is the pending configuration pushed to the device.
//
// The setters below are the configuration builder: each one sets the
// fields relevant to its mode and leaves the rest untouched, so values from
// a previously selected mode stay in memory. Nothing is validated here.
type GeneratorConfig struct {
	Mode          Mode     `json:"mode"`
	DebugEnabled  bool     `json:"debug_enabled"`
	PeriodUs      uint32   `json:"period_us"`
	PulseLengthUs uint32   `json:"pulse_length_us"`
	Waveform      Waveform `json:"-"`
}

// NewGeneratorConfig returns an empty continuous-mode configuration
func NewGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{Mode: ModeContinuous}
}

// WaveformKind reports the active waveform variant
func (c *GeneratorConfig) WaveformKind() WaveformKind {
	if c.Waveform == nil {
		return WaveformNone
	}
	return c.Waveform.Kind()
}

// EnableDebug toggles debug capture. It does not push anything.
func (c *GeneratorConfig) EnableDebug(enabled bool) *GeneratorConfig {
	c.DebugEnabled = enabled
	return c
}

func (c *GeneratorConfig) SetContinuousConstFreq(freqKhz uint32) *GeneratorConfig {
	c.Mode = ModeContinuous
	c.Waveform = ConstFreq{FreqKhz: freqKhz}
	return c
}

func (c *GeneratorConfig) SetContinuousFreqMod(lowFreqKhz, highFreqKhz, lengthUs uint32) *GeneratorConfig {
	c.Mode = ModeContinuous
	c.Waveform = FreqMod{LowFreqKhz: lowFreqKhz, HighFreqKhz: highFreqKhz, LengthUs: lengthUs}
	return c
}

func (c *GeneratorConfig) SetContinuousPhaseMod(freqKhz, barkerSeqNum, barkerSubpulseLengthUs uint32) *GeneratorConfig {
	c.Mode = ModeContinuous
	c.Waveform = PhaseMod{
		FreqKhz:                freqKhz,
		BarkerSeqNum:           barkerSeqNum,
		BarkerSubpulseLengthUs: barkerSubpulseLengthUs,
	}
	return c
}

func (c *GeneratorConfig) SetPulsedConstFreq(periodUs, pulseLengthUs, freqKhz uint32) *GeneratorConfig {
	c.setPulsed(periodUs, pulseLengthUs)
	c.Waveform = ConstFreq{FreqKhz: freqKhz}
	return c
}

// SetPulsedFreqMod selects a pulsed sweep. The sweep length is implied by
// the pulse, so FreqMod.LengthUs is left at zero.
func (c *GeneratorConfig) SetPulsedFreqMod(periodUs, pulseLengthUs, lowFreqKhz, highFreqKhz uint32) *GeneratorConfig {
	c.setPulsed(periodUs, pulseLengthUs)
	c.Waveform = FreqMod{LowFreqKhz: lowFreqKhz, HighFreqKhz: highFreqKhz}
	return c
}

func (c *GeneratorConfig) SetPulsedPhaseMod(periodUs, pulseLengthUs, freqKhz, barkerSeqNum uint32) *GeneratorConfig {
	c.setPulsed(periodUs, pulseLengthUs)
	c.Waveform = PhaseMod{FreqKhz: freqKhz, BarkerSeqNum: barkerSeqNum}
	return c
}

func (c *GeneratorConfig) setPulsed(periodUs, pulseLengthUs uint32) {
	c.Mode = ModePulsed
	c.PeriodUs = periodUs
	c.PulseLengthUs = pulseLengthUs
}

// Clone returns an independent copy. Waveform variants are values, so a
// shallow copy is enough.
func (c *GeneratorConfig) Clone() *GeneratorConfig {
	cp := *c
	return &cp
}

// String renders the config the way it is logged
func (c *GeneratorConfig) String() string {
	return fmt.Sprintf("mode=%s debug=%t period_us=%d pulse_length_us=%d waveform=%s %+v",
		c.Mode, c.DebugEnabled, c.PeriodUs, c.PulseLengthUs, c.WaveformKind(), c.Waveform)
}

type waveformJSON struct {
	Type                   WaveformKind `json:"type"`
	FreqKhz                *uint32      `json:"freq_khz,omitempty"`
	LowFreqKhz             *uint32      `json:"low_freq_khz,omitempty"`
	HighFreqKhz            *uint32      `json:"high_freq_khz,omitempty"`
	LengthUs               *uint32      `json:"length_us,omitempty"`
	BarkerSeqNum           *uint32      `json:"barker_seq_num,omitempty"`
	BarkerSubpulseLengthUs *uint32      `json:"barker_subpulse_length_us,omitempty"`
}

type generatorConfigJSON struct {
	Mode          Mode          `json:"mode"`
	DebugEnabled  bool          `json:"debug_enabled"`
	PeriodUs      uint32        `json:"period_us"`
	PulseLengthUs uint32        `json:"pulse_length_us"`
	Waveform      *waveformJSON `json:"waveform"`
}

// MarshalJSON flattens the waveform union into a tagged object
func (c GeneratorConfig) MarshalJSON() ([]byte, error) {
	out := generatorConfigJSON{
		Mode:          c.Mode,
		DebugEnabled:  c.DebugEnabled,
		PeriodUs:      c.PeriodUs,
		PulseLengthUs: c.PulseLengthUs,
	}

	switch w := c.Waveform.(type) {
	case ConstFreq:
		out.Waveform = &waveformJSON{Type: WaveformConstFreq, FreqKhz: &w.FreqKhz}
	case FreqMod:
		out.Waveform = &waveformJSON{
			Type:        WaveformFreqMod,
			LowFreqKhz:  &w.LowFreqKhz,
			HighFreqKhz: &w.HighFreqKhz,
			LengthUs:    &w.LengthUs,
		}
	case PhaseMod:
		out.Waveform = &waveformJSON{
			Type:                   WaveformPhaseMod,
			FreqKhz:                &w.FreqKhz,
			BarkerSeqNum:           &w.BarkerSeqNum,
			BarkerSubpulseLengthUs: &w.BarkerSubpulseLengthUs,
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON
func (c *GeneratorConfig) UnmarshalJSON(data []byte) error {
	var in generatorConfigJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	c.Mode = in.Mode
	c.DebugEnabled = in.DebugEnabled
	c.PeriodUs = in.PeriodUs
	c.PulseLengthUs = in.PulseLengthUs
	c.Waveform = nil

	if in.Waveform == nil {
		return nil
	}

	get := func(p *uint32) uint32 {
		if p == nil {
			return 0
		}
		return *p
	}

	w := in.Waveform
	switch w.Type {
	case WaveformConstFreq:
		c.Waveform = ConstFreq{FreqKhz: get(w.FreqKhz)}
	case WaveformFreqMod:
		c.Waveform = FreqMod{
			LowFreqKhz:  get(w.LowFreqKhz),
			HighFreqKhz: get(w.HighFreqKhz),
			LengthUs:    get(w.LengthUs),
		}
	case WaveformPhaseMod:
		c.Waveform = PhaseMod{
			FreqKhz:                get(w.FreqKhz),
			BarkerSeqNum:           get(w.BarkerSeqNum),
			BarkerSubpulseLengthUs: get(w.BarkerSubpulseLengthUs),
		}
	case WaveformNone, "":
	default:
		return fmt.Errorf("unknown waveform type: %s", w.Type)
	}

	return nil
}
