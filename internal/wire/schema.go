// internal/wire/schema.go
//
// Package wire encodes and decodes the generator's protobuf envelopes.
//
//	Base_msg             oneof message { config = 1; control = 2; ack = 3 }
//	Config_msg           oneof config  { generator = 1; demodulator = 2 }
//	Generator_Config_msg mode = 1; period_us = 2; pulse_length_us = 3; debug_enabled = 4;
//	                     oneof { const_freq = 5; freq_mod = 6; phase_mod = 7 }
//	Const_freq           freq_khz = 1
//	Freq_mod             low_freq_khz = 1; high_freq_khz = 2; length_us = 3
//	Phase_mod            freq_khz = 1; barker_seq_num = 2; barker_subpulse_length_us = 3
//	Control_msg          command = 1
//	Ack_msg              retval = 1
//	Debug_msg            repeated sint32 i_samples = 1; repeated sint32 q_samples = 2; num_samples = 3
//
// Debug_msg travels bare on the wire; everything else is wrapped in Base_msg.
package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"wavegen/internal/model"
)

// Base_msg
const (
	baseConfigField  protowire.Number = 1
	baseControlField protowire.Number = 2
	baseAckField     protowire.Number = 3
)

// Config_msg
const (
	configGeneratorField   protowire.Number = 1
	configDemodulatorField protowire.Number = 2
)

// Generator_Config_msg
const (
	genModeField          protowire.Number = 1
	genPeriodField        protowire.Number = 2
	genPulseLengthField   protowire.Number = 3
	genDebugEnabledField  protowire.Number = 4
	genConstFreqField     protowire.Number = 5
	genFreqModField       protowire.Number = 6
	genPhaseModField      protowire.Number = 7
	constFreqKhzField     protowire.Number = 1
	freqModLowField       protowire.Number = 1
	freqModHighField      protowire.Number = 2
	freqModLengthField    protowire.Number = 3
	phaseModFreqField     protowire.Number = 1
	phaseModBarkerField   protowire.Number = 2
	phaseModSubpulseField protowire.Number = 3
)

// Control_msg, Ack_msg
const (
	controlCommandField protowire.Number = 1
	ackRetvalField      protowire.Number = 1
)

// Debug_msg
const (
	debugISamplesField   protowire.Number = 1
	debugQSamplesField   protowire.Number = 2
	debugNumSamplesField protowire.Number = 3
)

var modeValues = map[model.Mode]uint64{
	model.ModeContinuous: 0,
	model.ModePulsed:     1,
}

var commandValues = map[model.ControlCommand]uint64{
	model.CommandStart:        0,
	model.CommandStop:         1,
	model.CommandTriggerDebug: 2,
	model.CommandBrokenConn:   3,
}

var retvalValues = map[model.AckResult]uint64{
	model.AckOK:           0,
	model.AckBadConfig:    1,
	model.AckNoConfig:     2,
	model.AckBadCommand:   3,
	model.AckInvalidMsg:   4,
	model.AckDebugIsValid: 5,
	model.AckDebugError:   6,
}

func lookupMode(v uint64) (model.Mode, bool) {
	for m, n := range modeValues {
		if n == v {
			return m, true
		}
	}
	return "", false
}

func lookupCommand(v uint64) (model.ControlCommand, bool) {
	for c, n := range commandValues {
		if n == v {
			return c, true
		}
	}
	return "", false
}

func lookupRetval(v uint64) model.AckResult {
	for r, n := range retvalValues {
		if n == v {
			return r
		}
	}
	return model.AckUnknown
}
