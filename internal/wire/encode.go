// internal/wire/encode.go
package wire

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"wavegen/internal/model"
)

// EncodeConfig wraps cfg in Config_msg.generator inside a Base_msg.
// Scalars are always written, zero values included. A config without a
// waveform is encoded without the modulation one-of.
func EncodeConfig(cfg *model.GeneratorConfig) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("nil generator config")
	}

	gen, err := appendGeneratorConfig(nil, cfg)
	if err != nil {
		return nil, err
	}

	var config []byte
	config = appendMessage(config, configGeneratorField, gen)

	return appendMessage(nil, baseConfigField, config), nil
}

// EncodeControl builds a Base_msg carrying a Control_msg
func EncodeControl(cmd model.ControlCommand) ([]byte, error) {
	v, ok := commandValues[cmd]
	if !ok {
		return nil, errors.Errorf("unknown control command %q", cmd)
	}

	var control []byte
	control = appendUint(control, controlCommandField, v)

	return appendMessage(nil, baseControlField, control), nil
}

// EncodeAck builds a Base_msg carrying an Ack_msg. The client never sends
// acks; this is the device side of the exchange.
func EncodeAck(retval model.AckResult) ([]byte, error) {
	v, ok := retvalValues[retval]
	if !ok {
		return nil, errors.Errorf("unknown ack retval %q", retval)
	}

	var ack []byte
	ack = appendUint(ack, ackRetvalField, v)

	return appendMessage(nil, baseAckField, ack), nil
}

// EncodeDebug builds a bare Debug_msg with packed sample arrays
func EncodeDebug(samples *model.DebugSamples) ([]byte, error) {
	if samples == nil {
		return nil, errors.New("nil debug samples")
	}
	if len(samples.ISamples) != len(samples.QSamples) {
		return nil, errors.Errorf("sample length mismatch: i=%d q=%d",
			len(samples.ISamples), len(samples.QSamples))
	}

	var b []byte
	b = appendPackedSint32(b, debugISamplesField, samples.ISamples)
	b = appendPackedSint32(b, debugQSamplesField, samples.QSamples)
	b = appendUint(b, debugNumSamplesField, uint64(samples.NumSamples))

	return b, nil
}

func appendGeneratorConfig(b []byte, cfg *model.GeneratorConfig) ([]byte, error) {
	mode, ok := modeValues[cfg.Mode]
	if !ok {
		return nil, errors.Errorf("unknown generator mode %q", cfg.Mode)
	}

	b = appendUint(b, genModeField, mode)
	b = appendUint(b, genPeriodField, uint64(cfg.PeriodUs))
	b = appendUint(b, genPulseLengthField, uint64(cfg.PulseLengthUs))
	b = appendBool(b, genDebugEnabledField, cfg.DebugEnabled)

	switch w := cfg.Waveform.(type) {
	case nil:
	case model.ConstFreq:
		var sub []byte
		sub = appendUint(sub, constFreqKhzField, uint64(w.FreqKhz))
		b = appendMessage(b, genConstFreqField, sub)
	case model.FreqMod:
		var sub []byte
		sub = appendUint(sub, freqModLowField, uint64(w.LowFreqKhz))
		sub = appendUint(sub, freqModHighField, uint64(w.HighFreqKhz))
		sub = appendUint(sub, freqModLengthField, uint64(w.LengthUs))
		b = appendMessage(b, genFreqModField, sub)
	case model.PhaseMod:
		var sub []byte
		sub = appendUint(sub, phaseModFreqField, uint64(w.FreqKhz))
		sub = appendUint(sub, phaseModBarkerField, uint64(w.BarkerSeqNum))
		sub = appendUint(sub, phaseModSubpulseField, uint64(w.BarkerSubpulseLengthUs))
		b = appendMessage(b, genPhaseModField, sub)
	default:
		return nil, errors.Errorf("unsupported waveform %T", w)
	}

	return b, nil
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	return appendUint(b, num, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendPackedSint32(b []byte, num protowire.Number, values []int32) []byte {
	var packed []byte
	for _, v := range values {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v)))
	}
	return appendMessage(b, num, packed)
}
