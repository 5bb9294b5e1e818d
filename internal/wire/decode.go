// internal/wire/decode.go
package wire

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"wavegen/internal/model"
)

// ErrMalformed is the root of every decoding failure
var ErrMalformed = errors.New("malformed envelope")

// EnvelopeKind identifies which Base_msg one-of was set
type EnvelopeKind int

const (
	EnvelopeEmpty EnvelopeKind = iota
	EnvelopeConfig
	EnvelopeControl
	EnvelopeAck
)

// Envelope is a decoded Base_msg
type Envelope struct {
	Kind EnvelopeKind
	// Config is set for generator configurations
	Config *model.GeneratorConfig
	// Demodulator is true when Config_msg carried the demodulator tag
	Demodulator bool
	Command     model.ControlCommand
	Ack         model.AckResult
}

// DecodeEnvelope parses a Base_msg. An input with no one-of field set
// decodes to EnvelopeEmpty without error; callers decide whether that is
// acceptable.
func DecodeEnvelope(b []byte) (*Envelope, error) {
	env := &Envelope{Kind: EnvelopeEmpty}

	err := walk(b, func(num protowire.Number, typ protowire.Type, v fieldValue) error {
		switch num {
		case baseConfigField:
			if typ != protowire.BytesType {
				return wrongType("Base_msg.config", typ)
			}
			env.Kind = EnvelopeConfig
			return decodeConfigMsg(v.bytes, env)
		case baseControlField:
			if typ != protowire.BytesType {
				return wrongType("Base_msg.control", typ)
			}
			env.Kind = EnvelopeControl
			return decodeControlMsg(v.bytes, env)
		case baseAckField:
			if typ != protowire.BytesType {
				return wrongType("Base_msg.ack", typ)
			}
			env.Kind = EnvelopeAck
			return decodeAckMsg(v.bytes, env)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return env, nil
}

// DecodeReply parses a reply and returns its ack discriminant. Anything
// that is not an ack envelope is malformed.
func DecodeReply(b []byte) (model.AckResult, error) {
	env, err := DecodeEnvelope(b)
	if err != nil {
		return model.AckUnknown, err
	}
	if env.Kind != EnvelopeAck {
		return model.AckUnknown, errors.Wrapf(ErrMalformed, "expected ack envelope, got kind %d", env.Kind)
	}
	return env.Ack, nil
}

// DecodeDebug parses a bare Debug_msg. Zero bytes decode to an empty capture.
func DecodeDebug(b []byte) (*model.DebugSamples, error) {
	samples := model.EmptySamples()
	if len(b) == 0 {
		return samples, nil
	}

	var numSamples uint64
	err := walk(b, func(num protowire.Number, typ protowire.Type, v fieldValue) error {
		var err error
		switch num {
		case debugISamplesField:
			samples.ISamples, err = appendSint32(samples.ISamples, typ, v)
			return errors.Wrap(err, "Debug_msg.i_samples")
		case debugQSamplesField:
			samples.QSamples, err = appendSint32(samples.QSamples, typ, v)
			return errors.Wrap(err, "Debug_msg.q_samples")
		case debugNumSamplesField:
			if typ != protowire.VarintType {
				return wrongType("Debug_msg.num_samples", typ)
			}
			numSamples = v.varint
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(samples.ISamples) != len(samples.QSamples) {
		return nil, errors.Wrapf(ErrMalformed, "sample length mismatch: i=%d q=%d",
			len(samples.ISamples), len(samples.QSamples))
	}
	if numSamples > uint64(len(samples.ISamples)) {
		return nil, errors.Wrapf(ErrMalformed, "num_samples %d exceeds %d decoded samples",
			numSamples, len(samples.ISamples))
	}
	samples.NumSamples = int(numSamples)

	return samples, nil
}

func decodeConfigMsg(b []byte, env *Envelope) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v fieldValue) error {
		switch num {
		case configGeneratorField:
			if typ != protowire.BytesType {
				return wrongType("Config_msg.generator", typ)
			}
			cfg, err := decodeGeneratorConfig(v.bytes)
			if err != nil {
				return err
			}
			env.Config = cfg
			env.Demodulator = false
		case configDemodulatorField:
			if typ != protowire.BytesType {
				return wrongType("Config_msg.demodulator", typ)
			}
			env.Config = nil
			env.Demodulator = true
		}
		return nil
	})
}

func decodeGeneratorConfig(b []byte) (*model.GeneratorConfig, error) {
	cfg := model.NewGeneratorConfig()

	err := walk(b, func(num protowire.Number, typ protowire.Type, v fieldValue) error {
		switch num {
		case genModeField:
			if typ != protowire.VarintType {
				return wrongType("Generator_Config_msg.mode", typ)
			}
			mode, ok := lookupMode(v.varint)
			if !ok {
				return errors.Wrapf(ErrMalformed, "unknown generator mode %d", v.varint)
			}
			cfg.Mode = mode
		case genPeriodField:
			if typ != protowire.VarintType {
				return wrongType("Generator_Config_msg.period_us", typ)
			}
			cfg.PeriodUs = uint32(v.varint)
		case genPulseLengthField:
			if typ != protowire.VarintType {
				return wrongType("Generator_Config_msg.pulse_length_us", typ)
			}
			cfg.PulseLengthUs = uint32(v.varint)
		case genDebugEnabledField:
			if typ != protowire.VarintType {
				return wrongType("Generator_Config_msg.debug_enabled", typ)
			}
			cfg.DebugEnabled = protowire.DecodeBool(v.varint)
		case genConstFreqField:
			if typ != protowire.BytesType {
				return wrongType("Generator_Config_msg.const_freq", typ)
			}
			var w model.ConstFreq
			err := decodeUints(v.bytes, map[protowire.Number]*uint32{
				constFreqKhzField: &w.FreqKhz,
			})
			if err != nil {
				return errors.Wrap(err, "Const_freq")
			}
			cfg.Waveform = w
		case genFreqModField:
			if typ != protowire.BytesType {
				return wrongType("Generator_Config_msg.freq_mod", typ)
			}
			var w model.FreqMod
			err := decodeUints(v.bytes, map[protowire.Number]*uint32{
				freqModLowField:    &w.LowFreqKhz,
				freqModHighField:   &w.HighFreqKhz,
				freqModLengthField: &w.LengthUs,
			})
			if err != nil {
				return errors.Wrap(err, "Freq_mod")
			}
			cfg.Waveform = w
		case genPhaseModField:
			if typ != protowire.BytesType {
				return wrongType("Generator_Config_msg.phase_mod", typ)
			}
			var w model.PhaseMod
			err := decodeUints(v.bytes, map[protowire.Number]*uint32{
				phaseModFreqField:     &w.FreqKhz,
				phaseModBarkerField:   &w.BarkerSeqNum,
				phaseModSubpulseField: &w.BarkerSubpulseLengthUs,
			})
			if err != nil {
				return errors.Wrap(err, "Phase_mod")
			}
			cfg.Waveform = w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func decodeControlMsg(b []byte, env *Envelope) error {
	// proto3 omits a zero command, which is START
	env.Command = model.CommandStart
	return walk(b, func(num protowire.Number, typ protowire.Type, v fieldValue) error {
		if num != controlCommandField {
			return nil
		}
		if typ != protowire.VarintType {
			return wrongType("Control_msg.command", typ)
		}
		cmd, ok := lookupCommand(v.varint)
		if !ok {
			return errors.Wrapf(ErrMalformed, "unknown control command %d", v.varint)
		}
		env.Command = cmd
		return nil
	})
}

func decodeAckMsg(b []byte, env *Envelope) error {
	env.Ack = model.AckOK
	return walk(b, func(num protowire.Number, typ protowire.Type, v fieldValue) error {
		if num != ackRetvalField {
			return nil
		}
		if typ != protowire.VarintType {
			return wrongType("Ack_msg.retval", typ)
		}
		env.Ack = lookupRetval(v.varint)
		return nil
	})
}

func decodeUints(b []byte, fields map[protowire.Number]*uint32) error {
	return walk(b, func(num protowire.Number, typ protowire.Type, v fieldValue) error {
		dst, ok := fields[num]
		if !ok {
			return nil
		}
		if typ != protowire.VarintType {
			return wrongType("field", typ)
		}
		*dst = uint32(v.varint)
		return nil
	})
}

// appendSint32 accepts both the packed and the one-value-per-tag encoding
func appendSint32(dst []int32, typ protowire.Type, v fieldValue) ([]int32, error) {
	switch typ {
	case protowire.VarintType:
		return append(dst, int32(protowire.DecodeZigZag(v.varint))), nil
	case protowire.BytesType:
		b := v.bytes
		for len(b) > 0 {
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
			}
			dst = append(dst, int32(protowire.DecodeZigZag(x)))
			b = b[n:]
		}
		return dst, nil
	default:
		return nil, wrongType("repeated sint32", typ)
	}
}

type fieldValue struct {
	varint uint64
	bytes  []byte
}

// walk visits every field of one message level. Varint and length-delimited
// values are handed to fn; other wire types are skipped like unknown fields.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, v fieldValue) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		b = b[n:]

		var v fieldValue
		switch typ {
		case protowire.VarintType:
			v.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			v.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return errors.Wrapf(ErrMalformed, "field %d: %v", num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}

func wrongType(field string, typ protowire.Type) error {
	return errors.Wrapf(ErrMalformed, "%s: unexpected wire type %d", field, typ)
}
