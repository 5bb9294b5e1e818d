package wire

import (
	"errors"
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"wavegen/internal/model"
)

func TestEncodeConfig_RoundTrip(t *testing.T) {
	cases := map[string]func(c *model.GeneratorConfig){
		"continuous const freq": func(c *model.GeneratorConfig) { c.SetContinuousConstFreq(5000) },
		"continuous freq mod":   func(c *model.GeneratorConfig) { c.SetContinuousFreqMod(1000, 5000, 150) },
		"continuous phase mod":  func(c *model.GeneratorConfig) { c.SetContinuousPhaseMod(20000, 7, 5) },
		"pulsed const freq":     func(c *model.GeneratorConfig) { c.SetPulsedConstFreq(150, 35, 3000) },
		"pulsed freq mod":       func(c *model.GeneratorConfig) { c.SetPulsedFreqMod(120, 10, 4000, 5678) },
		"pulsed phase mod":      func(c *model.GeneratorConfig) { c.SetPulsedPhaseMod(65, 10, 5643, 5) },
		"no waveform":           func(c *model.GeneratorConfig) { c.PeriodUs = 42 },
	}

	for name, set := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := model.NewGeneratorConfig().EnableDebug(true)
			set(cfg)

			b, err := EncodeConfig(cfg)
			if err != nil {
				t.Fatalf("EncodeConfig failed: %v", err)
			}

			env, err := DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("DecodeEnvelope failed: %v", err)
			}
			if env.Kind != EnvelopeConfig || env.Config == nil {
				t.Fatalf("expected generator config envelope, got %+v", env)
			}
			if !reflect.DeepEqual(env.Config, cfg) {
				t.Errorf("round trip mismatch:\n got %s\nwant %s", env.Config, cfg)
			}
		})
	}
}

func TestEncodeConfig_StaleFieldsSurvive(t *testing.T) {
	cfg := model.NewGeneratorConfig()
	cfg.SetPulsedConstFreq(250, 100, 500)
	cfg.SetContinuousConstFreq(10)

	b, err := EncodeConfig(cfg)
	if err != nil {
		t.Fatalf("EncodeConfig failed: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}

	if env.Config.PeriodUs != 250 || env.Config.PulseLengthUs != 100 {
		t.Errorf("expected stale pulsed timing 250/100, got %d/%d", env.Config.PeriodUs, env.Config.PulseLengthUs)
	}
	if env.Config.Mode != model.ModeContinuous {
		t.Errorf("expected continuous mode, got %s", env.Config.Mode)
	}
}

func TestEncodeConfig_UnknownMode(t *testing.T) {
	cfg := &model.GeneratorConfig{Mode: "BURST"}
	if _, err := EncodeConfig(cfg); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestEncodeControl_RoundTrip(t *testing.T) {
	for _, cmd := range []model.ControlCommand{
		model.CommandStart, model.CommandStop, model.CommandTriggerDebug, model.CommandBrokenConn,
	} {
		b, err := EncodeControl(cmd)
		if err != nil {
			t.Fatalf("EncodeControl(%s) failed: %v", cmd, err)
		}
		env, err := DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("DecodeEnvelope(%s) failed: %v", cmd, err)
		}
		if env.Kind != EnvelopeControl || env.Command != cmd {
			t.Errorf("expected control %s, got %+v", cmd, env)
		}
	}
}

func TestDecodeReply(t *testing.T) {
	for _, retval := range []model.AckResult{
		model.AckOK, model.AckBadConfig, model.AckNoConfig, model.AckBadCommand,
		model.AckInvalidMsg, model.AckDebugIsValid, model.AckDebugError,
	} {
		b, err := EncodeAck(retval)
		if err != nil {
			t.Fatalf("EncodeAck(%s) failed: %v", retval, err)
		}
		got, err := DecodeReply(b)
		if err != nil {
			t.Fatalf("DecodeReply(%s) failed: %v", retval, err)
		}
		if got != retval {
			t.Errorf("expected %s, got %s", retval, got)
		}
	}
}

func TestDecodeReply_Proto3ZeroAck(t *testing.T) {
	// Ack_msg with retval omitted, as a proto3 encoder writes ACK
	got, err := DecodeReply([]byte{0x1a, 0x00})
	if err != nil {
		t.Fatalf("DecodeReply failed: %v", err)
	}
	if got != model.AckOK {
		t.Errorf("expected ACK, got %s", got)
	}
}

func TestDecodeReply_UnknownRetval(t *testing.T) {
	got, err := DecodeReply([]byte{0x1a, 0x02, 0x08, 0x2a})
	if err != nil {
		t.Fatalf("DecodeReply failed: %v", err)
	}
	if got != model.AckUnknown {
		t.Errorf("expected UNKNOWN, got %s", got)
	}
}

func TestDecodeReply_Malformed(t *testing.T) {
	control, _ := EncodeControl(model.CommandStart)

	cases := map[string][]byte{
		"empty":          {},
		"truncated":      {0x1a, 0x05, 0x08},
		"bad tag":        {0x00},
		"wrong type":     {0x18, 0x01},
		"control reply":  control,
		"garbage varint": {0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
	}

	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeReply(b)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestDecodeEnvelope_Demodulator(t *testing.T) {
	var config []byte
	config = appendMessage(config, configDemodulatorField, nil)
	b := appendMessage(nil, baseConfigField, config)

	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if !env.Demodulator || env.Config != nil {
		t.Errorf("expected demodulator config, got %+v", env)
	}
}

func TestDecodeDebug_Empty(t *testing.T) {
	samples, err := DecodeDebug(nil)
	if err != nil {
		t.Fatalf("DecodeDebug failed: %v", err)
	}
	if samples.NumSamples != 0 || len(samples.ISamples) != 0 || len(samples.QSamples) != 0 {
		t.Errorf("expected empty samples, got %+v", samples)
	}
	if samples.ISamples == nil || samples.QSamples == nil {
		t.Error("expected non-nil empty slices")
	}
}

func TestDecodeDebug_RoundTrip(t *testing.T) {
	in := &model.DebugSamples{
		ISamples:   []int32{0, 1, -1, 32767, -32768, 12},
		QSamples:   []int32{-5, 5, 0, -32768, 32767, 0},
		NumSamples: 5,
	}

	b, err := EncodeDebug(in)
	if err != nil {
		t.Fatalf("EncodeDebug failed: %v", err)
	}
	out, err := DecodeDebug(b)
	if err != nil {
		t.Fatalf("DecodeDebug failed: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestDecodeDebug_Unpacked(t *testing.T) {
	var b []byte
	for _, v := range []int32{3, -4} {
		b = protowire.AppendTag(b, debugISamplesField, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
		b = protowire.AppendTag(b, debugQSamplesField, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(-v)))
	}
	b = appendUint(b, debugNumSamplesField, 2)

	out, err := DecodeDebug(b)
	if err != nil {
		t.Fatalf("DecodeDebug failed: %v", err)
	}
	if !reflect.DeepEqual(out.ISamples, []int32{3, -4}) || !reflect.DeepEqual(out.QSamples, []int32{-3, 4}) {
		t.Errorf("unexpected samples: %+v", out)
	}
}

func TestDecodeDebug_Malformed(t *testing.T) {
	good, err := EncodeDebug(&model.DebugSamples{
		ISamples: []int32{1, 2, 3}, QSamples: []int32{4, 5, 6}, NumSamples: 3,
	})
	if err != nil {
		t.Fatalf("EncodeDebug failed: %v", err)
	}
	ack, _ := EncodeAck(model.AckDebugError)

	mismatch := appendPackedSint32(nil, debugISamplesField, []int32{1, 2})
	mismatch = appendPackedSint32(mismatch, debugQSamplesField, []int32{1})

	tooMany := appendPackedSint32(nil, debugISamplesField, []int32{1})
	tooMany = appendPackedSint32(tooMany, debugQSamplesField, []int32{1})
	tooMany = appendUint(tooMany, debugNumSamplesField, 2)

	cases := map[string][]byte{
		"truncated":       good[:len(good)/2],
		"ack envelope":    ack,
		"length mismatch": mismatch,
		"num too large":   tooMany,
		"bad tag":         {0x00, 0x01},
	}

	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDebug(b)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}
