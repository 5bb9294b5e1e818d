package wavegen

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"

	"wavegen/internal/config"
	"wavegen/internal/model"
	"wavegen/internal/protocol"
	"wavegen/internal/wire"
)

func respondTo(cmd model.ControlCommand, reply []byte) func(env *wire.Envelope) ([]byte, bool) {
	return func(env *wire.Envelope) ([]byte, bool) {
		if env.Kind == wire.EnvelopeControl && env.Command == cmd {
			return reply, true
		}
		return nil, false
	}
}

func mustAck(t *testing.T, retval model.AckResult) []byte {
	t.Helper()
	b, err := wire.EncodeAck(retval)
	if err != nil {
		t.Fatalf("EncodeAck failed: %v", err)
	}
	return b
}

func TestClient_PulsedPhaseModCapture(t *testing.T) {
	fake := newFakeGenerator(t)
	fake.setSamples(12345)
	client := fake.connect(t)
	ctx := context.Background()

	cfg := model.NewGeneratorConfig().
		EnableDebug(true).
		SetPulsedPhaseMod(250, 70, 100, 7)

	if err := client.PushConfig(ctx, cfg); err != nil {
		t.Fatalf("PushConfig failed: %v", err)
	}

	sent := fake.lastEnvelope()
	if sent == nil || sent.Kind != wire.EnvelopeConfig {
		t.Fatalf("expected a config envelope, got %+v", sent)
	}
	if sent.Config.Mode != model.ModePulsed || sent.Config.PeriodUs != 250 || sent.Config.PulseLengthUs != 70 {
		t.Errorf("unexpected config on the wire: %s", sent.Config)
	}
	pm, ok := sent.Config.Waveform.(model.PhaseMod)
	if !ok || pm.FreqKhz != 100 || pm.BarkerSeqNum != 7 {
		t.Errorf("unexpected waveform on the wire: %+v", sent.Config.Waveform)
	}
	if !sent.Config.DebugEnabled {
		t.Error("expected debug_enabled on the wire")
	}

	if err := client.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	samples, err := client.TriggerAndCollect(ctx)
	if err != nil {
		t.Fatalf("TriggerAndCollect failed: %v", err)
	}
	if samples.NumSamples != 12345 {
		t.Fatalf("expected 12345 samples, got %d", samples.NumSamples)
	}
	if len(samples.ISamples) != 12345 || len(samples.QSamples) != 12345 {
		t.Fatalf("expected 12345 I/Q pairs, got %d/%d", len(samples.ISamples), len(samples.QSamples))
	}

	want := testSamples(12345)
	for _, k := range []int{0, 1, 4680, 12344} {
		if samples.ISamples[k] != want.ISamples[k] || samples.QSamples[k] != want.QSamples[k] {
			t.Errorf("sample %d: got (%d,%d), want (%d,%d)", k,
				samples.ISamples[k], samples.QSamples[k], want.ISamples[k], want.QSamples[k])
		}
	}

	if !client.IsConnected() {
		t.Error("expected the connection to survive the burst")
	}

	metrics := client.GetHealthMetrics()
	if metrics.TotalOperations != 3 || metrics.CaptureCount != 1 {
		t.Errorf("unexpected metrics %+v", metrics)
	}
	if metrics.SuccessRate != 1 {
		t.Errorf("expected success rate 1, got %f", metrics.SuccessRate)
	}
	if metrics.LastBurstBytes == 0 {
		t.Error("expected burst bytes to be recorded")
	}
}

func TestClient_PushConfigRejected(t *testing.T) {
	fake := newFakeGenerator(t)
	client := fake.connect(t)

	cfg := model.NewGeneratorConfig().SetContinuousConstFreq(model.MaxFreqKhz + 1000)
	before := *cfg

	err := client.PushConfig(context.Background(), cfg)
	if !errors.Is(err, ErrBadConfig) {
		t.Fatalf("expected ErrBadConfig, got %v", err)
	}
	if IsFatal(err) {
		t.Error("a rejected config must not be fatal")
	}
	if *cfg != before {
		t.Errorf("config changed after rejection: %s", cfg)
	}

	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Retval != model.AckBadConfig {
		t.Errorf("expected retval BAD_CONFIG, got %+v", pe)
	}

	// the connection is still good for a valid config
	if err := client.PushConfig(context.Background(), cfg.SetContinuousConstFreq(10)); err != nil {
		t.Fatalf("PushConfig after rejection failed: %v", err)
	}

	if got := client.GetHealthMetrics().RejectionCount; got != 1 {
		t.Errorf("expected 1 rejection, got %d", got)
	}
}

func TestClient_StartWithoutConfig(t *testing.T) {
	fake := newFakeGenerator(t)
	client := fake.connect(t)

	err := client.Start(context.Background())
	if kind, ok := KindOf(err); !ok || kind != KindNoConfig {
		t.Fatalf("expected NO_CONFIG, got %v", err)
	}
	if errors.Is(err, ErrBadCommand) || errors.Is(err, ErrBadConfig) {
		t.Error("NO_CONFIG must not match other rejection kinds")
	}

	_, err = client.TriggerAndCollect(context.Background())
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("expected ErrNoConfig from trigger, got %v", err)
	}
	if !client.IsConnected() {
		t.Error("expected connection to stay open")
	}
}

func TestClient_BadCommand(t *testing.T) {
	fake := newFakeGenerator(t)
	client := fake.connect(t)
	ctx := context.Background()

	if err := client.PushConfig(ctx, model.NewGeneratorConfig().SetContinuousConstFreq(10)); err != nil {
		t.Fatalf("PushConfig failed: %v", err)
	}

	envelope, err := wire.EncodeControl(model.CommandBrokenConn)
	if err != nil {
		t.Fatalf("EncodeControl failed: %v", err)
	}

	ack, err := client.Exchange(ctx, envelope)
	if ack != model.AckBadCommand {
		t.Errorf("expected BAD_COMMAND ack, got %s", ack)
	}
	if !errors.Is(err, ErrBadCommand) {
		t.Fatalf("expected ErrBadCommand, got %v", err)
	}
	if errors.Is(err, ErrDecode) {
		t.Error("BAD_COMMAND is not a decode error")
	}
}

func TestClient_MalformedReply(t *testing.T) {
	fake := newFakeGenerator(t)
	fake.setResponder(respondTo(model.CommandStop, []byte{0xff, 0xff, 0xff}))
	client := fake.connect(t)

	err := client.Stop(context.Background())
	if !errors.Is(err, ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
	if !errors.Is(err, ErrDecode) {
		t.Error("expected malformed reply to match ErrDecode")
	}
	if IsFatal(err) {
		t.Error("a malformed reply is a protocol error, not a transport fault")
	}
}

func TestClient_InvalidMsgReply(t *testing.T) {
	fake := newFakeGenerator(t)
	client := fake.connect(t)

	// the fake answers anything it cannot decode with INVALID_MSG
	ack, err := client.Exchange(context.Background(), []byte{0x0a, 0x7f})
	if ack != model.AckInvalidMsg {
		t.Errorf("expected INVALID_MSG, got %s", ack)
	}
	if !errors.Is(err, ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
}

func TestClient_TriggerCorruptBurst(t *testing.T) {
	burst, err := wire.EncodeDebug(testSamples(100))
	if err != nil {
		t.Fatalf("EncodeDebug failed: %v", err)
	}

	fake := newFakeGenerator(t)
	fake.setResponder(respondTo(model.CommandTriggerDebug, burst[:len(burst)-7]))
	client := fake.connect(t)

	_, err = client.TriggerAndCollect(context.Background())
	if !errors.Is(err, ErrDebugCorrupt) {
		t.Fatalf("expected ErrDebugCorrupt, got %v", err)
	}
	if !errors.Is(err, ErrDecode) {
		t.Error("expected corrupt burst to match ErrDecode")
	}
	if client.GetHealthMetrics().CaptureCount != 0 {
		t.Error("a corrupt burst must not count as a capture")
	}
}

func TestClient_TriggerConnectionResetMidBurst(t *testing.T) {
	fake := newFakeGenerator(t)
	fake.setSamples(5000)
	fake.setResetMidBurst()
	client := fake.connect(t)
	ctx := context.Background()

	if err := client.PushConfig(ctx, model.NewGeneratorConfig().SetContinuousConstFreq(10)); err != nil {
		t.Fatalf("PushConfig failed: %v", err)
	}

	_, err := client.TriggerAndCollect(ctx)
	if !errors.Is(err, ErrDebugCorrupt) {
		t.Fatalf("expected ErrDebugCorrupt, got %v", err)
	}
	if IsFatal(err) {
		t.Error("a truncated burst must be reported as a protocol error")
	}
	if client.IsConnected() {
		t.Error("expected the connection closed after the reset")
	}
}

func TestClient_TriggerDebugError(t *testing.T) {
	fake := newFakeGenerator(t)
	fake.setResponder(respondTo(model.CommandTriggerDebug, mustAck(t, model.AckDebugError)))
	client := fake.connect(t)

	_, err := client.TriggerAndCollect(context.Background())
	if !errors.Is(err, ErrDebugFailed) {
		t.Fatalf("expected ErrDebugFailed, got %v", err)
	}
	if IsFatal(err) {
		t.Error("DEBUG_ERROR must not be fatal")
	}
}

func TestClient_TriggerEmptyBurst(t *testing.T) {
	fake := newFakeGenerator(t)
	fake.setResponder(respondTo(model.CommandTriggerDebug, []byte{}))
	client := fake.connect(t)

	start := time.Now()
	samples, err := client.TriggerAndCollect(context.Background())
	if err != nil {
		t.Fatalf("TriggerAndCollect failed: %v", err)
	}
	if samples.NumSamples != 0 || len(samples.ISamples) != 0 || len(samples.QSamples) != 0 {
		t.Errorf("expected an empty capture, got %+v", samples)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("empty burst was not ended by the idle timeout")
	}
}

func TestClient_ReplyTimeoutIsFatal(t *testing.T) {
	fake := newFakeGenerator(t)
	fake.setResponder(respondTo(model.CommandStart, []byte{}))

	cfg := fake.deviceConfig()
	cfg.ReplyTimeout = 100 * time.Millisecond
	client, err := Connect(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	err = client.Start(context.Background())
	if !errors.Is(err, protocol.ErrReplyTimeout) {
		t.Fatalf("expected ErrReplyTimeout, got %v", err)
	}
	if !IsFatal(err) {
		t.Error("a reply timeout must be fatal")
	}
	if _, ok := KindOf(err); ok {
		t.Error("a transport fault has no protocol kind")
	}
	if client.IsConnected() {
		t.Error("expected the connection to be closed after a transport fault")
	}
	if got := client.GetHealthMetrics().ErrorCount; got != 1 {
		t.Errorf("expected 1 error, got %d", got)
	}
}

func TestConnect_Refused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	cfg := &config.DeviceConfig{
		Host:           "127.0.0.1",
		Port:           port,
		ConnectTimeout: time.Second,
		ReplyTimeout:   time.Second,
		IdleTimeout:    100 * time.Millisecond,
		AckBufferSize:  100,
		ChunkSize:      4096,
	}

	client, err := Connect(context.Background(), cfg, zap.NewNop())
	if err == nil {
		client.Close()
		t.Fatal("expected connect to fail")
	}
	if client != nil {
		t.Error("expected no client on failure")
	}
	if !protocol.IsConnectionError(err) {
		t.Fatalf("expected ConnectionError, got %T: %v", err, err)
	}
	if !IsFatal(err) {
		t.Error("a connect failure must be fatal")
	}
}

func TestProtocolError_Message(t *testing.T) {
	err := ackError("push config", model.AckBadConfig)
	if err.Error() != "push config: bad configuration" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if ackError("start", model.AckOK) != nil {
		t.Error("ACK must map to nil")
	}
	if kind, _ := KindOf(ackError("start", model.AckDebugIsValid)); kind != KindMalformedReply {
		t.Errorf("unexpected retval on an exchange must be malformed, got %s", kind)
	}
}
