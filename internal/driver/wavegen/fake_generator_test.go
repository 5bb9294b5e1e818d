package wavegen

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"wavegen/internal/config"
	"wavegen/internal/model"
	"wavegen/internal/wire"
)

// fakeGenerator is an in-process stand-in for the generator firmware. It
// serves one connection, answers configuration and control envelopes with
// acks, and answers TRIG_DBG with a bare Debug_msg.
type fakeGenerator struct {
	t        *testing.T
	listener net.Listener

	mu         sync.Mutex
	configured bool
	numSamples int
	chunkSize  int
	// resetMidBurst cuts the debug burst in half and resets the connection
	resetMidBurst bool
	received      []*wire.Envelope
	// respond, when set, replaces the firmware behaviour for an envelope.
	// Returning ok=false falls through to the default handling.
	respond func(env *wire.Envelope) (reply []byte, ok bool)
}

func newFakeGenerator(t *testing.T) *fakeGenerator {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	f := &fakeGenerator{
		t:         t,
		listener:  listener,
		chunkSize: 8192,
	}
	t.Cleanup(func() { listener.Close() })

	go f.serve()
	return f
}

func (f *fakeGenerator) deviceConfig() *config.DeviceConfig {
	addr := f.listener.Addr().(*net.TCPAddr)
	return &config.DeviceConfig{
		Host:           "127.0.0.1",
		Port:           addr.Port,
		ConnectTimeout: time.Second,
		ReplyTimeout:   time.Second,
		IdleTimeout:    200 * time.Millisecond,
		WriteTimeout:   time.Second,
		AckBufferSize:  100,
		ChunkSize:      500000,
	}
}

func (f *fakeGenerator) connect(t *testing.T) *Client {
	t.Helper()

	client, err := Connect(context.Background(), f.deviceConfig(), zap.NewNop())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func (f *fakeGenerator) setSamples(n int) {
	f.mu.Lock()
	f.numSamples = n
	f.mu.Unlock()
}

func (f *fakeGenerator) setResetMidBurst() {
	f.mu.Lock()
	f.resetMidBurst = true
	f.mu.Unlock()
}

func (f *fakeGenerator) setResponder(fn func(env *wire.Envelope) ([]byte, bool)) {
	f.mu.Lock()
	f.respond = fn
	f.mu.Unlock()
}

func (f *fakeGenerator) lastEnvelope() *wire.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.received) == 0 {
		return nil
	}
	return f.received[len(f.received)-1]
}

func (f *fakeGenerator) serve() {
	conn, err := f.listener.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}

		env, err := wire.DecodeEnvelope(buf[:n])
		if err != nil {
			f.writeAck(conn, model.AckInvalidMsg)
			continue
		}

		f.mu.Lock()
		f.received = append(f.received, env)
		respond := f.respond
		f.mu.Unlock()

		if respond != nil {
			if reply, ok := respond(env); ok {
				if len(reply) > 0 {
					conn.Write(reply)
				}
				continue
			}
		}

		f.handle(conn, env)
	}
}

func (f *fakeGenerator) handle(conn net.Conn, env *wire.Envelope) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch env.Kind {
	case wire.EnvelopeConfig:
		if env.Config == nil || !acceptable(env.Config) {
			f.writeAck(conn, model.AckBadConfig)
			return
		}
		f.configured = true
		f.writeAck(conn, model.AckOK)
	case wire.EnvelopeControl:
		if !f.configured {
			f.writeAck(conn, model.AckNoConfig)
			return
		}
		switch env.Command {
		case model.CommandStart, model.CommandStop:
			f.writeAck(conn, model.AckOK)
		case model.CommandTriggerDebug:
			f.writeBurst(conn)
		default:
			f.writeAck(conn, model.AckBadCommand)
		}
	default:
		f.writeAck(conn, model.AckInvalidMsg)
	}
}

func (f *fakeGenerator) writeAck(conn net.Conn, retval model.AckResult) {
	b, err := wire.EncodeAck(retval)
	if err != nil {
		f.t.Errorf("EncodeAck failed: %v", err)
		return
	}
	conn.Write(b)
}

func (f *fakeGenerator) writeBurst(conn net.Conn) {
	b, err := wire.EncodeDebug(testSamples(f.numSamples))
	if err != nil {
		f.t.Errorf("EncodeDebug failed: %v", err)
		return
	}
	if f.resetMidBurst {
		conn.Write(b[:len(b)/2])
		time.Sleep(100 * time.Millisecond)
		if tcp, ok := conn.(*net.TCPConn); ok {
			tcp.SetLinger(0)
		}
		conn.Close()
		return
	}
	for len(b) > 0 {
		n := f.chunkSize
		if n > len(b) {
			n = len(b)
		}
		if _, err := conn.Write(b[:n]); err != nil {
			return
		}
		b = b[n:]
	}
}

func testSamples(n int) *model.DebugSamples {
	s := &model.DebugSamples{
		ISamples:   make([]int32, n),
		QSamples:   make([]int32, n),
		NumSamples: n,
	}
	for k := 0; k < n; k++ {
		s.ISamples[k] = int32(int16(k * 7))
		s.QSamples[k] = int32(int16(-k * 3))
	}
	return s
}

// acceptable mirrors the firmware's range checks
func acceptable(cfg *model.GeneratorConfig) bool {
	if cfg.Mode == model.ModePulsed {
		if cfg.PeriodUs > model.MaxPeriodUs || cfg.PeriodUs < model.MinPeriodUs {
			return false
		}
		if cfg.PulseLengthUs > model.MaxPulseLengthUs || cfg.PulseLengthUs < model.MinPulseLengthUs {
			return false
		}
		if cfg.PulseLengthUs >= cfg.PeriodUs {
			return false
		}
	}

	switch w := cfg.Waveform.(type) {
	case model.ConstFreq:
		return w.FreqKhz <= model.MaxFreqKhz
	case model.FreqMod:
		return w.LowFreqKhz <= w.HighFreqKhz && w.HighFreqKhz <= model.MaxFreqKhz
	case model.PhaseMod:
		if w.FreqKhz > model.MaxFreqKhz {
			return false
		}
		for _, l := range model.BarkerLengths {
			if l == w.BarkerSeqNum {
				return true
			}
		}
		return false
	default:
		return false
	}
}
