// internal/protocol/tcp_connection.go
package protocol

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TCPConnection implements FrameTransport for the generator's TCP port.
// I/O is not safe for concurrent use; Stats and IsOpen are.
type TCPConnection struct {
	config *TCPConfig
	conn   net.Conn
	logger *zap.Logger
	mutex  sync.RWMutex
	isOpen bool
	stats  ProtocolStats
}

type readStatus int

const (
	readData readStatus = iota
	// readIdle means the deadline passed with nothing on the line
	readIdle
	// readClosed means the peer ended the stream
	readClosed
)

// NewTCPConnection creates a new TCP connection
func NewTCPConnection(config *TCPConfig, logger *zap.Logger) *TCPConnection {
	return &TCPConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "tcp"),
			zap.String("host", config.Host),
			zap.Int("port", config.Port),
		),
	}
}

// Open connects within ConnectTimeout. On failure the socket is released
// and a *ConnectionError is returned.
func (tc *TCPConnection) Open(ctx context.Context) error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.isOpen {
		return nil
	}

	address := tc.config.Address()
	tc.logger.Info("Opening TCP connection", zap.Duration("timeout", tc.config.ConnectTimeout))

	dialer := &net.Dialer{
		Timeout: tc.config.ConnectTimeout,
	}
	if !tc.config.KeepAlive {
		dialer.KeepAlive = -1
	}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		tc.stats.ErrorCount++
		tc.logger.Error("Failed to open TCP connection", zap.Error(err))
		return &ConnectionError{Op: "connect", Addr: address, Timeout: isTimeout(err), Err: err}
	}

	tc.conn = conn
	tc.isOpen = true
	tc.stats.IsConnected = true
	tc.stats.LastActivity = time.Now()

	tc.logger.Info("TCP connection opened successfully")
	return nil
}

// Close closes the TCP connection
func (tc *TCPConnection) Close() error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if !tc.isOpen || tc.conn == nil {
		return nil
	}

	err := tc.conn.Close()
	tc.markClosedLocked()
	if err != nil {
		tc.logger.Error("Failed to close TCP connection", zap.Error(err))
		return &ConnectionError{Op: "close", Addr: tc.config.Address(), Err: err}
	}

	tc.logger.Info("TCP connection closed successfully")
	return nil
}

// IsOpen returns whether the connection is open
func (tc *TCPConnection) IsOpen() bool {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()
	return tc.isOpen && tc.conn != nil
}

// Address returns the peer address
func (tc *TCPConnection) Address() string {
	return tc.config.Address()
}

// Stats returns a snapshot of the transport counters
func (tc *TCPConnection) Stats() ProtocolStats {
	tc.mutex.RLock()
	defer tc.mutex.RUnlock()
	return tc.stats
}

// SendFrame writes the whole buffer under WriteTimeout
func (tc *TCPConnection) SendFrame(ctx context.Context, data []byte) error {
	conn, err := tc.activeConn(ctx, "send")
	if err != nil {
		return err
	}

	if err := conn.SetWriteDeadline(tc.deadline(ctx, tc.config.WriteTimeout)); err != nil {
		return tc.fail("send", err)
	}

	startTime := time.Now()
	n, err := conn.Write(data)
	if err != nil {
		tc.logger.Error("TCP write failed", zap.Error(err))
		return tc.fail("send", err)
	}
	if n != len(data) {
		return tc.fail("send", io.ErrShortWrite)
	}

	tc.mutex.Lock()
	tc.stats.BytesWritten += int64(n)
	tc.stats.OperationCount++
	tc.stats.LastActivity = time.Now()
	tc.updateAverageLatency(time.Since(startTime))
	tc.mutex.Unlock()

	tc.logger.Debug("TCP write completed", zap.Int("bytes", n))
	return nil
}

// ReceiveFixed performs one read of up to maxBytes. Silence for longer than
// replyTimeout is a connection failure.
func (tc *TCPConnection) ReceiveFixed(ctx context.Context, maxBytes int, replyTimeout time.Duration) ([]byte, error) {
	conn, err := tc.activeConn(ctx, "receive")
	if err != nil {
		return nil, err
	}

	buffer := make([]byte, maxBytes)
	startTime := time.Now()

	n, status, err := tc.readChunk(conn, buffer, tc.deadline(ctx, replyTimeout))
	if err != nil {
		return nil, err
	}

	switch status {
	case readIdle:
		tc.logger.Warn("No reply within timeout", zap.Duration("timeout", replyTimeout))
		return nil, tc.fail("receive", ErrReplyTimeout)
	case readClosed:
		return nil, tc.fail("receive", ErrPeerClosed)
	}

	tc.mutex.Lock()
	tc.stats.OperationCount++
	tc.updateAverageLatency(time.Since(startTime))
	tc.mutex.Unlock()

	tc.logger.Debug("TCP read completed", zap.Int("bytes", n))
	return buffer[:n], nil
}

// ReceiveUntilIdle reads chunks of up to chunkCap bytes until a read sees
// no data for idleTimeout or the peer closes the stream, and returns every
// byte received in arrival order. The idle deadline restarts after each
// chunk. A peer close, or a transport fault after data has arrived, ends
// the burst and leaves the connection closed.
func (tc *TCPConnection) ReceiveUntilIdle(ctx context.Context, chunkCap int, idleTimeout time.Duration) ([]byte, error) {
	conn, err := tc.activeConn(ctx, "receive burst")
	if err != nil {
		return nil, err
	}

	buffer := make([]byte, chunkCap)
	burst := make([]byte, 0, chunkCap)
	chunks := 0

	for {
		n, status, err := tc.readChunk(conn, buffer, tc.deadline(ctx, idleTimeout))
		if err != nil {
			if chunks == 0 {
				return nil, err
			}
			// readChunk already closed the connection; the partial burst goes
			// to the caller to be judged
			tc.logger.Warn("Connection dropped during burst",
				zap.Int("bytes", len(burst)),
				zap.Error(err),
			)
			break
		}
		if status == readData {
			burst = append(burst, buffer[:n]...)
			chunks++
			continue
		}

		if status == readClosed {
			tc.logger.Warn("Peer closed connection during burst", zap.Int("bytes", len(burst)))
			tc.mutex.Lock()
			if tc.conn != nil {
				tc.conn.Close()
			}
			tc.markClosedLocked()
			tc.mutex.Unlock()
		}
		break
	}

	tc.mutex.Lock()
	tc.stats.OperationCount++
	tc.stats.BurstCount++
	tc.stats.LastBurstBytes = int64(len(burst))
	tc.mutex.Unlock()

	tc.logger.Debug("TCP burst completed",
		zap.Int("bytes", len(burst)),
		zap.Int("chunks", chunks),
	)
	return burst, nil
}

// readChunk performs a single read. Running out of time and reaching EOF
// are reported through readStatus; only real transport faults are errors.
func (tc *TCPConnection) readChunk(conn net.Conn, buffer []byte, deadline time.Time) (int, readStatus, error) {
	if err := conn.SetReadDeadline(deadline); err != nil {
		return 0, readData, tc.fail("receive", err)
	}

	n, err := conn.Read(buffer)
	if n > 0 {
		tc.mutex.Lock()
		tc.stats.BytesRead += int64(n)
		tc.stats.LastActivity = time.Now()
		tc.mutex.Unlock()
		// data returned alongside EOF is delivered now, EOF again on the next read
		return n, readData, nil
	}

	switch {
	case err == nil:
		return 0, readData, nil
	case isTimeout(err):
		return 0, readIdle, nil
	case errors.Is(err, io.EOF):
		return 0, readClosed, nil
	default:
		tc.logger.Error("TCP read failed", zap.Error(err))
		return 0, readData, tc.fail("receive", err)
	}
}

func (tc *TCPConnection) activeConn(ctx context.Context, op string) (net.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ConnectionError{Op: op, Addr: tc.config.Address(), Err: err}
	}

	tc.mutex.RLock()
	defer tc.mutex.RUnlock()

	if !tc.isOpen || tc.conn == nil {
		return nil, &ConnectionError{Op: op, Addr: tc.config.Address(), Err: ErrNotOpen}
	}
	return tc.conn, nil
}

// deadline is now+timeout, pulled in to the context deadline if that is earlier
func (tc *TCPConnection) deadline(ctx context.Context, timeout time.Duration) time.Time {
	var d time.Time
	if timeout > 0 {
		d = time.Now().Add(timeout)
	}
	if cd, ok := ctx.Deadline(); ok && (d.IsZero() || cd.Before(d)) {
		d = cd
	}
	return d
}

// fail counts the error and tears the connection down: a transport fault
// leaves the stream in an unknown position, so nothing after it can be trusted.
func (tc *TCPConnection) fail(op string, err error) error {
	tc.mutex.Lock()
	tc.stats.ErrorCount++
	if tc.conn != nil {
		tc.conn.Close()
	}
	tc.markClosedLocked()
	tc.mutex.Unlock()
	return &ConnectionError{Op: op, Addr: tc.config.Address(), Timeout: isTimeout(err) || errors.Is(err, ErrReplyTimeout), Err: err}
}

func (tc *TCPConnection) markClosedLocked() {
	tc.conn = nil
	tc.isOpen = false
	tc.stats.IsConnected = false
}

// updateAverageLatency updates the running average latency
func (tc *TCPConnection) updateAverageLatency(newLatency time.Duration) {
	if tc.stats.AverageLatency == 0 {
		tc.stats.AverageLatency = newLatency
	} else {
		tc.stats.AverageLatency = (tc.stats.AverageLatency + newLatency) / 2
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
