// internal/driver/wavegen/stream.go
package wavegen

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wavegen/internal/model"
	"wavegen/internal/wire"
)

// TriggerAndCollect arms a debug capture and collects the burst that
// follows. The device answers TRIG_DBG with a bare Debug_msg instead of an
// ack, and the burst carries no length, so it is read until the line goes
// idle.
//
// An empty burst is a valid empty capture. When the burst is not a
// Debug_msg but parses as an ack envelope, the device refused the trigger
// and the matching ProtocolError is returned (DEBUG_ERROR maps to
// ErrDebugFailed).
func (c *Client) TriggerAndCollect(ctx context.Context) (*model.DebugSamples, error) {
	const op = "trigger debug"
	start := time.Now()

	samples, burstBytes, err := c.triggerAndCollect(ctx, op)
	c.recordOperation(op, start, err)
	if err != nil {
		return nil, err
	}

	c.recordCapture()
	c.logger.LogCapture(samples.NumSamples, burstBytes, time.Since(start))
	return samples, nil
}

func (c *Client) triggerAndCollect(ctx context.Context, op string) (*model.DebugSamples, int, error) {
	envelope, err := wire.EncodeControl(model.CommandTriggerDebug)
	if err != nil {
		return nil, 0, &ProtocolError{Kind: KindBadCommand, Op: op, Err: err}
	}

	if err := c.transport.SendFrame(ctx, envelope); err != nil {
		return nil, 0, err
	}

	burst, err := c.transport.ReceiveUntilIdle(ctx, c.options.ChunkSize, c.options.IdleTimeout)
	if err != nil {
		return nil, 0, err
	}

	samples, decodeErr := wire.DecodeDebug(burst)
	if decodeErr == nil {
		return samples, len(burst), nil
	}

	ack, replyErr := wire.DecodeReply(burst)
	if replyErr != nil {
		c.logger.Warn("Debug burst could not be decoded",
			zap.Int("burst_bytes", len(burst)),
			zap.Error(decodeErr),
		)
		return nil, len(burst), &ProtocolError{Kind: KindDebugCorrupt, Op: op, Err: decodeErr}
	}

	switch ack {
	case model.AckOK, model.AckDebugIsValid:
		return model.EmptySamples(), len(burst), nil
	case model.AckDebugError:
		return nil, len(burst), &ProtocolError{Kind: KindDebugFailed, Op: op, Retval: ack}
	case model.AckNoConfig, model.AckBadCommand:
		return nil, len(burst), ackError(op, ack)
	default:
		return nil, len(burst), &ProtocolError{Kind: KindDebugCorrupt, Op: op, Retval: ack, Err: decodeErr}
	}
}
