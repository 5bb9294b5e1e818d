// internal/driver/wavegen/exchange.go
package wavegen

import (
	"context"
	"time"

	"wavegen/internal/model"
	"wavegen/internal/wire"
)

// Exchange sends one envelope and waits for exactly one ack. ACK returns
// nil; a rejection or an undecodable reply returns a *ProtocolError; a
// transport fault returns a *protocol.ConnectionError. Nothing is retried.
func (c *Client) Exchange(ctx context.Context, envelope []byte) (model.AckResult, error) {
	return c.exchange(ctx, "exchange", envelope)
}

// PushConfig sends cfg as the device's new configuration. cfg is not
// modified or rolled back whatever the outcome.
func (c *Client) PushConfig(ctx context.Context, cfg *model.GeneratorConfig) error {
	start := time.Now()

	envelope, err := wire.EncodeConfig(cfg)
	if err != nil {
		err = &ProtocolError{Kind: KindBadConfig, Op: "push config", Err: err}
		c.recordOperation("push config", start, err)
		return err
	}

	c.logger.Debug("Pushing configuration")
	_, err = c.exchange(ctx, "push config", envelope)
	c.recordOperation("push config", start, err)
	return err
}

// Start asks the generator to run its current configuration
func (c *Client) Start(ctx context.Context) error {
	return c.control(ctx, model.CommandStart)
}

// Stop halts waveform generation
func (c *Client) Stop(ctx context.Context) error {
	return c.control(ctx, model.CommandStop)
}

func (c *Client) control(ctx context.Context, cmd model.ControlCommand) error {
	start := time.Now()
	op := "control " + string(cmd)

	envelope, err := wire.EncodeControl(cmd)
	if err != nil {
		err = &ProtocolError{Kind: KindBadCommand, Op: op, Err: err}
		c.recordOperation(op, start, err)
		return err
	}

	_, err = c.exchange(ctx, op, envelope)
	c.recordOperation(op, start, err)
	return err
}

func (c *Client) exchange(ctx context.Context, op string, envelope []byte) (model.AckResult, error) {
	if err := c.transport.SendFrame(ctx, envelope); err != nil {
		return model.AckUnknown, err
	}

	reply, err := c.transport.ReceiveFixed(ctx, c.options.AckBufferSize, c.options.ReplyTimeout)
	if err != nil {
		return model.AckUnknown, err
	}

	ack, err := wire.DecodeReply(reply)
	if err != nil {
		return model.AckUnknown, &ProtocolError{Kind: KindMalformedReply, Op: op, Err: err}
	}

	return ack, ackError(op, ack)
}
