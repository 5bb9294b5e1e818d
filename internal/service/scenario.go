// internal/service/scenario.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"wavegen/internal/config"
	"wavegen/internal/driver/wavegen"
	"wavegen/internal/model"
	"wavegen/internal/sink"
	"wavegen/internal/utils"
)

// ScenarioStep is one configuration of the demo sequence
type ScenarioStep struct {
	Name  string
	Apply func(cfg *model.GeneratorConfig)
	// Capture runs start + trigger after the configuration is accepted
	Capture bool
	// ExpectRejection marks a step the device is meant to refuse
	ExpectRejection bool
}

// DemoSteps is the demo sequence: every waveform in both modes, then an
// out-of-range frequency the device must reject.
func DemoSteps() []ScenarioStep {
	return []ScenarioStep{
		{Name: "pulsed phase-mod", Capture: true, Apply: func(c *model.GeneratorConfig) { c.SetPulsedPhaseMod(250, 70, 100, 7) }},
		{Name: "continuous const-freq", Capture: true, Apply: func(c *model.GeneratorConfig) { c.SetContinuousConstFreq(10) }},
		{Name: "continuous freq-mod", Capture: true, Apply: func(c *model.GeneratorConfig) { c.SetContinuousFreqMod(0, 500, 250) }},
		{Name: "pulsed const-freq", Capture: true, Apply: func(c *model.GeneratorConfig) { c.SetPulsedConstFreq(250, 100, 500) }},
		{Name: "pulsed freq-mod", Capture: true, Apply: func(c *model.GeneratorConfig) { c.SetPulsedFreqMod(250, 50, 0, 5000) }},
		{Name: "pulsed phase-mod", Capture: true, Apply: func(c *model.GeneratorConfig) { c.SetPulsedPhaseMod(250, 70, 100, 7) }},
		{Name: "out of range", ExpectRejection: true, Apply: func(c *model.GeneratorConfig) { c.SetContinuousConstFreq(21000) }},
	}
}

// ScenarioRunner drives the generator service through a fixed sequence,
// retrying the whole sequence with exponential backoff when a step fails.
type ScenarioRunner struct {
	service  *GeneratorService
	steps    []ScenarioStep
	config   *config.ScenarioConfig
	dumpPath string
	logger   *utils.ServiceLogger
}

// NewScenarioRunner creates a runner over the demo sequence
func NewScenarioRunner(service *GeneratorService, cfg *config.ScenarioConfig, dumpPath string, logger *zap.Logger) *ScenarioRunner {
	return &ScenarioRunner{
		service:  service,
		steps:    DemoSteps(),
		config:   cfg,
		dumpPath: dumpPath,
		logger:   utils.NewServiceLogger(logger, "scenario-runner"),
	}
}

// Run repeats the sequence config.Loops times, or until ctx is done when
// Loops is 0.
func (r *ScenarioRunner) Run(ctx context.Context) error {
	for loop := 1; r.config.Loops == 0 || loop <= r.config.Loops; loop++ {
		if ctx.Err() != nil {
			return nil
		}

		opLogger := utils.NewOperationLogger(r.logger.Logger, "scenario", fmt.Sprintf("loop-%d", loop))
		opLogger.Start(zap.Int("steps", len(r.steps)))

		if err := r.runWithRetry(ctx, opLogger); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			opLogger.Error(err)
			return fmt.Errorf("scenario loop %d failed: %w", loop, err)
		}
		opLogger.Success()
	}
	return nil
}

func (r *ScenarioRunner) runWithRetry(ctx context.Context, opLogger *utils.OperationLogger) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = r.config.InitialInterval
	expBackoff.MaxInterval = r.config.MaxInterval
	expBackoff.MaxElapsedTime = 0

	var policy backoff.BackOff = expBackoff
	if r.config.MaxRetries > 0 {
		policy = backoff.WithMaxRetries(policy, uint64(r.config.MaxRetries))
	}

	operation := func() error {
		err := r.runSteps(ctx, opLogger)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		r.logger.Warn("Scenario failed, retrying",
			zap.Error(err),
			zap.Bool("fatal", wavegen.IsFatal(err)),
			zap.Duration("retry_in", next),
		)
	}

	// backoff gives up with the last step error once ctx's deadline is
	// nearer than the next interval, so the retry context carries
	// cancellation only
	retryCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return backoff.RetryNotify(operation, backoff.WithContext(policy, retryCtx), notify)
}

// RunOnce runs every step once and stops at the first unexpected failure
func (r *ScenarioRunner) RunOnce(ctx context.Context) error {
	return r.runSteps(ctx, nil)
}

func (r *ScenarioRunner) runSteps(ctx context.Context, opLogger *utils.OperationLogger) error {
	for k, step := range r.steps {
		if err := r.runStep(ctx, step); err != nil {
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		if opLogger != nil {
			opLogger.Progress(k+1, len(r.steps), zap.String("step", step.Name))
		}
	}
	return nil
}

func (r *ScenarioRunner) runStep(ctx context.Context, step ScenarioStep) error {
	cfg, err := r.service.Configure(ctx, step.Apply)
	if step.ExpectRejection {
		if errors.Is(err, wavegen.ErrBadConfig) {
			r.logger.Info("Configuration rejected as expected",
				zap.String("step", step.Name),
				zap.String("config", cfg.String()),
			)
			return nil
		}
		if err != nil {
			return err
		}
		r.logger.Warn("Out-of-range configuration was accepted", zap.String("step", step.Name))
		return nil
	}
	if err != nil {
		return err
	}

	if !step.Capture {
		return nil
	}

	if err := r.service.Start(ctx); err != nil {
		return err
	}

	capture, err := r.service.Trigger(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("Scenario capture",
		zap.String("step", step.Name),
		zap.String("capture_id", capture.ID.String()),
		zap.Int("num_samples", capture.NumSamples()),
		zap.Float64("rms_amplitude", capture.Stats.RMSAmplitude),
	)

	if r.config.Dump && r.dumpPath != "" {
		if err := sink.DumpToFile(r.dumpPath, capture.Samples); err != nil {
			r.logger.Error("Failed to dump samples", zap.String("path", r.dumpPath), zap.Error(err))
		}
	}
	return nil
}
