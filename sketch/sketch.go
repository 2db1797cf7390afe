// Package sketch drives a simulation step by step, headless.
package sketch

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// Sketch is a simulation advanced one frame per Step.
type Sketch interface {
	// Step advances one frame. An error reports a failed frame; the sketch
	// remains usable.
	Step() error

	// Reset clears the sketch and reseeds it.
	Reset()

	// Summary returns slog key/value pairs describing the current state.
	Summary() []any
}

// Report describes a finished Run.
type Report struct {
	Steps   int
	Errors  int
	Resets  int
	Elapsed time.Duration
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("steps", r.Steps),
		slog.Int("errors", r.Errors),
		slog.Int("resets", r.Resets),
		slog.Duration("elapsed", r.Elapsed),
	)
}

type options struct {
	logger     *slog.Logger
	every      int
	resetEvery int
	progress   *uint64
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger Run reports to; by default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSummaryEvery logs the sketch's Summary at debug level every n steps.
func WithSummaryEvery(n int) Option {
	return func(o *options) { o.every = n }
}

// WithResetEvery resets the sketch after every n steps.
func WithResetEvery(n int) Option {
	return func(o *options) { o.resetEvery = n }
}

// WithProgress atomically increments *p after every step.
func WithProgress(p *uint64) Option {
	return func(o *options) { o.progress = p }
}

// Run steps s up to steps times, or until ctx is done if steps <= 0.
//
// Step errors are logged and counted and the run continues. If ctx is done
// before all steps complete, Run returns the partial report and ctx.Err().
func Run(ctx context.Context, s Sketch, steps int, opts ...Option) (Report, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	var r Report
	start := time.Now()

	for steps <= 0 || r.Steps < steps {
		select {
		case <-ctx.Done():
			r.Elapsed = time.Since(start)
			o.logger.Info("sketch_cancelled", "report", r)
			return r, ctx.Err()
		default:
		}

		if err := s.Step(); err != nil {
			r.Errors++
			o.logger.Warn("sketch_step_error", "step", r.Steps, "err", err)
		}
		r.Steps++
		if o.progress != nil {
			atomic.AddUint64(o.progress, 1)
		}
		if o.every > 0 && r.Steps%o.every == 0 {
			o.logger.Debug("sketch_step", append([]any{"step", r.Steps}, s.Summary()...)...)
		}
		if o.resetEvery > 0 && r.Steps%o.resetEvery == 0 {
			s.Reset()
			r.Resets++
			o.logger.Debug("sketch_reset", "step", r.Steps)
		}
	}
	r.Elapsed = time.Since(start)
	o.logger.Info("sketch_done", "report", r)
	return r, nil
}
