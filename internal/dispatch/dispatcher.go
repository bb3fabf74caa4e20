package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"cookierisk/internal/logging"
	"cookierisk/internal/scoring"
	"cookierisk/internal/services"
)

// DefaultTimeout bounds a single scoring request when Options.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// Scorer scores one encoded sequence.
type Scorer interface {
	Score(ctx context.Context, endpoint string, sequence []int) (scoring.Prediction, error)
}

// Options configures a Dispatcher.
type Options struct {
	// Timeout is the per-item request deadline.
	Timeout time.Duration
	// MaxConcurrency caps in-flight requests; zero means one goroutine per item.
	MaxConcurrency int
	Logger         *slog.Logger
}

// Dispatcher runs batches against a scorer.
type Dispatcher struct {
	scorer         Scorer
	timeout        time.Duration
	maxConcurrency int
	logger         *slog.Logger
}

// NewDispatcher constructs a dispatcher around scorer.
func NewDispatcher(scorer Scorer, opts Options) *Dispatcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limit := opts.MaxConcurrency
	if limit < 0 {
		limit = 0
	}
	return &Dispatcher{
		scorer:         scorer,
		timeout:        timeout,
		maxConcurrency: limit,
		logger:         logging.NewComponentLogger(opts.Logger, "dispatch"),
	}
}

// Dispatch sends every item to endpoint and returns one outcome per item in
// input order. It never fails as a whole.
func (d *Dispatcher) Dispatch(ctx context.Context, items []Item, endpoint string) []Outcome {
	outcomes := make([]Outcome, len(items))
	if len(items) == 0 {
		return outcomes
	}
	logger := logging.WithContext(ctx, d.logger)
	logger.Info("dispatch started",
		logging.Int("items", len(items)),
		logging.String("endpoint", endpoint),
		logging.Int("max_concurrency", d.maxConcurrency),
	)
	started := time.Now()

	// Workers always return nil; a plain Group never cancels siblings.
	var group errgroup.Group
	if d.maxConcurrency > 0 {
		group.SetLimit(d.maxConcurrency)
	}
	for i, item := range items {
		group.Go(func() error {
			outcomes[i] = d.scoreItem(ctx, i, item, endpoint)
			return nil
		})
	}
	_ = group.Wait()

	succeeded, failed := Summary(outcomes)
	logger.Info("dispatch finished",
		logging.Int("succeeded", succeeded),
		logging.Int("failed", failed),
		logging.Duration("elapsed", time.Since(started)),
	)
	return outcomes
}

func (d *Dispatcher) scoreItem(ctx context.Context, index int, item Item, endpoint string) Outcome {
	ctx = services.WithItem(ctx, index, item.Name)
	if err := ctx.Err(); err != nil {
		d.logFailure(ctx, err)
		return Failure(item.Name, failureMessage(err))
	}
	itemCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	prediction, err := d.scorer.Score(itemCtx, endpoint, item.Sequence)
	if err != nil {
		d.logFailure(ctx, err)
		return Failure(item.Name, failureMessage(err))
	}
	logging.WithContext(ctx, d.logger).Debug("item scored",
		logging.Int("predicted_class", prediction.PredictedClass),
		logging.String("label", prediction.Label()),
	)
	return Success(item.Name, prediction)
}

func (d *Dispatcher) logFailure(ctx context.Context, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, d.logger), "item scoring failed", "dispatch_item_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the scoring endpoint and its logs"),
		logging.String(logging.FieldImpact, "cookie shows an error row instead of a risk level"),
	)
}

// failureMessage turns an error into the short text shown in a failure row.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case err == nil:
		return "unknown error"
	}
	return err.Error()
}
