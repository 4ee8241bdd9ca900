// Package pipeline moves completed risk reports from the analyzer to the
// report topic without holding up the HTTP response.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/hazard-risk-service/internal/domain"
	"github.com/couchcryptid/hazard-risk-service/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

var (
	// ErrQueueFull is returned by Publish when the buffer has no room.
	ErrQueueFull = errors.New("report queue full")
	// ErrStopped is returned by Publish once Run has exited.
	ErrStopped = errors.New("report publisher stopped")
)

// BatchLoader writes multiple reports to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, reports []domain.RiskReport) error
}

// Publisher buffers reports and writes them in batches, retrying failed
// writes with exponential backoff. It implements risk.ReportSink.
type Publisher struct {
	loader    BatchLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
	queue     chan domain.RiskReport
	batchSize int

	mu      sync.RWMutex
	stopped bool
	running atomic.Bool

	// FlushTimeout bounds the final write of buffered reports on shutdown.
	FlushTimeout time.Duration
}

// New creates a Publisher with room for queueSize pending reports.
func New(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, queueSize, batchSize int) *Publisher {
	return &Publisher{
		loader:       l,
		logger:       logger,
		metrics:      metrics,
		queue:        make(chan domain.RiskReport, max(queueSize, 1)),
		batchSize:    max(batchSize, 1),
		FlushTimeout: 5 * time.Second,
	}
}

// Publish enqueues a report. It never blocks.
func (p *Publisher) Publish(_ context.Context, report domain.RiskReport) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	select {
	case p.queue <- report:
		return nil
	default:
		return ErrQueueFull
	}
}

// CheckReadiness returns nil while Run is active.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("report publisher is not running")
	}
	return nil
}

// Run writes queued reports until the context is cancelled, then flushes
// whatever is still buffered.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("report publisher started", "batch_size", p.batchSize, "queue_size", cap(p.queue))
	p.running.Store(true)
	p.metrics.PublisherRunning.Set(1)
	defer func() {
		p.running.Store(false)
		p.metrics.PublisherRunning.Set(0)
	}()

	// Start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	var pending []domain.RiskReport
	for {
		batch, ok := p.collect(ctx)
		if !ok {
			break
		}
		if !p.load(ctx, batch, &backoff, maxBackoff) {
			pending = batch
			break
		}
	}

	p.logger.Info("report publisher stopping", "reason", ctx.Err())
	p.stop()
	p.flush(append(pending, p.drain()...))
	return nil
}

// collect blocks for the first report, then takes whatever else is
// already queued up to the batch size. Returns false on cancellation.
func (p *Publisher) collect(ctx context.Context) ([]domain.RiskReport, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	var first domain.RiskReport
	select {
	case <-ctx.Done():
		return nil, false
	case first = <-p.queue:
	}

	batch := make([]domain.RiskReport, 1, p.batchSize)
	batch[0] = first
	for len(batch) < p.batchSize {
		select {
		case r := <-p.queue:
			batch = append(batch, r)
		default:
			return batch, true
		}
	}
	return batch, true
}

// load writes one batch, retrying until it succeeds or the context ends.
// Returns false if the context ended first.
func (p *Publisher) load(ctx context.Context, batch []domain.RiskReport, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()
	for {
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.ReportsWritten.Add(float64(len(batch)))
			p.metrics.PublishBatchSize.Observe(float64(len(batch)))
			p.metrics.PublishBatchDuration.Observe(time.Since(start).Seconds())
			*backoff = 200 * time.Millisecond
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("load report batch failed", "error", err, "batch_size", len(batch), "retry_in", *backoff)
		if !retry.SleepWithContext(ctx, *backoff) {
			return false
		}
		*backoff = retry.NextBackoff(*backoff, maxBackoff)
	}
}

func (p *Publisher) stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}

func (p *Publisher) drain() []domain.RiskReport {
	var out []domain.RiskReport
	for {
		select {
		case r := <-p.queue:
			out = append(out, r)
		default:
			return out
		}
	}
}

// flush makes one bounded attempt per batch at writing reports left over
// at shutdown.
func (p *Publisher) flush(reports []domain.RiskReport) {
	if len(reports) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.FlushTimeout)
	defer cancel()

	for start := 0; start < len(reports); start += p.batchSize {
		batch := reports[start:min(start+p.batchSize, len(reports))]
		if err := p.loader.LoadBatch(ctx, batch); err != nil {
			p.logger.Error("flush reports failed, dropping", "error", err, "dropped", len(reports)-start)
			return
		}
		p.metrics.ReportsWritten.Add(float64(len(batch)))
		p.metrics.PublishBatchSize.Observe(float64(len(batch)))
	}
	p.logger.Info("flushed buffered reports", "count", len(reports))
}
