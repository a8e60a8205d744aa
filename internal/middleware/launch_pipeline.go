package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	domrepo "github.com/Vitek192/sola-sub000/internal/domain/repository"
)

// LaunchSink is the minimal downstream the pipeline needs.
type LaunchSink interface {
	Admit(ctx context.Context, ev *models.NewTokenEvent) error
}

// LaunchPipeline sits between the launch stream and the tracker. It
// validates events, throttles launch storms, and buffers when the
// downstream is unavailable.
type LaunchPipeline struct {
	sink    LaunchSink
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	bufCh   chan *models.NewTokenEvent
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	last    time.Time // last accepted event
}

type LaunchPipelineOption func(*LaunchPipeline)

// WithMaxLaunchRPS caps accepted launch events per second.
func WithMaxLaunchRPS(n int) LaunchPipelineOption {
	return func(p *LaunchPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithLaunchBufferSize sets the holding buffer size for downstream outages.
func WithLaunchBufferSize(n int) LaunchPipelineOption {
	return func(p *LaunchPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewLaunchPipeline creates a pipeline over the given sink.
func NewLaunchPipeline(sink LaunchSink, metrics domrepo.Metrics, opts ...LaunchPipelineOption) *LaunchPipeline {
	p := &LaunchPipeline{
		sink:    sink,
		metrics: metrics,
		maxRPS:  10,
		bufSize: 500,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.NewTokenEvent, p.bufSize)
	return p
}

// Start launches background flushing of buffered events.
func (p *LaunchPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case ev := <-p.bufCh:
				if ev == nil {
					continue
				}
				if err := p.sink.Admit(ctx, ev); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- ev:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *LaunchPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates and throttles an event, forwarding to the sink and
// buffering on downstream errors.
func (p *LaunchPipeline) Process(ctx context.Context, ev *models.NewTokenEvent) error {
	start := time.Now()
	if err := validateLaunch(ev); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(start) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.sink.Admit(ctx, ev); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- ev:
			p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateLaunch(ev *models.NewTokenEvent) error {
	if ev == nil {
		return fmt.Errorf("event nil")
	}
	if ev.Address == "" {
		return fmt.Errorf("address empty")
	}
	if ev.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if ev.CreatedAt.IsZero() {
		return fmt.Errorf("createdAt missing")
	}
	if ev.InitialPrice < 0 || ev.InitialLiquidity < 0 {
		return fmt.Errorf("negative price/liquidity")
	}
	return nil
}

func (p *LaunchPipeline) allow(now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxRPS <= 0 {
		return true
	}
	if p.last.IsZero() || now.Sub(p.last) >= time.Second/time.Duration(p.maxRPS) {
		p.last = now
		return true
	}
	return false
}
