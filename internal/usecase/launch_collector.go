package usecase

import (
	"context"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	drepo "github.com/Vitek192/sola-sub000/internal/domain/repository"
	mid "github.com/Vitek192/sola-sub000/internal/middleware"
)

// LaunchCollector consumes the launch stream and admits new tokens into the
// tracker, optionally through the launch pipeline.
type LaunchCollector struct {
	stream  drepo.LaunchStream
	tracker *Tracker
	metrics drepo.Metrics
	pipe    *mid.LaunchPipeline
}

// NewLaunchCollector creates a new LaunchCollector instance.
func NewLaunchCollector(stream drepo.LaunchStream, tracker *Tracker, metrics drepo.Metrics, pipe *mid.LaunchPipeline) *LaunchCollector {
	return &LaunchCollector{stream: stream, tracker: tracker, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the launch stream is connected.
func (c *LaunchCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *LaunchCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	evCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, evCh, errCh)
	return nil
}

func (c *LaunchCollector) consume(ctx context.Context, evCh <-chan *models.NewTokenEvent, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case ev := <-evCh:
			if ev == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, ev)
			} else {
				_ = c.Admit(ctx, ev)
			}
		}
	}
}

// Admit registers an event with the tracker. It is the pipeline's sink.
func (c *LaunchCollector) Admit(_ context.Context, ev *models.NewTokenEvent) error {
	c.tracker.Add(*ev)
	return nil
}

// TrackerSink adapts a Tracker to the launch pipeline's sink interface,
// letting the pipeline be built before the collector.
type TrackerSink struct {
	Tracker *Tracker
}

func (s TrackerSink) Admit(_ context.Context, ev *models.NewTokenEvent) error {
	s.Tracker.Add(*ev)
	return nil
}

// Shutdown stops the pipeline and closes the stream.
func (c *LaunchCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
