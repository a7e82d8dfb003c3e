// Package source provides frame producers that feed a recorder: a synthetic
// test pattern, a directory of still images, and a Chrome screencast.
package source

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/user/recstream/pkg/coordinator"
	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

// Sink receives frames from a Source.
type Sink interface {
	PushFrame(ctx context.Context, pix []byte, width, height int) error
	PushEncoded(ctx context.Context, data []byte) error
}

// Source produces frames until its context ends, its input runs out, or the
// sink stops accepting frames.
type Source interface {
	Name() string
	Run(ctx context.Context, sink Sink) error
}

// CoordinatorSink feeds a Coordinator and waits for each push to be processed,
// so a producer cannot outrun the worker.
type CoordinatorSink struct {
	Coordinator *coordinator.Coordinator
}

func (s CoordinatorSink) PushFrame(ctx context.Context, pix []byte, width, height int) error {
	_, err := s.Coordinator.PushFrame(pix, width, height).Wait(ctx)
	return err
}

func (s CoordinatorSink) PushEncoded(ctx context.Context, data []byte) error {
	_, err := s.Coordinator.PushEncoded(data).Wait(ctx)
	return err
}

// finished reports whether a push error ends the run. Per-frame failures are
// logged and the source keeps going.
func finished(logger ports.Logger, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, pipeline.ErrNotRecording),
		errors.Is(err, pipeline.ErrClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		logger.Warn("Frame push failed: %s", err.Error())
		return false
	}
}

// sleep waits for d or until ctx ends. It returns false if ctx ended.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// jittered spreads interval by up to ±jitter of its length.
func jittered(interval time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return interval
	}
	if jitter > 1 {
		jitter = 1
	}
	return time.Duration(float64(interval) * (1 + jitter*(2*rand.Float64()-1)))
}
