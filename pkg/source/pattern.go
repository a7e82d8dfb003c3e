package source

import (
	"context"
	"time"

	"github.com/user/recstream/pkg/adapters/testpattern"
	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

// Pattern pushes synthetic frames at a jittered rate.
type Pattern struct {
	Renderer *testpattern.Renderer

	// FPS is the producer rate, independent of the recording rate.
	FPS float64

	// Jitter spreads each interval by up to this fraction (0..1).
	Jitter float64

	// JPEGQuality > 0 sends JPEG through PushEncoded instead of raw RGBA.
	JPEGQuality int

	// Limit stops after this many frames. Zero runs until ctx ends.
	Limit int

	Logger ports.Logger
}

func (p *Pattern) Name() string { return "pattern" }

func (p *Pattern) Run(ctx context.Context, sink Sink) error {
	interval := pipeline.FrameInterval(p.FPS)
	w, h := p.Renderer.Size()
	start := time.Now()

	for n := 0; p.Limit == 0 || n < p.Limit; n++ {
		if ctx.Err() != nil {
			return nil
		}
		elapsed := time.Since(start)

		var err error
		if p.JPEGQuality > 0 {
			var data []byte
			if data, err = p.Renderer.RenderJPEG(n, elapsed, p.JPEGQuality); err != nil {
				return err
			}
			err = sink.PushEncoded(ctx, data)
		} else {
			img := p.Renderer.Render(n, elapsed)
			err = sink.PushFrame(ctx, img.Pix, w, h)
		}
		if finished(p.Logger, err) {
			return nil
		}

		if !sleep(ctx, jittered(interval, p.Jitter)) {
			return nil
		}
	}
	return nil
}
