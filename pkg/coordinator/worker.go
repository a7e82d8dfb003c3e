package coordinator

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/user/recstream/pkg/frame"
	"github.com/user/recstream/pkg/ingest"
	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/scheduler"
	"github.com/user/recstream/pkg/session"
)

// doStart opens the output and creates the segment. Runs on the worker.
func (c *Coordinator) doStart(gen uint64, path string, cfg pipeline.RecordConfig, comp *Completion[pipeline.StartResult]) {
	fail := func(err error) {
		c.setState(StateIdle)
		c.logger.Error("Failed to start recording %s: %s", path, err.Error())
		comp.resolve(pipeline.StartResult{}, err)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := c.fs.MkdirAll(dir); err != nil {
			fail(pipeline.Wrap(pipeline.KindCodecOpen, err, "create output directory"))
			return
		}
	}

	sess, err := c.manager.Open(path, cfg.Width, cfg.Height, cfg.FPS)
	if err != nil {
		if errors.Is(err, session.ErrSessionActive) {
			err = pipeline.Wrap(pipeline.KindCodecOpen, err, path)
		}
		fail(err)
		return
	}

	info := sess.Info()
	queue := frame.NewQueue(cfg.QueueCapacity)
	seg := &segment{
		id:         uuid.NewString(),
		generation: gen,
		config:     cfg,
		session:    sess,
		queue:      queue,
		sched:      scheduler.New(queue, sess, cfg.FPS, c.logger),
		ticker:     c.clock.NewTicker(cfg.FrameInterval()),
		ingest:     ingest.New(cfg.Width, cfg.Height),
		startedAt:  c.clock.Now(),
	}
	c.seg = seg
	c.setState(StateRecording)

	c.logger.Info("Recording %s with %s (segment %s)", info.Path, info.Candidate, seg.id)
	if info.FallbackUsed {
		c.logger.Warn("Primary encoder unavailable, recording %s as %s", info.Codec, info.Container)
	}
	comp.resolve(pipeline.StartResult{
		SegmentID:     seg.id,
		RequestedPath: path,
		OutputPath:    info.Path,
		Encoder:       info.Candidate,
		Codec:         info.Codec,
		Container:     info.Container,
		FallbackUsed:  info.FallbackUsed,
		Config:        cfg,
	}, nil)
}

type frameSource func(ctx context.Context, in *ingest.Ingestor) (*frame.Frame, error)

// doPush converts, applies the effect, enqueues and pumps. Runs on the worker.
func (c *Coordinator) doPush(gen uint64, comp *Completion[struct{}], src frameSource) {
	seg := c.seg
	if seg == nil || seg.generation != gen {
		comp.resolve(struct{}{}, pipeline.Errorf(pipeline.KindNotRecording, "segment ended before the frame was processed"))
		return
	}

	f, err := src(context.Background(), seg.ingest)
	if err != nil {
		seg.decodeErrs++
		c.logger.Warn("Dropped undecodable frame: %s", err.Error())
		comp.resolve(struct{}{}, err)
		return
	}

	if out := c.effects.ApplyCurrent(f.Image); out != f.Image {
		ts := f.Timestamp
		f.Release()
		f = seg.ingest.Pool().Adopt(out, ts)
	}

	seg.sched.Enqueue(f)
	seg.sched.Pump(c.clock.Now())
	comp.resolve(struct{}{}, nil)
}

// stopSegment drains and closes the active segment, then returns to Idle.
// Runs on the worker.
func (c *Coordinator) stopSegment() (pipeline.SegmentResult, error) {
	seg := c.seg
	if seg == nil {
		c.setState(StateIdle)
		return pipeline.SegmentResult{}, pipeline.Errorf(pipeline.KindNotRecording, "no active segment")
	}
	c.seg = nil
	defer c.setState(StateIdle)

	seg.ticker.Stop()
	now := c.clock.Now()
	seg.sched.Drain(now)

	info := seg.session.Info()
	closeErr := seg.session.Close()
	seg.queue.Reset()

	stats := seg.sched.Stats()
	stats.DecodeErrors = seg.decodeErrs
	res := pipeline.SegmentResult{
		SegmentID:  seg.id,
		OutputPath: info.Path,
		Encoder:    info.Candidate,
		Codec:      info.Codec,
		Container:  info.Container,
		StartedAt:  seg.startedAt,
		StoppedAt:  now,
		Stats:      stats,
	}
	if size, err := c.fs.Size(info.Path); err == nil {
		res.FileSize = size
	}

	if closeErr != nil {
		c.logger.Error("Failed to finalize %s: %s", info.Path, closeErr.Error())
		return res, closeErr
	}
	c.logger.Info("Saved %s: %d frames (%d duplicated) in %d ms",
		info.Path, stats.Written, stats.Duplicated, res.Duration().Milliseconds())
	return res, nil
}
