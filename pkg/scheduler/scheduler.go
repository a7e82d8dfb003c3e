// Package scheduler paces queued frames into a constant-frame-rate stream.
package scheduler

import (
	"image"
	"time"

	"github.com/user/recstream/pkg/frame"
	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

const (
	// MaxLag is how far output may fall behind wall-clock time before the
	// scheduler skips ahead.
	MaxLag = time.Second

	// LateThreshold marks a popped frame as late when it is this much older
	// than its output slot.
	LateThreshold = 100 * time.Millisecond

	// statsEvery is the number of written frames between throughput reports.
	statsEvery = 30
)

// Writer receives paced frames. A write failure does not stop pacing.
type Writer interface {
	Write(img *image.RGBA) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(img *image.RGBA) error

// Write implements Writer.
func (f WriterFunc) Write(img *image.RGBA) error {
	return f(img)
}

// Scheduler emits one frame per interval from a frame.Queue.
//
// Each due slot takes the newest frame captured by then or, when the queue
// is empty, repeats the cached last frame. Scheduler is not safe for concurrent use.
type Scheduler struct {
	queue    *frame.Queue
	writer   Writer
	fps      float64
	interval time.Duration
	logger   ports.Logger

	started   bool
	startedAt time.Time
	nextDue   time.Time
	stats     pipeline.PacingStats
}

// New creates a Scheduler writing to w at fps.
func New(queue *frame.Queue, w Writer, fps float64, logger ports.Logger) *Scheduler {
	return &Scheduler{
		queue:    queue,
		writer:   w,
		fps:      fps,
		interval: pipeline.FrameInterval(fps),
		logger:   logger.WithComponent("scheduler"),
	}
}

// Interval returns the output frame interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// NextDue returns the time of the next output slot and whether pacing has
// started.
func (s *Scheduler) NextDue() (time.Time, bool) {
	return s.nextDue, s.started
}

// Enqueue hands f to the queue.
func (s *Scheduler) Enqueue(f *frame.Frame) {
	s.queue.Push(f)
	s.stats.Enqueued++
}

// Pump writes every frame due at or before now.
//
// Pacing starts the first time Pump sees a non-empty queue; that slot is
// due immediately. Each slot takes the newest frame captured at or before it;
// older queued frames are dropped, so a fast producer loses frames instead of
// building a backlog. If output has fallen more than MaxLag behind now, the next
// slot is moved to one interval after now and queued frames older than the
// newest are dropped.
func (s *Scheduler) Pump(now time.Time) {
	if !s.started {
		if s.queue.Len() == 0 {
			return
		}
		s.started = true
		s.startedAt = now
		s.nextDue = now
	}

	for !s.nextDue.After(now) {
		slot := s.nextDue
		s.queue.DropSuperseded(slot)
		if f := s.queue.Pop(); f != nil {
			if lag := slot.Sub(f.Timestamp); lag > LateThreshold {
				s.logger.Debug("Frame arrived late by %d ms", lag.Milliseconds())
			}
			s.write(f.Image, false, now)
			f.Release()
		} else if last := s.queue.Last(); last != nil {
			s.write(last.Image, true, now)
		} else {
			return
		}

		s.nextDue = s.nextDue.Add(s.interval)
		if now.Sub(s.nextDue) > MaxLag {
			dropped := s.queue.DropAllButNewest()
			s.nextDue = now.Add(s.interval)
			s.stats.CatchUpResets++
			s.logger.Warn("Over %d ms behind, skipping ahead and dropping %d queued frames", MaxLag.Milliseconds(), dropped)
			break
		}
	}
}

// Drain pumps due frames and then settles what is still queued. Those frames
// were captured after the last slot. When the slots written so far already
// cover the time since pacing started they are dropped; otherwise the newest
// takes one final slot.
func (s *Scheduler) Drain(now time.Time) {
	s.Pump(now)
	if s.queue.Len() == 0 {
		return
	}
	slots := s.stats.Written + s.stats.WriteErrors
	if time.Duration(slots)*s.interval < now.Sub(s.startedAt) {
		s.queue.DropAllButNewest()
		f := s.queue.Pop()
		s.write(f.Image, false, now)
		f.Release()
		return
	}
	if n := s.queue.Discard(); n > 0 {
		s.logger.Debug("Dropped %d frames inside the final slot", n)
	}
}

// Stats returns pacing counters.
func (s *Scheduler) Stats() pipeline.PacingStats {
	st := s.stats
	st.DroppedBacklog = s.queue.Dropped()
	return st
}

func (s *Scheduler) write(img *image.RGBA, duplicate bool, now time.Time) {
	if err := s.writer.Write(img); err != nil {
		s.stats.WriteErrors++
		s.logger.Warn("Failed to write frame: %s", err.Error())
		return
	}
	s.stats.Written++
	if duplicate {
		s.stats.Duplicated++
	}
	if s.stats.Written%statsEvery == 0 {
		if elapsed := now.Sub(s.startedAt).Seconds(); elapsed > 0 {
			s.logger.Debug("Frame %d: target %.1f fps, actual %.2f fps", s.stats.Written, s.fps, float64(s.stats.Written)/elapsed)
		}
	}
}
