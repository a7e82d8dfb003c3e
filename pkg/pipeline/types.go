package pipeline

import (
	"time"

	"github.com/user/recstream/pkg/ports"
)

// =============================================================================
// Configuration
// =============================================================================

// RecordConfig holds the parameters applied to the next recording segment.
type RecordConfig struct {
	Width  int     // Output width in pixels (even)
	Height int     // Output height in pixels (even)
	FPS    float64 // Target constant frame rate

	// QueueCapacity bounds the number of frames waiting for the scheduler.
	// Zero means unbounded (the catch-up cap still drops stale backlog).
	QueueCapacity int
}

// DefaultRecordConfig returns RecordConfig with default values.
func DefaultRecordConfig() RecordConfig {
	return RecordConfig{
		Width:         320,
		Height:        240,
		FPS:           30.0,
		QueueCapacity: 120,
	}
}

// Limits for RecordConfig validation.
const (
	MaxDimension = 8192
	MaxFPS       = 240.0
)

// Validate checks dimensions and frame rate.
func (c RecordConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return Errorf(KindConfiguration, "dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Width > MaxDimension || c.Height > MaxDimension {
		return Errorf(KindConfiguration, "dimensions %dx%d exceed %d", c.Width, c.Height, MaxDimension)
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return Errorf(KindConfiguration, "dimensions must be even for 4:2:0 codecs, got %dx%d", c.Width, c.Height)
	}
	if !(c.FPS > 0) || c.FPS > MaxFPS {
		return Errorf(KindConfiguration, "fps must be in (0, %.0f], got %v", MaxFPS, c.FPS)
	}
	if c.QueueCapacity < 0 {
		return Errorf(KindConfiguration, "queue capacity must not be negative, got %d", c.QueueCapacity)
	}
	return nil
}

// FrameInterval returns the time between two output frames.
func (c RecordConfig) FrameInterval() time.Duration {
	return FrameInterval(c.FPS)
}

// FrameInterval returns 1s/fps at nanosecond precision.
func FrameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// =============================================================================
// Command results
// =============================================================================

// StartResult describes a segment that opened successfully.
type StartResult struct {
	SegmentID     string
	RequestedPath string // Path passed to Start
	OutputPath    string // Path actually created (filename policy and container applied)
	Encoder       string // Name of the fallback-chain candidate that opened
	Codec         string
	Container     string
	FallbackUsed  bool
	Config        RecordConfig
}

// PacingStats counts what the scheduler did during a segment.
type PacingStats struct {
	Enqueued       int // Frames accepted into the queue
	Written        int // Frames handed to the encoder (including duplicates)
	Duplicated     int // Writes that repeated the cached last frame
	WriteErrors    int // Writes the encoder rejected
	DroppedBacklog int // Queued frames discarded by the catch-up cap or queue capacity
	CatchUpResets  int // Times the scheduler skipped ahead after falling >1s behind
	DecodeErrors   int // Pushed payloads that could not be turned into frames
}

// SegmentResult describes a completed segment.
type SegmentResult struct {
	SegmentID  string
	OutputPath string
	Encoder    string
	Codec      string
	Container  string
	FileSize   int64
	StartedAt  time.Time
	StoppedAt  time.Time
	Stats      PacingStats
}

// Duration returns the wall-clock length of the segment.
func (r SegmentResult) Duration() time.Duration {
	return r.StoppedAt.Sub(r.StartedAt)
}

// EffectResult reports the effect in force after SetEffect.
type EffectResult struct {
	Effect ports.EffectKind
}
