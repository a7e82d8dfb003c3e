package ports

import (
	"image"
)

// VideoEncoder abstracts a single codec/container backend.
//
// An encoder is opened at most once. Implementations must release every
// resource acquired by a failed Open before returning, so the caller can
// try the next backend immediately.
type VideoEncoder interface {
	// Open creates the output file at path and prepares the codec.
	Open(path string, width, height int, fps float64) error

	// WriteFrame encodes one frame. img must match the opened dimensions.
	WriteFrame(img *image.RGBA) error

	// Close flushes pending output and releases the codec and file handle.
	// Calling Close more than once is a no-op.
	Close() error
}

// EncoderOptions configures encoder backends.
type EncoderOptions struct {
	FFmpegPath     string // Custom ffmpeg binary (empty = auto-detect)
	Hardware       bool   // Try the platform hardware H.264 encoder first
	Preset         string // x264 preset (e.g. "veryfast")
	CRF            int    // x264 CRF, 0-51 (0 = encoder default)
	JPEGQuality    int    // MJPEG quality, 1-100
	StartupGraceMs int    // Time to watch a freshly started encoder for early failure
}
