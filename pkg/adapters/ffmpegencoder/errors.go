package ffmpegencoder

import "errors"

var (
	// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
	ErrFFmpegNotFound = errors.New("ffmpegencoder: ffmpeg not found")

	// ErrNotInitialized is returned when frames are written before Open
	// or after Close.
	ErrNotInitialized = errors.New("ffmpegencoder: encoder not initialized")

	// ErrEarlyExit is returned when ffmpeg terminates while frames are
	// still expected.
	ErrEarlyExit = errors.New("ffmpegencoder: ffmpeg exited early")

	// ErrSizeMismatch is returned when a frame does not match the opened size.
	ErrSizeMismatch = errors.New("ffmpegencoder: frame size mismatch")

	// ErrNoHardwareProfile is returned on platforms without a known
	// hardware H.264 encoder.
	ErrNoHardwareProfile = errors.New("ffmpegencoder: no hardware encoder for platform")
)
