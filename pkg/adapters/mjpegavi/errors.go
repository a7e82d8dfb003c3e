package mjpegavi

import "errors"

var (
	// ErrNotInitialized is returned when frames are written before Open
	// or after Close.
	ErrNotInitialized = errors.New("mjpegavi: writer not initialized")

	// ErrSizeMismatch is returned when a frame does not match the opened size.
	ErrSizeMismatch = errors.New("mjpegavi: frame size mismatch")

	// ErrFileTooLarge is returned for frames that would push the file past
	// MaxFileSize.
	ErrFileTooLarge = errors.New("mjpegavi: classic AVI size limit reached")

	// ErrNotAVI is returned by ReadInfo for input that is not a RIFF AVI file.
	ErrNotAVI = errors.New("mjpegavi: not an AVI file")
)
