// Package mjpegavi writes Motion-JPEG video in an AVI container using only
// pure-Go code. It is the encoder of last resort: it needs no external tools
// and opens wherever the output file can be created.
package mjpegavi

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"sync"

	"github.com/icza/mjpeg"

	"github.com/user/recstream/pkg/ports"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 85

// MaxFileSize is the largest file a classic RIFF AVI can describe: its size
// fields and idx1 offsets are 32-bit.
const MaxFileSize = math.MaxUint32

// headerReserve bounds the RIFF header and list overhead written before the
// first frame chunk.
const headerReserve = 1024

// Encoder implements ports.VideoEncoder writing an MJPEG AVI file.
//
// Frames that would push the file past MaxFileSize are rejected with
// ErrFileTooLarge; the file written so far stays valid.
type Encoder struct {
	quality int

	mu      sync.Mutex
	aw      mjpeg.AviWriter
	path    string
	size    int64 // bytes the finished file will occupy
	frames  int
	width   int
	height  int
	jpegBuf bytes.Buffer
}

// New creates an encoder. opts.JPEGQuality outside 1-100 selects
// DefaultQuality.
func New(opts ports.EncoderOptions) *Encoder {
	q := opts.JPEGQuality
	if q < 1 || q > 100 {
		q = DefaultQuality
	}
	return &Encoder{quality: q}
}

// Open creates path and writes the AVI header. The stream rate is fps
// rounded to a whole number of frames per second.
func (e *Encoder) Open(path string, width, height int, fps float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.aw != nil {
		return fmt.Errorf("mjpegavi: already opened %s", e.path)
	}
	rate := int32(math.Round(fps))
	if width <= 0 || height <= 0 || rate <= 0 {
		return fmt.Errorf("mjpegavi: invalid format %dx%d@%v", width, height, fps)
	}

	aw, err := mjpeg.New(path, int32(width), int32(height), rate)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	e.aw = aw
	e.path = path
	e.size = headerReserve
	e.frames = 0
	e.width = width
	e.height = height
	return nil
}

// WriteFrame JPEG-encodes img and appends it as a frame chunk.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.aw == nil {
		return ErrNotInitialized
	}
	if img.Rect.Dx() != e.width || img.Rect.Dy() != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, img.Rect.Dx(), img.Rect.Dy(), e.width, e.height)
	}

	e.jpegBuf.Reset()
	if err := jpeg.Encode(&e.jpegBuf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return fmt.Errorf("encode JPEG: %w", err)
	}
	data := e.jpegBuf.Bytes()

	// chunk header, payload, pad byte and its 16-byte index entry
	grow := int64(8+len(data)+len(data)%2) + 16
	if e.size+grow > MaxFileSize {
		return fmt.Errorf("%w: %s holds %d frames", ErrFileTooLarge, e.path, e.frames)
	}
	if err := e.aw.AddFrame(data); err != nil {
		return fmt.Errorf("write chunk: %w", err)
	}
	e.size += grow
	e.frames++
	return nil
}

// Close writes the index, patches the header sizes and closes the file.
// Later calls return nil.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.aw == nil {
		return nil
	}
	aw := e.aw
	e.aw = nil
	if err := aw.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", e.path, err)
	}
	return nil
}

// Frames returns the number of frames written.
func (e *Encoder) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

var _ ports.VideoEncoder = (*Encoder)(nil)
