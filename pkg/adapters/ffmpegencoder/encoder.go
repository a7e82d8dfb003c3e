// Package ffmpegencoder encodes H.264 MP4 files by piping raw frames into an
// ffmpeg child process.
package ffmpegencoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/user/recstream/pkg/ports"
)

// DefaultStartupGrace is how long Open watches ffmpeg for an early exit.
const DefaultStartupGrace = 250 * time.Millisecond

// probeTimeout bounds the hardware probe encode.
const probeTimeout = 10 * time.Second

// Encoder implements ports.VideoEncoder with an ffmpeg process writing
// directly to the output path.
type Encoder struct {
	profile    Profile
	ffmpegPath string
	grace      time.Duration

	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *syncBuffer
	done    chan struct{}
	waitErr error
	path    string
	width   int
	height  int
	frames  int
	closed  bool
}

// New creates an encoder for profile. opts supplies the ffmpeg path and the
// startup grace period.
func New(profile Profile, opts ports.EncoderOptions) *Encoder {
	grace := DefaultStartupGrace
	if opts.StartupGraceMs > 0 {
		grace = time.Duration(opts.StartupGraceMs) * time.Millisecond
	}
	return &Encoder{
		profile:    profile,
		ffmpegPath: opts.FFmpegPath,
		grace:      grace,
	}
}

// Profile returns the encoder profile.
func (e *Encoder) Profile() Profile {
	return e.profile
}

// Open starts ffmpeg writing to path.
//
// Hardware profiles are first checked with a one-frame probe encode. After
// starting, Open waits for the startup grace period and fails if ffmpeg has
// already exited.
func (e *Encoder) Open(path string, width, height int, fps float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		return fmt.Errorf("ffmpegencoder: already opened %s", e.path)
	}

	ffmpegPath, err := FindFFmpeg(e.ffmpegPath)
	if err != nil {
		return err
	}

	if e.profile.Hardware {
		if err := probe(ffmpegPath, e.profile, width, height); err != nil {
			return err
		}
	}

	cmd := exec.Command(ffmpegPath, e.profile.Args(width, height, fps, path)...)
	stderr := &syncBuffer{}
	cmd.Stderr = stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	e.cmd = cmd
	e.stdin = stdin
	e.stderr = stderr
	e.done = make(chan struct{})
	e.path = path
	e.width = width
	e.height = height
	e.frames = 0
	go func() {
		e.waitErr = cmd.Wait()
		close(e.done)
	}()

	select {
	case <-e.done:
		e.stdin.Close()
		e.closed = true
		return fmt.Errorf("%w during startup of %s: %s", ErrEarlyExit, e.profile.Codec, e.stderrTail())
	case <-time.After(e.grace):
	}
	return nil
}

// WriteFrame writes img's pixels to ffmpeg.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return ErrNotInitialized
	}
	select {
	case <-e.done:
		return fmt.Errorf("%w after %d frames: %s", ErrEarlyExit, e.frames, e.stderrTail())
	default:
	}

	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w != e.width || h != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, w, h, e.width, e.height)
	}

	rowLen := w * 4
	if img.Stride == rowLen {
		if _, err := e.stdin.Write(img.Pix[:rowLen*h]); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
	} else {
		for y := 0; y < h; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+rowLen]
			if _, err := e.stdin.Write(row); err != nil {
				return fmt.Errorf("failed to write frame: %w", err)
			}
		}
	}
	e.frames++
	return nil
}

// Close ends the input stream and waits for ffmpeg to finalize the file.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd == nil || e.closed {
		return nil
	}
	e.closed = true
	e.stdin.Close()
	<-e.done

	if e.waitErr != nil {
		return fmt.Errorf("ffmpeg encoding failed: %w: %s", e.waitErr, e.stderrTail())
	}
	return nil
}

// Frames returns the number of frames written.
func (e *Encoder) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *Encoder) stderrTail() string {
	if e.stderr == nil {
		return ""
	}
	s := strings.TrimSpace(e.stderr.String())
	if len(s) > 512 {
		s = s[len(s)-512:]
	}
	return s
}

var _ ports.VideoEncoder = (*Encoder)(nil)

var (
	probeMu    sync.Mutex
	probeCache = map[string]error{}
)

// probe runs a one-frame encode with profile and caches the outcome per
// binary, codec and size.
func probe(ffmpegPath string, p Profile, width, height int) error {
	key := fmt.Sprintf("%s|%s|%dx%d", ffmpegPath, p.Codec, width, height)
	probeMu.Lock()
	defer probeMu.Unlock()
	if err, ok := probeCache[key]; ok {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, p.probeArgs(width, height)...)
	cmd.Stderr = &stderr
	var err error
	if runErr := cmd.Run(); runErr != nil {
		err = fmt.Errorf("%s probe failed: %w: %s", p.Codec, runErr, strings.TrimSpace(stderr.String()))
	}
	probeCache[key] = err
	return err
}

// ResetProbeCache forgets cached hardware probe results.
func ResetProbeCache() {
	probeMu.Lock()
	defer probeMu.Unlock()
	probeCache = map[string]error{}
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes made by
// os/exec while the encoder reads it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
