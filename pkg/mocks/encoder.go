package mocks

import (
	"image"
	"sync"

	"github.com/user/recstream/pkg/ports"
)

// VideoEncoder is a mock implementation of ports.VideoEncoder.
type VideoEncoder struct {
	OpenFunc       func(path string, width, height int, fps float64) error
	WriteFrameFunc func(img *image.RGBA) error
	CloseFunc      func() error

	mu sync.Mutex

	// Recorded calls for verification
	OpenCalls  []OpenCall
	Frames     []FrameCall
	CloseCalls int
}

// OpenCall records a call to Open.
type OpenCall struct {
	Path   string
	Width  int
	Height int
	FPS    float64
}

// FrameCall records a call to WriteFrame. First holds the first pixel so
// tests can tell frames apart.
type FrameCall struct {
	Width  int
	Height int
	First  [4]uint8
}

func (m *VideoEncoder) Open(path string, width, height int, fps float64) error {
	m.mu.Lock()
	m.OpenCalls = append(m.OpenCalls, OpenCall{Path: path, Width: width, Height: height, FPS: fps})
	m.mu.Unlock()
	if m.OpenFunc != nil {
		return m.OpenFunc(path, width, height, fps)
	}
	return nil
}

func (m *VideoEncoder) WriteFrame(img *image.RGBA) error {
	call := FrameCall{Width: img.Rect.Dx(), Height: img.Rect.Dy()}
	if len(img.Pix) >= 4 {
		copy(call.First[:], img.Pix[:4])
	}
	m.mu.Lock()
	m.Frames = append(m.Frames, call)
	m.mu.Unlock()
	if m.WriteFrameFunc != nil {
		return m.WriteFrameFunc(img)
	}
	return nil
}

func (m *VideoEncoder) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// FrameCount returns the number of WriteFrame calls.
func (m *VideoEncoder) FrameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Frames)
}

// Closes returns the number of Close calls.
func (m *VideoEncoder) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CloseCalls
}

var _ ports.VideoEncoder = (*VideoEncoder)(nil)
