// Package session opens encoder backends through an ordered fallback chain
// and guarantees a single active output at a time.
package session

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

// Candidate is one entry of the fallback chain.
type Candidate struct {
	Name      string // e.g. "ffmpeg/libx264"
	Codec     string // e.g. "h264"
	Container string // file extension without dot, e.g. "mp4"

	// New creates an unopened encoder.
	New func() ports.VideoEncoder

	// Available reports whether the backend can be used at all.
	// Nil means always available.
	Available func() bool
}

// State is the lifecycle state of a Session.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Info describes an opened session.
type Info struct {
	RequestedPath string
	Path          string // Resolved output path
	Candidate     string
	Codec         string
	Container     string
	FallbackUsed  bool
	Width         int
	Height        int
	FPS           float64
	OpenedAt      time.Time
	FramesWritten int
	WriteErrors   int
}

// Manager opens sessions and enforces that at most one is unclosed.
type Manager struct {
	candidates []Candidate
	fs         ports.FileSystem
	logger     ports.Logger

	mu     sync.Mutex
	active *Session
}

// NewManager creates a Manager trying candidates in order.
func NewManager(candidates []Candidate, fs ports.FileSystem, logger ports.Logger) *Manager {
	return &Manager{
		candidates: candidates,
		fs:         fs,
		logger:     logger.WithComponent("session"),
	}
}

// Candidates returns the fallback chain.
func (m *Manager) Candidates() []Candidate {
	return append([]Candidate(nil), m.candidates...)
}

// Active returns the unclosed session, if any.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Open resolves path and opens the first candidate that succeeds.
//
// A failed candidate is closed and, if the attempt created it, its partial
// output removed before the next one is tried. When every candidate fails the returned error has kind
// KindCodecOpen and wraps each attempt's error.
func (m *Manager) Open(path string, width, height int, fps float64) (*Session, error) {
	m.mu.Lock()
	if m.active != nil {
		m.mu.Unlock()
		return nil, ErrSessionActive
	}
	s := &Session{manager: m, state: StateOpening}
	m.active = s
	m.mu.Unlock()

	if err := s.open(path, width, height, fps); err != nil {
		m.release(s)
		return nil, err
	}
	return s, nil
}

func (m *Manager) release(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == s {
		m.active = nil
	}
}

// exists reports whether path is present. An unknown answer counts as
// present so that a file the attempt did not create is never removed.
func (m *Manager) exists(path string) bool {
	if m.fs == nil {
		return true
	}
	ok, err := m.fs.Exists(path)
	return err != nil || ok
}

func (m *Manager) removePartial(path string) {
	if !m.exists(path) {
		return
	}
	if err := m.fs.Remove(path); err != nil {
		m.logger.Warn("Failed to remove partial output %s: %s", path, err.Error())
	}
}

// Session is one open output target. It is used by a single goroutine.
type Session struct {
	manager *Manager
	encoder ports.VideoEncoder
	info    Info
	state   State
	mu      sync.Mutex
}

func (s *Session) open(path string, width, height int, fps float64) error {
	m := s.manager
	if len(m.candidates) == 0 {
		return pipeline.Wrap(pipeline.KindCodecOpen, ErrNoCandidates, path)
	}

	resolved := ResolvePath(path)
	var errs *multierror.Error
	for i, c := range m.candidates {
		target := WithContainer(resolved, c.Container)
		if c.Available != nil && !c.Available() {
			m.logger.Debug("Skipping encoder %s: backend unavailable", c.Name)
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", c.Name, ErrUnavailable))
			continue
		}

		existed := m.exists(target)
		enc := c.New()
		if err := enc.Open(target, width, height, fps); err != nil {
			if cerr := enc.Close(); cerr != nil {
				m.logger.Debug("Closing failed encoder %s: %s", c.Name, cerr.Error())
			}
			if !existed {
				m.removePartial(target)
			}
			m.logger.Warn("Encoder %s failed to open %s: %s", c.Name, target, err.Error())
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}

		s.mu.Lock()
		s.encoder = enc
		s.state = StateOpen
		s.info = Info{
			RequestedPath: path,
			Path:          target,
			Candidate:     c.Name,
			Codec:         c.Codec,
			Container:     c.Container,
			FallbackUsed:  i > 0,
			Width:         width,
			Height:        height,
			FPS:           fps,
			OpenedAt:      time.Now(),
		}
		s.mu.Unlock()
		if i > 0 {
			m.logger.Info("Using fallback encoder %s for %s", c.Name, target)
		} else {
			m.logger.Debug("Opened encoder %s for %s", c.Name, target)
		}
		return nil
	}

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	return pipeline.Wrap(pipeline.KindCodecOpen, errs.ErrorOrNil(), "no encoder could open "+resolved)
}

// Write encodes one frame. A failure is counted and returned with kind
// KindWrite; the session stays open.
func (s *Session) Write(img *image.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateOpen {
		return pipeline.Wrap(pipeline.KindWrite, ErrNotOpen, s.info.Path)
	}
	if err := s.encoder.WriteFrame(img); err != nil {
		s.info.WriteErrors++
		return pipeline.Wrap(pipeline.KindWrite, err, s.info.Path)
	}
	s.info.FramesWritten++
	return nil
}

// Close flushes and releases the encoder. It always frees the manager slot;
// a backend failure is returned with kind KindTeardown. Later calls return nil.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosing
	enc := s.encoder
	path := s.info.Path
	s.mu.Unlock()

	err := enc.Close()

	s.mu.Lock()
	s.state = StateClosed
	s.encoder = nil
	s.mu.Unlock()
	s.manager.release(s)

	if err != nil {
		return pipeline.Wrap(pipeline.KindTeardown, err, "close "+path)
	}
	return nil
}

// State returns the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Info returns a snapshot of the session description and counters.
func (s *Session) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}
