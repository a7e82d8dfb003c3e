package session

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/user/recstream/pkg/mocks"
	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

// chain builds a two-entry chain whose primary and fallback are the given mocks.
func chain(primary, fallback *mocks.VideoEncoder) []Candidate {
	return []Candidate{
		{Name: "primary", Codec: "h264", Container: "mp4", New: func() ports.VideoEncoder { return primary }},
		{Name: "fallback", Codec: "mjpeg", Container: "avi", New: func() ports.VideoEncoder { return fallback }},
	}
}

func TestOpenPrimary(t *testing.T) {
	primary, fallback := &mocks.VideoEncoder{}, &mocks.VideoEncoder{}
	m := NewManager(chain(primary, fallback), mocks.NewFileSystem(), mocks.NewLogger())

	s, err := m.Open("1700000000000.mp4", 320, 240, 30)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	info := s.Info()
	if info.Path != "1700000000000_a.mp4" {
		t.Errorf("Path = %q, want 1700000000000_a.mp4", info.Path)
	}
	if info.Candidate != "primary" || info.FallbackUsed {
		t.Errorf("candidate = %q fallback = %v, want primary without fallback", info.Candidate, info.FallbackUsed)
	}
	if len(fallback.OpenCalls) != 0 {
		t.Error("fallback should not be tried when primary opens")
	}
	if primary.OpenCalls[0].Path != "1700000000000_a.mp4" {
		t.Errorf("encoder opened %q", primary.OpenCalls[0].Path)
	}
}

func TestOpenFallsBack(t *testing.T) {
	fs := mocks.NewFileSystem()
	primary := &mocks.VideoEncoder{
		OpenFunc: func(path string, w, h int, fps float64) error {
			fs.PutFile(path, []byte("partial"))
			return errors.New("hardware encoder busy")
		},
	}
	fallback := &mocks.VideoEncoder{}
	m := NewManager(chain(primary, fallback), fs, mocks.NewLogger())

	s, err := m.Open("out/clip.mp4", 320, 240, 30)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	info := s.Info()
	if info.Path != "out/clip.avi" || info.Container != "avi" || info.Codec != "mjpeg" {
		t.Errorf("info = %+v, want avi fallback", info)
	}
	if !info.FallbackUsed {
		t.Error("FallbackUsed should be true")
	}
	if primary.Closes() != 1 {
		t.Errorf("failed primary closed %d times, want 1", primary.Closes())
	}
	if ok, _ := fs.Exists("out/clip.mp4"); ok {
		t.Error("partial primary output should be removed")
	}
}

func TestFailedOpenKeepsExistingFile(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.PutFile("out/clip.mp4", []byte("earlier recording"))
	primary := &mocks.VideoEncoder{
		OpenFunc: func(string, int, int, float64) error {
			return errors.New("hardware encoder unavailable")
		},
	}
	m := NewManager(chain(primary, &mocks.VideoEncoder{}), fs, mocks.NewLogger())

	s, err := m.Open("out/clip.mp4", 320, 240, 30)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Info().Path != "out/clip.avi" {
		t.Errorf("Path = %q, want out/clip.avi", s.Info().Path)
	}
	data, err := fs.ReadFile("out/clip.mp4")
	if err != nil || string(data) != "earlier recording" {
		t.Errorf("existing file was touched: %q, %v", data, err)
	}
}

func TestPrimaryReopensAfterFailure(t *testing.T) {
	failing := true
	primary := &mocks.VideoEncoder{
		OpenFunc: func(string, int, int, float64) error {
			if failing {
				return errors.New("init failed")
			}
			return nil
		},
	}
	m := NewManager(chain(primary, &mocks.VideoEncoder{}), mocks.NewFileSystem(), mocks.NewLogger())

	s, err := m.Open("clip.mp4", 64, 64, 30)
	if err != nil {
		t.Fatal(err)
	}
	if s.Info().Candidate != "fallback" {
		t.Fatalf("first open used %q, want fallback", s.Info().Candidate)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	failing = false
	s, err = m.Open("clip.mp4", 64, 64, 30)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if info := s.Info(); info.Candidate != "primary" || info.Path != "clip.mp4" {
		t.Errorf("reopen = %+v, want primary on clip.mp4", info)
	}
}

func TestOpenAllFail(t *testing.T) {
	primary := &mocks.VideoEncoder{OpenFunc: func(string, int, int, float64) error { return errors.New("no hw") }}
	fallback := &mocks.VideoEncoder{OpenFunc: func(string, int, int, float64) error { return errors.New("disk full") }}
	m := NewManager(chain(primary, fallback), mocks.NewFileSystem(), mocks.NewLogger())

	_, err := m.Open("clip.mp4", 64, 64, 30)
	if !errors.Is(err, pipeline.ErrCodecOpen) {
		t.Fatalf("error = %v, want codec open error", err)
	}
	for _, want := range []string{"primary: no hw", "fallback: disk full"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
	if m.Active() != nil {
		t.Error("failed open should not leave an active session")
	}
	if primary.Closes() != 1 || fallback.Closes() != 1 {
		t.Error("every failed encoder should be closed")
	}
}

func TestUnavailableCandidateSkipped(t *testing.T) {
	primary := &mocks.VideoEncoder{}
	c := chain(primary, &mocks.VideoEncoder{})
	c[0].Available = func() bool { return false }
	m := NewManager(c, nil, mocks.NewLogger())

	s, err := m.Open("clip.mp4", 64, 64, 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(primary.OpenCalls) != 0 {
		t.Error("unavailable candidate should not be opened")
	}
	if s.Info().Candidate != "fallback" {
		t.Errorf("candidate = %q, want fallback", s.Info().Candidate)
	}
}

func TestNoCandidates(t *testing.T) {
	m := NewManager(nil, nil, mocks.NewLogger())
	_, err := m.Open("clip.mp4", 64, 64, 30)
	if !errors.Is(err, ErrNoCandidates) || !errors.Is(err, pipeline.ErrCodecOpen) {
		t.Errorf("error = %v, want codec open wrapping ErrNoCandidates", err)
	}
}

func TestSingleActiveSession(t *testing.T) {
	m := NewManager(chain(&mocks.VideoEncoder{}, &mocks.VideoEncoder{}), nil, mocks.NewLogger())
	s, err := m.Open("a.mp4", 64, 64, 30)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Open("b.mp4", 64, 64, 30); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second open error = %v, want ErrSessionActive", err)
	}
	if m.Active() != s {
		t.Error("active session changed")
	}
}

func TestCloseFailureStillFreesSlot(t *testing.T) {
	enc := &mocks.VideoEncoder{CloseFunc: func() error { return errors.New("flush failed") }}
	m := NewManager(chain(enc, &mocks.VideoEncoder{}), nil, mocks.NewLogger())
	s, err := m.Open("a.mp4", 64, 64, 30)
	if err != nil {
		t.Fatal(err)
	}

	err = s.Close()
	if !errors.Is(err, pipeline.ErrTeardown) {
		t.Errorf("Close error = %v, want teardown error", err)
	}
	if m.Active() != nil {
		t.Error("slot should be cleared after a failed close")
	}
	if s.State() != StateClosed {
		t.Errorf("state = %v, want closed", s.State())
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
	if enc.Closes() != 1 {
		t.Errorf("encoder closed %d times, want 1", enc.Closes())
	}
	if _, err := m.Open("b.mp4", 64, 64, 30); err != nil {
		t.Errorf("open after failed close: %v", err)
	}
}

func TestWriteErrorsKeepSessionOpen(t *testing.T) {
	calls := 0
	enc := &mocks.VideoEncoder{WriteFrameFunc: func(*image.RGBA) error {
		calls++
		if calls == 1 {
			return errors.New("bad frame")
		}
		return nil
	}}
	m := NewManager(chain(enc, &mocks.VideoEncoder{}), nil, mocks.NewLogger())
	s, err := m.Open("a.mp4", 2, 2, 30)
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := s.Write(img); !errors.Is(err, pipeline.ErrWrite) {
		t.Errorf("first write = %v, want write error", err)
	}
	if err := s.Write(img); err != nil {
		t.Errorf("second write = %v", err)
	}
	info := s.Info()
	if info.FramesWritten != 1 || info.WriteErrors != 1 {
		t.Errorf("counters = %d written, %d errors", info.FramesWritten, info.WriteErrors)
	}

	s.Close()
	if err := s.Write(img); !errors.Is(err, ErrNotOpen) {
		t.Errorf("write after close = %v, want ErrNotOpen", err)
	}
}
