package pipeline

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("start: %w", Wrap(KindCodecOpen, io.ErrClosedPipe, "all candidates failed"))

	if !errors.Is(err, ErrCodecOpen) {
		t.Error("expected errors.Is to match ErrCodecOpen")
	}
	if errors.Is(err, ErrNotRecording) {
		t.Error("expected errors.Is not to match ErrNotRecording")
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("expected cause to be reachable through Unwrap")
	}
	if got := KindOf(err); got != KindCodecOpen {
		t.Errorf("expected KindCodecOpen, got %v", got)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Errorf(KindConfiguration, "fps must be positive")
	want := "recstream: configuration error: fps must be positive"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestKindSegmentFatal(t *testing.T) {
	tests := []struct {
		kind  Kind
		fatal bool
	}{
		{KindConfiguration, true},
		{KindCodecOpen, true},
		{KindTeardown, true},
		{KindFrameDecode, false},
		{KindWrite, false},
		{KindOverloaded, false},
	}
	for _, tt := range tests {
		if got := tt.kind.SegmentFatal(); got != tt.fatal {
			t.Errorf("%v.SegmentFatal() = %v, want %v", tt.kind, got, tt.fatal)
		}
	}
}

func TestRecordConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RecordConfig
		wantErr bool
	}{
		{"defaults", DefaultRecordConfig(), false},
		{"zero width", RecordConfig{Width: 0, Height: 240, FPS: 30}, true},
		{"odd height", RecordConfig{Width: 320, Height: 241, FPS: 30}, true},
		{"too large", RecordConfig{Width: 10000, Height: 240, FPS: 30}, true},
		{"zero fps", RecordConfig{Width: 320, Height: 240, FPS: 0}, true},
		{"fps too high", RecordConfig{Width: 320, Height: 240, FPS: 500}, true},
		{"negative capacity", RecordConfig{Width: 320, Height: 240, FPS: 30, QueueCapacity: -1}, true},
		{"fractional fps", RecordConfig{Width: 640, Height: 480, FPS: 29.97}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestFrameInterval(t *testing.T) {
	if got := FrameInterval(25); got.Milliseconds() != 40 {
		t.Errorf("expected 40ms, got %v", got)
	}
	if got := FrameInterval(0); got != 0 {
		t.Errorf("expected 0 for invalid fps, got %v", got)
	}
}
