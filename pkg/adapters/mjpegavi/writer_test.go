package mjpegavi

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/recstream/pkg/ports"
)

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func writeClip(t *testing.T, frames int) (string, []byte) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.avi")
	enc := New(ports.EncoderOptions{JPEGQuality: 80})
	if err := enc.Open(path, 32, 24, 30); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for i := 0; i < frames; i++ {
		c := color.RGBA{R: uint8(i * 40), G: 100, B: 200, A: 255}
		if err := enc.WriteFrame(solidFrame(32, 24, c)); err != nil {
			t.Fatalf("WriteFrame %d failed: %v", i, err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return path, data
}

func TestWriteAndReadBack(t *testing.T) {
	path, data := writeClip(t, 5)
	le := binary.LittleEndian

	if string(data[:4]) != "RIFF" || string(data[8:12]) != "AVI " {
		t.Fatal("missing RIFF AVI signature")
	}
	if got := int(le.Uint32(data[4:8])); got != len(data)-8 {
		t.Errorf("RIFF size = %d, want %d", got, len(data)-8)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	info, err := ReadInfo(f)
	if err != nil {
		t.Fatalf("ReadInfo failed: %v", err)
	}
	if info.Codec != "MJPG" || info.Width != 32 || info.Height != 24 {
		t.Errorf("info = %+v", info)
	}
	if info.Frames != 5 || info.IndexFrames != 5 {
		t.Errorf("frames = %d (index %d), want 5", info.Frames, info.IndexFrames)
	}
	if info.FPS != 30 {
		t.Errorf("fps = %v, want 30", info.FPS)
	}
	if want := 166 * time.Millisecond; info.Duration < want || info.Duration > want+time.Millisecond {
		t.Errorf("duration = %v, want ~166ms", info.Duration)
	}
}

func TestMoviHoldsJPEGChunks(t *testing.T) {
	_, data := writeClip(t, 3)
	le := binary.LittleEndian

	movi := bytes.Index(data, []byte("movi"))
	if movi < 0 {
		t.Fatal("no movi list")
	}
	pos := movi + 4
	for i := 0; i < 3; i++ {
		if string(data[pos:pos+4]) != "00dc" {
			t.Fatalf("chunk %d at %d is %q, want 00dc", i, pos, data[pos:pos+4])
		}
		size := int(le.Uint32(data[pos+4:]))
		img, err := jpeg.Decode(bytes.NewReader(data[pos+8 : pos+8+size]))
		if err != nil {
			t.Fatalf("chunk %d is not a JPEG: %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
			t.Errorf("chunk %d size = %v", i, b)
		}
		pos += 8 + size + size%2
	}

	if string(data[pos:pos+4]) != "idx1" {
		t.Fatalf("found %q after the last frame, want idx1", data[pos:pos+4])
	}
	if n := int(le.Uint32(data[pos+4:])) / 16; n != 3 {
		t.Errorf("index entries = %d, want 3", n)
	}
	if got := int(le.Uint32(data[movi-4 : movi])); got != pos-movi {
		t.Errorf("movi size = %d, want %d", got, pos-movi)
	}
}

func TestFrameBeyondSizeLimitIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.avi")
	enc := New(ports.EncoderOptions{})
	if err := enc.Open(path, 8, 8, 30); err != nil {
		t.Fatal(err)
	}
	frame := solidFrame(8, 8, color.RGBA{R: 200, A: 255})
	if err := enc.WriteFrame(frame); err != nil {
		t.Fatalf("first frame: %v", err)
	}

	// as if the file had grown to just under 4 GiB
	enc.size = MaxFileSize - 64
	if err := enc.WriteFrame(frame); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("write past the limit = %v, want ErrFileTooLarge", err)
	}
	if enc.Frames() != 1 {
		t.Errorf("Frames = %d, want the rejected frame left out", enc.Frames())
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	info, err := ReadInfo(f)
	if err != nil {
		t.Fatalf("ReadInfo failed: %v", err)
	}
	if info.Frames != 1 {
		t.Errorf("file holds %d frames, want 1", info.Frames)
	}
}

func TestEmptyClip(t *testing.T) {
	path, _ := writeClip(t, 0)
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	info, err := ReadInfo(f)
	if err != nil {
		t.Fatalf("ReadInfo failed: %v", err)
	}
	if info.Frames != 0 {
		t.Errorf("frames = %d, want 0", info.Frames)
	}
}

func TestWriteErrors(t *testing.T) {
	enc := New(ports.EncoderOptions{})
	if err := enc.WriteFrame(solidFrame(2, 2, color.RGBA{})); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("write before open = %v", err)
	}
	if err := enc.Open(filepath.Join(t.TempDir(), "a.avi"), 4, 4, 25); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteFrame(solidFrame(2, 2, color.RGBA{})); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("mismatched write = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if err := enc.WriteFrame(solidFrame(4, 4, color.RGBA{})); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("write after close = %v", err)
	}
}

func TestOpenRejectsZeroRate(t *testing.T) {
	enc := New(ports.EncoderOptions{})
	if err := enc.Open(filepath.Join(t.TempDir(), "a.avi"), 4, 4, 0.2); err == nil {
		t.Error("Open should reject a rate that rounds to zero")
	}
}

func TestOpenMissingDirectory(t *testing.T) {
	enc := New(ports.EncoderOptions{})
	if err := enc.Open(filepath.Join(t.TempDir(), "missing", "a.avi"), 4, 4, 25); err == nil {
		t.Error("Open should fail when the directory does not exist")
	}
}

func TestReadInfoRejectsOtherFormats(t *testing.T) {
	_, err := ReadInfo(bytes.NewReader([]byte("\x00\x00\x00\x18ftypisom\x00\x00\x00\x00")))
	if !errors.Is(err, ErrNotAVI) {
		t.Errorf("error = %v, want ErrNotAVI", err)
	}
}
