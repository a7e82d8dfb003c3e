// Package probe inspects recorded artifacts.
package probe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/user/recstream/pkg/adapters/mjpegavi"
)

// Container identifies a file container.
type Container string

const (
	ContainerMP4     Container = "mp4"
	ContainerAVI     Container = "avi"
	ContainerUnknown Container = "unknown"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecMJPEG   Codec = "mjpeg"
	CodecUnknown Codec = "unknown"
)

// ErrUnsupported is returned for files that are neither MP4 nor AVI.
var ErrUnsupported = errors.New("probe: unsupported container")

// Result describes a recorded video.
type Result struct {
	Path      string
	Container Container
	Codec     Codec
	Width     int
	Height    int
	Frames    int
	FPS       float64
	Duration  time.Duration
	Size      int64
}

// File probes the file at path.
func File(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	res, err := Reader(f)
	if err != nil {
		return res, err
	}
	res.Path = path
	if fi, err := f.Stat(); err == nil {
		res.Size = fi.Size()
	}
	return res, nil
}

// Reader probes a video from r, detecting the container from its first bytes.
func Reader(r io.ReadSeeker) (Result, error) {
	var head [12]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return Result{Container: ContainerUnknown, Codec: CodecUnknown}, fmt.Errorf("read header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return Result{}, fmt.Errorf("seek: %w", err)
	}

	switch {
	case bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("AVI ")):
		return probeAVI(r)
	case bytes.Equal(head[4:8], []byte("ftyp")):
		return probeMP4(r)
	default:
		return Result{Container: ContainerUnknown, Codec: CodecUnknown}, ErrUnsupported
	}
}

func probeAVI(r io.ReadSeeker) (Result, error) {
	info, err := mjpegavi.ReadInfo(r)
	if err != nil {
		return Result{Container: ContainerAVI, Codec: CodecUnknown}, err
	}
	codec := CodecUnknown
	switch info.Codec {
	case "MJPG", "mjpg":
		codec = CodecMJPEG
	case "H264", "h264", "avc1":
		codec = CodecH264
	}
	return Result{
		Container: ContainerAVI,
		Codec:     codec,
		Width:     info.Width,
		Height:    info.Height,
		Frames:    info.Frames,
		FPS:       info.FPS,
		Duration:  info.Duration,
	}, nil
}
