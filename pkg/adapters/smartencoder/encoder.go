// Package smartencoder builds the ordered encoder fallback chain used by
// recording sessions.
package smartencoder

import (
	"runtime"

	"github.com/user/recstream/pkg/adapters/ffmpegencoder"
	"github.com/user/recstream/pkg/adapters/mjpegavi"
	"github.com/user/recstream/pkg/ports"
	"github.com/user/recstream/pkg/session"
)

// Codec names reported for chain entries.
const (
	CodecH264  = "h264"
	CodecMJPEG = "mjpeg"
)

// Container extensions used by chain entries.
const (
	ContainerMP4 = "mp4"
	ContainerAVI = "avi"
)

// Backend represents the encoding backend of a chain entry.
type Backend string

const (
	// BackendHardware is ffmpeg driving the platform hardware H.264 encoder.
	BackendHardware Backend = "hardware"
	// BackendFFmpeg is ffmpeg with libx264.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendBuiltin is the pure-Go MJPEG writer.
	BackendBuiltin Backend = "builtin"
)

// Options configures the chain.
type Options struct {
	Encoder ports.EncoderOptions

	// GOOS selects the hardware profile. Empty means runtime.GOOS.
	GOOS string
}

// Entry describes one chain candidate for listing.
type Entry struct {
	Name      string
	Backend   Backend
	Codec     string
	Container string
	Available bool
}

// DefaultChain returns the candidates in fallback order:
//  1. ffmpeg with the platform hardware H.264 encoder (when enabled and known)
//  2. ffmpeg with libx264
//  3. builtin Motion-JPEG in AVI
func DefaultChain(opts Options) []session.Candidate {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	encOpts := opts.Encoder
	ffmpegAvailable := func() bool { return ffmpegencoder.IsFFmpegAvailable(encOpts.FFmpegPath) }

	var chain []session.Candidate
	if encOpts.Hardware {
		if hw, err := ffmpegencoder.HardwareProfile(goos); err == nil {
			chain = append(chain, session.Candidate{
				Name:      "ffmpeg/" + hw.Codec,
				Codec:     CodecH264,
				Container: ContainerMP4,
				New:       func() ports.VideoEncoder { return ffmpegencoder.New(hw, encOpts) },
				Available: ffmpegAvailable,
			})
		}
	}

	sw := ffmpegencoder.SoftwareProfile(encOpts.Preset, encOpts.CRF)
	chain = append(chain,
		session.Candidate{
			Name:      "ffmpeg/" + sw.Codec,
			Codec:     CodecH264,
			Container: ContainerMP4,
			New:       func() ports.VideoEncoder { return ffmpegencoder.New(sw, encOpts) },
			Available: ffmpegAvailable,
		},
		session.Candidate{
			Name:      "builtin/mjpeg",
			Codec:     CodecMJPEG,
			Container: ContainerAVI,
			New:       func() ports.VideoEncoder { return mjpegavi.New(encOpts) },
		},
	)
	return chain
}

// Describe lists chain entries with their current availability.
func Describe(chain []session.Candidate) []Entry {
	entries := make([]Entry, 0, len(chain))
	for _, c := range chain {
		entries = append(entries, Entry{
			Name:      c.Name,
			Backend:   backendOf(c),
			Codec:     c.Codec,
			Container: c.Container,
			Available: c.Available == nil || c.Available(),
		})
	}
	return entries
}

func backendOf(c session.Candidate) Backend {
	switch {
	case c.Codec == CodecMJPEG:
		return BackendBuiltin
	case c.Name == "ffmpeg/libx264":
		return BackendFFmpeg
	default:
		return BackendHardware
	}
}
