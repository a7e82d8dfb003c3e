package ffmpegencoder

import (
	"fmt"
	"strconv"
)

// VAAPIDevice is the render node used by the linux hardware profile.
const VAAPIDevice = "/dev/dri/renderD128"

// Profile selects an ffmpeg video codec and its arguments.
type Profile struct {
	Name     string // Short name used in logs and candidate names
	Codec    string // ffmpeg -c:v value
	Hardware bool

	InputArgs  []string // Global or input options placed before -i
	FilterArgs []string // Output filter options; empty means -pix_fmt yuv420p
	CodecArgs  []string // Options placed after -c:v
}

// SoftwareProfile returns the libx264 profile.
func SoftwareProfile(preset string, crf int) Profile {
	if preset == "" {
		preset = "veryfast"
	}
	if crf <= 0 || crf > 51 {
		crf = 23
	}
	return Profile{
		Name:  "libx264",
		Codec: "libx264",
		CodecArgs: []string{
			"-preset", preset,
			"-crf", strconv.Itoa(crf),
			"-profile:v", "baseline",
		},
	}
}

// HardwareProfile returns the hardware H.264 profile for goos.
func HardwareProfile(goos string) (Profile, error) {
	switch goos {
	case "darwin", "ios":
		return Profile{
			Name:      "videotoolbox",
			Codec:     "h264_videotoolbox",
			Hardware:  true,
			CodecArgs: []string{"-realtime", "1"},
		}, nil
	case "windows":
		return Profile{
			Name:      "mediafoundation",
			Codec:     "h264_mf",
			Hardware:  true,
			CodecArgs: []string{"-scenario", "camera_record"},
		}, nil
	case "android":
		return Profile{
			Name:     "mediacodec",
			Codec:    "h264_mediacodec",
			Hardware: true,
		}, nil
	case "linux":
		return Profile{
			Name:       "vaapi",
			Codec:      "h264_vaapi",
			Hardware:   true,
			InputArgs:  []string{"-vaapi_device", VAAPIDevice},
			FilterArgs: []string{"-vf", "format=nv12,hwupload"},
		}, nil
	default:
		return Profile{}, fmt.Errorf("%w: %s", ErrNoHardwareProfile, goos)
	}
}

// Args builds the ffmpeg command line reading raw RGBA frames from stdin and
// writing an MP4 to output.
func (p Profile) Args(width, height int, fps float64, output string) []string {
	rate := strconv.FormatFloat(fps, 'f', -1, 64)
	args := []string{"-hide_banner", "-loglevel", "error", "-y"}
	args = append(args, p.InputArgs...)
	args = append(args,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-framerate", rate,
		"-i", "pipe:0",
	)
	if len(p.FilterArgs) > 0 {
		args = append(args, p.FilterArgs...)
	} else {
		args = append(args, "-pix_fmt", "yuv420p")
	}
	args = append(args, "-c:v", p.Codec)
	args = append(args, p.CodecArgs...)
	args = append(args,
		"-r", rate,
		"-movflags", "+faststart",
		"-f", "mp4",
		output,
	)
	return args
}

// probeArgs builds a one-frame test encode to the null muxer, used to find
// out whether a hardware codec initializes at all.
func (p Profile) probeArgs(width, height int) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	args = append(args, p.InputArgs...)
	args = append(args,
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d:r=1", width, height),
		"-frames:v", "1",
	)
	if len(p.FilterArgs) > 0 {
		args = append(args, p.FilterArgs...)
	} else {
		args = append(args, "-pix_fmt", "yuv420p")
	}
	args = append(args, "-c:v", p.Codec)
	args = append(args, p.CodecArgs...)
	return append(args, "-f", "null", "-")
}
