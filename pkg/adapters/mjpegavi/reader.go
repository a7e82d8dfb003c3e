package mjpegavi

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"time"
)

// Info summarizes an AVI file.
type Info struct {
	Codec       string // strf compression fourcc, e.g. "MJPG"
	Width       int
	Height      int
	FPS         float64
	Frames      int // From the index when present, else the main header
	IndexFrames int
	Duration    time.Duration
}

// ReadInfo parses the RIFF headers and index of an AVI file.
func ReadInfo(r io.ReadSeeker) (Info, error) {
	var info Info
	le := binary.LittleEndian

	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return info, fmt.Errorf("%w: %v", ErrNotAVI, err)
	}
	if string(riff[:4]) != "RIFF" || string(riff[8:]) != "AVI " {
		return info, ErrNotAVI
	}
	end := int64(le.Uint32(riff[4:8])) + 8

	var main mainHeader
	var stream streamHeader
	var haveMain, haveIndex bool

	pos := int64(12)
	for pos+8 <= end {
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return info, err
		}
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			break
		}
		id := string(hdr[:4])
		size := int64(le.Uint32(hdr[4:]))
		body := pos + 8

		switch id {
		case "LIST":
			var kind [4]byte
			if _, err := io.ReadFull(r, kind[:]); err != nil {
				return info, err
			}
			if string(kind[:]) == "hdrl" || string(kind[:]) == "strl" {
				// descend into header lists
				pos = body + 4
				continue
			}
		case "avih":
			if err := binary.Read(r, le, &main); err != nil {
				return info, fmt.Errorf("read avih: %w", err)
			}
			haveMain = true
		case "strh":
			if err := binary.Read(r, le, &stream); err != nil {
				return info, fmt.Errorf("read strh: %w", err)
			}
		case "strf":
			if string(stream.Type[:]) == "vids" && size >= bitmapInfoSize {
				var bmp bitmapInfo
				if err := binary.Read(r, le, &bmp); err != nil {
					return info, fmt.Errorf("read strf: %w", err)
				}
				info.Codec = strings.TrimRight(string(bmp.Compression[:]), "\x00 ")
				info.Width = int(bmp.Width)
				info.Height = int(bmp.Height)
				if info.Height < 0 {
					info.Height = -info.Height
				}
			}
		case "idx1":
			info.IndexFrames = countVideoEntries(r, size)
			haveIndex = true
		}
		pos = body + size + size%2
	}

	if !haveMain {
		return info, fmt.Errorf("%w: missing avih", ErrNotAVI)
	}
	if stream.Scale > 0 {
		info.FPS = float64(stream.Rate) / float64(stream.Scale)
	} else if main.MicroSecPerFrame > 0 {
		info.FPS = 1e6 / float64(main.MicroSecPerFrame)
	}
	if info.Width == 0 {
		info.Width, info.Height = int(main.Width), int(main.Height)
	}
	info.Frames = int(main.TotalFrames)
	if haveIndex {
		info.Frames = info.IndexFrames
	}
	if info.FPS > 0 {
		info.Duration = time.Duration(float64(info.Frames) / info.FPS * float64(time.Second))
	}
	return info, nil
}

func countVideoEntries(r io.Reader, size int64) int {
	n := 0
	var e indexEntry
	for i := int64(0); i+16 <= size; i += 16 {
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			break
		}
		if e.ChunkID[2] == 'd' {
			n++
		}
	}
	return n
}
