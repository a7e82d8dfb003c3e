package probe

import (
	"fmt"
	"io"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
)

func probeMP4(r io.Reader) (Result, error) {
	res := Result{Container: ContainerMP4, Codec: CodecUnknown}

	mp4File, err := mp4.DecodeFile(r)
	if err != nil {
		return res, fmt.Errorf("decode mp4: %w", err)
	}

	var moov *mp4.MoovBox
	switch {
	case mp4File.IsFragmented() && mp4File.Init != nil:
		moov = mp4File.Init.Moov
	default:
		moov = mp4File.Moov
	}
	if moov == nil {
		return res, fmt.Errorf("no moov box found")
	}

	trak := videoTrack(moov)
	if trak == nil {
		return res, fmt.Errorf("no video track found")
	}

	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsd != nil {
		for _, child := range stbl.Stsd.Children {
			codec := codecOf(child.Type())
			if codec == CodecUnknown {
				continue
			}
			res.Codec = codec
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
				res.Width = int(vse.Width)
				res.Height = int(vse.Height)
			}
			break
		}
	}

	if mp4File.IsFragmented() {
		trackID := trak.Tkhd.TrackID
		var mediaDur uint64
		for _, seg := range mp4File.Segments {
			for _, frag := range seg.Fragments {
				for _, traf := range frag.Moof.Trafs {
					if traf.Tfhd.TrackID != trackID {
						continue
					}
					for _, trun := range traf.Truns {
						res.Frames += int(trun.SampleCount())
						mediaDur += trun.Duration(defaultDuration(moov, traf))
					}
				}
			}
		}
		res.Duration = mediaDuration(mediaDur, trak.Mdia.Mdhd.Timescale)
	} else {
		if stbl.Stsz != nil {
			res.Frames = int(stbl.Stsz.SampleNumber)
		}
		res.Duration = mediaDuration(trak.Mdia.Mdhd.Duration, trak.Mdia.Mdhd.Timescale)
	}

	if res.Duration > 0 && res.Frames > 0 {
		res.FPS = float64(res.Frames) / res.Duration.Seconds()
	}
	return res, nil
}

func videoTrack(moov *mp4.MoovBox) *mp4.TrakBox {
	for _, trak := range moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Mdhd == nil {
			continue
		}
		return trak
	}
	return nil
}

func codecOf(boxType string) Codec {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	case "mjpa", "mjpb", "jpeg":
		return CodecMJPEG
	default:
		return CodecUnknown
	}
}

func defaultDuration(moov *mp4.MoovBox, traf *mp4.TrafBox) uint32 {
	if traf.Tfhd.HasDefaultSampleDuration() {
		return traf.Tfhd.DefaultSampleDuration
	}
	if moov.Mvex != nil {
		for _, trex := range moov.Mvex.Trexs {
			if trex.TrackID == traf.Tfhd.TrackID {
				return trex.DefaultSampleDuration
			}
		}
	}
	return 0
}

func mediaDuration(units uint64, timescale uint32) time.Duration {
	if timescale == 0 {
		return 0
	}
	return time.Duration(float64(units) / float64(timescale) * float64(time.Second))
}
