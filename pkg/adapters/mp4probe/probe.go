// Package mp4probe reads frame counts, durations and codecs from encoded MP4 files.
package mp4probe

import (
	"errors"
	"fmt"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/pagecast/pkg/ports"
)

// ErrNoVideoTrack is returned when the file has no video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// Prober implements ports.VideoProber for MP4 and MOV files.
type Prober struct{}

// New creates a new Prober.
func New() *Prober {
	return &Prober{}
}

// Probe reads container metadata from the video at path.
func (p *Prober) Probe(path string) (*ports.VideoInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	mp4File, err := mp4.DecodeFile(f)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	var info *ports.VideoInfo
	if mp4File.IsFragmented() {
		info, err = probeFragmented(mp4File)
	} else {
		info, err = probeProgressive(mp4File)
	}
	if err != nil {
		return nil, err
	}
	info.SizeBytes = stat.Size()
	return info, nil
}

func findVideoTrak(moov *mp4.MoovBox) *mp4.TrakBox {
	if moov == nil {
		return nil
	}
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}

func trackSize(trak *mp4.TrakBox) (int, int) {
	if trak.Tkhd == nil {
		return 0, 0
	}
	return int(trak.Tkhd.Width >> 16), int(trak.Tkhd.Height >> 16)
}

func probeProgressive(mp4File *mp4.File) (*ports.VideoInfo, error) {
	trak := findVideoTrak(mp4File.Moov)
	if trak == nil {
		return nil, ErrNoVideoTrack
	}

	info := &ports.VideoInfo{Codec: trackCodec(trak)}
	info.Width, info.Height = trackSize(trak)

	if mdhd := trak.Mdia.Mdhd; mdhd != nil && mdhd.Timescale > 0 {
		info.DurationMs = int(mdhd.Duration * 1000 / uint64(mdhd.Timescale))
	}
	if trak.Mdia.Minf != nil && trak.Mdia.Minf.Stbl != nil && trak.Mdia.Minf.Stbl.Stsz != nil {
		info.FrameCount = int(trak.Mdia.Minf.Stbl.Stsz.SampleNumber)
	}
	return info, nil
}

func probeFragmented(mp4File *mp4.File) (*ports.VideoInfo, error) {
	if mp4File.Init == nil {
		return nil, ErrNoVideoTrack
	}
	trak := findVideoTrak(mp4File.Init.Moov)
	if trak == nil {
		return nil, ErrNoVideoTrack
	}
	trackID := trak.Tkhd.TrackID

	var trex *mp4.TrexBox
	if mvex := mp4File.Init.Moov.Mvex; mvex != nil {
		for _, t := range mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	var timescale uint32 = 1000
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	info := &ports.VideoInfo{Fragmented: true, Codec: trackCodec(trak)}
	info.Width, info.Height = trackSize(trak)

	var totalDur uint64
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			ours := false
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID == trackID {
					ours = true
					break
				}
			}
			if !ours {
				continue
			}

			samples, err := frag.GetFullSamples(trex)
			if err != nil {
				return nil, fmt.Errorf("get samples: %w", err)
			}
			for _, sample := range samples {
				info.FrameCount++
				totalDur += uint64(sample.Dur)
			}
		}
	}

	info.DurationMs = int(totalDur * 1000 / uint64(timescale))
	return info, nil
}

var _ ports.VideoProber = (*Prober)(nil)
