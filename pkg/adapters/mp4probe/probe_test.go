package mp4probe

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/mp4"
)

// writeFragmentedMP4 writes a single-fragment video of n samples lasting
// 1/fps each.
func writeFragmentedMP4(t *testing.T, n, fps, width, height int) string {
	t.Helper()

	timescale := uint32(fps * 1000)
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")
	trak := init.Moov.Trak

	av1C := &mp4.Av1CBox{CodecConfRec: av1.CodecConfRec{
		Version:            1,
		SeqLevelIdx0:       8,
		ChromaSubsamplingX: 1,
		ChromaSubsamplingY: 1,
	}}
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("av01", uint16(width), uint16(height), av1C))
	trak.Tkhd.Width = mp4.Fixed32(width << 16)
	trak.Tkhd.Height = mp4.Fixed32(height << 16)

	frag, err := mp4.CreateFragment(1, trak.Tkhd.TrackID)
	if err != nil {
		t.Fatalf("create fragment: %v", err)
	}
	dur := timescale / uint32(fps)
	for i := 0; i < n; i++ {
		data := []byte{0x12, 0x00, byte(i)}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: mp4.SyncSampleFlags,
				Size:  uint32(len(data)),
				Dur:   dur,
			},
			DecodeTime: uint64(i) * uint64(dur),
			Data:       data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "av01", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	if err := frag.Encode(&buf); err != nil {
		t.Fatalf("encode fragment: %v", err)
	}

	path := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestProbe_Fragmented(t *testing.T) {
	path := writeFragmentedMP4(t, 50, 25, 320, 240)

	info, err := New().Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}

	if !info.Fragmented {
		t.Error("expected fragmented video")
	}
	if info.FrameCount != 50 {
		t.Errorf("expected 50 frames, got %d", info.FrameCount)
	}
	if info.DurationMs != 2000 {
		t.Errorf("expected 2000ms, got %d", info.DurationMs)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", info.Width, info.Height)
	}
	if info.Codec != "av1" {
		t.Errorf("expected av1, got %q", info.Codec)
	}

	stat, _ := os.Stat(path)
	if info.SizeBytes != stat.Size() {
		t.Errorf("expected size %d, got %d", stat.Size(), info.SizeBytes)
	}
}

func TestProbe_MissingFile(t *testing.T) {
	_, err := New().Probe(filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestProbe_NotAnMP4(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mp4")
	if err := os.WriteFile(path, []byte("this is not a video"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := New().Probe(path); err == nil {
		t.Error("expected an error for a non-MP4 file")
	}
}

func TestTrackCodec_Unknown(t *testing.T) {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(25000, "video", "en")

	// No sample entry yet.
	if codec := trackCodec(init.Moov.Trak); codec != "" {
		t.Errorf("expected empty codec, got %q", codec)
	}
	if codec := trackCodec(&mp4.TrakBox{}); codec != "" {
		t.Errorf("expected empty codec for a bare trak, got %q", codec)
	}
}
