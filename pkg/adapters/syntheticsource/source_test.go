package syntheticsource

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/user/pagecast/pkg/adapters/logger"
	"github.com/user/pagecast/pkg/ports"
)

func TestSource_JPEG(t *testing.T) {
	s := NewSource(Pattern{Width: 160, Height: 120, Label: "https://example.com"}, ports.CaptureOptions{Format: ports.FormatJPEG, Quality: 70})

	data, err := s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("expected 160x120, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestSource_PNGScaled(t *testing.T) {
	s := NewSource(Pattern{Width: 100, Height: 50, ScaleFactor: 2}, ports.CaptureOptions{Format: ports.FormatPNG})

	data, err := s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("expected 200x100, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestSource_FramesDiffer(t *testing.T) {
	s := NewSource(Pattern{Width: 64, Height: 48}, ports.CaptureOptions{Format: ports.FormatPNG})

	a, err := s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}
	b, err := s.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}

	if bytes.Equal(a, b) {
		t.Error("expected consecutive frames to differ")
	}
	if s.Frames() != 2 {
		t.Errorf("expected 2 frames rendered, got %d", s.Frames())
	}
}

func TestSource_Closed(t *testing.T) {
	s := NewSource(Pattern{}, ports.CaptureOptions{})
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := s.CaptureOnce(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestSource_CancelledContext(t *testing.T) {
	s := NewSource(Pattern{}, ports.CaptureOptions{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.CaptureOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBrowser_Lifecycle(t *testing.T) {
	b := NewBrowser(logger.NewNoop())

	if _, err := b.OpenFrameSource(ports.CaptureOptions{}); !errors.Is(err, ErrNotLaunched) {
		t.Errorf("expected ErrNotLaunched, got %v", err)
	}

	if err := b.Launch(context.Background(), ports.BrowserOptions{}); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if err := b.SetViewport(80, 60, 1); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}
	src, err := b.OpenFrameSource(ports.CaptureOptions{Format: ports.FormatPNG})
	if err != nil {
		t.Fatalf("OpenFrameSource failed: %v", err)
	}
	if err := b.Navigate("https://example.com/"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	info, err := b.GetPageInfo()
	if err != nil || info.URL != "https://example.com/" {
		t.Errorf("unexpected page info %+v, %v", info, err)
	}

	data, err := src.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 80 {
		t.Errorf("expected viewport width, got %d", img.Bounds().Dx())
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := src.CaptureOnce(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected source closed with the browser, got %v", err)
	}
}
