// Package syntheticsource renders test-pattern frames without a browser.
package syntheticsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/user/pagecast/pkg/ports"
)

// ErrClosed is returned when capturing from a closed source.
var ErrClosed = errors.New("syntheticsource: source closed")

// Pattern describes the rendered test card.
type Pattern struct {
	Width       int     // Logical width in CSS pixels
	Height      int     // Logical height in CSS pixels
	ScaleFactor float64 // Output pixels per logical pixel
	Label       string  // Text drawn on every frame
}

// Source implements ports.FrameSource by drawing a moving test card.
// Every frame differs from the previous one, so encoders cannot collapse them.
type Source struct {
	pattern Pattern
	opts    ports.CaptureOptions
	now     func() time.Time

	mu     sync.Mutex
	frame  int
	closed bool
}

// NewSource creates a test-card source.
func NewSource(pattern Pattern, opts ports.CaptureOptions) *Source {
	if pattern.Width <= 0 {
		pattern.Width = 640
	}
	if pattern.Height <= 0 {
		pattern.Height = 480
	}
	if pattern.ScaleFactor <= 0 {
		pattern.ScaleFactor = 1
	}
	if opts.Format == "" {
		opts.Format = ports.FormatJPEG
	}
	opts.Quality = ports.NormalizeQuality(opts.Quality)

	return &Source{
		pattern: pattern,
		opts:    opts,
		now:     time.Now,
	}
}

// CaptureOnce renders and encodes the next frame.
func (s *Source) CaptureOnce(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	index := s.frame
	pattern := s.pattern
	s.frame++
	s.mu.Unlock()

	img := s.render(pattern, index)
	return encode(img, s.opts)
}

// Close releases the source. Further captures fail with ErrClosed.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Frames returns how many frames have been rendered.
func (s *Source) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *Source) render(pattern Pattern, index int) image.Image {
	w, h := pattern.Width, pattern.Height
	dc := gg.NewContext(w, h)

	hue := float64(index%360) / 360
	dc.SetColor(hsv(hue, 0.35, 0.95))
	dc.Clear()

	// Sweeping bar, one full pass every 100 frames.
	barWidth := float64(w) / 10
	x := math.Mod(float64(index)*float64(w)/100, float64(w)+barWidth) - barWidth
	dc.SetColor(color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff})
	dc.DrawRectangle(x, 0, barWidth, float64(h))
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(color.Black)
	if pattern.Label != "" {
		dc.DrawStringAnchored(pattern.Label, float64(w)/2, float64(h)/2-20, 0.5, 0.5)
	}
	dc.DrawStringAnchored(fmt.Sprintf("frame %d", index), float64(w)/2, float64(h)/2, 0.5, 0.5)
	dc.DrawStringAnchored(s.now().Format("15:04:05.000"), float64(w)/2, float64(h)/2+20, 0.5, 0.5)

	img := dc.Image()
	if pattern.ScaleFactor == 1 {
		return img
	}

	sw := int(math.Round(float64(w) * pattern.ScaleFactor))
	sh := int(math.Round(float64(h) * pattern.ScaleFactor))
	dst := image.NewRGBA(image.Rect(0, 0, max(sw, 1), max(sh, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func encode(img image.Image, opts ports.CaptureOptions) ([]byte, error) {
	var buf bytes.Buffer

	switch opts.Format {
	case ports.FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}

	return buf.Bytes(), nil
}

// hsv converts hue, saturation and value in [0,1] to an opaque colour.
func hsv(h, s, v float64) color.Color {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}

var _ ports.FrameSource = (*Source)(nil)
