package chromebrowser

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"testing"

	"github.com/chromedp/cdproto/page"

	"github.com/user/pagecast/pkg/ports"
)

// e2eChrome returns a usable Chrome path or skips the test.
func e2eChrome(t *testing.T) string {
	t.Helper()
	if os.Getenv("PAGECAST_E2E") == "" {
		t.Skip("set PAGECAST_E2E=1 to run against a real browser")
	}
	path := ResolveChromePath("")
	if path == "" {
		t.Skip("Chrome not installed")
	}
	return path
}

func TestAllocatorOptions(t *testing.T) {
	base := len(allocatorOptions(ports.BrowserOptions{}, "/bin/chrome"))
	full := len(allocatorOptions(ports.BrowserOptions{
		Headless:          true,
		Incognito:         true,
		UserAgent:         "pagecast",
		WindowWidth:       800,
		WindowHeight:      600,
		IgnoreHTTPSErrors: true,
		ProxyServer:       "http://proxy:8080",
	}, "/bin/chrome"))

	// headless, incognito, UA, window size, three certificate flags, proxy
	if full-base != 8 {
		t.Errorf("expected 8 additional options, got %d", full-base)
	}
}

func TestScreenshotSource_Params(t *testing.T) {
	jpeg := newScreenshotSource(context.Background(), ports.CaptureOptions{Format: ports.FormatJPEG, Quality: 150})
	p := jpeg.params()
	if p.Format != page.CaptureScreenshotFormatJpeg || p.Quality != 100 {
		t.Errorf("unexpected jpeg params %+v", p)
	}
	if !p.OptimizeForSpeed {
		t.Error("expected optimizeForSpeed")
	}

	pngSrc := newScreenshotSource(context.Background(), ports.CaptureOptions{Format: ports.FormatPNG, Quality: 50})
	p = pngSrc.params()
	if p.Format != page.CaptureScreenshotFormatPng || p.Quality != 0 {
		t.Errorf("png capture must not carry a quality, got %+v", p)
	}
}

func TestScreenshotSource_Closed(t *testing.T) {
	s := newScreenshotSource(context.Background(), ports.CaptureOptions{})
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := s.CaptureOnce(context.Background()); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("expected ErrSourceClosed, got %v", err)
	}
}

func TestBrowser_NotLaunched(t *testing.T) {
	b := New()
	if err := b.Navigate("about:blank"); !errors.Is(err, ErrNotLaunched) {
		t.Errorf("expected ErrNotLaunched, got %v", err)
	}
	if _, err := b.OpenFrameSource(ports.CaptureOptions{}); !errors.Is(err, ErrNotLaunched) {
		t.Errorf("expected ErrNotLaunched, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close on an unlaunched browser failed: %v", err)
	}
}

func TestBrowser_ChromeNotFound(t *testing.T) {
	t.Setenv(ChromePathEnv, "")
	t.Setenv("PATH", t.TempDir())
	if ResolveChromePath("") != "" {
		t.Skip("Chrome found at an absolute install location")
	}

	if err := New().Launch(context.Background(), ports.BrowserOptions{Headless: true}); !errors.Is(err, ErrChromeNotFound) {
		t.Errorf("expected ErrChromeNotFound, got %v", err)
	}
}

func TestBrowser_CaptureScreenshot(t *testing.T) {
	chromePath := e2eChrome(t)

	b := New()
	if err := b.Launch(context.Background(), ports.BrowserOptions{ChromePath: chromePath, Headless: true}); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	defer b.Close()

	if err := b.SetViewport(320, 240, 1); err != nil {
		t.Fatalf("SetViewport failed: %v", err)
	}
	if err := b.Navigate("data:text/html,<title>pagecast</title><h1>hello</h1>"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}

	info, err := b.GetPageInfo()
	if err != nil || info.Title != "pagecast" {
		t.Errorf("unexpected page info %+v, %v", info, err)
	}

	src, err := b.OpenFrameSource(ports.CaptureOptions{Format: ports.FormatPNG})
	if err != nil {
		t.Fatalf("OpenFrameSource failed: %v", err)
	}
	defer src.Close()

	data, err := src.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 320 {
		t.Errorf("expected 320px wide capture, got %d", img.Bounds().Dx())
	}
}
