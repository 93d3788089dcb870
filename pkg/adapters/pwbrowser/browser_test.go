package pwbrowser

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"testing"

	"github.com/user/pagecast/pkg/adapters/logger"
	"github.com/user/pagecast/pkg/ports"
)

func TestLaunchOptions(t *testing.T) {
	lo := launchOptions(ports.BrowserOptions{
		Headless:     true,
		ChromePath:   "/opt/chrome",
		ProxyServer:  "http://proxy:8080",
		WindowWidth:  800,
		WindowHeight: 600,
	})

	if lo.Headless == nil || !*lo.Headless {
		t.Error("expected headless launch")
	}
	if lo.ExecutablePath == nil || *lo.ExecutablePath != "/opt/chrome" {
		t.Errorf("unexpected executable path %v", lo.ExecutablePath)
	}
	if lo.Proxy == nil || lo.Proxy.Server != "http://proxy:8080" {
		t.Errorf("unexpected proxy %+v", lo.Proxy)
	}
	if last := lo.Args[len(lo.Args)-1]; last != "--window-size=800,600" {
		t.Errorf("expected window size flag, got %q", last)
	}

	bare := launchOptions(ports.BrowserOptions{})
	if bare.ExecutablePath != nil || bare.Proxy != nil {
		t.Error("expected no executable path or proxy by default")
	}
}

func TestRunOptions(t *testing.T) {
	if !runOptions(ports.BrowserOptions{ChromePath: "/opt/chrome"}).SkipInstallBrowsers {
		t.Error("expected download skipped for an explicit executable")
	}
	if runOptions(ports.BrowserOptions{}).SkipInstallBrowsers {
		t.Error("expected chromium download without an executable")
	}
}

func TestContextOptions(t *testing.T) {
	co := contextOptions(ports.BrowserOptions{
		UserAgent:         "pagecast",
		IgnoreHTTPSErrors: true,
		Headers:           map[string]string{"X-Test": "1"},
		WindowWidth:       1024,
		WindowHeight:      768,
	})

	if co.UserAgent == nil || *co.UserAgent != "pagecast" {
		t.Error("expected user agent")
	}
	if co.IgnoreHttpsErrors == nil || !*co.IgnoreHttpsErrors {
		t.Error("expected https errors ignored")
	}
	if co.ExtraHttpHeaders["X-Test"] != "1" {
		t.Error("expected extra header")
	}
	if co.Viewport == nil || co.Viewport.Width != 1024 || co.Viewport.Height != 768 {
		t.Errorf("unexpected viewport %+v", co.Viewport)
	}
}

func TestNetworkParams(t *testing.T) {
	p := networkParams(ports.NetworkConditions{LatencyMs: 40, DownloadSpeed: 1000, UploadSpeed: 500})
	if p["latency"] != 40 || p["downloadThroughput"] != 1000 || p["uploadThroughput"] != 500 || p["offline"] != false {
		t.Errorf("unexpected params %v", p)
	}
}

func TestScreenshotParams(t *testing.T) {
	jpeg := screenshotParams(ports.CaptureOptions{Format: ports.FormatJPEG, Quality: -1})
	if jpeg["format"] != "jpeg" || jpeg["quality"] != ports.DefaultCaptureQuality {
		t.Errorf("unexpected jpeg params %v", jpeg)
	}

	png := screenshotParams(ports.CaptureOptions{Format: ports.FormatPNG, Quality: 90})
	if _, ok := png["quality"]; ok || png["format"] != "png" {
		t.Errorf("unexpected png params %v", png)
	}
}

func TestDecodeScreenshot(t *testing.T) {
	want := []byte{0xff, 0xd8, 0xff}
	got, err := decodeScreenshot(map[string]interface{}{"data": base64.StdEncoding.EncodeToString(want)})
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	for _, reply := range []interface{}{nil, "data", map[string]interface{}{}, map[string]interface{}{"data": "%%%"}} {
		if _, err := decodeScreenshot(reply); !errors.Is(err, ErrMalformedScreenshot) {
			t.Errorf("reply %v: expected ErrMalformedScreenshot, got %v", reply, err)
		}
	}
}

func TestBrowser_NotLaunched(t *testing.T) {
	b := New(logger.NewNoop())

	if err := b.Navigate("about:blank"); !errors.Is(err, ErrNotLaunched) {
		t.Errorf("expected ErrNotLaunched, got %v", err)
	}
	if err := b.SetCPUThrottling(4); !errors.Is(err, ErrNotLaunched) {
		t.Errorf("expected ErrNotLaunched, got %v", err)
	}
	if _, err := b.OpenFrameSource(ports.CaptureOptions{}); !errors.Is(err, ErrNotLaunched) {
		t.Errorf("expected ErrNotLaunched, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close on an unlaunched browser failed: %v", err)
	}
}

func TestBrowser_Capture(t *testing.T) {
	if os.Getenv("PAGECAST_E2E") == "" {
		t.Skip("set PAGECAST_E2E=1 to run against Playwright")
	}

	b := New(logger.NewNoop())
	if err := b.Launch(context.Background(), ports.BrowserOptions{Headless: true}); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	defer b.Close()

	if err := b.Navigate("data:text/html,<title>pagecast</title>"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	src, err := b.OpenFrameSource(ports.CaptureOptions{Format: ports.FormatJPEG, Quality: 60})
	if err != nil {
		t.Fatalf("OpenFrameSource failed: %v", err)
	}
	defer src.Close()

	data, err := src.CaptureOnce(context.Background())
	if err != nil {
		t.Fatalf("CaptureOnce failed: %v", err)
	}
	if len(data) < 3 || data[0] != 0xff || data[1] != 0xd8 {
		t.Error("expected JPEG data")
	}
}
