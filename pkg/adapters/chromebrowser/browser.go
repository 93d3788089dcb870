// Package chromebrowser provides a browser implementation using chromedp.
package chromebrowser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/user/pagecast/pkg/ports"
)

// ErrChromeNotFound is returned when no Chrome executable can be resolved.
var ErrChromeNotFound = errors.New("chromebrowser: chrome not found: install Chrome/Chromium, set CHROME_PATH, or use --chrome-path")

// ErrNotLaunched is returned when the browser is used before Launch.
var ErrNotLaunched = errors.New("chromebrowser: browser not launched")

// Browser implements ports.Browser using chromedp.
type Browser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new Browser.
func New() *Browser {
	return &Browser{}
}

// allocatorOptions returns the exec allocator options for opts.
func allocatorOptions(opts ports.BrowserOptions, chromePath string) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(chromePath),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("safebrowsing-disable-auto-update", true),
		chromedp.Flag("hide-scrollbars", true),
		// Timers keep running in background tabs so captures stay on schedule.
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-backgrounding-occluded-windows", true),
	}

	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}
	if opts.Incognito {
		allocOpts = append(allocOpts, chromedp.Flag("incognito", true))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	if opts.IgnoreHTTPSErrors {
		allocOpts = append(allocOpts,
			chromedp.Flag("ignore-certificate-errors", true),
			chromedp.Flag("ignore-certificate-errors-spki-list", true),
			chromedp.Flag("allow-insecure-localhost", true))
	}
	if opts.ProxyServer != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.ProxyServer))
	}

	// Server/container execution
	allocOpts = append(allocOpts,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-namespace-sandbox", true),
		chromedp.Flag("disable-seccomp-filter-sandbox", true),
		chromedp.Flag("no-zygote", true),
	)

	return allocOpts
}

// Launch starts Chrome. The browser lives until Close or until ctx is done.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	chromePath := ResolveChromePath(opts.ChromePath)
	if chromePath == "" {
		return ErrChromeNotFound
	}

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(ctx, allocatorOptions(opts, chromePath)...)
	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx)

	// Start the browser now so launch failures surface here.
	if err := chromedp.Run(b.ctx); err != nil {
		b.Close()
		return fmt.Errorf("start chrome: %w", err)
	}

	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		if err := chromedp.Run(b.ctx, network.Enable(), network.SetExtraHTTPHeaders(headers)); err != nil {
			return fmt.Errorf("set headers: %w", err)
		}
	}

	return nil
}

func (b *Browser) run(actions ...chromedp.Action) error {
	if b.ctx == nil {
		return ErrNotLaunched
	}
	return chromedp.Run(b.ctx, actions...)
}

// Navigate loads the specified URL.
func (b *Browser) Navigate(url string) error {
	return b.run(chromedp.Navigate(url))
}

// SetViewport resizes the window and overrides the device metrics.
// width and height are in CSS pixels.
func (b *Browser) SetViewport(width, height int, deviceScaleFactor float64) error {
	// Window bounds are best effort; headless targets may have no window.
	_ = b.run(chromedp.ActionFunc(func(ctx context.Context) error {
		windowID, _, err := browser.GetWindowForTarget().Do(ctx)
		if err != nil {
			return err
		}
		return browser.SetWindowBounds(windowID, &browser.Bounds{
			Width:  int64(width),
			Height: int64(height),
		}).Do(ctx)
	}))

	if err := b.run(
		emulation.SetDeviceMetricsOverride(int64(width), int64(height), deviceScaleFactor, false),
	); err != nil {
		return fmt.Errorf("set device metrics: %w", err)
	}
	return nil
}

// SetNetworkConditions configures network throttling.
func (b *Browser) SetNetworkConditions(conditions ports.NetworkConditions) error {
	return b.run(
		network.Enable(),
		network.EmulateNetworkConditions(
			conditions.Offline,
			float64(conditions.LatencyMs),
			float64(conditions.DownloadSpeed),
			float64(conditions.UploadSpeed),
		),
	)
}

// SetCPUThrottling sets CPU throttling rate.
func (b *Browser) SetCPUThrottling(rate float64) error {
	return b.run(emulation.SetCPUThrottlingRate(rate))
}

// OpenFrameSource returns a source capturing screenshots of the page.
func (b *Browser) OpenFrameSource(opts ports.CaptureOptions) (ports.FrameSource, error) {
	if b.ctx == nil {
		return nil, ErrNotLaunched
	}
	return newScreenshotSource(b.ctx, opts), nil
}

// GetPageInfo retrieves information about the current page.
func (b *Browser) GetPageInfo() (*ports.PageInfo, error) {
	var title, url string
	if err := b.run(chromedp.Title(&title), chromedp.Location(&url)); err != nil {
		return nil, fmt.Errorf("get page info: %w", err)
	}
	return &ports.PageInfo{Title: title, URL: url}, nil
}

// Close shuts down the browser.
func (b *Browser) Close() error {
	if b.cancel != nil {
		b.cancel()
	}

	// Give Chrome a moment to shut down gracefully, then force kill
	time.Sleep(100 * time.Millisecond)

	if b.allocCancel != nil {
		b.allocCancel()
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
