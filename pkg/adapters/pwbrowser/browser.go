// Package pwbrowser provides a browser implementation using Playwright.
//
// Playwright downloads and manages its own Chromium build, so this engine
// works on hosts without a system Chrome. Throttling and screen capture go
// through Chrome DevTools Protocol sessions attached to the page.
package pwbrowser

import (
	"context"
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/user/pagecast/pkg/ports"
)

// ErrNotLaunched is returned when the browser is used before Launch.
var ErrNotLaunched = errors.New("pwbrowser: browser not launched")

// Browser implements ports.Browser using playwright-go.
type Browser struct {
	logger ports.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	control playwright.CDPSession
}

// New creates a new Browser.
func New(logger ports.Logger) *Browser {
	return &Browser{logger: logger.WithComponent("playwright")}
}

// runOptions selects the Chromium download unless an executable is given.
func runOptions(opts ports.BrowserOptions) *playwright.RunOptions {
	return &playwright.RunOptions{
		Browsers:            []string{"chromium"},
		SkipInstallBrowsers: opts.ChromePath != "",
		Verbose:             false,
	}
}

// launchOptions maps browser options onto a Playwright launch.
func launchOptions(opts ports.BrowserOptions) playwright.BrowserTypeLaunchOptions {
	lo := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--hide-scrollbars",
			"--mute-audio",
			"--disable-background-timer-throttling",
			"--disable-renderer-backgrounding",
			"--disable-backgrounding-occluded-windows",
		},
	}
	if opts.ChromePath != "" {
		lo.ExecutablePath = playwright.String(opts.ChromePath)
	}
	if opts.ProxyServer != "" {
		lo.Proxy = &playwright.Proxy{Server: opts.ProxyServer}
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		lo.Args = append(lo.Args, fmt.Sprintf("--window-size=%d,%d", opts.WindowWidth, opts.WindowHeight))
	}
	return lo
}

// contextOptions maps browser options onto a new browser context.
func contextOptions(opts ports.BrowserOptions) playwright.BrowserNewContextOptions {
	co := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(opts.IgnoreHTTPSErrors),
	}
	if opts.UserAgent != "" {
		co.UserAgent = playwright.String(opts.UserAgent)
	}
	if len(opts.Headers) > 0 {
		co.ExtraHttpHeaders = opts.Headers
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		co.Viewport = &playwright.Size{Width: opts.WindowWidth, Height: opts.WindowHeight}
	}
	return co
}

// Launch installs the Playwright driver if needed and opens one page.
// Playwright contexts are always isolated, so Incognito needs no flag.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ro := runOptions(opts)
	b.logger.Debug("Installing Playwright driver")
	if err := playwright.Install(ro); err != nil {
		return fmt.Errorf("install playwright: %w", err)
	}

	pw, err := playwright.Run(ro)
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	b.pw = pw

	if b.browser, err = pw.Chromium.Launch(launchOptions(opts)); err != nil {
		b.Close()
		return fmt.Errorf("launch chromium: %w", err)
	}
	if b.context, err = b.browser.NewContext(contextOptions(opts)); err != nil {
		b.Close()
		return fmt.Errorf("new context: %w", err)
	}
	if b.page, err = b.context.NewPage(); err != nil {
		b.Close()
		return fmt.Errorf("new page: %w", err)
	}
	if b.control, err = b.context.NewCDPSession(b.page); err != nil {
		b.Close()
		return fmt.Errorf("attach cdp session: %w", err)
	}
	return nil
}

func (b *Browser) send(method string, params map[string]interface{}) error {
	if b.control == nil {
		return ErrNotLaunched
	}
	if _, err := b.control.Send(method, params); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// Navigate loads the specified URL and waits for the load event.
func (b *Browser) Navigate(url string) error {
	if b.page == nil {
		return ErrNotLaunched
	}
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return err
}

// SetViewport sets the page size. A scale factor other than 1 is applied
// with a device metrics override since contexts fix it at creation.
func (b *Browser) SetViewport(width, height int, deviceScaleFactor float64) error {
	if b.page == nil {
		return ErrNotLaunched
	}
	if err := b.page.SetViewportSize(width, height); err != nil {
		return err
	}
	if deviceScaleFactor == 0 || deviceScaleFactor == 1 {
		return nil
	}
	return b.send("Emulation.setDeviceMetricsOverride", map[string]interface{}{
		"width":             width,
		"height":            height,
		"deviceScaleFactor": deviceScaleFactor,
		"mobile":            false,
	})
}

// SetNetworkConditions configures network throttling.
func (b *Browser) SetNetworkConditions(conditions ports.NetworkConditions) error {
	if err := b.send("Network.enable", nil); err != nil {
		return err
	}
	return b.send("Network.emulateNetworkConditions", networkParams(conditions))
}

func networkParams(c ports.NetworkConditions) map[string]interface{} {
	return map[string]interface{}{
		"offline":            c.Offline,
		"latency":            c.LatencyMs,
		"downloadThroughput": c.DownloadSpeed,
		"uploadThroughput":   c.UploadSpeed,
	}
}

// SetCPUThrottling sets CPU throttling rate.
func (b *Browser) SetCPUThrottling(rate float64) error {
	return b.send("Emulation.setCPUThrottlingRate", map[string]interface{}{"rate": rate})
}

// OpenFrameSource attaches a dedicated CDP session for screenshots.
func (b *Browser) OpenFrameSource(opts ports.CaptureOptions) (ports.FrameSource, error) {
	if b.context == nil {
		return nil, ErrNotLaunched
	}
	session, err := b.context.NewCDPSession(b.page)
	if err != nil {
		return nil, fmt.Errorf("attach capture session: %w", err)
	}
	return newCDPSource(session, opts), nil
}

// GetPageInfo retrieves information about the current page.
func (b *Browser) GetPageInfo() (*ports.PageInfo, error) {
	if b.page == nil {
		return nil, ErrNotLaunched
	}
	title, err := b.page.Title()
	if err != nil {
		return nil, fmt.Errorf("get page info: %w", err)
	}
	return &ports.PageInfo{Title: title, URL: b.page.URL()}, nil
}

// Close shuts down the browser and the Playwright driver.
func (b *Browser) Close() error {
	var errs []error
	if b.control != nil {
		if err := b.control.Detach(); err != nil {
			b.logger.Debug("Error detaching session: %v", err)
		}
		b.control = nil
	}
	if b.context != nil {
		errs = append(errs, b.context.Close())
		b.context = nil
	}
	if b.browser != nil {
		errs = append(errs, b.browser.Close())
		b.browser = nil
	}
	if b.pw != nil {
		errs = append(errs, b.pw.Stop())
		b.pw = nil
	}
	b.page = nil
	return errors.Join(errs...)
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)
