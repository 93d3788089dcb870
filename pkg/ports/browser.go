// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// Browser abstracts browser automation for page recording.
type Browser interface {
	// Launch starts the browser with the given options.
	Launch(ctx context.Context, opts BrowserOptions) error

	// Navigate loads the specified URL.
	Navigate(url string) error

	// SetViewport sets the page viewport in CSS pixels.
	SetViewport(width, height int, deviceScaleFactor float64) error

	// SetNetworkConditions configures network throttling.
	SetNetworkConditions(conditions NetworkConditions) error

	// SetCPUThrottling sets CPU throttling rate (e.g., 4.0 means 4x slower).
	SetCPUThrottling(rate float64) error

	// OpenFrameSource opens a capture session on the current page.
	// The returned source is released with FrameSource.Close.
	OpenFrameSource(opts CaptureOptions) (FrameSource, error)

	// GetPageInfo retrieves information about the current page.
	GetPageInfo() (*PageInfo, error)

	// Close shuts down the browser.
	Close() error
}

// FrameSource captures one still image of the monitored surface per call.
// Implementations must tolerate repeated calls and are never called
// concurrently by the capture loop.
type FrameSource interface {
	// CaptureOnce returns the encoded bytes of a single still image.
	// An empty result with a nil error means nothing was captured.
	CaptureOnce(ctx context.Context) ([]byte, error)

	// Close releases the capture session handle.
	Close() error
}

// BrowserOptions configures browser launch settings.
type BrowserOptions struct {
	Headless          bool
	ChromePath        string
	UserAgent         string
	Headers           map[string]string
	WindowWidth       int    // Initial window width
	WindowHeight      int    // Initial window height
	IgnoreHTTPSErrors bool   // Ignore HTTPS certificate errors
	ProxyServer       string // HTTP proxy server (e.g., "http://proxy:8080")
	Incognito         bool
}

// CaptureOptions configures the still images produced by a FrameSource.
type CaptureOptions struct {
	Format  ImageFormat
	Quality int // JPEG quality (0-100), ignored for PNG
}

// ImageFormat specifies the still image encoding.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpeg"
	FormatPNG  ImageFormat = "png"
)

// DefaultCaptureQuality is used when no valid JPEG quality is configured.
const DefaultCaptureQuality = 80

// NormalizeQuality clamps q to [0, 100]; negative values select the default.
func NormalizeQuality(q int) int {
	if q < 0 {
		return DefaultCaptureQuality
	}
	if q > 100 {
		return 100
	}
	return q
}

// ParseImageFormat parses a capture format name, defaulting to JPEG.
func ParseImageFormat(s string) ImageFormat {
	switch s {
	case "png":
		return FormatPNG
	default:
		return FormatJPEG
	}
}

// NetworkConditions defines network throttling parameters.
type NetworkConditions struct {
	LatencyMs     int  // Network latency in milliseconds
	DownloadSpeed int  // Download speed in bytes/sec
	UploadSpeed   int  // Upload speed in bytes/sec
	Offline       bool // Whether to simulate offline mode
}

// Enabled reports whether any throttling is configured.
func (n NetworkConditions) Enabled() bool {
	return n.Offline || n.LatencyMs > 0 || n.DownloadSpeed > 0 || n.UploadSpeed > 0
}

// PageInfo contains information about the current page.
type PageInfo struct {
	Title string
	URL   string
}
