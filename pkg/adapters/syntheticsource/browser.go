package syntheticsource

import (
	"context"
	"errors"
	"sync"

	"github.com/user/pagecast/pkg/ports"
)

// ErrNotLaunched is returned when the browser is used before Launch.
var ErrNotLaunched = errors.New("syntheticsource: browser not launched")

// Browser implements ports.Browser without a real browser. Navigation only
// records the URL, which becomes the label drawn on every frame.
type Browser struct {
	logger ports.Logger

	mu          sync.Mutex
	launched    bool
	url         string
	width       int
	height      int
	scaleFactor float64
	sources     []*Source
}

// NewBrowser creates a synthetic browser.
func NewBrowser(logger ports.Logger) *Browser {
	return &Browser{
		logger:      logger.WithComponent("browser"),
		width:       1280,
		height:      960,
		scaleFactor: 1,
	}
}

// Launch marks the browser as running.
func (b *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		b.width, b.height = opts.WindowWidth, opts.WindowHeight
	}
	b.launched = true
	b.logger.Debug("Synthetic browser ready")
	return nil
}

// Navigate records url.
func (b *Browser) Navigate(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.launched {
		return ErrNotLaunched
	}
	b.url = url
	for _, s := range b.sources {
		s.mu.Lock()
		s.pattern.Label = url
		s.mu.Unlock()
	}
	return nil
}

// SetViewport sets the size of frames from sources opened afterwards.
func (b *Browser) SetViewport(width, height int, deviceScaleFactor float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.launched {
		return ErrNotLaunched
	}
	b.width, b.height, b.scaleFactor = width, height, deviceScaleFactor
	return nil
}

// SetNetworkConditions is accepted and ignored.
func (b *Browser) SetNetworkConditions(conditions ports.NetworkConditions) error {
	return nil
}

// SetCPUThrottling is accepted and ignored.
func (b *Browser) SetCPUThrottling(rate float64) error {
	return nil
}

// OpenFrameSource opens a test-card source at the current viewport size.
func (b *Browser) OpenFrameSource(opts ports.CaptureOptions) (ports.FrameSource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.launched {
		return nil, ErrNotLaunched
	}
	s := NewSource(Pattern{
		Width:       b.width,
		Height:      b.height,
		ScaleFactor: b.scaleFactor,
		Label:       b.url,
	}, opts)
	b.sources = append(b.sources, s)
	return s, nil
}

// GetPageInfo returns the recorded URL as both title and URL.
func (b *Browser) GetPageInfo() (*ports.PageInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &ports.PageInfo{Title: b.url, URL: b.url}, nil
}

// Close closes every opened source.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.sources {
		s.Close()
	}
	b.sources = nil
	b.launched = false
	return nil
}

var _ ports.Browser = (*Browser)(nil)
