package chromebrowser

import (
	"context"
	"errors"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/user/pagecast/pkg/ports"
)

// ErrSourceClosed is returned by a closed frame source.
var ErrSourceClosed = errors.New("chromebrowser: frame source closed")

// screenshotSource captures the page with Page.captureScreenshot.
type screenshotSource struct {
	tab     context.Context
	format  page.CaptureScreenshotFormat
	quality int64

	mu     sync.Mutex
	closed bool
}

func newScreenshotSource(tab context.Context, opts ports.CaptureOptions) *screenshotSource {
	s := &screenshotSource{
		tab:     tab,
		format:  screenshotFormat(opts.Format),
		quality: int64(ports.NormalizeQuality(opts.Quality)),
	}
	return s
}

func screenshotFormat(f ports.ImageFormat) page.CaptureScreenshotFormat {
	if f == ports.FormatPNG {
		return page.CaptureScreenshotFormatPng
	}
	return page.CaptureScreenshotFormatJpeg
}

// params builds the capture command for the configured format.
func (s *screenshotSource) params() *page.CaptureScreenshotParams {
	p := page.CaptureScreenshot().
		WithFormat(s.format).
		WithOptimizeForSpeed(true)
	if s.format == page.CaptureScreenshotFormatJpeg {
		p = p.WithQuality(s.quality)
	}
	return p
}

// CaptureOnce takes one screenshot. The command runs on the browser tab and
// is abandoned when ctx is done.
func (s *screenshotSource) CaptureOnce(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(s.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(c context.Context) error {
		var err error
		buf, err = s.params().Do(c)
		return err
	}))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return buf, nil
}

// Close releases the source. The tab itself belongs to the Browser.
func (s *screenshotSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

var _ ports.FrameSource = (*screenshotSource)(nil)
