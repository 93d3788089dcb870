package pwbrowser

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/user/pagecast/pkg/ports"
)

var (
	// ErrSourceClosed is returned by a closed frame source.
	ErrSourceClosed = errors.New("pwbrowser: frame source closed")

	// ErrMalformedScreenshot is returned when the protocol reply has no image data.
	ErrMalformedScreenshot = errors.New("pwbrowser: malformed screenshot reply")
)

// cdpSource captures the page through its own CDP session.
type cdpSource struct {
	session playwright.CDPSession
	params  map[string]interface{}

	mu     sync.Mutex
	closed bool
}

func newCDPSource(session playwright.CDPSession, opts ports.CaptureOptions) *cdpSource {
	return &cdpSource{session: session, params: screenshotParams(opts)}
}

func screenshotParams(opts ports.CaptureOptions) map[string]interface{} {
	if opts.Format == ports.FormatPNG {
		return map[string]interface{}{"format": "png", "optimizeForSpeed": true}
	}
	return map[string]interface{}{
		"format":           "jpeg",
		"quality":          ports.NormalizeQuality(opts.Quality),
		"optimizeForSpeed": true,
	}
}

// CaptureOnce sends Page.captureScreenshot. The driver call cannot be
// interrupted, so ctx is only checked before sending.
func (s *cdpSource) CaptureOnce(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reply, err := s.session.Send("Page.captureScreenshot", s.params)
	if err != nil {
		return nil, err
	}
	return decodeScreenshot(reply)
}

// decodeScreenshot extracts the base64 "data" field of a capture reply.
func decodeScreenshot(reply interface{}) ([]byte, error) {
	m, ok := reply.(map[string]interface{})
	if !ok {
		return nil, ErrMalformedScreenshot
	}
	raw, ok := m["data"].(string)
	if !ok {
		return nil, ErrMalformedScreenshot
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScreenshot, err)
	}
	return data, nil
}

// Close detaches the capture session.
func (s *cdpSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.session.Detach()
}

var _ ports.FrameSource = (*cdpSource)(nil)
