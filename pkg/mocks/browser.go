// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/user/pagecast/pkg/ports"
)

// Browser is a mock implementation of ports.Browser.
type Browser struct {
	LaunchFunc               func(ctx context.Context, opts ports.BrowserOptions) error
	NavigateFunc             func(url string) error
	SetViewportFunc          func(width, height int, deviceScaleFactor float64) error
	SetNetworkConditionsFunc func(conditions ports.NetworkConditions) error
	SetCPUThrottlingFunc     func(rate float64) error
	OpenFrameSourceFunc      func(opts ports.CaptureOptions) (ports.FrameSource, error)
	GetPageInfoFunc          func() (*ports.PageInfo, error)
	CloseFunc                func() error
}

func (m *Browser) Launch(ctx context.Context, opts ports.BrowserOptions) error {
	if m.LaunchFunc != nil {
		return m.LaunchFunc(ctx, opts)
	}
	return nil
}

func (m *Browser) Navigate(url string) error {
	if m.NavigateFunc != nil {
		return m.NavigateFunc(url)
	}
	return nil
}

func (m *Browser) SetViewport(width, height int, deviceScaleFactor float64) error {
	if m.SetViewportFunc != nil {
		return m.SetViewportFunc(width, height, deviceScaleFactor)
	}
	return nil
}

func (m *Browser) SetNetworkConditions(conditions ports.NetworkConditions) error {
	if m.SetNetworkConditionsFunc != nil {
		return m.SetNetworkConditionsFunc(conditions)
	}
	return nil
}

func (m *Browser) SetCPUThrottling(rate float64) error {
	if m.SetCPUThrottlingFunc != nil {
		return m.SetCPUThrottlingFunc(rate)
	}
	return nil
}

func (m *Browser) OpenFrameSource(opts ports.CaptureOptions) (ports.FrameSource, error) {
	if m.OpenFrameSourceFunc != nil {
		return m.OpenFrameSourceFunc(opts)
	}
	return &FrameSource{}, nil
}

func (m *Browser) GetPageInfo() (*ports.PageInfo, error) {
	if m.GetPageInfoFunc != nil {
		return m.GetPageInfoFunc()
	}
	return &ports.PageInfo{}, nil
}

func (m *Browser) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure Browser implements ports.Browser
var _ ports.Browser = (*Browser)(nil)

// FrameSource is a mock implementation of ports.FrameSource.
// Without CaptureOnceFunc every call returns a one-byte frame.
type FrameSource struct {
	CaptureOnceFunc func(ctx context.Context) ([]byte, error)
	CloseFunc       func() error

	mu         sync.Mutex
	calls      int
	closeCalls int
}

func (m *FrameSource) CaptureOnce(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.CaptureOnceFunc != nil {
		return m.CaptureOnceFunc(ctx)
	}
	return []byte{0xff}, nil
}

func (m *FrameSource) Close() error {
	m.mu.Lock()
	m.closeCalls++
	m.mu.Unlock()

	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Calls returns how many times CaptureOnce was called.
func (m *FrameSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// CloseCalls returns how many times Close was called.
func (m *FrameSource) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

var _ ports.FrameSource = (*FrameSource)(nil)
