package mocks

import (
	"sync"

	"github.com/user/pagecast/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	SessionJSON []byte
	ConfigJSON  []byte
	RawFrames   map[int][]byte
	Formats     map[int]ports.ImageFormat
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:   enabled,
		RawFrames: make(map[int][]byte),
		Formats:   make(map[int]ports.ImageFormat),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveRawFrame(index int, format ports.ImageFormat, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RawFrames[index] = data
	m.Formats[index] = format
	return nil
}

func (m *DebugSink) SaveSessionJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionJSON = data
	return nil
}

func (m *DebugSink) SaveConfigJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfigJSON = data
	return nil
}

// RawFrameCount returns the number of saved raw frames.
func (m *DebugSink) RawFrameCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.RawFrames)
}

// GetSessionJSON returns the saved session JSON.
func (m *DebugSink) GetSessionJSON() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.SessionJSON
}

var _ ports.DebugSink = (*DebugSink)(nil)
