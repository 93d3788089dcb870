package mocks

import (
	"sync"

	"github.com/user/pagecast/pkg/ports"
)

// EncoderSink is a mock implementation of ports.EncoderSink.
type EncoderSink struct {
	WriteFunc func(data []byte) error
	EndFunc   func() error

	mu       sync.Mutex
	writes   [][]byte
	endCalls int
	errs     chan error
	closed   bool
}

// NewEncoderSink creates a mock EncoderSink that accepts every write.
func NewEncoderSink() *EncoderSink {
	return &EncoderSink{
		errs: make(chan error, 8),
	}
}

func (m *EncoderSink) Write(data []byte) error {
	if m.WriteFunc != nil {
		if err := m.WriteFunc(data); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, append([]byte(nil), data...))
	return nil
}

func (m *EncoderSink) End() error {
	m.mu.Lock()
	m.endCalls++
	if !m.closed {
		m.closed = true
		close(m.errs)
	}
	m.mu.Unlock()

	if m.EndFunc != nil {
		return m.EndFunc()
	}
	return nil
}

func (m *EncoderSink) Errors() <-chan error {
	return m.errs
}

// Fail delivers an asynchronous encoder failure.
func (m *EncoderSink) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	select {
	case m.errs <- err:
	default:
	}
}

// Writes returns a copy of every accepted write, in order.
func (m *EncoderSink) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// WriteCount returns the number of accepted writes.
func (m *EncoderSink) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

// EndCalls returns how many times End was called.
func (m *EncoderSink) EndCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endCalls
}

var _ ports.EncoderSink = (*EncoderSink)(nil)

// VideoProber is a mock implementation of ports.VideoProber.
type VideoProber struct {
	ProbeFunc  func(path string) (*ports.VideoInfo, error)
	ProbeCalls []string
}

func (m *VideoProber) Probe(path string) (*ports.VideoInfo, error) {
	m.ProbeCalls = append(m.ProbeCalls, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	return &ports.VideoInfo{}, nil
}

var _ ports.VideoProber = (*VideoProber)(nil)
