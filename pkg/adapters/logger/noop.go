package logger

import "github.com/user/pagecast/pkg/ports"

// NoopLogger drops every message. The CLI uses it for --quiet.
type NoopLogger struct{}

var _ ports.Logger = NoopLogger{}

// NewNoop returns a logger that writes nothing.
func NewNoop() NoopLogger { return NoopLogger{} }

func (NoopLogger) Debug(string, ...interface{}) {}
func (NoopLogger) Info(string, ...interface{})  {}
func (NoopLogger) Warn(string, ...interface{})  {}
func (NoopLogger) Error(string, ...interface{}) {}

// WithComponent ignores the name; a silent logger has no prefix to carry.
func (l NoopLogger) WithComponent(string) ports.Logger { return l }
