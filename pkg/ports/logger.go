package ports

import "strings"

// LogLevel is the minimum severity a Logger emits.
type LogLevel int

const (
	// LevelDebug covers per-tick captures, buffer flushes and ffmpeg output.
	LevelDebug LogLevel = iota
	// LevelInfo covers session start, stop and output paths.
	LevelInfo
	// LevelWarn covers problems the session survives, such as a failed
	// capture tick or teardown.
	LevelWarn
	// LevelError covers failures that end the session.
	LevelError
	// LevelQuiet emits nothing.
	LevelQuiet
)

var levelNames = [...]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelQuiet: "quiet",
}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "unknown"
	}
	return levelNames[l]
}

// LookupLogLevel resolves a level name case-insensitively. "warning" is
// accepted for warn and the empty string means info.
func LookupLogLevel(s string) (LogLevel, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return LevelInfo, true
	case "warning":
		return LevelWarn, true
	}
	for l, name := range levelNames {
		if name == s {
			return LogLevel(l), true
		}
	}
	return LevelInfo, false
}

// ParseLogLevel is LookupLogLevel with unknown names falling back to info.
func ParseLogLevel(s string) LogLevel {
	l, _ := LookupLogLevel(s)
	return l
}

// Logger writes translatable messages. msg is both the format string and
// the go-l10n lookup key, so callers pass literals.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger tagging each line with component.
	WithComponent(component string) Logger
}
