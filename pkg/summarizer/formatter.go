// Package summarizer turns the result of a recording run into a report
// for the terminal or a file.
package summarizer

import (
	"path/filepath"
	"strings"
)

// Formatter renders a Summary.
type Formatter interface {
	Format(summary *Summary) string
}

// FormatFunc adapts a function to Formatter.
type FormatFunc func(summary *Summary) string

// Format calls f.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// FormatterFor picks the report format from the extension of path:
// a plain table for .txt and .log, Markdown for anything else.
func FormatterFor(path string) Formatter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".log":
		return NewConsoleFormatter()
	default:
		return NewMarkdownFormatter()
	}
}
