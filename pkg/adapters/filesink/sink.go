// Package filesink provides a file-based debug sink implementation.
//
// Layout under the base directory:
//
//	config.json
//	session.json
//	frames/raw/frame-0000.jpg ...
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/user/pagecast/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// RawFramePath returns where the raw frame at index is written.
func (s *Sink) RawFramePath(index int, format ports.ImageFormat) string {
	ext := "jpg"
	if format == ports.FormatPNG {
		ext = "png"
	}
	return filepath.Join(s.baseDir, "frames", "raw", fmt.Sprintf("frame-%04d.%s", index, ext))
}

// SaveRawFrame saves a captured still image as received from the source.
func (s *Sink) SaveRawFrame(index int, format ports.ImageFormat, data []byte) error {
	path := s.RawFramePath(index, format)
	if err := s.fs.MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	return s.fs.WriteFile(path, data)
}

// SaveSessionJSON saves the session statistics.
func (s *Sink) SaveSessionJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "session.json"), data)
}

// SaveConfigJSON saves the effective recording configuration.
func (s *Sink) SaveConfigJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "config.json"), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
