package ffmpegsink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/user/pagecast/pkg/adapters/logger"
	"github.com/user/pagecast/pkg/mocks"
	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
)

const passthroughScript = `#!/bin/sh
for last; do :; done
if [ "$last" = "pipe:1" ]; then
  cat
else
  cat > "$last"
  echo "frame=3"
  echo "out_time=00:00:00.120000"
  echo "progress=end"
fi
`

// lengthLimitScript reads a little input and exits 0, the way ffmpeg does
// once -t is reached.
const lengthLimitScript = `#!/bin/sh
head -c 16 > /dev/null
exit 0
`

const failingScript = `#!/bin/sh
echo "Conversion failed!" >&2
exit 1
`

// fakeFFmpeg writes an executable shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write fake ffmpeg: %v", err)
	}
	return path
}

func newFakeSink(t *testing.T, script string, dest Destination, log ports.Logger) *Sink {
	t.Helper()
	opts := DefaultOptions()
	opts.FFmpegPath = fakeFFmpeg(t, script)
	if log == nil {
		log = logger.NewNoop()
	}
	s, err := New(dest, opts, log)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestSink_EncodesToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.mp4")
	s := newFakeSink(t, passthroughScript, ToFile(out), nil)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	for _, frame := range []string{"one", "two", "three"} {
		if err := s.Write([]byte(frame)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if s.Status() != pipeline.StatusInProgress {
		t.Errorf("expected in-progress status, got %s", s.Status())
	}
	if err := s.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "onetwothree" {
		t.Errorf("unexpected output %q", data)
	}
	if s.Timemark() != "00:00:00.120000" {
		t.Errorf("expected timemark from progress output, got %q", s.Timemark())
	}
	if s.Frames() != 3 || s.BytesWritten() != 11 {
		t.Errorf("unexpected counters: %d frames, %d bytes", s.Frames(), s.BytesWritten())
	}

	if _, open := <-s.Errors(); open {
		t.Error("expected Errors closed without a failure")
	}
	if s.Status() != pipeline.StatusCompleted {
		t.Errorf("expected completed status, got %s", s.Status())
	}
}

func TestSink_EncodesToWriter(t *testing.T) {
	var out bytes.Buffer
	s := newFakeSink(t, passthroughScript, ToWriter(&out), nil)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Write([]byte("frame")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}

	if out.String() != "frame" {
		t.Errorf("unexpected writer output %q", out.String())
	}
	if s.Timemark() != "" {
		t.Errorf("expected no timemark for writer output, got %q", s.Timemark())
	}
}

func TestSink_UnexpectedExitOnErrors(t *testing.T) {
	s := newFakeSink(t, failingScript, ToFile(filepath.Join(t.TempDir(), "out.mp4")), nil)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case err := <-s.Errors():
		if !errors.Is(err, ErrEncoderFailed) {
			t.Errorf("expected ErrEncoderFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "Conversion failed!") {
			t.Errorf("expected stderr in error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no failure delivered")
	}

	if err := s.End(); !errors.Is(err, ErrEncoderFailed) {
		t.Errorf("expected End to report the failure, got %v", err)
	}
	if err := s.End(); !errors.Is(err, ErrEncoderFailed) {
		t.Errorf("expected repeated End to return the same error, got %v", err)
	}
}

func TestSink_Lifecycle(t *testing.T) {
	s := newFakeSink(t, passthroughScript, ToFile(filepath.Join(t.TempDir(), "out.mp4")), nil)

	if err := s.Write([]byte("x")); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}
	if err := s.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if err := s.Write([]byte("x")); !errors.Is(err, ErrEnded) {
		t.Errorf("expected ErrEnded, got %v", err)
	}
}

func TestSink_CleanEarlyExit(t *testing.T) {
	s := newFakeSink(t, lengthLimitScript, ToFile(filepath.Join(t.TempDir(), "out.mp4")), nil)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	frame := bytes.Repeat([]byte("x"), 4096)
	deadline := time.Now().Add(5 * time.Second)
	var err error
	for err == nil && time.Now().Before(deadline) {
		err = s.Write(frame)
	}
	if !errors.Is(err, ErrEnded) || !errors.Is(err, ports.ErrEncoderEnded) {
		t.Fatalf("expected ErrEnded once ffmpeg stops reading, got %v", err)
	}
	if err := s.Write(frame); !errors.Is(err, ErrEnded) {
		t.Errorf("expected later writes to return ErrEnded, got %v", err)
	}

	select {
	case err, open := <-s.Errors():
		if open {
			t.Errorf("expected no failure for a clean exit, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Errors not closed after exit")
	}
	if err := s.End(); err != nil {
		t.Errorf("expected End to succeed, got %v", err)
	}
}

func TestSink_StartAfterEnd(t *testing.T) {
	s := newFakeSink(t, passthroughScript, ToFile(filepath.Join(t.TempDir(), "out.mp4")), nil)

	if err := s.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrEnded) {
		t.Errorf("expected ErrEnded, got %v", err)
	}
	if err := s.End(); err != nil {
		t.Errorf("expected repeated End to succeed, got %v", err)
	}
}

func TestSink_EndWithoutStart(t *testing.T) {
	s := newFakeSink(t, passthroughScript, ToFile(filepath.Join(t.TempDir(), "out.mp4")), nil)

	if err := s.End(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if _, open := <-s.Errors(); open {
		t.Error("expected Errors closed")
	}
}

func TestSink_StderrHandling(t *testing.T) {
	tests := []struct {
		name     string
		status   pipeline.WriteStatus
		line     string
		wantWarn int
	}{
		{"eof before writing", pipeline.StatusNotStarted, "pipe:0: End of file", 0},
		{"eof after end", pipeline.StatusCompleted, "[image2pipe @ 0x1] pipe:0: End of file", 0},
		{"eof while writing", pipeline.StatusInProgress, "pipe:0: End of file", 1},
		{"real error", pipeline.StatusCompleted, "Invalid data found when processing input", 1},
		{"blank line", pipeline.StatusInProgress, "   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := mocks.NewLogger()
			s := newFakeSink(t, passthroughScript, ToFile("out.mp4"), log)
			s.status = tt.status

			s.handleStderrLine(tt.line)

			if got := log.Count(ports.LevelWarn, ""); got != tt.wantWarn {
				t.Errorf("expected %d warnings, got %d", tt.wantWarn, got)
			}
			if got := len(s.stderrTail); got != tt.wantWarn {
				t.Errorf("expected %d retained stderr lines, got %d", tt.wantWarn, got)
			}
		})
	}
}

func TestNew_FFmpegNotFound(t *testing.T) {
	SetFFmpegPath(filepath.Join(t.TempDir(), "missing-ffmpeg"))
	defer SetFFmpegPath("")

	if _, err := New(ToFile("out.mp4"), DefaultOptions(), logger.NewNoop()); !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestNew_RejectsUnsupportedFormat(t *testing.T) {
	if _, err := New(ToFile("out.mkv"), DefaultOptions(), logger.NewNoop()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
