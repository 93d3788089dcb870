package ffmpegsink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
)

// benignEOF is what ffmpeg prints when its input closes on a frame boundary.
const benignEOF = "pipe:0: End of file"

const stderrTailLines = 20

// exitGrace bounds how long a failed write waits to learn whether ffmpeg
// is exiting on its own.
const exitGrace = 2 * time.Second

// IsBenignEOF reports whether an ffmpeg stderr line is the end-of-input
// notice that accompanies a normal shutdown.
func IsBenignEOF(line string) bool {
	return strings.Contains(line, benignEOF)
}

// Sink implements ports.EncoderSink on top of an ffmpeg child process.
type Sink struct {
	ffmpegPath string
	args       []string
	dest       Destination
	logger     ports.Logger

	mu         sync.Mutex
	status     pipeline.WriteStatus
	started    bool
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderrTail []string
	timemark   string
	frames     int
	bytes      int64

	errs    chan error
	done    chan struct{}
	waitErr error

	endOnce sync.Once
	endErr  error
}

// New prepares a sink writing to dest. ffmpeg is located and the arguments
// are built here, so configuration problems surface before recording starts.
func New(dest Destination, opts Options, logger ports.Logger) (*Sink, error) {
	args, err := BuildArgs(opts, dest)
	if err != nil {
		return nil, err
	}

	ffmpegPath := opts.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath, err = FindFFmpeg()
		if err != nil {
			return nil, err
		}
	}

	return &Sink{
		ffmpegPath: ffmpegPath,
		args:       args,
		dest:       dest,
		logger:     logger.WithComponent("encoder"),
		errs:       make(chan error, 1),
		done:       make(chan struct{}),
	}, nil
}

// Args returns the ffmpeg command line arguments.
func (s *Sink) Args() []string {
	return append([]string(nil), s.args...)
}

// Start launches ffmpeg.
func (s *Sink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	if s.status == pipeline.StatusCompleted {
		return ErrEnded
	}

	cmd := exec.Command(s.ffmpegPath, s.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	var progress io.Reader
	if s.dest.IsFile() {
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return fmt.Errorf("failed to get stdout pipe: %w", err)
		}
		progress = stdout
	} else {
		cmd.Stdout = s.dest.Writer
	}

	s.logger.Debug("Starting ffmpeg: %s %s", s.ffmpegPath, strings.Join(s.args, " "))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.started = true

	var readers sync.WaitGroup
	readers.Add(1)
	go func() {
		defer readers.Done()
		s.readStderr(stderr)
	}()
	if progress != nil {
		readers.Add(1)
		go func() {
			defer readers.Done()
			s.readProgress(progress)
		}()
	}

	go s.wait(&readers)
	return nil
}

func (s *Sink) wait(readers *sync.WaitGroup) {
	readers.Wait()
	err := s.cmd.Wait()

	s.mu.Lock()
	status := s.status
	if err != nil {
		err = fmt.Errorf("%w: %v%s", ErrEncoderFailed, err, s.stderrSummaryLocked())
	}
	s.waitErr = err
	s.mu.Unlock()

	// An exit after End is reported by End itself.
	if err != nil && status != pipeline.StatusCompleted {
		s.errs <- err
	}
	close(s.errs)
	close(s.done)
}

func (s *Sink) readStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.handleStderrLine(scanner.Text())
	}
}

func (s *Sink) handleStderrLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	s.mu.Lock()
	status := s.status
	if IsBenignEOF(line) && status != pipeline.StatusInProgress {
		s.mu.Unlock()
		s.logger.Debug("ffmpeg: %s", line)
		return
	}
	s.stderrTail = append(s.stderrTail, line)
	if len(s.stderrTail) > stderrTailLines {
		s.stderrTail = s.stderrTail[len(s.stderrTail)-stderrTailLines:]
	}
	s.mu.Unlock()

	s.logger.Warn("Error unable to capture video stream: %s", line)
}

func (s *Sink) readProgress(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok || key != "out_time" {
			continue
		}
		s.mu.Lock()
		s.timemark = value
		s.mu.Unlock()
	}
}

func (s *Sink) stderrSummaryLocked() string {
	if len(s.stderrTail) == 0 {
		return ""
	}
	return "\nstderr: " + strings.Join(s.stderrTail, "\n")
}

// Write hands one encoded still image to ffmpeg, blocking while the pipe is
// full.
func (s *Sink) Write(data []byte) error {
	s.mu.Lock()
	switch {
	case !s.started:
		s.mu.Unlock()
		return ErrNotStarted
	case s.status == pipeline.StatusCompleted:
		s.mu.Unlock()
		return ErrEnded
	}
	s.status = pipeline.StatusInProgress
	stdin := s.stdin
	s.mu.Unlock()

	select {
	case <-s.done:
		if s.exitErr() == nil {
			return ErrEnded
		}
	default:
	}

	if _, err := stdin.Write(data); err != nil {
		// ffmpeg closes its input when it reaches an output limit such as -t.
		if s.exitedCleanly() {
			s.logger.Debug("ffmpeg stopped reading after %d frames", s.Frames())
			return ErrEnded
		}
		return fmt.Errorf("failed to write frame: %w", err)
	}

	s.mu.Lock()
	s.frames++
	s.bytes += int64(len(data))
	s.mu.Unlock()
	return nil
}

func (s *Sink) exitErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waitErr
}

// exitedCleanly waits up to exitGrace for ffmpeg to exit and reports
// whether it exited with status 0.
func (s *Sink) exitedCleanly() bool {
	select {
	case <-s.done:
		return s.exitErr() == nil
	case <-time.After(exitGrace):
		return false
	}
}

// End closes ffmpeg's input and waits for it to exit. Repeated calls return
// the first result.
func (s *Sink) End() error {
	s.endOnce.Do(func() {
		s.mu.Lock()
		if !s.started {
			s.status = pipeline.StatusCompleted
			s.mu.Unlock()
			close(s.errs)
			close(s.done)
			return
		}
		s.status = pipeline.StatusCompleted
		stdin := s.stdin
		s.mu.Unlock()

		if err := stdin.Close(); err != nil && !errors.Is(err, io.ErrClosedPipe) {
			s.logger.Debug("Closing ffmpeg input: %v", err)
		}
		<-s.done

		s.mu.Lock()
		s.endErr = s.waitErr
		s.mu.Unlock()

		if s.endErr == nil {
			s.logger.Debug("ffmpeg finished after %d frames", s.Frames())
		}
	})
	return s.endErr
}

// Errors delivers an unexpected ffmpeg exit. It is closed once ffmpeg has
// exited, or at End when it was never started.
func (s *Sink) Errors() <-chan error {
	return s.errs
}

// Status returns the writing state.
func (s *Sink) Status() pipeline.WriteStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Timemark returns the latest encoded position reported by ffmpeg, such as
// "00:00:04.200000". It stays empty for writer destinations.
func (s *Sink) Timemark() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timemark
}

// Frames returns the number of encoder frames accepted.
func (s *Sink) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// BytesWritten returns the number of input bytes piped to ffmpeg.
func (s *Sink) BytesWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

var _ ports.EncoderSink = (*Sink)(nil)
