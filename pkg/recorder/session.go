// Package recorder ties a capture loop, a reordering buffer and a rate
// reconciler into one recording session feeding an encoder sink.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/pagecast/pkg/capture"
	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
	"github.com/user/pagecast/pkg/reconcile"
	"github.com/user/pagecast/pkg/reorder"
)

// ErrNilSink is returned when a session is created without an encoder sink.
var ErrNilSink = errors.New("recorder: encoder sink is required")

// Options configures a recording session.
type Options struct {
	FPS            float64 // Capture and encoder frame rate (default 25)
	BufferCapacity int     // Reordering window in frames (default 10)

	// Format of the captured still images, recorded with debug frames.
	Format ports.ImageFormat

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// Result is the outcome of a stopped session.
type Result struct {
	Success bool
	Err     error
	Stats   pipeline.SessionStats
}

// Session records frames from one FrameSource into one EncoderSink.
//
// The capture loop's handler and Stop are the only writers of the buffer and
// both hold mu while they touch it, so reconciliation and sink writes happen
// strictly one frame at a time.
type Session struct {
	id     string
	fps    float64
	format ports.ImageFormat
	now    func() time.Time
	logger ports.Logger
	sink   ports.EncoderSink
	debug  ports.DebugSink

	loop   *capture.Loop
	buffer *reorder.Buffer
	writer *reconcile.Writer

	mu        sync.Mutex
	status    pipeline.WriteStatus
	failure   error
	ended     bool
	rawFrames int
	startedAt time.Time
	stoppedAt time.Time
	monitor   chan struct{}

	failures chan error
	failOnce sync.Once
	inputEnd chan struct{}

	stopOnce sync.Once
	result   Result
}

// New creates a session. The debug sink may be nil.
func New(source ports.FrameSource, sink ports.EncoderSink, debug ports.DebugSink, logger ports.Logger, opts Options) (*Session, error) {
	if sink == nil {
		return nil, ErrNilSink
	}

	fps := opts.FPS
	if fps == 0 {
		fps = reconcile.DefaultFPS
	}
	capacity := opts.BufferCapacity
	if capacity == 0 {
		capacity = reorder.DefaultCapacity
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	format := opts.Format
	if format == "" {
		format = ports.FormatJPEG
	}

	s := &Session{
		id:       uuid.NewString(),
		fps:      fps,
		format:   format,
		now:      now,
		logger:   logger.WithComponent("session"),
		sink:     sink,
		debug:    debug,
		failures: make(chan error, 1),
		inputEnd: make(chan struct{}),
	}

	reconciler, err := reconcile.New(fps)
	if err != nil {
		return nil, err
	}
	s.writer = reconcile.NewWriter(reconciler, sink, logger)

	s.buffer, err = reorder.New(capacity, s.writer, logger)
	if err != nil {
		return nil, err
	}

	s.loop, err = capture.New(source, s.handleFrame, logger, capture.Options{FPS: fps, Now: now})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Status returns the current writing state.
func (s *Session) Status() pipeline.WriteStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Failures delivers the first encoder failure of the session, at most once.
func (s *Session) Failures() <-chan error {
	return s.failures
}

// InputEnded is closed when the sink stops accepting frames without failing,
// such as ffmpeg reaching its own length limit. Captured frames are then
// discarded until Stop.
func (s *Session) InputEnded() <-chan struct{} {
	return s.inputEnd
}

// Start begins capturing.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch s.status {
	case pipeline.StatusInProgress:
		s.mu.Unlock()
		return capture.ErrAlreadyStarted
	case pipeline.StatusCompleted:
		s.mu.Unlock()
		return capture.ErrStopped
	}
	s.status = pipeline.StatusInProgress
	s.startedAt = s.now()
	s.monitor = make(chan struct{})
	s.mu.Unlock()

	go s.watchSink()

	s.logger.Info("Session %s started at %.0f fps", s.id, s.fps)
	if err := s.loop.Start(ctx); err != nil {
		return fmt.Errorf("start capture: %w", err)
	}
	return nil
}

func (s *Session) watchSink() {
	defer close(s.monitor)
	for err := range s.sink.Errors() {
		if err != nil {
			s.fail(err)
		}
	}
}

func (s *Session) handleFrame(frame pipeline.Frame) {
	s.mu.Lock()
	if s.failure != nil || s.ended {
		s.mu.Unlock()
		return
	}

	if s.debug != nil && s.debug.Enabled() {
		if err := s.debug.SaveRawFrame(s.rawFrames, s.format, frame.Blob); err != nil {
			s.logger.Warn("Failed to save raw frame %d: %v", s.rawFrames, err)
		}
	}
	s.rawFrames++

	err := s.buffer.Insert(frame)
	s.mu.Unlock()

	if err != nil {
		s.sinkError(err)
	}
}

// sinkError routes a write error: an encoder that ended its input on
// purpose closes InputEnded, anything else fails the session.
func (s *Session) sinkError(err error) {
	if !errors.Is(err, ports.ErrEncoderEnded) {
		s.fail(err)
		return
	}

	s.mu.Lock()
	first := !s.ended && s.failure == nil
	s.ended = true
	written := s.writer.EncoderFrames()
	s.mu.Unlock()

	if first {
		s.logger.Info("Encoder stopped accepting input after %d frames", written)
		close(s.inputEnd)
	}
}

// fail records the first failure and publishes it once. Later frames are
// dropped without touching the sink.
func (s *Session) fail(err error) {
	s.mu.Lock()
	first := s.failure == nil
	if first {
		s.failure = err
	}
	s.mu.Unlock()

	if !first {
		s.logger.Debug("Ignoring further encoder error: %v", err)
		return
	}

	s.failOnce.Do(func() {
		s.logger.Error("Encoder failed: %v", err)
		s.failures <- err
	})
}

// Stop ends the session and resolves once the encoder has consumed all
// input. stopTimestamp, in seconds since the epoch, bounds the newest frame;
// zero means now. Every call returns the same Result; concurrent callers wait
// for the first one to finish.
func (s *Session) Stop(stopTimestamp float64) Result {
	s.stopOnce.Do(func() {
		s.result = s.stop(stopTimestamp)
	})
	return s.result
}

func (s *Session) stop(stopTimestamp float64) Result {
	s.loop.Stop()

	if stopTimestamp == 0 {
		stopTimestamp = pipeline.Timestamp(s.now())
	}

	s.mu.Lock()
	skip := s.failure != nil || s.ended
	var drainErr error
	if !skip {
		drainErr = s.buffer.Drain(stopTimestamp)
	}
	monitor := s.monitor
	s.mu.Unlock()

	if drainErr != nil {
		s.sinkError(drainErr)
	}

	if err := s.sink.End(); err != nil {
		s.fail(fmt.Errorf("end encoder input: %w", err))
	}
	if monitor != nil {
		<-monitor
	}

	s.mu.Lock()
	s.status = pipeline.StatusCompleted
	s.stoppedAt = s.now()
	err := s.failure
	s.mu.Unlock()

	stats := s.Stats()
	if err != nil {
		s.logger.Warn("Session %s stopped with error: %v", s.id, err)
	} else {
		s.logger.Info("Session %s stopped: %d frames captured, %d encoder frames", s.id, stats.FramesCaptured, stats.EncoderFrames)
	}

	return Result{
		Success: err == nil,
		Err:     err,
		Stats:   stats,
	}
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() pipeline.SessionStats {
	loopStats := s.loop.Stats()

	s.mu.Lock()
	defer s.mu.Unlock()

	reconciler := s.writer.Reconciler()
	return pipeline.SessionStats{
		SessionID:       s.id,
		FPS:             s.fps,
		BufferCapacity:  s.buffer.Capacity(),
		StartedAt:       s.startedAt,
		StoppedAt:       s.stoppedAt,
		Ticks:           loopStats.Ticks,
		FramesCaptured:  loopStats.Captured,
		CaptureFailures: loopStats.Failures,
		EmptyCaptures:   loopStats.Empty,
		Flushes:         s.buffer.Flushes(),
		FramesWritten:   s.writer.FramesWritten(),
		FramesSkipped:   s.writer.FramesSkipped(),
		EncoderFrames:   s.writer.EncoderFrames(),
		FrameGain:       reconciler.Gain(),
		FrameLoss:       reconciler.Loss(),
	}
}
