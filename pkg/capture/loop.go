// Package capture drives a FrameSource on a fixed timer and emits
// timestamped still frames.
package capture

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
)

// DefaultFPS is the default capture rate.
const DefaultFPS = 25

// Handler receives every captured frame, on the loop's worker goroutine.
type Handler func(frame pipeline.Frame)

// Options configures a capture loop.
type Options struct {
	FPS float64 // Capture rate in frames per second (default 25)

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

type state int

const (
	stateNotStarted state = iota
	stateRunning
	stateStopped
)

// Stats counts what happened on the loop's ticks.
type Stats struct {
	Ticks    int64
	Captured int64
	Failures int64
	Empty    int64
}

// Loop captures one frame per tick until stopped. Ticks never overlap: a
// single worker goroutine owns both the ticker and the source, and a tick
// that comes due while a capture is still pending is dropped.
type Loop struct {
	source  ports.FrameSource
	handler Handler
	logger  ports.Logger
	period  time.Duration
	now     func() time.Time

	mu    sync.Mutex
	state state
	stop  chan struct{}
	done  chan struct{}

	ended    atomic.Bool
	ticks    atomic.Int64
	captured atomic.Int64
	failures atomic.Int64
	empty    atomic.Int64
}

// New creates a capture loop reading from source.
func New(source ports.FrameSource, handler Handler, logger ports.Logger, opts Options) (*Loop, error) {
	fps := opts.FPS
	if fps == 0 {
		fps = DefaultFPS
	}
	if fps < 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFPS, opts.FPS)
	}

	period := time.Duration(float64(time.Second) / fps)
	if period <= 0 {
		period = time.Nanosecond
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Loop{
		source:  source,
		handler: handler,
		logger:  logger.WithComponent("capture"),
		period:  period,
		now:     now,
	}, nil
}

// Period returns the interval between ticks.
func (l *Loop) Period() time.Duration {
	return l.period
}

// Start begins ticking. The context bounds every capture; cancelling it ends
// the loop but does not release the source, which is Stop's job.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case stateRunning:
		return ErrAlreadyStarted
	case stateStopped:
		return ErrStopped
	}

	l.state = stateRunning
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	l.logger.Debug("Capturing every %s", l.period)
	go l.run(ctx)
	return nil
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case <-ticker.C:
			if l.ended.Load() {
				return
			}
			l.tick(ctx)
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	l.ticks.Add(1)

	data, err := l.source.CaptureOnce(ctx)
	if err != nil {
		l.failures.Add(1)
		l.logger.Warn("Error capturing frame: %v", err)
		return
	}
	if len(data) == 0 {
		l.empty.Add(1)
		l.logger.Debug("Empty capture, tick skipped")
		return
	}

	l.captured.Add(1)
	l.handler(pipeline.Frame{
		Blob:      data,
		Timestamp: pipeline.Timestamp(l.now()),
	})
}

// Stop ends the loop. It waits for an in-flight capture to finish, then
// releases the source. Stop always reports true; calling it again, or before
// Start, has no further effect. A failure to release the source is logged
// and otherwise ignored.
func (l *Loop) Stop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case stateStopped:
		return true
	case stateNotStarted:
		l.ended.Store(true)
		l.state = stateStopped
		return true
	}

	l.ended.Store(true)
	l.state = stateStopped
	close(l.stop)
	<-l.done

	if err := l.source.Close(); err != nil {
		l.logger.Warn("Error releasing capture session: %v", err)
	}
	return true
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	return l.ended.Load()
}

// Stats returns a snapshot of the tick counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Ticks:    l.ticks.Load(),
		Captured: l.captured.Load(),
		Failures: l.failures.Load(),
		Empty:    l.empty.Load(),
	}
}
