// Package reorder restores the temporal order of captured frames before their
// on-screen durations are computed.
//
// Capture order and delivery order are not guaranteed to match, and a frame's
// duration is the gap to the next frame in timestamp order. The Buffer keeps a
// small sorted window of recent frames and hands its oldest half to a Consumer
// whenever the window fills up.
package reorder

import (
	"errors"
	"fmt"
	"slices"

	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
)

// DefaultCapacity is the default number of frames held before a flush.
const DefaultCapacity = 10

var (
	// ErrInvalidCapacity is returned for capacities that cannot be halved.
	ErrInvalidCapacity = errors.New("reorder: capacity must be at least 2")

	// ErrDrained is returned when the buffer is used after Drain.
	ErrDrained = errors.New("reorder: buffer already drained")
)

// Consumer receives flushed chunks in timestamp order, durations assigned.
// Ownership of the slice passes to the consumer.
type Consumer interface {
	Consume(frames []pipeline.Frame) error
}

// ConsumerFunc is a function adapter for Consumer.
type ConsumerFunc func(frames []pipeline.Frame) error

// Consume implements Consumer.
func (f ConsumerFunc) Consume(frames []pipeline.Frame) error {
	return f(frames)
}

// Buffer is a bounded window of frames sorted by timestamp.
// It is not safe for concurrent use; the recording session serializes access.
type Buffer struct {
	frames   []pipeline.Frame
	capacity int
	consumer Consumer
	logger   ports.Logger
	flushes  int
	drained  bool
}

// New creates a Buffer holding at most capacity frames.
func New(capacity int, consumer Consumer, logger ports.Logger) (*Buffer, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Buffer{
		frames:   make([]pipeline.Frame, 0, capacity),
		capacity: capacity,
		consumer: consumer,
		logger:   logger.WithComponent("buffer"),
	}, nil
}

// Insert adds a frame at its sorted position. When the buffer is full the
// oldest half is flushed first, bounded by the timestamp of the frame that
// becomes the new head. A flush error is returned after the frame has been
// inserted, so the buffer stays consistent either way.
func (b *Buffer) Insert(frame pipeline.Frame) error {
	if b.drained {
		return ErrDrained
	}

	var flushErr error
	if len(b.frames) == b.capacity {
		n := b.capacity / 2
		chunk := make([]pipeline.Frame, n)
		copy(chunk, b.frames[:n])

		kept := copy(b.frames, b.frames[n:])
		clear(b.frames[kept:])
		b.frames = b.frames[:kept]

		flushErr = b.flush(chunk, b.frames[0].Timestamp)
	}

	b.frames = slices.Insert(b.frames, b.findSlot(frame.Timestamp), frame)
	return flushErr
}

// Drain flushes every remaining frame using stopTimestamp as the end of the
// newest frame, then empties the buffer. It may be called only once.
func (b *Buffer) Drain(stopTimestamp float64) error {
	if b.drained {
		return ErrDrained
	}
	b.drained = true

	chunk := b.frames
	b.frames = nil
	if len(chunk) == 0 {
		return nil
	}
	return b.flush(chunk, stopTimestamp)
}

// Len returns the number of buffered frames.
func (b *Buffer) Len() int {
	return len(b.frames)
}

// Capacity returns the maximum number of buffered frames.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Flushes returns the number of chunks handed to the consumer so far.
func (b *Buffer) Flushes() int {
	return b.flushes
}

// findSlot scans from the newest frame backwards and returns the index just
// after the last frame whose timestamp is <= ts. Equal timestamps keep their
// insertion order.
func (b *Buffer) findSlot(ts float64) int {
	i := len(b.frames) - 1
	for ; i >= 0; i-- {
		if ts >= b.frames[i].Timestamp {
			break
		}
	}
	return i + 1
}

func (b *Buffer) flush(chunk []pipeline.Frame, chunkEndTime float64) error {
	b.flushes++
	b.logger.Debug("Flushing %d frames (chunk end %.3f)", len(chunk), chunkEndTime)
	if err := b.consumer.Consume(AssignDurations(chunk, chunkEndTime)); err != nil {
		return fmt.Errorf("flush chunk: %w", err)
	}
	return nil
}
