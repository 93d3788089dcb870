package reconcile

import (
	"fmt"

	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
)

// Writer reconciles flushed chunks and writes each frame's bytes to the
// encoder sink as many times as the Reconciler decides. Frames are written
// one after another in the order received; every write blocks until the sink
// accepts it.
type Writer struct {
	reconciler *Reconciler
	sink       ports.EncoderSink
	logger     ports.Logger

	framesWritten int
	framesSkipped int
	encoderFrames int
}

// NewWriter creates a Writer feeding sink.
func NewWriter(reconciler *Reconciler, sink ports.EncoderSink, logger ports.Logger) *Writer {
	return &Writer{
		reconciler: reconciler,
		sink:       sink,
		logger:     logger.WithComponent("encoder"),
	}
}

// Consume writes a chunk of frames with assigned durations.
func (w *Writer) Consume(frames []pipeline.Frame) error {
	for _, f := range frames {
		if err := w.WriteFrame(f); err != nil {
			return err
		}
	}
	return nil
}

// WriteFrame reconciles a single frame and emits its repeats.
func (w *Writer) WriteFrame(f pipeline.Frame) error {
	count := w.reconciler.Reconcile(f.Duration)
	if count == 0 {
		w.framesSkipped++
		w.logger.Debug("Skipping frame at %.3f (%.3fs) to pay back banked frames", f.Timestamp, f.Duration)
		return nil
	}

	for i := 0; i < count; i++ {
		if err := w.sink.Write(f.Blob); err != nil {
			return fmt.Errorf("write frame at %.3f (repeat %d/%d): %w", f.Timestamp, i+1, count, err)
		}
		w.encoderFrames++
	}
	w.framesWritten++
	return nil
}

// FramesWritten returns the number of frames that produced output.
func (w *Writer) FramesWritten() int {
	return w.framesWritten
}

// FramesSkipped returns the number of frames whose corrected count was zero.
func (w *Writer) FramesSkipped() int {
	return w.framesSkipped
}

// EncoderFrames returns the total number of encoder frames written.
func (w *Writer) EncoderFrames() int {
	return w.encoderFrames
}

// Reconciler returns the underlying Reconciler.
func (w *Writer) Reconciler() *Reconciler {
	return w.reconciler
}
