package ports

import "errors"

// ErrEncoderEnded is returned by EncoderSink.Write once the encoder has
// stopped taking input without failing, for example after reaching its
// own length limit. It ends the recording's input, not the recording.
var ErrEncoderEnded = errors.New("encoder stopped accepting input")

// EncoderSink consumes the fixed-rate stream of still images produced by a
// recording session and turns it into a video.
type EncoderSink interface {
	// Write hands one encoder frame to the sink. It blocks until the bytes
	// are accepted; a full pipe is backpressure, never a reason to drop.
	// Errors matching ErrEncoderEnded mean no further input is wanted.
	Write(data []byte) error

	// End signals that no more input will arrive and blocks until the
	// downstream encoder has finished consuming it.
	End() error

	// Errors delivers asynchronous encoder failures. The channel is closed
	// once the encoder has exited.
	Errors() <-chan error
}

// VideoProber inspects an encoded video file.
type VideoProber interface {
	// Probe reads container metadata from the video at path.
	Probe(path string) (*VideoInfo, error)
}

// VideoInfo describes an encoded video.
type VideoInfo struct {
	FrameCount int
	DurationMs int
	Width      int
	Height     int
	Fragmented bool
	SizeBytes  int64
	Codec      string // "h264", "av1", ... or empty when unknown
}
