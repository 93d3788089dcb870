package pipeline

import (
	"time"

	"github.com/user/pagecast/pkg/ports"
)

// =============================================================================
// Frame Types
// =============================================================================

// Frame is one captured still image.
type Frame struct {
	Blob      []byte  // Encoded still image
	Timestamp float64 // Capture time in seconds since the Unix epoch
	Duration  float64 // On-screen duration in seconds, assigned at flush time
}

// Timestamp converts t to fractional seconds since the Unix epoch.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// WriteStatus tracks the writing state of a recording session.
type WriteStatus int

const (
	StatusNotStarted WriteStatus = iota
	StatusInProgress
	StatusCompleted
)

// String returns the string representation of the status.
func (s WriteStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// =============================================================================
// Session Types
// =============================================================================

// SessionStats summarizes a recording session.
type SessionStats struct {
	SessionID       string    `json:"session_id"`
	FPS             float64   `json:"fps"`
	BufferCapacity  int       `json:"buffer_capacity"`
	StartedAt       time.Time `json:"started_at"`
	StoppedAt       time.Time `json:"stopped_at"`
	Ticks           int64     `json:"ticks"`
	FramesCaptured  int64     `json:"frames_captured"`
	CaptureFailures int64     `json:"capture_failures"`
	EmptyCaptures   int64     `json:"empty_captures"`
	Flushes         int       `json:"flushes"`
	FramesWritten   int       `json:"frames_written"`
	FramesSkipped   int       `json:"frames_skipped"` // Frames whose corrected repeat count was zero
	EncoderFrames   int       `json:"encoder_frames"`
	FrameGain       float64   `json:"frame_gain"`
	FrameLoss       float64   `json:"frame_loss"`
}

// ElapsedSeconds returns the wall-clock length of the session.
func (s SessionStats) ElapsedSeconds() float64 {
	if s.StartedAt.IsZero() || s.StoppedAt.Before(s.StartedAt) {
		return 0
	}
	return s.StoppedAt.Sub(s.StartedAt).Seconds()
}

// VideoSeconds returns the playback length implied by the emitted frames.
func (s SessionStats) VideoSeconds() float64 {
	if s.FPS <= 0 {
		return 0
	}
	return float64(s.EncoderFrames) / s.FPS
}

// =============================================================================
// Record Stage Types
// =============================================================================

// RecordInput contains parameters for page recording.
type RecordInput struct {
	URL               string
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64
	Duration          time.Duration // Recording length; zero records until cancelled
	NetworkConditions ports.NetworkConditions
	CPUThrottling     float64
	Headers           map[string]string

	FPS            float64
	BufferCapacity int
	Capture        ports.CaptureOptions
}

// DefaultRecordInput returns RecordInput with default values.
func DefaultRecordInput() RecordInput {
	return RecordInput{
		ViewportWidth:     1280,
		ViewportHeight:    960,
		DeviceScaleFactor: 1.0,
		Duration:          10 * time.Second,
		FPS:               25,
		BufferCapacity:    10,
		Capture: ports.CaptureOptions{
			Format:  ports.FormatJPEG,
			Quality: ports.DefaultCaptureQuality,
		},
	}
}

// StopReason tells why a recording ended.
type StopReason string

const (
	StopDuration    StopReason = "duration"    // Duration limit reached
	StopInterrupted StopReason = "interrupted" // Context cancelled, e.g. SIGINT
	StopEncoder     StopReason = "encoder"     // Encoder failed mid-recording
	StopLength      StopReason = "length"      // Encoder reached its own length limit
)

// RecordResult contains the recording outcome.
type RecordResult struct {
	PageInfo ports.PageInfo
	Stats    SessionStats
	Reason   StopReason
}

// =============================================================================
// Probe Stage Types
// =============================================================================

// ProbeInput names the encoded file to inspect.
type ProbeInput struct {
	Path string
}

// ProbeResult contains the inspected video metadata.
// Skipped is set for containers the prober cannot read.
type ProbeResult struct {
	Video   ports.VideoInfo
	Skipped bool
}
