// Package summarizer provides summary generation for recording results.
package summarizer

import (
	"time"

	"github.com/user/pagecast/pkg/pipeline"
)

// Summary contains all data collected during a recording run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Page information
	Page PageInfo

	// Capture and reconciliation counters
	Session SessionInfo

	// Recording settings
	Settings Settings

	// Video output details
	Video VideoInfo
}

// PageInfo contains information about the recorded page.
type PageInfo struct {
	Title string
	URL   string
}

// SessionInfo contains the recording session outcome.
type SessionInfo struct {
	ID              string
	Reason          pipeline.StopReason
	ElapsedSeconds  float64
	FramesCaptured  int64
	CaptureFailures int64
	Flushes         int
	FramesSkipped   int
	EncoderFrames   int
	VideoSeconds    float64
}

// Settings contains the recording configuration.
type Settings struct {
	Preset         string
	Quality        string
	Engine         string
	Codec          string
	FPS            float64
	BufferCapacity int
	CaptureFormat  string
	ViewportWidth  int
	ViewportHeight int

	// Network throttling (bytes/sec, 0 = unlimited)
	DownloadSpeed int
	UploadSpeed   int

	// CPU throttling (1.0 = no throttling)
	CPUThrottling float64
}

// VideoInfo contains information about the output video.
// Probed is false when the container could not be inspected.
type VideoInfo struct {
	Path       string
	Probed     bool
	FrameCount int
	DurationMs int
	FileSize   int64
	Width      int
	Height     int
	Codec      string
	CRF        int

	// Reported by ffmpeg while encoding. Timemark is empty for streamed
	// output.
	Timemark   string
	InputBytes int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithPage sets page information.
func (b *Builder) WithPage(title, url string) *Builder {
	b.summary.Page = PageInfo{
		Title: title,
		URL:   url,
	}
	return b
}

// WithSession copies the session counters.
func (b *Builder) WithSession(stats pipeline.SessionStats, reason pipeline.StopReason) *Builder {
	b.summary.Session = SessionInfo{
		ID:              stats.SessionID,
		Reason:          reason,
		ElapsedSeconds:  stats.ElapsedSeconds(),
		FramesCaptured:  stats.FramesCaptured,
		CaptureFailures: stats.CaptureFailures,
		Flushes:         stats.Flushes,
		FramesSkipped:   stats.FramesSkipped,
		EncoderFrames:   stats.EncoderFrames,
		VideoSeconds:    stats.VideoSeconds(),
	}
	return b
}

// WithSettings sets recording settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithVideo sets video output information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
