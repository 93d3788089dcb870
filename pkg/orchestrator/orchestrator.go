// Package orchestrator coordinates the recording stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
)

// ErrNoOutput is returned when no output path is configured.
var ErrNoOutput = errors.New("orchestrator: output path is required")

// StdoutPath as OutputPath streams fragmented MP4 to standard output.
const StdoutPath = "-"

// Config contains all configuration for a recording run.
type Config struct {
	// Input
	URL        string `json:"url"`
	OutputPath string `json:"output_path"`

	// Page
	ViewportWidth     int                     `json:"viewport_width"`
	ViewportHeight    int                     `json:"viewport_height"`
	DeviceScaleFactor float64                 `json:"device_scale_factor"`
	NetworkConditions ports.NetworkConditions `json:"network_conditions"`
	CPUThrottling     float64                 `json:"cpu_throttling"`
	Headers           map[string]string       `json:"headers,omitempty"`

	// Recording
	Duration       time.Duration        `json:"duration"`
	FPS            float64              `json:"fps"`
	BufferCapacity int                  `json:"buffer_capacity"`
	Capture        ports.CaptureOptions `json:"capture"`

	// Encoding
	Encoder EncoderConfig `json:"encoder"`
}

// Streaming reports whether the video goes to standard output rather than
// a file.
func (c Config) Streaming() bool {
	return c.OutputPath == StdoutPath
}

// EncoderConfig holds the ffmpeg settings of a run.
type EncoderConfig struct {
	Codec        string   `json:"codec"`
	CRF          int      `json:"crf"`
	Preset       string   `json:"preset"`
	PixelFormat  string   `json:"pixel_format"`
	Bitrate      int      `json:"bitrate_kbps"`
	Width        int      `json:"width,omitempty"`
	Height       int      `json:"height,omitempty"`
	AspectRatio  string   `json:"aspect_ratio"`
	Autopad      bool     `json:"autopad"`
	AutopadColor string   `json:"autopad_color,omitempty"`
	Metadata     []string `json:"metadata,omitempty"`

	// DurationLimit caps the encoded video length independently of the
	// recording duration; zero means no cap.
	DurationLimit time.Duration `json:"duration_limit,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ViewportWidth:     1280,
		ViewportHeight:    960,
		DeviceScaleFactor: 1,
		Duration:          10 * time.Second,
		FPS:               25,
		BufferCapacity:    10,
		Capture: ports.CaptureOptions{
			Format:  ports.FormatJPEG,
			Quality: ports.DefaultCaptureQuality,
		},
		Encoder: EncoderConfig{
			Codec:        "libx264",
			CRF:          23,
			Preset:       "ultrafast",
			PixelFormat:  "yuv420p",
			Bitrate:      1000,
			AspectRatio:  "4:3",
			AutopadColor: "black",
		},
	}
}

// Orchestrator coordinates the execution of the recording stages.
type Orchestrator struct {
	recordStage pipeline.RecordStage
	probeStage  pipeline.ProbeStage
	fs          ports.FileSystem
	sink        ports.DebugSink
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	recordStage pipeline.RecordStage,
	probeStage pipeline.ProbeStage,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		recordStage: recordStage,
		probeStage:  probeStage,
		fs:          fs,
		sink:        sink,
		logger:      logger,
	}
}

// Run records config.URL into config.OutputPath and inspects the result.
// A file output stays locked for the whole run; streamed output is neither
// locked nor inspected.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	if config.OutputPath == "" {
		return RunResult{}, ErrNoOutput
	}

	if !config.Streaming() {
		unlock, err := o.fs.Lock(config.OutputPath)
		if err != nil {
			return RunResult{}, fmt.Errorf("lock output: %w", err)
		}
		defer func() {
			if err := unlock(); err != nil {
				o.logger.Warn("Failed to release output lock: %v", err)
			}
		}()
	}

	o.logger.Info("Starting pipeline")

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(config, "", "  "); err == nil {
			if err := o.sink.SaveConfigJSON(data); err != nil {
				o.logger.Warn("Failed to save config: %v", err)
			}
		}
	}

	// 1. Record
	record, err := o.recordStage.Execute(ctx, o.buildRecordInput(config))
	if err != nil {
		o.logger.Error("Failed to record page: %s", err)
		return RunResult{}, fmt.Errorf("record stage: %w", err)
	}
	if record.Reason == pipeline.StopInterrupted {
		o.logger.Warn("Recording interrupted, video finalized")
	}
	o.logger.Info("Recorded %d frames into %d encoder frames", record.Stats.FramesCaptured, record.Stats.EncoderFrames)

	result := RunResult{
		OutputPath: config.OutputPath,
		PageTitle:  record.PageInfo.Title,
		PageURL:    record.PageInfo.URL,
		Reason:     record.Reason,
		Stats:      record.Stats,
	}

	if config.Streaming() {
		o.logger.Info("Video streamed to standard output")
		o.logger.Info("Pipeline completed successfully")
		return result, nil
	}

	// 2. Probe; a failure here leaves the video in place.
	probe, err := o.probeStage.Execute(ctx, pipeline.ProbeInput{Path: config.OutputPath})
	switch {
	case err != nil:
		o.logger.Warn("Failed to inspect output: %v", err)
	case !probe.Skipped:
		result.Video = probe.Video
		result.Probed = true
	}

	o.logger.Info("Output saved to %s", config.OutputPath)
	o.logger.Info("Pipeline completed successfully")
	return result, nil
}

func (o *Orchestrator) buildRecordInput(config Config) pipeline.RecordInput {
	return pipeline.RecordInput{
		URL:               config.URL,
		ViewportWidth:     config.ViewportWidth,
		ViewportHeight:    config.ViewportHeight,
		DeviceScaleFactor: config.DeviceScaleFactor,
		Duration:          config.Duration,
		NetworkConditions: config.NetworkConditions,
		CPUThrottling:     config.CPUThrottling,
		Headers:           config.Headers,
		FPS:               config.FPS,
		BufferCapacity:    config.BufferCapacity,
		Capture:           config.Capture,
	}
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	OutputPath string
	PageTitle  string
	PageURL    string
	Reason     pipeline.StopReason

	Stats pipeline.SessionStats

	// Video is filled when Probed is true.
	Video  ports.VideoInfo
	Probed bool
}
