// Package config provides configuration loading and management.
//
// Files ending in .toml are read with go-toml; anything else is read as YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/user/pagecast/pkg/orchestrator"
	"github.com/user/pagecast/pkg/ports"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Browser engines.
const (
	EngineChromedp   = "chromedp"
	EnginePlaywright = "playwright"
	EngineSynthetic  = "synthetic"
)

// Config represents the full configuration for pagecast.
type Config struct {
	// Input/Output
	URL        string `yaml:"url" toml:"url"`
	OutputPath string `yaml:"output" toml:"output"`

	// Browser
	Engine            string            `yaml:"engine" toml:"engine"`
	Headless          bool              `yaml:"headless" toml:"headless"`
	ChromePath        string            `yaml:"chrome_path" toml:"chrome_path"`
	UserAgent         string            `yaml:"user_agent" toml:"user_agent"`
	Headers           map[string]string `yaml:"headers" toml:"headers"`
	IgnoreHTTPSErrors bool              `yaml:"ignore_https_errors" toml:"ignore_https_errors"`
	ProxyServer       string            `yaml:"proxy_server" toml:"proxy_server"`
	Incognito         bool              `yaml:"incognito" toml:"incognito"`

	// Page
	ViewportWidth     int           `yaml:"viewport_width" toml:"viewport_width"`
	ViewportHeight    int           `yaml:"viewport_height" toml:"viewport_height"`
	DeviceScaleFactor float64       `yaml:"device_scale_factor" toml:"device_scale_factor"`
	Network           NetworkConfig `yaml:"network" toml:"network"`
	CPUThrottling     float64       `yaml:"cpu_throttling" toml:"cpu_throttling"`

	// Recording
	Duration       string  `yaml:"duration" toml:"duration"` // Go duration, "0" records until interrupted
	FPS            float64 `yaml:"fps" toml:"fps"`
	BufferCapacity int     `yaml:"buffer" toml:"buffer"`
	CaptureFormat  string  `yaml:"capture_format" toml:"capture_format"`
	CaptureQuality int     `yaml:"capture_quality" toml:"capture_quality"`

	// Encoding
	Encoder    EncoderConfig `yaml:"encoder" toml:"encoder"`
	FFmpegPath string        `yaml:"ffmpeg_path" toml:"ffmpeg_path"`

	// Debug
	Debug    bool   `yaml:"debug" toml:"debug"`
	DebugDir string `yaml:"debug_dir" toml:"debug_dir"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// NetworkConfig represents network throttling settings.
type NetworkConfig struct {
	LatencyMs     int  `yaml:"latency_ms" toml:"latency_ms"`
	DownloadSpeed int  `yaml:"download_speed" toml:"download_speed"`
	UploadSpeed   int  `yaml:"upload_speed" toml:"upload_speed"`
	Offline       bool `yaml:"offline" toml:"offline"`
}

// EncoderConfig represents ffmpeg output settings.
type EncoderConfig struct {
	Codec        string   `yaml:"codec" toml:"codec"`
	CRF          int      `yaml:"crf" toml:"crf"`
	Preset       string   `yaml:"preset" toml:"preset"`
	PixelFormat  string   `yaml:"pixel_format" toml:"pixel_format"`
	Bitrate      int      `yaml:"bitrate" toml:"bitrate"` // kbit/s
	Width        int      `yaml:"width" toml:"width"`
	Height       int      `yaml:"height" toml:"height"`
	AspectRatio  string   `yaml:"aspect_ratio" toml:"aspect_ratio"`
	Autopad      bool     `yaml:"autopad" toml:"autopad"`
	AutopadColor string   `yaml:"autopad_color" toml:"autopad_color"`
	Metadata     []string `yaml:"metadata" toml:"metadata"`

	// DurationLimit is ffmpeg's -t, a Go duration; empty means no cap.
	DurationLimit string `yaml:"duration_limit" toml:"duration_limit"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return FromOrchestratorConfig(orchestrator.DefaultConfig())
}

// FromOrchestratorConfig returns a Config carrying the recording and
// encoding settings of oc, with default browser and debug settings.
func FromOrchestratorConfig(oc orchestrator.Config) Config {
	cpu := oc.CPUThrottling
	if cpu == 0 {
		cpu = 1.0
	}
	return Config{
		URL:        oc.URL,
		OutputPath: oc.OutputPath,

		Engine:   EngineChromedp,
		Headless: true,
		Headers:  oc.Headers,

		ViewportWidth:     oc.ViewportWidth,
		ViewportHeight:    oc.ViewportHeight,
		DeviceScaleFactor: oc.DeviceScaleFactor,
		Network: NetworkConfig{
			LatencyMs:     oc.NetworkConditions.LatencyMs,
			DownloadSpeed: oc.NetworkConditions.DownloadSpeed,
			UploadSpeed:   oc.NetworkConditions.UploadSpeed,
			Offline:       oc.NetworkConditions.Offline,
		},
		CPUThrottling: cpu,

		Duration:       oc.Duration.String(),
		FPS:            oc.FPS,
		BufferCapacity: oc.BufferCapacity,
		CaptureFormat:  string(oc.Capture.Format),
		CaptureQuality: oc.Capture.Quality,

		Encoder: EncoderConfig{
			Codec:        oc.Encoder.Codec,
			CRF:          oc.Encoder.CRF,
			Preset:       oc.Encoder.Preset,
			PixelFormat:  oc.Encoder.PixelFormat,
			Bitrate:      oc.Encoder.Bitrate,
			Width:        oc.Encoder.Width,
			Height:       oc.Encoder.Height,
			AspectRatio:  oc.Encoder.AspectRatio,
			Autopad:      oc.Encoder.Autopad,
			AutopadColor: oc.Encoder.AutopadColor,
			Metadata:     oc.Encoder.Metadata,

			DurationLimit: formatLimit(oc.Encoder.DurationLimit),
		},

		DebugDir: "./debug",
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := Unmarshal(path, data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Unmarshal decodes data into cfg, choosing the format from path.
func Unmarshal(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// RecordDuration parses Duration. An empty value means no limit.
func (c Config) RecordDuration() (time.Duration, error) {
	return parseLimit("duration", c.Duration)
}

// EncoderDurationLimit parses Encoder.DurationLimit. An empty value means
// the video is as long as the recording.
func (c Config) EncoderDurationLimit() (time.Duration, error) {
	return parseLimit("encoder duration limit", c.Encoder.DurationLimit)
}

func parseLimit(name, value string) (time.Duration, error) {
	if value == "" || value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalid, name, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalid, name)
	}
	return d, nil
}

func formatLimit(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return d.String()
}

// Validate checks the values the recorder cannot work around.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
	}

	switch c.Engine {
	case EngineChromedp, EnginePlaywright, EngineSynthetic:
	default:
		add("unknown engine %q", c.Engine)
	}
	if c.FPS <= 0 {
		add("fps must be positive, got %g", c.FPS)
	}
	if c.BufferCapacity < 2 {
		add("buffer must hold at least 2 frames, got %d", c.BufferCapacity)
	}
	switch c.CaptureFormat {
	case string(ports.FormatJPEG), string(ports.FormatPNG):
	default:
		add("capture format must be jpeg or png, got %q", c.CaptureFormat)
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		add("viewport must be positive, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.Encoder.CRF < 0 || c.Encoder.CRF > 63 {
		add("crf must be within 0-63, got %d", c.Encoder.CRF)
	}
	if _, ok := ports.LookupLogLevel(c.LogLevel); !ok {
		add("unknown log level %q", c.LogLevel)
	}
	if _, err := c.RecordDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.EncoderDurationLimit(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
// Call Validate first; an unparsable duration becomes zero.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	duration, _ := c.RecordDuration()
	limit, _ := c.EncoderDurationLimit()
	return orchestrator.Config{
		URL:        c.URL,
		OutputPath: c.OutputPath,

		ViewportWidth:     c.ViewportWidth,
		ViewportHeight:    c.ViewportHeight,
		DeviceScaleFactor: c.DeviceScaleFactor,
		NetworkConditions: ports.NetworkConditions{
			LatencyMs:     c.Network.LatencyMs,
			DownloadSpeed: c.Network.DownloadSpeed,
			UploadSpeed:   c.Network.UploadSpeed,
			Offline:       c.Network.Offline,
		},
		CPUThrottling: c.CPUThrottling,
		Headers:       c.Headers,

		Duration:       duration,
		FPS:            c.FPS,
		BufferCapacity: c.BufferCapacity,
		Capture: ports.CaptureOptions{
			Format:  ports.ParseImageFormat(c.CaptureFormat),
			Quality: ports.NormalizeQuality(c.CaptureQuality),
		},

		Encoder: orchestrator.EncoderConfig{
			Codec:        c.Encoder.Codec,
			CRF:          c.Encoder.CRF,
			Preset:       c.Encoder.Preset,
			PixelFormat:  c.Encoder.PixelFormat,
			Bitrate:      c.Encoder.Bitrate,
			Width:        c.Encoder.Width,
			Height:       c.Encoder.Height,
			AspectRatio:  c.Encoder.AspectRatio,
			Autopad:      c.Encoder.Autopad,
			AutopadColor: c.Encoder.AutopadColor,
			Metadata:     c.Encoder.Metadata,

			DurationLimit: limit,
		},
	}
}

// BrowserOptions returns the launch options for the configured browser.
func (c Config) BrowserOptions() ports.BrowserOptions {
	return ports.BrowserOptions{
		Headless:          c.Headless,
		ChromePath:        c.ChromePath,
		UserAgent:         c.UserAgent,
		Headers:           c.Headers,
		IgnoreHTTPSErrors: c.IgnoreHTTPSErrors,
		ProxyServer:       c.ProxyServer,
		Incognito:         c.Incognito,
	}
}
