// Package pagecast provides a high-level API for recording web pages to video.
package pagecast

import (
	"time"

	"github.com/user/pagecast/pkg/orchestrator"
	"github.com/user/pagecast/pkg/ports"
)

// DevicePreset names a starting configuration.
type DevicePreset string

const (
	PresetDesktop DevicePreset = "desktop"
	PresetMobile  DevicePreset = "mobile"
)

// QualityPreset represents a video quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// QualitySettings contains quality parameters for encoding and capture.
type QualitySettings struct {
	VideoCRF       int // ffmpeg CRF (0-63, lower is better)
	CaptureQuality int // JPEG quality of captured frames (0-100)
}

// GetQualitySettings returns quality settings for the given preset.
func GetQualitySettings(preset QualityPreset) QualitySettings {
	switch preset {
	case QualityLow:
		return QualitySettings{
			VideoCRF:       32,
			CaptureQuality: 60,
		}
	case QualityHigh:
		return QualitySettings{
			VideoCRF:       18,
			CaptureQuality: 92,
		}
	default: // medium
		return QualitySettings{
			VideoCRF:       23,
			CaptureQuality: 80,
		}
	}
}

// Config represents the configuration of a recording.
type Config struct {
	// Page
	ViewportWidth     int
	ViewportHeight    int
	DeviceScaleFactor float64

	// Recording
	Duration       time.Duration // 0 records until the context is cancelled
	FPS            float64
	BufferCapacity int
	CaptureFormat  ports.ImageFormat
	CaptureQuality int

	// Encoding
	Codec       string
	VideoCRF    int
	Preset      string // ffmpeg preset, not the device preset
	Bitrate     int    // kbit/s
	Width       int    // Output width, 0 keeps the captured size
	Height      int
	AspectRatio string
	Autopad     bool

	// Network throttling
	DownloadSpeed int // bytes/sec (0 = unlimited)
	UploadSpeed   int // bytes/sec (0 = unlimited)
	LatencyMs     int

	// CPU throttling
	CPUThrottling float64 // 1.0 = no throttling, 4.0 = 4x slower

	Headers map[string]string
}

// ConfigBuilder provides a fluent interface for building Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new ConfigBuilder with desktop preset defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: desktopDefaults(),
	}
}

// NewMobileConfigBuilder creates a new ConfigBuilder with mobile preset defaults.
func NewMobileConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: mobileDefaults(),
	}
}

// NewPresetConfigBuilder returns the builder for preset, falling back to desktop.
func NewPresetConfigBuilder(preset DevicePreset) *ConfigBuilder {
	if preset == PresetMobile {
		return NewMobileConfigBuilder()
	}
	return NewConfigBuilder()
}

func desktopDefaults() Config {
	oc := orchestrator.DefaultConfig()
	return Config{
		ViewportWidth:     oc.ViewportWidth,
		ViewportHeight:    oc.ViewportHeight,
		DeviceScaleFactor: 1,

		Duration:       oc.Duration,
		FPS:            oc.FPS,
		BufferCapacity: oc.BufferCapacity,
		CaptureFormat:  ports.FormatJPEG,
		CaptureQuality: 80,

		Codec:       oc.Encoder.Codec,
		VideoCRF:    23,
		Preset:      oc.Encoder.Preset,
		Bitrate:     oc.Encoder.Bitrate,
		AspectRatio: oc.Encoder.AspectRatio,

		// No throttling
		CPUThrottling: 1.0,
	}
}

func mobileDefaults() Config {
	cfg := desktopDefaults()

	cfg.ViewportWidth = 390
	cfg.ViewportHeight = 844
	cfg.DeviceScaleFactor = 2

	// Portrait output keeps the phone's proportions.
	cfg.AspectRatio = "390:844"

	// 10 Mbps, 4x slower CPU
	cfg.DownloadSpeed = MbpsToBytes(10)
	cfg.UploadSpeed = MbpsToBytes(10)
	cfg.LatencyMs = 40
	cfg.CPUThrottling = 4.0
	return cfg
}

// Build returns the final Config, applying constraints.
func (b *ConfigBuilder) Build() Config {
	cfg := b.config

	if cfg.FPS <= 0 {
		cfg.FPS = orchestrator.DefaultConfig().FPS
	}
	// A flush needs at least one frame left behind.
	if cfg.BufferCapacity < 2 {
		cfg.BufferCapacity = 2
	}
	if cfg.VideoCRF < 0 {
		cfg.VideoCRF = 0
	} else if cfg.VideoCRF > 63 {
		cfg.VideoCRF = 63
	}
	cfg.CaptureQuality = ports.NormalizeQuality(cfg.CaptureQuality)
	if cfg.CPUThrottling < 1 {
		cfg.CPUThrottling = 1
	}
	if cfg.Duration < 0 {
		cfg.Duration = 0
	}

	return cfg
}

// WithViewport sets the browser viewport in CSS pixels.
func (b *ConfigBuilder) WithViewport(width, height int) *ConfigBuilder {
	b.config.ViewportWidth = width
	b.config.ViewportHeight = height
	return b
}

// WithDeviceScaleFactor sets the device pixel ratio.
func (b *ConfigBuilder) WithDeviceScaleFactor(dsf float64) *ConfigBuilder {
	b.config.DeviceScaleFactor = dsf
	return b
}

// WithDuration sets the recording length. Zero records until cancelled.
func (b *ConfigBuilder) WithDuration(d time.Duration) *ConfigBuilder {
	b.config.Duration = d
	return b
}

// WithFPS sets the output frame rate.
func (b *ConfigBuilder) WithFPS(fps float64) *ConfigBuilder {
	b.config.FPS = fps
	return b
}

// WithBufferCapacity sets the reordering buffer size.
// Values below 2 will be forced to 2.
func (b *ConfigBuilder) WithBufferCapacity(n int) *ConfigBuilder {
	b.config.BufferCapacity = n
	return b
}

// WithCaptureFormat sets the still image format.
func (b *ConfigBuilder) WithCaptureFormat(format ports.ImageFormat) *ConfigBuilder {
	b.config.CaptureFormat = format
	return b
}

// WithCaptureQuality sets the JPEG quality of captured frames (0-100).
func (b *ConfigBuilder) WithCaptureQuality(quality int) *ConfigBuilder {
	b.config.CaptureQuality = quality
	return b
}

// WithCodec sets the ffmpeg video codec.
func (b *ConfigBuilder) WithCodec(codec string) *ConfigBuilder {
	b.config.Codec = codec
	return b
}

// WithVideoCRF sets the CRF value (0-63, lower is better).
func (b *ConfigBuilder) WithVideoCRF(crf int) *ConfigBuilder {
	b.config.VideoCRF = crf
	return b
}

// WithQualityPreset applies a quality preset (low, medium, high).
func (b *ConfigBuilder) WithQualityPreset(preset QualityPreset) *ConfigBuilder {
	settings := GetQualitySettings(preset)
	b.config.VideoCRF = settings.VideoCRF
	b.config.CaptureQuality = settings.CaptureQuality
	return b
}

// WithOutputSize scales the video to width x height, padding when autopad is set.
func (b *ConfigBuilder) WithOutputSize(width, height int, autopad bool) *ConfigBuilder {
	b.config.Width = width
	b.config.Height = height
	b.config.Autopad = autopad
	return b
}

// WithAspectRatio sets the display aspect ratio, e.g. "16:9".
func (b *ConfigBuilder) WithAspectRatio(ratio string) *ConfigBuilder {
	b.config.AspectRatio = ratio
	return b
}

// WithDownloadSpeed sets the download speed limit in bytes/sec.
// Use 0 for unlimited.
func (b *ConfigBuilder) WithDownloadSpeed(bytesPerSec int) *ConfigBuilder {
	b.config.DownloadSpeed = bytesPerSec
	return b
}

// WithUploadSpeed sets the upload speed limit in bytes/sec.
// Use 0 for unlimited.
func (b *ConfigBuilder) WithUploadSpeed(bytesPerSec int) *ConfigBuilder {
	b.config.UploadSpeed = bytesPerSec
	return b
}

// WithNetworkSpeed sets both download and upload speed limits in bytes/sec.
func (b *ConfigBuilder) WithNetworkSpeed(bytesPerSec int) *ConfigBuilder {
	b.config.DownloadSpeed = bytesPerSec
	b.config.UploadSpeed = bytesPerSec
	return b
}

// WithLatency sets the added round-trip latency.
func (b *ConfigBuilder) WithLatency(ms int) *ConfigBuilder {
	b.config.LatencyMs = ms
	return b
}

// WithCPUThrottling sets the CPU slowdown factor.
// 1.0 = no throttling, 4.0 = 4x slower.
func (b *ConfigBuilder) WithCPUThrottling(factor float64) *ConfigBuilder {
	b.config.CPUThrottling = factor
	return b
}

// WithHeader adds an extra HTTP header sent with every request.
func (b *ConfigBuilder) WithHeader(name, value string) *ConfigBuilder {
	if b.config.Headers == nil {
		b.config.Headers = make(map[string]string)
	}
	b.config.Headers[name] = value
	return b
}

// MbpsToBytes converts megabits per second to bytes per second.
// Uses 1024 as the base (1 Mbps = 1024 * 1024 / 8 bytes/sec).
func MbpsToBytes(mbps float64) int {
	return int(mbps * 1024 * 1024 / 8)
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(url, outputPath string) orchestrator.Config {
	oc := orchestrator.DefaultConfig()

	oc.URL = url
	oc.OutputPath = outputPath

	oc.ViewportWidth = c.ViewportWidth
	oc.ViewportHeight = c.ViewportHeight
	oc.DeviceScaleFactor = c.DeviceScaleFactor
	oc.NetworkConditions = ports.NetworkConditions{
		LatencyMs:     c.LatencyMs,
		DownloadSpeed: c.DownloadSpeed,
		UploadSpeed:   c.UploadSpeed,
	}
	oc.CPUThrottling = c.CPUThrottling
	oc.Headers = c.Headers

	oc.Duration = c.Duration
	oc.FPS = c.FPS
	oc.BufferCapacity = c.BufferCapacity
	oc.Capture = ports.CaptureOptions{
		Format:  c.CaptureFormat,
		Quality: c.CaptureQuality,
	}

	oc.Encoder.Codec = c.Codec
	oc.Encoder.CRF = c.VideoCRF
	oc.Encoder.Preset = c.Preset
	oc.Encoder.Bitrate = c.Bitrate
	oc.Encoder.Width = c.Width
	oc.Encoder.Height = c.Height
	oc.Encoder.AspectRatio = c.AspectRatio
	oc.Encoder.Autopad = c.Autopad

	return oc
}
