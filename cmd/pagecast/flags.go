package main

import (
	"fmt"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/pagecast/pkg/config"
	"github.com/user/pagecast/pkg/pagecast"
	"github.com/user/pagecast/pkg/ports"
)

func recordFlags() []cli.Flag {
	output := l10n.T("Output")
	preset := l10n.T("Preset")
	browser := l10n.T("Browser")
	emulation := l10n.T("Performance Emulation")
	recording := l10n.T("Recording")
	video := l10n.T("Video and Quality")
	debug := l10n.T("Debug")
	logging := l10n.T("Logging")

	return []cli.Flag{
		// Output
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: output, Usage: l10n.T("Output video file path (mp4, mov, avi, webm)")},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: output, Usage: l10n.T("Configuration file (YAML or TOML)")},
		&cli.StringFlag{Name: "summary", Category: output, Usage: l10n.T("Write a run summary to file (Markdown, or a table for .txt)")},

		// Presets
		&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Value: string(pagecast.PresetDesktop), Category: preset, Usage: l10n.T("Device preset (desktop, mobile)")},
		&cli.StringFlag{Name: "quality-preset", Value: string(pagecast.QualityMedium), Category: preset, Usage: l10n.T("Quality preset (low, medium, high)")},

		// Browser
		&cli.StringFlag{Name: "engine", Aliases: []string{"e"}, Category: browser, Usage: l10n.T("Capture engine (chromedp, playwright, synthetic)")},
		&cli.BoolFlag{Name: "no-headless", Category: browser, Usage: l10n.T("Run browser in non-headless mode")},
		&cli.StringFlag{Name: "chrome-path", Category: browser, Usage: l10n.T("Path to Chrome executable")},
		&cli.StringFlag{Name: "user-agent", Category: browser, Usage: l10n.T("Custom User-Agent string")},
		&cli.StringSliceFlag{Name: "header", Aliases: []string{"H"}, Category: browser, Usage: l10n.T("Extra HTTP header as \"Name: value\" (repeatable)")},
		&cli.BoolFlag{Name: "ignore-https-errors", Category: browser, Usage: l10n.T("Ignore HTTPS certificate errors")},
		&cli.StringFlag{Name: "proxy-server", Category: browser, Usage: l10n.T("HTTP proxy server (e.g., http://proxy:8080)")},
		&cli.BoolFlag{Name: "incognito", Category: browser, Usage: l10n.T("Use an incognito browser profile")},

		// Page and throttling
		&cli.IntFlag{Name: "viewport-width", Category: emulation, Usage: l10n.T("Browser viewport width")},
		&cli.IntFlag{Name: "viewport-height", Category: emulation, Usage: l10n.T("Browser viewport height")},
		&cli.Float64Flag{Name: "device-scale-factor", Category: emulation, Usage: l10n.T("Device pixel ratio")},
		&cli.Float64Flag{Name: "download-speed", Category: emulation, Usage: l10n.T("Download speed in Mbps (0 = unlimited)")},
		&cli.Float64Flag{Name: "upload-speed", Category: emulation, Usage: l10n.T("Upload speed in Mbps (0 = unlimited)")},
		&cli.IntFlag{Name: "latency", Category: emulation, Usage: l10n.T("Added network latency in milliseconds")},
		&cli.BoolFlag{Name: "offline", Category: emulation, Usage: l10n.T("Emulate an offline network")},
		&cli.Float64Flag{Name: "cpu-throttling", Category: emulation, Usage: l10n.T("CPU slowdown factor (1.0 = no throttling, 4.0 = 4x slower)")},

		// Recording
		&cli.DurationFlag{Name: "duration", Aliases: []string{"d"}, Category: recording, Usage: l10n.T("Recording length (0 records until interrupted)")},
		&cli.Float64Flag{Name: "fps", Category: recording, Usage: l10n.T("Output frame rate")},
		&cli.IntFlag{Name: "buffer", Category: recording, Usage: l10n.T("Frames held for reordering (min: 2)")},
		&cli.StringFlag{Name: "format", Category: recording, Usage: l10n.T("Capture image format (jpeg, png)")},
		&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Category: recording, Usage: l10n.T("Capture JPEG quality (0-100, overrides quality preset)")},

		// Encoding
		&cli.IntFlag{Name: "crf", Category: video, Usage: l10n.T("Video CRF value (0-63, lower is better, overrides quality preset)")},
		&cli.StringFlag{Name: "codec", Category: video, Usage: l10n.T("ffmpeg video codec")},
		&cli.StringFlag{Name: "encoder-preset", Category: video, Usage: l10n.T("ffmpeg encoder preset")},
		&cli.IntFlag{Name: "bitrate", Category: video, Usage: l10n.T("Target bitrate in kbit/s")},
		&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Category: video, Usage: l10n.T("Output video width (0 = captured size)")},
		&cli.IntFlag{Name: "height", Category: video, Usage: l10n.T("Output video height (0 = captured size)")},
		&cli.StringFlag{Name: "aspect", Category: video, Usage: l10n.T("Display aspect ratio (e.g., 16:9)")},
		&cli.BoolFlag{Name: "autopad", Category: video, Usage: l10n.T("Pad instead of stretching to the output size")},
		&cli.DurationFlag{Name: "max-length", Category: video, Usage: l10n.T("Cap the video length (0 = as long as the recording)")},
		&cli.StringSliceFlag{Name: "metadata", Category: video, Usage: l10n.T("Container metadata as key=value (repeatable)")},
		&cli.StringFlag{Name: "ffmpeg-path", Category: video, Usage: l10n.T("Path to ffmpeg executable")},

		// Debug
		&cli.BoolFlag{Name: "debug", Category: debug, Usage: l10n.T("Enable debug output")},
		&cli.StringFlag{Name: "debug-dir", Category: debug, Usage: l10n.T("Directory for debug output")},

		// Logging
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: logging, Usage: l10n.T("Log level (debug, info, warn, error)")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: logging, Usage: l10n.T("Suppress all log output")},
	}
}

// loadConfig layers the device and quality presets, the configuration file
// and the command line flags, in that order.
func loadConfig(c *cli.Context, fs ports.FileSystem) (config.Config, error) {
	devicePreset := pagecast.DevicePreset(c.String("preset"))
	switch devicePreset {
	case pagecast.PresetDesktop, pagecast.PresetMobile:
	default:
		return config.Config{}, fmt.Errorf("%w: unknown preset %q", config.ErrInvalid, devicePreset)
	}
	qualityPreset := pagecast.QualityPreset(c.String("quality-preset"))
	switch qualityPreset {
	case pagecast.QualityLow, pagecast.QualityMedium, pagecast.QualityHigh:
	default:
		return config.Config{}, fmt.Errorf("%w: unknown quality preset %q", config.ErrInvalid, qualityPreset)
	}

	base := pagecast.NewPresetConfigBuilder(devicePreset).
		WithQualityPreset(qualityPreset).
		Build()
	cfg := config.FromOrchestratorConfig(base.ToOrchestratorConfig("", ""))

	if path := c.String("config"); path != "" {
		data, err := fs.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := config.Unmarshal(path, data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if c.Args().Present() {
		cfg.URL = c.Args().First()
	}
	if err := applyFlags(c, &cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) error {
	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	setFloat := func(name string, dst *float64) {
		if c.IsSet(name) {
			*dst = c.Float64(name)
		}
	}

	// Output
	setString("output", &cfg.OutputPath)

	// Browser
	setString("engine", &cfg.Engine)
	if c.IsSet("no-headless") {
		cfg.Headless = !c.Bool("no-headless")
	}
	setString("chrome-path", &cfg.ChromePath)
	setString("user-agent", &cfg.UserAgent)
	if c.IsSet("header") {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		for _, h := range c.StringSlice("header") {
			name, value, err := parseHeader(h)
			if err != nil {
				return err
			}
			cfg.Headers[name] = value
		}
	}
	if c.IsSet("ignore-https-errors") {
		cfg.IgnoreHTTPSErrors = c.Bool("ignore-https-errors")
	}
	setString("proxy-server", &cfg.ProxyServer)
	if c.IsSet("incognito") {
		cfg.Incognito = c.Bool("incognito")
	}

	// Page and throttling
	setInt("viewport-width", &cfg.ViewportWidth)
	setInt("viewport-height", &cfg.ViewportHeight)
	setFloat("device-scale-factor", &cfg.DeviceScaleFactor)
	if c.IsSet("download-speed") {
		cfg.Network.DownloadSpeed = pagecast.MbpsToBytes(c.Float64("download-speed"))
	}
	if c.IsSet("upload-speed") {
		cfg.Network.UploadSpeed = pagecast.MbpsToBytes(c.Float64("upload-speed"))
	}
	setInt("latency", &cfg.Network.LatencyMs)
	if c.IsSet("offline") {
		cfg.Network.Offline = c.Bool("offline")
	}
	setFloat("cpu-throttling", &cfg.CPUThrottling)

	// Recording
	if c.IsSet("duration") {
		cfg.Duration = c.Duration("duration").String()
	}
	setFloat("fps", &cfg.FPS)
	setInt("buffer", &cfg.BufferCapacity)
	setString("format", &cfg.CaptureFormat)
	setInt("quality", &cfg.CaptureQuality)

	// Encoding
	setInt("crf", &cfg.Encoder.CRF)
	setString("codec", &cfg.Encoder.Codec)
	setString("encoder-preset", &cfg.Encoder.Preset)
	setInt("bitrate", &cfg.Encoder.Bitrate)
	setInt("width", &cfg.Encoder.Width)
	setInt("height", &cfg.Encoder.Height)
	setString("aspect", &cfg.Encoder.AspectRatio)
	if c.IsSet("autopad") {
		cfg.Encoder.Autopad = c.Bool("autopad")
	}
	if c.IsSet("max-length") {
		cfg.Encoder.DurationLimit = c.Duration("max-length").String()
	}
	if c.IsSet("metadata") {
		cfg.Encoder.Metadata = c.StringSlice("metadata")
	}
	setString("ffmpeg-path", &cfg.FFmpegPath)

	// Debug and logging
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	setString("debug-dir", &cfg.DebugDir)
	setString("log-level", &cfg.LogLevel)

	return nil
}

// parseHeader splits "Name: value".
func parseHeader(h string) (string, string, error) {
	name, value, ok := strings.Cut(h, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: header %q must be \"Name: value\"", config.ErrInvalid, h)
	}
	return name, strings.TrimSpace(value), nil
}
