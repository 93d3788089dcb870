// Package main provides the CLI entry point for pagecast.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/pagecast/pkg/adapters/chromebrowser"
	"github.com/user/pagecast/pkg/adapters/ffmpegsink"
	"github.com/user/pagecast/pkg/adapters/filesink"
	"github.com/user/pagecast/pkg/adapters/logger"
	"github.com/user/pagecast/pkg/adapters/mp4probe"
	"github.com/user/pagecast/pkg/adapters/nullsink"
	"github.com/user/pagecast/pkg/adapters/osfilesystem"
	"github.com/user/pagecast/pkg/adapters/pwbrowser"
	"github.com/user/pagecast/pkg/adapters/syntheticsource"
	"github.com/user/pagecast/pkg/config"
	"github.com/user/pagecast/pkg/orchestrator"
	"github.com/user/pagecast/pkg/ports"
	"github.com/user/pagecast/pkg/stages/probe"
	"github.com/user/pagecast/pkg/stages/record"
	"github.com/user/pagecast/pkg/summarizer"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:        "pagecast",
		Usage:       l10n.T("Record web pages as constant frame rate videos"),
		Description: l10n.T("pagecast captures a web page at irregular intervals and encodes the frames into a constant frame rate video with ffmpeg."),
		Version:     version,
		Commands: []*cli.Command{
			recordCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("pagecast version %s", version))
					return nil
				},
			},
		},
	}
}

func recordCommand() *cli.Command {
	return &cli.Command{
		Name:        "record",
		Usage:       l10n.T("Record a web page as video"),
		Description: l10n.T("Open the page in a browser, capture it until the duration elapses or the command is interrupted, and encode the frames with ffmpeg."),
		ArgsUsage:   "URL",
		Flags:       recordFlags(),
		Action:      runRecord,
	}
}

func runRecord(c *cli.Context) error {
	fs := osfilesystem.New()
	cfg, err := loadConfig(c, fs)
	if err != nil {
		return err
	}
	if cfg.URL == "" {
		return cli.Exit(l10n.T("URL argument is required"), 1)
	}

	orchConfig := cfg.ToOrchestratorConfig()

	// Create logger; stdout carries the video when streaming.
	var log ports.Logger
	switch {
	case c.Bool("quiet"):
		log = logger.NewNoop()
	case orchConfig.Streaming():
		log = logger.NewConsoleStderr(ports.ParseLogLevel(cfg.LogLevel))
	default:
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals; the recording is finalized, not discarded.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, finishing video...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	browser := newBrowser(cfg.Engine, log)

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs)
	} else {
		sink = nullsink.New()
	}

	// Create stages
	encoder := &encoderRun{oc: orchConfig, ffmpegPath: cfg.FFmpegPath, stdout: os.Stdout, log: log}
	recordStage := record.New(browser, encoder.open, sink, log, cfg.BrowserOptions())
	probeStage := probe.New(mp4probe.New(), log)

	orch := orchestrator.New(recordStage, probeStage, fs, sink, log)

	log.Info("Recording %s with %s at %g fps...", cfg.URL, cfg.Engine, cfg.FPS)

	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return err
	}

	summary := buildSummary(c, cfg, result)
	encoder.report(&summary.Video)
	if !c.Bool("quiet") {
		out := c.App.Writer
		if orchConfig.Streaming() {
			out = c.App.ErrWriter
		}
		fmt.Fprintln(out, summarizer.NewConsoleFormatter().Format(summary))
	}

	if path := c.String("summary"); path != "" {
		writer := summarizer.NewWriter(summarizer.FormatterFor(path), fs)
		if err := writer.Write(path, summary); err != nil {
			log.Warn("Failed to write summary: %s", err)
		} else {
			log.Info("Summary saved to %s", path)
		}
	}

	return nil
}

// newBrowser returns the capture engine named by engine.
func newBrowser(engine string, log ports.Logger) ports.Browser {
	switch engine {
	case config.EnginePlaywright:
		return pwbrowser.New(log)
	case config.EngineSynthetic:
		return syntheticsource.NewBrowser(log)
	default:
		return chromebrowser.New()
	}
}

// encoderRun opens the ffmpeg sink of a run and keeps it for the summary.
type encoderRun struct {
	oc         orchestrator.Config
	ffmpegPath string
	stdout     io.Writer
	log        ports.Logger

	sink *ffmpegsink.Sink
}

func (e *encoderRun) destination() ffmpegsink.Destination {
	if e.oc.Streaming() {
		return ffmpegsink.ToWriter(e.stdout)
	}
	return ffmpegsink.ToFile(e.oc.OutputPath)
}

// open starts ffmpeg once the browser is ready.
func (e *encoderRun) open() (ports.EncoderSink, error) {
	s, err := ffmpegsink.New(e.destination(), encoderOptions(e.oc, e.ffmpegPath), e.log)
	if err != nil {
		return nil, err
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	e.sink = s
	return s, nil
}

// report copies what ffmpeg reported into video.
func (e *encoderRun) report(video *summarizer.VideoInfo) {
	if e.sink == nil {
		return
	}
	video.Timemark = e.sink.Timemark()
	video.InputBytes = e.sink.BytesWritten()
}

// encoderOptions maps the run's encoder settings onto ffmpeg options.
func encoderOptions(oc orchestrator.Config, ffmpegPath string) ffmpegsink.Options {
	return ffmpegsink.Options{
		FPS:           oc.FPS,
		Codec:         oc.Encoder.Codec,
		Width:         oc.Encoder.Width,
		Height:        oc.Encoder.Height,
		AspectRatio:   oc.Encoder.AspectRatio,
		Autopad:       oc.Encoder.Autopad,
		AutopadColor:  oc.Encoder.AutopadColor,
		CRF:           oc.Encoder.CRF,
		Preset:        oc.Encoder.Preset,
		PixelFormat:   oc.Encoder.PixelFormat,
		Bitrate:       oc.Encoder.Bitrate,
		Metadata:      oc.Encoder.Metadata,
		DurationLimit: oc.Encoder.DurationLimit,
		FFmpegPath:    ffmpegPath,
	}
}

func buildSummary(c *cli.Context, cfg config.Config, result orchestrator.RunResult) *summarizer.Summary {
	video := summarizer.VideoInfo{
		Path:   result.OutputPath,
		Probed: result.Probed,
		CRF:    cfg.Encoder.CRF,
	}
	if result.Probed {
		video.FrameCount = result.Video.FrameCount
		video.DurationMs = result.Video.DurationMs
		video.FileSize = result.Video.SizeBytes
		video.Width = result.Video.Width
		video.Height = result.Video.Height
		video.Codec = result.Video.Codec
	}

	return summarizer.NewBuilder().
		WithPage(result.PageTitle, result.PageURL).
		WithSession(result.Stats, result.Reason).
		WithSettings(summarizer.Settings{
			Preset:         c.String("preset"),
			Quality:        c.String("quality-preset"),
			Engine:         cfg.Engine,
			Codec:          cfg.Encoder.Codec,
			FPS:            cfg.FPS,
			BufferCapacity: cfg.BufferCapacity,
			CaptureFormat:  cfg.CaptureFormat,
			ViewportWidth:  cfg.ViewportWidth,
			ViewportHeight: cfg.ViewportHeight,
			DownloadSpeed:  cfg.Network.DownloadSpeed,
			UploadSpeed:    cfg.Network.UploadSpeed,
			CPUThrottling:  cfg.CPUThrottling,
		}).
		WithVideo(video).
		Build()
}
