// Package record implements the page recording stage.
package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
	"github.com/user/pagecast/pkg/recorder"
)

// ErrNoURL is returned when the input has no URL to record.
var ErrNoURL = errors.New("record: url is required")

// SinkOpener starts the encoder that receives the recording.
// It is called once per Execute, after the browser is ready.
type SinkOpener func() (ports.EncoderSink, error)

// Stage records a web page into an encoder sink.
type Stage struct {
	browser     ports.Browser
	openSink    SinkOpener
	debug       ports.DebugSink
	logger      ports.Logger
	browserOpts ports.BrowserOptions

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a new record stage.
func New(browser ports.Browser, openSink SinkOpener, debug ports.DebugSink, logger ports.Logger, opts ports.BrowserOptions) *Stage {
	return &Stage{
		browser:     browser,
		openSink:    openSink,
		debug:       debug,
		logger:      logger,
		browserOpts: opts,
		now:         time.Now,
	}
}

// minWindowWidth is the minimum window width for Chrome headless mode.
const minWindowWidth = 500

// Execute records input.URL until the duration elapses, ctx is cancelled,
// the encoder stops taking input, or the encoder fails. Cancellation still finalizes the video; only
// setup failures and encoder failures are returned as errors.
func (s *Stage) Execute(ctx context.Context, input pipeline.RecordInput) (pipeline.RecordResult, error) {
	var result pipeline.RecordResult
	if input.URL == "" {
		return result, ErrNoURL
	}
	log := s.logger.WithComponent("browser")

	opts := s.browserOpts
	if len(input.Headers) > 0 {
		opts.Headers = input.Headers
	}
	opts.WindowWidth = max(input.ViewportWidth, minWindowWidth)
	opts.WindowHeight = input.ViewportHeight

	if opts.Headless {
		log.Debug("Launching browser in headless mode")
	} else {
		log.Debug("Launching browser in visible mode")
	}
	// The browser must outlive ctx so an interrupted recording can finish
	// its last capture and drain.
	if err := s.browser.Launch(context.WithoutCancel(ctx), opts); err != nil {
		return result, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := s.browser.Close(); err != nil {
			log.Warn("Error closing browser: %v", err)
		}
		log.Debug("Browser closed")
	}()

	if err := s.browser.SetViewport(input.ViewportWidth, input.ViewportHeight, input.DeviceScaleFactor); err != nil {
		return result, fmt.Errorf("set viewport: %w", err)
	}

	if input.NetworkConditions.Enabled() {
		log.Debug("Setting network conditions: %d ms latency, %d bps down, %d bps up",
			input.NetworkConditions.LatencyMs,
			input.NetworkConditions.DownloadSpeed,
			input.NetworkConditions.UploadSpeed)
		if err := s.browser.SetNetworkConditions(input.NetworkConditions); err != nil {
			return result, fmt.Errorf("set network conditions: %w", err)
		}
	}

	if input.CPUThrottling > 1 {
		log.Debug("Setting CPU throttling: %.1fx slowdown", input.CPUThrottling)
		if err := s.browser.SetCPUThrottling(input.CPUThrottling); err != nil {
			return result, fmt.Errorf("set CPU throttling: %w", err)
		}
	}

	source, err := s.browser.OpenFrameSource(input.Capture)
	if err != nil {
		return result, fmt.Errorf("open frame source: %w", err)
	}

	sink, err := s.openSink()
	if err != nil {
		source.Close()
		return result, fmt.Errorf("open encoder: %w", err)
	}

	session, err := recorder.New(source, sink, s.debug, s.logger, recorder.Options{
		FPS:            input.FPS,
		BufferCapacity: input.BufferCapacity,
		Format:         input.Capture.Format,
		Now:            s.now,
	})
	if err != nil {
		source.Close()
		sink.End()
		return result, fmt.Errorf("create session: %w", err)
	}

	if err := session.Start(context.WithoutCancel(ctx)); err != nil {
		session.Stop(0)
		return result, fmt.Errorf("start session: %w", err)
	}

	log.Info("Navigating to %s", input.URL)
	if err := s.browser.Navigate(input.URL); err != nil {
		session.Stop(0)
		return result, fmt.Errorf("navigate: %w", err)
	}

	result.Reason = s.wait(ctx, session, input.Duration)
	log.Debug("Stopping recording (%s)", result.Reason)

	stopped := session.Stop(0)
	result.Stats = stopped.Stats

	if info, err := s.browser.GetPageInfo(); err != nil {
		log.Warn("Failed to read page info: %v", err)
	} else {
		result.PageInfo = *info
	}

	if s.debug.Enabled() {
		if data, err := json.MarshalIndent(result.Stats, "", "  "); err == nil {
			if err := s.debug.SaveSessionJSON(data); err != nil {
				log.Warn("Failed to save session stats: %v", err)
			}
		}
	}

	if !stopped.Success {
		return result, fmt.Errorf("record session: %w", stopped.Err)
	}
	return result, nil
}

// wait blocks until the recording should stop. A zero duration waits for
// cancellation or the encoder only.
func (s *Stage) wait(ctx context.Context, session *recorder.Session, d time.Duration) pipeline.StopReason {
	var limit <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		limit = timer.C
	}

	select {
	case <-limit:
		return pipeline.StopDuration
	case <-ctx.Done():
		return pipeline.StopInterrupted
	case <-session.Failures():
		return pipeline.StopEncoder
	case <-session.InputEnded():
		return pipeline.StopLength
	}
}
