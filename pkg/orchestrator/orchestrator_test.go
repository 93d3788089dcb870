package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/user/pagecast/pkg/adapters/logger"
	"github.com/user/pagecast/pkg/mocks"
	"github.com/user/pagecast/pkg/pipeline"
	"github.com/user/pagecast/pkg/ports"
)

// mockRecordStage is a mock for the record stage.
type mockRecordStage struct {
	result pipeline.RecordResult
	err    error
	input  pipeline.RecordInput
	onRun  func()
}

func (m *mockRecordStage) Execute(ctx context.Context, input pipeline.RecordInput) (pipeline.RecordResult, error) {
	m.input = input
	if m.onRun != nil {
		m.onRun()
	}
	if m.err != nil {
		return pipeline.RecordResult{}, m.err
	}
	return m.result, nil
}

// mockProbeStage is a mock for the probe stage.
type mockProbeStage struct {
	result pipeline.ProbeResult
	err    error
	calls  int
}

func (m *mockProbeStage) Execute(ctx context.Context, input pipeline.ProbeInput) (pipeline.ProbeResult, error) {
	m.calls++
	if m.err != nil {
		return pipeline.ProbeResult{}, m.err
	}
	return m.result, nil
}

func testConfig() Config {
	config := DefaultConfig()
	config.URL = "https://example.com"
	config.OutputPath = "output.mp4"
	return config
}

func TestOrchestrator_Run(t *testing.T) {
	recordStage := &mockRecordStage{
		result: pipeline.RecordResult{
			PageInfo: ports.PageInfo{Title: "Test Page", URL: "https://example.com/"},
			Stats:    pipeline.SessionStats{FramesCaptured: 240, EncoderFrames: 250},
			Reason:   pipeline.StopDuration,
		},
	}
	probeStage := &mockProbeStage{
		result: pipeline.ProbeResult{Video: ports.VideoInfo{FrameCount: 250, DurationMs: 10000}},
	}
	fs := mocks.NewFileSystem()
	recordStage.onRun = func() {
		if !fs.IsLocked("output.mp4") {
			t.Error("expected output locked while recording")
		}
	}

	orch := New(recordStage, probeStage, fs, mocks.NewDebugSink(false), logger.NewNoop())
	config := testConfig()
	config.CPUThrottling = 4
	config.Headers = map[string]string{"X-Test": "1"}

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PageTitle != "Test Page" || result.Stats.EncoderFrames != 250 {
		t.Errorf("unexpected result %+v", result)
	}
	if !result.Probed || result.Video.FrameCount != 250 {
		t.Errorf("expected probed video, got %+v", result.Video)
	}
	if fs.IsLocked("output.mp4") {
		t.Error("expected output lock released")
	}

	in := recordStage.input
	if in.URL != config.URL || in.FPS != 25 || in.BufferCapacity != 10 || in.CPUThrottling != 4 || in.Headers["X-Test"] != "1" {
		t.Errorf("record input not built from config: %+v", in)
	}
}

func TestOrchestrator_Run_Streaming(t *testing.T) {
	recordStage := &mockRecordStage{
		result: pipeline.RecordResult{Reason: pipeline.StopDuration},
	}
	probeStage := &mockProbeStage{}
	fs := mocks.NewFileSystem()
	fs.LockFunc = func(path string) (func() error, error) {
		t.Errorf("streamed output must not be locked, got %q", path)
		return func() error { return nil }, nil
	}

	orch := New(recordStage, probeStage, fs, mocks.NewDebugSink(false), logger.NewNoop())
	config := testConfig()
	config.OutputPath = StdoutPath

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if probeStage.calls != 0 {
		t.Errorf("expected no probe for streamed output, got %d calls", probeStage.calls)
	}
	if result.Probed || result.OutputPath != StdoutPath {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestOrchestrator_Run_RecordError(t *testing.T) {
	boom := errors.New("chrome crashed")
	probeStage := &mockProbeStage{}
	fs := mocks.NewFileSystem()

	orch := New(&mockRecordStage{err: boom}, probeStage, fs, mocks.NewDebugSink(false), logger.NewNoop())
	if _, err := orch.Run(context.Background(), testConfig()); !errors.Is(err, boom) {
		t.Fatalf("expected record error, got %v", err)
	}
	if probeStage.calls != 0 {
		t.Error("probe must not run after a failed recording")
	}
	if fs.IsLocked("output.mp4") {
		t.Error("expected output lock released on failure")
	}
}

func TestOrchestrator_Run_ProbeErrorIsNotFatal(t *testing.T) {
	probeStage := &mockProbeStage{err: errors.New("truncated")}

	orch := New(&mockRecordStage{}, probeStage, mocks.NewFileSystem(), mocks.NewDebugSink(false), logger.NewNoop())
	result, err := orch.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Probed {
		t.Error("expected no video details after a failed probe")
	}
}

func TestOrchestrator_Run_OutputLocked(t *testing.T) {
	fs := mocks.NewFileSystem()
	unlock, _ := fs.Lock("output.mp4")
	defer unlock()
	recordStage := &mockRecordStage{}

	orch := New(recordStage, &mockProbeStage{}, fs, mocks.NewDebugSink(false), logger.NewNoop())
	if _, err := orch.Run(context.Background(), testConfig()); err == nil {
		t.Fatal("expected a lock error")
	}
	if recordStage.input.URL != "" {
		t.Error("recording must not start while the output is locked")
	}
}

func TestOrchestrator_Run_RequiresOutput(t *testing.T) {
	config := testConfig()
	config.OutputPath = ""

	record := pipeline.StageFunc[pipeline.RecordInput, pipeline.RecordResult](
		func(context.Context, pipeline.RecordInput) (pipeline.RecordResult, error) {
			t.Error("record stage must not run without an output path")
			return pipeline.RecordResult{}, nil
		})

	orch := New(record, &mockProbeStage{}, mocks.NewFileSystem(), mocks.NewDebugSink(false), logger.NewNoop())
	if _, err := orch.Run(context.Background(), config); !errors.Is(err, ErrNoOutput) {
		t.Errorf("expected ErrNoOutput, got %v", err)
	}
}

func TestOrchestrator_Run_WithDebugSink(t *testing.T) {
	sink := mocks.NewDebugSink(true)

	orch := New(&mockRecordStage{}, &mockProbeStage{}, mocks.NewFileSystem(), sink, logger.NewNoop())
	if _, err := orch.Run(context.Background(), testConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.ConfigJSON) == 0 {
		t.Error("expected config JSON to be saved")
	}
}

func TestOrchestrator_Run_Interrupted(t *testing.T) {
	log := mocks.NewLogger()
	recordStage := &mockRecordStage{result: pipeline.RecordResult{Reason: pipeline.StopInterrupted}}

	orch := New(recordStage, &mockProbeStage{}, mocks.NewFileSystem(), mocks.NewDebugSink(false), log)
	result, err := orch.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("interrupted recordings still succeed, got %v", err)
	}
	if result.Reason != pipeline.StopInterrupted {
		t.Errorf("expected interrupted reason, got %s", result.Reason)
	}
	if log.Count(ports.LevelWarn, "interrupted") != 1 {
		t.Error("expected an interruption warning")
	}
}
